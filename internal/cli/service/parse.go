package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"VoiceLedger/internal/cli/model"
)

// ErrParseFailure — ответ модели не удалось разобрать в структуру расхода.
// Молчаливых значений по умолчанию при этом не бывает: пользователь
// должен видеть, что распознавание не удалось.
var ErrParseFailure = errors.New("failed to parse model completion")

const promptTemplate = `You are an expense extraction assistant. Today's date is %s.
Extract a single expense record from the transcript below and reply with ONLY a JSON object,
no prose, with exactly these fields:
  "dateSpent": "YYYY-MM-DD" (resolve words like "yesterday" against today's date; empty string if not mentioned),
  "amountSpent": number,
  "spentOn": one of "Food", "Travel", "Shopping", "Bills", "Entertainment", "Other",
  "spentThrough": one of "Cash", "UPI", "Card",
  "selfOrOthersIncluded": one of "Self", "Others",
  "paidTo": recipient name or empty string,
  "description": short summary of the expense.

Transcript: %s`

type contentPart struct {
	Text string `json:"text"`
}

type content struct {
	Parts []contentPart `json:"parts"`
}

// generatePayload — тело запроса к /api/ai в формате generateContent.
type generatePayload struct {
	Contents []content `json:"contents"`
}

// BuildPrompt собирает запрос на извлечение расхода из расшифровки речи.
// today — дата в формате YYYY-MM-DD, относительно неё модель разрешает
// слова вроде «вчера».
func BuildPrompt(transcript, today string) any {
	text := fmt.Sprintf(promptTemplate, today, transcript)
	return generatePayload{Contents: []content{{Parts: []contentPart{{Text: text}}}}}
}

type completionResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ParseCompletion извлекает черновик расхода из ответа generateContent:
// берётся текст первого кандидата, markdown-ограждения срезаются,
// остаток разбирается как строгий JSON.
func ParseCompletion(body []byte) (model.Expense, error) {
	var cr completionResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return model.Expense{}, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if len(cr.Candidates) == 0 || len(cr.Candidates[0].Content.Parts) == 0 {
		return model.Expense{}, fmt.Errorf("%w: empty completion", ErrParseFailure)
	}
	text := stripFences(cr.Candidates[0].Content.Parts[0].Text)

	var draft model.Expense
	if err := json.Unmarshal([]byte(text), &draft); err != nil {
		return model.Expense{}, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	return draft, nil
}

// stripFences срезает markdown-ограждения вида ```json ... ```.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// FinishDraft дополняет черновик обязательными значениями: дата по
// умолчанию — сегодня, получатель — "Others".
func FinishDraft(draft *model.Expense, today string) {
	if draft.DateSpent == "" {
		draft.DateSpent = today
	}
	if draft.PaidTo == "" {
		draft.PaidTo = "Others"
	}
}

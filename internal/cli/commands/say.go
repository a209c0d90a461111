package commands

import (
	"VoiceLedger/internal/config"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"VoiceLedger/internal/cli/api"
	"VoiceLedger/internal/cli/service"

	"github.com/google/uuid"
)

type sayCmd struct{}

func (sayCmd) Name() string { return "say" }
func (sayCmd) Description() string {
	return "Распознать расход из фразы через AI и сохранить его"
}
func (sayCmd) Usage() string { return "say \"<transcript>\"" }

func (sayCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	transcript := strings.TrimSpace(strings.Join(args, " "))
	if transcript == "" {
		return ErrUsage
	}

	token, err := authStore(cfg).Load()
	if err != nil {
		return fmt.Errorf("нет токена авторизации: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/ai"
	resp, body, err := api.PostJSON(endpoint, service.BuildPrompt(transcript, today), token)
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return fmt.Errorf("session expired: run login")
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limit: %s", strings.TrimSpace(string(body)))
	case http.StatusBadRequest:
		return fmt.Errorf("AI key not configured: run set-key <api-key>")
	default:
		return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
	}

	draft, err := service.ParseCompletion(body)
	if err != nil {
		return err
	}
	service.FinishDraft(&draft, today)
	draft.ID = uuid.NewString()
	if draft.Description == "" {
		draft.Description = transcript
	}

	engine, cleanup, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ch, err := engine.AddExpense(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Saved locally:")
	printExpense(draft)
	reportSync(<-ch)
	engine.Wait()
	return nil
}

func init() { RegisterCmd(sayCmd{}) }

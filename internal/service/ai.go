package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrUpstreamFailure — сетевая или протокольная ошибка upstream AI-сервиса.
var ErrUpstreamFailure = errors.New("upstream failure")

// AIService проксирует запросы извлечения к upstream generateContent,
// подставляя расшифрованный ключ пользователя. Тело ответа возвращается
// как есть: разбор результата — забота клиента.
type AIService struct {
	keys     *KeyService
	endpoint string
	client   *http.Client
	logger   *zap.SugaredLogger
}

func NewAIService(keys *KeyService, endpoint string, logger *zap.SugaredLogger) *AIService {
	return &AIService{
		keys:     keys,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Generate отправляет contents в upstream от имени пользователя.
func (s *AIService) Generate(ctx context.Context, email string, contents json.RawMessage) ([]byte, error) {
	apiKey, err := s.keys.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]json.RawMessage{"contents": contents})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUpstreamFailure, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		s.logger.Warnw("upstream AI error", "status", resp.StatusCode, "email", email)
		return nil, fmt.Errorf("%w: upstream status %d", ErrUpstreamFailure, resp.StatusCode)
	}
	return body, nil
}

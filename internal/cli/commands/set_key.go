package commands

import (
	"VoiceLedger/internal/config"
	"context"
	"fmt"
	"net/http"
	"strings"

	"VoiceLedger/internal/cli/api"
)

type setKeyCmd struct{}

func (setKeyCmd) Name() string        { return "set-key" }
func (setKeyCmd) Description() string { return "Сохранить персональный AI-ключ (хранится зашифрованным)" }
func (setKeyCmd) Usage() string       { return "set-key <api-key>" }

func (setKeyCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || args[0] == "" {
		return ErrUsage
	}
	token, err := authStore(cfg).Load()
	if err != nil {
		return fmt.Errorf("нет токена авторизации: %w", err)
	}

	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/user/apikey"
	payload := map[string]string{"apiKey": args[0]}
	resp, body, err := api.PostJSON(endpoint, payload, token)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("session expired: run login")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
	}
	fmt.Fprintln(Out, "AI key saved")
	return nil
}

func init() { RegisterCmd(setKeyCmd{}) }

package commands

import (
	"VoiceLedger/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"VoiceLedger/internal/cli/api"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Показать текущего пользователя и наличие AI-ключа" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(_ context.Context, cfg *config.Config, _ []string) error {
	store := authStore(cfg)
	login, err := store.LoadLogin()
	if err != nil {
		fmt.Fprintln(Out, "Not logged in: run login or register")
		return nil
	}
	token, err := store.Load()
	if err != nil {
		fmt.Fprintf(Out, "User: %s (no auth token, run login)\n", login)
		return nil
	}

	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/user/apikey"
	resp, body, err := api.GetJSON(endpoint, token)
	if err != nil {
		fmt.Fprintf(Out, "User: %s\nServer: unreachable (%v)\n", login, err)
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		fmt.Fprintf(Out, "User: %s\nSession expired: run login\n", login)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var er struct {
		Exists bool `json:"exists"`
	}
	if err := json.Unmarshal(body, &er); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintf(Out, "User: %s\nAI key configured: %v\n", login, er.Exists)
	return nil
}

func init() { RegisterCmd(statusCmd{}) }

package commands

import (
	"VoiceLedger/internal/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"VoiceLedger/internal/cli/api"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Войти и сохранить auth cookie" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	email := strings.ToLower(strings.TrimSpace(args[0]))
	password := args[1]

	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/user/login"
	resp, body, err := api.PostJSON(endpoint, credentialsRequest{Email: email, Password: password}, "")
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return errors.New("invalid email or password")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
	}
	if err := api.PersistAuthFromResponse(resp, authStore(cfg)); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	if err := authStore(cfg).SaveLogin(email); err != nil {
		return fmt.Errorf("saving login: %w", err)
	}
	fmt.Fprintln(Out, "Logged in as", email)
	return nil
}

func init() { RegisterCmd(loginCmd{}) }

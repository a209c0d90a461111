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

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Создать аккаунт и сохранить auth cookie" }
func (registerCmd) Usage() string       { return "register <email> <password>" }

func (registerCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	email := strings.ToLower(strings.TrimSpace(args[0]))
	password := args[1]

	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/user/register"
	resp, body, err := api.PostJSON(endpoint, credentialsRequest{Email: email, Password: password}, "")
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusConflict {
		return errors.New("email already registered")
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
	fmt.Fprintln(Out, "Registered and logged in as", email)
	return nil
}

func init() { RegisterCmd(registerCmd{}) }

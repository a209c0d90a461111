package commands

import (
	"fmt"
	"strings"

	"VoiceLedger/internal/cli/bootstrap"
	fsrepo "VoiceLedger/internal/cli/repo/fs"
	"VoiceLedger/internal/cli/service"
	"VoiceLedger/internal/config"
)

// authStore возвращает файловое хранилище токена с учётом cfg.TokenFile.
func authStore(cfg *config.Config) fsrepo.AuthFSStore {
	return fsrepo.AuthFSStore{TokenFile: cfg.TokenFile}
}

// openEngine собирает sync-движок для текущего пользователя.
// cleanup закрывает локальную БД и должен вызываться после Engine.Wait().
func openEngine(cfg *config.Config) (*service.Engine, func() error, error) {
	st, cleanup, err := bootstrap.OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	serverURL := strings.TrimRight(cfg.ServerURL, "/")
	return service.NewEngine(serverURL, st, authStore(cfg)), cleanup, nil
}

// reportSync печатает итог доставки одной записи.
func reportSync(res service.SyncResult) {
	switch {
	case res.Delivered:
		fmt.Fprintln(Out, "✓ Доставлено на сервер")
	case res.Queued:
		fmt.Fprintln(Out, "! Сервер недоступен: запись в fallback-очереди, повторите resync <id>")
	case res.Err != nil:
		fmt.Fprintf(Out, "× Доставка не удалась: %v\n", res.Err)
	}
}

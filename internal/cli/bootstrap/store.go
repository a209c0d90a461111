package bootstrap

import (
	"fmt"

	fsrepo "VoiceLedger/internal/cli/repo/fs"
	"VoiceLedger/internal/cli/store"
	"VoiceLedger/internal/config"
)

// OpenStore открывает локальную БД расходов текущего пользователя в
// каталоге cfg.ClientDBPath, выполняет миграции и возвращает
// (store, cleanup, error). cleanup необходимо вызвать после окончания
// работы, чтобы закрыть соединение с БД.
func OpenStore(cfg *config.Config) (*store.Store, func() error, error) {
	login, err := (fsrepo.AuthFSStore{}).LoadLogin()
	if err != nil {
		return nil, nil, fmt.Errorf("нет активного пользователя: выполните login/register: %w", err)
	}
	s, _, err := store.OpenForUser(login, cfg.ClientDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open user db: %w", err)
	}
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, nil, fmt.Errorf("migrate user db: %w", err)
	}
	cleanup := func() error { return s.Close() }
	return s, cleanup, nil
}

package commands

import (
	"VoiceLedger/internal/config"
	"context"
	"fmt"
)

type resyncCmd struct{}

func (resyncCmd) Name() string { return "resync" }
func (resyncCmd) Description() string {
	return "Повторно доставить запись, застрявшую в fallback-очереди"
}
func (resyncCmd) Usage() string { return "resync <id>" }

func (resyncCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || args[0] == "" {
		return ErrUsage
	}

	engine, cleanup, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := engine.Resync(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "✓ Запись доставлена, fallback-очередь очищена")
	return nil
}

func init() { RegisterCmd(resyncCmd{}) }

package commands

import (
	"VoiceLedger/internal/config"
	"context"
	"fmt"
)

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Удалить расход локально и на сервере" }
func (deleteCmd) Usage() string       { return "delete <id>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || args[0] == "" {
		return ErrUsage
	}

	engine, cleanup, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := engine.DeleteExpense(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Deleted locally; remote delete attempted in background")
	engine.Wait()
	return nil
}

func init() { RegisterCmd(deleteCmd{}) }

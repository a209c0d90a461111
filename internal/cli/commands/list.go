package commands

import (
	"VoiceLedger/internal/config"
	"context"
	"fmt"
	"strconv"
	"time"

	"VoiceLedger/internal/cli/model"
)

type listCmd struct{}

func (listCmd) Name() string        { return "list" }
func (listCmd) Description() string { return "Показать расходы за месяц (локальная копия при недоступном сервере)" }
func (listCmd) Usage() string       { return "list [<year> <month>]" }

func (listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if len(args) >= 2 {
		y, err1 := strconv.Atoi(args[0])
		m, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil || m < 1 || m > 12 {
			return ErrUsage
		}
		year, month = y, m
	} else if len(args) == 1 {
		return ErrUsage
	}

	engine, cleanup, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	expenses, source, err := engine.List(ctx, year, month)
	if err != nil {
		return err
	}
	if source == "local" {
		fmt.Fprintln(Out, "! Сервер недоступен: показана локальная копия")
	}
	if len(expenses) == 0 {
		fmt.Fprintf(Out, "Нет расходов за %04d-%02d\n", year, month)
		return nil
	}
	var total float64
	for _, e := range expenses {
		printExpense(e)
		total += e.AmountSpent
	}
	fmt.Fprintf(Out, "Всего: %.2f (%d записей)\n", total, len(expenses))
	return nil
}

func printExpense(e model.Expense) {
	fmt.Fprintf(Out, "  %s  %s  %8.2f  %-13s %-5s %s\n",
		e.ID, e.DateSpent, e.AmountSpent, e.SpentOn, e.SpentThrough, e.Description)
}

func init() { RegisterCmd(listCmd{}) }

package commands

import (
	"VoiceLedger/internal/config"
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"VoiceLedger/internal/cli/model"

	"github.com/google/uuid"
)

type addCmd struct{}

func (addCmd) Name() string        { return "add" }
func (addCmd) Description() string { return "Добавить расход вручную" }
func (addCmd) Usage() string {
	return "add <amount> <category> [--date YYYY-MM-DD] [--via Cash|UPI|Card] [--for Self|Others] [--to <payee>] [--desc <text>]"
}

func (addCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || amount < 0 {
		return ErrUsage
	}
	category := args[1]

	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	date := fs.String("date", time.Now().Format("2006-01-02"), "дата расхода")
	via := fs.String("via", "Cash", "способ оплаты")
	scope := fs.String("for", "Self", "Self|Others")
	payee := fs.String("to", "", "получатель")
	desc := fs.String("desc", "", "описание")
	if err := fs.Parse(args[2:]); err != nil {
		return ErrUsage
	}

	exp := model.Expense{
		ID:                   uuid.NewString(),
		DateSpent:            *date,
		AmountSpent:          amount,
		SpentOn:              category,
		SpentThrough:         *via,
		SelfOrOthersIncluded: *scope,
		PaidTo:               *payee,
		Description:          *desc,
	}

	engine, cleanup, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ch, err := engine.AddExpense(ctx, exp)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Saved locally:")
	printExpense(exp)
	reportSync(<-ch)
	engine.Wait()
	return nil
}

func init() { RegisterCmd(addCmd{}) }

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/amirasaad/ledger/infra/initializer"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/service/ledger"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

const usage = `Usage: cli <group> <command> [arguments]

  account create <number> <balance> <customer_name> <Savings|Checking>
  account get    <number>
  account delete <number>
  tx create <transaction_id> <account_number> <amount> <Deposit|Withdraw> <description> <status>
  tx get    <transaction_id>
  tx delete <transaction_id>
  tx list   <account_number>`

var (
	errUsage = errors.New("invalid usage")

	okColor    = color.New(color.FgGreen, color.Bold)
	errColor   = color.New(color.FgRed, color.Bold)
	labelColor = color.New(color.FgCyan)
)

func main() {
	color.NoColor = color.NoColor || config.GetEnvAsBool(config.NoColorVar, false)

	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	svc, cleanup, err := newService()
	if err != nil {
		errColor.Fprintln(os.Stderr, "startup failed:", err) //nolint:errcheck
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetEnvAsDuration(config.CLITimeoutVar, 30*time.Second))
	err = run(ctx, svc, os.Args[1:], os.Stdout)
	cancel()
	_ = cleanup()

	if err != nil {
		errColor.Fprintln(os.Stderr, "error:", err) //nolint:errcheck
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newService() (*ledger.Service, initializer.Cleanup, error) {
	cfg, err := config.Load(config.EnvFile())
	if err != nil {
		return nil, nil, err
	}
	logger := initializer.NewLogger(cfg.Log, os.Stderr)
	deps, cleanup, err := initializer.Initialize(context.Background(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return app.New(deps, cfg).LedgerService, cleanup, nil
}

func run(ctx context.Context, svc *ledger.Service, args []string, out io.Writer) error {
	if len(args) < 2 {
		return errUsage
	}
	group, cmd, rest := args[0], args[1], args[2:]
	switch group {
	case "account":
		return runAccount(ctx, svc, cmd, rest, out)
	case "tx":
		return runTransaction(ctx, svc, cmd, rest, out)
	default:
		return fmt.Errorf("%w: unknown group %q", errUsage, group)
	}
}

func runAccount(ctx context.Context, svc *ledger.Service, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "create":
		if len(args) != 4 {
			return errUsage
		}
		balance, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid balance %q: %w", args[1], err)
		}
		t, ok := account.ParseType(args[3])
		if !ok {
			t = account.Type(args[3])
		}
		a, err := svc.CreateAccount(ctx, ledger.CreateAccountCommand{
			Number: args[0], Balance: balance, CustomerName: args[2], Type: t,
		})
		if err != nil {
			return err
		}
		okColor.Fprintln(out, "Account created") //nolint:errcheck
		printAccount(out, a)
	case "get":
		if len(args) != 1 {
			return errUsage
		}
		a, err := svc.GetAccount(ctx, args[0])
		if err != nil {
			return err
		}
		printAccount(out, a)
	case "delete":
		if len(args) != 1 {
			return errUsage
		}
		if err := svc.DeleteAccount(ctx, args[0]); err != nil {
			return err
		}
		okColor.Fprintf(out, "Account %s deleted\n", args[0]) //nolint:errcheck
	default:
		return fmt.Errorf("%w: unknown account command %q", errUsage, cmd)
	}
	return nil
}

func runTransaction(ctx context.Context, svc *ledger.Service, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "create":
		if len(args) != 6 {
			return errUsage
		}
		amount, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[2], err)
		}
		t, ok := account.ParseTransactionType(args[3])
		if !ok {
			t = account.TransactionType(args[3])
		}
		tx, err := svc.CreateTransaction(ctx, ledger.CreateTransactionCommand{
			TransactionID: args[0], AccountNumber: args[1], Amount: amount,
			Type: t, Description: args[4], Status: args[5],
		})
		if err != nil {
			return err
		}
		okColor.Fprintln(out, "Transaction created") //nolint:errcheck
		printTransaction(out, tx)
	case "get":
		if len(args) != 1 {
			return errUsage
		}
		tx, err := svc.GetTransaction(ctx, args[0])
		if err != nil {
			return err
		}
		printTransaction(out, tx)
	case "delete":
		if len(args) != 1 {
			return errUsage
		}
		if err := svc.DeleteTransaction(ctx, args[0]); err != nil {
			return err
		}
		okColor.Fprintf(out, "Transaction %s deleted\n", args[0]) //nolint:errcheck
	case "list":
		if len(args) != 1 {
			return errUsage
		}
		txs, err := svc.ListTransactionsForAccount(ctx, args[0])
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			fmt.Fprintf(out, "No transactions for account %s\n", args[0])
			return nil
		}
		for _, tx := range txs {
			printTransaction(out, tx)
		}
	default:
		return fmt.Errorf("%w: unknown tx command %q", errUsage, cmd)
	}
	return nil
}

func printAccount(out io.Writer, a *account.Account) {
	field(out, "Number", a.Number)
	field(out, "Customer", a.CustomerName)
	field(out, "Type", string(a.Type))
	field(out, "Balance", a.Balance.StringFixed(2))
}

func printTransaction(out io.Writer, tx *account.Transaction) {
	fmt.Fprintf(out, "%s %s %s %s %s %s\n",
		labelColor.Sprint(tx.TransactionID),
		tx.AccountNumber,
		tx.Type,
		tx.Amount.StringFixed(2),
		tx.Status,
		tx.Timestamp.Format(time.RFC3339),
	)
}

func field(out io.Writer, label, value string) {
	fmt.Fprintf(out, "%s %s\n", labelColor.Sprintf("%-9s", label+":"), value)
}

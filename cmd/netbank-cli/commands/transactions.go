package commands

import (
	"fmt"
	"io"
	"netbank/lib/commbank"
	"netbank/lib/timezone"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var legacyUrl *string

func init() {
	legacyUrl = transactionsCmd.Flags().String("legacy-url", "", "Read transactions from this legacy transaction history page instead of the api.")
	rootCmd.AddCommand(transactionsCmd)
}

func renderTransactions(out io.Writer, transactions []commbank.Transaction) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Date", "Payee", "Description", "Amount", "Balance"})
	for _, txn := range transactions {
		t.AppendRow(table.Row{
			time.Unix(txn.Timestamp, 0).In(timezone.Location).Format(time.DateOnly),
			txn.Payee,
			txn.Description,
			txn.Amount.StringFixed(2),
			txn.Balance.StringFixed(2),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions <account number or name>",
	Short: "Prints the recent transactions of an account.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if *legacyUrl == "" && len(args) == 0 {
			return fmt.Errorf("an account number or name is required")
		}

		ctx := cmd.Context()
		client, err := login(ctx)
		if err != nil {
			return err
		}

		if *legacyUrl != "" {
			transactions, err := client.LegacyTransactions(ctx, *legacyUrl)
			if err != nil {
				return err
			}
			renderTransactions(os.Stdout, transactions)
			return nil
		}

		accounts, err := client.Accounts(ctx)
		if err != nil {
			return err
		}
		account, err := findAccount(accounts, args[0])
		if err != nil {
			return err
		}
		transactions, err := account.Transactions(ctx)
		if err != nil {
			return err
		}
		renderTransactions(os.Stdout, transactions)
		return nil
	},
}

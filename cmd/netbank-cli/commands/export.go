package commands

import (
	"log/slog"
	"netbank/internal/export"
	"netbank/lib/timezone"

	"github.com/spf13/cobra"
)

var exportDb *string

func init() {
	exportDb = exportCmd.Flags().String("db", "netbank.db", "The sqlite database to write the snapshot to.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--db <path/to/output.db>]",
	Short: "Fetches every account and its transactions and writes them to a sqlite database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := login(ctx)
		if err != nil {
			return err
		}
		accounts, err := client.Accounts(ctx)
		if err != nil {
			return err
		}

		items := make([]export.AccountTransactions, 0, len(accounts))
		for _, account := range accounts {
			transactions, err := account.Transactions(ctx)
			if err != nil {
				return err
			}
			slog.Info("fetched transactions", "account", account.String(), "count", len(transactions))
			items = append(items, export.AccountTransactions{
				Account:      account.AccountData,
				Transactions: transactions,
			})
		}

		db, err := export.Open(*exportDb)
		if err != nil {
			return err
		}
		defer db.Close()

		err = export.Write(ctx, db, timezone.Now(), items)
		if err != nil {
			return err
		}
		slog.Info("export finished", "db", *exportDb, "accounts", len(items))
		return nil
	},
}

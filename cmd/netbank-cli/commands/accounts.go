package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(accountsCmd)
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Prints your accounts with their balances.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := login(cmd.Context())
		if err != nil {
			return err
		}
		accounts, err := client.Accounts(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Name", "BSB", "Number", "Balance", "Available"})
		for _, account := range accounts {
			t.AppendRow(table.Row{
				account.Name,
				account.Bsb,
				account.Number,
				account.Balance.StringFixed(2),
				account.AvailableBalance.StringFixed(2),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}

package commbank

import (
	"context"
	"encoding/json"
	"fmt"
)

// Account is one of the user's accounts. It stays valid for as long as the
// session of the client that produced it.
type Account struct {
	AccountData
	// Raw is the unmodified record from the accounts API.
	Raw json.RawMessage

	client *Client
}

func newAccount(client *Client, raw json.RawMessage) (*Account, error) {
	data, err := ParseAccount(raw)
	if err != nil {
		return nil, err
	}
	return &Account{
		AccountData: data,
		Raw:         raw,
		client:      client,
	}, nil
}

// Transactions fetches the recent transactions of this account.
func (a *Account) Transactions(ctx context.Context) ([]Transaction, error) {
	return a.client.Transactions(ctx, a)
}

func (a *Account) String() string {
	return fmt.Sprintf(
		"<Account '%s' %s %s: $%s/%s>",
		a.Name, a.Bsb, a.Number,
		a.AvailableBalance.StringFixed(2), a.Balance.StringFixed(2),
	)
}

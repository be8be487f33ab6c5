package commbank

import (
	"context"
	devenv "netbank/dev/env"
	"netbank/lib/telemetry"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLive runs the whole flow against the real bank, it is skipped unless
// dev/.state/netbank_config.json5 holds credentials.
func TestLive(t *testing.T) {
	config, err := devenv.GetStateConfig[devenv.NetBankTestConfig]("netbank_config.json5")
	if err != nil || config.ClientNumber == "" {
		t.Skip("no live netbank credentials configured")
	}

	tel, err := telemetry.SetupFromEnv(context.Background(), "test:lib/commbank")
	if err != nil {
		t.Fatal(err)
	}
	defer tel.Shutdown(context.Background())

	ctx, span := tracer.Start(context.Background(), "TestLive")
	defer span.End()

	client, err := NewClient(ClientOptions{})
	if err != nil {
		t.Fatal(err)
	}
	err = client.Login(ctx, config.ClientNumber, config.Password)
	if err != nil {
		t.Fatal(err)
	}

	accounts, err := client.Accounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Greater(t, len(accounts), 0)
	for _, account := range accounts {
		require.Equal(t, 6, len(account.Bsb))
	}

	if config.AccountNumber == "" {
		return
	}
	account, err := client.Account(ctx, config.AccountNumber)
	if err != nil {
		t.Fatal(err)
	}
	require.NotNil(t, account)

	_, err = account.Transactions(ctx)
	if err != nil {
		t.Fatal(err)
	}
}

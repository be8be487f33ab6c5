package export

import (
	"context"
	"netbank/lib/commbank"
	"netbank/lib/testutil"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

func testAccount() commbank.AccountData {
	return commbank.AccountData{
		Name:             "Smart Access",
		Bsb:              "062000",
		Number:           "123456789",
		Balance:          decimal.RequireFromString("1520.55"),
		AvailableBalance: decimal.RequireFromString("1480.05"),
		Link:             "/retail/netbank/accounts/?account=a1b2c3",
	}
}

func TestWriteAndRead(t *testing.T) {
	db := testutil.OpenDB(t, Schema)
	ctx := context.Background()

	transactions := []commbank.Transaction{
		{
			Timestamp:      1709608811,
			Date:           "2024-03-05T14:20:11.123+11:00",
			Payee:          "PENDING - WOOLWORTHS",
			RawDescription: "PENDING - WOOLWORTHS\nCard xx1234",
			Amount:         decimal.RequireFromString("-54.30"),
			Balance:        decimal.Zero,
		},
		{
			Timestamp:      1709503200,
			Date:           "2024-03-04T09:00:00+11:00",
			Payee:          "John Smith",
			Description:    "Rent March",
			RawDescription: "Transfer to John Smith\nCommBank App Rent March",
			Amount:         decimal.RequireFromString("-450"),
			Balance:        decimal.RequireFromString("1574.85"),
			TranCode:       "T-1",
			ReceiptNumber:  "N0304",
		},
	}

	err := Write(ctx, db, time.Unix(1710000000, 0), []AccountTransactions{
		{Account: testAccount(), Transactions: transactions},
	})
	require.NoError(t, err)

	read, err := ReadTransactions(ctx, db, "062000", "123456789")
	require.NoError(t, err)
	diff := cmp.Diff(transactions, read, decimalComparer)
	if diff != "" {
		t.Fatal(diff)
	}

	var name, balance string
	var exportedAt int64
	err = db.QueryRow(
		"select name, balance, exported_at from account where bsb = ? and number = ?",
		"062000", "123456789",
	).Scan(&name, &balance, &exportedAt)
	require.NoError(t, err)
	require.Equal(t, "Smart Access", name)
	require.Equal(t, "1520.55", balance)
	require.Equal(t, int64(1710000000), exportedAt)
}

func TestWriteReplacesSnapshot(t *testing.T) {
	db := testutil.OpenDB(t, Schema)
	ctx := context.Background()

	first := []commbank.Transaction{
		{Payee: "a", Amount: decimal.NewFromInt(1), Balance: decimal.NewFromInt(1)},
		{Payee: "b", Amount: decimal.NewFromInt(2), Balance: decimal.NewFromInt(3)},
	}
	second := []commbank.Transaction{
		{Payee: "c", Amount: decimal.NewFromInt(-1), Balance: decimal.NewFromInt(2)},
	}

	account := testAccount()
	require.NoError(t, Write(ctx, db, time.Unix(1, 0), []AccountTransactions{{Account: account, Transactions: first}}))

	account.Name = "Renamed"
	require.NoError(t, Write(ctx, db, time.Unix(2, 0), []AccountTransactions{{Account: account, Transactions: second}}))

	read, err := ReadTransactions(ctx, db, account.Bsb, account.Number)
	require.NoError(t, err)
	require.Len(t, read, 1)
	require.Equal(t, "c", read[0].Payee)

	var count int
	require.NoError(t, db.QueryRow("select count(*) from account").Scan(&count))
	require.Equal(t, 1, count)

	var name string
	require.NoError(t, db.QueryRow("select name from account").Scan(&name))
	require.Equal(t, "Renamed", name)
}

func TestReadTransactionsUnknownAccount(t *testing.T) {
	db := testutil.OpenDB(t, Schema)
	read, err := ReadTransactions(context.Background(), db, "000000", "1")
	require.NoError(t, err)
	require.Empty(t, read)
}

// Package export writes a snapshot of accounts and their transactions into a
// sqlite database. Each export replaces the previous snapshot of an account.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"netbank/lib/commbank"
	"netbank/lib/sqliteutil"
	"time"

	_ "embed"

	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var Schema string

type AccountTransactions struct {
	Account      commbank.AccountData
	Transactions []commbank.Transaction
}

func Open(path string) (*sql.DB, error) {
	return sqliteutil.OpenDB(Schema, path)
}

// Write stores every account and replaces all of its previously exported
// transactions, in a single database transaction.
func Write(ctx context.Context, db *sql.DB, exportedAt time.Time, items []AccountTransactions) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		err = writeAccount(ctx, tx, exportedAt, item)
		if err != nil {
			return fmt.Errorf("export account %s %s: %w", item.Account.Bsb, item.Account.Number, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

func writeAccount(ctx context.Context, tx *sql.Tx, exportedAt time.Time, item AccountTransactions) error {
	account := item.Account

	_, err := tx.ExecContext(
		ctx,
		`insert into account (bsb, number, name, balance, available_balance, exported_at)
		values (?, ?, ?, ?, ?, ?)
		on conflict (bsb, number) do update set
			name = excluded.name,
			balance = excluded.balance,
			available_balance = excluded.available_balance,
			exported_at = excluded.exported_at`,
		account.Bsb, account.Number, account.Name,
		account.Balance.String(), account.AvailableBalance.String(),
		exportedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}

	_, err = tx.ExecContext(
		ctx,
		"delete from account_transaction where bsb = ? and number = ?",
		account.Bsb, account.Number,
	)
	if err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		`insert into account_transaction (
			bsb, number, position, timestamp, date, payee, description,
			raw_description, amount, balance, trancode, receipt_number, link
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range item.Transactions {
		_, err = stmt.ExecContext(
			ctx,
			account.Bsb, account.Number, i, t.Timestamp, t.Date, t.Payee,
			t.Description, t.RawDescription, t.Amount.String(), t.Balance.String(),
			t.TranCode, t.ReceiptNumber, t.Link,
		)
		if err != nil {
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}
	return nil
}

// ReadTransactions returns the exported transactions of an account in the
// order they were received from the bank.
func ReadTransactions(ctx context.Context, db *sql.DB, bsb, number string) ([]commbank.Transaction, error) {
	rows, err := db.QueryContext(
		ctx,
		`select timestamp, date, payee, description, raw_description, amount,
			balance, trancode, receipt_number, link
		from account_transaction
		where bsb = ? and number = ?
		order by position`,
		bsb, number,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []commbank.Transaction
	for rows.Next() {
		var t commbank.Transaction
		var amount, balance string
		err = rows.Scan(
			&t.Timestamp, &t.Date, &t.Payee, &t.Description, &t.RawDescription,
			&amount, &balance, &t.TranCode, &t.ReceiptNumber, &t.Link,
		)
		if err != nil {
			return nil, err
		}
		t.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("amount %q: %w", amount, err)
		}
		t.Balance, err = decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("balance %q: %w", balance, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

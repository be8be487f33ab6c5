package commbank

import "github.com/shopspring/decimal"

// Transaction is a single normalized transaction, produced by both the current
// transactions API and the legacy transaction history page.
type Transaction struct {
	// Timestamp is in epoch seconds.
	Timestamp int64
	// Date is the date as the source reported it, its format depends on the source.
	Date           string
	Payee          string
	Description    string
	RawDescription string
	// Amount is negative for debits.
	Amount decimal.Decimal
	// Balance is the running account balance after this transaction.
	Balance       decimal.Decimal
	TranCode      string
	ReceiptNumber string
	// Link is only present on transactions from the legacy history page.
	Link string
}

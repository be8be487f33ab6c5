package commbank

import (
	"encoding/json"
	"fmt"
	"netbank/lib/timezone"
	"time"

	"github.com/shopspring/decimal"
)

type apiTransaction struct {
	Description   *string             `json:"description"`
	CreatedDate   string              `json:"createdDate"`
	Amount        decimal.NullDecimal `json:"amount"`
	RunningTotal  decimal.NullDecimal `json:"runningTotal"`
	TransactionId string              `json:"transactionId"`
	ReceiptNumber string              `json:"receiptNumber"`
}

type apiTransactionsResponse struct {
	Transactions *[]apiTransaction `json:"transactions"`
}

// offset-less layouts are interpreted in the bank's timezone
var localIsoLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseIsoTimestamp parses an ISO-8601 date or date-time. Values without an
// offset are taken to be in Sydney time.
func ParseIsoTimestamp(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err == nil {
		return parsed, nil
	}
	for _, layout := range localIsoLayouts {
		parsed, err := timezone.ParseLocal(layout, value)
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("not an iso-8601 timestamp: %q", value)
}

// ParseApiTransactions decodes the body of the transactions API.
func ParseApiTransactions(body []byte) ([]Transaction, error) {
	var res apiTransactionsResponse
	err := json.Unmarshal(body, &res)
	if err != nil {
		return nil, badResponse("decode transactions: %w", err)
	}
	if res.Transactions == nil {
		return nil, badResponse("response has no transactions")
	}

	transactions := make([]Transaction, 0, len(*res.Transactions))
	for i, t := range *res.Transactions {
		if t.Description == nil {
			return nil, badResponse("transaction %d has no description", i)
		}
		if !t.Amount.Valid {
			return nil, badResponse("transaction %d has no amount", i)
		}
		created, err := ParseIsoTimestamp(t.CreatedDate)
		if err != nil {
			return nil, badResponse("transaction %d: %w", i, err)
		}

		payee, desc := ParseTransactionDescription(*t.Description)
		// pending transactions have no running total yet, their balance stays zero
		transactions = append(transactions, Transaction{
			Timestamp:      created.Unix(),
			Date:           t.CreatedDate,
			Payee:          payee,
			Description:    desc,
			RawDescription: *t.Description,
			Amount:         t.Amount.Decimal,
			Balance:        t.RunningTotal.Decimal,
			TranCode:       t.TransactionId,
			ReceiptNumber:  t.ReceiptNumber,
		})
	}

	return transactions, nil
}

package commbank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"netbank/lib/htmlutil"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// Sortable is a value from the legacy history page that carries both a human
// readable text and a machine sortable representation.
type Sortable struct {
	Text string            `json:"Text"`
	Sort []json.RawMessage `json:"Sort"`
}

// sortKey returns Sort[1] as a string, or "" when it is missing or not a string.
func (s Sortable) sortKey() string {
	if len(s.Sort) < 2 {
		return ""
	}
	var key string
	err := json.Unmarshal(s.Sort[1], &key)
	if err != nil {
		return ""
	}
	return key
}

type legacyText struct {
	Text string `json:"Text"`
	Url  string `json:"Url"`
}

type legacyTransaction struct {
	Date                   Sortable   `json:"Date"`
	Description            legacyText `json:"Description"`
	SortableAmount         Sortable   `json:"SortableAmount"`
	SortableCurrencyAmount Sortable   `json:"SortableCurrencyAmount"`
	TranCode               legacyText `json:"TranCode"`
	ReceiptNumber          legacyText `json:"ReceiptNumber"`
}

type legacyHistory struct {
	Transactions              *[]legacyTransaction `json:"Transactions"`
	OutstandingAuthorizations []legacyTransaction  `json:"OutstandingAuthorizations"`
}

var legacyHistoryRegex = regexp.MustCompile(`({"Transactions":(?:.+)})\);`)

const (
	legacySortDateLayout = "20060102150405"
	legacyTextDateLayout = "02 Jan 2006"
	legacyDateFormat     = "2006-01-02 15:04:05-07:00"
)

// ParseSortableCurrency reads the numeric part of a sortable amount, a "DR"
// suffix on the text marks a debit. When the sort value is blank the amount
// is read from the text.
func ParseSortableCurrency(sortable Sortable) (decimal.Decimal, error) {
	if len(sortable.Sort) < 2 {
		return decimal.Zero, badResponse("sortable %q has no sort value", sortable.Text)
	}

	var amount decimal.Decimal
	switch strings.TrimSpace(string(sortable.Sort[1])) {
	case `""`, "null":
		parsed, err := ParseCurrencyText(sortable.Text)
		if err != nil {
			return decimal.Zero, err
		}
		amount = parsed
	default:
		err := json.Unmarshal(sortable.Sort[1], &amount)
		if err != nil {
			return decimal.Zero, badResponse("sortable %q: %w", sortable.Text, err)
		}
	}

	if strings.HasSuffix(sortable.Text, "DR") {
		return amount.Neg(), nil
	}
	return amount, nil
}

var currencyJunkRegex = regexp.MustCompile(`[^\d.-]`)

// ParseCurrencyText reads an amount out of display text like "$1,234.56".
func ParseCurrencyText(text string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(currencyJunkRegex.ReplaceAllString(text, ""))
	if err != nil {
		return decimal.Zero, badResponse("currency %q: %w", text, err)
	}
	return amount, nil
}

func findLegacyHistory(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", badResponse("parse html: %w", err)
	}
	for _, script := range htmlutil.ScriptTexts(doc) {
		groups := legacyHistoryRegex.FindStringSubmatch(script)
		if len(groups) >= 2 {
			return groups[1], nil
		}
	}

	groups := legacyHistoryRegex.FindSubmatch(page)
	if len(groups) >= 2 {
		return string(groups[1]), nil
	}
	return "", badResponse("could not find transaction history on page")
}

func legacyDate(date Sortable) (time.Time, error) {
	key := date.sortKey()
	if key != "" {
		if len(key) < len(legacySortDateLayout) {
			return time.Time{}, fmt.Errorf("sort date %q is too short", key)
		}
		return time.Parse(legacySortDateLayout, key[:len(legacySortDateLayout)])
	}
	return time.Parse(legacyTextDateLayout, date.Text)
}

// ParseTransactions reads transactions from the legacy transaction history
// page, which embeds them as a JSON object passed to a script call.
// Outstanding authorizations are listed before settled transactions.
func ParseTransactions(page []byte) ([]Transaction, error) {
	blob, err := findLegacyHistory(page)
	if err != nil {
		return nil, err
	}

	var history legacyHistory
	err = json.Unmarshal([]byte(blob), &history)
	if err != nil {
		return nil, badResponse("decode transaction history: %w", err)
	}
	if history.Transactions == nil {
		return nil, badResponse("transaction history has no transactions")
	}

	all := make([]legacyTransaction, 0, len(history.OutstandingAuthorizations)+len(*history.Transactions))
	all = append(all, history.OutstandingAuthorizations...)
	all = append(all, *history.Transactions...)

	transactions := make([]Transaction, 0, len(all))
	for i, t := range all {
		date, err := legacyDate(t.Date)
		if err != nil {
			return nil, badResponse("transaction %d date: %w", i, err)
		}
		amount, err := ParseSortableCurrency(t.SortableAmount)
		if err != nil {
			return nil, err
		}
		balance, err := ParseSortableCurrency(t.SortableCurrencyAmount)
		if err != nil {
			return nil, err
		}

		payee, desc := ParseTransactionDescription(t.Description.Text)
		transactions = append(transactions, Transaction{
			Timestamp:      date.Unix(),
			Date:           date.Format(legacyDateFormat),
			Payee:          payee,
			Description:    desc,
			RawDescription: t.Description.Text,
			Amount:         amount,
			Balance:        balance,
			TranCode:       t.TranCode.Text,
			ReceiptNumber:  t.ReceiptNumber.Text,
			Link:           t.Description.Url,
		})
	}

	return transactions, nil
}

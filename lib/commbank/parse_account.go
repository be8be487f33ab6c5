package commbank

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const bsbLength = 6

// AccountData is the normalized form of one record from the accounts API.
type AccountData struct {
	Name    string
	Bsb     string
	Number  string
	Balance decimal.Decimal
	// AvailableBalance is zero unless the bank reports exactly one
	// available funds entry.
	AvailableBalance decimal.Decimal
	// Link is relative to the bank's host.
	Link string
}

type apiAmount struct {
	Amount decimal.NullDecimal `json:"amount"`
}

type apiAccount struct {
	DisplayName    *string     `json:"displayName"`
	Number         string      `json:"number"`
	Balance        []apiAmount `json:"balance"`
	AvailableFunds []apiAmount `json:"availableFunds"`
	Link           struct {
		Url string `json:"url"`
	} `json:"link"`
}

func ParseAccount(raw json.RawMessage) (AccountData, error) {
	var record apiAccount
	err := json.Unmarshal(raw, &record)
	if err != nil {
		return AccountData{}, badResponse("decode account: %w", err)
	}

	if record.DisplayName == nil {
		return AccountData{}, badResponse("account has no displayName")
	}
	if len(record.Number) < bsbLength {
		return AccountData{}, badResponse("account number %q is too short to contain a bsb", record.Number)
	}
	if len(record.Balance) == 0 || !record.Balance[0].Amount.Valid {
		return AccountData{}, badResponse("account %q has no balance", record.Number)
	}
	if record.Link.Url == "" {
		return AccountData{}, badResponse("account %q has no link", record.Number)
	}

	available := decimal.Zero
	if len(record.AvailableFunds) == 1 && record.AvailableFunds[0].Amount.Valid {
		available = record.AvailableFunds[0].Amount.Decimal
	}

	return AccountData{
		Name:             *record.DisplayName,
		Bsb:              record.Number[:bsbLength],
		Number:           record.Number[bsbLength:],
		Balance:          record.Balance[0].Amount.Decimal,
		AvailableBalance: available,
		Link:             record.Link.Url,
	}, nil
}

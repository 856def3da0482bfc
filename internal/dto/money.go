package dto

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyResponse renders an amount in major units alongside its exact minor-unit value.
type MoneyResponse struct {
	Amount     decimal.Decimal `json:"amount" swaggertype:"string" example:"500.00"`
	MinorUnits int64           `json:"minorUnits" example:"50000"`
	Currency   string          `json:"currency" example:"USD"`
}

// ToMoneyResponse converts a domain.Money to MoneyResponse DTO.
func ToMoneyResponse(m domain.Money) MoneyResponse {
	return MoneyResponse{Amount: m.Decimal(), MinorUnits: m.Amount, Currency: m.Currency}
}

// TotalsResponse is the per-currency debit and credit aggregate.
type TotalsResponse struct {
	Currency string        `json:"currency"`
	Debit    MoneyResponse `json:"debit"`
	Credit   MoneyResponse `json:"credit"`
}

// ToTotalsResponses converts domain.Totals rows.
func ToTotalsResponses(ts []domain.Totals) []TotalsResponse {
	out := make([]TotalsResponse, len(ts))
	for i, t := range ts {
		out[i] = TotalsResponse{Currency: t.Currency, Debit: ToMoneyResponse(t.Debit), Credit: ToMoneyResponse(t.Credit)}
	}
	return out
}

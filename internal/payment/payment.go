package payment

import "github.com/shopspring/decimal"

// Verdict is the three-valued outcome of an authorization attempt.
type Verdict string

const (
	VerdictApproved Verdict = "approved"
	VerdictDeclined Verdict = "declined"
	VerdictError    Verdict = "error"
)

type Card struct {
	CardNumber  string `json:"cardNumber"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CVV         string `json:"cvv"`
}

// AuthorizationRequest is the gateway wire format. Amount travels as a JSON
// number, matching the gateway contract.
type AuthorizationRequest struct {
	CardNumber  string  `json:"cardNumber"`
	ExpiryMonth string  `json:"expiryMonth"`
	ExpiryYear  string  `json:"expiryYear"`
	CVV         string  `json:"cvv"`
	Amount      float64 `json:"amount"`
}

type Authorization struct {
	TransactionID string  `json:"transactionId"`
	Status        Verdict `json:"status"`
}

func NewAuthorizationRequest(card Card, amount decimal.Decimal) AuthorizationRequest {
	return AuthorizationRequest{
		CardNumber:  card.CardNumber,
		ExpiryMonth: card.ExpiryMonth,
		ExpiryYear:  card.ExpiryYear,
		CVV:         card.CVV,
		Amount:      amount.InexactFloat64(),
	}
}

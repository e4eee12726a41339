package payment

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// MockGateway is the stand-in authorization backend. It approves a charge when
// the card expiry is strictly after the current month/year and the amount fits
// within the configured funds; everything else is declined.
type MockGateway struct {
	funds decimal.Decimal
	live  bool

	now func() time.Time
}

// NewMockGateway builds a gateway with an explicit funds ceiling. In live mode
// transaction ids are randomized; otherwise a fixed id is returned, which keeps
// test assertions stable.
func NewMockGateway(funds decimal.Decimal, live bool) *MockGateway {
	return &MockGateway{funds: funds, live: live, now: time.Now}
}

func (g *MockGateway) Process(req AuthorizationRequest) Authorization {
	auth := Authorization{
		TransactionID: g.transactionID(),
		Status:        VerdictDeclined,
	}
	amount := decimal.NewFromFloat(req.Amount)
	if g.expiryInFuture(req.ExpiryMonth, req.ExpiryYear) && amount.LessThanOrEqual(g.funds) {
		auth.Status = VerdictApproved
	}
	return auth
}

func (g *MockGateway) expiryInFuture(month, year string) bool {
	m, err := strconv.Atoi(month)
	if err != nil {
		return false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	now := g.now()
	curY, curM := now.Year(), int(now.Month())
	return y > curY || (y == curY && m > curM)
}

func (g *MockGateway) transactionID() string {
	if g.live {
		return fmt.Sprintf("tx_%09d", rand.Intn(1_000_000_000))
	}
	return "tx_123456789"
}

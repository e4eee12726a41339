package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-go/shop-backend/internal/payment"
)

// fakeGateway scripts one verdict (or transport error) and records every
// authorization attempt.
type fakeGateway struct {
	mu      sync.Mutex
	verdict payment.Verdict
	err     error
	calls   []decimal.Decimal
}

func (f *fakeGateway) Authorize(_ context.Context, _ payment.Card, amount decimal.Decimal) (payment.Authorization, error) {
	f.mu.Lock()
	f.calls = append(f.calls, amount)
	f.mu.Unlock()
	if f.err != nil {
		return payment.Authorization{}, f.err
	}
	return payment.Authorization{TransactionID: "tx_123456789", Status: f.verdict}, nil
}

// memStore is an in-memory OrderStore with the same semantics as the SQL one:
// the decrement and its floor check are evaluated together under one lock, and
// a failing item aborts the whole write.
type memStore struct {
	mu     sync.Mutex
	stock  map[int64]int
	orders []*Order
}

func (s *memStore) CreateOrderAtomically(_ context.Context, userID int64, items []PricedItem, total decimal.Decimal, gatewayTxID string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		available, ok := s.stock[it.ProductID]
		if !ok {
			return nil, &ItemNotFoundError{ProductID: it.ProductID}
		}
		if available < it.Quantity {
			return nil, &InsufficientStockError{ProductID: it.ProductID, Requested: it.Quantity, Available: available}
		}
	}
	for _, it := range items {
		s.stock[it.ProductID] -= it.Quantity
	}
	o := &Order{ID: uuid.NewString(), UserID: userID, TotalPrice: total, TransactionID: gatewayTxID, Items: items}
	s.orders = append(s.orders, o)
	return o, nil
}

func validCard() payment.Card {
	return payment.Card{CardNumber: "4111111111111111", ExpiryMonth: "12", ExpiryYear: "2099", CVV: "123"}
}

func newCoordinator(verdict payment.Verdict) (*Coordinator, *fakeCatalog, *fakeGateway, *memStore) {
	cat := newFakeCatalog()
	gw := &fakeGateway{verdict: verdict}
	store := &memStore{stock: map[int64]int{1: 100, 2: 5, 3: 0}}
	return &Coordinator{Catalog: cat, Gateway: gw, Store: store}, cat, gw, store
}

func TestPlaceOrder_Committed(t *testing.T) {
	c, _, gw, store := newCoordinator(payment.VerdictApproved)

	order, err := c.PlaceOrder(context.Background(), 7, []ItemInput{{ProductID: 1, Quantity: 3}}, validCard())

	require.NoError(t, err)
	assert.Equal(t, int64(7), order.UserID)
	assert.Equal(t, "59.97", order.TotalPrice.String())
	assert.Equal(t, "tx_123456789", order.TransactionID)
	assert.Equal(t, 97, store.stock[1])
	// gateway charged exactly the computed total, once
	require.Len(t, gw.calls, 1)
	assert.Equal(t, "59.97", gw.calls[0].String())
}

func TestPlaceOrder_EmptyOrderSkipsGatewayAndCatalog(t *testing.T) {
	c, cat, gw, _ := newCoordinator(payment.VerdictApproved)

	_, err := c.PlaceOrder(context.Background(), 7, nil, validCard())

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Empty(t, gw.calls)
	assert.Empty(t, cat.calls)
}

func TestPlaceOrder_NonPositiveQuantityRejected(t *testing.T) {
	c, _, gw, _ := newCoordinator(payment.VerdictApproved)

	_, err := c.PlaceOrder(context.Background(), 7, []ItemInput{{ProductID: 1, Quantity: 0}}, validCard())

	var invalid *InvalidQuantityError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, gw.calls)
}

func TestPlaceOrder_InsufficientStockSkipsGateway(t *testing.T) {
	c, _, gw, store := newCoordinator(payment.VerdictApproved)

	_, err := c.PlaceOrder(context.Background(), 7, []ItemInput{{ProductID: 2, Quantity: 50}}, validCard())

	var noStock *InsufficientStockError
	require.ErrorAs(t, err, &noStock)
	assert.Empty(t, gw.calls)
	assert.Empty(t, store.orders)
	assert.Equal(t, 5, store.stock[2])
}

func TestPlaceOrder_DeclinedLeavesNoTrace(t *testing.T) {
	c, _, _, store := newCoordinator(payment.VerdictDeclined)

	_, err := c.PlaceOrder(context.Background(), 7, []ItemInput{{ProductID: 1, Quantity: 3}}, validCard())

	var rejected *PaymentRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Transaction declined.", err.Error())
	assert.Empty(t, store.orders)
	assert.Equal(t, 100, store.stock[1])
}

func TestPlaceOrder_GatewayErrorVerdictRejected(t *testing.T) {
	c, _, _, store := newCoordinator(payment.VerdictError)

	_, err := c.PlaceOrder(context.Background(), 7, []ItemInput{{ProductID: 1, Quantity: 1}}, validCard())

	assert.Equal(t, "Transaction error.", err.Error())
	assert.Empty(t, store.orders)
}

func TestPlaceOrder_GatewayUnavailableIsNotDeclined(t *testing.T) {
	c, _, gw, store := newCoordinator(payment.VerdictApproved)
	gw.err = payment.ErrGatewayUnavailable

	_, err := c.PlaceOrder(context.Background(), 7, []ItemInput{{ProductID: 1, Quantity: 1}}, validCard())

	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
	var rejected *PaymentRejectedError
	assert.False(t, errors.As(err, &rejected), "transport failure must not read as a verdict")
	assert.Empty(t, store.orders)
	assert.Equal(t, 100, store.stock[1])
}

func TestPlaceOrder_StockRaceLoserFailsAtPersistence(t *testing.T) {
	// Both placements price against a snapshot showing 100 in stock; the store
	// is the single authority and only one 60-unit order can fit.
	cat := newFakeCatalog()
	gw := &fakeGateway{verdict: payment.VerdictApproved}
	store := &memStore{stock: map[int64]int{1: 100}}
	c := &Coordinator{Catalog: cat, Gateway: gw, Store: store}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = c.PlaceOrder(context.Background(), int64(i+1), []ItemInput{{ProductID: 1, Quantity: 60}}, validCard())
		}(i)
	}
	wg.Wait()

	var committed, rejected int
	for _, err := range results {
		if err == nil {
			committed++
			continue
		}
		var noStock *InsufficientStockError
		require.ErrorAs(t, err, &noStock)
		assert.Equal(t, 60, noStock.Requested)
		assert.Equal(t, 40, noStock.Available)
		rejected++
	}
	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 40, store.stock[1])
	assert.Len(t, store.orders, 1)
}

package sales

import (
	"context"
	"sync"
	"testing"

	"github.com/ayoubkr/maalem-market/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store. Each "transaction" takes txMu for its whole
// duration (see runTx), which models the row locks the MySQL store holds
// between its FOR UPDATE reads and the final writes.
type fakeStore struct {
	txMu        sync.Mutex
	offers      map[int64]*models.Offer
	items       map[int64]*models.Item
	orders      []*models.Order
	nextOrderID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		offers: make(map[int64]*models.Offer),
		items:  make(map[int64]*models.Item),
	}
}

func (f *fakeStore) GetOfferForUpdate(ctx context.Context, offerID int64) (*models.Offer, error) {
	offer, ok := f.offers[offerID]
	if !ok {
		return nil, ErrOfferNotFound
	}
	copied := *offer
	return &copied, nil
}

func (f *fakeStore) GetItemForUpdate(ctx context.Context, itemID int64) (*models.Item, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, order *models.Order) error {
	f.nextOrderID++
	order.ID = f.nextOrderID
	copied := *order
	f.orders = append(f.orders, &copied)
	return nil
}

func (f *fakeStore) UpdateOfferStatus(ctx context.Context, offerID int64, status string) error {
	offer, ok := f.offers[offerID]
	if !ok {
		return ErrOfferNotFound
	}
	offer.Status = status
	return nil
}

func (f *fakeStore) DecrementItemStock(ctx context.Context, itemID int64, quantity int) error {
	item, ok := f.items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	if item.StockQuantity-quantity < 0 {
		return ErrNegativeStock
	}
	item.StockQuantity -= quantity
	return nil
}

// runTx serializes one conversion attempt against the fake store.
func (f *fakeStore) runTx(in ConvertInput) (*models.Order, error) {
	f.txMu.Lock()
	defer f.txMu.Unlock()
	return Convert(context.Background(), f, in)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedOfferAndItem(f *fakeStore, offerID, itemID int64, offerQty, stock int) {
	f.items[itemID] = &models.Item{
		ID:             itemID,
		MaalemID:       1,
		Title:          "Zellige table",
		StockQuantity:  stock,
		MaalemAskPrice: d("300.00"),
		MinSellPrice:   d("250.00"),
	}
	f.offers[offerID] = &models.Offer{
		ID:               offerID,
		OfferQuantity:    offerQty,
		MaalemNetOffer:   d("250.00"),
		ClientOfferTotal: d("280.00"),
		PlatformMargin:   d("30.00"),
		Status:           models.OfferStatusPending,
		ClientID:         9,
		ItemID:           itemID,
	}
}

func TestConvertHappyPath(t *testing.T) {
	// Scenario A: stock 5, offer for 3.
	f := newFakeStore()
	seedOfferAndItem(f, 1, 10, 3, 5)

	order, err := f.runTx(ConvertInput{
		OfferID:         1,
		DeliveryFee:     d("20.00"),
		FinalPrice:      d("300.00"),
		PickupAddress:   "12 Derb el Fassi, Fes",
		DeliveryAddress: "4 Rue Atlas, Casablanca",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), order.ID)
	assert.Equal(t, 3, order.OrderQuantity)
	assert.Equal(t, int64(1), order.OfferID)
	assert.Equal(t, models.OrderStatusPickedUp, order.Status)
	assert.True(t, order.MaalemNet.Equal(d("250.00")))
	assert.True(t, order.PlatformMargin.Equal(d("30.00")))
	assert.True(t, order.FinalPaid.IsZero(), "final_paid starts at zero until settlement")

	assert.Equal(t, 2, f.items[10].StockQuantity)
	assert.Equal(t, models.OfferStatusAccepted, f.offers[1].Status)
	assert.Len(t, f.orders, 1)
}

func TestConvertTwiceFails(t *testing.T) {
	// Scenario B: the second conversion of the same offer must not create a
	// second order or touch stock again.
	f := newFakeStore()
	seedOfferAndItem(f, 1, 10, 3, 5)

	_, err := f.runTx(ConvertInput{OfferID: 1})
	require.NoError(t, err)

	_, err = f.runTx(ConvertInput{OfferID: 1})
	assert.ErrorIs(t, err, ErrOfferAlreadyConverted)

	assert.Equal(t, 2, f.items[10].StockQuantity)
	assert.Len(t, f.orders, 1)
}

func TestConvertInsufficientStock(t *testing.T) {
	// Scenario C: stock 2, offer for 5. Nothing may change.
	f := newFakeStore()
	seedOfferAndItem(f, 1, 10, 5, 2)

	_, err := f.runTx(ConvertInput{OfferID: 1})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 2, f.items[10].StockQuantity)
	assert.Equal(t, models.OfferStatusPending, f.offers[1].Status)
	assert.Empty(t, f.orders)
}

func TestConvertOfferNotFound(t *testing.T) {
	f := newFakeStore()
	_, err := f.runTx(ConvertInput{OfferID: 42})
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestConvertQuantityAboveOfferQuantity(t *testing.T) {
	f := newFakeStore()
	seedOfferAndItem(f, 1, 10, 3, 50)

	_, err := f.runTx(ConvertInput{OfferID: 1, Quantity: 4})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 50, f.items[10].StockQuantity)
}

func TestConvertPartialQuantity(t *testing.T) {
	f := newFakeStore()
	seedOfferAndItem(f, 1, 10, 3, 5)

	order, err := f.runTx(ConvertInput{OfferID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, order.OrderQuantity)
	assert.Equal(t, 3, f.items[10].StockQuantity)
}

func TestConvertRejectsBadPricing(t *testing.T) {
	f := newFakeStore()
	seedOfferAndItem(f, 1, 10, 1, 5)
	f.offers[1].ClientOfferTotal = d("200.00") // below the 250.00 maalem net

	_, err := f.runTx(ConvertInput{OfferID: 1})
	assert.ErrorIs(t, err, ErrInvalidPricing)
	assert.Equal(t, models.OfferStatusPending, f.offers[1].Status)
	assert.Empty(t, f.orders)
}

func TestConcurrentConversionsOnLastUnit(t *testing.T) {
	// Scenario D: two offers against an item with stock 1, converted from two
	// goroutines. Exactly one wins; the loser sees an insufficient-stock
	// failure and the final stock is 0.
	f := newFakeStore()
	seedOfferAndItem(f, 1, 10, 1, 1)
	f.offers[2] = &models.Offer{
		ID:               2,
		OfferQuantity:    1,
		MaalemNetOffer:   d("250.00"),
		ClientOfferTotal: d("280.00"),
		PlatformMargin:   d("30.00"),
		Status:           models.OfferStatusPending,
		ClientID:         11,
		ItemID:           10,
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, offerID := range []int64{1, 2} {
		wg.Add(1)
		go func(i int, offerID int64) {
			defer wg.Done()
			_, errs[i] = f.runTx(ConvertInput{OfferID: offerID})
		}(i, offerID)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientStock)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
	assert.Equal(t, 0, f.items[10].StockQuantity)
	assert.Len(t, f.orders, 1)
}

// staleReadStore over-reports item stock, modeling a read that went stale
// before the decrement runs.
type staleReadStore struct{ *fakeStore }

func (s staleReadStore) GetItemForUpdate(ctx context.Context, itemID int64) (*models.Item, error) {
	item, err := s.fakeStore.GetItemForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	item.StockQuantity += 10
	return item, nil
}

func TestConvertDecrementRefusesNegativeStock(t *testing.T) {
	// The decrement itself re-checks stock: even when the earlier item read
	// claimed enough units, a decrement below zero must fail with
	// ErrNegativeStock (which aborts the surrounding transaction) and leave
	// the stored stock untouched.
	f := newFakeStore()
	seedOfferAndItem(f, 1, 10, 3, 1) // real stock 1, offer wants 3

	_, err := Convert(context.Background(), staleReadStore{f}, ConvertInput{OfferID: 1})
	assert.ErrorIs(t, err, ErrNegativeStock)
	assert.Equal(t, 1, f.items[10].StockQuantity)
}

func TestRejectPendingOffer(t *testing.T) {
	f := newFakeStore()
	seedOfferAndItem(f, 1, 10, 3, 5)

	offer, err := Reject(context.Background(), f, 1)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusRejected, offer.Status)
	assert.Equal(t, models.OfferStatusRejected, f.offers[1].Status)

	// Rejection is terminal: neither a second rejection nor a conversion works.
	_, err = Reject(context.Background(), f, 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.runTx(ConvertInput{OfferID: 1})
	assert.ErrorIs(t, err, ErrOfferAlreadyConverted)
	assert.Equal(t, 5, f.items[10].StockQuantity)
}

func TestRejectMissingOffer(t *testing.T) {
	f := newFakeStore()
	_, err := Reject(context.Background(), f, 99)
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestStockNeverGoesNegativeAcrossSequence(t *testing.T) {
	// Property: stock after a sequence of conversions is initial minus the
	// converted quantities, and conversions stop once stock runs out.
	f := newFakeStore()
	initial := 7
	for i := int64(1); i <= 4; i++ {
		seedOfferAndItem(f, i, 10, 2, initial) // re-seeds item, same stock
	}
	f.items[10].StockQuantity = initial

	converted := 0
	for i := int64(1); i <= 4; i++ {
		if _, err := f.runTx(ConvertInput{OfferID: i}); err == nil {
			converted += 2
		} else {
			assert.ErrorIs(t, err, ErrInsufficientStock)
		}
	}
	assert.Equal(t, initial-converted, f.items[10].StockQuantity)
	assert.GreaterOrEqual(t, f.items[10].StockQuantity, 0)
}

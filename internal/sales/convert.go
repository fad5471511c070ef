package sales

import (
	"context"
	"time"

	"github.com/ayoubkr/maalem-market/internal/models"
	"github.com/shopspring/decimal"
)

// Store is the narrow transactional surface Convert and Reject need. The
// production implementation wraps a *sql.Tx (see mysql.go); tests use an
// in-memory fake. All five calls are expected to run inside one atomic scope:
// a returned error aborts the whole transaction.
type Store interface {
	// GetOfferForUpdate loads an offer and locks it against concurrent
	// conversion for the rest of the transaction.
	GetOfferForUpdate(ctx context.Context, offerID int64) (*models.Offer, error)
	// GetItemForUpdate does the same for the offered item and its stock row.
	GetItemForUpdate(ctx context.Context, itemID int64) (*models.Item, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOfferStatus(ctx context.Context, offerID int64, status string) error
	// DecrementItemStock subtracts quantity from the item's stock. It must
	// fail with ErrNegativeStock if the decrement would go below zero, even
	// though Convert checks stock first; the re-check guards against a
	// concurrent writer that slipped between read and write.
	DecrementItemStock(ctx context.Context, itemID int64, quantity int) error
}

// ConvertInput carries the logistics fields the admin supplies when accepting
// an offer. Quantity 0 means "fulfill the full offer quantity".
type ConvertInput struct {
	OfferID         int64
	Quantity        int
	DeliveryFee     decimal.Decimal
	FinalPrice      decimal.Decimal
	PickupAddress   string
	DeliveryAddress string
	PickupTime      *time.Time
	DeliveryTime    *time.Time
}

// Convert turns a pending offer into an order: it creates the order row,
// flips the offer to accepted and decrements the item stock, all inside the
// caller-provided store's transaction. Any error leaves no partial state.
func Convert(ctx context.Context, store Store, in ConvertInput) (*models.Order, error) {
	offer, err := store.GetOfferForUpdate(ctx, in.OfferID)
	if err != nil {
		return nil, err
	}

	// The critical guard: a non-pending offer was already converted or
	// rejected, and must never produce a second order.
	if offer.Status != models.OfferStatusPending {
		return nil, ErrOfferAlreadyConverted
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = offer.OfferQuantity
	}
	if quantity < 0 || quantity > offer.OfferQuantity {
		return nil, ErrInsufficientStock
	}

	item, err := store.GetItemForUpdate(ctx, offer.ItemID)
	if err != nil {
		return nil, err
	}
	if err := ValidateOfferAgainstItem(item, quantity); err != nil {
		return nil, err
	}
	if err := ValidatePricing(offer.MaalemNetOffer, offer.ClientOfferTotal); err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderQuantity:   quantity,
		PlatformMargin:  offer.PlatformMargin,
		MaalemNet:       offer.MaalemNetOffer,
		DeliveryFee:     in.DeliveryFee,
		FinalPrice:      in.FinalPrice,
		FinalPaid:       decimal.Zero,
		OrderDate:       time.Now(),
		PickupAddress:   in.PickupAddress,
		DeliveryAddress: in.DeliveryAddress,
		PickupTime:      in.PickupTime,
		DeliveryTime:    in.DeliveryTime,
		Status:          models.OrderStatusPickedUp,
		OfferID:         offer.ID,
	}

	if err := store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	if err := Transition(offer, models.OfferStatusAccepted); err != nil {
		return nil, err
	}
	if err := store.UpdateOfferStatus(ctx, offer.ID, offer.Status); err != nil {
		return nil, err
	}
	if err := store.DecrementItemStock(ctx, item.ID, quantity); err != nil {
		return nil, err
	}

	return order, nil
}

// Reject flips a pending offer to rejected. Rejecting a non-pending offer
// fails with ErrInvalidTransition.
func Reject(ctx context.Context, store Store, offerID int64) (*models.Offer, error) {
	offer, err := store.GetOfferForUpdate(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if err := Transition(offer, models.OfferStatusRejected); err != nil {
		return nil, err
	}
	if err := store.UpdateOfferStatus(ctx, offer.ID, offer.Status); err != nil {
		return nil, err
	}
	return offer, nil
}

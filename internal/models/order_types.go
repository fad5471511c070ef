package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values (logistics lifecycle after conversion).
const (
	OrderStatusPickedUp      = "pickedUp"
	OrderStatusDelivered     = "delivered"
	OrderStatusCashCollected = "cash_collected"
	OrderStatusMaalemPaid    = "maalem_paid"
	OrderStatusReturned      = "returned"
)

// OrderStatuses lists every valid order status, for request validation.
var OrderStatuses = []string{
	OrderStatusPickedUp,
	OrderStatusDelivered,
	OrderStatusCashCollected,
	OrderStatusMaalemPaid,
	OrderStatusReturned,
}

// Order is the model for the 'orders' table.
// offer_id is a unique column with a restrictive foreign key: an offer converts
// to at most one order, and the offer row cannot be deleted while the order
// references it.
type Order struct {
	ID            int64 `json:"order_id" db:"order_id"`
	OrderQuantity int   `json:"order_quantity" db:"order_quantity"`

	// --- Financials ---
	PlatformMargin decimal.Decimal `json:"platform_margin" db:"platform_margin"`
	MaalemNet      decimal.Decimal `json:"maalem_net" db:"maalem_net"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee" db:"delivery_fee"`
	FinalPrice     decimal.Decimal `json:"final_price" db:"final_price"`
	FinalPaid      decimal.Decimal `json:"final_paid" db:"final_paid"` // 0 until settlement

	// --- Logistics ---
	OrderDate       time.Time  `json:"order_date" db:"order_date"`
	PickupAddress   string     `json:"pickup_address" db:"pickup_address"`
	DeliveryAddress string     `json:"delivery_address" db:"delivery_address"`
	PickupTime      *time.Time `json:"pickup_time,omitempty" db:"pickup_time"`
	DeliveryTime    *time.Time `json:"delivery_time,omitempty" db:"delivery_time"`

	Status string `json:"status" db:"status"`

	// The "becomes" relationship: exactly one offer per order.
	OfferID int64 `json:"offer" db:"offer_id"`
}

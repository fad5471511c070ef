package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offer status values. An offer starts 'pending' and ends in exactly one of
// 'accepted' (via order conversion) or 'rejected'. Both are terminal.
const (
	OfferStatusPending  = "pending"
	OfferStatusAccepted = "accepted"
	OfferStatusRejected = "rejected"
)

// Offer is the model for the 'offers' table.
// JSON field names mirror the wire format the existing frontend sends
// (offer_id, maalem_net_offer, client_offer_total, ...).
type Offer struct {
	ID            int64 `json:"offer_id" db:"offer_id"`
	OfferQuantity int   `json:"offer_quantity" db:"offer_quantity"`

	// --- Financials ---
	// maalem_net_offer is what the maalem receives, client_offer_total is what
	// the client pays. platform_margin = client_offer_total - maalem_net_offer,
	// computed by the caller (see make-offer handler).
	MaalemNetOffer   decimal.Decimal `json:"maalem_net_offer" db:"maalem_net_offer"`
	ClientOfferTotal decimal.Decimal `json:"client_offer_total" db:"client_offer_total"`
	PlatformMargin   decimal.Decimal `json:"platform_margin" db:"platform_margin"`

	Status string    `json:"status" db:"status"`
	Date   time.Time `json:"date" db:"date"`

	// Relationships
	ClientID int64 `json:"client" db:"client_id"`
	ItemID   int64 `json:"item" db:"item_id"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is the model for the 'items' table.
// Prices are DECIMAL(10,2) columns, so we use decimal.Decimal instead of
// float64 to avoid rounding drift on money math.
type Item struct {
	ID          int64  `json:"item_id" db:"item_id"`
	MaalemID    int64  `json:"maalem" db:"maalem_id"`
	Title       string `json:"title" db:"title"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
	PhotoURL    string `json:"photoUrl" db:"photo_url"`

	// --- Pricing & Stock ---
	MaalemAskPrice        decimal.Decimal `json:"maalemAskPrice" db:"maalem_ask_price"`
	MinSellPrice          decimal.Decimal `json:"minSellPrice" db:"min_sell_price"`
	PlatformFeePercentage decimal.Decimal `json:"platformFeePercentage" db:"platform_fee_percentage"`
	StockQuantity         int             `json:"stockQuantity" db:"stock_quantity"`

	// Flattened fields for UI convenience (populated manually if needed)
	MaalemName string `json:"maalemName,omitempty" db:"-"`
}

// Like is the model for the 'likes' table.
// (client_id, item_id) is unique: a client can like an item at most once.
type Like struct {
	ID        int64     `json:"client_reaction_id" db:"client_reaction_id"`
	ClientID  int64     `json:"client" db:"client_id"`
	ItemID    int64     `json:"item" db:"item_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Comment is the model for the 'comments' table.
type Comment struct {
	ID        int64     `json:"client_reaction_id" db:"client_reaction_id"`
	Text      string    `json:"text" db:"text"`
	ClientID  int64     `json:"client" db:"client_id"`
	ItemID    int64     `json:"item" db:"item_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Join field (client_profiles), not a column
	ClientName string `json:"clientName,omitempty" db:"-"`
}

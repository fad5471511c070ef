package models

import (
	"fmt"
	"strings"
	"time"
)

// RecipientKind is a closed enum over notification recipients. It replaces the
// old string-keyed recipient dispatch table: an unknown kind is rejected at
// parse time instead of failing somewhere inside a lookup.
type RecipientKind string

const (
	RecipientClient RecipientKind = "client"
	RecipientMaalem RecipientKind = "maalem"
)

// ParseRecipientKind normalizes and validates a recipient kind coming off the
// wire ("client" / "maalem", case-insensitive).
func ParseRecipientKind(s string) (RecipientKind, error) {
	switch RecipientKind(strings.ToLower(s)) {
	case RecipientClient:
		return RecipientClient, nil
	case RecipientMaalem:
		return RecipientMaalem, nil
	default:
		return "", fmt.Errorf("invalid recipient_type %q", s)
	}
}

func (k RecipientKind) Valid() bool {
	return k == RecipientClient || k == RecipientMaalem
}

// Notification is the model for the 'notifications' table.
// The recipient is a tagged pair (kind, id) stored in two columns.
type Notification struct {
	ID            int64         `json:"notification_id" db:"notification_id"`
	Message       string        `json:"message" db:"message"`
	IsRead        bool          `json:"is_read" db:"is_read"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	RecipientType RecipientKind `json:"recipient_type" db:"recipient_type"`
	RecipientID   int64         `json:"recipient_id" db:"recipient_id"`
}

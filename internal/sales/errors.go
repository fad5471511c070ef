package sales

import "errors"

// Sentinel errors for the offer/order workflow. Handlers match on these with
// errors.Is and map each one to a distinct HTTP status.
var (
	ErrOfferNotFound          = errors.New("offer not found")
	ErrItemNotFound           = errors.New("item not found")
	ErrOfferAlreadyConverted  = errors.New("offer has already been converted or rejected")
	ErrInsufficientStock      = errors.New("requested quantity exceeds item stock")
	ErrNegativeStock          = errors.New("stock decrement would go below zero")
	ErrInvalidPricing         = errors.New("client total must cover the maalem net amount")
	ErrInvalidTransition      = errors.New("offer status transition not allowed")
	ErrConcurrentModification = errors.New("conflicting concurrent update, try again")
)

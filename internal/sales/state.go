package sales

import "github.com/ayoubkr/maalem-market/internal/models"

// Offer state machine. 'pending' is the only non-terminal status:
//
//	pending -> accepted   (only through Convert)
//	pending -> rejected   (explicit rejection or the stale-offer sweeper)
//
// Nothing ever leaves accepted or rejected.
var offerTransitions = map[string]map[string]bool{
	models.OfferStatusPending: {
		models.OfferStatusAccepted: true,
		models.OfferStatusRejected: true,
	},
	models.OfferStatusAccepted: {},
	models.OfferStatusRejected: {},
}

// CanTransition reports whether an offer in status 'from' may move to 'to'.
func CanTransition(from, to string) bool {
	return offerTransitions[from][to]
}

// Transition mutates the offer's status after checking the transition table.
// Moving out of a terminal status fails with ErrInvalidTransition.
func Transition(offer *models.Offer, to string) error {
	if !CanTransition(offer.Status, to) {
		return ErrInvalidTransition
	}
	offer.Status = to
	return nil
}

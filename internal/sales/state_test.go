package sales

import (
	"testing"

	"github.com/ayoubkr/maalem-market/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.OfferStatusPending, models.OfferStatusAccepted, true},
		{models.OfferStatusPending, models.OfferStatusRejected, true},
		{models.OfferStatusPending, models.OfferStatusPending, false},
		{models.OfferStatusAccepted, models.OfferStatusRejected, false},
		{models.OfferStatusAccepted, models.OfferStatusPending, false},
		{models.OfferStatusRejected, models.OfferStatusAccepted, false},
		{models.OfferStatusRejected, models.OfferStatusPending, false},
		{"bogus", models.OfferStatusAccepted, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionTerminalStatesAreFinal(t *testing.T) {
	offer := &models.Offer{ID: 7, Status: models.OfferStatusPending}

	assert.NoError(t, Transition(offer, models.OfferStatusAccepted))
	assert.Equal(t, models.OfferStatusAccepted, offer.Status)

	// Once accepted, the status never changes again.
	assert.ErrorIs(t, Transition(offer, models.OfferStatusRejected), ErrInvalidTransition)
	assert.ErrorIs(t, Transition(offer, models.OfferStatusPending), ErrInvalidTransition)
	assert.Equal(t, models.OfferStatusAccepted, offer.Status)

	rejected := &models.Offer{ID: 8, Status: models.OfferStatusRejected}
	assert.ErrorIs(t, Transition(rejected, models.OfferStatusAccepted), ErrInvalidTransition)
	assert.Equal(t, models.OfferStatusRejected, rejected.Status)
}

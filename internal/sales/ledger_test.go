package sales

import (
	"testing"

	"github.com/ayoubkr/maalem-market/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateOfferAgainstItem(t *testing.T) {
	item := &models.Item{ID: 1, StockQuantity: 5}

	assert.NoError(t, ValidateOfferAgainstItem(item, 1))
	assert.NoError(t, ValidateOfferAgainstItem(item, 5))

	assert.ErrorIs(t, ValidateOfferAgainstItem(item, 6), ErrInsufficientStock)
	assert.ErrorIs(t, ValidateOfferAgainstItem(item, 0), ErrInsufficientStock)
	assert.ErrorIs(t, ValidateOfferAgainstItem(item, -3), ErrInsufficientStock)

	empty := &models.Item{ID: 2, StockQuantity: 0}
	assert.ErrorIs(t, ValidateOfferAgainstItem(empty, 1), ErrInsufficientStock)
}

func TestValidatePricing(t *testing.T) {
	assert.NoError(t, ValidatePricing(d("100.00"), d("120.00")))
	assert.NoError(t, ValidatePricing(d("100.00"), d("100.00"))) // zero margin is fine
	assert.NoError(t, ValidatePricing(d("0"), d("0")))

	// Client pays less than the maalem receives: negative platform margin.
	assert.ErrorIs(t, ValidatePricing(d("120.00"), d("100.00")), ErrInvalidPricing)
	assert.ErrorIs(t, ValidatePricing(d("120.00"), d("119.99")), ErrInvalidPricing)

	assert.ErrorIs(t, ValidatePricing(d("-1.00"), d("50.00")), ErrInvalidPricing)
	assert.ErrorIs(t, ValidatePricing(d("10.00"), d("-50.00")), ErrInvalidPricing)
}

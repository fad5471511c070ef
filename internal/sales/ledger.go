package sales

import (
	"github.com/ayoubkr/maalem-market/internal/models"
	"github.com/shopspring/decimal"
)

// Pure pricing/stock checks. No side effects; callers run these before any
// write happens.

// ValidateOfferAgainstItem checks that the requested quantity can be served
// from the item's current stock.
func ValidateOfferAgainstItem(item *models.Item, requestedQuantity int) error {
	if requestedQuantity <= 0 {
		return ErrInsufficientStock
	}
	if requestedQuantity > item.StockQuantity {
		return ErrInsufficientStock
	}
	return nil
}

// ValidatePricing checks that both amounts are non-negative and that the
// client total covers the maalem net, i.e. the platform margin
// (client_offer_total - maalem_net_offer) is never negative.
func ValidatePricing(maalemNet, clientTotal decimal.Decimal) error {
	if maalemNet.IsNegative() || clientTotal.IsNegative() {
		return ErrInvalidPricing
	}
	if clientTotal.LessThan(maalemNet) {
		return ErrInvalidPricing
	}
	return nil
}

package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func bindJSON(t *testing.T, body string, out interface{}) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(out)
}

func TestConvertOfferInputAcceptsZeroMoney(t *testing.T) {
	// A fully subsidized order legitimately carries final_price 0.00; the
	// binding must not reject the zero decimal as a missing field.
	var input ConvertOfferInput
	err := bindJSON(t, `{
		"offer_id": 1,
		"final_price": "0.00",
		"delivery_fee": "0.00",
		"pickup_address": "12 Derb el Fassi, Fes",
		"delivery_address": "4 Rue Atlas, Casablanca"
	}`, &input)
	require.NoError(t, err)
	assert.True(t, input.FinalPrice.IsZero())
	assert.True(t, input.DeliveryFee.IsZero())
}

func TestConvertOfferInputStillRequiresOfferID(t *testing.T) {
	var input ConvertOfferInput
	err := bindJSON(t, `{
		"final_price": "10.00",
		"pickup_address": "a",
		"delivery_address": "b"
	}`, &input)
	assert.Error(t, err)
}

func TestMakeOfferInputAcceptsZeroMaalemNet(t *testing.T) {
	var input MakeOfferInput
	err := bindJSON(t, `{
		"offer_quantity": 1,
		"maalem_net_offer": "0.00",
		"client_offer_total": "15.00",
		"client": 9,
		"item": 10
	}`, &input)
	require.NoError(t, err)
	assert.True(t, input.MaalemNetOffer.IsZero())
	assert.True(t, input.ClientOfferTotal.Equal(d("15.00")))
}

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ayoubkr/maalem-market/internal/models"
	"github.com/ayoubkr/maalem-market/internal/sales"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//
// --- Offer Handlers ---
//

const offerColumns = `
	offer_id, offer_quantity, maalem_net_offer, client_offer_total,
	platform_margin, status, date, client_id, item_id`

func scanOffer(row interface{ Scan(...interface{}) error }, offer *models.Offer) error {
	return row.Scan(
		&offer.ID,
		&offer.OfferQuantity,
		&offer.MaalemNetOffer,
		&offer.ClientOfferTotal,
		&offer.PlatformMargin,
		&offer.Status,
		&offer.Date,
		&offer.ClientID,
		&offer.ItemID,
	)
}

// GetOffers is the handler for GET /v1/sales/offers
func (h *Handlers) GetOffers(c *gin.Context) {
	rows, err := h.DB.Query("SELECT " + offerColumns + " FROM offers ORDER BY date DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	offers := []models.Offer{}
	for rows.Next() {
		var offer models.Offer
		if err := scanOffer(rows, &offer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan offer row"})
			return
		}
		offers = append(offers, offer)
	}
	c.JSON(http.StatusOK, offers)
}

// GetOfferByID is the handler for GET /v1/sales/offers/:id
func (h *Handlers) GetOfferByID(c *gin.Context) {
	var offer models.Offer
	err := scanOffer(h.DB.QueryRow(
		"SELECT "+offerColumns+" FROM offers WHERE offer_id = ?", c.Param("id")), &offer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offer"})
		return
	}
	c.JSON(http.StatusOK, offer)
}

// GetOffersByClient is the handler for GET /v1/sales/offers/client/:client_id
func (h *Handlers) GetOffersByClient(c *gin.Context) {
	rows, err := h.DB.Query(
		"SELECT "+offerColumns+" FROM offers WHERE client_id = ? ORDER BY date DESC",
		c.Param("client_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		var offer models.Offer
		if err := scanOffer(rows, &offer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan offer row"})
			return
		}
		offers = append(offers, offer)
	}

	if offers == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No offers found for this client"})
		return
	}
	c.JSON(http.StatusOK, offers)
}

// MakeOfferInput defines the JSON body for creating an offer. The wire names
// match what the frontend already sends: the maalem's ask as maalem_net_offer,
// the displayed total as client_offer_total.
type MakeOfferInput struct {
	OfferQuantity    int             `json:"offer_quantity" binding:"required,gt=0"`
	// The money fields carry no "required": the validator would reject a
	// legitimate 0.00 decimal as missing. ValidatePricing covers the ranges.
	MaalemNetOffer   decimal.Decimal `json:"maalem_net_offer"`
	ClientOfferTotal decimal.Decimal `json:"client_offer_total"`
	ClientID         int64           `json:"client" binding:"required"`
	ItemID           int64           `json:"item" binding:"required"`
}

// MakeOffer is the handler for POST /v1/sales/offers/make-offer.
// The platform margin is derived server-side (client total minus maalem net)
// rather than trusting a margin supplied by the caller.
func (h *Handlers) MakeOffer(c *gin.Context) {
	var input MakeOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 1. --- Pricing invariants, before any write ---
	if err := sales.ValidatePricing(input.MaalemNetOffer, input.ClientOfferTotal); err != nil {
		abortWithSalesError(c, err)
		return
	}

	// 2. --- The item must exist and cover the requested quantity ---
	var item models.Item
	err := h.DB.QueryRow(
		"SELECT item_id, stock_quantity FROM items WHERE item_id = ?", input.ItemID).
		Scan(&item.ID, &item.StockQuantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			abortWithSalesError(c, sales.ErrItemNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}
	if err := sales.ValidateOfferAgainstItem(&item, input.OfferQuantity); err != nil {
		abortWithSalesError(c, err)
		return
	}

	// 3. --- Insert as pending ---
	margin := input.ClientOfferTotal.Sub(input.MaalemNetOffer)
	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO offers
		(offer_quantity, maalem_net_offer, client_offer_total, platform_margin,
		 status, date, client_id, item_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		input.OfferQuantity, input.MaalemNetOffer, input.ClientOfferTotal, margin,
		models.OfferStatusPending, now, input.ClientID, input.ItemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create offer"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, models.Offer{
		ID:               id,
		OfferQuantity:    input.OfferQuantity,
		MaalemNetOffer:   input.MaalemNetOffer,
		ClientOfferTotal: input.ClientOfferTotal,
		PlatformMargin:   margin,
		Status:           models.OfferStatusPending,
		Date:             now,
		ClientID:         input.ClientID,
		ItemID:           input.ItemID,
	})
}

// RejectOffer is the handler for POST /v1/sales/offers/:id/reject (admin).
// Rejection goes through the same state machine as conversion, so a converted
// or already-rejected offer cannot be rejected again.
func (h *Handlers) RejectOffer(c *gin.Context) {
	offerID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	offer, err := sales.RejectTx(c.Request.Context(), h.DB, offerID)
	if err != nil {
		abortWithSalesError(c, err)
		return
	}

	// Tell the client their offer was declined. Notification failure must not
	// fail the rejection that already committed.
	message := fmt.Sprintf("Your offer #%d was declined.", offer.ID)
	if err := h.AddNotification(models.RecipientClient, offer.ClientID, message); err != nil {
		c.Error(err)
	}

	c.JSON(http.StatusOK, offer)
}

// DeleteOffer is the handler for DELETE /v1/sales/offers/:id.
// An offer referenced by an order is protected and can never be deleted.
func (h *Handlers) DeleteOffer(c *gin.Context) {
	offerID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	var orderID int64
	err := h.DB.QueryRow("SELECT order_id FROM orders WHERE offer_id = ?", offerID).Scan(&orderID)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Offer is referenced by an order and cannot be deleted"})
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check orders"})
		return
	}

	result, err := h.DB.Exec("DELETE FROM offers WHERE offer_id = ?", offerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete offer"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

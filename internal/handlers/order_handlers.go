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
// --- Order Handlers ---
//

const orderColumns = `
	order_id, order_quantity, platform_margin, maalem_net, delivery_fee,
	final_price, final_paid, order_date, pickup_address, delivery_address,
	pickup_time, delivery_time, status, offer_id`

func scanOrder(row interface{ Scan(...interface{}) error }, order *models.Order) error {
	return row.Scan(
		&order.ID,
		&order.OrderQuantity,
		&order.PlatformMargin,
		&order.MaalemNet,
		&order.DeliveryFee,
		&order.FinalPrice,
		&order.FinalPaid,
		&order.OrderDate,
		&order.PickupAddress,
		&order.DeliveryAddress,
		&order.PickupTime,
		&order.DeliveryTime,
		&order.Status,
		&order.OfferID,
	)
}

// GetOrders is the handler for GET /v1/sales/orders
func (h *Handlers) GetOrders(c *gin.Context) {
	rows, err := h.DB.Query("SELECT " + orderColumns + " FROM orders ORDER BY order_date DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var order models.Order
		if err := scanOrder(rows, &order); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order row"})
			return
		}
		orders = append(orders, order)
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderByID is the handler for GET /v1/sales/orders/:id
func (h *Handlers) GetOrderByID(c *gin.Context) {
	var order models.Order
	err := scanOrder(h.DB.QueryRow(
		"SELECT "+orderColumns+" FROM orders WHERE order_id = ?", c.Param("id")), &order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// ConvertOfferInput defines the JSON body for the conversion endpoint. The
// admin dashboard sends the offer reference plus the logistics fields.
type ConvertOfferInput struct {
	OfferID         int64           `json:"offer_id" binding:"required"`
	OrderQuantity   int             `json:"order_quantity"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	// No "required" on the money fields: the validator would treat a
	// legitimate 0.00 decimal as missing. Range checks happen in the handler.
	FinalPrice      decimal.Decimal `json:"final_price"`
	PickupAddress   string          `json:"pickup_address" binding:"required"`
	DeliveryAddress string          `json:"delivery_address" binding:"required"`
	PickupTime      *time.Time      `json:"pickup_time"`
	DeliveryTime    *time.Time      `json:"delivery_time"`
}

// ConvertOfferToOrder is the handler for POST /v1/sales/orders/convert.
// The whole conversion (create order, accept offer, decrement stock) is one
// serializable transaction: it either fully succeeds or changes nothing.
func (h *Handlers) ConvertOfferToOrder(c *gin.Context) {
	var input ConvertOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.DeliveryFee.IsNegative() || input.FinalPrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_fee and final_price must be non-negative"})
		return
	}

	order, err := sales.ConvertTx(c.Request.Context(), h.DB, sales.ConvertInput{
		OfferID:         input.OfferID,
		Quantity:        input.OrderQuantity,
		DeliveryFee:     input.DeliveryFee,
		FinalPrice:      input.FinalPrice,
		PickupAddress:   input.PickupAddress,
		DeliveryAddress: input.DeliveryAddress,
		PickupTime:      input.PickupTime,
		DeliveryTime:    input.DeliveryTime,
	})
	if err != nil {
		abortWithSalesError(c, err)
		return
	}

	// Notify both sides after the transaction committed; a notification
	// failure never undoes the order.
	h.notifyConversion(c, order)

	c.JSON(http.StatusCreated, order)
}

func (h *Handlers) notifyConversion(c *gin.Context, order *models.Order) {
	var clientID, maalemID int64
	err := h.DB.QueryRow(`
		SELECT o.client_id, i.maalem_id
		FROM offers o
		JOIN items i ON o.item_id = i.item_id
		WHERE o.offer_id = ?`, order.OfferID).Scan(&clientID, &maalemID)
	if err != nil {
		c.Error(fmt.Errorf("failed to resolve notification recipients: %w", err))
		return
	}

	clientMsg := fmt.Sprintf("Your offer #%d was accepted. Order #%d is on its way.", order.OfferID, order.ID)
	if err := h.AddNotification(models.RecipientClient, clientID, clientMsg); err != nil {
		c.Error(err)
	}
	maalemMsg := fmt.Sprintf("Offer #%d on your item was accepted. Prepare order #%d for pickup.", order.OfferID, order.ID)
	if err := h.AddNotification(models.RecipientMaalem, maalemID, maalemMsg); err != nil {
		c.Error(err)
	}
}

// UpdateOrderStatusInput restricts updates to the logistics status.
type UpdateOrderStatusInput struct {
	Status    string           `json:"status" binding:"required,oneof=pickedUp delivered cash_collected maalem_paid returned"`
	FinalPaid *decimal.Decimal `json:"final_paid"`
}

// UpdateOrderStatus is the handler for PATCH /v1/sales/orders/:id.
// Orders are never deleted; the logistics status (and settled amount) are the
// only mutable fields after conversion.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.FinalPaid != nil && input.FinalPaid.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "final_paid must be non-negative"})
		return
	}

	var result sql.Result
	var err error
	if input.FinalPaid != nil {
		result, err = h.DB.Exec(
			"UPDATE orders SET status = ?, final_paid = ? WHERE order_id = ?",
			input.Status, input.FinalPaid, orderID)
	} else {
		result, err = h.DB.Exec(
			"UPDATE orders SET status = ? WHERE order_id = ?", input.Status, orderID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		var exists int
		if scanErr := h.DB.QueryRow("SELECT 1 FROM orders WHERE order_id = ?", orderID).Scan(&exists); scanErr != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "status": input.Status})
}

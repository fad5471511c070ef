package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/ayoubkr/maalem-market/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

//
// --- Item Handlers ---
//

const itemColumns = `
	i.item_id, i.maalem_id, i.title, i.slug, i.description, i.category, i.photo_url,
	i.maalem_ask_price, i.min_sell_price, i.platform_fee_percentage, i.stock_quantity,
	CONCAT(m.firstname, ' ', m.lastname) AS maalem_name`

// ItemInput defines the JSON body for creating/updating an item.
type ItemInput struct {
	Title                 string          `json:"title" binding:"required"`
	Description           string          `json:"description" binding:"required"`
	Category              string          `json:"category" binding:"required"`
	PhotoURL              string          `json:"photoUrl" binding:"required,url"`
	MaalemAskPrice        decimal.Decimal `json:"maalemAskPrice" binding:"required"`
	MinSellPrice          decimal.Decimal `json:"minSellPrice" binding:"required"`
	PlatformFeePercentage decimal.Decimal `json:"platformFeePercentage"`
	StockQuantity         *int            `json:"stockQuantity"`
	MaalemID              int64           `json:"maalem"`
}

func scanItem(row interface{ Scan(...interface{}) error }, item *models.Item) error {
	return row.Scan(
		&item.ID,
		&item.MaalemID,
		&item.Title,
		&item.Slug,
		&item.Description,
		&item.Category,
		&item.PhotoURL,
		&item.MaalemAskPrice,
		&item.MinSellPrice,
		&item.PlatformFeePercentage,
		&item.StockQuantity,
		&item.MaalemName,
	)
}

// validateItemInput applies the price invariants before any write.
func validateItemInput(input *ItemInput) string {
	if input.MaalemAskPrice.IsNegative() || input.MinSellPrice.IsNegative() {
		return "Prices must be non-negative"
	}
	if input.PlatformFeePercentage.IsNegative() ||
		input.PlatformFeePercentage.GreaterThan(decimal.NewFromInt(100)) {
		return "platformFeePercentage must be between 0 and 100"
	}
	if input.StockQuantity != nil && *input.StockQuantity < 0 {
		return "stockQuantity must be non-negative"
	}
	return ""
}

// GetItems is the handler for GET /v1/inventory/item
func (h *Handlers) GetItems(c *gin.Context) {
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		JOIN maalem_profiles m ON i.maalem_id = m.id_maalem
		ORDER BY i.item_id DESC`

	rows, err := h.DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := scanItem(rows, &item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan item row"})
			return
		}
		items = append(items, item)
	}

	if items == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItemByID is the handler for GET /v1/inventory/item/:id
func (h *Handlers) GetItemByID(c *gin.Context) {
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		JOIN maalem_profiles m ON i.maalem_id = m.id_maalem
		WHERE i.item_id = ?`

	var item models.Item
	if err := scanItem(h.DB.QueryRow(query, c.Param("id")), &item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItem is the handler for POST /v1/inventory/item — the admin variant
// where the maalem reference comes in the body.
func (h *Handlers) CreateItem(c *gin.Context) {
	var input ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.MaalemID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "maalem is required"})
		return
	}
	h.insertItem(c, input.MaalemID, &input)
}

// CreateItemByMaalem is the handler for POST /v1/inventory/maalem/items/:maalem_id
func (h *Handlers) CreateItemByMaalem(c *gin.Context) {
	maalemID, ok := paramInt64(c, "maalem_id")
	if !ok {
		return
	}

	var input ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.insertItem(c, maalemID, &input)
}

func (h *Handlers) insertItem(c *gin.Context, maalemID int64, input *ItemInput) {
	if msg := validateItemInput(input); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	// Maalem must exist (FK would also catch it, but this gives a clean 404).
	var exists int
	if err := h.DB.QueryRow("SELECT 1 FROM maalem_profiles WHERE id_maalem = ?", maalemID).Scan(&exists); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Maalem not found"})
		return
	}

	fee := input.PlatformFeePercentage
	if fee.IsZero() {
		fee = decimal.NewFromInt(5) // platform default
	}
	stock := 1
	if input.StockQuantity != nil {
		stock = *input.StockQuantity
	}

	result, err := h.DB.Exec(`
		INSERT INTO items
		(maalem_id, title, slug, description, category, photo_url,
		 maalem_ask_price, min_sell_price, platform_fee_percentage, stock_quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		maalemID, input.Title, slug.Make(input.Title), input.Description, input.Category,
		input.PhotoURL, input.MaalemAskPrice, input.MinSellPrice, fee, stock)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"item_id": id,
		"slug":    slug.Make(input.Title),
		"message": "Item created successfully",
	})
}

// UpdateItemInput allows partial updates; only non-nil fields are applied.
type UpdateItemInput struct {
	ItemID                int64            `json:"item_id" binding:"required"`
	Title                 *string          `json:"title"`
	Description           *string          `json:"description"`
	Category              *string          `json:"category"`
	PhotoURL              *string          `json:"photoUrl"`
	MaalemAskPrice        *decimal.Decimal `json:"maalemAskPrice"`
	MinSellPrice          *decimal.Decimal `json:"minSellPrice"`
	PlatformFeePercentage *decimal.Decimal `json:"platformFeePercentage"`
	StockQuantity         *int             `json:"stockQuantity"`
}

// UpdateItem is the handler for PUT /v1/inventory/item — item_id in body,
// like the original frontend sends it.
func (h *Handlers) UpdateItem(c *gin.Context) {
	h.updateItem(c, 0)
}

// UpdateItemByMaalem is the handler for PUT /v1/inventory/maalem/items/:maalem_id —
// same update, but scoped so a maalem can only touch their own items.
func (h *Handlers) UpdateItemByMaalem(c *gin.Context) {
	maalemID, ok := paramInt64(c, "maalem_id")
	if !ok {
		return
	}
	h.updateItem(c, maalemID)
}

func (h *Handlers) updateItem(c *gin.Context, maalemID int64) {
	var input UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Load the current row (scoped to the maalem if one was given).
	query := "SELECT item_id, maalem_id, title, slug, description, category, photo_url, maalem_ask_price, min_sell_price, platform_fee_percentage, stock_quantity FROM items WHERE item_id = ?"
	args := []interface{}{input.ItemID}
	if maalemID != 0 {
		query += " AND maalem_id = ?"
		args = append(args, maalemID)
	}

	var item models.Item
	err := h.DB.QueryRow(query, args...).Scan(
		&item.ID, &item.MaalemID, &item.Title, &item.Slug, &item.Description,
		&item.Category, &item.PhotoURL, &item.MaalemAskPrice, &item.MinSellPrice,
		&item.PlatformFeePercentage, &item.StockQuantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}

	if input.Title != nil {
		item.Title = *input.Title
		item.Slug = slug.Make(*input.Title)
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.PhotoURL != nil {
		item.PhotoURL = *input.PhotoURL
	}
	if input.MaalemAskPrice != nil {
		item.MaalemAskPrice = *input.MaalemAskPrice
	}
	if input.MinSellPrice != nil {
		item.MinSellPrice = *input.MinSellPrice
	}
	if input.PlatformFeePercentage != nil {
		item.PlatformFeePercentage = *input.PlatformFeePercentage
	}
	if input.StockQuantity != nil {
		item.StockQuantity = *input.StockQuantity
	}

	if item.MaalemAskPrice.IsNegative() || item.MinSellPrice.IsNegative() || item.StockQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prices and stock must be non-negative"})
		return
	}
	if item.PlatformFeePercentage.IsNegative() || item.PlatformFeePercentage.GreaterThan(decimal.NewFromInt(100)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "platformFeePercentage must be between 0 and 100"})
		return
	}

	_, err = h.DB.Exec(`
		UPDATE items
		SET title = ?, slug = ?, description = ?, category = ?, photo_url = ?,
		    maalem_ask_price = ?, min_sell_price = ?, platform_fee_percentage = ?, stock_quantity = ?
		WHERE item_id = ?`,
		item.Title, item.Slug, item.Description, item.Category, item.PhotoURL,
		item.MaalemAskPrice, item.MinSellPrice, item.PlatformFeePercentage, item.StockQuantity,
		item.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	c.JSON(http.StatusAccepted, item)
}

// DeleteItem is the handler for DELETE /v1/inventory/item/:id
func (h *Handlers) DeleteItem(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM items WHERE item_id = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// GetItemsByMaalem is the handler for GET /v1/inventory/maalem/items/:maalem_id
func (h *Handlers) GetItemsByMaalem(c *gin.Context) {
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		JOIN maalem_profiles m ON i.maalem_id = m.id_maalem
		WHERE i.maalem_id = ?
		ORDER BY i.item_id DESC`

	rows, err := h.DB.Query(query, c.Param("maalem_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := scanItem(rows, &item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan item row"})
			return
		}
		items = append(items, item)
	}

	if items == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No items found for this Maalem"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// DeleteItemByMaalem is the handler for DELETE /v1/inventory/maalem/items/:maalem_id
// The item_id comes in the body, matching the original client.
func (h *Handlers) DeleteItemByMaalem(c *gin.Context) {
	maalemID, ok := paramInt64(c, "maalem_id")
	if !ok {
		return
	}

	var input struct {
		ItemID int64 `json:"item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec("DELETE FROM items WHERE item_id = ? AND maalem_id = ?", input.ItemID, maalemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found for this Maalem"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/ayoubkr/maalem-market/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Like & Comment Handlers (client reactions) ---
//

// itemExists returns false (and writes the 404) when the item is missing.
func (h *Handlers) itemExists(c *gin.Context, itemID int64) bool {
	var exists int
	err := h.DB.QueryRow("SELECT 1 FROM items WHERE item_id = ?", itemID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check item"})
		}
		return false
	}
	return true
}

func (h *Handlers) likeCount(itemID int64) (int, error) {
	var count int
	err := h.DB.QueryRow("SELECT COUNT(*) FROM likes WHERE item_id = ?", itemID).Scan(&count)
	return count, err
}

// ReactionInput carries the item reference for like/dislike requests.
type ReactionInput struct {
	ItemID int64 `json:"item_id" binding:"required"`
}

// LikeItem is the handler for POST /v1/inventory/item/like/:client_id.
// Liking twice is a no-op thanks to the unique (client_id, item_id) key.
func (h *Handlers) LikeItem(c *gin.Context) {
	clientID, ok := paramInt64(c, "client_id")
	if !ok {
		return
	}

	var input ReactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.itemExists(c, input.ItemID) {
		return
	}

	_, err := h.DB.Exec(
		"INSERT INTO likes (client_id, item_id, created_at) VALUES (?, ?, ?)",
		clientID, input.ItemID, time.Now())
	alreadyLiked := false
	if err != nil {
		if !isDuplicateEntry(err) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like item"})
			return
		}
		alreadyLiked = true
	}

	count, err := h.likeCount(input.ItemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count likes"})
		return
	}

	if alreadyLiked {
		c.JSON(http.StatusOK, gin.H{"message": "Item already liked", "like_count": count})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item liked successfully", "like_count": count})
}

// DislikeItem is the handler for POST /v1/inventory/item/dislike/:client_id
func (h *Handlers) DislikeItem(c *gin.Context) {
	clientID, ok := paramInt64(c, "client_id")
	if !ok {
		return
	}

	var input ReactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.itemExists(c, input.ItemID) {
		return
	}

	result, err := h.DB.Exec(
		"DELETE FROM likes WHERE client_id = ? AND item_id = ?", clientID, input.ItemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove like"})
		return
	}

	count, err := h.likeCount(input.ItemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count likes"})
		return
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Like not found", "like_count": count})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item disliked successfully", "like_count": count})
}

// LikeStatus is the handler for GET /v1/inventory/item/like-status/:client_id/:item_id
func (h *Handlers) LikeStatus(c *gin.Context) {
	itemID, ok := paramInt64(c, "item_id")
	if !ok {
		return
	}
	if !h.itemExists(c, itemID) {
		return
	}

	var exists int
	err := h.DB.QueryRow(
		"SELECT 1 FROM likes WHERE client_id = ? AND item_id = ?",
		c.Param("client_id"), itemID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusOK, gin.H{"has_liked": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check like"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_liked": true})
}

// GetLikesForItem is the handler for GET /v1/inventory/item/likes/:item_id
func (h *Handlers) GetLikesForItem(c *gin.Context) {
	itemID, ok := paramInt64(c, "item_id")
	if !ok {
		return
	}
	if !h.itemExists(c, itemID) {
		return
	}

	count, err := h.likeCount(itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count likes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": itemID, "like_count": count})
}

// CommentInput carries the item reference and the comment body.
type CommentInput struct {
	ItemID int64  `json:"item_id" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

// CommentToItem is the handler for POST /v1/inventory/item/comment/:client_id
func (h *Handlers) CommentToItem(c *gin.Context) {
	clientID, ok := paramInt64(c, "client_id")
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.itemExists(c, input.ItemID) {
		return
	}

	_, err := h.DB.Exec(
		"INSERT INTO comments (client_id, item_id, text, created_at) VALUES (?, ?, ?, ?)",
		clientID, input.ItemID, input.Text, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Comment added successfully"})
}

// GetCommentsForItem is the handler for GET /v1/inventory/item/comments/:item_id
func (h *Handlers) GetCommentsForItem(c *gin.Context) {
	itemID, ok := paramInt64(c, "item_id")
	if !ok {
		return
	}
	if !h.itemExists(c, itemID) {
		return
	}

	query := `
		SELECT co.client_reaction_id, co.text, co.client_id, co.item_id, co.created_at,
		       CONCAT(cl.firstname, ' ', cl.lastname) AS client_name
		FROM comments co
		JOIN client_profiles cl ON co.client_id = cl.client_id
		WHERE co.item_id = ?
		ORDER BY co.created_at DESC`

	rows, err := h.DB.Query(query, itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.Text, &comment.ClientID, &comment.ItemID,
			&comment.CreatedAt, &comment.ClientName); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan comment row"})
			return
		}
		comments = append(comments, comment)
	}
	c.JSON(http.StatusOK, comments)
}

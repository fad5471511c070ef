package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ayoubkr/maalem-market/internal/sales"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

// paramInt64 parses a numeric path parameter, replying 400 on garbage.
func paramInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return v, true
}

// isDuplicateEntry reports whether err is a MySQL 1062 unique-key violation.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// salesErrorStatus maps every sales error kind to its HTTP status. Unknown
// errors become a 500.
func salesErrorStatus(err error) int {
	switch {
	case errors.Is(err, sales.ErrOfferNotFound), errors.Is(err, sales.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, sales.ErrOfferAlreadyConverted), errors.Is(err, sales.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, sales.ErrInsufficientStock), errors.Is(err, sales.ErrNegativeStock):
		return http.StatusConflict
	case errors.Is(err, sales.ErrInvalidPricing):
		return http.StatusBadRequest
	case errors.Is(err, sales.ErrConcurrentModification):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// abortWithSalesError writes the typed failure as JSON with its mapped status.
func abortWithSalesError(c *gin.Context, err error) {
	status := salesErrorStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

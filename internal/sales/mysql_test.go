package sales

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	// 1213 = deadlock victim, 1205 = lock wait timeout.
	assert.True(t, isRetryable(&mysql.MySQLError{Number: 1213}))
	assert.True(t, isRetryable(&mysql.MySQLError{Number: 1205}))

	// Everything else aborts the retry loop immediately.
	assert.False(t, isRetryable(&mysql.MySQLError{Number: 1062}))
	assert.False(t, isRetryable(errors.New("connection refused")))
	assert.False(t, isRetryable(ErrOfferAlreadyConverted))
	assert.False(t, isRetryable(nil))

	// Driver errors wrapped with %w still classify.
	wrapped := fmt.Errorf("failed to commit conversion: %w", &mysql.MySQLError{Number: 1213})
	assert.True(t, isRetryable(wrapped))
}

func TestExhaustedRetriesReportConcurrentModification(t *testing.T) {
	// The exhausted-retry error built by ConvertTx/RejectTx must satisfy
	// errors.Is(err, ErrConcurrentModification) while keeping the driver
	// error text for the logs.
	lastErr := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	err := fmt.Errorf("%w: %v", ErrConcurrentModification, lastErr)

	assert.ErrorIs(t, err, ErrConcurrentModification)
	assert.Contains(t, err.Error(), "Deadlock found")
}

package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ayoubkr/maalem-market/internal/models"
	"github.com/go-sql-driver/mysql"
)

// maxConvertAttempts bounds the retry loop around deadlocked transactions.
const maxConvertAttempts = 3

// txStore implements Store on top of an open *sql.Tx. Row locks taken by the
// FOR UPDATE reads are held until the transaction commits or rolls back.
type txStore struct {
	tx *sql.Tx
}

// NewTxStore wraps a transaction in the Store interface.
func NewTxStore(tx *sql.Tx) Store {
	return &txStore{tx: tx}
}

func (s *txStore) GetOfferForUpdate(ctx context.Context, offerID int64) (*models.Offer, error) {
	query := `
		SELECT offer_id, offer_quantity, maalem_net_offer, client_offer_total,
		       platform_margin, status, date, client_id, item_id
		FROM offers
		WHERE offer_id = ?
		FOR UPDATE`

	var offer models.Offer
	err := s.tx.QueryRowContext(ctx, query, offerID).Scan(
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
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to load offer %d: %w", offerID, err)
	}
	return &offer, nil
}

func (s *txStore) GetItemForUpdate(ctx context.Context, itemID int64) (*models.Item, error) {
	query := `
		SELECT item_id, maalem_id, title, slug, description, category, photo_url,
		       maalem_ask_price, min_sell_price, platform_fee_percentage, stock_quantity
		FROM items
		WHERE item_id = ?
		FOR UPDATE`

	var item models.Item
	err := s.tx.QueryRowContext(ctx, query, itemID).Scan(
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
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load item %d: %w", itemID, err)
	}
	return &item, nil
}

func (s *txStore) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders
		(order_quantity, platform_margin, maalem_net, delivery_fee, final_price,
		 final_paid, order_date, pickup_address, delivery_address, pickup_time,
		 delivery_time, status, offer_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.tx.ExecContext(ctx, query,
		order.OrderQuantity,
		order.PlatformMargin,
		order.MaalemNet,
		order.DeliveryFee,
		order.FinalPrice,
		order.FinalPaid,
		order.OrderDate,
		order.PickupAddress,
		order.DeliveryAddress,
		order.PickupTime,
		order.DeliveryTime,
		order.Status,
		order.OfferID,
	)
	if err != nil {
		// The UNIQUE key on offer_id is the database-level backstop for the
		// one-order-per-offer rule.
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrOfferAlreadyConverted
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	order.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get new order ID: %w", err)
	}
	return nil
}

func (s *txStore) UpdateOfferStatus(ctx context.Context, offerID int64, status string) error {
	_, err := s.tx.ExecContext(ctx,
		"UPDATE offers SET status = ? WHERE offer_id = ?", status, offerID)
	if err != nil {
		return fmt.Errorf("failed to update offer %d status: %w", offerID, err)
	}
	return nil
}

func (s *txStore) DecrementItemStock(ctx context.Context, itemID int64, quantity int) error {
	// The stock_quantity >= ? guard makes the decrement itself refuse to go
	// negative, independent of the earlier in-transaction check.
	result, err := s.tx.ExecContext(ctx, `
		UPDATE items
		SET stock_quantity = stock_quantity - ?
		WHERE item_id = ? AND stock_quantity >= ?`,
		quantity, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement stock for item %d: %w", itemID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNegativeStock
	}
	return nil
}

// ConvertTx runs Convert inside a serializable transaction, retrying a bounded
// number of times when MySQL kills the transaction to resolve a deadlock.
func ConvertTx(ctx context.Context, db *sql.DB, in ConvertInput) (*models.Order, error) {
	var lastErr error
	for attempt := 0; attempt < maxConvertAttempts; attempt++ {
		order, err := convertOnce(ctx, db, in)
		if err == nil {
			return order, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrConcurrentModification, lastErr)
}

// RejectTx runs Reject inside a serializable transaction with the same
// bounded retry policy as ConvertTx.
func RejectTx(ctx context.Context, db *sql.DB, offerID int64) (*models.Offer, error) {
	var lastErr error
	for attempt := 0; attempt < maxConvertAttempts; attempt++ {
		offer, err := rejectOnce(ctx, db, offerID)
		if err == nil {
			return offer, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrConcurrentModification, lastErr)
}

func convertOnce(ctx context.Context, db *sql.DB, in ConvertInput) (*models.Order, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback() // Safety net

	order, err := Convert(ctx, NewTxStore(tx), in)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit conversion: %w", err)
	}
	return order, nil
}

func rejectOnce(ctx context.Context, db *sql.DB, offerID int64) (*models.Offer, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	offer, err := Reject(ctx, NewTxStore(tx), offerID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rejection: %w", err)
	}
	return offer, nil
}

// isRetryable matches the two MySQL errors worth retrying: 1213 (deadlock
// victim) and 1205 (lock wait timeout).
func isRetryable(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
}

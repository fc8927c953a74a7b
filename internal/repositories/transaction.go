package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-order-transactions/internal/logger"
	"github.com/sbilibin2017/gw-order-transactions/internal/models"
)

// transactionColumns is the column list shared by every query that
// returns full rows.
const transactionColumns = `
	transaction_id, order_id, amount, currency, type, status, payment_method,
	transaction_reference, description, transaction_time, processed_by, metadata,
	created_at, updated_at
`

// TransactionWriteRepository handles transaction insert and delete operations.
type TransactionWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTransactionWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db, txGetter: txGetter}
}

func (r *TransactionWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a transaction and returns the stored row with the generated id
// and database-assigned created_at/updated_at.
func (r *TransactionWriteRepository) Save(ctx context.Context, txn models.TransactionDB) (*models.TransactionDB, error) {
	query := `
		INSERT INTO transactions (
			order_id, amount, currency, type, status, payment_method,
			transaction_reference, description, transaction_time, processed_by, metadata,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING ` + transactionColumns

	var saved models.TransactionDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &saved, query,
		txn.OrderID, txn.Amount, txn.Currency, txn.Type, txn.Status, txn.PaymentMethod,
		txn.TransactionReference, txn.Description, txn.TransactionTime, txn.ProcessedBy, txn.Metadata,
	)

	// Log query, args, result, error
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{txn.OrderID, txn.Amount, txn.Currency, txn.Type, txn.Status, txn.PaymentMethod},
		"result", saved.TransactionID,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteByOrder removes every transaction for an order and returns how many
// rows were removed. Deleting an order with no transactions is not an error.
func (r *TransactionWriteRepository) DeleteByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	query := `DELETE FROM transactions WHERE order_id = $1`

	res, err := r.executor(ctx).ExecContext(ctx, query, orderID)
	var deleted int64
	if res != nil {
		deleted, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", query,
		"args", []any{orderID},
		"result", deleted,
		"error", err,
	)

	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// TransactionReadRepository handles transaction read operations.
type TransactionReadRepository struct {
	db *sqlx.DB
}

func NewTransactionReadRepository(db *sqlx.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// ListByOrder returns transactions for an order ordered by transaction_time
// descending, skipping offset rows and returning at most limit. An order with
// no transactions yields an empty slice, not an error.
func (r *TransactionReadRepository) ListByOrder(ctx context.Context, orderID uuid.UUID, limit, offset int) ([]models.TransactionDB, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE order_id = $1
		ORDER BY transaction_time DESC
		LIMIT $2 OFFSET $3
	`

	txns := make([]models.TransactionDB, 0, limit)
	err := r.db.SelectContext(ctx, &txns, query, orderID, limit, offset)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{orderID, limit, offset},
		"result", len(txns),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return txns, nil
}

// CountByOrders counts transactions per order with one grouped query.
// Orders without transactions are absent from the result; zero-filling is the
// caller's concern.
func (r *TransactionReadRepository) CountByOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(orderIDs))
	if len(orderIDs) == 0 {
		return counts, nil
	}

	query, args, err := sqlx.In(`
		SELECT order_id, COUNT(*) AS cnt
		FROM transactions
		WHERE order_id IN (?)
		GROUP BY order_id
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var rows []struct {
		OrderID uuid.UUID `db:"order_id"`
		Cnt     int64     `db:"cnt"`
	}
	err = r.db.SelectContext(ctx, &rows, query, args...)
	for _, row := range rows {
		counts[row.OrderID] = row.Cnt
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", counts,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return counts, nil
}

package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-order-transactions/internal/logger"
	"github.com/sbilibin2017/gw-order-transactions/internal/models"
	"github.com/segmentio/kafka-go"
)

// OrderValidator confirms order existence before a transaction is persisted.
type OrderValidator interface {
	ValidateOrderExists(ctx context.Context, orderID uuid.UUID) (*models.OrderSummary, error)
}

// TransactionWriter persists and removes transaction records.
type TransactionWriter interface {
	Save(ctx context.Context, txn models.TransactionDB) (*models.TransactionDB, error)            // Inserts a record, returns the stored form
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)                          // Removes all records for an order
}

// TransactionReader reads transaction records.
type TransactionReader interface {
	ListByOrder(ctx context.Context, orderID uuid.UUID, limit, offset int) ([]models.TransactionDB, error) // Ordered page for one order
	CountByOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int64, error)                  // Grouped counts, absent means zero
}

// CountsCache caches per-order transaction counts.
type CountsCache interface {
	GetCount(ctx context.Context, orderID uuid.UUID) (int64, error)        // Returns cached count
	SetCount(ctx context.Context, orderID uuid.UUID, count int64) error    // Sets cached count
	InvalidateCount(ctx context.Context, orderID uuid.UUID) error          // Drops cached count
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// TransactionService implements create, list, bulk-count and the
// administrative delete for payment transactions.
type TransactionService struct {
	validator   OrderValidator
	writeRepo   TransactionWriter
	readRepo    TransactionReader
	countsCache CountsCache
	kafkaWriter KafkaWriter
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	validator OrderValidator,
	writeRepo TransactionWriter,
	readRepo TransactionReader,
	countsCache CountsCache,
	kafkaWriter KafkaWriter,
) *TransactionService {
	return &TransactionService{
		validator:   validator,
		writeRepo:   writeRepo,
		readRepo:    readRepo,
		countsCache: countsCache,
		kafkaWriter: kafkaWriter,
	}
}

// publishCreated publishes a persisted transaction to Kafka, best effort.
func (s *TransactionService) publishCreated(ctx context.Context, txn models.TransactionDB) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "transaction_id", txn.TransactionID)
		return
	}

	data, err := json.Marshal(txn)
	if err != nil {
		logger.Log.Errorw("Failed to marshal transaction for Kafka", "transaction_id", txn.TransactionID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(txn.TransactionID.String()),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish transaction to Kafka", "transaction_id", txn.TransactionID, "error", err)
	} else {
		logger.Log.Infow("Transaction published to Kafka", "transaction_id", txn.TransactionID, "amount", txn.Amount)
	}
}

// Create normalizes the input, confirms the order exists and persists the
// record. Validator and storage errors propagate unchanged; nothing is
// persisted on failure.
func (s *TransactionService) Create(ctx context.Context, txn models.TransactionDB) (*models.TransactionDB, error) {
	if txn.TransactionTime.IsZero() {
		txn.TransactionTime = time.Now().UTC()
	}
	if txn.Currency == "" {
		txn.Currency = models.DefaultCurrency
	}

	if _, err := s.validator.ValidateOrderExists(ctx, txn.OrderID); err != nil {
		return nil, err
	}

	saved, err := s.writeRepo.Save(ctx, txn)
	if err != nil {
		logger.Log.Errorw("failed to save transaction", "order_id", txn.OrderID, "error", err)
		return nil, err
	}

	if s.countsCache != nil {
		if err := s.countsCache.InvalidateCount(ctx, saved.OrderID); err != nil {
			logger.Log.Warnw("failed to invalidate counts cache", "order_id", saved.OrderID, "error", err)
		}
	}

	s.publishCreated(ctx, *saved)

	return saved, nil
}

// ListByOrder returns transactions for one order, newest transaction time first.
func (s *TransactionService) ListByOrder(ctx context.Context, orderID uuid.UUID, limit, offset int) ([]models.TransactionDB, error) {
	txns, err := s.readRepo.ListByOrder(ctx, orderID, limit, offset)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "order_id", orderID, "error", err)
		return nil, err
	}
	return txns, nil
}

// CountsByOrders returns the number of transactions per order id. Duplicate
// ids collapse; every requested id is present in the result, 0 when the order
// has no transactions. Cached counts are used where available and all misses
// are resolved with a single grouped query.
func (s *TransactionService) CountsByOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(orderIDs))

	seen := make(map[uuid.UUID]struct{}, len(orderIDs))
	var misses []uuid.UUID
	for _, id := range orderIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if s.countsCache != nil {
			if count, err := s.countsCache.GetCount(ctx, id); err == nil {
				counts[id] = count
				continue
			}
		}
		misses = append(misses, id)
	}

	if len(misses) == 0 {
		return counts, nil
	}

	found, err := s.readRepo.CountByOrders(ctx, misses)
	if err != nil {
		logger.Log.Errorw("failed to count transactions", "order_ids", misses, "error", err)
		return nil, err
	}

	for _, id := range misses {
		count := found[id]
		counts[id] = count

		if s.countsCache != nil {
			if err := s.countsCache.SetCount(ctx, id, count); err != nil {
				logger.Log.Warnw("failed to cache transaction count", "order_id", id, "error", err)
			}
		}
	}

	return counts, nil
}

// DeleteByOrder removes every transaction for an order and returns how many
// were removed. Administrative utility, not part of the public surface.
func (s *TransactionService) DeleteByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	deleted, err := s.writeRepo.DeleteByOrder(ctx, orderID)
	if err != nil {
		logger.Log.Errorw("failed to delete transactions", "order_id", orderID, "error", err)
		return 0, err
	}

	if s.countsCache != nil {
		if err := s.countsCache.InvalidateCount(ctx, orderID); err != nil {
			logger.Log.Warnw("failed to invalidate counts cache", "order_id", orderID, "error", err)
		}
	}

	return deleted, nil
}

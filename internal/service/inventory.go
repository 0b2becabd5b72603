package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/heencoffee/pos-api/internal/database"
	"github.com/heencoffee/pos-api/internal/enum"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Errors returned by the inventory service.
var (
	ErrInvalidAdjustmentType = errors.New("type must be addition, deduction or adjustment")
	ErrInvalidStockQuantity  = errors.New("invalid quantity")
	ErrItemNotFound          = errors.New("inventory item not found")
	ErrStockOutOfRange       = errors.New("stock would exceed 99999999.99")
)

// InventoryStore defines the DB methods needed to adjust stock.
// Satisfied by *database.Queries (and its WithTx variant).
type InventoryStore interface {
	GetInventoryItemForUpdate(ctx context.Context, id uuid.UUID) (database.InventoryItem, error)
	UpdateInventoryStock(ctx context.Context, arg database.UpdateInventoryStockParams) (database.InventoryItem, error)
	CreateInventoryLog(ctx context.Context, arg database.CreateInventoryLogParams) (database.InventoryLog, error)
}

// NewInventoryStore creates an InventoryStore from a DBTX (pool or tx).
type NewInventoryStore func(db database.DBTX) InventoryStore

// AdjustStockRequest is the input for a stock adjustment. Quantity is a
// magnitude for addition and deduction and the new level for adjustment.
type AdjustStockRequest struct {
	ItemID   uuid.UUID
	Type     string
	Quantity string
	Reason   string
	UserID   uuid.UUID
}

// AdjustStockResult is the updated item with the log row that records it.
type AdjustStockResult struct {
	Item database.InventoryItem
	Log  database.InventoryLog
	// LowStock is true when the new stock is at or below the threshold.
	LowStock bool
	// CrossedLowStock is true when the item was above its threshold before
	// this adjustment and is at or below it now.
	CrossedLowStock bool
}

// InventoryService handles stock adjustments.
type InventoryService struct {
	pool     TxBeginner
	newStore NewInventoryStore
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(pool TxBeginner, newStore NewInventoryStore) *InventoryService {
	return &InventoryService{pool: pool, newStore: newStore}
}

// AdjustStock locks the item, applies the adjustment and appends a log row,
// all in one transaction.
func (s *InventoryService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*AdjustStockResult, error) {
	if !isAdjustmentType(req.Type) {
		return nil, ErrInvalidAdjustmentType
	}
	qty, err := ParseStockQuantity(req.Quantity, req.Type != enum.AdjustmentAdjustment)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	item, err := store.GetInventoryItemForUpdate(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}

	prev := numericToDecimal(item.Stock)
	next := NextStock(prev, req.Type, qty)
	if exceedsMaxAmount(next) {
		return nil, ErrStockOutOfRange
	}

	updated, err := store.UpdateInventoryStock(ctx, database.UpdateInventoryStockParams{
		ID:    item.ID,
		Stock: decimalToNumeric(next),
	})
	if err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}

	userID := pgtype.UUID{}
	if req.UserID != uuid.Nil {
		userID = pgtype.UUID{Bytes: req.UserID, Valid: true}
	}
	reason := pgtype.Text{}
	if req.Reason != "" {
		reason = pgtype.Text{String: req.Reason, Valid: true}
	}

	entry, err := store.CreateInventoryLog(ctx, database.CreateInventoryLogParams{
		InventoryItemID: item.ID,
		UserID:          userID,
		Type:            req.Type,
		Quantity:        decimalToNumeric(qty),
		PreviousStock:   decimalToNumeric(prev),
		NewStock:        decimalToNumeric(next),
		Reason:          reason,
	})
	if err != nil {
		return nil, fmt.Errorf("create inventory log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	threshold := numericToDecimal(item.LowStockThreshold)
	return &AdjustStockResult{
		Item:            updated,
		Log:             entry,
		LowStock:        next.LessThanOrEqual(threshold),
		CrossedLowStock: prev.GreaterThan(threshold) && next.LessThanOrEqual(threshold),
	}, nil
}

// NextStock computes the stock level after an adjustment, floored at zero.
func NextStock(prev decimal.Decimal, typ string, qty decimal.Decimal) decimal.Decimal {
	var next decimal.Decimal
	switch typ {
	case enum.AdjustmentAddition:
		next = prev.Add(qty)
	case enum.AdjustmentDeduction:
		next = prev.Sub(qty)
	default:
		next = qty
	}
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}

// ParseStockQuantity parses a stock amount with at most two decimal places,
// no larger than MaxAmount. With positive set, zero is rejected as well as negatives.
func ParseStockQuantity(s string, positive bool) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, ErrInvalidStockQuantity
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidStockQuantity
	}
	if d.IsNegative() || (positive && d.IsZero()) {
		return decimal.Zero, ErrInvalidStockQuantity
	}
	if !d.Equal(d.Round(2)) || exceedsMaxAmount(d) {
		return decimal.Zero, ErrInvalidStockQuantity
	}
	return d, nil
}

func isAdjustmentType(s string) bool {
	switch s {
	case enum.AdjustmentAddition, enum.AdjustmentDeduction, enum.AdjustmentAdjustment:
		return true
	}
	return false
}

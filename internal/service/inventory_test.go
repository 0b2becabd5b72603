package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/heencoffee/pos-api/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockInventoryStore implements InventoryStore with configurable behavior.
type mockInventoryStore struct {
	getForUpdateFn func(ctx context.Context, id uuid.UUID) (database.InventoryItem, error)
	updateStockFn  func(ctx context.Context, arg database.UpdateInventoryStockParams) (database.InventoryItem, error)
	createLogFn    func(ctx context.Context, arg database.CreateInventoryLogParams) (database.InventoryLog, error)
}

func (m *mockInventoryStore) GetInventoryItemForUpdate(ctx context.Context, id uuid.UUID) (database.InventoryItem, error) {
	return m.getForUpdateFn(ctx, id)
}
func (m *mockInventoryStore) UpdateInventoryStock(ctx context.Context, arg database.UpdateInventoryStockParams) (database.InventoryItem, error) {
	return m.updateStockFn(ctx, arg)
}
func (m *mockInventoryStore) CreateInventoryLog(ctx context.Context, arg database.CreateInventoryLogParams) (database.InventoryLog, error) {
	return m.createLogFn(ctx, arg)
}

// newInventoryStore returns a store holding a single item with the given
// stock and threshold. Captured writes are exposed through the pointers.
func newInventoryStore(item database.InventoryItem, gotStock *database.UpdateInventoryStockParams, gotLog *database.CreateInventoryLogParams) *mockInventoryStore {
	return &mockInventoryStore{
		getForUpdateFn: func(ctx context.Context, id uuid.UUID) (database.InventoryItem, error) {
			if id == item.ID {
				return item, nil
			}
			return database.InventoryItem{}, pgx.ErrNoRows
		},
		updateStockFn: func(ctx context.Context, arg database.UpdateInventoryStockParams) (database.InventoryItem, error) {
			if gotStock != nil {
				*gotStock = arg
			}
			out := item
			out.Stock = arg.Stock
			return out, nil
		},
		createLogFn: func(ctx context.Context, arg database.CreateInventoryLogParams) (database.InventoryLog, error) {
			if gotLog != nil {
				*gotLog = arg
			}
			return database.InventoryLog{
				ID:              uuid.New(),
				InventoryItemID: arg.InventoryItemID,
				UserID:          arg.UserID,
				Type:            arg.Type,
				Quantity:        arg.Quantity,
				PreviousStock:   arg.PreviousStock,
				NewStock:        arg.NewStock,
				Reason:          arg.Reason,
			}, nil
		},
	}
}

func newTestInventoryService(store *mockInventoryStore) (*InventoryService, *mockTx) {
	tx := &mockTx{}
	pool := &mockTxBeginner{tx: tx}
	return NewInventoryService(pool, func(db database.DBTX) InventoryStore { return store }), tx
}

func beans(stock, threshold string) database.InventoryItem {
	return database.InventoryItem{
		ID:                uuid.New(),
		Name:              "Coffee Beans",
		Category:          "Beans",
		Stock:             makeNumeric(stock),
		Unit:              "kg",
		LowStockThreshold: makeNumeric(threshold),
		AutoDeduct:        true,
	}
}

func TestNextStock(t *testing.T) {
	d := decimal.RequireFromString
	tests := []struct {
		name string
		prev string
		typ  string
		qty  string
		want string
	}{
		{"addition", "5", "addition", "2.5", "7.5"},
		{"deduction", "5", "deduction", "1.25", "3.75"},
		{"deduction to exactly zero", "5", "deduction", "5", "0"},
		{"deduction clamped", "8.2", "deduction", "10", "0"},
		{"adjustment sets level", "8.2", "adjustment", "3", "3"},
		{"adjustment to zero", "8.2", "adjustment", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStock(d(tt.prev), tt.typ, d(tt.qty))
			assert.True(t, got.Equal(d(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestNextStock_RepeatedDeductionsNeverNegative(t *testing.T) {
	stock := decimal.RequireFromString("3")
	for i := 0; i < 5; i++ {
		stock = NextStock(stock, "deduction", decimal.RequireFromString("1.4"))
		require.False(t, stock.IsNegative())
	}
	assert.True(t, stock.IsZero())
}

func TestParseStockQuantity(t *testing.T) {
	tests := []struct {
		in       string
		positive bool
		ok       bool
	}{
		{"10", true, true},
		{"0.25", true, true},
		{"0", true, false},
		{"0", false, true},
		{"-1", false, false},
		{"1.234", true, false},
		{"99999999.99", true, true},
		{"100000000", false, false},
		{"abc", true, false},
		{"", false, false},
	}
	for _, tt := range tests {
		_, err := ParseStockQuantity(tt.in, tt.positive)
		if tt.ok {
			assert.NoError(t, err, "input %q", tt.in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidStockQuantity, "input %q", tt.in)
		}
	}
}

func TestAdjustStock_DeductionClampedAndLogged(t *testing.T) {
	item := beans("8.2", "1")
	var gotStock database.UpdateInventoryStockParams
	var gotLog database.CreateInventoryLogParams
	svc, tx := newTestInventoryService(newInventoryStore(item, &gotStock, &gotLog))

	userID := uuid.New()
	res, err := svc.AdjustStock(context.Background(), AdjustStockRequest{
		ItemID:   item.ID,
		Type:     "deduction",
		Quantity: "10",
		Reason:   "spilled",
		UserID:   userID,
	})
	require.NoError(t, err)

	assert.True(t, numericEquals(gotStock.Stock, "0"))
	assert.True(t, numericEquals(gotLog.PreviousStock, "8.2"))
	assert.True(t, numericEquals(gotLog.NewStock, "0"))
	assert.True(t, numericEquals(gotLog.Quantity, "10"))
	assert.Equal(t, "deduction", gotLog.Type)
	assert.Equal(t, "spilled", gotLog.Reason.String)
	assert.True(t, gotLog.UserID.Valid)
	assert.Equal(t, [16]byte(userID), gotLog.UserID.Bytes)

	assert.True(t, numericEquals(res.Item.Stock, "0"))
	assert.True(t, res.LowStock)
	assert.True(t, res.CrossedLowStock)
	assert.True(t, tx.committed)
}

func TestAdjustStock_AdditionAboveThreshold(t *testing.T) {
	item := beans("0.5", "1")
	var gotLog database.CreateInventoryLogParams
	svc, _ := newTestInventoryService(newInventoryStore(item, nil, &gotLog))

	res, err := svc.AdjustStock(context.Background(), AdjustStockRequest{
		ItemID:   item.ID,
		Type:     "addition",
		Quantity: "2",
	})
	require.NoError(t, err)

	assert.True(t, numericEquals(gotLog.NewStock, "2.5"))
	assert.False(t, gotLog.UserID.Valid, "user id should be NULL when unknown")
	assert.False(t, gotLog.Reason.Valid)
	assert.False(t, res.LowStock)
	assert.False(t, res.CrossedLowStock)
}

func TestAdjustStock_AlreadyLowDoesNotCrossAgain(t *testing.T) {
	item := beans("0.8", "1")
	svc, _ := newTestInventoryService(newInventoryStore(item, nil, nil))

	res, err := svc.AdjustStock(context.Background(), AdjustStockRequest{
		ItemID:   item.ID,
		Type:     "deduction",
		Quantity: "0.3",
	})
	require.NoError(t, err)
	assert.True(t, res.LowStock)
	assert.False(t, res.CrossedLowStock)
}

func TestAdjustStock_Validation(t *testing.T) {
	item := beans("5", "1")
	tests := []struct {
		name    string
		typ     string
		qty     string
		wantErr error
	}{
		{"unknown type", "restock", "1", ErrInvalidAdjustmentType},
		{"zero addition", "addition", "0", ErrInvalidStockQuantity},
		{"negative deduction", "deduction", "-2", ErrInvalidStockQuantity},
		{"three decimals", "addition", "0.125", ErrInvalidStockQuantity},
		{"negative adjustment", "adjustment", "-1", ErrInvalidStockQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			began := false
			pool := &mockTxBeginner{tx: &mockTx{}}
			svc := NewInventoryService(pool, func(db database.DBTX) InventoryStore {
				began = true
				return newInventoryStore(item, nil, nil)
			})
			_, err := svc.AdjustStock(context.Background(), AdjustStockRequest{
				ItemID: item.ID, Type: tt.typ, Quantity: tt.qty,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, began)
		})
	}
}

func TestAdjustStock_ZeroAdjustmentAllowed(t *testing.T) {
	item := beans("5", "1")
	svc, _ := newTestInventoryService(newInventoryStore(item, nil, nil))

	res, err := svc.AdjustStock(context.Background(), AdjustStockRequest{
		ItemID: item.ID, Type: "adjustment", Quantity: "0",
	})
	require.NoError(t, err)
	assert.True(t, res.Item.Stock.Valid)
	assert.True(t, numericEquals(res.Item.Stock, "0"))
}

func TestAdjustStock_ItemNotFound(t *testing.T) {
	item := beans("5", "1")
	svc, tx := newTestInventoryService(newInventoryStore(item, nil, nil))

	_, err := svc.AdjustStock(context.Background(), AdjustStockRequest{
		ItemID: uuid.New(), Type: "addition", Quantity: "1",
	})
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.False(t, tx.committed)
}

func TestAdjustStock_LogFailureRollsBack(t *testing.T) {
	item := beans("5", "1")
	store := newInventoryStore(item, nil, nil)
	store.createLogFn = func(ctx context.Context, arg database.CreateInventoryLogParams) (database.InventoryLog, error) {
		return database.InventoryLog{}, errors.New("trigger fired")
	}
	svc, tx := newTestInventoryService(store)

	_, err := svc.AdjustStock(context.Background(), AdjustStockRequest{
		ItemID: item.ID, Type: "addition", Quantity: "1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create inventory log")
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestAdjustStock_AdditionBeyondColumnLimitRejected(t *testing.T) {
	item := beans("99999999", "1")
	store := newInventoryStore(item, nil, nil)
	store.updateStockFn = func(ctx context.Context, arg database.UpdateInventoryStockParams) (database.InventoryItem, error) {
		t.Fatal("stock must not be written")
		return database.InventoryItem{}, nil
	}
	svc, tx := newTestInventoryService(store)

	_, err := svc.AdjustStock(context.Background(), AdjustStockRequest{
		ItemID: item.ID, Type: "addition", Quantity: "1",
	})
	assert.ErrorIs(t, err, ErrStockOutOfRange)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestAdjustStock_AdditionUpToColumnLimit(t *testing.T) {
	item := beans("99999999", "1")
	svc, _ := newTestInventoryService(newInventoryStore(item, nil, nil))

	res, err := svc.AdjustStock(context.Background(), AdjustStockRequest{
		ItemID: item.ID, Type: "addition", Quantity: "0.99",
	})
	require.NoError(t, err)
	assert.True(t, numericEquals(res.Item.Stock, "99999999.99"))
}

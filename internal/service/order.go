package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heencoffee/pos-api/internal/database"
	"github.com/heencoffee/pos-api/internal/enum"
	"github.com/heencoffee/pos-api/internal/pricing"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const maxOrderNumberRetries = 3

// Errors returned by the order service.
var (
	ErrEmptyItems           = errors.New("items are required")
	ErrInvalidOrderType     = errors.New("invalid order_type")
	ErrInvalidPaymentMethod = errors.New("invalid payment_method")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrInvalidSize          = errors.New("size must be Small or Large")
	ErrInvalidTemperature   = errors.New("temperature must be Hot or Cold")
	ErrInvalidProductID     = errors.New("invalid product_id")
	ErrInvalidToppingID     = errors.New("invalid topping id")
	ErrProductNotFound      = errors.New("product not found")
	ErrToppingNotFound      = errors.New("topping not found")
	ErrInvalidDiscount      = errors.New("invalid discount_type")
	ErrInvalidDiscountValue = errors.New("invalid discount_value")
	ErrAmountOutOfRange     = errors.New("order amount exceeds 99999999.99")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

// MaxAmount is the largest value a NUMERIC(10,2) money or stock column holds.
var MaxAmount = decimal.RequireFromString("99999999.99")

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetProductForOrder(ctx context.Context, id uuid.UUID) (database.GetProductForOrderRow, error)
	GetToppingsForOrder(ctx context.Context, ids []uuid.UUID) ([]database.GetToppingsForOrderRow, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the input for creating an order. UserID is the
// authenticated staff member, never taken from the request body.
type CreateOrderRequest struct {
	UserID        uuid.UUID
	OrderType     string
	PaymentMethod string
	DiscountType  string
	DiscountValue string
	Note          string
	Items         []CreateOrderItemRequest
}

// CreateOrderItemRequest is a single line of the order.
type CreateOrderItemRequest struct {
	ProductID   string
	Size        string
	Temperature string
	ToppingIDs  []string
	Quantity    int32
}

// CreateOrderResult is the created order with its items.
type CreateOrderResult struct {
	Order database.Order
	Items []database.OrderItem
}

// OrderService handles order business logic.
type OrderService struct {
	pool          TxBeginner
	newStore      NewOrderStore
	clampDiscount bool

	now            func() time.Time
	newOrderNumber func() string
}

// NewOrderService creates a new OrderService. With clampDiscount set, the
// discount is limited to the subtotal and totals never go negative.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, clampDiscount bool) *OrderService {
	return &OrderService{
		pool:           pool,
		newStore:       newStore,
		clampDiscount:  clampDiscount,
		now:            time.Now,
		newOrderNumber: generateOrderNumber,
	}
}

// parsedItem is a line whose ids and enums have been validated.
type parsedItem struct {
	productID   uuid.UUID
	size        string
	temperature pgtype.Text
	toppingIDs  []uuid.UUID
	quantity    int32
}

// parsedOrder is a request that passed every check that needs no DB access.
type parsedOrder struct {
	userID        uuid.UUID
	orderType     database.OrderType
	paymentMethod database.PaymentMethod
	discount      pricing.Discount
	note          pgtype.Text
	items         []parsedItem
}

// CreateOrder validates, prices, and persists an order with its items in one
// transaction. Retries up to maxOrderNumberRetries times when the generated
// order number collides with an existing one.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	parsed, err := parseOrderRequest(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		result, err := s.createOrderTx(ctx, parsed)
		if err == nil {
			return result, nil
		}
		if isOrderNumberConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// isOrderNumberConflict checks if the error is a unique constraint violation
// on the order number (pgconn error code 23505).
func isOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_order_number_key"
	}
	return false
}

func parseOrderRequest(req CreateOrderRequest) (*parsedOrder, error) {
	orderType, err := validateOrderType(req.OrderType)
	if err != nil {
		return nil, err
	}
	paymentMethod, err := validatePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	discount, err := parseDiscount(req.DiscountType, req.DiscountValue)
	if err != nil {
		return nil, err
	}

	parsed := &parsedOrder{
		userID:        req.UserID,
		orderType:     orderType,
		paymentMethod: paymentMethod,
		discount:      discount,
		items:         make([]parsedItem, len(req.Items)),
	}
	if req.Note != "" {
		parsed.note = pgtype.Text{String: req.Note, Valid: true}
	}

	for i, item := range req.Items {
		pi, err := parseOrderItem(item)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
		parsed.items[i] = pi
	}
	return parsed, nil
}

func parseOrderItem(item CreateOrderItemRequest) (parsedItem, error) {
	if item.Quantity < 1 {
		return parsedItem{}, ErrInvalidQuantity
	}

	productID, err := uuid.Parse(item.ProductID)
	if err != nil {
		return parsedItem{}, ErrInvalidProductID
	}

	if item.Size != enum.SizeSmall && item.Size != enum.SizeLarge {
		return parsedItem{}, ErrInvalidSize
	}

	temperature := pgtype.Text{}
	switch item.Temperature {
	case "":
	case enum.TemperatureHot, enum.TemperatureCold:
		temperature = pgtype.Text{String: item.Temperature, Valid: true}
	default:
		return parsedItem{}, ErrInvalidTemperature
	}

	// Repeated topping ids count once.
	seen := make(map[uuid.UUID]bool, len(item.ToppingIDs))
	toppingIDs := make([]uuid.UUID, 0, len(item.ToppingIDs))
	for j, raw := range item.ToppingIDs {
		tid, err := uuid.Parse(raw)
		if err != nil {
			return parsedItem{}, fmt.Errorf("toppings[%d]: %w", j, ErrInvalidToppingID)
		}
		if seen[tid] {
			continue
		}
		seen[tid] = true
		toppingIDs = append(toppingIDs, tid)
	}

	return parsedItem{
		productID:   productID,
		size:        item.Size,
		temperature: temperature,
		toppingIDs:  toppingIDs,
		quantity:    item.Quantity,
	}, nil
}

// createOrderTx executes the full order creation in a single transaction.
func (s *OrderService) createOrderTx(ctx context.Context, req *parsedOrder) (*CreateOrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Resolve catalog prices ---
	lines := make([]pricing.Line, len(req.items))
	names := make([]string, len(req.items))
	toppingNames := make([][]string, len(req.items))

	for i, item := range req.items {
		product, err := store.GetProductForOrder(ctx, item.productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrProductNotFound)
			}
			return nil, fmt.Errorf("item[%d]: get product: %w", i, err)
		}

		var toppingPrices []decimal.Decimal
		toppingNames[i] = []string{}
		if len(item.toppingIDs) > 0 {
			toppings, err := store.GetToppingsForOrder(ctx, item.toppingIDs)
			if err != nil {
				return nil, fmt.Errorf("item[%d]: get toppings: %w", i, err)
			}
			if len(toppings) != len(item.toppingIDs) {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrToppingNotFound)
			}
			for _, t := range toppings {
				toppingPrices = append(toppingPrices, numericToDecimal(t.Price))
				toppingNames[i] = append(toppingNames[i], t.Name)
			}
		}

		names[i] = product.Name
		lines[i] = pricing.Line{
			BasePrice:     numericToDecimal(product.BasePrice),
			Size:          item.size,
			ToppingPrices: toppingPrices,
			Quantity:      item.quantity,
		}
	}

	quote := pricing.Price(lines, req.discount, pricing.Options{ClampDiscount: s.clampDiscount})
	if err := checkQuoteRange(quote); err != nil {
		return nil, err
	}

	// --- Insert order ---
	discountType := pgtype.Text{}
	discountValue := pgtype.Numeric{}
	if req.discount.Type != "" {
		discountType = pgtype.Text{String: req.discount.Type, Valid: true}
		discountValue = decimalToNumeric(req.discount.Value)
	}

	now := s.now()
	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		OrderNumber:    s.newOrderNumber(),
		UserID:         req.userID,
		OrderType:      req.orderType,
		PaymentMethod:  req.paymentMethod,
		Subtotal:       decimalToNumeric(quote.Subtotal),
		DiscountType:   discountType,
		DiscountValue:  discountValue,
		DiscountAmount: decimalToNumeric(quote.Discount),
		Total:          decimalToNumeric(quote.Total),
		Status:         database.OrderStatusCompleted,
		Note:           req.note,
		CompletedAt:    pgtype.Timestamptz{Time: now, Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// --- Insert items ---
	items := make([]database.OrderItem, 0, len(req.items))
	for i, item := range req.items {
		oi, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:     order.ID,
			ProductID:   item.productID,
			ProductName: names[i],
			UnitPrice:   decimalToNumeric(quote.Lines[i].UnitPrice),
			Size:        item.size,
			Temperature: item.temperature,
			Toppings:    toppingNames[i],
			Quantity:    item.quantity,
			LineTotal:   decimalToNumeric(quote.Lines[i].LineTotal),
		})
		if err != nil {
			return nil, fmt.Errorf("create order item[%d]: %w", i, err)
		}
		items = append(items, oi)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{
		Order: order,
		Items: items,
	}, nil
}

// --- Helpers ---

func validateOrderType(s string) (database.OrderType, error) {
	switch s {
	case enum.OrderTypeDelivery, enum.OrderTypeDineIn, enum.OrderTypeTakeAway:
		return database.OrderType(s), nil
	}
	return "", ErrInvalidOrderType
}

func validatePaymentMethod(s string) (database.PaymentMethod, error) {
	switch s {
	case enum.PaymentMethodCash, enum.PaymentMethodCard,
		enum.PaymentMethodQR, enum.PaymentMethodSplit:
		return database.PaymentMethod(s), nil
	}
	return "", ErrInvalidPaymentMethod
}

// parseDiscount maps the request pair to a pricing.Discount. An empty type
// or "none" means no discount and the value is ignored.
func parseDiscount(typ, value string) (pricing.Discount, error) {
	switch typ {
	case "", enum.DiscountTypeNone:
		return pricing.Discount{}, nil
	case enum.DiscountTypePercentage, enum.DiscountTypeAmount:
	default:
		return pricing.Discount{}, ErrInvalidDiscount
	}

	if value == "" {
		return pricing.Discount{}, ErrInvalidDiscountValue
	}
	v, err := decimal.NewFromString(value)
	if err != nil || v.IsNegative() {
		return pricing.Discount{}, ErrInvalidDiscountValue
	}
	// discount_value is stored with cents precision.
	if !v.Equal(v.Round(2)) || exceedsMaxAmount(v) {
		return pricing.Discount{}, ErrInvalidDiscountValue
	}
	return pricing.Discount{Type: typ, Value: v}, nil
}

// checkQuoteRange rejects a quote any of whose amounts would not fit its
// column.
func checkQuoteRange(q pricing.Quote) error {
	for i, l := range q.Lines {
		if exceedsMaxAmount(l.UnitPrice) || exceedsMaxAmount(l.LineTotal) {
			return fmt.Errorf("item[%d]: %w", i, ErrAmountOutOfRange)
		}
	}
	if exceedsMaxAmount(q.Subtotal) || exceedsMaxAmount(q.Discount) || exceedsMaxAmount(q.Total) {
		return ErrAmountOutOfRange
	}
	return nil
}

func exceedsMaxAmount(d decimal.Decimal) bool {
	return d.Abs().GreaterThan(MaxAmount)
}

var allowedTransitions = map[database.OrderStatus][]database.OrderStatus{
	database.OrderStatusPending:   {database.OrderStatusCompleted, database.OrderStatusCancelled},
	database.OrderStatusCompleted: {database.OrderStatusRefunded},
}

// ParseOrderStatus returns s as an order status, or ErrInvalidStatus.
func ParseOrderStatus(s string) (database.OrderStatus, error) {
	switch st := database.OrderStatus(s); st {
	case database.OrderStatusPending,
		database.OrderStatusCompleted,
		database.OrderStatusCancelled,
		database.OrderStatusRefunded:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// CheckTransition reports whether an order may move from current to next.
// Without strict, any status may follow any other. With strict, only
// pending -> completed|cancelled and completed -> refunded are allowed.
func CheckTransition(current, next database.OrderStatus, strict bool) error {
	if !strict {
		return nil
	}
	for _, s := range allowedTransitions[current] {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, current, next)
}

// generateOrderNumber returns ORD- followed by the base36 microsecond clock
// and four random hex digits, upper-cased.
func generateOrderNumber() string {
	ts := strconv.FormatInt(time.Now().UnixMicro(), 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	return strings.ToUpper("ORD-" + ts + suffix)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

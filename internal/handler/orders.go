package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/heencoffee/pos-api/internal/database"
	"github.com/heencoffee/pos-api/internal/middleware"
	"github.com/heencoffee/pos-api/internal/service"
	"github.com/heencoffee/pos-api/internal/ws"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
}

// OrderStore defines the database methods needed by order read/update handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	CountOrders(ctx context.Context, arg database.CountOrdersParams) (int64, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	SoftDeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// OrderHandlerOptions tunes order endpoint behavior.
type OrderHandlerOptions struct {
	// StrictTransitions limits status changes to pending -> completed|cancelled
	// and completed -> refunded. Without it any status may follow any other.
	StrictTransitions bool
	Location          *time.Location
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
	pub   Publisher
	opts  OrderHandlerOptions
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderStore, pub Publisher, opts OrderHandlerOptions) *OrderHandler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &OrderHandler{svc: svc, store: store, pub: pub, opts: opts}
}

// RegisterRoutes registers order endpoints available to any staff member.
// Mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// RegisterAdminRoutes registers order endpoints behind the admin role check.
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type createOrderRequest struct {
	OrderType     string                   `json:"order_type"`
	PaymentMethod string                   `json:"payment_method"`
	DiscountType  string                   `json:"discount_type"`
	DiscountValue json.Number              `json:"discount_value"`
	Note          string                   `json:"note"`
	Items         []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	ProductID   string                `json:"product_id"`
	Size        string                `json:"size"`
	Temperature string                `json:"temperature"`
	Toppings    []orderToppingRequest `json:"toppings"`
	Quantity    int32                 `json:"quantity"`
}

type orderToppingRequest struct {
	ID string `json:"id"`
}

type orderResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	UserID         uuid.UUID           `json:"user_id"`
	OrderType      string              `json:"order_type"`
	PaymentMethod  string              `json:"payment_method"`
	Subtotal       string              `json:"subtotal"`
	DiscountType   *string             `json:"discount_type"`
	DiscountValue  *string             `json:"discount_value"`
	DiscountAmount string              `json:"discount_amount"`
	Total          string              `json:"total"`
	Status         string              `json:"status"`
	Note           *string             `json:"note"`
	CompletedAt    *time.Time          `json:"completed_at"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Items          []orderItemResponse `json:"items,omitempty"`
}

type orderItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   string    `json:"unit_price"`
	Size        string    `json:"size"`
	Temperature *string   `json:"temperature"`
	Toppings    []string  `json:"toppings"`
	Quantity    int32     `json:"quantity"`
	LineTotal   string    `json:"line_total"`
}

// orderListResponse wraps a page of orders with pagination metadata.
type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Limit  int32           `json:"limit"`
	Offset int32           `json:"offset"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderStatusEvent struct {
	ID             uuid.UUID `json:"id"`
	OrderNumber    string    `json:"order_number"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status"`
}

// --- Handlers ---

// Create handles POST /orders. The acting user comes from the JWT.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	errs := fieldErrors{}
	if req.OrderType == "" {
		errs.add("order_type", "is required")
	}
	if req.PaymentMethod == "" {
		errs.add("payment_method", "is required")
	}
	if len(req.Items) == 0 {
		errs.add("items", "at least one item is required")
	}
	for i, item := range req.Items {
		if item.ProductID == "" {
			errs.add(fmt.Sprintf("items[%d].product_id", i), "is required")
		}
		if item.Size == "" {
			errs.add(fmt.Sprintf("items[%d].size", i), "is required")
		}
	}
	if errs.write(w) {
		return
	}

	svcItems := make([]service.CreateOrderItemRequest, len(req.Items))
	for i, item := range req.Items {
		ids := make([]string, len(item.Toppings))
		for j, t := range item.Toppings {
			ids[j] = t.ID
		}
		svcItems[i] = service.CreateOrderItemRequest{
			ProductID:   item.ProductID,
			Size:        item.Size,
			Temperature: item.Temperature,
			ToppingIDs:  ids,
			Quantity:    item.Quantity,
		}
	}

	result, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		UserID:        claims.UserID,
		OrderType:     req.OrderType,
		PaymentMethod: req.PaymentMethod,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue.String(),
		Note:          strings.TrimSpace(req.Note),
		Items:         svcItems,
	})
	if err != nil {
		if isValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		internalError(w, err, "create order")
		return
	}

	resp := toOrderResponse(result.Order, result.Items)
	log.Info().
		Str("order_id", resp.ID.String()).
		Str("order_number", resp.OrderNumber).
		Str("total", resp.Total).
		Msg("order created")
	publish(h.pub, ws.TopicOrders, ws.EventOrderCreated, resp)

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /orders with optional status, date range, and order
// number search filters.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 20, 100)
	q := r.URL.Query()

	count := database.CountOrdersParams{}

	if s := q.Get("status"); s != "" {
		status, err := service.ParseOrderStatus(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		count.Status = database.NullOrderStatus{OrderStatus: status, Valid: true}
	}

	from, ok, err := parseDay(r, "date_from", h.opts.Location)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if ok {
		count.StartDate = pgtype.Timestamptz{Time: from, Valid: true}
	}

	to, ok, err := parseDay(r, "date_to", h.opts.Location)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if ok {
		// date_to is inclusive: everything before the following midnight.
		count.EndDate = pgtype.Timestamptz{Time: to.AddDate(0, 0, 1), Valid: true}
	}

	if s := strings.TrimSpace(q.Get("search")); s != "" {
		count.Search = pgtype.Text{String: escapeLike(s), Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), database.ListOrdersParams{
		Status:    count.Status,
		StartDate: count.StartDate,
		EndDate:   count.EndDate,
		Search:    count.Search,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		internalError(w, err, "list orders")
		return
	}

	total, err := h.store.CountOrders(r.Context(), count)
	if err != nil {
		internalError(w, err, "count orders")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o, nil)
	}

	writeJSON(w, http.StatusOK, orderListResponse{
		Orders: resp,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// Get handles GET /orders/{id} and includes the order's items.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		internalError(w, err, "get order")
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), orderID)
	if err != nil {
		internalError(w, err, "list order items")
		return
	}
	if items == nil {
		items = []database.OrderItem{}
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order, items))
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	next, err := service.ParseOrderStatus(req.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	current, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		internalError(w, err, "get order for status update")
		return
	}

	if err := service.CheckTransition(current.Status, next, h.opts.StrictTransitions); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	// The update is conditional on the status we just read.
	updated, err := h.store.UpdateOrderStatus(r.Context(), database.UpdateOrderStatusParams{
		Status:   next,
		ID:       orderID,
		Status_2: current.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order status changed, please retry"})
			return
		}
		internalError(w, err, "update order status")
		return
	}

	log.Info().
		Str("order_id", orderID.String()).
		Str("from", string(current.Status)).
		Str("to", string(next)).
		Msg("order status changed")
	publish(h.pub, ws.TopicOrders, ws.EventOrderStatusChanged, orderStatusEvent{
		ID:             updated.ID,
		OrderNumber:    updated.OrderNumber,
		Status:         string(updated.Status),
		PreviousStatus: string(current.Status),
	})

	writeJSON(w, http.StatusOK, toOrderResponse(updated, nil))
}

// Delete handles DELETE /orders/{id}. The order is soft-deleted and drops out
// of listings and reports.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	if _, err := h.store.SoftDeleteOrder(r.Context(), orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		internalError(w, err, "delete order")
		return
	}

	log.Info().Str("order_id", orderID.String()).Msg("order deleted")
	publish(h.pub, ws.TopicOrders, ws.EventOrderDeleted, map[string]uuid.UUID{"id": orderID})

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// isValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isValidationError(err error) bool {
	return errors.Is(err, service.ErrEmptyItems) ||
		errors.Is(err, service.ErrInvalidOrderType) ||
		errors.Is(err, service.ErrInvalidPaymentMethod) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrInvalidSize) ||
		errors.Is(err, service.ErrInvalidTemperature) ||
		errors.Is(err, service.ErrInvalidProductID) ||
		errors.Is(err, service.ErrInvalidToppingID) ||
		errors.Is(err, service.ErrProductNotFound) ||
		errors.Is(err, service.ErrToppingNotFound) ||
		errors.Is(err, service.ErrInvalidDiscount) ||
		errors.Is(err, service.ErrInvalidDiscountValue) ||
		errors.Is(err, service.ErrAmountOutOfRange)
}

func toOrderResponse(o database.Order, items []database.OrderItem) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		OrderType:      string(o.OrderType),
		PaymentMethod:  string(o.PaymentMethod),
		Subtotal:       numericToString(o.Subtotal),
		DiscountType:   textPtr(o.DiscountType),
		DiscountAmount: numericToString(o.DiscountAmount),
		Total:          numericToString(o.Total),
		Status:         string(o.Status),
		Note:           textPtr(o.Note),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.DiscountValue.Valid {
		s := numericToString(o.DiscountValue)
		resp.DiscountValue = &s
	}
	if o.CompletedAt.Valid {
		t := o.CompletedAt.Time
		resp.CompletedAt = &t
	}
	if items != nil {
		resp.Items = make([]orderItemResponse, len(items))
		for i, item := range items {
			resp.Items[i] = toOrderItemResponse(item)
		}
	}
	return resp
}

func toOrderItemResponse(item database.OrderItem) orderItemResponse {
	toppings := item.Toppings
	if toppings == nil {
		toppings = []string{}
	}
	return orderItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		UnitPrice:   numericToString(item.UnitPrice),
		Size:        item.Size,
		Temperature: textPtr(item.Temperature),
		Toppings:    toppings,
		Quantity:    item.Quantity,
		LineTotal:   numericToString(item.LineTotal),
	}
}

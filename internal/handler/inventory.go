package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/heencoffee/pos-api/internal/database"
	"github.com/heencoffee/pos-api/internal/enum"
	"github.com/heencoffee/pos-api/internal/middleware"
	"github.com/heencoffee/pos-api/internal/service"
	"github.com/heencoffee/pos-api/internal/ws"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const recentLogsOnDetail = 20

// InventoryStore defines the database methods needed by inventory handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type InventoryStore interface {
	ListInventoryItems(ctx context.Context, arg database.ListInventoryItemsParams) ([]database.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id uuid.UUID) (database.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, arg database.CreateInventoryItemParams) (database.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, arg database.UpdateInventoryItemParams) (database.InventoryItem, error)
	ListInventoryLogs(ctx context.Context, arg database.ListInventoryLogsParams) ([]database.ListInventoryLogsRow, error)
	ListLowStockItems(ctx context.Context) ([]database.InventoryItem, error)
}

// StockAdjuster applies a stock adjustment and records it.
// Satisfied by *service.InventoryService.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, req service.AdjustStockRequest) (*service.AdjustStockResult, error)
}

// InventoryHandler handles inventory item and stock ledger endpoints.
type InventoryHandler struct {
	store InventoryStore
	svc   StockAdjuster
	pub   Publisher
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(store InventoryStore, svc StockAdjuster, pub Publisher) *InventoryHandler {
	return &InventoryHandler{store: store, svc: svc, pub: pub}
}

// RegisterRoutes registers endpoints available to any staff member.
// Mounted at /inventory.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/alerts/low-stock", h.LowStock)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/logs", h.Logs)
	r.Post("/{id}/adjust", h.Adjust)
}

// RegisterAdminRoutes registers item create/update behind the admin role check.
func (h *InventoryHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
}

// --- Request / Response types ---

type createInventoryItemRequest struct {
	Name              string      `json:"name"`
	Category          string      `json:"category"`
	Stock             json.Number `json:"stock"`
	Unit              string      `json:"unit"`
	LowStockThreshold json.Number `json:"low_stock_threshold"`
	AutoDeduct        *bool       `json:"auto_deduct"`
}

// updateInventoryItemRequest has no stock field: stock only changes through
// adjustments so that every change is logged.
type updateInventoryItemRequest struct {
	Name              string      `json:"name"`
	Category          string      `json:"category"`
	Unit              string      `json:"unit"`
	LowStockThreshold json.Number `json:"low_stock_threshold"`
	AutoDeduct        *bool       `json:"auto_deduct"`
}

type adjustStockRequest struct {
	Type     string      `json:"type"`
	Quantity json.Number `json:"quantity"`
	Reason   string      `json:"reason"`
}

type inventoryItemResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Stock             string    `json:"stock"`
	Unit              string    `json:"unit"`
	LowStockThreshold string    `json:"low_stock_threshold"`
	AutoDeduct        bool      `json:"auto_deduct"`
	IsLowStock        bool      `json:"is_low_stock"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type inventoryLogResponse struct {
	ID              uuid.UUID  `json:"id"`
	InventoryItemID uuid.UUID  `json:"inventory_item_id"`
	UserID          *uuid.UUID `json:"user_id"`
	UserName        *string    `json:"user_name,omitempty"`
	Type            string     `json:"type"`
	Quantity        string     `json:"quantity"`
	PreviousStock   string     `json:"previous_stock"`
	NewStock        string     `json:"new_stock"`
	Reason          *string    `json:"reason"`
	CreatedAt       time.Time  `json:"created_at"`
}

type inventoryDetailResponse struct {
	inventoryItemResponse
	Logs []inventoryLogResponse `json:"logs"`
}

type adjustStockResponse struct {
	Item inventoryItemResponse `json:"item"`
	Log  inventoryLogResponse  `json:"log"`
}

type lowStockResponse struct {
	Items []inventoryItemResponse `json:"items"`
	Count int                     `json:"count"`
}

// --- Handlers ---

// List returns inventory items filtered by category, name search, and
// low_stock=true.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := database.ListInventoryItemsParams{
		LowStockOnly: q.Get("low_stock") == "true",
	}
	if s := strings.TrimSpace(q.Get("category")); s != "" {
		params.Category = pgtype.Text{String: s, Valid: true}
	}
	if s := strings.TrimSpace(q.Get("search")); s != "" {
		params.Search = pgtype.Text{String: escapeLike(s), Valid: true}
	}

	items, err := h.store.ListInventoryItems(r.Context(), params)
	if err != nil {
		internalError(w, err, "list inventory items")
		return
	}

	writeJSON(w, http.StatusOK, toInventoryItemResponses(items))
}

// Get returns an item with its most recent log entries.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inventory item ID"})
		return
	}

	item, err := h.store.GetInventoryItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "inventory item not found"})
			return
		}
		internalError(w, err, "get inventory item")
		return
	}

	logs, err := h.store.ListInventoryLogs(r.Context(), database.ListInventoryLogsParams{
		InventoryItemID: itemID,
		Limit:           recentLogsOnDetail,
	})
	if err != nil {
		internalError(w, err, "get inventory item: logs")
		return
	}

	writeJSON(w, http.StatusOK, inventoryDetailResponse{
		inventoryItemResponse: toInventoryItemResponse(item),
		Logs:                  toInventoryLogRows(logs),
	})
}

// Logs returns a page of an item's ledger, newest first.
func (h *InventoryHandler) Logs(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inventory item ID"})
		return
	}

	if _, err := h.store.GetInventoryItem(r.Context(), itemID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "inventory item not found"})
			return
		}
		internalError(w, err, "list inventory logs: get item")
		return
	}

	limit, offset := parsePagination(r, 50, 200)
	logs, err := h.store.ListInventoryLogs(r.Context(), database.ListInventoryLogsParams{
		InventoryItemID: itemID,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		internalError(w, err, "list inventory logs")
		return
	}

	writeJSON(w, http.StatusOK, toInventoryLogRows(logs))
}

// LowStock returns items at or below their threshold.
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListLowStockItems(r.Context())
	if err != nil {
		internalError(w, err, "list low stock items")
		return
	}

	resp := toInventoryItemResponses(items)
	writeJSON(w, http.StatusOK, lowStockResponse{Items: resp, Count: len(resp)})
}

// Create adds a new inventory item with its opening stock.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	errs := fieldErrors{}
	params := database.CreateInventoryItemParams{
		Name:       strings.TrimSpace(req.Name),
		Category:   strings.TrimSpace(req.Category),
		Unit:       strings.TrimSpace(req.Unit),
		AutoDeduct: boolOr(req.AutoDeduct, true),
	}
	validateInventoryFields(errs, params.Name, params.Category, params.Unit)
	params.Stock = optionalAmount(errs, "stock", req.Stock)
	params.LowStockThreshold = optionalAmount(errs, "low_stock_threshold", req.LowStockThreshold)
	if errs.write(w) {
		return
	}

	item, err := h.store.CreateInventoryItem(r.Context(), params)
	if err != nil {
		internalError(w, err, "create inventory item")
		return
	}

	writeJSON(w, http.StatusCreated, toInventoryItemResponse(item))
}

// Update modifies item metadata. Stock is never changed here.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inventory item ID"})
		return
	}

	var req updateInventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	errs := fieldErrors{}
	params := database.UpdateInventoryItemParams{
		ID:         itemID,
		Name:       strings.TrimSpace(req.Name),
		Category:   strings.TrimSpace(req.Category),
		Unit:       strings.TrimSpace(req.Unit),
		AutoDeduct: boolOr(req.AutoDeduct, true),
	}
	validateInventoryFields(errs, params.Name, params.Category, params.Unit)
	params.LowStockThreshold = optionalAmount(errs, "low_stock_threshold", req.LowStockThreshold)
	if errs.write(w) {
		return
	}

	item, err := h.store.UpdateInventoryItem(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "inventory item not found"})
			return
		}
		internalError(w, err, "update inventory item")
		return
	}

	writeJSON(w, http.StatusOK, toInventoryItemResponse(item))
}

// Adjust applies an addition, deduction, or absolute adjustment to an
// item's stock and records it in the ledger.
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inventory item ID"})
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	errs := fieldErrors{}
	if req.Type == "" {
		errs.add("type", "is required")
	}
	if req.Quantity == "" {
		errs.add("quantity", "is required")
	}
	if errs.write(w) {
		return
	}

	result, err := h.svc.AdjustStock(r.Context(), service.AdjustStockRequest{
		ItemID:   itemID,
		Type:     req.Type,
		Quantity: req.Quantity.String(),
		Reason:   strings.TrimSpace(req.Reason),
		UserID:   claims.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidAdjustmentType):
			writeJSON(w, http.StatusBadRequest, validationErrorResponse{
				Error:  "validation failed",
				Fields: map[string]string{"type": err.Error()},
			})
		case errors.Is(err, service.ErrStockOutOfRange):
			writeJSON(w, http.StatusBadRequest, validationErrorResponse{
				Error:  "validation failed",
				Fields: map[string]string{"quantity": err.Error()},
			})
		case errors.Is(err, service.ErrInvalidStockQuantity):
			writeJSON(w, http.StatusBadRequest, validationErrorResponse{
				Error:  "validation failed",
				Fields: map[string]string{"quantity": quantityMessage(req.Type)},
			})
		default:
			internalError(w, err, "adjust stock")
		}
		return
	}

	resp := adjustStockResponse{
		Item: toInventoryItemResponse(result.Item),
		Log:  toInventoryLogResponse(result.Log),
	}

	log.Info().
		Str("item_id", itemID.String()).
		Str("type", req.Type).
		Str("previous", resp.Log.PreviousStock).
		Str("new", resp.Log.NewStock).
		Msg("stock adjusted")

	publish(h.pub, ws.TopicInventory, ws.EventInventoryAdjusted, resp)
	if result.CrossedLowStock {
		log.Warn().Str("item_id", itemID.String()).Str("stock", resp.Item.Stock).Msg("item reached low stock")
		publish(h.pub, ws.TopicInventory, ws.EventInventoryLowStock, resp.Item)
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func validateInventoryFields(errs fieldErrors, name, category, unit string) {
	if name == "" {
		errs.add("name", "is required")
	}
	if category == "" {
		errs.add("category", "is required")
	}
	if unit == "" {
		errs.add("unit", "is required")
	}
}

// optionalAmount parses an amount that defaults to zero when omitted.
func optionalAmount(errs fieldErrors, field string, n json.Number) pgtype.Numeric {
	if n == "" {
		return decimalToNumeric(decimal.Zero)
	}
	v, err := parseAmount(n)
	if err != nil {
		errs.add(field, err.Error())
	}
	return v
}

func quantityMessage(typ string) string {
	if typ == enum.AdjustmentAdjustment {
		return "must be a non-negative number with at most 2 decimals, up to 99999999.99"
	}
	return "must be a positive number with at most 2 decimals, up to 99999999.99"
}

func isLowStock(item database.InventoryItem) bool {
	stock, err := decimal.NewFromString(numericToString(item.Stock))
	if err != nil {
		return false
	}
	threshold, err := decimal.NewFromString(numericToString(item.LowStockThreshold))
	if err != nil {
		return false
	}
	return stock.LessThanOrEqual(threshold)
}

func toInventoryItemResponse(item database.InventoryItem) inventoryItemResponse {
	return inventoryItemResponse{
		ID:                item.ID,
		Name:              item.Name,
		Category:          item.Category,
		Stock:             numericToString(item.Stock),
		Unit:              item.Unit,
		LowStockThreshold: numericToString(item.LowStockThreshold),
		AutoDeduct:        item.AutoDeduct,
		IsLowStock:        isLowStock(item),
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

func toInventoryItemResponses(items []database.InventoryItem) []inventoryItemResponse {
	resp := make([]inventoryItemResponse, len(items))
	for i, item := range items {
		resp[i] = toInventoryItemResponse(item)
	}
	return resp
}

func toInventoryLogResponse(l database.InventoryLog) inventoryLogResponse {
	resp := inventoryLogResponse{
		ID:              l.ID,
		InventoryItemID: l.InventoryItemID,
		Type:            l.Type,
		Quantity:        numericToString(l.Quantity),
		PreviousStock:   numericToString(l.PreviousStock),
		NewStock:        numericToString(l.NewStock),
		Reason:          textPtr(l.Reason),
		CreatedAt:       l.CreatedAt,
	}
	if l.UserID.Valid {
		id := uuid.UUID(l.UserID.Bytes)
		resp.UserID = &id
	}
	return resp
}

func toInventoryLogRows(rows []database.ListInventoryLogsRow) []inventoryLogResponse {
	resp := make([]inventoryLogResponse, len(rows))
	for i, row := range rows {
		resp[i] = toInventoryLogResponse(database.InventoryLog{
			ID:              row.ID,
			InventoryItemID: row.InventoryItemID,
			UserID:          row.UserID,
			Type:            row.Type,
			Quantity:        row.Quantity,
			PreviousStock:   row.PreviousStock,
			NewStock:        row.NewStock,
			Reason:          row.Reason,
			CreatedAt:       row.CreatedAt,
		})
		resp[i].UserName = textPtr(row.UserFullName)
	}
	return resp
}

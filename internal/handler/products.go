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
	"github.com/heencoffee/pos-api/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ProductStore defines the database methods needed by product handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ProductStore interface {
	ListProducts(ctx context.Context, arg database.ListProductsParams) ([]database.ListProductsRow, error)
	GetProduct(ctx context.Context, id uuid.UUID) (database.GetProductRow, error)
	ListToppingsForProducts(ctx context.Context, productIds []uuid.UUID) ([]database.ListToppingsForProductsRow, error)
	CreateProduct(ctx context.Context, arg database.CreateProductParams) (database.Product, error)
	UpdateProduct(ctx context.Context, arg database.UpdateProductParams) (database.Product, error)
	SoftDeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	RemoveProductToppingsExcept(ctx context.Context, arg database.RemoveProductToppingsExceptParams) error
	AddProductTopping(ctx context.Context, arg database.AddProductToppingParams) error
}

// NewProductStore creates a ProductStore from a DBTX (pool or tx).
type NewProductStore func(db database.DBTX) ProductStore

// ProductHandler handles product CRUD endpoints.
type ProductHandler struct {
	store    ProductStore
	pool     service.TxBeginner
	newStore NewProductStore
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(store ProductStore, pool service.TxBeginner, newStore NewProductStore) *ProductHandler {
	return &ProductHandler{store: store, pool: pool, newStore: newStore}
}

// RegisterRoutes registers the read endpoints. Mounted at /products.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterAdminRoutes registers the write endpoints behind the admin role check.
func (h *ProductHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type productRequest struct {
	CategoryID     string      `json:"category_id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	BasePrice      json.Number `json:"base_price"`
	ImageURL       string      `json:"image_url"`
	HasSize        *bool       `json:"has_size"`
	HasTemperature *bool       `json:"has_temperature"`
	IsActive       *bool       `json:"is_active"`
	ToppingIDs     []string    `json:"topping_ids"`
}

// parsedProduct is a productRequest after validation.
type parsedProduct struct {
	categoryID     uuid.UUID
	name           string
	description    pgtype.Text
	basePrice      pgtype.Numeric
	imageURL       pgtype.Text
	hasSize        bool
	hasTemperature bool
	isActive       bool
	toppingIDs     []uuid.UUID
}

type productToppingResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price string    `json:"price"`
}

type productResponse struct {
	ID             uuid.UUID                `json:"id"`
	CategoryID     uuid.UUID                `json:"category_id"`
	CategoryName   string                   `json:"category_name"`
	Name           string                   `json:"name"`
	Slug           string                   `json:"slug"`
	Description    *string                  `json:"description"`
	BasePrice      string                   `json:"base_price"`
	ImageURL       *string                  `json:"image_url"`
	HasSize        bool                     `json:"has_size"`
	HasTemperature bool                     `json:"has_temperature"`
	IsActive       bool                     `json:"is_active"`
	Toppings       []productToppingResponse `json:"toppings"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

func toProductResponse(p database.GetProductRow, toppings []productToppingResponse) productResponse {
	if toppings == nil {
		toppings = []productToppingResponse{}
	}
	return productResponse{
		ID:             p.ID,
		CategoryID:     p.CategoryID,
		CategoryName:   p.CategoryName,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    textPtr(p.Description),
		BasePrice:      numericToString(p.BasePrice),
		ImageURL:       textPtr(p.ImageUrl),
		HasSize:        p.HasSize,
		HasTemperature: p.HasTemperature,
		IsActive:       p.IsActive,
		Toppings:       toppings,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (req productRequest) parse() (parsedProduct, fieldErrors) {
	errs := fieldErrors{}
	p := parsedProduct{
		name:           strings.TrimSpace(req.Name),
		description:    nullableText(strings.TrimSpace(req.Description)),
		imageURL:       nullableText(strings.TrimSpace(req.ImageURL)),
		hasSize:        boolOr(req.HasSize, true),
		hasTemperature: boolOr(req.HasTemperature, true),
		isActive:       boolOr(req.IsActive, true),
		toppingIDs:     []uuid.UUID{},
	}

	id, err := uuid.Parse(req.CategoryID)
	if err != nil {
		errs.add("category_id", "must be a valid UUID")
	}
	p.categoryID = id

	if p.name == "" {
		errs.add("name", "is required")
	} else if slugify(p.name) == "" {
		errs.add("name", "must contain a letter or digit")
	}

	if req.BasePrice == "" {
		errs.add("base_price", "is required")
	} else if p.basePrice, err = parseAmount(req.BasePrice); err != nil {
		errs.add("base_price", err.Error())
	}

	seen := make(map[uuid.UUID]bool, len(req.ToppingIDs))
	for i, raw := range req.ToppingIDs {
		tid, err := uuid.Parse(raw)
		if err != nil {
			errs.add("topping_ids", fmt.Sprintf("topping_ids[%d] must be a valid UUID", i))
			continue
		}
		if !seen[tid] {
			seen[tid] = true
			p.toppingIDs = append(p.toppingIDs, tid)
		}
	}

	return p, errs
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// --- Handlers ---

// List returns active products, optionally filtered by category_id and a
// name search, each with its active toppings.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := database.ListProductsParams{}
	if s := r.URL.Query().Get("category_id"); s != "" {
		catID, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		params.CategoryID = pgtype.UUID{Bytes: catID, Valid: true}
	}
	if s := strings.TrimSpace(r.URL.Query().Get("search")); s != "" {
		params.Search = pgtype.Text{String: escapeLike(s), Valid: true}
	}

	rows, err := h.store.ListProducts(r.Context(), params)
	if err != nil {
		internalError(w, err, "list products")
		return
	}

	ids := make([]uuid.UUID, len(rows))
	for i, p := range rows {
		ids[i] = p.ID
	}
	toppings, err := h.toppingsByProduct(r.Context(), h.store, ids)
	if err != nil {
		internalError(w, err, "list products: toppings")
		return
	}

	resp := make([]productResponse, len(rows))
	for i, p := range rows {
		resp[i] = toProductResponse(database.GetProductRow(p), toppings[p.ID])
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single product with its toppings.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	resp, err := h.loadProduct(r.Context(), h.store, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		internalError(w, err, "get product")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a product and its topping associations in one transaction.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	p, errs := req.parse()
	if errs.write(w) {
		return
	}

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		internalError(w, err, "create product: begin tx")
		return
	}
	defer tx.Rollback(r.Context()) //nolint:errcheck

	txStore := h.newStore(tx)

	product, err := txStore.CreateProduct(r.Context(), database.CreateProductParams{
		CategoryID:     p.categoryID,
		Name:           p.name,
		Slug:           slugify(p.name),
		Description:    p.description,
		BasePrice:      p.basePrice,
		ImageUrl:       p.imageURL,
		HasSize:        p.hasSize,
		HasTemperature: p.hasTemperature,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category not found"})
			return
		}
		internalError(w, err, "create product")
		return
	}

	h.finishWrite(w, r, tx, txStore, product.ID, p.toppingIDs, http.StatusCreated)
}

// Update replaces a product's fields and its topping associations.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	p, errs := req.parse()
	if errs.write(w) {
		return
	}

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		internalError(w, err, "update product: begin tx")
		return
	}
	defer tx.Rollback(r.Context()) //nolint:errcheck

	txStore := h.newStore(tx)

	_, err = txStore.UpdateProduct(r.Context(), database.UpdateProductParams{
		ID:             productID,
		CategoryID:     p.categoryID,
		Name:           p.name,
		Slug:           slugify(p.name),
		Description:    p.description,
		BasePrice:      p.basePrice,
		ImageUrl:       p.imageURL,
		HasSize:        p.hasSize,
		HasTemperature: p.hasTemperature,
		IsActive:       p.isActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category not found"})
			return
		}
		internalError(w, err, "update product")
		return
	}

	h.finishWrite(w, r, tx, txStore, productID, p.toppingIDs, http.StatusOK)
}

// Delete soft-deletes a product. Historical order items keep their snapshot.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	if _, err := h.store.SoftDeleteProduct(r.Context(), productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		internalError(w, err, "delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// finishWrite replaces the topping set, reloads the product and commits.
func (h *ProductHandler) finishWrite(w http.ResponseWriter, r *http.Request, tx pgx.Tx, txStore ProductStore, productID uuid.UUID, toppingIDs []uuid.UUID, status int) {
	ctx := r.Context()

	if err := txStore.RemoveProductToppingsExcept(ctx, database.RemoveProductToppingsExceptParams{
		ProductID: productID,
		KeepIds:   toppingIDs,
	}); err != nil {
		internalError(w, err, "product toppings: remove")
		return
	}
	for _, tid := range toppingIDs {
		if err := txStore.AddProductTopping(ctx, database.AddProductToppingParams{
			ProductID: productID,
			ToppingID: tid,
		}); err != nil {
			if isForeignKeyViolation(err) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "topping not found: " + tid.String()})
				return
			}
			internalError(w, err, "product toppings: add")
			return
		}
	}

	resp, err := h.loadProduct(ctx, txStore, productID)
	if err != nil {
		internalError(w, err, "product: reload")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		internalError(w, err, "product: commit tx")
		return
	}

	writeJSON(w, status, resp)
}

func (h *ProductHandler) loadProduct(ctx context.Context, store ProductStore, id uuid.UUID) (productResponse, error) {
	p, err := store.GetProduct(ctx, id)
	if err != nil {
		return productResponse{}, err
	}
	toppings, err := h.toppingsByProduct(ctx, store, []uuid.UUID{id})
	if err != nil {
		return productResponse{}, err
	}
	return toProductResponse(p, toppings[id]), nil
}

func (h *ProductHandler) toppingsByProduct(ctx context.Context, store ProductStore, ids []uuid.UUID) (map[uuid.UUID][]productToppingResponse, error) {
	out := make(map[uuid.UUID][]productToppingResponse, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := store.ListToppingsForProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range rows {
		out[t.ProductID] = append(out[t.ProductID], productToppingResponse{
			ID:    t.ID,
			Name:  t.Name,
			Price: numericToString(t.Price),
		})
	}
	return out, nil
}

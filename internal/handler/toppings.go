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
	"github.com/jackc/pgx/v5"
)

// ToppingStore defines the database methods needed by topping handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ToppingStore interface {
	ListToppings(ctx context.Context) ([]database.Topping, error)
	CreateTopping(ctx context.Context, arg database.CreateToppingParams) (database.Topping, error)
	UpdateTopping(ctx context.Context, arg database.UpdateToppingParams) (database.Topping, error)
	SoftDeleteTopping(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// ToppingHandler handles topping CRUD endpoints.
type ToppingHandler struct {
	store ToppingStore
}

// NewToppingHandler creates a new ToppingHandler.
func NewToppingHandler(store ToppingStore) *ToppingHandler {
	return &ToppingHandler{store: store}
}

// RegisterRoutes registers the read endpoints. Mounted at /toppings.
func (h *ToppingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterAdminRoutes registers the write endpoints behind the admin role check.
func (h *ToppingHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type toppingRequest struct {
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	IsActive *bool       `json:"is_active"`
}

type toppingResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toToppingResponse(t database.Topping) toppingResponse {
	return toppingResponse{
		ID:        t.ID,
		Name:      t.Name,
		Price:     numericToString(t.Price),
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (h *ToppingHandler) decode(w http.ResponseWriter, r *http.Request) (database.CreateToppingParams, bool, bool) {
	var req toppingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return database.CreateToppingParams{}, false, false
	}

	errs := fieldErrors{}
	params := database.CreateToppingParams{Name: strings.TrimSpace(req.Name)}
	if params.Name == "" {
		errs.add("name", "is required")
	}
	if req.Price == "" {
		errs.add("price", "is required")
	} else if price, err := parseAmount(req.Price); err != nil {
		errs.add("price", err.Error())
	} else {
		params.Price = price
	}
	if errs.write(w) {
		return database.CreateToppingParams{}, false, false
	}
	return params, boolOr(req.IsActive, true), true
}

// List returns all active toppings ordered by name.
func (h *ToppingHandler) List(w http.ResponseWriter, r *http.Request) {
	toppings, err := h.store.ListToppings(r.Context())
	if err != nil {
		internalError(w, err, "list toppings")
		return
	}

	resp := make([]toppingResponse, len(toppings))
	for i, t := range toppings {
		resp[i] = toToppingResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new topping.
func (h *ToppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	params, _, ok := h.decode(w, r)
	if !ok {
		return
	}

	topping, err := h.store.CreateTopping(r.Context(), params)
	if err != nil {
		internalError(w, err, "create topping")
		return
	}
	writeJSON(w, http.StatusCreated, toToppingResponse(topping))
}

// Update modifies an existing topping.
func (h *ToppingHandler) Update(w http.ResponseWriter, r *http.Request) {
	toppingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid topping ID"})
		return
	}

	params, active, ok := h.decode(w, r)
	if !ok {
		return
	}

	topping, err := h.store.UpdateTopping(r.Context(), database.UpdateToppingParams{
		ID:       toppingID,
		Name:     params.Name,
		Price:    params.Price,
		IsActive: active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "topping not found"})
			return
		}
		internalError(w, err, "update topping")
		return
	}
	writeJSON(w, http.StatusOK, toToppingResponse(topping))
}

// Delete soft-deletes a topping.
func (h *ToppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	toppingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid topping ID"})
		return
	}

	if _, err := h.store.SoftDeleteTopping(r.Context(), toppingID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "topping not found"})
			return
		}
		internalError(w, err, "delete topping")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

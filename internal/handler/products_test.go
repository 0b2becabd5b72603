package handler_test

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/heencoffee/pos-api/internal/database"
	"github.com/heencoffee/pos-api/internal/enum"
	"github.com/heencoffee/pos-api/internal/handler"
	"github.com/heencoffee/pos-api/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock store ---

type mockProductStore struct {
	categories map[uuid.UUID]string
	products   map[uuid.UUID]database.Product
	toppings   map[uuid.UUID]database.Topping
	links      map[uuid.UUID]map[uuid.UUID]bool // product -> toppings
}

func newMockProductStore() *mockProductStore {
	return &mockProductStore{
		categories: make(map[uuid.UUID]string),
		products:   make(map[uuid.UUID]database.Product),
		toppings:   make(map[uuid.UUID]database.Topping),
		links:      make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (m *mockProductStore) row(p database.Product) database.GetProductRow {
	return database.GetProductRow{
		ID: p.ID, CategoryID: p.CategoryID, Name: p.Name, Slug: p.Slug,
		Description: p.Description, BasePrice: p.BasePrice, ImageUrl: p.ImageUrl,
		HasSize: p.HasSize, HasTemperature: p.HasTemperature, IsActive: p.IsActive,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt, CategoryName: m.categories[p.CategoryID],
	}
}

func (m *mockProductStore) ListProducts(_ context.Context, arg database.ListProductsParams) ([]database.ListProductsRow, error) {
	var result []database.ListProductsRow
	for _, p := range m.products {
		if !p.IsActive || p.DeletedAt.Valid {
			continue
		}
		if arg.CategoryID.Valid && uuid.UUID(arg.CategoryID.Bytes) != p.CategoryID {
			continue
		}
		if arg.Search.Valid && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(arg.Search.String)) {
			continue
		}
		result = append(result, database.ListProductsRow(m.row(p)))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockProductStore) GetProduct(_ context.Context, id uuid.UUID) (database.GetProductRow, error) {
	p, ok := m.products[id]
	if !ok || p.DeletedAt.Valid {
		return database.GetProductRow{}, pgx.ErrNoRows
	}
	return m.row(p), nil
}

func (m *mockProductStore) ListToppingsForProducts(_ context.Context, ids []uuid.UUID) ([]database.ListToppingsForProductsRow, error) {
	var result []database.ListToppingsForProductsRow
	for _, pid := range ids {
		for tid := range m.links[pid] {
			t := m.toppings[tid]
			if !t.IsActive {
				continue
			}
			result = append(result, database.ListToppingsForProductsRow{ProductID: pid, ID: t.ID, Name: t.Name, Price: t.Price})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockProductStore) CreateProduct(_ context.Context, arg database.CreateProductParams) (database.Product, error) {
	if _, ok := m.categories[arg.CategoryID]; !ok {
		return database.Product{}, &pgconn.PgError{Code: "23503"}
	}
	p := database.Product{
		ID: uuid.New(), CategoryID: arg.CategoryID, Name: arg.Name, Slug: arg.Slug,
		Description: arg.Description, BasePrice: arg.BasePrice, ImageUrl: arg.ImageUrl,
		HasSize: arg.HasSize, HasTemperature: arg.HasTemperature, IsActive: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.products[p.ID] = p
	return p, nil
}

func (m *mockProductStore) UpdateProduct(_ context.Context, arg database.UpdateProductParams) (database.Product, error) {
	p, ok := m.products[arg.ID]
	if !ok || p.DeletedAt.Valid {
		return database.Product{}, pgx.ErrNoRows
	}
	if _, ok := m.categories[arg.CategoryID]; !ok {
		return database.Product{}, &pgconn.PgError{Code: "23503"}
	}
	p.CategoryID = arg.CategoryID
	p.Name = arg.Name
	p.Slug = arg.Slug
	p.Description = arg.Description
	p.BasePrice = arg.BasePrice
	p.ImageUrl = arg.ImageUrl
	p.HasSize = arg.HasSize
	p.HasTemperature = arg.HasTemperature
	p.IsActive = arg.IsActive
	m.products[p.ID] = p
	return p, nil
}

func (m *mockProductStore) SoftDeleteProduct(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	p, ok := m.products[id]
	if !ok || p.DeletedAt.Valid {
		return uuid.Nil, pgx.ErrNoRows
	}
	p.IsActive = false
	p.DeletedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
	m.products[id] = p
	return id, nil
}

func (m *mockProductStore) RemoveProductToppingsExcept(_ context.Context, arg database.RemoveProductToppingsExceptParams) error {
	if arg.KeepIds == nil {
		// A nil slice encodes as SQL NULL and "NOT (x = ANY(NULL))" matches nothing.
		panic("KeepIds must not be nil")
	}
	keep := make(map[uuid.UUID]bool, len(arg.KeepIds))
	for _, id := range arg.KeepIds {
		keep[id] = true
	}
	for tid := range m.links[arg.ProductID] {
		if !keep[tid] {
			delete(m.links[arg.ProductID], tid)
		}
	}
	return nil
}

func (m *mockProductStore) AddProductTopping(_ context.Context, arg database.AddProductToppingParams) error {
	if _, ok := m.toppings[arg.ToppingID]; !ok {
		return &pgconn.PgError{Code: "23503"}
	}
	if m.links[arg.ProductID] == nil {
		m.links[arg.ProductID] = make(map[uuid.UUID]bool)
	}
	m.links[arg.ProductID][arg.ToppingID] = true
	return nil
}

func (m *mockProductStore) addCategory(name string) uuid.UUID {
	id := uuid.New()
	m.categories[id] = name
	return id
}

func (m *mockProductStore) addTopping(name, price string) uuid.UUID {
	t := database.Topping{ID: uuid.New(), Name: name, Price: makeNumeric(price), IsActive: true}
	m.toppings[t.ID] = t
	return t.ID
}

func (m *mockProductStore) addProduct(catID uuid.UUID, name, price string) uuid.UUID {
	p := database.Product{ID: uuid.New(), CategoryID: catID, Name: name, Slug: name, BasePrice: makeNumeric(price), IsActive: true, HasSize: true}
	m.products[p.ID] = p
	return p.ID
}

// --- Helpers ---

func setupProductRouter(store *mockProductStore, pool *mockPool) *chi.Mux {
	h := handler.NewProductHandler(store, pool, func(database.DBTX) handler.ProductStore { return store })
	r := chi.NewRouter()
	r.Route("/products", func(r chi.Router) {
		r.Use(middleware.Authenticate(testSecret))
		h.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enum.UserRoleAdmin))
			h.RegisterAdminRoutes(r)
		})
	})
	return r
}

// --- List / Get tests ---

func TestListProducts_WithToppingsAndCategory(t *testing.T) {
	store := newMockProductStore()
	coffee := store.addCategory("Coffee")
	latte := store.addProduct(coffee, "Latte", "4.50")
	store.addProduct(coffee, "Americano", "3.00")
	shot := store.addTopping("Extra Shot", "0.75")
	store.links[latte] = map[uuid.UUID]bool{shot: true}
	router := setupProductRouter(store, &mockPool{})

	rr := doAuthRequest(t, router, "GET", "/products", nil, cashierClaims())

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decodeListResponse(t, rr)
	require.Len(t, resp, 2)
	assert.Equal(t, "Americano", resp[0]["name"])
	assert.Empty(t, resp[0]["toppings"])
	assert.Equal(t, "Latte", resp[1]["name"])
	assert.Equal(t, "Coffee", resp[1]["category_name"])
	assert.Equal(t, "4.50", resp[1]["base_price"])
	toppings := resp[1]["toppings"].([]interface{})
	require.Len(t, toppings, 1)
	assert.Equal(t, "0.75", toppings[0].(map[string]interface{})["price"])
}

func TestListProducts_Filters(t *testing.T) {
	store := newMockProductStore()
	coffee := store.addCategory("Coffee")
	pastry := store.addCategory("Pastry")
	store.addProduct(coffee, "Latte", "4.50")
	store.addProduct(coffee, "Iced Latte", "5.00")
	store.addProduct(pastry, "Croissant", "3.00")
	router := setupProductRouter(store, &mockPool{})

	rr := doAuthRequest(t, router, "GET", "/products?category_id="+pastry.String(), nil, cashierClaims())
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeListResponse(t, rr)
	require.Len(t, resp, 1)
	assert.Equal(t, "Croissant", resp[0]["name"])

	rr = doAuthRequest(t, router, "GET", "/products?search=latte", nil, cashierClaims())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeListResponse(t, rr), 2)

	rr = doAuthRequest(t, router, "GET", "/products?category_id=bad", nil, cashierClaims())
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetProduct_NotFound(t *testing.T) {
	router := setupProductRouter(newMockProductStore(), &mockPool{})

	rr := doAuthRequest(t, router, "GET", "/products/"+uuid.New().String(), nil, cashierClaims())

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- Create tests ---

func TestCreateProduct_WithToppings(t *testing.T) {
	store := newMockProductStore()
	coffee := store.addCategory("Coffee")
	shot := store.addTopping("Extra Shot", "0.75")
	syrup := store.addTopping("Vanilla Syrup", "0.50")
	pool := &mockPool{}
	router := setupProductRouter(store, pool)

	rr := doAuthRequest(t, router, "POST", "/products", map[string]interface{}{
		"category_id": coffee.String(),
		"name":        "Caramel Latte",
		"base_price":  "4.5",
		"topping_ids": []string{shot.String(), syrup.String(), shot.String()},
	}, adminClaims())

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	resp := decodeResponse(t, rr)
	assert.Equal(t, "caramel-latte", resp["slug"])
	assert.Equal(t, "4.50", resp["base_price"])
	assert.Equal(t, "Coffee", resp["category_name"])
	assert.Equal(t, true, resp["has_size"], "has_size defaults to true")
	assert.Len(t, resp["toppings"], 2)
	assert.True(t, pool.tx.committed)
}

func TestCreateProduct_NumericPrice(t *testing.T) {
	store := newMockProductStore()
	coffee := store.addCategory("Coffee")
	router := setupProductRouter(store, &mockPool{})

	rr := doAuthRequest(t, router, "POST", "/products", map[string]interface{}{
		"category_id": coffee.String(),
		"name":        "Espresso",
		"base_price":  3.25,
	}, adminClaims())

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "3.25", decodeResponse(t, rr)["base_price"])
}

func TestCreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"bad category", map[string]interface{}{"category_id": "x", "name": "A", "base_price": "1"}, "category_id"},
		{"missing name", map[string]interface{}{"category_id": uuid.NewString(), "base_price": "1"}, "name"},
		{"missing price", map[string]interface{}{"category_id": uuid.NewString(), "name": "A"}, "base_price"},
		{"negative price", map[string]interface{}{"category_id": uuid.NewString(), "name": "A", "base_price": "-1"}, "base_price"},
		{"three decimals", map[string]interface{}{"category_id": uuid.NewString(), "name": "A", "base_price": "1.005"}, "base_price"},
		{"bad topping", map[string]interface{}{"category_id": uuid.NewString(), "name": "A", "base_price": "1", "topping_ids": []string{"nope"}}, "topping_ids"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := &mockPool{}
			router := setupProductRouter(newMockProductStore(), pool)

			rr := doAuthRequest(t, router, "POST", "/products", tt.body, adminClaims())

			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			fields := decodeResponse(t, rr)["fields"].(map[string]interface{})
			assert.Contains(t, fields, tt.field)
			assert.Nil(t, pool.tx, "no transaction should start for invalid input")
		})
	}
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	pool := &mockPool{}
	router := setupProductRouter(newMockProductStore(), pool)

	rr := doAuthRequest(t, router, "POST", "/products", map[string]interface{}{
		"category_id": uuid.NewString(),
		"name":        "Latte",
		"base_price":  "4.50",
	}, adminClaims())

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, pool.tx.committed)
}

func TestCreateProduct_UnknownToppingRollsBack(t *testing.T) {
	store := newMockProductStore()
	coffee := store.addCategory("Coffee")
	pool := &mockPool{}
	router := setupProductRouter(store, pool)

	rr := doAuthRequest(t, router, "POST", "/products", map[string]interface{}{
		"category_id": coffee.String(),
		"name":        "Latte",
		"base_price":  "4.50",
		"topping_ids": []string{uuid.NewString()},
	}, adminClaims())

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, pool.tx.committed)
}

func TestCreateProduct_CashierForbidden(t *testing.T) {
	router := setupProductRouter(newMockProductStore(), &mockPool{})

	rr := doAuthRequest(t, router, "POST", "/products", map[string]interface{}{}, cashierClaims())

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

// --- Update tests ---

func TestUpdateProduct_ReplacesToppings(t *testing.T) {
	store := newMockProductStore()
	coffee := store.addCategory("Coffee")
	latte := store.addProduct(coffee, "Latte", "4.50")
	shot := store.addTopping("Extra Shot", "0.75")
	syrup := store.addTopping("Vanilla Syrup", "0.50")
	store.links[latte] = map[uuid.UUID]bool{shot: true}
	router := setupProductRouter(store, &mockPool{})

	rr := doAuthRequest(t, router, "PUT", "/products/"+latte.String(), map[string]interface{}{
		"category_id": coffee.String(),
		"name":        "Latte",
		"base_price":  "4.75",
		"topping_ids": []string{syrup.String()},
	}, adminClaims())

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "4.75", decodeResponse(t, rr)["base_price"])
	assert.Equal(t, map[uuid.UUID]bool{syrup: true}, store.links[latte])
}

func TestUpdateProduct_ClearsToppingsWhenOmitted(t *testing.T) {
	store := newMockProductStore()
	coffee := store.addCategory("Coffee")
	latte := store.addProduct(coffee, "Latte", "4.50")
	shot := store.addTopping("Extra Shot", "0.75")
	store.links[latte] = map[uuid.UUID]bool{shot: true}
	router := setupProductRouter(store, &mockPool{})

	rr := doAuthRequest(t, router, "PUT", "/products/"+latte.String(), map[string]interface{}{
		"category_id": coffee.String(),
		"name":        "Latte",
		"base_price":  "4.50",
	}, adminClaims())

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Empty(t, store.links[latte])
}

func TestUpdateProduct_NotFound(t *testing.T) {
	store := newMockProductStore()
	coffee := store.addCategory("Coffee")
	router := setupProductRouter(store, &mockPool{})

	rr := doAuthRequest(t, router, "PUT", "/products/"+uuid.NewString(), map[string]interface{}{
		"category_id": coffee.String(),
		"name":        "Latte",
		"base_price":  "4.50",
	}, adminClaims())

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- Delete tests ---

func TestDeleteProduct(t *testing.T) {
	store := newMockProductStore()
	latte := store.addProduct(store.addCategory("Coffee"), "Latte", "4.50")
	router := setupProductRouter(store, &mockPool{})

	rr := doAuthRequest(t, router, "DELETE", "/products/"+latte.String(), nil, adminClaims())
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doAuthRequest(t, router, "GET", "/products/"+latte.String(), nil, cashierClaims())
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/heencoffee/pos-api/internal/database"
	"github.com/heencoffee/pos-api/internal/enum"
	"github.com/heencoffee/pos-api/internal/handler"
	"github.com/heencoffee/pos-api/internal/middleware"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Store ---

type mockReportsStore struct {
	summary      database.GetSalesSummaryRow
	topProducts  []database.GetTopProductsRow
	stats        database.GetDashboardStatsRow
	dailySales   []database.GetDailySalesRow
	topByRevenue []database.GetTopProductsByRevenueRow
	recent       []database.ListRecentOrdersRow
	summaryErr   error

	lastSummary    database.GetSalesSummaryParams
	lastTop        database.GetTopProductsParams
	lastDaily      database.GetDailySalesParams
	lastTodayStart time.Time
}

func (m *mockReportsStore) GetSalesSummary(_ context.Context, arg database.GetSalesSummaryParams) (database.GetSalesSummaryRow, error) {
	m.lastSummary = arg
	return m.summary, m.summaryErr
}

func (m *mockReportsStore) GetTopProducts(_ context.Context, arg database.GetTopProductsParams) ([]database.GetTopProductsRow, error) {
	m.lastTop = arg
	return m.topProducts, nil
}

func (m *mockReportsStore) GetDashboardStats(_ context.Context, todayStart time.Time) (database.GetDashboardStatsRow, error) {
	m.lastTodayStart = todayStart
	return m.stats, nil
}

func (m *mockReportsStore) GetDailySales(_ context.Context, arg database.GetDailySalesParams) ([]database.GetDailySalesRow, error) {
	m.lastDaily = arg
	return m.dailySales, nil
}

func (m *mockReportsStore) GetTopProductsByRevenue(_ context.Context, _ int32) ([]database.GetTopProductsByRevenueRow, error) {
	return m.topByRevenue, nil
}

func (m *mockReportsStore) ListRecentOrders(_ context.Context, _ int32) ([]database.ListRecentOrdersRow, error) {
	return m.recent, nil
}

func setupReportsRouter(store *mockReportsStore, loc *time.Location) *chi.Mux {
	h := handler.NewReportsHandler(store, loc)
	r := chi.NewRouter()
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.Authenticate(testSecret))
		h.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enum.UserRoleAdmin))
			h.RegisterAdminRoutes(r)
		})
	})
	return r
}

func toDate(s string) pgtype.Date {
	t, _ := time.Parse("2006-01-02", s)
	return pgtype.Date{Time: t, Valid: true}
}

// --- Analytics ---

func TestReports_Analytics(t *testing.T) {
	productID := uuid.New()
	store := &mockReportsStore{
		summary: database.GetSalesSummaryRow{TotalOrders: 3, TotalRevenue: makeNumeric("20.00")},
		topProducts: []database.GetTopProductsRow{
			{ProductID: productID, ProductName: "Latte", TotalSold: 4, Revenue: makeNumeric("18.5")},
		},
	}
	wib := time.FixedZone("WIB", 7*60*60)
	router := setupReportsRouter(store, wib)

	rr := doAuthRequest(t, router, "GET", "/reports/analytics?date_from=2026-03-01&date_to=2026-03-03", nil, cashierClaims())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decodeResponse(t, rr)
	assert.Equal(t, "2026-03-01", resp["date_from"])
	assert.Equal(t, "2026-03-03", resp["date_to"])
	assert.Equal(t, float64(3), resp["total_orders"])
	assert.Equal(t, "20.00", resp["total_revenue"])
	assert.Equal(t, "6.67", resp["average_order"])

	top := resp["top_products"].([]interface{})
	require.Len(t, top, 1)
	first := top[0].(map[string]interface{})
	assert.Equal(t, "Latte", first["product_name"])
	assert.Equal(t, float64(4), first["total_sold"])
	assert.Equal(t, "18.50", first["revenue"])

	assert.True(t, store.lastSummary.StartDate.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, wib)))
	assert.True(t, store.lastSummary.EndDate.Equal(time.Date(2026, 3, 4, 0, 0, 0, 0, wib)))
	assert.Equal(t, int32(10), store.lastTop.RowLimit)
}

func TestReports_AnalyticsDefaultsToLastWeek(t *testing.T) {
	store := &mockReportsStore{}
	router := setupReportsRouter(store, nil)

	rr := doAuthRequest(t, router, "GET", "/reports/analytics", nil, cashierClaims())
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeResponse(t, rr)
	assert.Equal(t, "0.00", resp["average_order"])
	assert.Equal(t, []interface{}{}, resp["top_products"])
	assert.Equal(t, 7*24*time.Hour, store.lastSummary.EndDate.Sub(store.lastSummary.StartDate))
}

func TestReports_AnalyticsBadDates(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad from", "?date_from=03-01-2026"},
		{"bad to", "?date_to=yesterday"},
		{"reversed", "?date_from=2026-03-05&date_to=2026-03-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doAuthRequest(t, setupReportsRouter(&mockReportsStore{}, nil), "GET", "/reports/analytics"+tt.query, nil, cashierClaims())
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestReports_AnalyticsStoreError(t *testing.T) {
	store := &mockReportsStore{summaryErr: assert.AnError}

	rr := doAuthRequest(t, setupReportsRouter(store, nil), "GET", "/reports/analytics", nil, cashierClaims())

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

// --- Stats ---

func TestReports_Stats(t *testing.T) {
	today := time.Now().UTC()
	todayDate := today.Format("2006-01-02")
	store := &mockReportsStore{
		stats: database.GetDashboardStatsRow{
			TotalRevenue:    makeNumeric("100"),
			TotalOrders:     12,
			CompletedOrders: 8,
			OrdersToday:     2,
			TotalProducts:   9,
			ActiveProducts:  7,
		},
		dailySales: []database.GetDailySalesRow{
			{SaleDate: toDate(todayDate), OrderCount: 2, Revenue: makeNumeric("11.5")},
		},
		topByRevenue: []database.GetTopProductsByRevenueRow{
			{ProductID: uuid.New(), ProductName: "Mocha", TotalSold: 6, Revenue: makeNumeric("30")},
		},
		recent: []database.ListRecentOrdersRow{
			{ID: uuid.New(), OrderNumber: "ORD-20260301-0001", Total: makeNumeric("6.45"), Status: database.OrderStatusCompleted, CashierName: "Rina"},
		},
	}
	router := setupReportsRouter(store, nil)

	rr := doAuthRequest(t, router, "GET", "/reports/stats", nil, adminClaims())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decodeResponse(t, rr)
	assert.Equal(t, "100.00", resp["total_revenue"])
	assert.Equal(t, float64(12), resp["total_orders"])
	assert.Equal(t, float64(2), resp["orders_today"])
	assert.Equal(t, float64(7), resp["active_products"])
	assert.Equal(t, "12.50", resp["avg_order_value"])

	trend := resp["sales_trend"].([]interface{})
	require.Len(t, trend, 7)
	first := trend[0].(map[string]interface{})
	assert.Equal(t, "0.00", first["revenue"])
	assert.Equal(t, float64(0), first["order_count"])
	last := trend[6].(map[string]interface{})
	assert.Equal(t, todayDate, last["date"])
	assert.Equal(t, "11.50", last["revenue"])

	assert.Len(t, resp["top_products"], 1)
	recent := resp["recent_orders"].([]interface{})
	require.Len(t, recent, 1)
	assert.Equal(t, "Rina", recent[0].(map[string]interface{})["cashier_name"])
	assert.Equal(t, "completed", recent[0].(map[string]interface{})["status"])

	assert.Equal(t, "UTC", store.lastDaily.TimeZone)
	assert.Equal(t, 7*24*time.Hour, store.lastDaily.EndDate.Sub(store.lastDaily.StartDate))
	assert.Equal(t, store.lastDaily.EndDate.AddDate(0, 0, -1), store.lastTodayStart)
}

func TestReports_StatsAdminOnly(t *testing.T) {
	rr := doAuthRequest(t, setupReportsRouter(&mockReportsStore{}, nil), "GET", "/reports/stats", nil, cashierClaims())

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

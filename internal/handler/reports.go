package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/heencoffee/pos-api/internal/database"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	analyticsDefaultDays = 7
	analyticsTopProducts = 10
	statsTrendDays       = 7
	statsTopProducts     = 5
	statsRecentOrders    = 10
)

// ReportsStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportsStore interface {
	GetSalesSummary(ctx context.Context, arg database.GetSalesSummaryParams) (database.GetSalesSummaryRow, error)
	GetTopProducts(ctx context.Context, arg database.GetTopProductsParams) ([]database.GetTopProductsRow, error)
	GetDashboardStats(ctx context.Context, todayStart time.Time) (database.GetDashboardStatsRow, error)
	GetDailySales(ctx context.Context, arg database.GetDailySalesParams) ([]database.GetDailySalesRow, error)
	GetTopProductsByRevenue(ctx context.Context, limit int32) ([]database.GetTopProductsByRevenueRow, error)
	ListRecentOrders(ctx context.Context, limit int32) ([]database.ListRecentOrdersRow, error)
}

// ReportsHandler handles report endpoints. Day boundaries are computed in loc.
type ReportsHandler struct {
	store ReportsStore
	loc   *time.Location
	now   func() time.Time
}

// NewReportsHandler creates a new ReportsHandler. A nil loc means UTC.
func NewReportsHandler(store ReportsStore, loc *time.Location) *ReportsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportsHandler{store: store, loc: loc, now: time.Now}
}

// RegisterRoutes registers report endpoints available to any staff member.
// Mounted at /reports.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics", h.Analytics)
}

// RegisterAdminRoutes registers the dashboard stats endpoint.
func (h *ReportsHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/stats", h.Stats)
}

// --- Response types ---

type productSalesResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	TotalSold   int64     `json:"total_sold"`
	Revenue     string    `json:"revenue"`
}

type analyticsResponse struct {
	DateFrom     string                 `json:"date_from"`
	DateTo       string                 `json:"date_to"`
	TotalOrders  int64                  `json:"total_orders"`
	TotalRevenue string                 `json:"total_revenue"`
	AverageOrder string                 `json:"average_order"`
	TopProducts  []productSalesResponse `json:"top_products"`
}

type dailySalesResponse struct {
	Date       string `json:"date"`
	OrderCount int64  `json:"order_count"`
	Revenue    string `json:"revenue"`
}

type recentOrderResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	Total       string    `json:"total"`
	Status      string    `json:"status"`
	CashierName string    `json:"cashier_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type statsResponse struct {
	TotalRevenue   string                 `json:"total_revenue"`
	TotalOrders    int64                  `json:"total_orders"`
	OrdersToday    int64                  `json:"orders_today"`
	TotalProducts  int64                  `json:"total_products"`
	ActiveProducts int64                  `json:"active_products"`
	AvgOrderValue  string                 `json:"avg_order_value"`
	SalesTrend     []dailySalesResponse   `json:"sales_trend"`
	TopProducts    []productSalesResponse `json:"top_products"`
	RecentOrders   []recentOrderResponse  `json:"recent_orders"`
}

// --- Handlers ---

// Analytics summarises completed orders in a date range (default: the last
// 7 days including today).
func (h *ReportsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r, h.loc, h.now(), analyticsDefaultDays)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	summary, err := h.store.GetSalesSummary(r.Context(), database.GetSalesSummaryParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		internalError(w, err, "analytics: sales summary")
		return
	}

	top, err := h.store.GetTopProducts(r.Context(), database.GetTopProductsParams{
		StartDate: start,
		EndDate:   end,
		RowLimit:  analyticsTopProducts,
	})
	if err != nil {
		internalError(w, err, "analytics: top products")
		return
	}

	products := make([]productSalesResponse, len(top))
	for i, p := range top {
		products[i] = toProductSalesResponse(database.GetTopProductsByRevenueRow(p))
	}

	writeJSON(w, http.StatusOK, analyticsResponse{
		DateFrom:     start.Format(dateLayout),
		DateTo:       end.AddDate(0, 0, -1).Format(dateLayout),
		TotalOrders:  summary.TotalOrders,
		TotalRevenue: numericToString(summary.TotalRevenue),
		AverageOrder: averageOf(summary.TotalRevenue, summary.TotalOrders),
		TopProducts:  products,
	})
}

// Stats returns the admin dashboard: lifetime totals, today's order count,
// a 7-day trend, top sellers and the latest orders.
func (h *ReportsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
	trendStart := today.AddDate(0, 0, -(statsTrendDays - 1))

	stats, err := h.store.GetDashboardStats(r.Context(), today)
	if err != nil {
		internalError(w, err, "stats: dashboard")
		return
	}

	daily, err := h.store.GetDailySales(r.Context(), database.GetDailySalesParams{
		TimeZone:  h.loc.String(),
		StartDate: trendStart,
		EndDate:   today.AddDate(0, 0, 1),
	})
	if err != nil {
		internalError(w, err, "stats: daily sales")
		return
	}

	top, err := h.store.GetTopProductsByRevenue(r.Context(), statsTopProducts)
	if err != nil {
		internalError(w, err, "stats: top products")
		return
	}

	recent, err := h.store.ListRecentOrders(r.Context(), statsRecentOrders)
	if err != nil {
		internalError(w, err, "stats: recent orders")
		return
	}

	products := make([]productSalesResponse, len(top))
	for i, p := range top {
		products[i] = toProductSalesResponse(p)
	}

	orders := make([]recentOrderResponse, len(recent))
	for i, o := range recent {
		orders[i] = recentOrderResponse{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Total:       numericToString(o.Total),
			Status:      string(o.Status),
			CashierName: o.CashierName,
			CreatedAt:   o.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalRevenue:   numericToString(stats.TotalRevenue),
		TotalOrders:    stats.TotalOrders,
		OrdersToday:    stats.OrdersToday,
		TotalProducts:  stats.TotalProducts,
		ActiveProducts: stats.ActiveProducts,
		AvgOrderValue:  averageOf(stats.TotalRevenue, stats.CompletedOrders),
		SalesTrend:     fillSalesTrend(daily, trendStart, statsTrendDays),
		TopProducts:    products,
		RecentOrders:   orders,
	})
}

// --- Helpers ---

func toProductSalesResponse(p database.GetTopProductsByRevenueRow) productSalesResponse {
	return productSalesResponse{
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		TotalSold:   p.TotalSold,
		Revenue:     numericToString(p.Revenue),
	}
}

func averageOf(total pgtype.Numeric, count int64) string {
	if count == 0 {
		return "0.00"
	}
	sum, err := decimal.NewFromString(numericToString(total))
	if err != nil {
		return "0.00"
	}
	return sum.Div(decimal.NewFromInt(count)).StringFixed(2)
}

// fillSalesTrend returns one entry per day starting at start, with zeroes for
// days that had no completed orders.
func fillSalesTrend(rows []database.GetDailySalesRow, start time.Time, days int) []dailySalesResponse {
	byDate := make(map[string]database.GetDailySalesRow, len(rows))
	for _, row := range rows {
		if row.SaleDate.Valid {
			byDate[row.SaleDate.Time.Format(dateLayout)] = row
		}
	}

	trend := make([]dailySalesResponse, days)
	for i := range trend {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		entry := dailySalesResponse{Date: date, Revenue: "0.00"}
		if row, ok := byDate[date]; ok {
			entry.OrderCount = row.OrderCount
			entry.Revenue = numericToString(row.Revenue)
		}
		trend[i] = entry
	}
	return trend
}

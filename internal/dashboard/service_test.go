package dashboard

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/hansbeauty/dashboard-backend/internal/upstream"
	pkgerrors "github.com/hansbeauty/dashboard-backend/pkg/errors"
	"github.com/hansbeauty/dashboard-backend/pkg/logger"
)

type stubFetcher struct {
	products     []byte
	purchases    []byte
	stats        []byte
	productsErr  error
	purchasesErr error
	statsErr     error
}

func (s *stubFetcher) Products(ctx context.Context) (*upstream.Result, error) {
	if s.productsErr != nil {
		return nil, s.productsErr
	}
	return &upstream.Result{Body: s.products}, nil
}

func (s *stubFetcher) Purchases(ctx context.Context) (*upstream.Result, error) {
	if s.purchasesErr != nil {
		return nil, s.purchasesErr
	}
	return &upstream.Result{Body: s.purchases}, nil
}

func (s *stubFetcher) PurchaseStats(ctx context.Context) (*upstream.Result, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return &upstream.Result{Body: s.stats}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

const purchasesPayload = `[
	{"id": 1, "user_id": 7, "status": "delivered", "province": "Ontario",
	 "purchase_month": "Jan", "purchase_year": 2025,
	 "product_id": 3, "product_name": "Rose Serum", "product_price": "10.00"},
	{"id": 2, "user_id": 7, "status": "returned", "province": "Quebec",
	 "purchase_month": "Feb", "purchase_year": 2025,
	 "product_id": 3, "product_name": "Rose Serum", "product_price": "25.00"}
]`

func TestOverviewComposesAllSections(t *testing.T) {
	fetcher := &stubFetcher{
		purchases: []byte(purchasesPayload),
		products:  []byte(`[{"id": 3, "name": "Rose Serum"}]`),
		stats:     []byte(`{"bar_chart": [{"purchase_month": "Jan", "purchase_year": 2025, "total": 100}, {"purchase_month": "Feb", "purchase_year": 2025, "total": 150}]}`),
	}
	svc, err := NewService(fetcher, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}

	if got.Summary.TotalOrders != 2 {
		t.Fatalf("expected 2 orders, got %d", got.Summary.TotalOrders)
	}
	if got.Summary.TotalRevenue != 35 {
		t.Fatalf("expected revenue 35, got %f", got.Summary.TotalRevenue)
	}
	if got.Summary.RevenueGrowth != "50.0%" {
		t.Fatalf("expected growth from stats, got %q", got.Summary.RevenueGrowth)
	}
	if len(got.RecentOrders) != 2 {
		t.Fatalf("expected recent orders, got %d", len(got.RecentOrders))
	}
	if len(got.Revenue) != 2 {
		t.Fatalf("expected upstream bar series, got %v", got.Revenue)
	}
	if len(got.Degraded) != 0 {
		t.Fatalf("nothing should be degraded, got %v", got.Degraded)
	}
}

func TestOverviewDegradesFailedLegWithoutAbortingJoin(t *testing.T) {
	fetcher := &stubFetcher{
		purchasesErr: pkgerrors.New(pkgerrors.CodeFetchFailed, "fetch purchases"),
		products:     []byte(`[{"id": 3}]`),
		statsErr:     errors.New("boom"),
	}
	svc, _ := NewService(fetcher, testLogger())

	got, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview should not fail outright: %v", err)
	}

	if got.Summary.TotalOrders != 0 || got.Summary.TotalRevenue != 0 {
		t.Fatalf("expected zero-valued stats, got %+v", got.Summary)
	}
	if string(got.Inventory) != `[{"id": 3}]` {
		t.Fatalf("healthy leg should survive, got %s", got.Inventory)
	}
	if got.Summary.RevenueGrowth != "N/A" {
		t.Fatalf("expected N/A growth without stats, got %q", got.Summary.RevenueGrowth)
	}

	want := map[string]bool{"purchases": true, "purchase_stats": true}
	if len(got.Degraded) != 2 || !want[got.Degraded[0]] || !want[got.Degraded[1]] {
		t.Fatalf("expected purchases and stats flagged degraded, got %v", got.Degraded)
	}
}

func TestAnalyticsFallsBackToLocalAggregates(t *testing.T) {
	fetcher := &stubFetcher{
		purchases: []byte(purchasesPayload),
		statsErr:  errors.New("down"),
	}
	svc, _ := NewService(fetcher, testLogger())

	got, err := svc.Analytics(context.Background())
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}

	if got.Summary.RevenueGrowth != "N/A" {
		t.Fatalf("growth requires upstream stats, got %q", got.Summary.RevenueGrowth)
	}
	if len(got.Revenue) != 2 {
		t.Fatalf("expected local monthly fallback, got %v", got.Revenue)
	}
	if got.Revenue[0].Month != "Jan 2025" {
		t.Fatalf("unexpected bucket %v", got.Revenue[0])
	}
	if len(got.TopProducts) != 1 || got.TopProducts[0].Sales != 2 {
		t.Fatalf("unexpected top products %v", got.TopProducts)
	}
	if got.Summary.ReturnRate != 50 {
		t.Fatalf("expected 50%% return rate, got %f", got.Summary.ReturnRate)
	}
}

func TestCustomersDirectory(t *testing.T) {
	fetcher := &stubFetcher{purchases: []byte(purchasesPayload)}
	svc, _ := NewService(fetcher, testLogger())

	got, err := svc.Customers(context.Background())
	if err != nil {
		t.Fatalf("customers: %v", err)
	}
	if len(got.Customers) != 1 {
		t.Fatalf("expected one customer, got %d", len(got.Customers))
	}
	if got.Customers[0].Orders != 2 || got.Customers[0].TotalSpent != 35 {
		t.Fatalf("unexpected customer %+v", got.Customers[0])
	}
}

func TestCustomersDegradesToEmptyDirectory(t *testing.T) {
	fetcher := &stubFetcher{purchasesErr: errors.New("down")}
	svc, _ := NewService(fetcher, testLogger())

	got, err := svc.Customers(context.Background())
	if err != nil {
		t.Fatalf("customers: %v", err)
	}
	if len(got.Customers) != 0 {
		t.Fatalf("expected empty directory, got %v", got.Customers)
	}
	if len(got.Degraded) != 1 || got.Degraded[0] != "purchases" {
		t.Fatalf("expected degraded purchases leg, got %v", got.Degraded)
	}
}

func TestChartsPreferUpstreamSeries(t *testing.T) {
	fetcher := &stubFetcher{
		purchases: []byte(purchasesPayload),
		stats: []byte(`{
			"bar_chart": [{"purchase_month": "Dec", "purchase_year": 2024, "total": 10}],
			"pie_chart": [{"province": "Alberta", "total": 4}]
		}`),
	}
	svc, _ := NewService(fetcher, testLogger())

	revenue, err := svc.RevenueChart(context.Background())
	if err != nil {
		t.Fatalf("revenue chart: %v", err)
	}
	if len(revenue.Series) != 1 || revenue.Series[0].Month != "Dec 2024" {
		t.Fatalf("expected upstream series, got %v", revenue.Series)
	}

	province, err := svc.ProvinceChart(context.Background())
	if err != nil {
		t.Fatalf("province chart: %v", err)
	}
	if len(province.Series) != 1 || province.Series[0].Province != "Alberta" {
		t.Fatalf("expected upstream pie series, got %v", province.Series)
	}
}

func TestChartsFallBackWhenStatsMalformed(t *testing.T) {
	fetcher := &stubFetcher{
		purchases: []byte(purchasesPayload),
		stats:     []byte(`<html>oops</html>`),
	}
	svc, _ := NewService(fetcher, testLogger())

	revenue, err := svc.RevenueChart(context.Background())
	if err != nil {
		t.Fatalf("revenue chart: %v", err)
	}
	if len(revenue.Series) != 2 {
		t.Fatalf("expected local fallback series, got %v", revenue.Series)
	}
	if len(revenue.Degraded) != 1 || revenue.Degraded[0] != "purchase_stats" {
		t.Fatalf("malformed stats should be flagged, got %v", revenue.Degraded)
	}
}

func TestNewServiceRequiresFetcher(t *testing.T) {
	if _, err := NewService(nil, testLogger()); err == nil {
		t.Fatal("expected error for nil fetcher")
	}
}

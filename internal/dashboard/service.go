package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hansbeauty/dashboard-backend/internal/analytics"
	"github.com/hansbeauty/dashboard-backend/internal/customers"
	"github.com/hansbeauty/dashboard-backend/internal/purchases"
	"github.com/hansbeauty/dashboard-backend/internal/upstream"
	"github.com/hansbeauty/dashboard-backend/pkg/logger"
)

// Fetcher is the upstream surface the dashboard composes pages from.
type Fetcher interface {
	Products(ctx context.Context) (*upstream.Result, error)
	Purchases(ctx context.Context) (*upstream.Result, error)
	PurchaseStats(ctx context.Context) (*upstream.Result, error)
}

// Service composes page payloads from upstream data. Page fetches are
// best-effort: a failed leg degrades to an empty value and is reported in
// the Degraded list instead of failing the whole page, so callers can still
// distinguish "zero orders" from "upstream unreachable".
type Service struct {
	fetcher Fetcher
	logg    *logger.Logger
}

func NewService(fetcher Fetcher, logg *logger.Logger) (*Service, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("upstream fetcher required")
	}
	return &Service{fetcher: fetcher, logg: logg}, nil
}

// Overview is the composed home-page payload.
type Overview struct {
	Summary      analytics.Summary          `json:"summary"`
	RecentOrders []purchases.Purchase       `json:"recent_orders"`
	Revenue      []analytics.MonthBucket    `json:"revenue"`
	Provinces    []analytics.ProvinceBucket `json:"provinces"`
	Inventory    json.RawMessage            `json:"inventory"`
	Degraded     []string                   `json:"degraded,omitempty"`
}

// Report is the analytics-page payload.
type Report struct {
	Summary     analytics.Summary          `json:"summary"`
	TopProducts []analytics.ProductRank    `json:"top_products"`
	Revenue     []analytics.MonthBucket    `json:"revenue"`
	Provinces   []analytics.ProvinceBucket `json:"provinces"`
	Degraded    []string                   `json:"degraded,omitempty"`
}

// Directory is the customers-page payload before pagination.
type Directory struct {
	Customers []customers.Customer `json:"customers"`
	Degraded  []string             `json:"degraded,omitempty"`
}

// RevenueSeries is the revenue chart payload.
type RevenueSeries struct {
	Series   []analytics.MonthBucket `json:"series"`
	Degraded []string                `json:"degraded,omitempty"`
}

// ProvinceSeries is the province chart payload.
type ProvinceSeries struct {
	Series   []analytics.ProvinceBucket `json:"series"`
	Degraded []string                   `json:"degraded,omitempty"`
}

// Overview fans out the purchases and products fetches concurrently, joins
// both, then picks up the stats document best-effort.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var (
		ps        []purchases.Purchase
		inventory json.RawMessage
		degraded  []string
	)

	var purchasesFailed, productsFailed bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, purchasesFailed = s.fetchPurchases(gctx)
		return nil
	})
	g.Go(func() error {
		inventory, productsFailed = s.fetchProducts(gctx)
		return nil
	})
	// Legs never return errors: a failed fetch degrades to empty rather
	// than cancelling its sibling.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if purchasesFailed {
		degraded = append(degraded, upstream.ResourcePurchases)
	}
	if productsFailed {
		degraded = append(degraded, upstream.ResourceProducts)
	}

	stats, statsFailed := s.fetchStats(ctx)
	if statsFailed {
		degraded = append(degraded, upstream.ResourceStats)
	}

	return &Overview{
		Summary:      analytics.Summarize(ps, stats),
		RecentOrders: ps,
		Revenue:      analytics.MonthlyRevenue(ps, stats),
		Provinces:    analytics.ProvinceDistribution(ps, stats),
		Inventory:    inventory,
		Degraded:     degraded,
	}, nil
}

// Analytics composes the analytics-page report from purchases and stats.
func (s *Service) Analytics(ctx context.Context) (*Report, error) {
	var (
		ps       []purchases.Purchase
		stats    *analytics.Stats
		degraded []string
	)

	var purchasesFailed, statsFailed bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, purchasesFailed = s.fetchPurchases(gctx)
		return nil
	})
	g.Go(func() error {
		stats, statsFailed = s.fetchStats(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if purchasesFailed {
		degraded = append(degraded, upstream.ResourcePurchases)
	}
	if statsFailed {
		degraded = append(degraded, upstream.ResourceStats)
	}

	return &Report{
		Summary:     analytics.Summarize(ps, stats),
		TopProducts: analytics.TopProducts(ps),
		Revenue:     analytics.MonthlyRevenue(ps, stats),
		Provinces:   analytics.ProvinceDistribution(ps, stats),
		Degraded:    degraded,
	}, nil
}

// Customers derives the customer directory from the purchase list.
func (s *Service) Customers(ctx context.Context) (*Directory, error) {
	ps, failed := s.fetchPurchases(ctx)
	dir := &Directory{Customers: customers.Build(ps)}
	if failed {
		dir.Degraded = append(dir.Degraded, upstream.ResourcePurchases)
	}
	return dir, nil
}

// Purchases returns the normalized purchase list, degrading to empty on
// upstream failure.
func (s *Service) Purchases(ctx context.Context) ([]purchases.Purchase, bool) {
	return s.fetchPurchases(ctx)
}

// RevenueChart prefers the upstream bar-chart series, falling back to local
// monthly aggregation of the purchase list.
func (s *Service) RevenueChart(ctx context.Context) (*RevenueSeries, error) {
	ps, stats, degraded := s.fetchChartInputs(ctx)
	return &RevenueSeries{
		Series:   analytics.MonthlyRevenue(ps, stats),
		Degraded: degraded,
	}, nil
}

// ProvinceChart prefers the upstream pie-chart series, falling back to local
// per-province counting.
func (s *Service) ProvinceChart(ctx context.Context) (*ProvinceSeries, error) {
	ps, stats, degraded := s.fetchChartInputs(ctx)
	return &ProvinceSeries{
		Series:   analytics.ProvinceDistribution(ps, stats),
		Degraded: degraded,
	}, nil
}

func (s *Service) fetchChartInputs(ctx context.Context) ([]purchases.Purchase, *analytics.Stats, []string) {
	var (
		ps       []purchases.Purchase
		stats    *analytics.Stats
		degraded []string
	)

	var purchasesFailed, statsFailed bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, purchasesFailed = s.fetchPurchases(gctx)
		return nil
	})
	g.Go(func() error {
		stats, statsFailed = s.fetchStats(gctx)
		return nil
	})
	g.Wait()

	if purchasesFailed {
		degraded = append(degraded, upstream.ResourcePurchases)
	}
	if statsFailed {
		degraded = append(degraded, upstream.ResourceStats)
	}
	return ps, stats, degraded
}

func (s *Service) fetchPurchases(ctx context.Context) ([]purchases.Purchase, bool) {
	res, err := s.fetcher.Purchases(ctx)
	if err != nil {
		s.warn(ctx, "purchases fetch degraded to empty", err)
		return []purchases.Purchase{}, true
	}
	ps, err := purchases.NormalizeJSON(res.Body)
	if err != nil {
		s.warn(ctx, "purchases payload did not normalize", err)
		return []purchases.Purchase{}, true
	}
	return ps, false
}

func (s *Service) fetchProducts(ctx context.Context) (json.RawMessage, bool) {
	res, err := s.fetcher.Products(ctx)
	if err != nil {
		s.warn(ctx, "products fetch degraded to empty", err)
		return json.RawMessage("[]"), true
	}
	return json.RawMessage(res.Body), false
}

func (s *Service) fetchStats(ctx context.Context) (*analytics.Stats, bool) {
	res, err := s.fetcher.PurchaseStats(ctx)
	if err != nil {
		s.warn(ctx, "stats fetch degraded to nil", err)
		return nil, true
	}
	stats := analytics.ParseStats(res.Body)
	return stats, stats == nil
}

func (s *Service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}

package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hansbeauty/dashboard-backend/internal/purchases"
)

const (
	// GrowthUnavailable is returned when revenue growth cannot be computed:
	// fewer than two periods, or a zero previous period. Callers must treat
	// growth as a displayable string, never a guaranteed number.
	GrowthUnavailable = "N/A"

	unknownProvince = "Unknown"
	unknownProduct  = "unknown"

	topProductCount = 4
	maxChartBuckets = 6
)

// displayStatuses are the order states the dashboard renders directly;
// anything else is shown, and counted, as pending.
var displayStatuses = map[string]struct{}{
	"processing": {},
	"shipped":    {},
	"delivered":  {},
	"cancelled":  {},
	"returned":   {},
}

// Summary is the stat block rendered at the top of the dashboard and
// analytics pages.
type Summary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	PendingOrders     int     `json:"pending_orders"`
	UniqueCustomers   int     `json:"unique_customers"`
	AvgOrderValue     float64 `json:"avg_order_value"`
	OrdersPerCustomer float64 `json:"orders_per_customer"`
	ReturnRate        float64 `json:"return_rate"`
	RevenueGrowth     string  `json:"revenue_growth"`
}

// MonthBucket is one point of the monthly revenue series.
type MonthBucket struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// ProvinceBucket is one slice of the per-province order distribution.
type ProvinceBucket struct {
	Province string `json:"province"`
	Orders   int    `json:"orders"`
}

// ProductRank is one row of the top-selling products list.
type ProductRank struct {
	Name    string  `json:"name"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}

// TotalRevenue sums the effective price over all purchases; empty input
// yields 0.
func TotalRevenue(ps []purchases.Purchase) float64 {
	var total float64
	for _, p := range ps {
		total += p.EffectivePrice()
	}
	return total
}

// UniqueCustomers counts distinct customers keyed by user id, falling back to
// username. The floor of 1 keeps downstream ratios well-defined when nothing
// resolves; it is not a claim that one customer exists.
func UniqueCustomers(ps []purchases.Purchase) int {
	seen := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		seen[customerKey(p)] = struct{}{}
	}
	if len(seen) == 0 {
		return 1
	}
	return len(seen)
}

func customerKey(p purchases.Purchase) string {
	if p.User.ID != nil {
		return fmt.Sprintf("id:%d", *p.User.ID)
	}
	if p.User.Username != nil && *p.User.Username != "" {
		return "name:" + *p.User.Username
	}
	return ""
}

// AvgOrderValue is revenue divided by order count, 0 when there are no orders.
func AvgOrderValue(ps []purchases.Purchase) float64 {
	if len(ps) == 0 {
		return 0
	}
	return TotalRevenue(ps) / float64(len(ps))
}

// OrdersPerCustomer is the order count divided by the unique customer count.
func OrdersPerCustomer(ps []purchases.Purchase) float64 {
	if len(ps) == 0 {
		return 0
	}
	return float64(len(ps)) / float64(UniqueCustomers(ps))
}

// ReturnRate is the percentage of purchases whose status is "returned"
// (case-insensitive); 0 when there are no orders, never NaN.
func ReturnRate(ps []purchases.Purchase) float64 {
	if len(ps) == 0 {
		return 0
	}
	var returned int
	for _, p := range ps {
		if p.Status != nil && strings.EqualFold(*p.Status, "returned") {
			returned++
		}
	}
	return float64(returned) / float64(len(ps)) * 100
}

// PendingOrders counts purchases in the pending state, including purchases
// whose status falls outside the recognized display set.
func PendingOrders(ps []purchases.Purchase) int {
	var pending int
	for _, p := range ps {
		if p.Status == nil {
			pending++
			continue
		}
		if _, known := displayStatuses[strings.ToLower(*p.Status)]; !known {
			pending++
		}
	}
	return pending
}

// RevenueGrowth is the percent change between the last two buckets of the
// upstream bar-chart series, formatted to one decimal with a % suffix.
func RevenueGrowth(stats *Stats) string {
	if stats == nil || len(stats.BarChart) < 2 {
		return GrowthUnavailable
	}
	last := stats.BarChart[len(stats.BarChart)-1].Total.Float()
	prev := stats.BarChart[len(stats.BarChart)-2].Total.Float()
	if prev == 0 {
		return GrowthUnavailable
	}
	return fmt.Sprintf("%.1f%%", (last-prev)/prev*100)
}

// MonthlyRevenue prefers the upstream bar-chart series; otherwise it groups
// purchases by month+year in first-seen order, sums effective prices rounded
// to 2 decimals, and keeps the most recent 6 buckets.
func MonthlyRevenue(ps []purchases.Purchase, stats *Stats) []MonthBucket {
	if stats != nil && len(stats.BarChart) > 0 {
		out := make([]MonthBucket, 0, len(stats.BarChart))
		for _, b := range stats.BarChart {
			out = append(out, MonthBucket{
				Month:   b.PurchaseMonth.String() + " " + b.PurchaseYear.String(),
				Revenue: b.Total.Float(),
			})
		}
		return lastN(out, maxChartBuckets)
	}

	totals := make(map[string]float64)
	var order []string
	for _, p := range ps {
		key := p.PurchaseMonth + " " + yearLabel(p)
		if _, ok := totals[key]; !ok {
			order = append(order, key)
		}
		totals[key] += p.EffectivePrice()
	}

	out := make([]MonthBucket, 0, len(order))
	for _, key := range order {
		out = append(out, MonthBucket{
			Month:   key,
			Revenue: math.Round(totals[key]*100) / 100,
		})
	}
	return lastN(out, maxChartBuckets)
}

func yearLabel(p purchases.Purchase) string {
	if p.PurchaseYear == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p.PurchaseYear)
}

// ProvinceDistribution prefers the upstream pie-chart series; otherwise it
// counts purchases by province in first-seen order, labeling unset provinces
// as "Unknown".
func ProvinceDistribution(ps []purchases.Purchase, stats *Stats) []ProvinceBucket {
	if stats != nil && len(stats.PieChart) > 0 {
		out := make([]ProvinceBucket, 0, len(stats.PieChart))
		for _, b := range stats.PieChart {
			province := b.Province
			if province == "" {
				province = unknownProvince
			}
			out = append(out, ProvinceBucket{Province: province, Orders: int(b.Total.Float())})
		}
		return out
	}

	counts := make(map[string]int)
	var order []string
	for _, p := range ps {
		province := unknownProvince
		if p.Province != nil && *p.Province != "" {
			province = *p.Province
		}
		if _, ok := counts[province]; !ok {
			order = append(order, province)
		}
		counts[province]++
	}

	out := make([]ProvinceBucket, 0, len(order))
	for _, province := range order {
		out = append(out, ProvinceBucket{Province: province, Orders: counts[province]})
	}
	return out
}

// TopProducts groups purchases by product id (falling back to name, then
// "unknown"), counting units and summing effective revenue; results are
// sorted descending by unit count with ties kept in first-seen order, and
// truncated to the top 4.
func TopProducts(ps []purchases.Purchase) []ProductRank {
	type group struct {
		rank  ProductRank
		index int
	}

	groups := make(map[string]*group)
	var order []string
	for _, p := range ps {
		key := productKey(p.Product)
		g, ok := groups[key]
		if !ok {
			name := unknownProduct
			if p.Product.Name != nil && *p.Product.Name != "" {
				name = *p.Product.Name
			}
			g = &group{rank: ProductRank{Name: name}, index: len(order)}
			groups[key] = g
			order = append(order, key)
		}
		g.rank.Sales++
		g.rank.Revenue += p.EffectivePrice()
	}

	ranked := make([]*group, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, groups[key])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].rank.Sales > ranked[j].rank.Sales
	})

	out := make([]ProductRank, 0, topProductCount)
	for _, g := range ranked {
		if len(out) == topProductCount {
			break
		}
		out = append(out, g.rank)
	}
	return out
}

func productKey(p purchases.Product) string {
	if p.ID != nil {
		return fmt.Sprintf("id:%d", *p.ID)
	}
	if p.Name != nil && *p.Name != "" {
		return "name:" + *p.Name
	}
	return unknownProduct
}

// Summarize computes the full stat block from the purchase list plus the
// optional upstream stats document.
func Summarize(ps []purchases.Purchase, stats *Stats) Summary {
	return Summary{
		TotalRevenue:      TotalRevenue(ps),
		TotalOrders:       len(ps),
		PendingOrders:     PendingOrders(ps),
		UniqueCustomers:   UniqueCustomers(ps),
		AvgOrderValue:     AvgOrderValue(ps),
		OrdersPerCustomer: OrdersPerCustomer(ps),
		ReturnRate:        ReturnRate(ps),
		RevenueGrowth:     RevenueGrowth(stats),
	}
}

func lastN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

package analytics

import (
	"bytes"
	"encoding/json"

	"github.com/hansbeauty/dashboard-backend/pkg/types"
)

// Stats is the optional precomputed summary served by the upstream stats
// resource. Either chart may be absent; totals tolerate quoted numerics.
type Stats struct {
	BarChart []BarBucket `json:"bar_chart"`
	PieChart []PieBucket `json:"pie_chart"`
}

// BarBucket is one monthly revenue bucket of the upstream bar chart.
type BarBucket struct {
	PurchaseMonth types.Text   `json:"purchase_month"`
	PurchaseYear  types.Text   `json:"purchase_year"`
	Total         types.Number `json:"total"`
}

// PieBucket is one per-province order count of the upstream pie chart.
type PieBucket struct {
	Province string       `json:"province"`
	Total    types.Number `json:"total"`
}

// ParseStats decodes the stats document, returning nil on empty or malformed
// input so callers fall back to locally recomputed aggregates.
func ParseStats(data []byte) *Stats {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	var stats Stats
	if err := json.Unmarshal(trimmed, &stats); err != nil {
		return nil
	}
	return &stats
}

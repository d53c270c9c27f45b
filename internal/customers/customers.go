package customers

import (
	"fmt"
	"strings"

	"github.com/hansbeauty/dashboard-backend/internal/purchases"
)

// Customer is one row of the customer directory, derived entirely from the
// purchase list; there is no separate customer resource upstream.
type Customer struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Province   string  `json:"province"`
	Orders     int     `json:"orders"`
	TotalSpent float64 `json:"total_spent"`
}

// Build groups purchases into customers in first-seen order. The grouping key
// falls back from user id to username to the purchase identifiers, so records
// with no resolvable customer still surface instead of being dropped.
func Build(ps []purchases.Purchase) []Customer {
	byKey := make(map[string]*Customer)
	var order []string

	for _, p := range ps {
		key := groupKey(p)
		c, ok := byKey[key]
		if !ok {
			c = &Customer{
				ID:       key,
				Name:     displayName(p.User),
				Email:    deref(p.User.Email),
				Phone:    deref(p.Contact),
				Province: provinceLabel(p.Province),
			}
			byKey[key] = c
			order = append(order, key)
		}
		c.Orders++
		c.TotalSpent += p.EffectivePrice()
	}

	out := make([]Customer, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}

func groupKey(p purchases.Purchase) string {
	if p.User.ID != nil {
		return fmt.Sprintf("%d", *p.User.ID)
	}
	if p.User.Username != nil && *p.User.Username != "" {
		return *p.User.Username
	}
	if p.ID != nil {
		return fmt.Sprintf("%d", *p.ID)
	}
	if p.ExternalID != nil && *p.ExternalID != "" {
		return *p.ExternalID
	}
	return "unknown"
}

func displayName(u purchases.User) string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	full := strings.TrimSpace(deref(u.FirstName) + " " + deref(u.LastName))
	if full != "" {
		return full
	}
	return "Customer"
}

func provinceLabel(province *string) string {
	if province != nil && *province != "" {
		return *province
	}
	return "-"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

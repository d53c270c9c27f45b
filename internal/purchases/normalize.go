package purchases

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Normalize converts one raw flat record into the nested internal shape.
// It is pure and total: missing fields stay nil, non-numeric prices parse
// to 0, and no input is ever rejected.
func Normalize(raw RawPurchase) Purchase {
	price := raw.ProductPrice.Float()
	discounted := raw.ProductDiscountedPrice.Float()

	return Purchase{
		ID:              raw.ID,
		ExternalID:      raw.ExternalID,
		PurchaseDate:    raw.PurchaseDate,
		PurchaseMonth:   raw.PurchaseMonth.String(),
		PurchaseYear:    raw.PurchaseYear,
		Province:        raw.Province,
		Contact:         raw.Contact,
		Status:          raw.Status,
		LastDigits:      raw.LastDigits,
		ShippingAddress: raw.ShippingAddress,
		User: User{
			ID:         raw.UserID,
			Username:   raw.UserUsername,
			FirstName:  raw.UserFirstName,
			LastName:   raw.UserLastName,
			Email:      raw.UserEmail,
			IsStaff:    raw.UserIsStaff,
			IsActive:   raw.UserIsActive,
			DateJoined: raw.UserDateJoined,
		},
		Product: Product{
			ID:              raw.ProductID,
			Name:            raw.ProductName,
			Description:     raw.ProductDescription,
			Price:           price,
			DiscountedPrice: discounted,
			IsAvailable:     raw.ProductIsAvailable,
			Status:          raw.ProductStatus,
			Category:        raw.ProductCategory,
			SKU:             raw.ProductSKU,
			Stock:           raw.ProductStock,
			ImageURL:        raw.ProductImageURL,
		},
	}
}

// NormalizeAll maps a raw slice through Normalize, preserving order.
func NormalizeAll(raws []RawPurchase) []Purchase {
	out := make([]Purchase, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}
	return out
}

// NormalizeJSON decodes a JSON value that is either a single raw purchase
// object or an array of them, wrapping singletons into a one-element
// sequence, and returns the normalized purchases. The result is always a
// non-nil slice.
func NormalizeJSON(data []byte) ([]Purchase, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []Purchase{}, nil
	}

	var raws []RawPurchase
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("decoding purchase array: %w", err)
		}
	} else {
		var single RawPurchase
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("decoding purchase object: %w", err)
		}
		raws = []RawPurchase{single}
	}

	return NormalizeAll(raws), nil
}

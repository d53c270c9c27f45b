package purchases

import "github.com/hansbeauty/dashboard-backend/pkg/types"

// RawPurchase is the flat record shape returned by the upstream purchases
// resource: one scalar field per entity attribute, prefixed by entity, with
// prices serialized as decimal text. Every field is optional; absent values
// decode to nil or empty.
type RawPurchase struct {
	ID              *int64     `json:"id"`
	ExternalID      *string    `json:"external_id"`
	PurchaseDate    *int64     `json:"purchase_date"`
	PurchaseMonth   types.Text `json:"purchase_month"`
	PurchaseYear    *int       `json:"purchase_year"`
	Province        *string    `json:"province"`
	Contact         *string    `json:"contact"`
	Status          *string    `json:"status"`
	LastDigits      *string    `json:"last_digits"`
	ShippingAddress *string    `json:"shipping_address"`

	UserID         *int64  `json:"user_id"`
	UserUsername   *string `json:"user_username"`
	UserFirstName  *string `json:"user_first_name"`
	UserLastName   *string `json:"user_last_name"`
	UserEmail      *string `json:"user_email"`
	UserIsStaff    *bool   `json:"user_is_staff"`
	UserIsActive   *bool   `json:"user_is_active"`
	UserDateJoined *string `json:"user_date_joined"`

	ProductID              *int64     `json:"product_id"`
	ProductName            *string    `json:"product_name"`
	ProductDescription     *string    `json:"product_description"`
	ProductPrice           types.Text `json:"product_price"`
	ProductDiscountedPrice types.Text `json:"product_discounted_price"`
	ProductIsAvailable     *bool      `json:"product_is_available"`
	ProductStatus          *string    `json:"product_status"`
	ProductCategory        *string    `json:"product_category"`
	ProductSKU             *string    `json:"product_sku"`
	ProductStock           *int       `json:"product_stock"`
	ProductImageURL        *string    `json:"product_image_url"`
}

// User is the nested customer sub-object of a normalized purchase.
type User struct {
	ID         *int64  `json:"id"`
	Username   *string `json:"username"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Email      *string `json:"email"`
	IsStaff    *bool   `json:"is_staff"`
	IsActive   *bool   `json:"is_active"`
	DateJoined *string `json:"date_joined"`
}

// Product is the nested product sub-object; prices are numeric after
// normalization.
type Product struct {
	ID              *int64  `json:"id"`
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Price           float64 `json:"price"`
	DiscountedPrice float64 `json:"discounted_price"`
	IsAvailable     *bool   `json:"is_available"`
	Status          *string `json:"status"`
	Category        *string `json:"category"`
	SKU             *string `json:"sku"`
	Stock           *int    `json:"stock"`
	ImageURL        *string `json:"image_url"`
}

// EffectivePrice is the discounted price when one is set, else the base price.
func (p Product) EffectivePrice() float64 {
	if p.DiscountedPrice > 0 {
		return p.DiscountedPrice
	}
	return p.Price
}

// Purchase is the trusted internal shape every downstream consumer operates
// on: top-level fields carried over from the raw record, with user and
// product promoted to nested objects.
type Purchase struct {
	ID              *int64  `json:"id"`
	ExternalID      *string `json:"external_id"`
	PurchaseDate    *int64  `json:"purchase_date"`
	PurchaseMonth   string  `json:"purchase_month"`
	PurchaseYear    *int    `json:"purchase_year"`
	Province        *string `json:"province"`
	Contact         *string `json:"contact"`
	Status          *string `json:"status"`
	LastDigits      *string `json:"last_digits"`
	ShippingAddress *string `json:"shipping_address"`
	User            User    `json:"user"`
	Product         Product `json:"product"`
}

// EffectivePrice exposes the product's effective price at the purchase level.
func (p Purchase) EffectivePrice() float64 {
	return p.Product.EffectivePrice()
}

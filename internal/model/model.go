package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing holds one seller's commercial terms for a catalog product.
// The (ProductID, SellerID) pair is unique.
type Listing struct {
	ProductID         uuid.UUID
	SellerID          uuid.UUID
	Price             decimal.Decimal
	Stock             int
	Warranty          string
	Tags              []string
	ShipsFrom         string
	ActivePromotionID *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Promotion is a date-windowed percentage discount. A promotion can cover
// many listings (via promotion_listings), but a listing points at no more
// than one active promotion at a time.
type Promotion struct {
	ID           uuid.UUID
	SellerID     uuid.UUID
	Name         string
	DiscountRate decimal.Decimal
	StartsAt     time.Time
	EndsAt       time.Time
	IsActive     bool
	Listings     []ListingRef
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListingRef identifies a listing participating in a promotion.
type ListingRef struct {
	ProductID uuid.UUID
	SellerID  uuid.UUID
}

// Covers reports whether the promotion's scope includes the given listing.
func (p *Promotion) Covers(productID, sellerID uuid.UUID) bool {
	for _, ref := range p.Listings {
		if ref.ProductID == productID && ref.SellerID == sellerID {
			return true
		}
	}
	return false
}

// InWindow reports whether now falls inside the promotion's date window.
func (p *Promotion) InWindow(now time.Time) bool {
	return !now.Before(p.StartsAt) && !now.After(p.EndsAt)
}

type Order struct {
	ID              uuid.UUID
	BuyerID         uuid.UUID
	Items           []OrderItem
	Subtotal        decimal.Decimal
	Shipping        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	ShippingInfo    ShippingInfo
	Status          OrderStatus
	StatusUpdatedAt time.Time
	PaymentMethod   string
	PaymentStatus   string
	DeliveryMethod  string
	EstimatedDays   int
	CreatedAt       time.Time
}

// OrderItem is a frozen snapshot of a listing at checkout time. UnitPrice is
// the effective (post-discount) price at that instant and is never re-read
// from the live listing.
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	SellerID     uuid.UUID
	Quantity     int
	UnitPrice    decimal.Decimal
	DiscountRate decimal.Decimal
	ShipsFrom    string
}

type ShippingInfo struct {
	FullName    string
	Phone       string
	Address     string
	City        string
	Governorate string
	PostalCode  string
}

type OrderMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	BuyerID uuid.UUID `json:"buyer_id"`
}

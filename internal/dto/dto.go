package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AsmaSahli/EcomPfe-sub001/internal/model"
)

// --- Listings ---

type CreateListingRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Price     decimal.Decimal `json:"price" binding:"required"`
	Stock     int             `json:"stock" binding:"min=0"`
	Warranty  string          `json:"warranty"`
	Tags      []string        `json:"tags"`
	ShipsFrom string          `json:"ships_from" binding:"required"`
}

type UpdateListingRequest struct {
	Price     *decimal.Decimal `json:"price"`
	Stock     *int             `json:"stock"`
	Warranty  *string          `json:"warranty"`
	Tags      *[]string        `json:"tags"`
	ShipsFrom *string          `json:"ships_from"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type PriceQuote struct {
	BasePrice    decimal.Decimal `json:"base_price"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	FinalPrice   decimal.Decimal `json:"final_price"`
	HasDiscount  bool            `json:"has_discount"`
}

type ListingResponse struct {
	ProductID         uuid.UUID  `json:"product_id"`
	SellerID          uuid.UUID  `json:"seller_id"`
	Stock             int        `json:"stock"`
	Warranty          string     `json:"warranty,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	ShipsFrom         string     `json:"ships_from"`
	ActivePromotionID *uuid.UUID `json:"active_promotion_id,omitempty"`
	Pricing           PriceQuote `json:"pricing"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type OfferListResponse struct {
	ProductID uuid.UUID         `json:"product_id"`
	Offers    []ListingResponse `json:"offers"`
}

// --- Promotions ---

type CreatePromotionRequest struct {
	Name         string          `json:"name" binding:"required"`
	DiscountRate decimal.Decimal `json:"discount_rate" binding:"required"`
	StartsAt     time.Time       `json:"starts_at" binding:"required"`
	EndsAt       time.Time       `json:"ends_at" binding:"required"`
	ProductIDs   []uuid.UUID     `json:"product_ids" binding:"required,min=1"`
}

type ActivatePromotionRequest struct {
	PromotionID uuid.UUID `json:"promotion_id" binding:"required"`
}

type PromotionResponse struct {
	ID           uuid.UUID       `json:"id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	Name         string          `json:"name"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	StartsAt     time.Time       `json:"starts_at"`
	EndsAt       time.Time       `json:"ends_at"`
	IsActive     bool            `json:"is_active"`
	ProductIDs   []uuid.UUID     `json:"product_ids"`
	CreatedAt    time.Time       `json:"created_at"`
}

// --- Shipping ---

type ShippingEstimateResponse struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	EstimatedDays int    `json:"estimated_days"`
}

// --- Orders ---

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	SellerID  uuid.UUID `json:"seller_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type ShippingInfoRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	Governorate string `json:"governorate"`
	PostalCode  string `json:"postal_code"`
}

type CreateOrderRequest struct {
	Items          []OrderItemRequest  `json:"items" binding:"required,min=1,dive"`
	ShippingInfo   ShippingInfoRequest `json:"shipping_info" binding:"required"`
	PaymentMethod  string              `json:"payment_method" binding:"required,oneof=card cash_on_delivery"`
	DeliveryMethod string              `json:"delivery_method" binding:"required,oneof=standard express"`
}

type AdvanceOrderRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	BuyerID         uuid.UUID           `json:"buyer_id"`
	Items           []OrderItemResponse `json:"items"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Shipping        decimal.Decimal     `json:"shipping"`
	Tax             decimal.Decimal     `json:"tax"`
	Total           decimal.Decimal     `json:"total"`
	Status          model.OrderStatus   `json:"status"`
	StatusUpdatedAt time.Time           `json:"status_updated_at"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentStatus   string              `json:"payment_status"`
	DeliveryMethod  string              `json:"delivery_method"`
	EstimatedDays   int                 `json:"estimated_days"`
	CreatedAt       time.Time           `json:"created_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// TimelineStep is one of the four linear fulfillment steps in the tracking
// view.
type TimelineStep struct {
	Status    model.OrderStatus `json:"status"`
	Label     string            `json:"label"`
	Reached   bool              `json:"reached"`
	Current   bool              `json:"current"`
	Timestamp *time.Time        `json:"timestamp,omitempty"`
}

type OrderTimelineResponse struct {
	OrderID       uuid.UUID         `json:"order_id"`
	Status        model.OrderStatus `json:"status"`
	Steps         []TimelineStep    `json:"steps,omitempty"`
	Error         *TimelineError    `json:"error,omitempty"`
	EstimatedDays int               `json:"estimated_days"`
}

// TimelineError replaces the linear steps for failed or cancelled orders.
type TimelineError struct {
	Status     model.OrderStatus `json:"status"`
	OccurredAt time.Time         `json:"occurred_at"`
	Message    string            `json:"message"`
}

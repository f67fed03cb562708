package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/AsmaSahli/EcomPfe-sub001/internal/config"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/dto"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/model"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/repository"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/shipping"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderAccessDenied = errors.New("access denied")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

const orderQueueName = "orders"

type OrderService struct {
	orderRepo   repository.OrderRepository
	listingRepo repository.ListingRepository
	promoRepo   repository.PromotionRepository
	checkout    config.CheckoutConfig
	amqpCh      *amqp.Channel
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	listingRepo repository.ListingRepository,
	promoRepo repository.PromotionRepository,
	checkout config.CheckoutConfig,
	amqpCh *amqp.Channel,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
		promoRepo:   promoRepo,
		checkout:    checkout,
		amqpCh:      amqpCh,
		now:         time.Now,
	}
}

// Create places an order. Each line captures the listing's effective price
// at this instant into an immutable snapshot; later listing or promotion
// changes never touch a stored order.
func (s *OrderService) Create(ctx context.Context, buyerID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	now := s.now()

	var items []model.OrderItem
	subtotal := decimal.Zero
	estimatedDays := 0
	for _, line := range req.Items {
		listing, err := s.listingRepo.GetByKey(ctx, line.ProductID, line.SellerID)
		if err != nil {
			return nil, fmt.Errorf("get listing: %w", err)
		}
		if listing == nil {
			return nil, fmt.Errorf("%w: product %s seller %s", ErrListingNotFound, line.ProductID, line.SellerID)
		}
		if listing.Stock < line.Quantity {
			return nil, fmt.Errorf("%w: product %s", ErrInsufficientStock, line.ProductID)
		}

		promo := resolveActivePromotion(ctx, s.promoRepo, listing, now)
		quote := effectiveQuote(listing, promo)

		items = append(items, model.OrderItem{
			ProductID:    line.ProductID,
			SellerID:     line.SellerID,
			Quantity:     line.Quantity,
			UnitPrice:    quote.FinalPrice,
			DiscountRate: quote.DiscountRate,
			ShipsFrom:    listing.ShipsFrom,
		})
		subtotal = subtotal.Add(quote.FinalPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))

		// One order can span sellers dispatching from different cities;
		// promise the slowest leg.
		if days := shipping.EstimateDays(listing.ShipsFrom, req.ShippingInfo.City); days > estimatedDays {
			estimatedDays = days
		}
	}

	subtotal = subtotal.Round(2)
	shippingFee := s.deliveryFee(req.DeliveryMethod)
	tax := subtotal.Mul(s.checkout.TaxRate).Div(oneHundred).Round(2)
	total := subtotal.Add(shippingFee).Add(tax)

	order := &model.Order{
		BuyerID:  buyerID,
		Items:    items,
		Subtotal: subtotal,
		Shipping: shippingFee,
		Tax:      tax,
		Total:    total,
		ShippingInfo: model.ShippingInfo{
			FullName:    req.ShippingInfo.FullName,
			Phone:       req.ShippingInfo.Phone,
			Address:     req.ShippingInfo.Address,
			City:        req.ShippingInfo.City,
			Governorate: req.ShippingInfo.Governorate,
			PostalCode:  req.ShippingInfo.PostalCode,
		},
		Status:          model.OrderStatusPending,
		StatusUpdatedAt: now,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   "pending",
		DeliveryMethod:  req.DeliveryMethod,
		EstimatedDays:   estimatedDays,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Hand off to the fulfillment worker.
	if s.amqpCh != nil {
		msg, _ := json.Marshal(model.OrderMessage{OrderID: order.ID, BuyerID: buyerID})
		_ = s.amqpCh.PublishWithContext(ctx, "", orderQueueName, false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
		})
	}

	resp := toOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID, buyerID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.getOwned(ctx, orderID, buyerID)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) ListByBuyer(ctx context.Context, buyerID uuid.UUID) (*dto.OrderListResponse, error) {
	orders, err := s.orderRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	resp := &dto.OrderListResponse{Total: len(orders)}
	for i := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(&orders[i]))
	}
	return resp, nil
}

// Advance moves the order one legal step along its lifecycle. The repository
// write is conditional on the currently stored status, so a request racing a
// concurrent transition loses instead of skipping a state.
func (s *OrderService) Advance(ctx context.Context, orderID uuid.UUID, target model.OrderStatus) (*dto.OrderResponse, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}

	now := s.now()
	applied, err := s.orderRepo.AdvanceStatus(ctx, orderID, order.Status, target, now)
	if err != nil {
		return nil, fmt.Errorf("advance status: %w", err)
	}
	if !applied {
		return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
	}

	order.Status = target
	order.StatusUpdatedAt = now
	resp := toOrderResponse(order)
	return &resp, nil
}

// Timeline renders the tracking view: all four linear steps with
// reached/current flags, or a distinct error block for failed and cancelled
// orders.
func (s *OrderService) Timeline(ctx context.Context, orderID, buyerID uuid.UUID) (*dto.OrderTimelineResponse, error) {
	order, err := s.getOwned(ctx, orderID, buyerID)
	if err != nil {
		return nil, err
	}

	resp := &dto.OrderTimelineResponse{
		OrderID:       order.ID,
		Status:        order.Status,
		EstimatedDays: order.EstimatedDays,
	}

	current := order.Status.LinearIndex()
	if current < 0 {
		resp.Error = &dto.TimelineError{
			Status:     order.Status,
			OccurredAt: order.StatusUpdatedAt,
			Message:    timelineErrorMessage(order.Status),
		}
		return resp, nil
	}

	for i, status := range model.LinearStatuses {
		step := dto.TimelineStep{
			Status:  status,
			Label:   timelineLabel(status),
			Reached: i <= current,
			Current: i == current,
		}
		if i == current {
			ts := order.StatusUpdatedAt
			step.Timestamp = &ts
		}
		resp.Steps = append(resp.Steps, step)
	}
	return resp, nil
}

func (s *OrderService) getOwned(ctx context.Context, orderID, buyerID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.BuyerID != buyerID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *OrderService) deliveryFee(method string) decimal.Decimal {
	if method == "express" {
		return s.checkout.ExpressDeliveryFee
	}
	return s.checkout.StandardDeliveryFee
}

func timelineLabel(status model.OrderStatus) string {
	switch status {
	case model.OrderStatusPending:
		return "Order placed"
	case model.OrderStatusProcessing:
		return "Preparing your order"
	case model.OrderStatusShipped:
		return "Shipped"
	case model.OrderStatusDelivered:
		return "Delivered"
	}
	return string(status)
}

func timelineErrorMessage(status model.OrderStatus) string {
	if status == model.OrderStatusCancelled {
		return "This order was cancelled."
	}
	return "This order could not be fulfilled."
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	var items []dto.OrderItemResponse
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			SellerID:     item.SellerID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			DiscountRate: item.DiscountRate,
		})
	}
	return dto.OrderResponse{
		ID:              order.ID,
		BuyerID:         order.BuyerID,
		Items:           items,
		Subtotal:        order.Subtotal,
		Shipping:        order.Shipping,
		Tax:             order.Tax,
		Total:           order.Total,
		Status:          order.Status,
		StatusUpdatedAt: order.StatusUpdatedAt,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		DeliveryMethod:  order.DeliveryMethod,
		EstimatedDays:   order.EstimatedDays,
		CreatedAt:       order.CreatedAt,
	}
}

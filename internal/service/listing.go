package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AsmaSahli/EcomPfe-sub001/internal/dto"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/model"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/repository"
)

var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrListingExists        = errors.New("listing already exists for this seller")
	ErrInvalidPrice         = errors.New("price must be non-negative with at most 2 decimal places")
	ErrInvalidListingUpdate = errors.New("invalid listing update")
	ErrInsufficientStock    = errors.New("insufficient stock")
)

var oneHundred = decimal.NewFromInt(100)

type ListingService struct {
	listingRepo repository.ListingRepository
	promoRepo   repository.PromotionRepository
	now         func() time.Time
}

func NewListingService(listingRepo repository.ListingRepository, promoRepo repository.PromotionRepository) *ListingService {
	return &ListingService{listingRepo: listingRepo, promoRepo: promoRepo, now: time.Now}
}

func (s *ListingService) Create(ctx context.Context, sellerID uuid.UUID, req dto.CreateListingRequest) (*dto.ListingResponse, error) {
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be non-negative", ErrInvalidListingUpdate)
	}

	existing, err := s.listingRepo.GetByKey(ctx, req.ProductID, sellerID)
	if err != nil {
		return nil, fmt.Errorf("check listing: %w", err)
	}
	if existing != nil {
		return nil, ErrListingExists
	}

	listing := &model.Listing{
		ProductID: req.ProductID,
		SellerID:  sellerID,
		Price:     req.Price,
		Stock:     req.Stock,
		Warranty:  req.Warranty,
		Tags:      dedupTags(req.Tags),
		ShipsFrom: req.ShipsFrom,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	resp := s.toResponse(ctx, listing)
	return &resp, nil
}

// UpdateTerms applies a partial update of the seller's commercial terms.
func (s *ListingService) UpdateTerms(ctx context.Context, sellerID, productID uuid.UUID, req dto.UpdateListingRequest) (*dto.ListingResponse, error) {
	listing, err := s.listingRepo.GetByKey(ctx, productID, sellerID)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must be non-negative", ErrInvalidListingUpdate)
		}
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		listing.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must be non-negative", ErrInvalidListingUpdate)
		}
		listing.Stock = *req.Stock
	}
	if req.Warranty != nil {
		listing.Warranty = *req.Warranty
	}
	if req.Tags != nil {
		listing.Tags = dedupTags(*req.Tags)
	}
	if req.ShipsFrom != nil {
		listing.ShipsFrom = *req.ShipsFrom
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}

	resp := s.toResponse(ctx, listing)
	return &resp, nil
}

// AdjustStock applies delta through the repository's guarded update. Seller
// edits and order fulfillment share this path so the stock can never go
// negative under concurrent writes.
func (s *ListingService) AdjustStock(ctx context.Context, sellerID, productID uuid.UUID, delta int) (*dto.ListingResponse, error) {
	listing, err := s.listingRepo.GetByKey(ctx, productID, sellerID)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	applied, err := s.listingRepo.AdjustStock(ctx, productID, sellerID, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	if !applied {
		return nil, ErrInsufficientStock
	}

	listing, err = s.listingRepo.GetByKey(ctx, productID, sellerID)
	if err != nil || listing == nil {
		return nil, fmt.Errorf("reload listing: %w", err)
	}
	resp := s.toResponse(ctx, listing)
	return &resp, nil
}

// Offers returns every seller's listing for a product with a freshly
// resolved price quote.
func (s *ListingService) Offers(ctx context.Context, productID uuid.UUID) (*dto.OfferListResponse, error) {
	listings, err := s.listingRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	resp := &dto.OfferListResponse{ProductID: productID}
	for i := range listings {
		resp.Offers = append(resp.Offers, s.toResponse(ctx, &listings[i]))
	}
	return resp, nil
}

// Quote computes the customer-visible price for one listing. The active
// promotion is resolved on every call; expiry is purely date-based so the
// result is never cached.
func (s *ListingService) Quote(ctx context.Context, listing *model.Listing) dto.PriceQuote {
	promo := resolveActivePromotion(ctx, s.promoRepo, listing, s.now())
	return effectiveQuote(listing, promo)
}

// resolveActivePromotion follows the listing's weak active-promotion
// reference and returns the promotion only while it still applies. An
// expired or out-of-scope reference behaves as if it were nil (lazy expiry,
// recomputed on every read).
func resolveActivePromotion(ctx context.Context, repo repository.PromotionRepository, listing *model.Listing, now time.Time) *model.Promotion {
	if listing.ActivePromotionID == nil {
		return nil
	}
	promo, err := repo.GetByID(ctx, *listing.ActivePromotionID)
	if err != nil || promo == nil {
		return nil
	}
	if !promotionApplies(promo, listing, now) {
		return nil
	}
	return promo
}

func (s *ListingService) toResponse(ctx context.Context, listing *model.Listing) dto.ListingResponse {
	return dto.ListingResponse{
		ProductID:         listing.ProductID,
		SellerID:          listing.SellerID,
		Stock:             listing.Stock,
		Warranty:          listing.Warranty,
		Tags:              listing.Tags,
		ShipsFrom:         listing.ShipsFrom,
		ActivePromotionID: listing.ActivePromotionID,
		Pricing:           s.Quote(ctx, listing),
		CreatedAt:         listing.CreatedAt,
		UpdatedAt:         listing.UpdatedAt,
	}
}

// effectiveQuote derives the final price from the base price and an already
// resolved promotion (nil means no discount). Half-up rounding to 2 places.
func effectiveQuote(listing *model.Listing, promo *model.Promotion) dto.PriceQuote {
	rate := decimal.Zero
	if promo != nil {
		rate = promo.DiscountRate
	}
	final := listing.Price.Mul(oneHundred.Sub(rate)).Div(oneHundred).Round(2)
	return dto.PriceQuote{
		BasePrice:    listing.Price,
		DiscountRate: rate,
		FinalPrice:   final,
		HasDiscount:  rate.IsPositive(),
	}
}

// promotionApplies checks the three activation conditions: administrative
// switch on, date window containing now, and the listing inside the
// promotion's scope.
func promotionApplies(promo *model.Promotion, listing *model.Listing, now time.Time) bool {
	return promo.IsActive && promo.InWindow(now) && promo.Covers(listing.ProductID, listing.SellerID)
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	if !price.Equal(price.Round(2)) {
		return ErrInvalidPrice
	}
	return nil
}

// dedupTags removes exact duplicates while preserving first-seen order for
// display.
func dedupTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

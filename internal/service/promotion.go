package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AsmaSahli/EcomPfe-sub001/internal/dto"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/model"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/repository"
)

var (
	ErrPromotionNotFound     = errors.New("promotion not found")
	ErrInvalidPromotion      = errors.New("invalid promotion")
	ErrInvalidPromotionState = errors.New("promotion is outside its date window or does not cover this listing")
	ErrPromotionAccessDenied = errors.New("promotion belongs to another seller")
)

type PromotionService struct {
	promoRepo   repository.PromotionRepository
	listingRepo repository.ListingRepository
	now         func() time.Time
}

func NewPromotionService(promoRepo repository.PromotionRepository, listingRepo repository.ListingRepository) *PromotionService {
	return &PromotionService{promoRepo: promoRepo, listingRepo: listingRepo, now: time.Now}
}

// Create registers a promotion. It starts with the administrative switch off;
// the switch flips on the first activation against a listing.
func (s *PromotionService) Create(ctx context.Context, sellerID uuid.UUID, req dto.CreatePromotionRequest) (*dto.PromotionResponse, error) {
	if req.DiscountRate.IsNegative() || req.DiscountRate.GreaterThan(oneHundred) {
		return nil, fmt.Errorf("%w: discount rate must be between 0 and 100", ErrInvalidPromotion)
	}
	if !req.StartsAt.Before(req.EndsAt) {
		return nil, fmt.Errorf("%w: start date must precede end date", ErrInvalidPromotion)
	}

	promo := &model.Promotion{
		SellerID:     sellerID,
		Name:         req.Name,
		DiscountRate: req.DiscountRate,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		IsActive:     false,
	}
	for _, productID := range req.ProductIDs {
		promo.Listings = append(promo.Listings, model.ListingRef{ProductID: productID, SellerID: sellerID})
	}

	if err := s.promoRepo.Create(ctx, promo); err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}

	resp := toPromotionResponse(promo)
	return &resp, nil
}

// Activate points the listing's weak active-promotion reference at the given
// promotion. Any previously active promotion on the listing is superseded by
// the single pointer write, so two promotions can never be active at once.
func (s *PromotionService) Activate(ctx context.Context, sellerID, productID, promotionID uuid.UUID) error {
	listing, err := s.listingRepo.GetByKey(ctx, productID, sellerID)
	if err != nil {
		return fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return ErrListingNotFound
	}

	promo, err := s.promoRepo.GetByID(ctx, promotionID)
	if err != nil {
		return fmt.Errorf("get promotion: %w", err)
	}
	if promo == nil {
		return ErrPromotionNotFound
	}
	if promo.SellerID != sellerID {
		return ErrPromotionAccessDenied
	}
	if !promo.InWindow(s.now()) {
		return fmt.Errorf("%w: outside date window", ErrInvalidPromotionState)
	}
	if !promo.Covers(productID, sellerID) {
		return fmt.Errorf("%w: listing not in scope", ErrInvalidPromotionState)
	}

	if !promo.IsActive {
		if err := s.promoRepo.SetActive(ctx, promotionID, true); err != nil {
			return fmt.Errorf("enable promotion: %w", err)
		}
	}
	if err := s.listingRepo.SetActivePromotion(ctx, productID, sellerID, &promotionID); err != nil {
		return fmt.Errorf("set active promotion: %w", err)
	}
	return nil
}

// Deactivate clears the listing's active-promotion reference. It always
// succeeds for an existing listing; the promotion itself keeps running for
// any other listing still pointing at it.
func (s *PromotionService) Deactivate(ctx context.Context, sellerID, productID uuid.UUID) error {
	listing, err := s.listingRepo.GetByKey(ctx, productID, sellerID)
	if err != nil {
		return fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return ErrListingNotFound
	}
	if err := s.listingRepo.SetActivePromotion(ctx, productID, sellerID, nil); err != nil {
		return fmt.Errorf("clear active promotion: %w", err)
	}
	return nil
}

func (s *PromotionService) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]dto.PromotionResponse, error) {
	promos, err := s.promoRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	var out []dto.PromotionResponse
	for i := range promos {
		out = append(out, toPromotionResponse(&promos[i]))
	}
	return out, nil
}

func toPromotionResponse(p *model.Promotion) dto.PromotionResponse {
	resp := dto.PromotionResponse{
		ID:           p.ID,
		SellerID:     p.SellerID,
		Name:         p.Name,
		DiscountRate: p.DiscountRate,
		StartsAt:     p.StartsAt,
		EndsAt:       p.EndsAt,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
	}
	for _, ref := range p.Listings {
		resp.ProductIDs = append(resp.ProductIDs, ref.ProductID)
	}
	return resp
}

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsmaSahli/EcomPfe-sub001/internal/dto"
	"github.com/AsmaSahli/EcomPfe-sub001/internal/model"
)

type mockListingRepo struct {
	listings map[string]*model.Listing
}

func newMockListingRepo() *mockListingRepo {
	return &mockListingRepo{listings: make(map[string]*model.Listing)}
}

func listingKey(productID, sellerID uuid.UUID) string {
	return productID.String() + "/" + sellerID.String()
}

func (m *mockListingRepo) Create(_ context.Context, l *model.Listing) error {
	l.CreatedAt = time.Now()
	l.UpdatedAt = time.Now()
	m.listings[listingKey(l.ProductID, l.SellerID)] = l
	return nil
}

func (m *mockListingRepo) GetByKey(_ context.Context, productID, sellerID uuid.UUID) (*model.Listing, error) {
	l, ok := m.listings[listingKey(productID, sellerID)]
	if !ok {
		return nil, nil
	}
	clone := *l
	return &clone, nil
}

func (m *mockListingRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.Listing, error) {
	var out []model.Listing
	for _, l := range m.listings {
		if l.ProductID == productID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockListingRepo) Update(_ context.Context, l *model.Listing) error {
	stored, ok := m.listings[listingKey(l.ProductID, l.SellerID)]
	if !ok {
		return nil
	}
	promoID := stored.ActivePromotionID
	clone := *l
	clone.ActivePromotionID = promoID
	m.listings[listingKey(l.ProductID, l.SellerID)] = &clone
	return nil
}

func (m *mockListingRepo) AdjustStock(_ context.Context, productID, sellerID uuid.UUID, delta int) (bool, error) {
	l, ok := m.listings[listingKey(productID, sellerID)]
	if !ok {
		return false, nil
	}
	if l.Stock+delta < 0 {
		return false, nil
	}
	l.Stock += delta
	return true, nil
}

func (m *mockListingRepo) SetActivePromotion(_ context.Context, productID, sellerID uuid.UUID, promotionID *uuid.UUID) error {
	l, ok := m.listings[listingKey(productID, sellerID)]
	if !ok {
		return fmt.Errorf("listing not found: %w", pgx.ErrNoRows)
	}
	l.ActivePromotionID = promotionID
	return nil
}

func (m *mockListingRepo) ReserveStock(_ context.Context, _ pgx.Tx, productID, sellerID uuid.UUID, quantity int) (bool, error) {
	return m.AdjustStock(context.Background(), productID, sellerID, -quantity)
}

type mockPromotionRepo struct {
	promotions map[uuid.UUID]*model.Promotion
}

func newMockPromotionRepo() *mockPromotionRepo {
	return &mockPromotionRepo{promotions: make(map[uuid.UUID]*model.Promotion)}
}

func (m *mockPromotionRepo) Create(_ context.Context, p *model.Promotion) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.promotions[p.ID] = p
	return nil
}

func (m *mockPromotionRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Promotion, error) {
	p, ok := m.promotions[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (m *mockPromotionRepo) ListBySeller(_ context.Context, sellerID uuid.UUID) ([]model.Promotion, error) {
	var out []model.Promotion
	for _, p := range m.promotions {
		if p.SellerID == sellerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPromotionRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	p, ok := m.promotions[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.IsActive = active
	return nil
}

func seedListing(repo *mockListingRepo, price string, stock int) *model.Listing {
	l := &model.Listing{
		ProductID: uuid.New(),
		SellerID:  uuid.New(),
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		ShipsFrom: "Tunis",
	}
	repo.listings[listingKey(l.ProductID, l.SellerID)] = l
	return l
}

func seedPromotion(repo *mockPromotionRepo, listing *model.Listing, rate string, start, end time.Time, active bool) *model.Promotion {
	p := &model.Promotion{
		ID:           uuid.New(),
		SellerID:     listing.SellerID,
		Name:         "Promo",
		DiscountRate: decimal.RequireFromString(rate),
		StartsAt:     start,
		EndsAt:       end,
		IsActive:     active,
		Listings:     []model.ListingRef{{ProductID: listing.ProductID, SellerID: listing.SellerID}},
	}
	repo.promotions[p.ID] = p
	return p
}

func TestListingService_Create_RejectsBadPrices(t *testing.T) {
	svc := NewListingService(newMockListingRepo(), newMockPromotionRepo())

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateListingRequest{
		ProductID: uuid.New(), Price: decimal.RequireFromString("19.999"), ShipsFrom: "Tunis",
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = svc.Create(context.Background(), uuid.New(), dto.CreateListingRequest{
		ProductID: uuid.New(), Price: decimal.RequireFromString("-5"), ShipsFrom: "Tunis",
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestListingService_Create_DedupsTags(t *testing.T) {
	svc := NewListingService(newMockListingRepo(), newMockPromotionRepo())

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateListingRequest{
		ProductID: uuid.New(),
		Price:     decimal.RequireFromString("49.90"),
		Stock:     3,
		Tags:      []string{"new", "gaming", "new", "Gaming", "gaming"},
		ShipsFrom: "Sousse",
	})
	require.NoError(t, err)
	// case-sensitive exact dedup, first-seen order kept
	assert.Equal(t, []string{"new", "gaming", "Gaming"}, resp.Tags)
}

func TestListingService_Create_DuplicateKey(t *testing.T) {
	repo := newMockListingRepo()
	svc := NewListingService(repo, newMockPromotionRepo())
	listing := seedListing(repo, "10.00", 1)

	_, err := svc.Create(context.Background(), listing.SellerID, dto.CreateListingRequest{
		ProductID: listing.ProductID, Price: decimal.RequireFromString("12.00"), ShipsFrom: "Tunis",
	})
	assert.ErrorIs(t, err, ErrListingExists)
}

func TestListingService_UpdateTerms_Validation(t *testing.T) {
	repo := newMockListingRepo()
	svc := NewListingService(repo, newMockPromotionRepo())
	listing := seedListing(repo, "10.00", 1)

	badStock := -1
	_, err := svc.UpdateTerms(context.Background(), listing.SellerID, listing.ProductID, dto.UpdateListingRequest{Stock: &badStock})
	assert.ErrorIs(t, err, ErrInvalidListingUpdate)

	badPrice := decimal.RequireFromString("-3.00")
	_, err = svc.UpdateTerms(context.Background(), listing.SellerID, listing.ProductID, dto.UpdateListingRequest{Price: &badPrice})
	assert.ErrorIs(t, err, ErrInvalidListingUpdate)

	imprecise := decimal.RequireFromString("3.005")
	_, err = svc.UpdateTerms(context.Background(), listing.SellerID, listing.ProductID, dto.UpdateListingRequest{Price: &imprecise})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestListingService_Quote_NoPromotion(t *testing.T) {
	repo := newMockListingRepo()
	svc := NewListingService(repo, newMockPromotionRepo())
	listing := seedListing(repo, "100.00", 5)

	quote := svc.Quote(context.Background(), listing)
	assert.False(t, quote.HasDiscount)
	assert.True(t, quote.FinalPrice.Equal(listing.Price))
	assert.True(t, quote.DiscountRate.IsZero())
}

func TestListingService_Quote_ActivePromotion(t *testing.T) {
	repo := newMockListingRepo()
	promoRepo := newMockPromotionRepo()
	svc := NewListingService(repo, promoRepo)

	now := time.Now()
	listing := seedListing(repo, "100.00", 5)
	promo := seedPromotion(promoRepo, listing, "25", now.Add(-time.Hour), now.Add(time.Hour), true)
	listing.ActivePromotionID = &promo.ID

	quote := svc.Quote(context.Background(), listing)
	assert.True(t, quote.HasDiscount)
	assert.True(t, quote.FinalPrice.Equal(decimal.RequireFromString("75.00")), quote.FinalPrice.String())
	assert.True(t, quote.BasePrice.Equal(decimal.RequireFromString("100.00")))
}

func TestListingService_Quote_FinalNeverExceedsBase(t *testing.T) {
	repo := newMockListingRepo()
	promoRepo := newMockPromotionRepo()
	svc := NewListingService(repo, promoRepo)
	now := time.Now()

	for _, rate := range []string{"0", "1", "10", "33", "50", "99", "100"} {
		listing := seedListing(repo, "19.99", 5)
		promo := seedPromotion(promoRepo, listing, rate, now.Add(-time.Hour), now.Add(time.Hour), true)
		listing.ActivePromotionID = &promo.ID

		quote := svc.Quote(context.Background(), listing)
		assert.True(t, quote.FinalPrice.LessThanOrEqual(quote.BasePrice), "rate %s", rate)
		if rate == "0" {
			assert.False(t, quote.HasDiscount)
			assert.True(t, quote.FinalPrice.Equal(quote.BasePrice))
		} else {
			assert.True(t, quote.HasDiscount)
			assert.True(t, quote.FinalPrice.LessThan(quote.BasePrice))
		}
	}
}

func TestListingService_Quote_LazyExpiry(t *testing.T) {
	repo := newMockListingRepo()
	promoRepo := newMockPromotionRepo()
	svc := NewListingService(repo, promoRepo)

	start := time.Now().Add(-48 * time.Hour)
	end := time.Now().Add(time.Hour)
	listing := seedListing(repo, "80.00", 5)
	promo := seedPromotion(promoRepo, listing, "50", start, end, true)
	listing.ActivePromotionID = &promo.ID

	quote := svc.Quote(context.Background(), listing)
	assert.True(t, quote.HasDiscount)

	// step the clock past the end date; no deactivation call is made
	svc.now = func() time.Time { return end.Add(time.Minute) }
	quote = svc.Quote(context.Background(), listing)
	assert.False(t, quote.HasDiscount)
	assert.True(t, quote.FinalPrice.Equal(listing.Price))
}

func TestListingService_Quote_InactiveOrOutOfScopePromotion(t *testing.T) {
	repo := newMockListingRepo()
	promoRepo := newMockPromotionRepo()
	svc := NewListingService(repo, promoRepo)
	now := time.Now()

	listing := seedListing(repo, "60.00", 5)
	inactive := seedPromotion(promoRepo, listing, "30", now.Add(-time.Hour), now.Add(time.Hour), false)
	listing.ActivePromotionID = &inactive.ID
	assert.False(t, svc.Quote(context.Background(), listing).HasDiscount)

	other := seedListing(repo, "60.00", 5)
	outOfScope := seedPromotion(promoRepo, other, "30", now.Add(-time.Hour), now.Add(time.Hour), true)
	listing.ActivePromotionID = &outOfScope.ID
	assert.False(t, svc.Quote(context.Background(), listing).HasDiscount)
}

func TestListingService_AdjustStock_GuardExhaustsToZero(t *testing.T) {
	repo := newMockListingRepo()
	svc := NewListingService(repo, newMockPromotionRepo())
	listing := seedListing(repo, "10.00", 4)

	_, err := svc.AdjustStock(context.Background(), listing.SellerID, listing.ProductID, -2)
	require.NoError(t, err)
	_, err = svc.AdjustStock(context.Background(), listing.SellerID, listing.ProductID, -2)
	require.NoError(t, err)

	// stock is exactly zero now, one more decrement must fail
	_, err = svc.AdjustStock(context.Background(), listing.SellerID, listing.ProductID, -2)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	stored, _ := repo.GetByKey(context.Background(), listing.ProductID, listing.SellerID)
	assert.Equal(t, 0, stored.Stock)
}

func TestListingService_AdjustStock_Restock(t *testing.T) {
	repo := newMockListingRepo()
	svc := NewListingService(repo, newMockPromotionRepo())
	listing := seedListing(repo, "10.00", 0)

	resp, err := svc.AdjustStock(context.Background(), listing.SellerID, listing.ProductID, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, resp.Stock)
}

func TestListingService_AdjustStock_NotFound(t *testing.T) {
	svc := NewListingService(newMockListingRepo(), newMockPromotionRepo())
	_, err := svc.AdjustStock(context.Background(), uuid.New(), uuid.New(), -1)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

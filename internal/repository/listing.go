package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AsmaSahli/EcomPfe-sub001/internal/model"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	GetByKey(ctx context.Context, productID, sellerID uuid.UUID) (*model.Listing, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Listing, error)
	Update(ctx context.Context, listing *model.Listing) error
	// AdjustStock applies delta as a guarded single-statement update; it
	// reports false when the guard (stock + delta >= 0) rejects the write.
	AdjustStock(ctx context.Context, productID, sellerID uuid.UUID, delta int) (bool, error)
	SetActivePromotion(ctx context.Context, productID, sellerID uuid.UUID, promotionID *uuid.UUID) error
	ReserveStock(ctx context.Context, tx pgx.Tx, productID, sellerID uuid.UUID, quantity int) (bool, error)
}

type pgListingRepo struct{ pool *pgxpool.Pool }

func NewListingRepository(pool *pgxpool.Pool) ListingRepository {
	return &pgListingRepo{pool: pool}
}

const listingColumns = `product_id, seller_id, price, stock, warranty, tags, ships_from, active_promotion_id, created_at, updated_at`

func (r *pgListingRepo) Create(ctx context.Context, listing *model.Listing) error {
	query := `INSERT INTO listings (product_id, seller_id, price, stock, warranty, tags, ships_from, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		listing.ProductID, listing.SellerID, listing.Price, listing.Stock,
		listing.Warranty, listing.Tags, listing.ShipsFrom,
	).Scan(&listing.CreatedAt, &listing.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

func (r *pgListingRepo) GetByKey(ctx context.Context, productID, sellerID uuid.UUID) (*model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE product_id = $1 AND seller_id = $2`
	l := &model.Listing{}
	err := r.pool.QueryRow(ctx, query, productID, sellerID).Scan(
		&l.ProductID, &l.SellerID, &l.Price, &l.Stock, &l.Warranty,
		&l.Tags, &l.ShipsFrom, &l.ActivePromotionID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

func (r *pgListingRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE product_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		var l model.Listing
		if err := rows.Scan(
			&l.ProductID, &l.SellerID, &l.Price, &l.Stock, &l.Warranty,
			&l.Tags, &l.ShipsFrom, &l.ActivePromotionID, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func (r *pgListingRepo) Update(ctx context.Context, listing *model.Listing) error {
	query := `UPDATE listings SET price=$3, stock=$4, warranty=$5, tags=$6, ships_from=$7, updated_at=NOW()
			  WHERE product_id=$1 AND seller_id=$2 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		listing.ProductID, listing.SellerID, listing.Price, listing.Stock,
		listing.Warranty, listing.Tags, listing.ShipsFrom,
	).Scan(&listing.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("update listing: %w", err)
	}
	return nil
}

func (r *pgListingRepo) AdjustStock(ctx context.Context, productID, sellerID uuid.UUID, delta int) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE listings SET stock = stock + $3, updated_at = NOW()
		 WHERE product_id = $1 AND seller_id = $2 AND stock + $3 >= 0`,
		productID, sellerID, delta,
	)
	if err != nil {
		return false, fmt.Errorf("adjust stock: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgListingRepo) SetActivePromotion(ctx context.Context, productID, sellerID uuid.UUID, promotionID *uuid.UUID) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE listings SET active_promotion_id = $3, updated_at = NOW()
		 WHERE product_id = $1 AND seller_id = $2`,
		productID, sellerID, promotionID,
	)
	if err != nil {
		return fmt.Errorf("set active promotion: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgListingRepo) ReserveStock(ctx context.Context, tx pgx.Tx, productID, sellerID uuid.UUID, quantity int) (bool, error) {
	ct, err := tx.Exec(ctx,
		`UPDATE listings SET stock = stock - $3, updated_at = NOW()
		 WHERE product_id = $1 AND seller_id = $2 AND stock >= $3`,
		productID, sellerID, quantity,
	)
	if err != nil {
		return false, fmt.Errorf("reserve stock: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

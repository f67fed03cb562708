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

type PromotionRepository interface {
	Create(ctx context.Context, promo *model.Promotion) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Promotion, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type pgPromotionRepo struct{ pool *pgxpool.Pool }

func NewPromotionRepository(pool *pgxpool.Pool) PromotionRepository {
	return &pgPromotionRepo{pool: pool}
}

func (r *pgPromotionRepo) Create(ctx context.Context, promo *model.Promotion) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	promo.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO promotions (id, seller_id, name, discount_rate, starts_at, ends_at, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING created_at, updated_at`,
		promo.ID, promo.SellerID, promo.Name, promo.DiscountRate,
		promo.StartsAt, promo.EndsAt, promo.IsActive,
	).Scan(&promo.CreatedAt, &promo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}

	for _, ref := range promo.Listings {
		_, err = tx.Exec(ctx,
			`INSERT INTO promotion_listings (promotion_id, product_id, seller_id)
			 VALUES ($1, $2, $3)`,
			promo.ID, ref.ProductID, ref.SellerID,
		)
		if err != nil {
			return fmt.Errorf("insert promotion listing: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *pgPromotionRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error) {
	p := &model.Promotion{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, seller_id, name, discount_rate, starts_at, ends_at, is_active, created_at, updated_at
		 FROM promotions WHERE id = $1`, id,
	).Scan(&p.ID, &p.SellerID, &p.Name, &p.DiscountRate, &p.StartsAt, &p.EndsAt,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT product_id, seller_id FROM promotion_listings WHERE promotion_id = $1`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("get promotion listings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref model.ListingRef
		if err := rows.Scan(&ref.ProductID, &ref.SellerID); err != nil {
			return nil, fmt.Errorf("scan promotion listing: %w", err)
		}
		p.Listings = append(p.Listings, ref)
	}
	return p, nil
}

func (r *pgPromotionRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Promotion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, seller_id, name, discount_rate, starts_at, ends_at, is_active, created_at, updated_at
		 FROM promotions WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var promos []model.Promotion
	for rows.Next() {
		var p model.Promotion
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Name, &p.DiscountRate, &p.StartsAt,
			&p.EndsAt, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		promos = append(promos, p)
	}
	return promos, nil
}

func (r *pgPromotionRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE promotions SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active,
	)
	if err != nil {
		return fmt.Errorf("set promotion active: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

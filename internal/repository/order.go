package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AsmaSahli/EcomPfe-sub001/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.Order, error)
	// AdvanceStatus moves the order from the currently stored status to the
	// target in one conditional write. It reports false when the stored
	// status no longer matches from (a concurrent transition won).
	AdvanceStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, now time.Time) (bool, error)
	AdvanceStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus, now time.Time) (bool, error)
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func (r *pgOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *pgOrderRepo) Create(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, buyer_id, subtotal, shipping, tax, total,
			ship_full_name, ship_phone, ship_address, ship_city, ship_governorate, ship_postal_code,
			status, status_updated_at, payment_method, payment_status, delivery_method, estimated_days, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW())
		 RETURNING created_at`,
		order.ID, order.BuyerID, order.Subtotal, order.Shipping, order.Tax, order.Total,
		order.ShippingInfo.FullName, order.ShippingInfo.Phone, order.ShippingInfo.Address,
		order.ShippingInfo.City, order.ShippingInfo.Governorate, order.ShippingInfo.PostalCode,
		order.Status, order.StatusUpdatedAt, order.PaymentMethod, order.PaymentStatus,
		order.DeliveryMethod, order.EstimatedDays,
	).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, seller_id, quantity, unit_price, discount_rate, ships_from)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			order.Items[i].ID, order.ID, order.Items[i].ProductID, order.Items[i].SellerID,
			order.Items[i].Quantity, order.Items[i].UnitPrice, order.Items[i].DiscountRate,
			order.Items[i].ShipsFrom,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return tx.Commit(ctx)
}

const orderColumns = `id, buyer_id, subtotal, shipping, tax, total,
	ship_full_name, ship_phone, ship_address, ship_city, ship_governorate, ship_postal_code,
	status, status_updated_at, payment_method, payment_status, delivery_method, estimated_days, created_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.BuyerID, &o.Subtotal, &o.Shipping, &o.Tax, &o.Total,
		&o.ShippingInfo.FullName, &o.ShippingInfo.Phone, &o.ShippingInfo.Address,
		&o.ShippingInfo.City, &o.ShippingInfo.Governorate, &o.ShippingInfo.PostalCode,
		&o.Status, &o.StatusUpdatedAt, &o.PaymentMethod, &o.PaymentStatus,
		&o.DeliveryMethod, &o.EstimatedDays, &o.CreatedAt,
	)
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order := &model.Order{}
	err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, seller_id, quantity, unit_price, discount_rate, ships_from
		 FROM order_items WHERE order_id = $1`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.SellerID, &item.Quantity,
			&item.UnitPrice, &item.DiscountRate, &item.ShipsFrom); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.OrderID = order.ID
		order.Items = append(order.Items, item)
	}
	return order, nil
}

func (r *pgOrderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`,
		buyerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *pgOrderRepo) AdvanceStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, now time.Time) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $3, status_updated_at = $4 WHERE id = $1 AND status = $2`,
		id, from, to, now,
	)
	if err != nil {
		return false, fmt.Errorf("advance order status: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgOrderRepo) AdvanceStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus, now time.Time) (bool, error) {
	ct, err := tx.Exec(ctx,
		`UPDATE orders SET status = $3, status_updated_at = $4 WHERE id = $1 AND status = $2`,
		id, from, to, now,
	)
	if err != nil {
		return false, fmt.Errorf("advance order status: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `id, user_id, total_amount, status, payment_method, shipping_address, order_date, delivery_date, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID,
		&o.UserID,
		&o.TotalAmount,
		&o.Status,
		&o.PaymentMethod,
		&o.ShippingAddress,
		&o.OrderDate,
		&o.DeliveryDate,
		&o.UpdatedAt,
	)
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, total_amount, status, payment_method, shipping_address, order_date, delivery_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.TotalAmount,
		order.Status,
		order.PaymentMethod,
		order.ShippingAddress,
		order.OrderDate,
		order.DeliveryDate,
		order.UpdatedAt,
	)
	if err != nil {
		if isPgError(err, pgNumericOutOfRange) {
			return model.ErrOrderTooLarge
		}
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderLines inserts the order's lines in one batch; slice order is kept
// as the line position.
func (r *orderRepository) CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_lines (id, order_id, product_id, product_name, product_price,
		                         product_image_url, product_category, quantity, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for i, l := range lines {
		batch.Queue(query,
			l.ID,
			l.OrderID,
			l.ProductID,
			l.ProductName,
			l.ProductPrice,
			l.ProductImageURL,
			l.ProductCategory,
			l.Quantity,
			i,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(lines); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", lines[i].OrderID.String()).
				Int64("product_id", lines[i].ProductID).
				Msg("failed to create order line")
			return fmt.Errorf("failed to create order line: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(lines)).
		Msg("order lines created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its lines.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUser retrieves an order only if it belongs to userID.
func (r *orderRepository) GetForUser(ctx context.Context, userID int64, id uuid.UUID) (*model.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *orderRepository) getOne(ctx context.Context, query string, id uuid.UUID, args ...any) (*model.Order, error) {
	var order model.Order
	if err := scanOrder(r.pool.QueryRow(ctx, query, append([]any{id}, args...)...), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	orders := []model.Order{order}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// ListByUser returns the user's orders with lines, most recent first.
func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY order_date DESC, id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachLines loads the lines of all given orders with a single query.
func (r *orderRepository) attachLines(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Lines = []model.OrderLine{}
	}

	query := `
		SELECT id, order_id, product_id, product_name, product_price,
		       product_image_url, product_category, quantity
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("orders", len(ids)).Msg("failed to query order lines")
		return fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.OrderLine
		err := rows.Scan(
			&l.ID,
			&l.OrderID,
			&l.ProductID,
			&l.ProductName,
			&l.ProductPrice,
			&l.ProductImageURL,
			&l.ProductCategory,
			&l.Quantity,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order line row")
			return fmt.Errorf("failed to scan order line: %w", err)
		}
		i := index[l.OrderID]
		orders[i].Lines = append(orders[i].Lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order line rows")
		return fmt.Errorf("error iterating order lines: %w", err)
	}

	return nil
}

// TransitionStatus applies a guarded status change. The delivery date is
// stamped only when the order becomes Delivered.
func (r *orderRepository) TransitionStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus, at time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET status = $3,
		    updated_at = $4,
		    delivery_date = CASE WHEN $3 = 'Delivered' THEN $4 ELSE delivery_date END
		WHERE id = $1 AND status = $2
	`

	tag, err := tx.Exec(ctx, query, id, string(from), string(to), at)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("failed to transition order status")
		return false, fmt.Errorf("failed to transition order status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Constraint names Postgres assigns to the cart_items foreign keys.
const (
	cartUserFK    = "cart_items_user_id_fkey"
	cartProductFK = "cart_items_product_id_fkey"
)

const cartSelect = `
	SELECT p.id, p.name, p.description, p.price, p.category, p.image_url,
	       p.stock, p.rating, p.reviews, p.created_at, ci.quantity
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
	WHERE ci.user_id = $1
	ORDER BY ci.added_at, ci.id
`

func collectCart(rows pgx.Rows) ([]model.CartItem, error) {
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		p := &item.Product
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Category,
			&p.ImageURL,
			&p.Stock,
			&p.Rating,
			&p.Reviews,
			&p.CreatedAt,
			&item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// GetCart returns the user's cart entries in insertion order.
func (r *cartRepository) GetCart(ctx context.Context, userID int64) ([]model.CartItem, error) {
	rows, err := r.pool.Query(ctx, cartSelect, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	items, err := collectCart(rows)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to read cart")
		return nil, err
	}

	return items, nil
}

// Add merges quantity into the user's entry for the product in a single
// statement so concurrent adds never lose an increment. A merge that would
// take the entry past model.MaxCartQuantity leaves it unchanged.
func (r *cartRepository) Add(ctx context.Context, userID, productID int64, quantity int) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		WHERE cart_items.quantity + EXCLUDED.quantity <= $4
	`

	tag, err := r.pool.Exec(ctx, query, userID, productID, quantity, model.MaxCartQuantity)
	if err != nil {
		if mapped := cartWriteError(err); mapped != nil {
			return mapped
		}
		r.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("product_id", productID).
			Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInvalidQuantity
	}

	return nil
}

// cartWriteError translates constraint failures on cart_items into domain
// errors, or returns nil when err is not one of them.
func cartWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgNumericOutOfRange, pgCheckViolation:
		return model.ErrInvalidQuantity
	case pgForeignKeyViolation:
		switch pgErr.ConstraintName {
		case cartProductFK:
			return model.ErrProductNotFound
		case cartUserFK:
			return model.ErrUserNotFound
		}
	}
	return nil
}

// SetQuantity overwrites the quantity of an existing entry.
func (r *cartRepository) SetQuantity(ctx context.Context, userID, productID int64, quantity int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE user_id = $1 AND product_id = $2`,
		userID, productID, quantity,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("product_id", productID).
			Msg("failed to update cart item")
		return false, fmt.Errorf("failed to update cart item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Remove deletes an entry; absent entries are ignored.
func (r *cartRepository) Remove(ctx context.Context, userID, productID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("product_id", productID).
			Msg("failed to remove cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

// Clear deletes every entry of the user.
func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// LockForCheckout reads the cart and locks its rows until tx ends, so
// concurrent quantity changes wait for the checkout to finish.
func (r *cartRepository) LockForCheckout(ctx context.Context, tx pgx.Tx, userID int64) ([]model.CartItem, error) {
	rows, err := tx.Query(ctx, cartSelect+` FOR UPDATE OF ci`, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	items, err := collectCart(rows)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to read locked cart")
		return nil, err
	}

	return items, nil
}

// RemoveProductsTx deletes only the listed entries, leaving any entry added
// after the lock was taken.
func (r *cartRepository) RemoveProductsTx(ctx context.Context, tx pgx.Tx, userID int64, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}

	_, err := tx.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = ANY($2)`,
		userID, productIDs,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear checked-out cart items")
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	return nil
}

package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access operations.
// Lookups that find nothing return a nil product and a nil error.
type ProductRepository interface {
	// GetAll retrieves every product ordered by id.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Search returns products whose name, description or category contains
	// query, ignoring case.
	Search(ctx context.Context, query string) ([]model.Product, error)

	// Categories returns the distinct product categories in ascending order.
	Categories(ctx context.Context) ([]string, error)

	// InsertMany inserts products that do not exist yet and reports how many
	// rows were added. Existing ids are left untouched.
	InsertMany(ctx context.Context, products []model.Product) (int, error)
}

// UserRepository defines the interface for account data access operations.
type UserRepository interface {
	// Create stores a new user and fills in its ID and CreatedAt.
	// Returns model.ErrEmailExists when the email is taken.
	Create(ctx context.Context, user *model.User) error

	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// CartRepository defines the interface for per-user cart storage.
type CartRepository interface {
	// GetCart returns the user's cart entries in insertion order.
	GetCart(ctx context.Context, userID int64) ([]model.CartItem, error)

	// Add inserts an entry or adds quantity to the existing one atomically.
	Add(ctx context.Context, userID, productID int64, quantity int) error

	// SetQuantity overwrites the quantity of an existing entry and reports
	// whether the entry existed.
	SetQuantity(ctx context.Context, userID, productID int64, quantity int) (bool, error)

	// Remove deletes an entry. Removing an absent entry is not an error.
	Remove(ctx context.Context, userID, productID int64) error

	// Clear deletes every entry of the user.
	Clear(ctx context.Context, userID int64) error

	// LockForCheckout reads and row-locks the user's entries inside tx.
	LockForCheckout(ctx context.Context, tx pgx.Tx, userID int64) ([]model.CartItem, error)

	// RemoveProductsTx deletes the given entries of the user inside tx.
	RemoveProductsTx(ctx context.Context, tx pgx.Tx, userID int64, productIDs []int64) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderLines inserts the order's lines within the provided transaction.
	CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error

	// GetByID retrieves an order by its ID along with its lines.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetForUser retrieves an order only if it belongs to userID.
	GetForUser(ctx context.Context, userID int64, id uuid.UUID) (*model.Order, error)

	// ListByUser returns the user's orders with lines, most recent first.
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)

	// TransitionStatus moves the order from one status to another only if it
	// is currently in from, and reports whether the row was updated.
	TransitionStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus, at time.Time) (bool, error)
}

// StatusJobRepository defines the durable queue of pending status transitions.
// There is at most one job per order.
type StatusJobRepository interface {
	// Schedule creates or replaces the order's job.
	Schedule(ctx context.Context, tx pgx.Tx, job model.StatusJob) error

	// ClaimDue locks one job due at or before now, skipping jobs locked by
	// other workers. Returns nil when nothing is due.
	ClaimDue(ctx context.Context, tx pgx.Tx, now time.Time) (*model.StatusJob, error)

	// Delete removes the order's job, if any.
	Delete(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error
}

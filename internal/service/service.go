package service

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductService defines read operations on the catalogue.
type ProductService interface {
	// GetAll retrieves every product ordered by id.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Search matches the query against name, description and category.
	Search(ctx context.Context, query string) ([]model.Product, error)

	// Categories lists the distinct product categories.
	Categories(ctx context.Context) ([]string, error)
}

// CartService defines operations on a user's cart. Every mutation returns
// the resulting cart.
type CartService interface {
	GetCart(ctx context.Context, userID int64) ([]model.CartItem, error)
	AddItem(ctx context.Context, userID, productID int64, quantity int) ([]model.CartItem, error)
	SetQuantity(ctx context.Context, userID, productID int64, quantity int) ([]model.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID int64) ([]model.CartItem, error)
	Clear(ctx context.Context, userID int64) ([]model.CartItem, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Checkout turns the user's cart into a Pending order.
	Checkout(ctx context.Context, userID int64, req *model.CheckoutRequest) (*model.OrderResponse, error)

	// ListOrders returns the user's orders, most recent first.
	ListOrders(ctx context.Context, userID int64) ([]model.OrderResponse, error)

	// GetOrder retrieves one of the user's orders.
	GetOrder(ctx context.Context, userID int64, id uuid.UUID) (*model.OrderResponse, error)

	// CancelOrder moves a Pending order to Cancelled.
	CancelOrder(ctx context.Context, userID int64, id uuid.UUID) (*model.OrderResponse, error)
}

// AuthService defines registration, login and profile lookup.
type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Profile(ctx context.Context, userID int64) (*model.User, error)
	SeedDemoUser(ctx context.Context) error
}

// StatusScheduler queues and drops order status progression inside the
// caller's transaction.
type StatusScheduler interface {
	Schedule(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, placedAt time.Time) error
	Unschedule(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error
}

// TokenIssuer issues session tokens for a user.
type TokenIssuer interface {
	Issue(userID int64) (string, time.Time, error)
}

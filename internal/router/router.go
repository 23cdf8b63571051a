package router

import (
	"encoding/json"
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Orders   *handler.OrderHandler
	Auth     *handler.AuthHandler
}

// New creates a new HTTP router with all routes and middleware configured.
// Cart, order and profile routes require a bearer token resolved by tokens.
func New(h Handlers, tokens middleware.TokenParser, allowedOrigin string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	protected := middleware.Authenticate(tokens, logger)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.Handle("GET /api/auth/me", protected(http.HandlerFunc(h.Auth.Me)))

	mux.HandleFunc("GET /api/products", h.Products.GetAll)
	mux.HandleFunc("GET /api/products/search", h.Products.Search)
	mux.HandleFunc("GET /api/products/categories", h.Products.Categories)
	mux.HandleFunc("GET /api/products/{id}", h.Products.GetByID)

	mux.Handle("GET /api/cart", protected(http.HandlerFunc(h.Cart.Get)))
	mux.Handle("POST /api/cart", protected(http.HandlerFunc(h.Cart.Add)))
	mux.Handle("DELETE /api/cart", protected(http.HandlerFunc(h.Cart.Clear)))
	mux.Handle("PUT /api/cart/{productId}", protected(http.HandlerFunc(h.Cart.Update)))
	mux.Handle("DELETE /api/cart/{productId}", protected(http.HandlerFunc(h.Cart.Remove)))

	mux.Handle("GET /api/orders", protected(http.HandlerFunc(h.Orders.List)))
	mux.Handle("POST /api/orders", protected(http.HandlerFunc(h.Orders.Create)))
	mux.Handle("GET /api/orders/{id}", protected(http.HandlerFunc(h.Orders.GetByID)))
	mux.Handle("POST /api/orders/{id}/cancel", protected(http.HandlerFunc(h.Orders.Cancel)))

	mux.HandleFunc("/", notFound)

	// Apply middleware in order: RequestID -> Recovery -> Logging -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(allowedOrigin)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:         model.ErrCodeNotFound,
		Message:       "Resource not found",
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}

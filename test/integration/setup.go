// Package integration exercises the assembled HTTP API against a real
// PostgreSQL container.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/database/dbtest"
	"storefront/internal/events/eventstest"
	"storefront/internal/handler"
	"storefront/internal/model"
	"storefront/internal/progression"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Server is the full API stack wired over a test database.
type Server struct {
	DB         *dbtest.TestDB
	Handler    http.Handler
	Products   repository.ProductRepository
	Events     *eventstest.Recorder
	Progressor *progression.Progressor
}

// SetupServer starts a database and wires repositories, services, handlers
// and the router the same way the binary does. Order statuses advance every
// dwell once StartProgression is called.
func SetupServer(t *testing.T, dwell time.Duration) *Server {
	t.Helper()

	db := dbtest.Start(t)
	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(db.Pool, logger)
	cartRepo := repository.NewCartRepository(db.Pool, logger)
	orderRepo := repository.NewOrderRepository(db.Pool, logger)
	userRepo := repository.NewUserRepository(db.Pool, logger)
	jobRepo := repository.NewStatusJobRepository(logger)

	recorder := &eventstest.Recorder{}
	tokens := auth.NewTokenManager("integration-secret", time.Hour)
	progressor := progression.New(orderRepo, jobRepo, recorder, config.ProgressionConfig{
		Dwell:        dwell,
		Workers:      2,
		PollInterval: 20 * time.Millisecond,
	}, logger)

	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, progressor, recorder, logger)
	authService := service.NewAuthService(userRepo, auth.NewBcryptHasher(bcrypt.MinCost), tokens, logger)

	mux := router.New(router.Handlers{
		Products: handler.NewProductHandler(productService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Orders:   handler.NewOrderHandler(orderService, logger),
		Auth:     handler.NewAuthHandler(authService, logger),
	}, tokens, "*", logger)

	return &Server{
		DB:         db,
		Handler:    mux,
		Products:   productRepo,
		Events:     recorder,
		Progressor: progressor,
	}
}

// StartProgression runs the status workers until the test ends.
func (s *Server) StartProgression(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Progressor.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

// SeedPricedProducts stores two products: A at 100 and B at 50.
func (s *Server) SeedPricedProducts(t *testing.T) {
	t.Helper()

	_, err := s.Products.InsertMany(context.Background(), []model.Product{
		{ID: 1, Name: "Product A", Price: decimal.NewFromInt(100), Category: "Electronics", ImageURL: "https://img.example.com/a.jpg", Stock: 10},
		{ID: 2, Name: "Product B", Price: decimal.NewFromInt(50), Category: "Home", ImageURL: "https://img.example.com/b.jpg", Stock: 10},
	})
	require.NoError(t, err)
}

// Do sends a request with an optional JSON body and bearer token.
func (s *Server) Do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Handler.ServeHTTP(w, req)
	return w
}

// SignUp registers a user and logs them in, returning the session token.
func (s *Server) SignUp(t *testing.T, email string) string {
	t.Helper()

	w := s.Do(t, http.MethodPost, "/api/auth/register", model.RegisterRequest{
		Email:    email,
		Password: "secret123",
		Name:     "Integration User",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.Do(t, http.MethodPost, "/api/auth/login", model.LoginRequest{
		Email:    email,
		Password: "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp model.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// Decode reads the recorded JSON body into v.
func Decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v), w.Body.String())
}

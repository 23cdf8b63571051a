package integration

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSeeding_Integration(t *testing.T) {
	srv := SetupServer(t, time.Hour)
	ctx := context.Background()
	logger := zerolog.Nop()

	path := filepath.Join(t.TempDir(), "products.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"id":1,"name":"Kettle","price":45.50,"category":"Home","stock":3}`+"\n"+
			`{"id":2,"name":"Mug","price":"7.25","category":"Home","stock":12}`+"\n",
	), 0o644))

	seeder := catalog.NewSeeder(catalog.NewFileLoader(logger), srv.Products, logger)
	require.NoError(t, seeder.Seed(ctx, path))

	product, err := srv.Products.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.True(t, decimal.RequireFromString("45.50").Equal(product.Price))

	_, err = srv.DB.Pool.Exec(ctx, `UPDATE products SET price = 50 WHERE id = 1`)
	require.NoError(t, err)

	// A second run leaves stored products alone.
	require.NoError(t, seeder.Seed(ctx, path))
	product, err = srv.Products.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(product.Price))

	all, err := srv.Products.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// New signups can immediately buy seeded products.
	token := srv.SignUp(t, "seeded@example.com")
	w := srv.Do(t, http.MethodPost, "/api/cart", model.AddToCartRequest{ProductID: 2, Quantity: 2}, token)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestConcurrentCheckout_Integration(t *testing.T) {
	srv := SetupServer(t, time.Hour)
	srv.SeedPricedProducts(t)
	token := srv.SignUp(t, "racer@example.com")

	srv.Do(t, http.MethodPost, "/api/cart", model.AddToCartRequest{ProductID: 1, Quantity: 1}, token)
	srv.Do(t, http.MethodPost, "/api/cart", model.AddToCartRequest{ProductID: 2, Quantity: 3}, token)

	const attempts = 4
	codes := make([]int, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = srv.Do(t, http.MethodPost, "/api/orders", testPayment, token).Code
		}(i)
	}
	wg.Wait()

	created, rejected := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			rejected++
		}
	}
	assert.Equal(t, 1, created, "one cart produces exactly one order")
	assert.Equal(t, attempts-1, rejected)

	w := srv.Do(t, http.MethodGet, "/api/orders", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []model.OrderResponse
	Decode(t, w, &orders)
	require.Len(t, orders, 1)
	assert.True(t, decimal.NewFromInt(250).Equal(orders[0].TotalAmount))
}

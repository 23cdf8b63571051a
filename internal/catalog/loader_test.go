package catalog

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCatalogFile writes lines to a temporary file, gzipped when the name ends in .gz.
func writeCatalogFile(t *testing.T, filename string, lines []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), filename)
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	content := strings.Join(lines, "\n") + "\n"
	if strings.HasSuffix(filename, ".gz") {
		gz := gzip.NewWriter(file)
		_, err = gz.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		return path
	}

	_, err = file.WriteString(content)
	require.NoError(t, err)
	return path
}

var sampleLines = []string{
	`{"id":1,"name":"Wireless Headphones","description":"Noise cancelling","price":2499,"category":"Electronics","imageUrl":"https://img/1","stock":50,"rating":4.5,"reviews":234}`,
	``,
	`{"id":2,"name":"Yoga Mat","price":"899.50","category":"Sports","stock":120}`,
	`   `,
}

func TestFileLoader_Load(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	ctx := context.Background()

	for _, name := range []string{"catalog.jsonl.gz", "catalog.jsonl"} {
		t.Run(name, func(t *testing.T) {
			path := writeCatalogFile(t, name, sampleLines)

			products, err := loader.Load(ctx, path)

			require.NoError(t, err)
			require.Len(t, products, 2)
			assert.Equal(t, int64(1), products[0].ID)
			assert.Equal(t, "Wireless Headphones", products[0].Name)
			assert.Equal(t, "https://img/1", products[0].ImageURL)
			assert.True(t, decimal.NewFromInt(2499).Equal(products[0].Price))
			assert.InDelta(t, 4.5, products[0].Rating, 0.0001)
			assert.True(t, decimal.RequireFromString("899.5").Equal(products[1].Price))
			assert.Equal(t, 120, products[1].Stock)
		})
	}
}

func TestFileLoader_Load_Errors(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name     string
		lines    []string
		errorMsg string
	}{
		{
			name:     "Malformed JSON",
			lines:    []string{`{"id":1,"name":`},
			errorMsg: "line 1: invalid product JSON",
		},
		{
			name:     "Missing id",
			lines:    []string{`{"name":"X","price":1,"category":"C"}`},
			errorMsg: "product id must be positive",
		},
		{
			name:     "Missing name",
			lines:    []string{`{"id":3,"price":1,"category":"C"}`},
			errorMsg: "name is required",
		},
		{
			name:     "Missing category",
			lines:    []string{`{"id":3,"name":"X","price":1}`},
			errorMsg: "category is required",
		},
		{
			name:     "Negative price",
			lines:    []string{`{"id":3,"name":"X","price":-1,"category":"C"}`},
			errorMsg: "price must not be negative",
		},
		{
			name: "Duplicate id",
			lines: []string{
				`{"id":3,"name":"X","price":1,"category":"C"}`,
				`{"id":3,"name":"Y","price":1,"category":"C"}`,
			},
			errorMsg: "line 2: duplicate product id 3 (first seen on line 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCatalogFile(t, "bad.jsonl.gz", tt.lines)

			products, err := loader.Load(ctx, path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
			assert.Nil(t, products)
		})
	}
}

func TestFileLoader_Load_MissingFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	products, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.jsonl.gz"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, products)
}

func TestFileLoader_Load_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.gz")
	require.NoError(t, os.WriteFile(path, []byte{0x1f, 0x8b, 0x00, 0x01}, 0o600))

	products, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), path)

	require.Error(t, err)
	assert.Nil(t, products)
}

func TestDefaultProducts(t *testing.T) {
	products := DefaultProducts()

	require.Len(t, products, 8)
	for i, p := range products {
		assert.Equal(t, int64(i+1), p.ID)
		assert.NoError(t, validateProduct(p))
	}
	assert.Equal(t, "Wireless Headphones", products[0].Name)
	assert.True(t, decimal.NewFromInt(1499).Equal(products[7].Price))
}

//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"storefront/internal/catalog"
	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Writes data/catalog/products.ndjson.gz: the built-in products followed by
// generated filler so the seeder and S3 loader can be exercised with a
// realistically sized file.
func main() {
	dataDir := "data/catalog"
	extra := 500

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := catalog.DefaultProducts()
	categories := []string{"Electronics", "Sports", "Accessories", "Home"}
	next := int64(len(products)) + 1

	for i := 0; i < extra; i++ {
		category := categories[i%len(categories)]
		products = append(products, model.Product{
			ID:          next,
			Name:        fmt.Sprintf("%s Item %03d", category, i+1),
			Description: fmt.Sprintf("Sample %s product number %d", category, i+1),
			Price:       decimal.NewFromInt(int64(199 + (i*37)%4800)).Add(decimal.New(99, -2)),
			Category:    category,
			Stock:       10 + i%90,
			Rating:      3.5 + float64(i%15)/10,
			Reviews:     (i * 13) % 1000,
		})
		next++
	}

	filePath := filepath.Join(dataDir, "products.ndjson.gz")
	if err := writeCatalog(filePath, products); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(products))
}

func writeCatalog(path string, products []model.Product) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	enc := json.NewEncoder(gz)
	for _, p := range products {
		if err := enc.Encode(p); err != nil {
			gz.Close()
			return err
		}
	}
	return gz.Close()
}

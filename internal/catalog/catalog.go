// Package catalog loads the product catalogue used to seed the store.
//
// Seed files are newline-delimited JSON, one product per line, optionally
// gzip-compressed. They can be read from the local file system or from S3.
package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"storefront/internal/model"
)

// Loader loads a product list from a named source.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// decodeProducts reads NDJSON products from r, transparently un-gzipping.
func decodeProducts(ctx context.Context, r io.Reader) ([]model.Product, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	} else {
		r = br
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []model.Product
	seen := make(map[int64]int)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var p model.Product
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			return nil, fmt.Errorf("line %d: invalid product JSON: %w", lineNo, err)
		}
		if err := validateProduct(p); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if prev, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("line %d: duplicate product id %d (first seen on line %d)", lineNo, p.ID, prev)
		}
		seen[p.ID] = lineNo
		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return products, nil
}

func validateProduct(p model.Product) error {
	switch {
	case p.ID <= 0:
		return fmt.Errorf("product id must be positive, got %d", p.ID)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("product %d: name is required", p.ID)
	case strings.TrimSpace(p.Category) == "":
		return fmt.Errorf("product %d: category is required", p.ID)
	case p.Price.IsNegative():
		return fmt.Errorf("product %d: price must not be negative", p.ID)
	case p.Stock < 0:
		return fmt.Errorf("product %d: stock must not be negative", p.ID)
	}
	return nil
}

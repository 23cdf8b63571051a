package catalog

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// ProductWriter is the storage the seeder writes into.
type ProductWriter interface {
	InsertMany(ctx context.Context, products []model.Product) (int, error)
}

// Seeder populates the catalogue at startup.
type Seeder struct {
	loader Loader
	store  ProductWriter
	logger zerolog.Logger
}

// NewSeeder creates a seeder. loader may be nil when only defaults are used.
func NewSeeder(loader Loader, store ProductWriter, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Seed loads products from path, or the built-in defaults when path is empty,
// and inserts the ones that are not stored yet. Existing products are never
// modified.
func (s *Seeder) Seed(ctx context.Context, path string) error {
	products := DefaultProducts()
	source := "defaults"

	if path != "" {
		if s.loader == nil {
			return fmt.Errorf("no catalogue loader configured for %s", path)
		}
		loaded, err := s.loader.Load(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to load catalogue: %w", err)
		}
		products = loaded
		source = path
	}

	inserted, err := s.store.InsertMany(ctx, products)
	if err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}

	s.logger.Info().
		Str("source", source).
		Int("products", len(products)).
		Int("inserted", inserted).
		Msg("catalogue seeded")

	return nil
}

package catalog

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a loader that reads seed files from the local file system.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-file-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context, path string) ([]model.Product, error) {
	l.logger.Info().Str("file", path).Msg("loading catalogue file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open catalogue file")
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", path, err)
	}
	defer file.Close()

	products, err := decodeProducts(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode catalogue file")
		return nil, fmt.Errorf("catalogue file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("products_loaded", len(products)).
		Msg("catalogue file loaded")

	return products, nil
}

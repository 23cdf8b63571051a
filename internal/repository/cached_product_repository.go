package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	cacheKeyProducts   = "catalog:products"
	cacheKeyCategories = "catalog:categories"
)

func cacheKeyProduct(id int64) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

// cachedProductRepository is a read-through Redis cache in front of another
// ProductRepository. Any Redis failure falls through to the wrapped store.
type cachedProductRepository struct {
	next   ProductRepository
	client redis.UniversalClient
	ttl    time.Duration
	logger zerolog.Logger
}

var _ ProductRepository = (*cachedProductRepository)(nil)

// NewCachedProductRepository wraps next with a Redis cache whose entries live for ttl.
func NewCachedProductRepository(next ProductRepository, client redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) ProductRepository {
	return &cachedProductRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("repository", "product_cache").Logger(),
	}
}

// load reads key into dst and reports a hit.
func (r *cachedProductRepository) load(ctx context.Context, key string, dst any) bool {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return false
	}

	return true
}

func (r *cachedProductRepository) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("failed to encode cache entry")
		return
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (r *cachedProductRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if r.load(ctx, cacheKeyProducts, &products) {
		return products, nil
	}

	products, err := r.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	r.store(ctx, cacheKeyProducts, products)
	return products, nil
}

func (r *cachedProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	key := cacheKeyProduct(id)

	var product model.Product
	if r.load(ctx, key, &product) {
		return &product, nil
	}

	p, err := r.next.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}

	r.store(ctx, key, p)
	return p, nil
}

// Search is not cached; the query space is unbounded.
func (r *cachedProductRepository) Search(ctx context.Context, query string) ([]model.Product, error) {
	return r.next.Search(ctx, query)
}

func (r *cachedProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if r.load(ctx, cacheKeyCategories, &categories) {
		return categories, nil
	}

	categories, err := r.next.Categories(ctx)
	if err != nil {
		return nil, err
	}

	r.store(ctx, cacheKeyCategories, categories)
	return categories, nil
}

// InsertMany writes through and invalidates the listing keys and the inserted ids.
func (r *cachedProductRepository) InsertMany(ctx context.Context, products []model.Product) (int, error) {
	n, err := r.next.InsertMany(ctx, products)
	if err != nil {
		return n, err
	}

	keys := make([]string, 0, len(products)+2)
	keys = append(keys, cacheKeyProducts, cacheKeyCategories)
	for _, p := range products {
		keys = append(keys, cacheKeyProduct(p.ID))
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn().Err(err).Int("keys", len(keys)).Msg("cache invalidation failed")
	}

	return n, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

type cartService struct {
	cartRepo repository.CartRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo: cartRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) GetCart(ctx context.Context, userID int64) ([]model.CartItem, error) {
	items, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return items, nil
}

// AddItem merges quantity into the user's entry for the product. A zero
// quantity means one.
func (s *cartService) AddItem(ctx context.Context, userID, productID int64, quantity int) ([]model.CartItem, error) {
	if quantity < 0 || quantity > model.MaxCartQuantity {
		s.logger.Warn().
			Int64("user_id", userID).
			Int64("product_id", productID).
			Int("quantity", quantity).
			Msg("invalid quantity")
		return nil, model.ErrInvalidQuantity
	}
	if quantity == 0 {
		quantity = 1
	}
	if productID <= 0 {
		return nil, model.ErrProductNotFound
	}

	if err := s.cartRepo.Add(ctx, userID, productID, quantity); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			s.logger.Warn().Int64("product_id", productID).Msg("add to cart of unknown product")
			return nil, err
		}
		if errors.Is(err, model.ErrInvalidQuantity) {
			s.logger.Warn().
				Int64("user_id", userID).
				Int64("product_id", productID).
				Msg("merged quantity over the limit")
			return nil, err
		}
		if errors.Is(err, model.ErrUserNotFound) {
			s.logger.Warn().Int64("user_id", userID).Msg("add to cart for unknown user")
			return nil, err
		}
		s.logger.Error().Err(err).
			Int64("user_id", userID).
			Int64("product_id", productID).
			Msg("failed to add cart item")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// SetQuantity overwrites the entry's quantity; zero or less removes it.
// The entry must already exist either way.
func (s *cartService) SetQuantity(ctx context.Context, userID, productID int64, quantity int) ([]model.CartItem, error) {
	if quantity > model.MaxCartQuantity {
		return nil, model.ErrInvalidQuantity
	}
	if quantity <= 0 {
		return s.removeExisting(ctx, userID, productID)
	}

	ok, err := s.cartRepo.SetQuantity(ctx, userID, productID, quantity)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("user_id", userID).
			Int64("product_id", productID).
			Msg("failed to update cart item")
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if !ok {
		s.logger.Debug().
			Int64("user_id", userID).
			Int64("product_id", productID).
			Msg("cart item not found")
		return nil, model.ErrCartItemNotFound
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) removeExisting(ctx context.Context, userID, productID int64) ([]model.CartItem, error) {
	items, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(items, func(it model.CartItem) bool { return it.Product.ID == productID }) {
		s.logger.Debug().
			Int64("user_id", userID).
			Int64("product_id", productID).
			Msg("cart item not found")
		return nil, model.ErrCartItemNotFound
	}
	return s.RemoveItem(ctx, userID, productID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID int64) ([]model.CartItem, error) {
	if err := s.cartRepo.Remove(ctx, userID, productID); err != nil {
		s.logger.Error().Err(err).
			Int64("user_id", userID).
			Int64("product_id", productID).
			Msg("failed to remove cart item")
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return s.GetCart(ctx, userID)
}

func (s *cartService) Clear(ctx context.Context, userID int64) ([]model.CartItem, error) {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear cart")
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	return []model.CartItem{}, nil
}

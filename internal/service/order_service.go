package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	scheduler StatusScheduler
	publisher events.Publisher
	now       func() time.Time
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	scheduler StatusScheduler,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		scheduler: scheduler,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Checkout converts the user's cart into a Pending order in one transaction:
// lock the cart, freeze the lines, insert the order, empty the cart and queue
// the first status step.
func (s *orderService) Checkout(ctx context.Context, userID int64, req *model.CheckoutRequest) (_ *model.OrderResponse, err error) {
	cardSuffix, err := s.validateCheckoutRequest(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	items, err := s.cartRepo.LockForCheckout(ctx, tx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if len(items) == 0 {
		s.logger.Warn().Int64("user_id", userID).Msg("checkout of empty cart")
		err = model.ErrEmptyCart
		return nil, err
	}

	now := s.now()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          model.StatusPending,
		PaymentMethod:   "Card ending in " + cardSuffix,
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		OrderDate:       now,
		UpdatedAt:       now,
	}

	total := decimal.Zero
	productIDs := make([]int64, len(items))
	order.Lines = make([]model.OrderLine, len(items))
	for i, item := range items {
		line := model.OrderLine{
			ID:              uuid.New(),
			OrderID:         order.ID,
			ProductID:       item.Product.ID,
			ProductName:     item.Product.Name,
			ProductPrice:    item.Product.Price,
			ProductImageURL: item.Product.ImageURL,
			ProductCategory: item.Product.Category,
			Quantity:        item.Quantity,
		}
		order.Lines[i] = line
		productIDs[i] = item.Product.ID
		total = total.Add(line.Subtotal())
	}
	order.TotalAmount = total

	logger := s.logger.With().
		Str("order_id", order.ID.String()).
		Int64("user_id", userID).
		Logger()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		logger.Error().Err(err).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderLines(ctx, tx, order.Lines); err != nil {
		logger.Error().Err(err).Int("line_count", len(order.Lines)).Msg("failed to create order lines")
		return nil, fmt.Errorf("failed to create order lines: %w", err)
	}

	if err = s.cartRepo.RemoveProductsTx(ctx, tx, userID, productIDs); err != nil {
		logger.Error().Err(err).Msg("failed to empty cart")
		return nil, fmt.Errorf("failed to empty cart: %w", err)
	}

	if err = s.scheduler.Schedule(ctx, tx, order.ID, order.OrderDate); err != nil {
		logger.Error().Err(err).Msg("failed to schedule status progression")
		return nil, fmt.Errorf("failed to schedule order progression: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	logger.Info().
		Int("line_count", len(order.Lines)).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("order created successfully")

	if pubErr := s.publisher.Publish(ctx, events.OrderCreated, events.OrderCreatedEvent{
		OrderID:     order.ID,
		UserID:      userID,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Lines),
	}); pubErr != nil {
		logger.Warn().Err(pubErr).Msg("failed to publish order created event")
	}

	return model.NewOrderResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, userID int64) ([]model.OrderResponse, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return model.NewOrderResponses(orders), nil
}

// GetOrder treats another user's order as not found.
func (s *orderService) GetOrder(ctx context.Context, userID int64, id uuid.UUID) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetForUser(ctx, userID, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Int64("user_id", userID).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return model.NewOrderResponse(order), nil
}

// CancelOrder only succeeds while the order is still Pending. The status
// guard and the job removal share one transaction, so a worker cannot
// advance a cancelled order.
func (s *orderService) CancelOrder(ctx context.Context, userID int64, id uuid.UUID) (_ *model.OrderResponse, err error) {
	order, err := s.orderRepo.GetForUser(ctx, userID, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := s.now()
	applied, err := s.orderRepo.TransitionStatus(ctx, tx, id, model.StatusPending, model.StatusCancelled, now)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to cancel order")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	if !applied {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("status", string(order.Status)).
			Msg("order is not cancellable")
		err = model.ErrOrderNotCancellable
		return nil, err
	}

	if err = s.scheduler.Unschedule(ctx, tx, id); err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to drop status progression")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order cancelled")

	if pubErr := s.publisher.Publish(ctx, events.OrderCancelled, events.StatusChangedEvent{
		OrderID: id,
		From:    string(model.StatusPending),
		To:      string(model.StatusCancelled),
		At:      now,
	}); pubErr != nil {
		s.logger.Warn().Err(pubErr).Str("order_id", id.String()).Msg("failed to publish order cancelled event")
	}

	order.Status = model.StatusCancelled
	order.UpdatedAt = now
	return model.NewOrderResponse(order), nil
}

// validateCheckoutRequest returns the last four digits of the card.
func (s *orderService) validateCheckoutRequest(req *model.CheckoutRequest) (string, error) {
	if req == nil {
		return "", model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "Checkout request is required")
	}

	digits, ok := cardDigits(req.PaymentInfo.CardNumber)
	if !ok || len(digits) < 4 {
		s.logger.Warn().Msg("invalid card number")
		return "", model.ErrInvalidPayment
	}

	if strings.TrimSpace(req.ShippingAddress) == "" {
		s.logger.Warn().Msg("missing shipping address")
		return "", model.ErrMissingAddress
	}

	return digits[len(digits)-4:], nil
}

// cardDigits strips spaces and dashes. Any other non-digit rejects the number.
func cardDigits(number string) (string, bool) {
	var b strings.Builder
	for _, r := range number {
		switch {
		case r == ' ' || r == '-':
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			return "", false
		}
	}
	return b.String(), true
}

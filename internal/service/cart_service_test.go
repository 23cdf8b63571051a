package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"
	"storefront/internal/repository/repotest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const cartUser int64 = 7

func sampleCart() []model.CartItem {
	return []model.CartItem{
		{Product: model.Product{ID: 1, Name: "Smart Watch"}, Quantity: 2},
	}
}

func TestCartService_AddItem(t *testing.T) {
	tests := []struct {
		name        string
		productID   int64
		quantity    int
		setupMock   func(*repotest.MockCartRepository)
		expectedErr error
		expectError bool
	}{
		{
			name:      "Explicit quantity",
			productID: 1,
			quantity:  2,
			setupMock: func(m *repotest.MockCartRepository) {
				m.On("Add", mock.Anything, cartUser, int64(1), 2).Return(nil)
				m.On("GetCart", mock.Anything, cartUser).Return(sampleCart(), nil)
			},
		},
		{
			name:      "Omitted quantity defaults to one",
			productID: 1,
			quantity:  0,
			setupMock: func(m *repotest.MockCartRepository) {
				m.On("Add", mock.Anything, cartUser, int64(1), 1).Return(nil)
				m.On("GetCart", mock.Anything, cartUser).Return(sampleCart(), nil)
			},
		},
		{
			name:        "Negative quantity",
			productID:   1,
			quantity:    -1,
			setupMock:   func(m *repotest.MockCartRepository) {},
			expectedErr: model.ErrInvalidQuantity,
			expectError: true,
		},
		{
			name:        "Quantity over the limit",
			productID:   1,
			quantity:    model.MaxCartQuantity + 1,
			setupMock:   func(m *repotest.MockCartRepository) {},
			expectedErr: model.ErrInvalidQuantity,
			expectError: true,
		},
		{
			name:      "Quantity at the limit",
			productID: 1,
			quantity:  model.MaxCartQuantity,
			setupMock: func(m *repotest.MockCartRepository) {
				m.On("Add", mock.Anything, cartUser, int64(1), model.MaxCartQuantity).Return(nil)
				m.On("GetCart", mock.Anything, cartUser).Return(sampleCart(), nil)
			},
		},
		{
			name:      "Merged quantity over the limit",
			productID: 1,
			quantity:  5,
			setupMock: func(m *repotest.MockCartRepository) {
				m.On("Add", mock.Anything, cartUser, int64(1), 5).Return(model.ErrInvalidQuantity)
			},
			expectedErr: model.ErrInvalidQuantity,
			expectError: true,
		},
		{
			name:      "User no longer exists",
			productID: 1,
			quantity:  1,
			setupMock: func(m *repotest.MockCartRepository) {
				m.On("Add", mock.Anything, cartUser, int64(1), 1).Return(model.ErrUserNotFound)
			},
			expectedErr: model.ErrUserNotFound,
			expectError: true,
		},
		{
			name:      "Unknown product",
			productID: 404,
			quantity:  1,
			setupMock: func(m *repotest.MockCartRepository) {
				m.On("Add", mock.Anything, cartUser, int64(404), 1).Return(model.ErrProductNotFound)
			},
			expectedErr: model.ErrProductNotFound,
			expectError: true,
		},
		{
			name:        "Non-positive product id",
			productID:   0,
			quantity:    1,
			setupMock:   func(m *repotest.MockCartRepository) {},
			expectedErr: model.ErrProductNotFound,
			expectError: true,
		},
		{
			name:      "Repository error",
			productID: 1,
			quantity:  1,
			setupMock: func(m *repotest.MockCartRepository) {
				m.On("Add", mock.Anything, cartUser, int64(1), 1).Return(errors.New("database error"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(repotest.MockCartRepository)
			tt.setupMock(mockRepo)

			svc := NewCartService(mockRepo, zerolog.Nop())
			items, err := svc.AddItem(context.Background(), cartUser, tt.productID, tt.quantity)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, items)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, sampleCart(), items)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCartService_SetQuantity(t *testing.T) {
	tests := []struct {
		name        string
		quantity    int
		setupMock   func(*repotest.MockCartRepository)
		expectedErr error
	}{
		{
			name:     "Overwrites quantity",
			quantity: 5,
			setupMock: func(m *repotest.MockCartRepository) {
				m.On("SetQuantity", mock.Anything, cartUser, int64(1), 5).Return(true, nil)
				m.On("GetCart", mock.Anything, cartUser).Return(sampleCart(), nil)
			},
		},
		{
			name:     "Zero removes the entry",
			quantity: 0,
			setupMock: func(m *repotest.MockCartRepository) {
				m.On("GetCart", mock.Anything, cartUser).Return(sampleCart(), nil)
				m.On("Remove", mock.Anything, cartUser, int64(1)).Return(nil)
			},
		},
		{
			name:     "Zero on a missing entry",
			quantity: 0,
			setupMock: func(m *repotest.MockCartRepository) {
				m.On("GetCart", mock.Anything, cartUser).Return([]model.CartItem{}, nil)
			},
			expectedErr: model.ErrCartItemNotFound,
		},
		{
			name:        "Over the limit",
			quantity:    model.MaxCartQuantity + 1,
			setupMock:   func(m *repotest.MockCartRepository) {},
			expectedErr: model.ErrInvalidQuantity,
		},
		{
			name:     "Negative removes the entry",
			quantity: -3,
			setupMock: func(m *repotest.MockCartRepository) {
				m.On("Remove", mock.Anything, cartUser, int64(1)).Return(nil)
				m.On("GetCart", mock.Anything, cartUser).Return(sampleCart(), nil)
			},
		},
		{
			name:     "Entry missing",
			quantity: 2,
			setupMock: func(m *repotest.MockCartRepository) {
				m.On("SetQuantity", mock.Anything, cartUser, int64(1), 2).Return(false, nil)
			},
			expectedErr: model.ErrCartItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(repotest.MockCartRepository)
			tt.setupMock(mockRepo)

			svc := NewCartService(mockRepo, zerolog.Nop())
			items, err := svc.SetQuantity(context.Background(), cartUser, 1, tt.quantity)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, items)
			} else {
				require.NoError(t, err)
				assert.Equal(t, sampleCart(), items)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCartService_RemoveAndClear(t *testing.T) {
	mockRepo := new(repotest.MockCartRepository)
	mockRepo.On("Remove", mock.Anything, cartUser, int64(3)).Return(nil)
	mockRepo.On("GetCart", mock.Anything, cartUser).Return([]model.CartItem{}, nil)
	mockRepo.On("Clear", mock.Anything, cartUser).Return(nil)

	svc := NewCartService(mockRepo, zerolog.Nop())
	ctx := context.Background()

	items, err := svc.RemoveItem(ctx, cartUser, 3)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = svc.Clear(ctx, cartUser)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	mockRepo.AssertExpectations(t)
}

func TestCartService_GetCartError(t *testing.T) {
	mockRepo := new(repotest.MockCartRepository)
	mockRepo.On("GetCart", mock.Anything, cartUser).Return(nil, errors.New("database error"))

	svc := NewCartService(mockRepo, zerolog.Nop())
	items, err := svc.GetCart(context.Background(), cartUser)

	assert.Error(t, err)
	assert.Nil(t, items)
	mockRepo.AssertExpectations(t)
}

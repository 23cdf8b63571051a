package catalog

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) InsertMany(ctx context.Context, products []model.Product) (int, error) {
	args := m.Called(ctx, products)
	return args.Int(0), args.Error(1)
}

func TestSeeder_Seed(t *testing.T) {
	ctx := context.Background()
	fromFile := []model.Product{{ID: 10, Name: "From file", Category: "Misc"}}

	tests := []struct {
		name        string
		path        string
		loader      Loader
		setupMock   func(w *mockWriter)
		expectError string
	}{
		{
			name: "Defaults when no path",
			setupMock: func(w *mockWriter) {
				w.On("InsertMany", ctx, DefaultProducts()).Return(8, nil)
			},
		},
		{
			name:   "Loads from configured path",
			path:   "seed.jsonl.gz",
			loader: &stubLoader{products: fromFile},
			setupMock: func(w *mockWriter) {
				w.On("InsertMany", ctx, fromFile).Return(1, nil)
			},
		},
		{
			name:        "Loader failure aborts",
			path:        "seed.jsonl.gz",
			loader:      &stubLoader{err: errors.New("boom")},
			setupMock:   func(w *mockWriter) {},
			expectError: "failed to load catalogue",
		},
		{
			name:        "Path without loader",
			path:        "seed.jsonl.gz",
			setupMock:   func(w *mockWriter) {},
			expectError: "no catalogue loader configured",
		},
		{
			name: "Store failure",
			setupMock: func(w *mockWriter) {
				w.On("InsertMany", ctx, mock.Anything).Return(0, errors.New("db down"))
			},
			expectError: "failed to seed catalogue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := new(mockWriter)
			tt.setupMock(writer)

			err := NewSeeder(tt.loader, writer, zerolog.Nop()).Seed(ctx, tt.path)

			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
			} else {
				require.NoError(t, err)
			}
			writer.AssertExpectations(t)
		})
	}
}

package repository

import (
	"context"
	"testing"

	"storefront/internal/database/dbtest"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := dbtest.Start(t)
	repo := NewUserRepository(db.Pool, zerolog.Nop())
	ctx := context.Background()

	user := &model.User{
		Email:        "demo@example.com",
		PasswordHash: "$2a$10$hash",
		Name:         "Demo User",
		Phone:        "+1234567890",
		Address:      "123 Demo Street",
	}

	t.Run("Create assigns id and timestamp", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, user))
		assert.NotZero(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("Duplicate email is a conflict", func(t *testing.T) {
		dup := &model.User{Email: "demo@example.com", PasswordHash: "x", Name: "Other"}
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, model.ErrEmailExists)
	})

	t.Run("GetByEmail", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "demo@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "$2a$10$hash", found.PasswordHash)
		assert.Equal(t, "+1234567890", found.Phone)
	})

	t.Run("GetByID", func(t *testing.T) {
		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Demo User", found.Name)
	})

	t.Run("Unknown user", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, found)

		found, err = repo.GetByID(ctx, 12345)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

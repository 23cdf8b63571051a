package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository/repotest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(repo *repotest.MockUserRepository) (AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(repo, auth.NewBcryptHasher(bcrypt.MinCost), tokens, zerolog.Nop()), tokens
}

func TestAuthService_Register(t *testing.T) {
	valid := func() *model.RegisterRequest {
		return &model.RegisterRequest{
			Email:    "  Jane.Doe@Example.COM ",
			Password: "secret1",
			Name:     "Jane Doe",
			Phone:    "+1 555 0100",
			Address:  "1 Main Street",
		}
	}

	tests := []struct {
		name        string
		mutate      func(*model.RegisterRequest)
		setupMock   func(*repotest.MockUserRepository)
		expectedErr error
		expectKind  *model.ErrorKind
	}{
		{
			name:   "Success",
			mutate: func(*model.RegisterRequest) {},
			setupMock: func(m *repotest.MockUserRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "jane.doe@example.com" && u.PasswordHash != "secret1" && u.Name == "Jane Doe"
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*model.User).ID = 11
				}).Return(nil)
			},
		},
		{
			name:   "Duplicate email",
			mutate: func(*model.RegisterRequest) {},
			setupMock: func(m *repotest.MockUserRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(model.ErrEmailExists)
			},
			expectedErr: model.ErrEmailExists,
		},
		{
			name:       "Malformed email",
			mutate:     func(r *model.RegisterRequest) { r.Email = "not-an-email" },
			setupMock:  func(*repotest.MockUserRepository) {},
			expectKind: kindPtr(model.KindValidation),
		},
		{
			name:       "Display-name email",
			mutate:     func(r *model.RegisterRequest) { r.Email = "Jane <jane@example.com>" },
			setupMock:  func(*repotest.MockUserRepository) {},
			expectKind: kindPtr(model.KindValidation),
		},
		{
			name:       "Short password",
			mutate:     func(r *model.RegisterRequest) { r.Password = "12345" },
			setupMock:  func(*repotest.MockUserRepository) {},
			expectKind: kindPtr(model.KindValidation),
		},
		{
			name:       "Password too long",
			mutate:     func(r *model.RegisterRequest) { r.Password = strings.Repeat("a", 73) },
			setupMock:  func(*repotest.MockUserRepository) {},
			expectKind: kindPtr(model.KindValidation),
		},
		{
			name:       "Missing name",
			mutate:     func(r *model.RegisterRequest) { r.Name = "  " },
			setupMock:  func(*repotest.MockUserRepository) {},
			expectKind: kindPtr(model.KindValidation),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repotest.MockUserRepository)
			tt.setupMock(repo)
			svc, _ := newTestAuthService(repo)

			req := valid()
			tt.mutate(req)
			user, err := svc.Register(context.Background(), req)

			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, user)
			case tt.expectKind != nil:
				var domainErr *model.DomainError
				require.True(t, errors.As(err, &domainErr))
				assert.Equal(t, *tt.expectKind, domainErr.Kind)
				assert.Nil(t, user)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			default:
				require.NoError(t, err)
				assert.Equal(t, int64(11), user.ID)
				assert.Equal(t, "jane.doe@example.com", user.Email)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
			}

			repo.AssertExpectations(t)
		})
	}
}

func kindPtr(k model.ErrorKind) *model.ErrorKind { return &k }

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: 5, Email: "demo@example.com", PasswordHash: string(hash), Name: "Demo User"}

	tests := []struct {
		name        string
		email       string
		password    string
		setupMock   func(*repotest.MockUserRepository)
		expectedErr error
	}{
		{
			name:     "Success with case-insensitive email",
			email:    " DEMO@example.com",
			password: "demo123",
			setupMock: func(m *repotest.MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "demo@example.com").Return(stored, nil)
			},
		},
		{
			name:     "Wrong password",
			email:    "demo@example.com",
			password: "wrong",
			setupMock: func(m *repotest.MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "demo@example.com").Return(stored, nil)
			},
			expectedErr: model.ErrInvalidCredentials,
		},
		{
			name:     "Unknown email",
			email:    "nobody@example.com",
			password: "demo123",
			setupMock: func(m *repotest.MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)
			},
			expectedErr: model.ErrInvalidCredentials,
		},
		{
			name:        "Empty password",
			email:       "demo@example.com",
			password:    "",
			setupMock:   func(*repotest.MockUserRepository) {},
			expectedErr: model.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repotest.MockUserRepository)
			tt.setupMock(repo)
			svc, tokens := newTestAuthService(repo)

			resp, err := svc.Login(context.Background(), &model.LoginRequest{Email: tt.email, Password: tt.password})

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(5), resp.User.ID)
				assert.Equal(t, "Demo User", resp.User.Name)
				assert.True(t, resp.ExpiresAt.After(time.Now()))

				userID, err := tokens.Parse(resp.Token)
				require.NoError(t, err)
				assert.Equal(t, int64(5), userID)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Profile(t *testing.T) {
	repo := new(repotest.MockUserRepository)
	repo.On("GetByID", mock.Anything, int64(5)).Return(&model.User{ID: 5, Name: "Demo User"}, nil)
	repo.On("GetByID", mock.Anything, int64(6)).Return(nil, nil)
	svc, _ := newTestAuthService(repo)

	user, err := svc.Profile(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Demo User", user.Name)

	_, err = svc.Profile(context.Background(), 6)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestAuthService_SeedDemoUser(t *testing.T) {
	t.Run("Creates the demo user once", func(t *testing.T) {
		repo := new(repotest.MockUserRepository)
		repo.On("GetByEmail", mock.Anything, DemoUserEmail).Return(nil, nil).Once()
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == DemoUserEmail && u.Name == "Demo User"
		})).Return(nil).Once()
		repo.On("GetByEmail", mock.Anything, DemoUserEmail).Return(&model.User{ID: 1, Email: DemoUserEmail}, nil).Once()
		svc, _ := newTestAuthService(repo)

		require.NoError(t, svc.SeedDemoUser(context.Background()))
		require.NoError(t, svc.SeedDemoUser(context.Background()))
		repo.AssertExpectations(t)
	})

	t.Run("Lost race is not an error", func(t *testing.T) {
		repo := new(repotest.MockUserRepository)
		repo.On("GetByEmail", mock.Anything, DemoUserEmail).Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(model.ErrEmailExists)
		svc, _ := newTestAuthService(repo)

		assert.NoError(t, svc.SeedDemoUser(context.Background()))
	})
}

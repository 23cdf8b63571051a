package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// bcrypt only hashes the first 72 bytes and rejects anything longer.
const (
	minPasswordLength = 6
	maxPasswordLength = 72
)

// Demo account seeded at startup when enabled.
const (
	DemoUserEmail    = "demo@example.com"
	DemoUserPassword = "demo123"
)

type authService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   TokenIssuer
	now      func() time.Time
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens TokenIssuer,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register validates and stores a new user. The email is stored trimmed and
// lower-cased.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if req == nil {
		return nil, model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "Registration request is required")
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("invalid registration email")
		return nil, err
	}

	if len(req.Password) < minPasswordLength {
		return nil, model.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(req.Password) > maxPasswordLength {
		return nil, model.NewValidationError(fmt.Sprintf("Password must be at most %d bytes", maxPasswordLength))
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.NewDomainError(model.KindValidation, model.ErrCodeMissingField, "Name is required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		CreatedAt:    s.now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailExists) {
			s.logger.Warn().Str("email", email).Msg("email already registered")
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", email).Msg("failed to create user")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login verifies the credentials and issues a session token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if req == nil {
		return nil, model.ErrInvalidCredentials
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get user by email")
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if user == nil {
		s.logger.Warn().Str("email", email).Msg("login for unknown email")
		return nil, model.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn().Int64("user_id", user.ID).Msg("login with wrong password")
		} else {
			s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to compare password")
		}
		return nil, model.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user logged in")

	return &model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *user,
	}, nil
}

func (s *authService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get user")
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// SeedDemoUser creates the demo account unless it already exists.
func (s *authService) SeedDemoUser(ctx context.Context) error {
	existing, err := s.userRepo.GetByEmail(ctx, DemoUserEmail)
	if err != nil {
		return fmt.Errorf("failed to check demo user: %w", err)
	}
	if existing != nil {
		s.logger.Debug().Int64("user_id", existing.ID).Msg("demo user already present")
		return nil
	}

	_, err = s.Register(ctx, &model.RegisterRequest{
		Email:    DemoUserEmail,
		Password: DemoUserPassword,
		Name:     "Demo User",
		Phone:    "+1234567890",
		Address:  "123 Demo Street, Demo City, DC 12345",
	})
	if err != nil && !errors.Is(err, model.ErrEmailExists) {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", model.NewDomainError(model.KindValidation, model.ErrCodeMissingField, "Email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", model.NewValidationError("Email address is invalid")
	}
	return email, nil
}

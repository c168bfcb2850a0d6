package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopapi/internal/config"
	"shopapi/internal/model"
	"shopapi/internal/repository"
)

var (
	ErrCredentialsRequired = errors.New("username and password are required")
	ErrDuplicateUser       = errors.New("username already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidPassword     = errors.New("invalid password")
)

// AuthService registers credentials and issues bearer tokens.
//
// A user has exactly two states, unregistered and registered; there is no
// lock-out or password-reset flow, and no route validates the issued tokens.
type AuthService interface {
	// Register hashes the password and persists a new user. Registration
	// returns no token; the caller must log in separately.
	Register(ctx context.Context, username, password string) (*model.User, error)

	// Login checks the credentials and returns a signed, time-limited JWT
	// carrying the user's id as its subject.
	Login(ctx context.Context, username, password string) (string, error)
}

type authService struct {
	repo repository.UserRepository
	cfg  config.AuthConfig

	now func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(repo repository.UserRepository, cfg config.AuthConfig) AuthService {
	return &authService{repo: repo, cfg: cfg, now: time.Now}
}

func (s *authService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, ErrDuplicateUser
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	// Explicit hashing step before the store call; the plaintext never
	// reaches the repository.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	stored, err := s.repo.Create(ctx, u)
	if err != nil {
		// The pre-insert lookup races with concurrent registrations; the
		// unique index is the authority.
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrCredentialsRequired
	}

	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidPassword
	}

	ttl := time.Duration(s.cfg.TokenTTLMin) * time.Minute
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		ExpiresAt: jwt.NewNumericDate(s.now().Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

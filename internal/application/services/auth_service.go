package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// AuthService verifies credentials and issues access tokens. Tokens carry
// identity only; the role is resolved per request from the profile so a
// stale or tampered role claim never grants authority.
type AuthService struct {
	profiles repositories.ProfileRepository
	resolver *RoleResolver
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(profiles repositories.ProfileRepository, resolver *RoleResolver, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		profiles: profiles,
		resolver: resolver,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Actor     entities.Actor `json:"actor"`
}

// Login verifies the email/password pair and issues a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and bad password.
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": profile.ID,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to sign token", err)
	}

	return &LoginResult{
		Token:     signed,
		ExpiresAt: expiresAt,
		Actor: entities.Actor{
			ID:    profile.ID,
			Email: profile.Email,
			Role:  s.resolver.Resolve(ctx, profile),
		},
	}, nil
}

// ActorFromSubject resolves the session actor for an authenticated token
// subject. Called by the auth middleware on every request.
func (s *AuthService) ActorFromSubject(ctx context.Context, subject string) (entities.Actor, error) {
	profile, err := s.profiles.GetByID(ctx, subject)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return entities.Actor{}, apperrors.NewUnauthorizedError("unknown account")
		}
		return entities.Actor{}, err
	}

	return entities.Actor{
		ID:    profile.ID,
		Email: profile.Email,
		Role:  s.resolver.Resolve(ctx, profile),
	}, nil
}

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

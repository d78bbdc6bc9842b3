package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/medilink-plus/coordination-api/internal/api/middleware"
	"github.com/medilink-plus/coordination-api/internal/application/services"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const testSecret = "middleware-test-secret"

type fixedProfileRepo struct {
	profiles map[string]*entities.Profile
}

func (r *fixedProfileRepo) Create(ctx context.Context, profile *entities.Profile) error { return nil }

func (r *fixedProfileRepo) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	if profile, ok := r.profiles[id]; ok {
		return profile, nil
	}
	return nil, apperrors.NewNotFoundError("profile not found")
}

func (r *fixedProfileRepo) GetByEmail(ctx context.Context, email string) (*entities.Profile, error) {
	return nil, apperrors.NewNotFoundError("profile not found")
}

func (r *fixedProfileRepo) UpdateRole(ctx context.Context, id string, role entities.Role) error {
	return nil
}

func newAuthMiddleware(t *testing.T) func(http.Handler) http.Handler {
	t.Helper()
	repo := &fixedProfileRepo{profiles: map[string]*entities.Profile{
		"user-1":  {ID: "user-1", Email: "patient@example.com"},
		"admin-1": {ID: "admin-1", Email: "ops@medilink.example", Role: entities.RoleAdmin},
	}}
	resolver := services.NewRoleResolver(nil)
	authService := services.NewAuthService(repo, resolver, testSecret, time.Hour)
	return middleware.Auth(authService, testSecret)
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestAuth(t *testing.T) {
	auth := newAuthMiddleware(t)

	var seen entities.Actor
	var seenOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, seenOK = middleware.ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token puts the actor in context", func(t *testing.T) {
		seenOK = false
		req := httptest.NewRequest("GET", "/api/reservations", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-1"))
		w := httptest.NewRecorder()

		auth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, seenOK)
		assert.Equal(t, "user-1", seen.ID)
		assert.Equal(t, entities.RoleUser, seen.Role)
	})

	t.Run("missing header returns 401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/reservations", nil)
		w := httptest.NewRecorder()

		auth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed token returns 401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/reservations", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()

		auth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with a different secret returns 401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/reservations", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "user-1"))
		w := httptest.NewRecorder()

		auth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token for a deleted profile returns 401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/reservations", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "ghost"))
		w := httptest.NewRecorder()

		auth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := middleware.RequireAdmin(next)

	t.Run("admin passes through", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/hospitals/hosp-1", nil)
		ctx := middleware.WithActor(req.Context(), entities.Actor{ID: "admin-1", Role: entities.RoleAdmin})
		w := httptest.NewRecorder()

		guarded.ServeHTTP(w, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("regular user is refused", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/hospitals/hosp-1", nil)
		ctx := middleware.WithActor(req.Context(), entities.Actor{ID: "user-1", Role: entities.RoleUser})
		w := httptest.NewRecorder()

		guarded.ServeHTTP(w, req.WithContext(ctx))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing actor is treated as unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/hospitals/hosp-1", nil)
		w := httptest.NewRecorder()

		guarded.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

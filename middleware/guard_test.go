package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"meditravel/models"
	"meditravel/services/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSessions serves canned identities keyed by token.
type stubSessions struct {
	identities map[string]models.Identity
}

func (s *stubSessions) SignUp(ctx context.Context, data models.UserRegistrationData) session.AuthResult {
	return session.AuthResult{}
}

func (s *stubSessions) SignIn(ctx context.Context, email, password string) session.AuthResult {
	return session.AuthResult{}
}

func (s *stubSessions) SignOut(ctx context.Context, userID string) session.AuthResult {
	return session.AuthResult{}
}

func (s *stubSessions) ResetPassword(ctx context.Context, email string) session.AuthResult {
	return session.AuthResult{}
}

func (s *stubSessions) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) session.AuthResult {
	return session.AuthResult{}
}

func (s *stubSessions) IdentityFromToken(ctx context.Context, token string) (models.Identity, error) {
	id, ok := s.identities[token]
	if !ok {
		return models.Identity{}, session.ErrInvalidToken
	}
	return id, nil
}

func (s *stubSessions) Invalidate(ctx context.Context, userID string) error { return nil }

func (s *stubSessions) Subscribe() <-chan session.SessionEvent { return nil }

func guardedRouter(sessions session.SessionService, requirement models.Requirement) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AccessGuard(sessions, requirement), func(c *gin.Context) {
		identity, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"userId": identity.UserID})
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected?tab=overview", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAccessGuardOutcomes(t *testing.T) {
	sessions := &stubSessions{identities: map[string]models.Identity{
		"patient-token": {
			UserID:      "u1",
			Roles:       []string{models.RolePatient},
			Permissions: []string{"bookings:read"},
		},
		"admin-token": {
			UserID: "u2",
			Roles:  []string{models.RoleAdmin, models.RolePatient},
		},
		"loading-token": {
			UserID:  "u3",
			Loading: true,
		},
	}}

	t.Run("missing header is unauthenticated with a login redirect", func(t *testing.T) {
		r := guardedRouter(sessions, models.Requirement{})
		w := doGet(r, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, LoginRoute, body["redirect"])
		assert.Equal(t, "/protected?tab=overview", body["from"])
	})

	t.Run("invalid token is unauthenticated", func(t *testing.T) {
		r := guardedRouter(sessions, models.Requirement{})
		w := doGet(r, "bogus")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("loading identity yields 503 with retry hint and no redirect", func(t *testing.T) {
		r := guardedRouter(sessions, models.Requirement{})
		w := doGet(r, "loading-token")
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Empty(t, body["redirect"])
	})

	t.Run("empty requirement admits any authenticated identity", func(t *testing.T) {
		r := guardedRouter(sessions, models.Requirement{})
		w := doGet(r, "patient-token")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("role requirement forbids a patient", func(t *testing.T) {
		r := guardedRouter(sessions, models.Requirement{Roles: []string{models.RoleAdmin}})
		w := doGet(r, "patient-token")
		require.Equal(t, http.StatusForbidden, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, UnauthorizedRoute, body["redirect"])
		assert.Empty(t, body["from"])
	})

	t.Run("any matching role admits", func(t *testing.T) {
		r := guardedRouter(sessions, models.Requirement{
			Roles: []string{models.RoleAdmin, models.RoleHealthcareProvider},
		})
		w := doGet(r, "admin-token")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("permission requirement is checked after the role check", func(t *testing.T) {
		// The admin passes the role check but lacks the permission.
		r := guardedRouter(sessions, models.Requirement{
			Roles:       []string{models.RoleAdmin},
			Permissions: []string{"reports:read"},
		})
		w := doGet(r, "admin-token")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("any matching permission admits", func(t *testing.T) {
		r := guardedRouter(sessions, models.Requirement{
			Permissions: []string{"reports:read", "bookings:read"},
		})
		w := doGet(r, "patient-token")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	sessions := &stubSessions{identities: map[string]models.Identity{
		"patient-token": {UserID: "u1", Roles: []string{models.RolePatient}},
	}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(sessions), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doGet(r, "patient-token")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

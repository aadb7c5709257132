package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"meditravel/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// memUserRepo is an in-memory user repository for tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]models.User)}
}

func (r *memUserRepo) Create(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copy := u
	return &copy, nil
}

func (r *memUserRepo) GetByEmailWithProjection(email string, projection bson.M) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copy := u
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByTokenHash(tokenHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tokenHash == "" {
		return nil, nil
	}
	for _, u := range r.users {
		if u.TokenHash == tokenHash {
			copy := u
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) UpdateWithDocument(id string, updateDoc bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errors.New("no user found")
	}
	if set, ok := updateDoc["$set"].(bson.M); ok {
		if v, ok := set["token_hash"].(string); ok {
			u.TokenHash = v
		}
		if v, ok := set["password_hash"].(string); ok {
			u.PasswordHash = v
		}
	}
	r.users[id] = u
	return nil
}

func (r *memUserRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) GetAllWithProjection(projection bson.M) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

// memAccessRepo is an in-memory access repository with switchable failures.
type memAccessRepo struct {
	mu       sync.Mutex
	roles    map[string][]string
	perms    map[string][]string
	rolesErr error
	permsErr error
}

func newMemAccessRepo() *memAccessRepo {
	return &memAccessRepo{
		roles: make(map[string][]string),
		perms: make(map[string][]string),
	}
}

func (r *memAccessRepo) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rolesErr != nil {
		return nil, r.rolesErr
	}
	return append([]string(nil), r.roles[userID]...), nil
}

func (r *memAccessRepo) GetUserPermissions(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.permsErr != nil {
		return nil, r.permsErr
	}
	return append([]string(nil), r.perms[userID]...), nil
}

func (r *memAccessRepo) GrantRole(ctx context.Context, userID, role, grantedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[userID] = append(r.roles[userID], role)
	return nil
}

func (r *memAccessRepo) RevokeRole(ctx context.Context, userID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []string
	for _, have := range r.roles[userID] {
		if have != role {
			kept = append(kept, have)
		}
	}
	r.roles[userID] = kept
	return nil
}

func (r *memAccessRepo) GrantPermissions(ctx context.Context, userID string, permissions []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perms[userID] = append(r.perms[userID], permissions...)
	return nil
}

// memIdentityStore is an in-memory identity snapshot cache.
type memIdentityStore struct {
	mu        sync.Mutex
	snapshots map[string]models.Identity
}

func newMemIdentityStore() *memIdentityStore {
	return &memIdentityStore{snapshots: make(map[string]models.Identity)}
}

func (s *memIdentityStore) Save(ctx context.Context, identity models.Identity, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[identity.UserID] = identity
	return nil
}

func (s *memIdentityStore) Get(ctx context.Context, userID string) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.snapshots[userID]
	if !ok {
		return nil, nil
	}
	copy := id
	return &copy, nil
}

func (s *memIdentityStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, userID)
	return nil
}

func newTestSessionService() (*DefaultSessionService, *memUserRepo, *memAccessRepo, *memIdentityStore) {
	users := newMemUserRepo()
	access := newMemAccessRepo()
	store := newMemIdentityStore()
	return NewSessionService(users, access, store, time.Hour), users, access, store
}

func signUpPatient(t *testing.T, svc *DefaultSessionService) AuthResult {
	t.Helper()
	result := svc.SignUp(context.Background(), models.UserRegistrationData{
		Email:    "ada@example.com",
		Password: "correct-horse",
		Username: "ada",
	})
	require.True(t, result.OK, result.Message)
	require.NotEmpty(t, result.Token)
	return result
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("sign up grants the patient baseline and signs in", func(t *testing.T) {
		svc, _, _, _ := newTestSessionService()
		result := signUpPatient(t, svc)

		require.NotNil(t, result.Identity)
		assert.True(t, result.Identity.HasRole(models.RolePatient))
		assert.True(t, result.Identity.HasPermission("bookings:read"))
		assert.False(t, result.Identity.IsAdmin())
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc, _, _, _ := newTestSessionService()
		signUpPatient(t, svc)

		result := svc.SignUp(ctx, models.UserRegistrationData{
			Email:    "ada@example.com",
			Password: "another-pass",
			Username: "ada2",
		})
		assert.False(t, result.OK)
	})

	t.Run("wrong password yields the sanitized failure", func(t *testing.T) {
		svc, _, _, _ := newTestSessionService()
		signUpPatient(t, svc)

		result := svc.SignIn(ctx, "ada@example.com", "wrong")
		assert.False(t, result.OK)
		assert.Equal(t, "invalid email or password", result.Message)
		assert.Empty(t, result.Token)
	})

	t.Run("unknown email yields the same sanitized failure", func(t *testing.T) {
		svc, _, _, _ := newTestSessionService()

		result := svc.SignIn(ctx, "nobody@example.com", "whatever")
		assert.False(t, result.OK)
		assert.Equal(t, "invalid email or password", result.Message)
	})
}

func TestResolutionFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("role lookup failure falls back to the patient baseline", func(t *testing.T) {
		svc, _, access, _ := newTestSessionService()
		signUpPatient(t, svc)

		// The user holds admin, but the resolver cannot see it.
		var userID string
		for id := range access.roles {
			userID = id
		}
		require.NoError(t, access.GrantRole(ctx, userID, models.RoleAdmin, "test"))
		access.mu.Lock()
		access.rolesErr = errors.New("remote unavailable")
		access.mu.Unlock()

		identity := svc.resolveIdentity(ctx, userID, "ada@example.com")
		assert.Equal(t, []string{models.RolePatient}, identity.Roles)
		assert.ElementsMatch(t, models.FallbackPermissions, identity.Permissions)
		assert.False(t, identity.IsAdmin())
	})

	t.Run("permission lookup failure also falls back whole", func(t *testing.T) {
		svc, _, access, _ := newTestSessionService()
		signUpPatient(t, svc)

		access.mu.Lock()
		access.permsErr = errors.New("remote unavailable")
		access.mu.Unlock()

		identity := svc.resolveIdentity(ctx, "some-user", "ada@example.com")
		assert.Equal(t, []string{models.RolePatient}, identity.Roles)
		assert.ElementsMatch(t, models.FallbackPermissions, identity.Permissions)
	})
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()

	t.Run("signed-out token no longer restores an identity", func(t *testing.T) {
		svc, _, _, _ := newTestSessionService()
		result := signUpPatient(t, svc)

		identity, err := svc.IdentityFromToken(ctx, result.Token)
		require.NoError(t, err)
		require.True(t, identity.Authenticated())

		out := svc.SignOut(ctx, identity.UserID)
		require.True(t, out.OK)

		_, err = svc.IdentityFromToken(ctx, result.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("sign out publishes an event", func(t *testing.T) {
		svc, _, _, _ := newTestSessionService()
		result := signUpPatient(t, svc)
		events := svc.Subscribe()

		svc.SignOut(ctx, result.Identity.UserID)

		select {
		case ev := <-events:
			assert.Equal(t, EventSignedOut, ev.Type)
			assert.Equal(t, result.Identity.UserID, ev.UserID)
		case <-time.After(time.Second):
			t.Fatal("expected a signed-out event")
		}
	})
}

func TestIdentityFromToken(t *testing.T) {
	ctx := context.Background()

	t.Run("garbage tokens are rejected", func(t *testing.T) {
		svc, _, _, _ := newTestSessionService()
		_, err := svc.IdentityFromToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("cache miss restores the session from the token hash", func(t *testing.T) {
		svc, _, _, store := newTestSessionService()
		result := signUpPatient(t, svc)

		// Simulate a fresh process: the snapshot cache is empty.
		store.mu.Lock()
		store.snapshots = make(map[string]models.Identity)
		store.mu.Unlock()

		identity, err := svc.IdentityFromToken(ctx, result.Token)
		require.NoError(t, err)
		assert.True(t, identity.HasRole(models.RolePatient))
		assert.False(t, identity.Loading)
	})

	t.Run("a loading snapshot is returned as-is", func(t *testing.T) {
		svc, _, _, store := newTestSessionService()
		result := signUpPatient(t, svc)

		require.NoError(t, store.Save(ctx, models.Identity{
			UserID: result.Identity.UserID, Loading: true,
		}, time.Hour))

		identity, err := svc.IdentityFromToken(ctx, result.Token)
		require.NoError(t, err)
		assert.True(t, identity.Loading)
	})
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()

	svc, _, access, _ := newTestSessionService()
	result := signUpPatient(t, svc)
	userID := result.Identity.UserID

	// A role grant after sign-in is invisible until the snapshot is dropped.
	require.NoError(t, access.GrantRole(ctx, userID, models.RoleHealthcareProvider, "admin-1"))

	identity, err := svc.IdentityFromToken(ctx, result.Token)
	require.NoError(t, err)
	assert.False(t, identity.IsHealthcareProvider())

	require.NoError(t, svc.Invalidate(ctx, userID))

	identity, err = svc.IdentityFromToken(ctx, result.Token)
	require.NoError(t, err)
	assert.True(t, identity.IsHealthcareProvider())
}

package session

import (
	"context"
	"time"

	accessRepo "meditravel/database/repository/access"
	userRepo "meditravel/database/repository/user"
	"meditravel/models"
)

// AuthResult is the discriminated result every auth operation returns.
// Failures are carried as a human-readable message; no auth operation
// propagates an error or panic to its caller.
type AuthResult struct {
	OK       bool             `json:"ok"`
	Message  string           `json:"message,omitempty"`
	Token    string           `json:"token,omitempty"`
	Identity *models.Identity `json:"identity,omitempty"`
}

func failure(message string) AuthResult {
	return AuthResult{OK: false, Message: message}
}

// SessionService is the single source of truth for who is signed in and what
// they can do. It is the sole writer of identity state; all other components
// consume read-only snapshots.
type SessionService interface {
	SignUp(ctx context.Context, data models.UserRegistrationData) AuthResult
	SignIn(ctx context.Context, email, password string) AuthResult
	SignOut(ctx context.Context, userID string) AuthResult
	ResetPassword(ctx context.Context, email string) AuthResult
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) AuthResult

	// IdentityFromToken restores the identity for a session token, resolving
	// roles and permissions if no snapshot is cached. The returned identity
	// may report Loading=true while resolution is still in flight; callers
	// must not authorize against a loading identity.
	IdentityFromToken(ctx context.Context, token string) (models.Identity, error)

	// Invalidate drops a cached identity snapshot so role changes take effect
	// on the next request.
	Invalidate(ctx context.Context, userID string) error

	// Subscribe returns a channel receiving session-changed events.
	Subscribe() <-chan SessionEvent
}

// IdentityStore caches resolved identity snapshots keyed by user ID.
type IdentityStore interface {
	Save(ctx context.Context, identity models.Identity, ttl time.Duration) error
	// Get returns nil when no snapshot exists.
	Get(ctx context.Context, userID string) (*models.Identity, error)
	Delete(ctx context.Context, userID string) error
}

// DefaultSessionService is the production implementation.
type DefaultSessionService struct {
	Users    userRepo.UserRepository
	Access   accessRepo.AccessRepository
	Store    IdentityStore
	TokenTTL time.Duration

	subscribers subscriberList
}

// NewSessionService wires a session service with its dependencies. Dependencies
// are injected explicitly so the contract is testable in isolation.
func NewSessionService(users userRepo.UserRepository, access accessRepo.AccessRepository, store IdentityStore, tokenTTL time.Duration) *DefaultSessionService {
	return &DefaultSessionService{
		Users:    users,
		Access:   access,
		Store:    store,
		TokenTTL: tokenTTL,
	}
}

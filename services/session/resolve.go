package session

import (
	"context"
	"sync"

	"meditravel/models"
	"meditravel/utils"

	"go.uber.org/zap"
)

// resolveIdentity fetches roles and permissions for the user via two
// independent repository calls run concurrently. If either call fails, the
// whole resolution falls back to a conservative default: the patient role and
// the minimal permission set of a basic authenticated user. The fallback never
// grants elevated roles; the failure is logged, not surfaced.
func (s *DefaultSessionService) resolveIdentity(ctx context.Context, userID, email string) models.Identity {
	logger := utils.GetLogger()

	var (
		wg       sync.WaitGroup
		roles    []string
		perms    []string
		rolesErr error
		permsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		roles, rolesErr = s.Access.GetUserRoles(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		perms, permsErr = s.Access.GetUserPermissions(ctx, userID)
	}()
	wg.Wait()

	if rolesErr != nil || permsErr != nil {
		logger.Warn("session: role/permission resolution failed, using fallback",
			zap.String("userID", userID),
			zap.NamedError("rolesErr", rolesErr),
			zap.NamedError("permsErr", permsErr))
		return models.Identity{
			UserID:      userID,
			Email:       email,
			Roles:       []string{models.RolePatient},
			Permissions: append([]string(nil), models.FallbackPermissions...),
		}
	}

	if roles == nil {
		roles = []string{}
	}
	if perms == nil {
		perms = []string{}
	}
	return models.Identity{
		UserID:      userID,
		Email:       email,
		Roles:       roles,
		Permissions: perms,
	}
}

// Invalidate drops the cached identity snapshot for a user so that role or
// permission changes are picked up on the next request.
func (s *DefaultSessionService) Invalidate(ctx context.Context, userID string) error {
	return s.Store.Delete(ctx, userID)
}

// resolveAndCache marks the snapshot as loading, resolves, then stores the
// resolved snapshot. Consumers reading the store during resolution observe
// Loading=true and must not authorize against it.
func (s *DefaultSessionService) resolveAndCache(ctx context.Context, userID, email string) models.Identity {
	loading := models.Identity{UserID: userID, Email: email, Loading: true}
	if err := s.Store.Save(ctx, loading, s.TokenTTL); err != nil {
		utils.GetLogger().Warn("session: failed to stage loading snapshot", zap.Error(err))
	}

	resolved := s.resolveIdentity(ctx, userID, email)
	if err := s.Store.Save(ctx, resolved, s.TokenTTL); err != nil {
		utils.GetLogger().Warn("session: failed to cache identity snapshot", zap.Error(err))
	}
	return resolved
}

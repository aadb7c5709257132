package provider

import (
	"context"
	"sync"
	"testing"

	"meditravel/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memApplicationRepo struct {
	mu   sync.Mutex
	apps map[string]models.ProviderApplication
}

func newMemApplicationRepo() *memApplicationRepo {
	return &memApplicationRepo{apps: make(map[string]models.ProviderApplication)}
}

func (r *memApplicationRepo) Create(app *models.ProviderApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[app.ID] = *app
	return nil
}

func (r *memApplicationRepo) GetByID(id string) (*models.ProviderApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, nil
	}
	copy := app
	return &copy, nil
}

func (r *memApplicationRepo) GetByStatus(status string) ([]models.ProviderApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ProviderApplication
	for _, app := range r.apps {
		if status == "" || app.Status == status {
			out = append(out, app)
		}
	}
	return out, nil
}

func (r *memApplicationRepo) Update(app *models.ProviderApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[app.ID] = *app
	return nil
}

type grantRecorder struct {
	mu    sync.Mutex
	roles map[string][]string
	perms map[string][]string
}

func newGrantRecorder() *grantRecorder {
	return &grantRecorder{
		roles: make(map[string][]string),
		perms: make(map[string][]string),
	}
}

func (r *grantRecorder) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.roles[userID]...), nil
}

func (r *grantRecorder) GetUserPermissions(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.perms[userID]...), nil
}

func (r *grantRecorder) GrantRole(ctx context.Context, userID, role, grantedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[userID] = append(r.roles[userID], role)
	return nil
}

func (r *grantRecorder) RevokeRole(ctx context.Context, userID, role string) error {
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

func (r *grantRecorder) GrantPermissions(ctx context.Context, userID string, permissions []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perms[userID] = append(r.perms[userID], permissions...)
	return nil
}

type invalidateRecorder struct {
	mu      sync.Mutex
	dropped []string
}

func (r *invalidateRecorder) Invalidate(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped = append(r.dropped, userID)
	return nil
}

func newTestProviderService() (*DefaultProviderService, *grantRecorder, *invalidateRecorder) {
	access := newGrantRecorder()
	sessions := &invalidateRecorder{}
	svc := &DefaultProviderService{
		Applications: newMemApplicationRepo(),
		Access:       access,
		Sessions:     sessions,
	}
	return svc, access, sessions
}

func submitApplication(t *testing.T, svc *DefaultProviderService, userID string) *models.ProviderApplication {
	t.Helper()
	app, err := svc.Apply(context.Background(), userID, models.ProviderApplicationInput{
		ClinicName: "Bosphorus Dental",
		Specialty:  "dentistry",
		Country:    "TR",
		LicenseNo:  "TR-4411",
	})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusPending, app.Status)
	return app
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("grants the provider role and drops the cached identity", func(t *testing.T) {
		svc, access, sessions := newTestProviderService()
		app := submitApplication(t, svc, "user-1")

		approved, err := svc.Approve(ctx, "admin-1", app.ID)
		require.NoError(t, err)

		assert.Equal(t, models.ApplicationStatusApproved, approved.Status)
		assert.Equal(t, "admin-1", approved.ReviewedBy)

		roles, _ := access.GetUserRoles(ctx, "user-1")
		assert.Contains(t, roles, models.RoleHealthcareProvider)
		perms, _ := access.GetUserPermissions(ctx, "user-1")
		assert.ElementsMatch(t, providerPermissions, perms)

		assert.Equal(t, []string{"user-1"}, sessions.dropped)
	})

	t.Run("only pending applications can be approved", func(t *testing.T) {
		svc, _, _ := newTestProviderService()
		app := submitApplication(t, svc, "user-1")

		_, err := svc.Approve(ctx, "admin-1", app.ID)
		require.NoError(t, err)

		_, err = svc.Approve(ctx, "admin-2", app.ID)
		assert.Error(t, err)
	})

	t.Run("unknown application", func(t *testing.T) {
		svc, _, _ := newTestProviderService()
		_, err := svc.Approve(ctx, "admin-1", "missing")
		assert.Error(t, err)
	})
}

func TestRevokeProvider(t *testing.T) {
	ctx := context.Background()

	svc, access, sessions := newTestProviderService()
	app := submitApplication(t, svc, "user-1")
	_, err := svc.Approve(ctx, "admin-1", app.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeProvider(ctx, "admin-1", "user-1"))

	roles, _ := access.GetUserRoles(ctx, "user-1")
	assert.NotContains(t, roles, models.RoleHealthcareProvider)
	// The snapshot is dropped once on approval and again on revocation.
	assert.Equal(t, []string{"user-1", "user-1"}, sessions.dropped)
}

func TestReject(t *testing.T) {
	ctx := context.Background()

	svc, access, _ := newTestProviderService()
	app := submitApplication(t, svc, "user-1")

	rejected, err := svc.Reject(ctx, "admin-1", app.ID, "license could not be verified")
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusRejected, rejected.Status)
	assert.Equal(t, "license could not be verified", rejected.RejectReason)

	// No role grant happens on rejection.
	roles, _ := access.GetUserRoles(ctx, "user-1")
	assert.Empty(t, roles)

	_, err = svc.Approve(ctx, "admin-1", app.ID)
	assert.Error(t, err)
}

func TestAttachDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("appends the document for the owner", func(t *testing.T) {
		svc, _, _ := newTestProviderService()
		app := submitApplication(t, svc, "user-1")

		updated, err := svc.AttachDocument(ctx, "user-1", app.ID, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"doc-1"}, updated.DocumentIDs)
	})

	t.Run("rejects a non-owner", func(t *testing.T) {
		svc, _, _ := newTestProviderService()
		app := submitApplication(t, svc, "user-1")

		_, err := svc.AttachDocument(ctx, "user-2", app.ID, "doc-1")
		assert.Error(t, err)
	})

	t.Run("rejects once reviewed", func(t *testing.T) {
		svc, _, _ := newTestProviderService()
		app := submitApplication(t, svc, "user-1")

		_, err := svc.Approve(ctx, "admin-1", app.ID)
		require.NoError(t, err)

		_, err = svc.AttachDocument(ctx, "user-1", app.ID, "doc-1")
		assert.Error(t, err)
	})
}

func TestListApplications(t *testing.T) {
	ctx := context.Background()

	svc, _, _ := newTestProviderService()
	a := submitApplication(t, svc, "user-1")
	submitApplication(t, svc, "user-2")

	_, err := svc.Approve(ctx, "admin-1", a.ID)
	require.NoError(t, err)

	pending, err := svc.ListApplications(ctx, models.ApplicationStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := svc.ListApplications(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

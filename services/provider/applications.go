package provider

import (
	"context"
	"fmt"
	"time"

	"meditravel/models"
	"meditravel/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Apply submits a provider application for review.
func (s *DefaultProviderService) Apply(ctx context.Context, userID string, input models.ProviderApplicationInput) (*models.ProviderApplication, error) {
	now := time.Now()
	app := &models.ProviderApplication{
		ID:         uuid.New().String(),
		UserID:     userID,
		ClinicName: input.ClinicName,
		Specialty:  input.Specialty,
		Country:    input.Country,
		LicenseNo:  input.LicenseNo,
		Status:     models.ApplicationStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Applications.Create(app); err != nil {
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}
	return app, nil
}

// AttachDocument links an uploaded credential document to the application.
func (s *DefaultProviderService) AttachDocument(ctx context.Context, userID, applicationID, documentID string) (*models.ProviderApplication, error) {
	app, err := s.Applications.GetByID(applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}
	if app == nil || app.UserID != userID {
		return nil, fmt.Errorf("application %s not found", applicationID)
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, fmt.Errorf("documents can only be attached to pending applications")
	}

	app.DocumentIDs = append(app.DocumentIDs, documentID)
	if err := s.Applications.Update(app); err != nil {
		return nil, fmt.Errorf("failed to attach document: %w", err)
	}
	return s.refresh(applicationID)
}

// ListApplications returns applications filtered by status (empty = all).
func (s *DefaultProviderService) ListApplications(ctx context.Context, status string) ([]models.ProviderApplication, error) {
	return s.Applications.GetByStatus(status)
}

// Approve grants the applicant the healthcare_provider role together with the
// provider permission set, then refreshes the application record. The
// applicant's cached identity is invalidated so the new role is visible on
// the next request.
func (s *DefaultProviderService) Approve(ctx context.Context, adminID, applicationID string) (*models.ProviderApplication, error) {
	app, err := s.Applications.GetByID(applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("application %s not found", applicationID)
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, fmt.Errorf("application %s has already been reviewed", applicationID)
	}

	if err := s.Access.GrantRole(ctx, app.UserID, models.RoleHealthcareProvider, adminID); err != nil {
		return nil, fmt.Errorf("failed to grant provider role: %w", err)
	}
	if err := s.Access.GrantPermissions(ctx, app.UserID, providerPermissions); err != nil {
		return nil, fmt.Errorf("failed to grant provider permissions: %w", err)
	}

	app.Status = models.ApplicationStatusApproved
	app.ReviewedBy = adminID
	if err := s.Applications.Update(app); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	if s.Sessions != nil {
		if err := s.Sessions.Invalidate(ctx, app.UserID); err != nil {
			utils.GetLogger().Warn("failed to invalidate identity after approval",
				zap.String("userID", app.UserID), zap.Error(err))
		}
	}

	utils.GetLogger().Info("provider application approved",
		zap.String("applicationID", applicationID),
		zap.String("userID", app.UserID),
		zap.String("reviewedBy", adminID))
	return s.refresh(applicationID)
}

// Reject records the rejection reason and refreshes the application record.
func (s *DefaultProviderService) Reject(ctx context.Context, adminID, applicationID, reason string) (*models.ProviderApplication, error) {
	app, err := s.Applications.GetByID(applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("application %s not found", applicationID)
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, fmt.Errorf("application %s has already been reviewed", applicationID)
	}

	app.Status = models.ApplicationStatusRejected
	app.RejectReason = reason
	app.ReviewedBy = adminID
	if err := s.Applications.Update(app); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return s.refresh(applicationID)
}

// RevokeProvider strips the healthcare_provider role from a user, for example
// after a license lapses. Granted permissions are left in place; the guard
// checks roles first, so a revoked provider loses access to provider routes.
func (s *DefaultProviderService) RevokeProvider(ctx context.Context, adminID, userID string) error {
	if err := s.Access.RevokeRole(ctx, userID, models.RoleHealthcareProvider); err != nil {
		return fmt.Errorf("failed to revoke provider role: %w", err)
	}

	if s.Sessions != nil {
		if err := s.Sessions.Invalidate(ctx, userID); err != nil {
			utils.GetLogger().Warn("failed to invalidate identity after revocation",
				zap.String("userID", userID), zap.Error(err))
		}
	}

	utils.GetLogger().Info("provider role revoked",
		zap.String("userID", userID), zap.String("revokedBy", adminID))
	return nil
}

// refresh re-reads the application; mutations are awaited and verified rather
// than fire-and-forget.
func (s *DefaultProviderService) refresh(applicationID string) (*models.ProviderApplication, error) {
	refreshed, err := s.Applications.GetByID(applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh application: %w", err)
	}
	if refreshed == nil {
		return nil, fmt.Errorf("application %s missing after update", applicationID)
	}
	return refreshed, nil
}

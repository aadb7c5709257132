package provider

import (
	"context"

	accessRepo "meditravel/database/repository/access"
	applicationRepo "meditravel/database/repository/application"
	"meditravel/models"
)

// ProviderService manages applications to join the platform as a healthcare
// provider, and the role grants that follow approval.
type ProviderService interface {
	Apply(ctx context.Context, userID string, input models.ProviderApplicationInput) (*models.ProviderApplication, error)
	AttachDocument(ctx context.Context, userID, applicationID, documentID string) (*models.ProviderApplication, error)
	ListApplications(ctx context.Context, status string) ([]models.ProviderApplication, error)
	Approve(ctx context.Context, adminID, applicationID string) (*models.ProviderApplication, error)
	Reject(ctx context.Context, adminID, applicationID, reason string) (*models.ProviderApplication, error)
	RevokeProvider(ctx context.Context, adminID, userID string) error
}

// IdentityInvalidator drops a cached identity snapshot so role changes take
// effect on the next guard evaluation. The session provider implements it.
type IdentityInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// Permissions granted alongside the healthcare_provider role.
var providerPermissions = []string{
	"applications:read",
	"bookings:read",
	"treatments:manage",
	"schedule:manage",
}

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Applications applicationRepo.ApplicationRepository
	Access       accessRepo.AccessRepository
	Sessions     IdentityInvalidator
}

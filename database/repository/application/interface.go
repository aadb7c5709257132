package applicationRepo

import "meditravel/models"

// ApplicationRepository defines persistence operations for provider applications.
type ApplicationRepository interface {
	Create(app *models.ProviderApplication) error
	GetByID(id string) (*models.ProviderApplication, error)
	GetByStatus(status string) ([]models.ProviderApplication, error)
	Update(app *models.ProviderApplication) error
}

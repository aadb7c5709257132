package userRepo

import (
	"meditravel/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(user *models.User) error
	GetByIDWithProjection(id string, projection bson.M) (*models.User, error)
	GetByEmailWithProjection(email string, projection bson.M) (*models.User, error)
	GetByTokenHash(tokenHash string) (*models.User, error)
	UpdateWithDocument(id string, updateDoc bson.M) error
	Delete(id string) error
	GetAllWithProjection(projection bson.M) ([]models.User, error)
}

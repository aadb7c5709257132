package session

import (
	"context"
	"time"

	"meditravel/models"
	"meditravel/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SignUp registers a new account. New users receive the patient role and the
// baseline permission set, then a session is established exactly as in SignIn.
func (s *DefaultSessionService) SignUp(ctx context.Context, data models.UserRegistrationData) AuthResult {
	logger := utils.GetLogger()

	existing, err := s.Users.GetByEmailWithProjection(data.Email, bson.M{"id": 1})
	if err != nil {
		logger.Error("SignUp: failed to check existing user", zap.Error(err))
		return failure("registration failed, please try again")
	}
	if existing != nil {
		return failure("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("SignUp: failed to hash password", zap.Error(err))
		return failure("registration failed, please try again")
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        data.Email,
		Username:     data.Username,
		PasswordHash: string(hash),
		PhoneNumber:  data.PhoneNumber,
		Country:      data.Country,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(user); err != nil {
		logger.Error("SignUp: failed to create user", zap.Error(err))
		return failure("registration failed, please try again")
	}

	// Baseline grants; resolution failures later still fall back to the same.
	if err := s.Access.GrantRole(ctx, user.ID, models.RolePatient, "system"); err != nil {
		logger.Warn("SignUp: failed to grant patient role", zap.Error(err))
	}
	if err := s.Access.GrantPermissions(ctx, user.ID, models.FallbackPermissions); err != nil {
		logger.Warn("SignUp: failed to grant baseline permissions", zap.Error(err))
	}

	return s.SignIn(ctx, data.Email, data.Password)
}

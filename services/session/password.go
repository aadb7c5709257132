package session

import (
	"context"
	"time"

	"meditravel/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ResetPassword starts a password reset for the given email. To avoid account
// enumeration the result is a success message whether or not the account
// exists; the reset link is only issued for real accounts.
func (s *DefaultSessionService) ResetPassword(ctx context.Context, email string) AuthResult {
	logger := utils.GetLogger()

	userRec, err := s.Users.GetByEmailWithProjection(email, bson.M{"id": 1, "email": 1})
	if err != nil {
		logger.Error("ResetPassword: failed to fetch user", zap.Error(err))
		return failure("password reset failed, please try again")
	}
	if userRec == nil {
		// Same outward response as the success path.
		return AuthResult{OK: true, Message: "if the account exists, a reset link has been sent"}
	}

	resetToken, err := utils.GenerateToken(userRec.ID, userRec.Email, 30*time.Minute)
	if err != nil {
		logger.Error("ResetPassword: failed to generate reset token", zap.Error(err))
		return failure("password reset failed, please try again")
	}

	updateDoc := bson.M{"$set": bson.M{
		"reset_token_hash": utils.HashToken(resetToken),
		"updated_at":       time.Now(),
	}}
	if err := s.Users.UpdateWithDocument(userRec.ID, updateDoc); err != nil {
		logger.Error("ResetPassword: failed to store reset token", zap.Error(err))
		return failure("password reset failed, please try again")
	}

	// Delivery is handled by the notification pipeline; the token never
	// appears in the API response.
	logger.Info("ResetPassword: reset initiated", zap.String("userID", userRec.ID))
	return AuthResult{OK: true, Message: "if the account exists, a reset link has been sent"}
}

// UpdatePassword changes the password for an authenticated user after
// verifying the current one. The active session token is invalidated so other
// devices must sign in again.
func (s *DefaultSessionService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) AuthResult {
	logger := utils.GetLogger()

	userRec, err := s.Users.GetByIDWithProjection(userID, bson.M{})
	if err != nil {
		logger.Error("UpdatePassword: failed to fetch user", zap.Error(err))
		return failure("password update failed, please try again")
	}
	if userRec == nil {
		return failure("account not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(currentPassword)); err != nil {
		return failure("current password is incorrect")
	}
	if len(newPassword) < 8 {
		return failure("new password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("UpdatePassword: failed to hash password", zap.Error(err))
		return failure("password update failed, please try again")
	}

	updateDoc := bson.M{"$set": bson.M{
		"password_hash": string(hash),
		"token_hash":    "",
		"updated_at":    time.Now(),
	}}
	if err := s.Users.UpdateWithDocument(userID, updateDoc); err != nil {
		logger.Error("UpdatePassword: failed to update password", zap.Error(err))
		return failure("password update failed, please try again")
	}

	if err := s.Store.Delete(ctx, userID); err != nil {
		logger.Warn("UpdatePassword: failed to delete identity snapshot", zap.Error(err))
	}

	return AuthResult{OK: true, Message: "password updated, please sign in again"}
}

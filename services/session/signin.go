package session

import (
	"context"
	"time"

	"meditravel/models"
	"meditravel/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SignIn authenticates an email/password pair and establishes a session. On
// success the identity's roles and permissions are resolved before returning.
// All failure modes are converted to an AuthResult; repository errors are
// never exposed to the caller.
func (s *DefaultSessionService) SignIn(ctx context.Context, email, password string) AuthResult {
	logger := utils.GetLogger()

	userRec, err := s.Users.GetByEmailWithProjection(email, bson.M{})
	if err != nil {
		logger.Error("SignIn: failed to fetch user", zap.Error(err))
		return failure("authentication failed, please try again")
	}
	if userRec == nil {
		return failure("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(password)); err != nil {
		return failure("invalid email or password")
	}

	token, err := utils.GenerateToken(userRec.ID, userRec.Email, s.TokenTTL)
	if err != nil {
		logger.Error("SignIn: failed to generate token", zap.Error(err))
		return failure("authentication failed, please try again")
	}
	tokenHash := utils.HashToken(token)

	updateDoc := bson.M{"$set": bson.M{
		"token_hash": tokenHash,
		"updated_at": time.Now(),
	}}
	if err := s.Users.UpdateWithDocument(userRec.ID, updateDoc); err != nil {
		logger.Error("SignIn: failed to store token hash", zap.Error(err))
		return failure("authentication failed, please try again")
	}

	identity := s.resolveAndCache(ctx, userRec.ID, userRec.Email)
	s.publish(EventSignedIn, userRec.ID)

	return AuthResult{OK: true, Token: token, Identity: &identity}
}

// IdentityFromToken validates a session token and returns the identity it
// belongs to. A cached snapshot is returned as-is (possibly Loading); a cache
// miss triggers session restore: the token hash is checked against the user
// record and roles/permissions are resolved anew.
func (s *DefaultSessionService) IdentityFromToken(ctx context.Context, token string) (models.Identity, error) {
	userID, err := utils.ExtractIDFromToken(token)
	if err != nil {
		return models.Identity{}, ErrInvalidToken
	}

	snapshot, err := s.Store.Get(ctx, userID)
	if err != nil {
		utils.GetLogger().Warn("IdentityFromToken: snapshot lookup failed", zap.Error(err))
	}
	if snapshot != nil {
		return *snapshot, nil
	}

	// Session restore: verify the token is still the active one for this user.
	userRec, err := s.Users.GetByTokenHash(utils.HashToken(token))
	if err != nil {
		utils.GetLogger().Error("IdentityFromToken: token hash lookup failed", zap.Error(err))
		return models.Identity{}, ErrInvalidToken
	}
	if userRec == nil || userRec.ID != userID {
		return models.Identity{}, ErrInvalidToken
	}

	return s.resolveAndCache(ctx, userRec.ID, userRec.Email), nil
}

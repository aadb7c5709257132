package session

import (
	"context"
	"time"

	"meditravel/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// SignOut ends the user's session: the active token hash is cleared, the
// cached identity snapshot is deleted, and a signed-out event is published.
// Any subsequent guard evaluation for this user is Unauthenticated.
func (s *DefaultSessionService) SignOut(ctx context.Context, userID string) AuthResult {
	logger := utils.GetLogger()

	updateDoc := bson.M{"$set": bson.M{
		"token_hash": "",
		"updated_at": time.Now(),
	}}
	if err := s.Users.UpdateWithDocument(userID, updateDoc); err != nil {
		logger.Error("SignOut: failed to clear token hash", zap.Error(err))
		return failure("sign out failed, please try again")
	}

	if err := s.Store.Delete(ctx, userID); err != nil {
		logger.Warn("SignOut: failed to delete identity snapshot", zap.Error(err))
	}

	s.publish(EventSignedOut, userID)
	return AuthResult{OK: true}
}

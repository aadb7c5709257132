package accessRepo

import (
	"context"
	"fmt"
	"time"

	"meditravel/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type roleAssignment struct {
	UserID    string    `bson:"user_id"`
	Role      string    `bson:"role"`
	GrantedBy string    `bson:"granted_by,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

type permissionGrant struct {
	UserID     string    `bson:"user_id"`
	Permission string    `bson:"permission"`
	CreatedAt  time.Time `bson:"created_at"`
}

// MongoAccessRepo implements AccessRepository using MongoDB.
type MongoAccessRepo struct {
	roles       *mongo.Collection
	permissions *mongo.Collection
}

// NewMongoAccessRepo creates a new instance of AccessRepository using MongoDB.
func NewMongoAccessRepo() AccessRepository {
	repo := &MongoAccessRepo{
		roles:       database.Collection("role_assignments"),
		permissions: database.Collection("permission_grants"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoAccessRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	roleIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "role", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.roles.Indexes().CreateMany(ctx, roleIdx); err != nil {
		return fmt.Errorf("failed to create role indexes: %w", err)
	}

	permIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "permission", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.permissions.Indexes().CreateMany(ctx, permIdx); err != nil {
		return fmt.Errorf("failed to create permission indexes: %w", err)
	}
	return nil
}

// GetUserRoles returns the role names assigned to the user.
func (r *MongoAccessRepo) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.roles.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var roles []string
	for cursor.Next(ctx) {
		var a roleAssignment
		if err := cursor.Decode(&a); err != nil {
			return nil, fmt.Errorf("failed to decode role assignment: %w", err)
		}
		roles = append(roles, a.Role)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("role cursor error: %w", err)
	}
	return roles, nil
}

// GetUserPermissions returns the permission names granted to the user.
func (r *MongoAccessRepo) GetUserPermissions(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.permissions.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var perms []string
	for cursor.Next(ctx) {
		var g permissionGrant
		if err := cursor.Decode(&g); err != nil {
			return nil, fmt.Errorf("failed to decode permission grant: %w", err)
		}
		perms = append(perms, g.Permission)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("permission cursor error: %w", err)
	}
	return perms, nil
}

// GrantRole assigns a role to a user. Granting an already-held role is a no-op.
func (r *MongoAccessRepo) GrantRole(ctx context.Context, userID, role, grantedBy string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID, "role": role}
	update := bson.M{"$setOnInsert": roleAssignment{
		UserID:    userID,
		Role:      role,
		GrantedBy: grantedBy,
		CreatedAt: time.Now(),
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := r.roles.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to grant role %s to user %s: %w", role, userID, err)
	}
	return nil
}

// RevokeRole removes a role assignment from a user.
func (r *MongoAccessRepo) RevokeRole(ctx context.Context, userID, role string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.roles.DeleteOne(ctx, bson.M{"user_id": userID, "role": role}); err != nil {
		return fmt.Errorf("failed to revoke role %s from user %s: %w", role, userID, err)
	}
	return nil
}

// GrantPermissions assigns a set of permissions to a user, skipping duplicates.
func (r *MongoAccessRepo) GrantPermissions(ctx context.Context, userID string, permissions []string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, p := range permissions {
		filter := bson.M{"user_id": userID, "permission": p}
		update := bson.M{"$setOnInsert": permissionGrant{
			UserID:     userID,
			Permission: p,
			CreatedAt:  time.Now(),
		}}
		opts := options.Update().SetUpsert(true)
		if _, err := r.permissions.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to grant permission %s to user %s: %w", p, userID, err)
		}
	}
	return nil
}

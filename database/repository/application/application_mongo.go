package applicationRepo

import (
	"context"
	"fmt"
	"time"

	"meditravel/database"
	"meditravel/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoApplicationRepo implements ApplicationRepository using MongoDB.
type MongoApplicationRepo struct {
	coll *mongo.Collection
}

// NewMongoApplicationRepo creates a new instance of ApplicationRepository using MongoDB.
func NewMongoApplicationRepo() ApplicationRepository {
	repo := &MongoApplicationRepo{coll: database.Collection("provider_applications")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoApplicationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new provider application.
func (r *MongoApplicationRepo) Create(app *models.ProviderApplication) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, app); err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// GetByID retrieves a provider application by its ID.
func (r *MongoApplicationRepo) GetByID(id string) (*models.ProviderApplication, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var app models.ProviderApplication
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&app); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch application %s: %w", id, err)
	}
	return &app, nil
}

// GetByStatus retrieves applications with the given status; empty status
// returns everything.
func (r *MongoApplicationRepo) GetByStatus(status string) ([]models.ProviderApplication, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve applications: %w", err)
	}
	defer cursor.Close(ctx)

	var apps []models.ProviderApplication
	for cursor.Next(ctx) {
		var a models.ProviderApplication
		if err := cursor.Decode(&a); err != nil {
			return nil, fmt.Errorf("failed to decode application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, nil
}

// Update replaces the mutable fields of an application.
func (r *MongoApplicationRepo) Update(app *models.ProviderApplication) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	app.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"status":        app.Status,
		"reject_reason": app.RejectReason,
		"reviewed_by":   app.ReviewedBy,
		"document_ids":  app.DocumentIDs,
		"updated_at":    app.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": app.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update application %s: %w", app.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("no application found with id %s", app.ID)
	}
	return nil
}

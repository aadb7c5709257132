package candidateRepo

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

// MongoCandidateRepo implements CandidateRepository using MongoDB.
type MongoCandidateRepo struct {
	coll *mongo.Collection
}

// NewMongoCandidateRepo creates a new instance of CandidateRepository using MongoDB.
func NewMongoCandidateRepo() CandidateRepository {
	repo := &MongoCandidateRepo{coll: database.Collection("candidates")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoCandidateRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "specialty", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByKindAndSpecialty retrieves candidates of the given kind, optionally
// restricted to a specialty.
func (r *MongoCandidateRepo) GetByKindAndSpecialty(kind, specialty string) ([]models.Candidate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"kind": kind}
	if specialty != "" {
		filter["specialty"] = specialty
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve candidates: %w", err)
	}
	defer cursor.Close(ctx)

	var candidates []models.Candidate
	for cursor.Next(ctx) {
		var c models.Candidate
		if err := cursor.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// GetByID retrieves a single candidate.
func (r *MongoCandidateRepo) GetByID(id string) (*models.Candidate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var c models.Candidate
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch candidate %s: %w", id, err)
	}
	return &c, nil
}

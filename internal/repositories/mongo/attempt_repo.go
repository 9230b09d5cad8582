package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yoockh/interviewme/internal/models"
)

type AttemptRepository interface {
	Insert(ctx context.Context, a *models.Attempt) error
	ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.Attempt, error)
	SetCoachFeedback(ctx context.Context, attemptID, feedback string) error
}

type attemptRepo struct {
	col *mongo.Collection
}

func NewAttemptRepo(db *mongo.Database) AttemptRepository {
	return &attemptRepo{col: db.Collection("attempts")}
}

func (r *attemptRepo) Insert(ctx context.Context, a *models.Attempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *attemptRepo) ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.Attempt, error) {
	if limit <= 0 {
		limit = 50
	}

	cur, err := r.col.Find(ctx,
		bson.M{"session_id": sessionID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Attempt{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *attemptRepo) SetCoachFeedback(ctx context.Context, attemptID, feedback string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"attempt_id": attemptID},
		bson.M{"$set": bson.M{"coach_feedback": feedback}},
	)
	return err
}

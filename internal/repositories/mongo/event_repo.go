package mongo

import (
	"context"

	"github.com/yoockh/jobwallah/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventRepository interface {
	// Append stores an event. Replaying an event with a known id is a no-op.
	Append(ctx context.Context, e *models.ApplicationEvent) error
	ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationEvent, error)
}

type eventRepo struct {
	col *mongo.Collection
}

func NewEventRepo(db *mongo.Database) EventRepository {
	return &eventRepo{col: db.Collection("application_events")}
}

func (r *eventRepo) Append(ctx context.Context, e *models.ApplicationEvent) error {
	_, err := r.col.InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

func (r *eventRepo) ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationEvent, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"application_id": applicationID},
		options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ApplicationEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

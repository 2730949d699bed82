package mongo

import (
	"context"
	"time"

	"github.com/yoockh/jobwallah/internal/models"
	"github.com/yoockh/jobwallah/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResumeCheckRepository interface {
	// Insert stores a check. A second check for the same user and
	// check_day fails with utils.ErrDuplicate (uniq_user_check_day).
	Insert(ctx context.Context, c *models.ResumeCheck) error
	CountBetween(ctx context.Context, userID string, from, to time.Time) (int64, error)
	Latest(ctx context.Context, userID string, limit int64) ([]models.ResumeCheck, error)
}

type resumeCheckRepo struct {
	col *mongo.Collection
}

func NewResumeCheckRepo(db *mongo.Database) ResumeCheckRepository {
	return &resumeCheckRepo{col: db.Collection("resume_checks")}
}

func (r *resumeCheckRepo) Insert(ctx context.Context, c *models.ResumeCheck) error {
	if c.CheckedAt.IsZero() {
		c.CheckedAt = time.Now().UTC()
	}
	if c.CheckDay == "" {
		c.CheckDay = utils.DayKey(c.CheckedAt)
	}
	_, err := r.col.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrDuplicate
	}
	return err
}

func (r *resumeCheckRepo) CountBetween(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"checked_at": bson.M{"$gte": from.UTC(), "$lt": to.UTC()},
	})
}

func (r *resumeCheckRepo) Latest(ctx context.Context, userID string, limit int64) ([]models.ResumeCheck, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "checked_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.ResumeCheck, 0, limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

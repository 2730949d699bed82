package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes() error {
	db, err := MongoDatabase()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	checks := db.Collection("resume_checks")
	_, err = checks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// at most one check per user per UTC day
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "check_day", Value: 1}},
			Options: options.Index().
				SetName("uniq_user_check_day").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "checked_at", Value: -1}},
			Options: options.Index().SetName("by_user_checked"),
		},
	})
	if err != nil {
		return err
	}

	events := db.Collection("application_events")
	_, err = events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "application_id", Value: 1}, {Key: "occurred_at", Value: 1}},
			Options: options.Index().SetName("by_application_occurred"),
		},
	})
	return err
}

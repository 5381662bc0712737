package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// job runs older than this are dropped by Mongo's TTL monitor
const jobRunRetention = 30 * 24 * time.Hour

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	runs := db.Collection("job_runs")
	_, err := runs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "started_at", Value: 1}},
			Options: options.Index().
				SetName("ttl_started_at").
				SetExpireAfterSeconds(int32(jobRunRetention / time.Second)),
		},
		{
			Keys: bson.D{{Key: "run_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_run_id").
				SetUnique(true),
		},
	})
	return err
}

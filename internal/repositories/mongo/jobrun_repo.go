package mongo

import (
	"context"
	"time"

	"github.com/gemtrack/gemtrack/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type JobRunRepository interface {
	Insert(ctx context.Context, run *models.JobRun) error
	Recent(ctx context.Context, limit int64) ([]models.JobRun, error)
}

type jobRunRepo struct {
	col *mongo.Collection
}

func NewJobRunRepo(db *mongo.Database) JobRunRepository {
	return &jobRunRepo{col: db.Collection("job_runs")}
}

func (r *jobRunRepo) Insert(ctx context.Context, run *models.JobRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, run)
	return err
}

func (r *jobRunRepo) Recent(ctx context.Context, limit int64) ([]models.JobRun, error) {
	if limit <= 0 {
		limit = 20
	}
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var runs []models.JobRun
	if err := cur.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unihub/internal/database"
	"unihub/internal/models"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) (*models.Application, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error)
	FindByJobAndFreelancer(ctx context.Context, jobID, freelancerID primitive.ObjectID) (*models.Application, error)
	FindByFreelancer(ctx context.Context, freelancerID primitive.ObjectID, page, limit int64) ([]models.Application, int64, error)
	FindByJobIDs(ctx context.Context, jobIDs []primitive.ObjectID, page, limit int64) ([]models.Application, int64, error)
	CountByJobIDs(ctx context.Context, jobIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus) error
	DeclineOthers(ctx context.Context, jobID, acceptedID primitive.ObjectID) error
}

type applicationRepository struct {
	db database.Service
}

func NewApplicationRepository(db database.Service) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	done := timeQuery("create", "application")
	app.ID = primitive.NewObjectID()
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	_, err := r.db.Collection("applications").InsertOne(ctx, app)
	done(err)
	if err != nil {
		return nil, mapDuplicate(err, "You have already applied to this job")
	}
	return app, nil
}

func (r *applicationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	done := timeQuery("findById", "application")
	var app models.Application
	err := r.db.Collection("applications").FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	done(err)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) FindByJobAndFreelancer(ctx context.Context, jobID, freelancerID primitive.ObjectID) (*models.Application, error) {
	done := timeQuery("findByJobAndFreelancer", "application")
	var app models.Application
	err := r.db.Collection("applications").FindOne(ctx, bson.M{"job_id": jobID, "freelancer_id": freelancerID}).Decode(&app)
	done(err)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) FindByFreelancer(ctx context.Context, freelancerID primitive.ObjectID, page, limit int64) ([]models.Application, int64, error) {
	return r.findPage(ctx, "findByFreelancer", bson.M{"freelancer_id": freelancerID}, page, limit)
}

func (r *applicationRepository) FindByJobIDs(ctx context.Context, jobIDs []primitive.ObjectID, page, limit int64) ([]models.Application, int64, error) {
	if len(jobIDs) == 0 {
		return nil, 0, nil
	}
	return r.findPage(ctx, "findByJobIds", bson.M{"job_id": bson.M{"$in": jobIDs}}, page, limit)
}

func (r *applicationRepository) findPage(ctx context.Context, queryType string, query bson.M, page, limit int64) ([]models.Application, int64, error) {
	done := timeQuery(queryType, "application")
	coll := r.db.Collection("applications")

	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		done(err)
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		done(err)
		return nil, 0, fmt.Errorf("failed to query applications: %w", err)
	}
	defer cursor.Close(ctx)

	var apps []models.Application
	err = cursor.All(ctx, &apps)
	done(err)
	if err != nil {
		return nil, 0, fmt.Errorf("error decoding applications: %w", err)
	}
	return apps, total, nil
}

// CountByJobIDs aggregates proposal counts per job in one round trip.
func (r *applicationRepository) CountByJobIDs(ctx context.Context, jobIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64, len(jobIDs))
	if len(jobIDs) == 0 {
		return counts, nil
	}
	done := timeQuery("countByJobIds", "application")
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"job_id": bson.M{"$in": jobIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$job_id", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.db.Collection("applications").Aggregate(ctx, pipeline)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		JobID primitive.ObjectID `bson:"_id"`
		Count int64              `bson:"count"`
	}
	err = cursor.All(ctx, &rows)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("error decoding application counts: %w", err)
	}
	for _, row := range rows {
		counts[row.JobID] = row.Count
	}
	return counts, nil
}

func (r *applicationRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus) error {
	done := timeQuery("setStatus", "application")
	_, err := r.db.Collection("applications").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	done(err)
	if err != nil {
		log.Error().Err(err).Str("application_id", id.Hex()).Msg("Error updating application status")
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}

// DeclineOthers marks every pending application for a job as declined except
// the accepted one.
func (r *applicationRepository) DeclineOthers(ctx context.Context, jobID, acceptedID primitive.ObjectID) error {
	done := timeQuery("declineOthers", "application")
	_, err := r.db.Collection("applications").UpdateMany(ctx,
		bson.M{"job_id": jobID, "_id": bson.M{"$ne": acceptedID}, "status": models.ApplicationPending},
		bson.M{"$set": bson.M{"status": models.ApplicationDeclined, "updated_at": time.Now()}},
	)
	done(err)
	if err != nil {
		return fmt.Errorf("failed to decline applications: %w", err)
	}
	return nil
}

package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unihub/internal/database"
	"unihub/internal/models"
)

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error)
	FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Job, error)
	FindIDsByPoster(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	FindFeed(ctx context.Context, university models.University, exclude primitive.ObjectID, filter models.JobFeedFilter) ([]models.Job, int64, error)
	FindByPoster(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Job, int64, error)
	FindByAssignee(ctx context.Context, userID primitive.ObjectID, university models.University, page, limit int64) ([]models.Job, int64, error)
	CountByAssigneeAndStatus(ctx context.Context, userID primitive.ObjectID, statuses []models.JobStatus) (int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.JobStatus, set bson.M) (bool, error)
}

type jobRepository struct {
	db database.Service
}

func NewJobRepository(db database.Service) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	done := timeQuery("create", "job")
	job.ID = primitive.NewObjectID()
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	_, err := r.db.Collection("jobs").InsertOne(ctx, job)
	done(err)
	if err != nil {
		log.Error().Err(err).Str("posted_by", job.PostedBy.Hex()).Msg("Failed to insert job into database")
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

func (r *jobRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	done := timeQuery("findById", "job")
	var job models.Job
	err := r.db.Collection("jobs").FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	done(err)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	done := timeQuery("findManyByIds", "job")
	cursor, err := r.db.Collection("jobs").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var jobs []models.Job
	err = cursor.All(ctx, &jobs)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("error decoding jobs: %w", err)
	}
	return jobs, nil
}

// FindIDsByPoster projects just the IDs of a poster's jobs, for scoping
// application queries.
func (r *jobRepository) FindIDsByPoster(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	done := timeQuery("findIdsByPoster", "job")
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.db.Collection("jobs").Find(ctx, bson.M{"posted_by": userID}, opts)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query job ids: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err = cursor.All(ctx, &rows)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("error decoding job ids: %w", err)
	}
	ids := make([]primitive.ObjectID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}

// FindFeed returns the page of OPEN jobs on one campus, newest first,
// excluding jobs posted by the caller, plus the total for the filter.
func (r *jobRepository) FindFeed(ctx context.Context, university models.University, exclude primitive.ObjectID, filter models.JobFeedFilter) ([]models.Job, int64, error) {
	query := bson.M{
		"university": university,
		"status":     models.JobOpen,
		"posted_by":  bson.M{"$ne": exclude},
	}
	if filter.Category != "" {
		query["category"] = bson.M{"$regex": "^" + regexp.QuoteMeta(filter.Category) + "$", "$options": "i"}
	}
	if filter.ExperienceLevel != "" {
		query["experience_level"] = filter.ExperienceLevel
	}
	if filter.Search != "" {
		regex := bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"skills_required": regex},
		}
	}
	if filter.MinBudget != nil || filter.MaxBudget != nil {
		budget := bson.M{}
		if filter.MinBudget != nil {
			budget["$gte"] = *filter.MinBudget
		}
		if filter.MaxBudget != nil {
			budget["$lte"] = *filter.MaxBudget
		}
		query["budget"] = budget
	}
	return r.findPage(ctx, "findFeed", query, filter.Page, filter.Limit)
}

func (r *jobRepository) FindByPoster(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Job, int64, error) {
	return r.findPage(ctx, "findByPoster", bson.M{"posted_by": userID}, page, limit)
}

// FindByAssignee lists the caller's assigned jobs, campus-scoped.
func (r *jobRepository) FindByAssignee(ctx context.Context, userID primitive.ObjectID, university models.University, page, limit int64) ([]models.Job, int64, error) {
	return r.findPage(ctx, "findByAssignee", bson.M{"assigned_to": userID, "university": university}, page, limit)
}

func (r *jobRepository) findPage(ctx context.Context, queryType string, query bson.M, page, limit int64) ([]models.Job, int64, error) {
	done := timeQuery(queryType, "job")
	coll := r.db.Collection("jobs")

	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		done(err)
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		done(err)
		return nil, 0, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var jobs []models.Job
	err = cursor.All(ctx, &jobs)
	done(err)
	if err != nil {
		return nil, 0, fmt.Errorf("error decoding jobs: %w", err)
	}
	return jobs, total, nil
}

func (r *jobRepository) CountByAssigneeAndStatus(ctx context.Context, userID primitive.ObjectID, statuses []models.JobStatus) (int64, error) {
	done := timeQuery("countByAssignee", "job")
	count, err := r.db.Collection("jobs").CountDocuments(ctx, bson.M{
		"assigned_to": userID,
		"status":      bson.M{"$in": statuses},
	})
	done(err)
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

// UpdateStatus advances a job only if it is still in the expected state.
// Returns false when the guard did not match, which means another request
// already moved the job on.
func (r *jobRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.JobStatus, set bson.M) (bool, error) {
	done := timeQuery("updateStatus", "job")
	if set == nil {
		set = bson.M{}
	}
	set["status"] = to
	set["updated_at"] = time.Now()
	result, err := r.db.Collection("jobs").UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
	)
	done(err)
	if err != nil {
		log.Error().Err(err).Str("job_id", id.Hex()).Msg("Error updating job status")
		return false, fmt.Errorf("failed to update job status: %w", err)
	}
	return result.MatchedCount > 0, nil
}

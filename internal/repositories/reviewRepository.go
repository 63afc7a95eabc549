package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unihub/internal/database"
	"unihub/internal/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	FindByJob(ctx context.Context, jobID primitive.ObjectID) (*models.Review, error)
	FindByFreelancer(ctx context.Context, freelancerID primitive.ObjectID) ([]models.Review, error)
}

type reviewRepository struct {
	db database.Service
}

func NewReviewRepository(db database.Service) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	done := timeQuery("create", "review")
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	_, err := r.db.Collection("reviews").InsertOne(ctx, review)
	done(err)
	if err != nil {
		return nil, mapDuplicate(err, "This job has already been reviewed")
	}
	return review, nil
}

func (r *reviewRepository) FindByJob(ctx context.Context, jobID primitive.ObjectID) (*models.Review, error) {
	done := timeQuery("findByJob", "review")
	var review models.Review
	err := r.db.Collection("reviews").FindOne(ctx, bson.M{"job_id": jobID}).Decode(&review)
	done(err)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return &review, nil
}

func (r *reviewRepository) FindByFreelancer(ctx context.Context, freelancerID primitive.ObjectID) ([]models.Review, error) {
	done := timeQuery("findByFreelancer", "review")
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.db.Collection("reviews").Find(ctx, bson.M{"freelancer_id": freelancerID}, opts)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	err = cursor.All(ctx, &reviews)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("error decoding reviews: %w", err)
	}
	return reviews, nil
}

package services

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/apperrors"
	"unihub/internal/models"
	"unihub/internal/repositories"
)

type ReviewService interface {
	Create(ctx context.Context, userID primitive.ObjectID, req models.CreateReviewRequest) (*models.Review, error)
	FreelancerReviews(ctx context.Context, freelancerID primitive.ObjectID) (*models.FreelancerReviews, error)
	JobReview(ctx context.Context, jobID primitive.ObjectID) (*models.ReviewView, error)
}

type reviewService struct {
	users   repositories.UserRepository
	jobs    repositories.JobRepository
	reviews repositories.ReviewRepository
}

func NewReviewService(users repositories.UserRepository, jobs repositories.JobRepository, reviews repositories.ReviewRepository) ReviewService {
	return &reviewService{users: users, jobs: jobs, reviews: reviews}
}

// Create rates the assigned freelancer on a COMPLETED job and closes it.
// The unique index on job_id makes the review the winner of any race; the
// job close afterwards is guarded but best effort.
func (s *reviewService) Create(ctx context.Context, userID primitive.ObjectID, req models.CreateReviewRequest) (*models.Review, error) {
	jobID, err := primitive.ObjectIDFromHex(req.JobID)
	if err != nil {
		return nil, apperrors.Invalid("Invalid job ID")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.Invalid("Rating must be between 1 and 5")
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperrors.NotFound("Job not found")
	}
	if job.PostedBy != userID {
		return nil, apperrors.Forbidden("Only the job poster can leave a review")
	}
	if job.Status != models.JobCompleted {
		return nil, apperrors.Conflict("Job must be completed before it can be reviewed")
	}
	if job.AssignedTo == nil {
		return nil, apperrors.Conflict("Job has no assigned freelancer")
	}

	review, err := s.reviews.Create(ctx, &models.Review{
		JobID:        jobID,
		FreelancerID: *job.AssignedTo,
		ClientID:     userID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.jobs.UpdateStatus(ctx, jobID, models.JobCompleted, models.JobClosed, nil); err != nil {
		return nil, err
	}
	return review, nil
}

// FreelancerReviews lists a freelancer's reviews with the aggregate rating.
func (s *reviewService) FreelancerReviews(ctx context.Context, freelancerID primitive.ObjectID) (*models.FreelancerReviews, error) {
	reviews, err := s.reviews.FindByFreelancer(ctx, freelancerID)
	if err != nil {
		return nil, err
	}

	views, err := s.buildViews(ctx, reviews)
	if err != nil {
		return nil, err
	}

	result := &models.FreelancerReviews{
		Reviews:      views,
		TotalReviews: len(reviews),
	}
	if len(reviews) > 0 {
		var sum int
		for i := range reviews {
			sum += reviews[i].Rating
		}
		// Round to one decimal for display.
		result.AverageRating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}
	return result, nil
}

func (s *reviewService) JobReview(ctx context.Context, jobID primitive.ObjectID) (*models.ReviewView, error) {
	review, err := s.reviews.FindByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, apperrors.NotFound("No review for this job")
	}

	views, err := s.buildViews(ctx, []models.Review{*review})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// buildViews populates client/freelancer summaries and job titles.
func (s *reviewService) buildViews(ctx context.Context, reviews []models.Review) ([]models.ReviewView, error) {
	userIDs := make([]primitive.ObjectID, 0, len(reviews)*2)
	jobIDs := make([]primitive.ObjectID, 0, len(reviews))
	for i := range reviews {
		userIDs = append(userIDs, reviews[i].ClientID, reviews[i].FreelancerID)
		jobIDs = append(jobIDs, reviews[i].JobID)
	}
	summaries, err := summariesByID(ctx, s.users, userIDs)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.FindManyByIDs(ctx, jobIDs)
	if err != nil {
		return nil, err
	}
	titles := make(map[primitive.ObjectID]string, len(jobs))
	for i := range jobs {
		titles[jobs[i].ID] = jobs[i].Title
	}

	views := make([]models.ReviewView, 0, len(reviews))
	for i := range reviews {
		views = append(views, models.ReviewView{
			Review:     reviews[i],
			Client:     summaries[reviews[i].ClientID],
			Freelancer: summaries[reviews[i].FreelancerID],
			JobTitle:   titles[reviews[i].JobID],
		})
	}
	return views, nil
}

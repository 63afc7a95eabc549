package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is the poster's one-per-job rating of the assigned freelancer.
// Creating it closes the job. Uniqueness on job_id is index-backed.
type Review struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	JobID        primitive.ObjectID `json:"jobId" bson:"job_id"`
	FreelancerID primitive.ObjectID `json:"freelancerId" bson:"freelancer_id"`
	ClientID     primitive.ObjectID `json:"clientId" bson:"client_id"`
	Rating       int                `json:"rating" bson:"rating"`
	Comment      string             `json:"comment" bson:"comment"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
}

// ReviewView carries populated client/freelancer references.
type ReviewView struct {
	Review
	Client     *UserSummary `json:"client,omitempty"`
	Freelancer *UserSummary `json:"freelancer,omitempty"`
	JobTitle   string       `json:"jobTitle,omitempty"`
}

type CreateReviewRequest struct {
	JobID   string `json:"jobId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// FreelancerReviews is the GET /api/reviews/freelancer/:id payload.
type FreelancerReviews struct {
	Reviews       []ReviewView `json:"reviews"`
	AverageRating float64      `json:"averageRating"`
	TotalReviews  int          `json:"totalReviews"`
}

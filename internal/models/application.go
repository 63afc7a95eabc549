package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationDeclined ApplicationStatus = "DECLINED"
)

// Application is a freelancer's proposal for a job. The (job_id,
// freelancer_id) pair is unique; duplicates are rejected by the index, not by
// a read-then-write check.
type Application struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	JobID             primitive.ObjectID `json:"jobId" bson:"job_id"`
	FreelancerID      primitive.ObjectID `json:"freelancerId" bson:"freelancer_id"`
	Message           string             `json:"message" bson:"message"`
	CoverLetter       string             `json:"coverLetter,omitempty" bson:"cover_letter,omitempty"`
	Phone             string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Budget            *float64           `json:"budget,omitempty" bson:"budget,omitempty"`
	PricingType       string             `json:"pricingType,omitempty" bson:"pricing_type,omitempty"`
	DeliveryDays      *int               `json:"deliveryDays,omitempty" bson:"delivery_days,omitempty"`
	Skills            []string           `json:"skills" bson:"skills"`
	PortfolioLink     string             `json:"portfolioLink,omitempty" bson:"portfolio_link,omitempty"`
	AgreementAccepted bool               `json:"agreementAccepted" bson:"agreement_accepted"`
	Status            ApplicationStatus  `json:"status" bson:"status"`
	CreatedAt         time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ApplicationView is an application with populated, campus-checked references.
type ApplicationView struct {
	Application
	Job        *Job     `json:"job,omitempty"`
	Freelancer *UserRef `json:"freelancer,omitempty"`
}

// CreateApplicationRequest is the POST /api/applications body.
type CreateApplicationRequest struct {
	JobID             string   `json:"jobId"`
	Message           string   `json:"message"`
	CoverLetter       string   `json:"coverLetter,omitempty"`
	Phone             string   `json:"phone"`
	Budget            *float64 `json:"budget,omitempty"`
	PricingType       string   `json:"pricingType,omitempty"`
	DeliveryDays      *int     `json:"deliveryDays,omitempty"`
	Skills            []string `json:"skills,omitempty"`
	PortfolioLink     string   `json:"portfolioLink,omitempty"`
	AgreementAccepted bool     `json:"agreementAccepted,omitempty"`
}

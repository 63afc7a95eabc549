package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobStatus moves strictly forward: OPEN -> IN_PROGRESS -> COMPLETED -> CLOSED.
type JobStatus string

const (
	JobOpen       JobStatus = "OPEN"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
	JobClosed     JobStatus = "CLOSED"
)

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "Beginner"
	ExperienceIntermediate ExperienceLevel = "Intermediate"
	ExperienceExpert       ExperienceLevel = "Expert"
)

func (e ExperienceLevel) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceExpert:
		return true
	}
	return false
}

type Job struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Title           string              `json:"title" bson:"title"`
	Category        string              `json:"category" bson:"category"`
	Description     string              `json:"description" bson:"description"`
	Budget          float64             `json:"budget" bson:"budget"`
	Deadline        time.Time           `json:"deadline" bson:"deadline"`
	ExperienceLevel ExperienceLevel     `json:"experienceLevel" bson:"experience_level"`
	SkillsRequired  []string            `json:"skillsRequired" bson:"skills_required"`
	PostedBy        primitive.ObjectID  `json:"postedBy" bson:"posted_by"`
	University      University          `json:"university" bson:"university"`
	Status          JobStatus           `json:"status" bson:"status"`
	AssignedTo      *primitive.ObjectID `json:"assignedTo,omitempty" bson:"assigned_to,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updated_at"`
}

// JobView is a job with populated references and its proposal count. The
// outer fields shadow the raw ObjectIDs of the embedded Job.
type JobView struct {
	Job
	PostedBy      UserRef  `json:"postedBy"`
	AssignedTo    *UserRef `json:"assignedTo,omitempty"`
	ProposalCount int64    `json:"proposalCount"`
}

// CreateJobRequest is the POST /api/jobs body.
type CreateJobRequest struct {
	Title           string          `json:"title"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	Budget          float64         `json:"budget"`
	Deadline        time.Time       `json:"deadline"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	SkillsRequired  []string        `json:"skillsRequired"`
}

// JobFeedFilter carries the GET /api/jobs query parameters.
type JobFeedFilter struct {
	Search          string
	Category        string
	ExperienceLevel string
	MinBudget       *float64
	MaxBudget       *float64
	Page            int64
	Limit           int64
}

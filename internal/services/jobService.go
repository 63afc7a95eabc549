package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/apperrors"
	"unihub/internal/models"
	"unihub/internal/repositories"
)

type JobService interface {
	Create(ctx context.Context, userID primitive.ObjectID, req models.CreateJobRequest) (*models.Job, error)
	Feed(ctx context.Context, userID primitive.ObjectID, filter models.JobFeedFilter) ([]models.JobView, models.Page, error)
	MyJobs(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.JobView, models.Page, error)
	AssignedJobs(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.JobView, models.Page, error)
	GetByID(ctx context.Context, userID, jobID primitive.ObjectID) (*models.JobView, error)
	Start(ctx context.Context, userID, jobID, freelancerID primitive.ObjectID) error
	Complete(ctx context.Context, userID, jobID primitive.ObjectID) error
	SubmitWork(ctx context.Context, userID, jobID primitive.ObjectID) error
	Confirm(ctx context.Context, userID, jobID primitive.ObjectID) error
	FreelancerCompletedCount(ctx context.Context, freelancerID primitive.ObjectID) (int64, error)
}

type jobService struct {
	users repositories.UserRepository
	jobs  repositories.JobRepository
	apps  repositories.ApplicationRepository
}

func NewJobService(users repositories.UserRepository, jobs repositories.JobRepository, apps repositories.ApplicationRepository) JobService {
	return &jobService{users: users, jobs: jobs, apps: apps}
}

func (s *jobService) Create(ctx context.Context, userID primitive.ObjectID, req models.CreateJobRequest) (*models.Job, error) {
	user, err := requireCompletedProfile(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" || req.Category == "" {
		return nil, apperrors.Invalid("Title, category and description are required")
	}
	if req.Budget <= 0 {
		return nil, apperrors.Invalid("Budget must be greater than zero")
	}
	if !req.Deadline.After(time.Now()) {
		return nil, apperrors.Invalid("Deadline must be in the future")
	}
	if !req.ExperienceLevel.Valid() {
		return nil, apperrors.Invalid("Experience level must be Beginner, Intermediate or Expert")
	}

	return s.jobs.Create(ctx, &models.Job{
		Title:           req.Title,
		Category:        req.Category,
		Description:     req.Description,
		Budget:          req.Budget,
		Deadline:        req.Deadline,
		ExperienceLevel: req.ExperienceLevel,
		SkillsRequired:  req.SkillsRequired,
		PostedBy:        userID,
		University:      user.University,
		Status:          models.JobOpen,
	})
}

// Feed lists OPEN jobs on the caller's campus, excluding the caller's own.
func (s *jobService) Feed(ctx context.Context, userID primitive.ObjectID, filter models.JobFeedFilter) ([]models.JobView, models.Page, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, models.Page{}, err
	}
	if user == nil {
		return nil, models.Page{}, apperrors.NotFound("User not found")
	}
	if user.University == "" {
		return nil, models.Page{}, apperrors.Forbidden("Set your university to browse campus jobs")
	}

	jobs, total, err := s.jobs.FindFeed(ctx, user.University, userID, filter)
	if err != nil {
		return nil, models.Page{}, err
	}
	views, err := s.buildViews(ctx, jobs)
	if err != nil {
		return nil, models.Page{}, err
	}
	return views, models.NewPage(len(views), total, filter.Page, filter.Limit), nil
}

func (s *jobService) MyJobs(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.JobView, models.Page, error) {
	jobs, total, err := s.jobs.FindByPoster(ctx, userID, page, limit)
	if err != nil {
		return nil, models.Page{}, err
	}
	views, err := s.buildViews(ctx, jobs)
	if err != nil {
		return nil, models.Page{}, err
	}
	return views, models.NewPage(len(views), total, page, limit), nil
}

func (s *jobService) AssignedJobs(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.JobView, models.Page, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, models.Page{}, err
	}
	if user == nil {
		return nil, models.Page{}, apperrors.NotFound("User not found")
	}

	jobs, total, err := s.jobs.FindByAssignee(ctx, userID, user.University, page, limit)
	if err != nil {
		return nil, models.Page{}, err
	}
	views, err := s.buildViews(ctx, jobs)
	if err != nil {
		return nil, models.Page{}, err
	}
	return views, models.NewPage(len(views), total, page, limit), nil
}

func (s *jobService) GetByID(ctx context.Context, userID, jobID primitive.ObjectID) (*models.JobView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperrors.NotFound("Job not found")
	}
	if job.University != user.University {
		return nil, apperrors.Forbidden("This job belongs to a different campus")
	}

	views, err := s.buildViews(ctx, []models.Job{*job})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Start assigns the job to a freelancer who applied. Other pending
// applications are declined first; the final job update carries an OPEN
// guard so a concurrent double start cannot both win. A failure between the
// application updates and the job update is accepted without rollback.
func (s *jobService) Start(ctx context.Context, userID, jobID, freelancerID primitive.ObjectID) error {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return apperrors.NotFound("Job not found")
	}
	if job.PostedBy != userID {
		return apperrors.Forbidden("Only the job poster can start this job")
	}
	if job.Status != models.JobOpen {
		return apperrors.Conflict("Job is no longer open")
	}

	freelancer, err := s.users.FindByID(ctx, freelancerID)
	if err != nil {
		return err
	}
	if freelancer == nil {
		return apperrors.NotFound("Freelancer not found")
	}
	if freelancer.University != job.University {
		return apperrors.Forbidden("Freelancer belongs to a different campus")
	}

	app, err := s.apps.FindByJobAndFreelancer(ctx, jobID, freelancerID)
	if err != nil {
		return err
	}
	if app == nil {
		return apperrors.NotFound("This freelancer has not applied to the job")
	}

	if err := s.apps.DeclineOthers(ctx, jobID, app.ID); err != nil {
		return err
	}
	if err := s.apps.SetStatus(ctx, app.ID, models.ApplicationAccepted); err != nil {
		return err
	}

	ok, err := s.jobs.UpdateStatus(ctx, jobID, models.JobOpen, models.JobInProgress, bson.M{"assigned_to": freelancerID})
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Conflict("Job has already been started")
	}
	return nil
}

// Complete is the poster's IN_PROGRESS -> COMPLETED transition.
func (s *jobService) Complete(ctx context.Context, userID, jobID primitive.ObjectID) error {
	return s.advance(ctx, userID, jobID, models.JobInProgress, models.JobCompleted, roleClient)
}

// SubmitWork is the assignee's IN_PROGRESS -> COMPLETED transition.
func (s *jobService) SubmitWork(ctx context.Context, userID, jobID primitive.ObjectID) error {
	return s.advance(ctx, userID, jobID, models.JobInProgress, models.JobCompleted, roleFreelancer)
}

// Confirm is the assignee's COMPLETED -> CLOSED transition.
func (s *jobService) Confirm(ctx context.Context, userID, jobID primitive.ObjectID) error {
	return s.advance(ctx, userID, jobID, models.JobCompleted, models.JobClosed, roleFreelancer)
}

type jobRole int

const (
	roleClient jobRole = iota
	roleFreelancer
)

func (s *jobService) advance(ctx context.Context, userID, jobID primitive.ObjectID, from, to models.JobStatus, role jobRole) error {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return apperrors.NotFound("Job not found")
	}
	switch role {
	case roleClient:
		if job.PostedBy != userID {
			return apperrors.Forbidden("Only the job poster can do this")
		}
	case roleFreelancer:
		if job.AssignedTo == nil || *job.AssignedTo != userID {
			return apperrors.Forbidden("Only the assigned freelancer can do this")
		}
	}

	ok, err := s.jobs.UpdateStatus(ctx, jobID, from, to, nil)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Conflict("Job is not in the right state for this action")
	}
	return nil
}

// FreelancerCompletedCount counts jobs the freelancer finished, including
// those already closed by a review.
func (s *jobService) FreelancerCompletedCount(ctx context.Context, freelancerID primitive.ObjectID) (int64, error) {
	return s.jobs.CountByAssigneeAndStatus(ctx, freelancerID, []models.JobStatus{models.JobCompleted, models.JobClosed})
}

// buildViews populates poster/assignee references and proposal counts.
func (s *jobService) buildViews(ctx context.Context, jobs []models.Job) ([]models.JobView, error) {
	ids := make([]primitive.ObjectID, 0, len(jobs)*2)
	jobIDs := make([]primitive.ObjectID, 0, len(jobs))
	for i := range jobs {
		ids = append(ids, jobs[i].PostedBy)
		if jobs[i].AssignedTo != nil {
			ids = append(ids, *jobs[i].AssignedTo)
		}
		jobIDs = append(jobIDs, jobs[i].ID)
	}

	summaries, err := summariesByID(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.apps.CountByJobIDs(ctx, jobIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.JobView, 0, len(jobs))
	for i := range jobs {
		view := models.JobView{
			Job:           jobs[i],
			PostedBy:      models.UserRef{ID: jobs[i].PostedBy, User: summaries[jobs[i].PostedBy]},
			ProposalCount: counts[jobs[i].ID],
		}
		if jobs[i].AssignedTo != nil {
			view.AssignedTo = &models.UserRef{ID: *jobs[i].AssignedTo, User: summaries[*jobs[i].AssignedTo]}
		}
		views = append(views, view)
	}
	return views, nil
}

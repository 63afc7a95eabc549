package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/apperrors"
	"unihub/internal/models"
	"unihub/internal/repositories"
)

type ApplicationService interface {
	Create(ctx context.Context, userID primitive.ObjectID, req models.CreateApplicationRequest) (*models.Application, error)
	FreelancerApplications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.ApplicationView, models.Page, error)
	ClientApplications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.ApplicationView, models.Page, error)
	Withdraw(ctx context.Context, userID, applicationID primitive.ObjectID) error
}

type applicationService struct {
	users    repositories.UserRepository
	jobs     repositories.JobRepository
	apps     repositories.ApplicationRepository
	notifier Notifier
}

func NewApplicationService(users repositories.UserRepository, jobs repositories.JobRepository, apps repositories.ApplicationRepository, notifier Notifier) ApplicationService {
	return &applicationService{users: users, jobs: jobs, apps: apps, notifier: notifier}
}

// Create submits a proposal. The (job, freelancer) unique index is the final
// arbiter on duplicates; a racing second insert surfaces as Conflict.
func (s *applicationService) Create(ctx context.Context, userID primitive.ObjectID, req models.CreateApplicationRequest) (*models.Application, error) {
	user, err := requireCompletedProfile(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	jobID, err := primitive.ObjectIDFromHex(req.JobID)
	if err != nil {
		return nil, apperrors.Invalid("Invalid job ID")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return nil, apperrors.Invalid("A message is required")
	}
	if !req.AgreementAccepted {
		return nil, apperrors.Invalid("You must accept the agreement to apply")
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
	if job.PostedBy == userID {
		return nil, apperrors.Forbidden("You cannot apply to your own job")
	}
	if job.Status != models.JobOpen {
		return nil, apperrors.Conflict("Job is no longer open")
	}

	app, err := s.apps.Create(ctx, &models.Application{
		JobID:             jobID,
		FreelancerID:      userID,
		Message:           req.Message,
		CoverLetter:       req.CoverLetter,
		Phone:             req.Phone,
		Budget:            req.Budget,
		PricingType:       req.PricingType,
		DeliveryDays:      req.DeliveryDays,
		Skills:            req.Skills,
		PortfolioLink:     req.PortfolioLink,
		AgreementAccepted: req.AgreementAccepted,
		Status:            models.ApplicationPending,
	})
	if err != nil {
		return nil, err
	}

	if poster, perr := s.users.FindByID(ctx, job.PostedBy); perr == nil && poster != nil {
		s.notifier.SendNewApplication(poster, job, user)
	}
	return app, nil
}

// FreelancerApplications lists the caller's proposals with their jobs
// populated. Rows whose job is gone or on another campus are dropped, never
// an error.
func (s *applicationService) FreelancerApplications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.ApplicationView, models.Page, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, models.Page{}, err
	}
	if user == nil {
		return nil, models.Page{}, apperrors.NotFound("User not found")
	}

	apps, total, err := s.apps.FindByFreelancer(ctx, userID, page, limit)
	if err != nil {
		return nil, models.Page{}, err
	}

	jobIDs := make([]primitive.ObjectID, 0, len(apps))
	for i := range apps {
		jobIDs = append(jobIDs, apps[i].JobID)
	}
	jobs, err := s.jobs.FindManyByIDs(ctx, jobIDs)
	if err != nil {
		return nil, models.Page{}, err
	}
	jobsByID := make(map[primitive.ObjectID]*models.Job, len(jobs))
	for i := range jobs {
		jobsByID[jobs[i].ID] = &jobs[i]
	}

	views := make([]models.ApplicationView, 0, len(apps))
	for i := range apps {
		job, ok := jobsByID[apps[i].JobID]
		if !ok || job.University != user.University {
			continue
		}
		views = append(views, models.ApplicationView{Application: apps[i], Job: job})
	}
	return views, models.NewPage(len(views), total, page, limit), nil
}

// ClientApplications lists proposals received across all of the caller's
// jobs, with freelancer references populated and cross-campus rows dropped.
func (s *applicationService) ClientApplications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.ApplicationView, models.Page, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, models.Page{}, err
	}
	if user == nil {
		return nil, models.Page{}, apperrors.NotFound("User not found")
	}

	jobIDs, err := s.jobs.FindIDsByPoster(ctx, userID)
	if err != nil {
		return nil, models.Page{}, err
	}
	apps, total, err := s.apps.FindByJobIDs(ctx, jobIDs, page, limit)
	if err != nil {
		return nil, models.Page{}, err
	}

	relatedJobIDs := make([]primitive.ObjectID, 0, len(apps))
	freelancerIDs := make([]primitive.ObjectID, 0, len(apps))
	for i := range apps {
		relatedJobIDs = append(relatedJobIDs, apps[i].JobID)
		freelancerIDs = append(freelancerIDs, apps[i].FreelancerID)
	}
	jobs, err := s.jobs.FindManyByIDs(ctx, relatedJobIDs)
	if err != nil {
		return nil, models.Page{}, err
	}
	jobsByID := make(map[primitive.ObjectID]*models.Job, len(jobs))
	for i := range jobs {
		jobsByID[jobs[i].ID] = &jobs[i]
	}
	freelancers, err := summariesByID(ctx, s.users, freelancerIDs)
	if err != nil {
		return nil, models.Page{}, err
	}

	views := make([]models.ApplicationView, 0, len(apps))
	for i := range apps {
		freelancer := freelancers[apps[i].FreelancerID]
		if freelancer == nil || freelancer.University != user.University {
			continue
		}
		views = append(views, models.ApplicationView{
			Application: apps[i],
			Job:         jobsByID[apps[i].JobID],
			Freelancer:  &models.UserRef{ID: apps[i].FreelancerID, User: freelancer},
		})
	}
	return views, models.NewPage(len(views), total, page, limit), nil
}

// Withdraw flags the application DECLINED. The record stays for history;
// only the applicant or the job poster may do this.
func (s *applicationService) Withdraw(ctx context.Context, userID, applicationID primitive.ObjectID) error {
	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app == nil {
		return apperrors.NotFound("Application not found")
	}

	allowed := app.FreelancerID == userID
	if !allowed {
		job, err := s.jobs.FindByID(ctx, app.JobID)
		if err != nil {
			return err
		}
		allowed = job != nil && job.PostedBy == userID
	}
	if !allowed {
		return apperrors.Forbidden("You cannot remove this application")
	}

	return s.apps.SetStatus(ctx, applicationID, models.ApplicationDeclined)
}

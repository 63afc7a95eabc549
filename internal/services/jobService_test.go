package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unihub/internal/apperrors"
	"unihub/internal/models"
)

type jobFixture struct {
	svc   JobService
	users *fakeUserRepo
	jobs  *fakeJobRepo
	apps  *fakeApplicationRepo
}

func newJobFixture() *jobFixture {
	users := newFakeUserRepo()
	jobs := newFakeJobRepo()
	apps := newFakeApplicationRepo()
	return &jobFixture{
		svc:   NewJobService(users, jobs, apps),
		users: users,
		jobs:  jobs,
		apps:  apps,
	}
}

func validJobRequest() models.CreateJobRequest {
	return models.CreateJobRequest{
		Title:           "Build a landing page",
		Category:        "Web Development",
		Description:     "React landing page for a club event",
		Budget:          1500,
		Deadline:        time.Now().Add(72 * time.Hour),
		ExperienceLevel: models.ExperienceBeginner,
		SkillsRequired:  []string{"React"},
	}
}

func TestCreateJob(t *testing.T) {
	f := newJobFixture()
	ctx := context.Background()

	t.Run("incomplete profile is gated", func(t *testing.T) {
		bare := f.users.add(&models.User{Email: "bare@example.com"})
		_, err := f.svc.Create(ctx, bare.ID, validJobRequest())
		assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	})

	poster := f.users.add(completeUser(models.UniversitySRMAP))

	t.Run("stamps poster, campus and status", func(t *testing.T) {
		job, err := f.svc.Create(ctx, poster.ID, validJobRequest())
		require.NoError(t, err)
		assert.Equal(t, poster.ID, job.PostedBy)
		assert.Equal(t, models.UniversitySRMAP, job.University)
		assert.Equal(t, models.JobOpen, job.Status)
	})

	t.Run("past deadline", func(t *testing.T) {
		req := validJobRequest()
		req.Deadline = time.Now().Add(-time.Hour)
		_, err := f.svc.Create(ctx, poster.ID, req)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	})

	t.Run("zero budget", func(t *testing.T) {
		req := validJobRequest()
		req.Budget = 0
		_, err := f.svc.Create(ctx, poster.ID, req)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	})

	t.Run("bad experience level", func(t *testing.T) {
		req := validJobRequest()
		req.ExperienceLevel = "Ninja"
		_, err := f.svc.Create(ctx, poster.ID, req)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	})
}

func TestJobFeedScoping(t *testing.T) {
	f := newJobFixture()
	ctx := context.Background()

	poster := f.users.add(completeUser(models.UniversitySRMAP))
	viewer := f.users.add(completeUser(models.UniversitySRMAP))
	outsider := f.users.add(completeUser(models.UniversityKLU))

	job, err := f.svc.Create(ctx, poster.ID, validJobRequest())
	require.NoError(t, err)

	t.Run("same campus sees the job", func(t *testing.T) {
		views, page, err := f.svc.Feed(ctx, viewer.ID, models.JobFeedFilter{Page: 1, Limit: 20})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, job.ID, views[0].Job.ID)
		assert.Equal(t, poster.ID, views[0].PostedBy.ID)
		require.NotNil(t, views[0].PostedBy.User)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("own jobs are excluded", func(t *testing.T) {
		views, _, err := f.svc.Feed(ctx, poster.ID, models.JobFeedFilter{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("other campus sees nothing", func(t *testing.T) {
		views, _, err := f.svc.Feed(ctx, outsider.ID, models.JobFeedFilter{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("cross-campus direct access is forbidden", func(t *testing.T) {
		_, err := f.svc.GetByID(ctx, outsider.ID, job.ID)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	})
}

func TestJobLifecycle(t *testing.T) {
	f := newJobFixture()
	ctx := context.Background()

	poster := f.users.add(completeUser(models.UniversitySRMAP))
	freelancer := f.users.add(completeUser(models.UniversitySRMAP))
	rival := f.users.add(completeUser(models.UniversitySRMAP))

	job, err := f.svc.Create(ctx, poster.ID, validJobRequest())
	require.NoError(t, err)

	chosen, err := f.apps.Create(ctx, &models.Application{
		JobID: job.ID, FreelancerID: freelancer.ID, Status: models.ApplicationPending,
	})
	require.NoError(t, err)
	other, err := f.apps.Create(ctx, &models.Application{
		JobID: job.ID, FreelancerID: rival.ID, Status: models.ApplicationPending,
	})
	require.NoError(t, err)

	t.Run("only the poster can start", func(t *testing.T) {
		err := f.svc.Start(ctx, freelancer.ID, job.ID, freelancer.ID)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	})

	t.Run("start requires an application", func(t *testing.T) {
		stranger := f.users.add(completeUser(models.UniversitySRMAP))
		err := f.svc.Start(ctx, poster.ID, job.ID, stranger.ID)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("start accepts one, declines the rest", func(t *testing.T) {
		require.NoError(t, f.svc.Start(ctx, poster.ID, job.ID, freelancer.ID))

		updated, _ := f.jobs.FindByID(ctx, job.ID)
		assert.Equal(t, models.JobInProgress, updated.Status)
		require.NotNil(t, updated.AssignedTo)
		assert.Equal(t, freelancer.ID, *updated.AssignedTo)

		acceptedApp, _ := f.apps.FindByID(ctx, chosen.ID)
		assert.Equal(t, models.ApplicationAccepted, acceptedApp.Status)
		declinedApp, _ := f.apps.FindByID(ctx, other.ID)
		assert.Equal(t, models.ApplicationDeclined, declinedApp.Status)
	})

	t.Run("second start conflicts", func(t *testing.T) {
		err := f.svc.Start(ctx, poster.ID, job.ID, rival.ID)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	})

	t.Run("only the assignee can submit work", func(t *testing.T) {
		err := f.svc.SubmitWork(ctx, rival.ID, job.ID)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	})

	t.Run("submit moves to completed", func(t *testing.T) {
		require.NoError(t, f.svc.SubmitWork(ctx, freelancer.ID, job.ID))
		updated, _ := f.jobs.FindByID(ctx, job.ID)
		assert.Equal(t, models.JobCompleted, updated.Status)
	})

	t.Run("submit is not repeatable", func(t *testing.T) {
		err := f.svc.SubmitWork(ctx, freelancer.ID, job.ID)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	})

	t.Run("confirm closes the job", func(t *testing.T) {
		require.NoError(t, f.svc.Confirm(ctx, freelancer.ID, job.ID))
		updated, _ := f.jobs.FindByID(ctx, job.ID)
		assert.Equal(t, models.JobClosed, updated.Status)
	})

	t.Run("completed count includes closed jobs", func(t *testing.T) {
		count, err := f.svc.FreelancerCompletedCount(ctx, freelancer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

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

func TestUpdateProfile(t *testing.T) {
	users := newFakeUserRepo()
	notifier := newFakeNotifier()
	svc := NewUserService(users, notifier)
	ctx := context.Background()

	user := users.add(&models.User{Email: "new@example.com"})

	t.Run("university locks on first write", func(t *testing.T) {
		profile, err := svc.UpdateProfile(ctx, user.ID, models.UserProfileUpdate{
			Name:       "Asha",
			University: "SRM_AP",
			Skills:     []string{"Go", "React"},
			About:      "CS undergrad",
		})
		require.NoError(t, err)
		assert.Equal(t, models.UniversitySRMAP, profile.University)
		assert.True(t, profile.ProfileComplete)
	})

	t.Run("changing the university is forbidden", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, user.ID, models.UserProfileUpdate{University: "KLU"})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	})

	t.Run("resubmitting the same university is fine", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, user.ID, models.UserProfileUpdate{University: "SRM_AP"})
		assert.NoError(t, err)
	})

	t.Run("unsupported university", func(t *testing.T) {
		other := users.add(&models.User{Email: "other@example.com"})
		_, err := svc.UpdateProfile(ctx, other.ID, models.UserProfileUpdate{University: "MIT"})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	})

	t.Run("pointer fields clear on empty string", func(t *testing.T) {
		year := "3rd"
		profile, err := svc.UpdateProfile(ctx, user.ID, models.UserProfileUpdate{YearOfStudy: &year})
		require.NoError(t, err)
		assert.Equal(t, "3rd", profile.YearOfStudy)

		empty := ""
		profile, err = svc.UpdateProfile(ctx, user.ID, models.UserProfileUpdate{YearOfStudy: &empty})
		require.NoError(t, err)
		assert.Empty(t, profile.YearOfStudy)
	})

	t.Run("profile image is CDN-optimized", func(t *testing.T) {
		img := "https://res.cloudinary.com/demo/image/upload/v123/me.jpg"
		profile, err := svc.UpdateProfile(ctx, user.ID, models.UserProfileUpdate{ProfileImage: &img})
		require.NoError(t, err)
		assert.Contains(t, profile.ProfileImage, "w_600,q_auto,f_auto")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.GetProfile(ctx, completeUser(models.UniversityKLU).ID)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})
}

func TestUniversityEmailVerification(t *testing.T) {
	users := newFakeUserRepo()
	notifier := newFakeNotifier()
	svc := NewUserService(users, notifier)
	ctx := context.Background()

	user := users.add(completeUser(models.UniversitySRMAP))

	t.Run("requires a campus first", func(t *testing.T) {
		fresh := users.add(&models.User{Email: "nocampus@example.com"})
		err := svc.SendUniversityOtp(ctx, fresh.ID, "someone@srmap.edu.in")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	})

	t.Run("rejects a foreign domain", func(t *testing.T) {
		err := svc.SendUniversityOtp(ctx, user.ID, "someone@gmail.com")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	})

	t.Run("rejects the other campus's domain", func(t *testing.T) {
		err := svc.SendUniversityOtp(ctx, user.ID, "someone@kluniversity.in")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	})

	t.Run("happy path", func(t *testing.T) {
		require.NoError(t, svc.SendUniversityOtp(ctx, user.ID, "asha@srmap.edu.in"))
		require.Len(t, notifier.universityOtps, 1)
		code := notifier.universityOtps[0]

		t.Run("wrong code", func(t *testing.T) {
			_, err := svc.VerifyUniversityOtp(ctx, user.ID, "000000")
			assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
		})

		profile, err := svc.VerifyUniversityOtp(ctx, user.ID, code)
		require.NoError(t, err)
		assert.True(t, profile.IsUniversityVerified)
		assert.Equal(t, "asha@srmap.edu.in", profile.UniversityEmail)

		// Scratch fields must be gone, so replaying the code fails.
		_, err = svc.VerifyUniversityOtp(ctx, user.ID, code)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	})

	t.Run("already verified", func(t *testing.T) {
		err := svc.SendUniversityOtp(ctx, user.ID, "asha@srmap.edu.in")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	})

	t.Run("expired code", func(t *testing.T) {
		stale := users.add(completeUser(models.UniversityKLU))
		require.NoError(t, svc.SendUniversityOtp(ctx, stale.ID, "late@kluniversity.in"))

		expired := time.Now().Add(-time.Minute)
		users.users[stale.ID].UniversityOtpExpiry = &expired

		_, err := svc.VerifyUniversityOtp(ctx, stale.ID, users.users[stale.ID].UniversityOtp)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})
}

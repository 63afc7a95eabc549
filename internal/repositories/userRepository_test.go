package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/apperrors"
	"unihub/internal/database"
	"unihub/internal/models"
)

// Requires a running MongoDB via MONGO_URI.
func TestUserRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	db := database.New()
	defer db.Close()
	require.NoError(t, database.EnsureIndexes(context.Background(), db))

	userRepo := NewUserRepository(db)
	email := primitive.NewObjectID().Hex() + "@example.com"

	t.Run("Create and Get User", func(t *testing.T) {
		created, err := userRepo.Create(context.Background(), &models.User{Email: email})
		require.NoError(t, err)
		require.NotNil(t, created)

		found, err := userRepo.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)

		byEmail, err := userRepo.FindByEmail(context.Background(), email)
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, created.ID, byEmail.ID)
	})

	t.Run("Duplicate email conflicts", func(t *testing.T) {
		_, err := userRepo.Create(context.Background(), &models.User{Email: email})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	})

	t.Run("Missing user is nil, not an error", func(t *testing.T) {
		found, err := userRepo.FindByID(context.Background(), primitive.NewObjectID())
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Update set and unset", func(t *testing.T) {
		user, err := userRepo.FindByEmail(context.Background(), email)
		require.NoError(t, err)

		err = userRepo.Update(context.Background(), user.ID,
			bson.M{"name": "Asha", "profession": "Designer"}, nil)
		require.NoError(t, err)
		err = userRepo.Update(context.Background(), user.ID, nil, bson.M{"profession": ""})
		require.NoError(t, err)

		updated, err := userRepo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Asha", updated.Name)
		assert.Empty(t, updated.Profession)
	})
}

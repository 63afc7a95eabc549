package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"unihub/internal/database"
	"unihub/internal/models"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error)
	FindActive(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type refreshTokenRepository struct {
	db database.Service
}

func NewRefreshTokenRepository(db database.Service) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	done := timeQuery("create", "refreshToken")
	token.ID = primitive.NewObjectID()
	token.CreatedAt = time.Now()
	_, err := r.db.Collection("refresh_tokens").InsertOne(ctx, token)
	done(err)
	if err != nil {
		return nil, mapDuplicate(err, "Refresh token collision")
	}
	return token, nil
}

// FindActive returns the non-revoked record for a token value, or nil.
// Expiry is checked by the caller.
func (r *refreshTokenRepository) FindActive(ctx context.Context, token string) (*models.RefreshToken, error) {
	done := timeQuery("findActive", "refreshToken")
	var record models.RefreshToken
	err := r.db.Collection("refresh_tokens").FindOne(ctx, bson.M{"token": token, "is_revoked": false}).Decode(&record)
	done(err)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return &record, nil
}

// Revoke flips the revoked flag. Revoking an unknown token is a no-op:
// logout must succeed without a valid session.
func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	done := timeQuery("revoke", "refreshToken")
	_, err := r.db.Collection("refresh_tokens").UpdateOne(ctx,
		bson.M{"token": token},
		bson.M{"$set": bson.M{"is_revoked": true}},
	)
	done(err)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	done := timeQuery("deleteById", "refreshToken")
	_, err := r.db.Collection("refresh_tokens").DeleteOne(ctx, bson.M{"_id": id})
	done(err)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

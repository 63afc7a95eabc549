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

type OtpRepository interface {
	Create(ctx context.Context, otp *models.Otp) (*models.Otp, error)
	Find(ctx context.Context, email, code string) (*models.Otp, error)
	DeleteByEmail(ctx context.Context, email string) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type otpRepository struct {
	db database.Service
}

func NewOtpRepository(db database.Service) OtpRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(ctx context.Context, otp *models.Otp) (*models.Otp, error) {
	done := timeQuery("create", "otp")
	otp.ID = primitive.NewObjectID()
	otp.CreatedAt = time.Now()
	_, err := r.db.Collection("otps").InsertOne(ctx, otp)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to store otp: %w", err)
	}
	return otp, nil
}

// Find matches on (email, code) only. Expiry is the caller's concern: the
// TTL index is not relied upon for correctness.
func (r *otpRepository) Find(ctx context.Context, email, code string) (*models.Otp, error) {
	done := timeQuery("find", "otp")
	var otp models.Otp
	err := r.db.Collection("otps").FindOne(ctx, bson.M{"email": email, "otp": code}).Decode(&otp)
	done(err)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find otp: %w", err)
	}
	return &otp, nil
}

func (r *otpRepository) DeleteByEmail(ctx context.Context, email string) error {
	done := timeQuery("deleteByEmail", "otp")
	_, err := r.db.Collection("otps").DeleteMany(ctx, bson.M{"email": email})
	done(err)
	if err != nil {
		return fmt.Errorf("failed to delete otps: %w", err)
	}
	return nil
}

func (r *otpRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	done := timeQuery("deleteById", "otp")
	_, err := r.db.Collection("otps").DeleteOne(ctx, bson.M{"_id": id})
	done(err)
	if err != nil {
		return fmt.Errorf("failed to delete otp: %w", err)
	}
	return nil
}

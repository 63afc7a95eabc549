package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unihub/internal/database"
	"unihub/internal/models"
)

type InterestRepository interface {
	Create(ctx context.Context, interest *models.BuyerInterest) (*models.BuyerInterest, error)
	FindBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.BuyerInterest, error)
	DeleteByProduct(ctx context.Context, productID primitive.ObjectID) error
}

type interestRepository struct {
	db database.Service
}

func NewInterestRepository(db database.Service) InterestRepository {
	return &interestRepository{db: db}
}

func (r *interestRepository) Create(ctx context.Context, interest *models.BuyerInterest) (*models.BuyerInterest, error) {
	done := timeQuery("create", "buyerInterest")
	interest.ID = primitive.NewObjectID()
	interest.CreatedAt = time.Now()
	_, err := r.db.Collection("buyer_interests").InsertOne(ctx, interest)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to record buyer interest: %w", err)
	}
	return interest, nil
}

func (r *interestRepository) FindBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.BuyerInterest, error) {
	done := timeQuery("findBySeller", "buyerInterest")
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.db.Collection("buyer_interests").Find(ctx, bson.M{"seller_id": sellerID}, opts)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query buyer interests: %w", err)
	}
	defer cursor.Close(ctx)

	var interests []models.BuyerInterest
	err = cursor.All(ctx, &interests)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("error decoding buyer interests: %w", err)
	}
	return interests, nil
}

func (r *interestRepository) DeleteByProduct(ctx context.Context, productID primitive.ObjectID) error {
	done := timeQuery("deleteByProduct", "buyerInterest")
	_, err := r.db.Collection("buyer_interests").DeleteMany(ctx, bson.M{"product_id": productID})
	done(err)
	if err != nil {
		return fmt.Errorf("failed to delete buyer interests: %w", err)
	}
	return nil
}

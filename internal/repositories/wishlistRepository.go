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

type WishlistRepository interface {
	Add(ctx context.Context, entry *models.Wishlist) (*models.Wishlist, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Wishlist, error)
	Remove(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
}

type wishlistRepository struct {
	db database.Service
}

func NewWishlistRepository(db database.Service) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Add(ctx context.Context, entry *models.Wishlist) (*models.Wishlist, error) {
	done := timeQuery("add", "wishlist")
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	_, err := r.db.Collection("wishlists").InsertOne(ctx, entry)
	done(err)
	if err != nil {
		return nil, mapDuplicate(err, "Product is already in your wishlist")
	}
	return entry, nil
}

func (r *wishlistRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Wishlist, error) {
	done := timeQuery("findByUser", "wishlist")
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.db.Collection("wishlists").Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.Wishlist
	err = cursor.All(ctx, &entries)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("error decoding wishlist: %w", err)
	}
	return entries, nil
}

// Remove deletes the entry and reports whether anything matched.
func (r *wishlistRepository) Remove(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	done := timeQuery("remove", "wishlist")
	result, err := r.db.Collection("wishlists").DeleteOne(ctx, bson.M{"user_id": userID, "product_id": productID})
	done(err)
	if err != nil {
		return false, fmt.Errorf("failed to remove wishlist entry: %w", err)
	}
	return result.DeletedCount > 0, nil
}

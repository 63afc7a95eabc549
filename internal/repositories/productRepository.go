package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unihub/internal/database"
	"unihub/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	FindFeed(ctx context.Context, university models.University, exclude primitive.ObjectID, filter models.ProductFeedFilter) ([]models.Product, int64, error)
	FindBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from []models.ProductStatus, to models.ProductStatus) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type productRepository struct {
	db database.Service
}

func NewProductRepository(db database.Service) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	done := timeQuery("create", "product")
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	_, err := r.db.Collection("products").InsertOne(ctx, product)
	done(err)
	if err != nil {
		log.Error().Err(err).Str("seller_id", product.SellerID.Hex()).Msg("Failed to insert product into database")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	done := timeQuery("findById", "product")
	var product models.Product
	err := r.db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	done(err)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (r *productRepository) FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	done := timeQuery("findManyByIds", "product")
	cursor, err := r.db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	err = cursor.All(ctx, &products)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("error decoding products: %w", err)
	}
	return products, nil
}

// FindFeed returns the page of products for one campus, newest first,
// excluding the caller's own listings, plus the total count for the filter.
func (r *productRepository) FindFeed(ctx context.Context, university models.University, exclude primitive.ObjectID, filter models.ProductFeedFilter) ([]models.Product, int64, error) {
	query := bson.M{
		"university_id": university,
		"seller_id":     bson.M{"$ne": exclude},
	}
	if filter.Category != "" {
		query["category"] = bson.M{"$regex": "^" + regexp.QuoteMeta(filter.Category) + "$", "$options": "i"}
	}
	if filter.Search != "" {
		regex := bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
		}
	}

	done := timeQuery("findFeed", "product")
	coll := r.db.Collection("products")

	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		done(err)
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((filter.Page - 1) * filter.Limit).
		SetLimit(filter.Limit)
	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		done(err)
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	err = cursor.All(ctx, &products)
	done(err)
	if err != nil {
		return nil, 0, fmt.Errorf("error decoding products: %w", err)
	}
	return products, total, nil
}

func (r *productRepository) FindBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Product, error) {
	done := timeQuery("findBySeller", "product")
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.db.Collection("products").Find(ctx, bson.M{"seller_id": sellerID}, opts)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query seller products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	err = cursor.All(ctx, &products)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("error decoding products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	done := timeQuery("update", "product")
	if set == nil {
		set = bson.M{}
	}
	set["updated_at"] = time.Now()
	_, err := r.db.Collection("products").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	done(err)
	if err != nil {
		log.Error().Err(err).Str("product_id", id.Hex()).Msg("Error updating product")
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// UpdateStatus advances a product only if it is still in one of the expected
// states. Returns false when the guard did not match.
func (r *productRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []models.ProductStatus, to models.ProductStatus) (bool, error) {
	done := timeQuery("updateStatus", "product")
	result, err := r.db.Collection("products").UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}},
	)
	done(err)
	if err != nil {
		return false, fmt.Errorf("failed to update product status: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	done := timeQuery("delete", "product")
	_, err := r.db.Collection("products").DeleteOne(ctx, bson.M{"_id": id})
	done(err)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

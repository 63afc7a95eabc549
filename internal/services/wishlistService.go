package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/apperrors"
	"unihub/internal/models"
	"unihub/internal/repositories"
)

type WishlistService interface {
	Add(ctx context.Context, userID, productID primitive.ObjectID) error
	Remove(ctx context.Context, userID, productID primitive.ObjectID) error
	List(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.ProductView, models.Page, error)
}

type wishlistService struct {
	users     repositories.UserRepository
	products  repositories.ProductRepository
	wishlists repositories.WishlistRepository
}

func NewWishlistService(users repositories.UserRepository, products repositories.ProductRepository, wishlists repositories.WishlistRepository) WishlistService {
	return &wishlistService{users: users, products: products, wishlists: wishlists}
}

// Add saves a product. Adding the same product twice is a success, not an
// error: the duplicate-key outcome of the unique index is swallowed.
func (s *wishlistService) Add(ctx context.Context, userID, productID primitive.ObjectID) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperrors.NotFound("Product not found")
	}

	_, err = s.wishlists.Add(ctx, &models.Wishlist{UserID: userID, ProductID: productID})
	if err != nil && apperrors.IsCode(err, apperrors.CodeConflict) {
		return nil
	}
	return err
}

func (s *wishlistService) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	removed, err := s.wishlists.Remove(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.NotFound("Product is not in your wishlist")
	}
	return nil
}

// List returns the saved products, newest first. Entries whose product has
// been deleted since saving are dropped silently.
func (s *wishlistService) List(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.ProductView, models.Page, error) {
	entries, err := s.wishlists.FindByUser(ctx, userID)
	if err != nil {
		return nil, models.Page{}, err
	}

	productIDs := make([]primitive.ObjectID, 0, len(entries))
	for i := range entries {
		productIDs = append(productIDs, entries[i].ProductID)
	}
	products, err := s.products.FindManyByIDs(ctx, productIDs)
	if err != nil {
		return nil, models.Page{}, err
	}
	productsByID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		productsByID[products[i].ID] = &products[i]
	}

	// Keep wishlist order, drop dangling references.
	ordered := make([]models.Product, 0, len(entries))
	for i := range entries {
		if product, ok := productsByID[entries[i].ProductID]; ok {
			ordered = append(ordered, *product)
		}
	}

	total := int64(len(ordered))
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	pageItems := ordered[start:end]

	sellerIDs := make([]primitive.ObjectID, 0, len(pageItems))
	for i := range pageItems {
		sellerIDs = append(sellerIDs, pageItems[i].SellerID)
	}
	sellers, err := summariesByID(ctx, s.users, sellerIDs)
	if err != nil {
		return nil, models.Page{}, err
	}

	views := make([]models.ProductView, 0, len(pageItems))
	for i := range pageItems {
		views = append(views, models.ProductView{
			Product: pageItems[i],
			Seller:  models.UserRef{ID: pageItems[i].SellerID, User: sellers[pageItems[i].SellerID]},
		})
	}
	return views, models.NewPage(len(views), total, page, limit), nil
}

package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/apperrors"
	"unihub/internal/models"
	"unihub/internal/repositories"
	"unihub/internal/utils"
)

type ProductService interface {
	Create(ctx context.Context, userID primitive.ObjectID, req models.CreateProductRequest) (*models.Product, error)
	Feed(ctx context.Context, userID primitive.ObjectID, filter models.ProductFeedFilter) ([]models.ProductView, models.Page, error)
	MyDashboard(ctx context.Context, userID primitive.ObjectID) (*models.SellerDashboard, error)
	GetByID(ctx context.Context, userID, productID primitive.ObjectID) (*models.ProductView, error)
	Update(ctx context.Context, userID, productID primitive.ObjectID, req models.UpdateProductRequest) (*models.Product, error)
	Reserve(ctx context.Context, userID, productID primitive.ObjectID) error
	MarkSold(ctx context.Context, userID, productID primitive.ObjectID) error
	ShowInterest(ctx context.Context, userID, productID primitive.ObjectID, req models.ShowInterestRequest) error
	Delete(ctx context.Context, userID, productID primitive.ObjectID) error
}

type productService struct {
	users     repositories.UserRepository
	products  repositories.ProductRepository
	interests repositories.InterestRepository
	notifier  Notifier
}

func NewProductService(users repositories.UserRepository, products repositories.ProductRepository, interests repositories.InterestRepository, notifier Notifier) ProductService {
	return &productService{users: users, products: products, interests: interests, notifier: notifier}
}

// Create lists a product on the seller's campus. Seller, campus and status
// are always server-assigned.
func (s *productService) Create(ctx context.Context, userID primitive.ObjectID, req models.CreateProductRequest) (*models.Product, error) {
	user, err := requireCompletedProfile(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" || req.Category == "" {
		return nil, apperrors.Invalid("Title, category and description are required")
	}
	if req.Price <= 0 {
		return nil, apperrors.Invalid("Price must be greater than zero")
	}
	if !req.Condition.Valid() {
		return nil, apperrors.Invalid("Condition must be New, Good or Used")
	}

	return s.products.Create(ctx, &models.Product{
		Title:        req.Title,
		Price:        req.Price,
		Category:     req.Category,
		Description:  req.Description,
		Condition:    req.Condition,
		Images:       req.Images,
		SellerID:     userID,
		UniversityID: user.University,
		Status:       models.ProductAvailable,
	})
}

// Feed lists campus products, excluding the caller's own listings.
func (s *productService) Feed(ctx context.Context, userID primitive.ObjectID, filter models.ProductFeedFilter) ([]models.ProductView, models.Page, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, models.Page{}, err
	}
	if user == nil {
		return nil, models.Page{}, apperrors.NotFound("User not found")
	}
	if user.University == "" {
		return nil, models.Page{}, apperrors.Forbidden("Set your university to browse the marketplace")
	}

	products, total, err := s.products.FindFeed(ctx, user.University, userID, filter)
	if err != nil {
		return nil, models.Page{}, err
	}
	views, err := s.buildViews(ctx, products, nil)
	if err != nil {
		return nil, models.Page{}, err
	}
	return views, models.NewPage(len(views), total, filter.Page, filter.Limit), nil
}

// MyDashboard returns the caller's listings grouped into active and sold,
// each carrying its interested buyers.
func (s *productService) MyDashboard(ctx context.Context, userID primitive.ObjectID) (*models.SellerDashboard, error) {
	products, err := s.products.FindBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}

	interests, err := s.interests.FindBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	interestsByProduct, err := s.groupInterests(ctx, interests)
	if err != nil {
		return nil, err
	}

	views, err := s.buildViews(ctx, products, interestsByProduct)
	if err != nil {
		return nil, err
	}

	dashboard := &models.SellerDashboard{
		Active: []models.ProductView{},
		Sold:   []models.ProductView{},
	}
	for _, view := range views {
		if view.Status == models.ProductSold {
			dashboard.Sold = append(dashboard.Sold, view)
		} else {
			dashboard.Active = append(dashboard.Active, view)
		}
	}
	return dashboard, nil
}

func (s *productService) GetByID(ctx context.Context, userID, productID primitive.ObjectID) (*models.ProductView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("Product not found")
	}
	if product.UniversityID != user.University {
		return nil, apperrors.Forbidden("This product belongs to a different campus")
	}

	views, err := s.buildViews(ctx, []models.Product{*product}, nil)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Update edits seller-mutable fields only. Status, seller and campus never
// move through this path.
func (s *productService) Update(ctx context.Context, userID, productID primitive.ObjectID, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("Product not found")
	}
	if product.SellerID != userID {
		return nil, apperrors.Forbidden("Only the seller can edit this product")
	}

	set := bson.M{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.Invalid("Title cannot be empty")
		}
		set["title"] = title
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperrors.Invalid("Price must be greater than zero")
		}
		set["price"] = *req.Price
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Condition != nil {
		if !req.Condition.Valid() {
			return nil, apperrors.Invalid("Condition must be New, Good or Used")
		}
		set["condition"] = *req.Condition
	}
	if req.Images != nil {
		set["images"] = *req.Images
	}

	if len(set) > 0 {
		if err := s.products.Update(ctx, productID, set); err != nil {
			return nil, err
		}
	}
	return s.products.FindByID(ctx, productID)
}

// Reserve moves an AVAILABLE product to RESERVED for a would-be buyer. The
// guard on the update resolves racing buyers to a single winner.
func (s *productService) Reserve(ctx context.Context, userID, productID primitive.ObjectID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("User not found")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperrors.NotFound("Product not found")
	}
	if product.SellerID == userID {
		return apperrors.Forbidden("You cannot reserve your own product")
	}
	if product.UniversityID != user.University {
		return apperrors.Forbidden("This product belongs to a different campus")
	}

	ok, err := s.products.UpdateStatus(ctx, productID, []models.ProductStatus{models.ProductAvailable}, models.ProductReserved)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Conflict("Product is no longer available")
	}
	return nil
}

// MarkSold is seller-only and terminal.
func (s *productService) MarkSold(ctx context.Context, userID, productID primitive.ObjectID) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperrors.NotFound("Product not found")
	}
	if product.SellerID != userID {
		return apperrors.Forbidden("Only the seller can mark this product sold")
	}

	ok, err := s.products.UpdateStatus(ctx, productID,
		[]models.ProductStatus{models.ProductAvailable, models.ProductReserved}, models.ProductSold)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Conflict("Product is already sold")
	}
	return nil
}

// ShowInterest records a buyer lead and pings the seller. Repeat interest
// from the same buyer is allowed.
func (s *productService) ShowInterest(ctx context.Context, userID, productID primitive.ObjectID, req models.ShowInterestRequest) error {
	user, err := requireCompletedProfile(ctx, s.users, userID)
	if err != nil {
		return err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperrors.NotFound("Product not found")
	}
	if product.SellerID == userID {
		return apperrors.Forbidden("You cannot show interest in your own product")
	}
	if product.UniversityID != user.University {
		return apperrors.Forbidden("This product belongs to a different campus")
	}
	if product.Status == models.ProductSold {
		return apperrors.Conflict("Product has already been sold")
	}

	if _, err := s.interests.Create(ctx, &models.BuyerInterest{
		ProductID: productID,
		SellerID:  product.SellerID,
		BuyerID:   userID,
		Message:   strings.TrimSpace(req.Message),
		Phone:     req.Phone,
	}); err != nil {
		return err
	}

	if seller, serr := s.users.FindByID(ctx, product.SellerID); serr == nil && seller != nil {
		s.notifier.SendBuyerInterest(seller, product, user, req.Message, req.Phone)
	}
	return nil
}

// Delete removes a listing and its buyer leads. Wishlist rows referencing it
// are left behind and dropped at read time.
func (s *productService) Delete(ctx context.Context, userID, productID primitive.ObjectID) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperrors.NotFound("Product not found")
	}
	if product.SellerID != userID {
		return apperrors.Forbidden("Only the seller can delete this product")
	}

	if err := s.products.Delete(ctx, productID); err != nil {
		return err
	}
	return s.interests.DeleteByProduct(ctx, productID)
}

// groupInterests resolves buyer identities and buckets entries per product.
func (s *productService) groupInterests(ctx context.Context, interests []models.BuyerInterest) (map[primitive.ObjectID][]models.InterestEntry, error) {
	buyerIDs := make([]primitive.ObjectID, 0, len(interests))
	for i := range interests {
		buyerIDs = append(buyerIDs, interests[i].BuyerID)
	}
	buyers, err := summariesByID(ctx, s.users, buyerIDs)
	if err != nil {
		return nil, err
	}

	grouped := make(map[primitive.ObjectID][]models.InterestEntry)
	for i := range interests {
		entry := models.InterestEntry{
			ID:        interests[i].ID,
			BuyerID:   interests[i].BuyerID,
			Phone:     interests[i].Phone,
			Message:   interests[i].Message,
			CreatedAt: interests[i].CreatedAt,
		}
		if buyer := buyers[interests[i].BuyerID]; buyer != nil {
			entry.BuyerName = buyer.Name
			entry.BuyerEmail = buyer.Email
		}
		grouped[interests[i].ProductID] = append(grouped[interests[i].ProductID], entry)
	}
	return grouped, nil
}

// buildViews populates seller references, optimizes image URLs and attaches
// buyer interest when provided.
func (s *productService) buildViews(ctx context.Context, products []models.Product, interestsByProduct map[primitive.ObjectID][]models.InterestEntry) ([]models.ProductView, error) {
	sellerIDs := make([]primitive.ObjectID, 0, len(products))
	for i := range products {
		sellerIDs = append(sellerIDs, products[i].SellerID)
	}
	sellers, err := summariesByID(ctx, s.users, sellerIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.ProductView, 0, len(products))
	for i := range products {
		product := products[i]
		product.Images = utils.OptimizeImageURLs(product.Images)
		view := models.ProductView{
			Product: product,
			Seller:  models.UserRef{ID: product.SellerID, User: sellers[product.SellerID]},
		}
		if interestsByProduct != nil {
			view.InterestedBuyers = interestsByProduct[product.ID]
		}
		views = append(views, view)
	}
	return views, nil
}

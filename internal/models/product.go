package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductStatus moves strictly forward: AVAILABLE -> RESERVED -> SOLD.
// RESERVED is reachable only from AVAILABLE; SOLD from any non-SOLD state,
// and only by the seller.
type ProductStatus string

const (
	ProductAvailable ProductStatus = "AVAILABLE"
	ProductReserved  ProductStatus = "RESERVED"
	ProductSold      ProductStatus = "SOLD"
)

type ProductCondition string

const (
	ConditionNew  ProductCondition = "New"
	ConditionGood ProductCondition = "Good"
	ConditionUsed ProductCondition = "Used"
)

func (c ProductCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionUsed:
		return true
	}
	return false
}

type Product struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Price        float64            `json:"price" bson:"price"`
	Category     string             `json:"category" bson:"category"`
	Description  string             `json:"description" bson:"description"`
	Condition    ProductCondition   `json:"condition" bson:"condition"`
	Images       []string           `json:"images" bson:"images"`
	SellerID     primitive.ObjectID `json:"sellerId" bson:"seller_id"`
	UniversityID University         `json:"universityId" bson:"university_id"`
	Status       ProductStatus      `json:"status" bson:"status"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ProductView is a product with a populated seller reference and CDN-sized
// image URLs.
type ProductView struct {
	Product
	Seller           UserRef         `json:"seller"`
	InterestedBuyers []InterestEntry `json:"interestedBuyers,omitempty"`
}

// CreateProductRequest is the POST /api/products body. sellerId, universityId
// and status are server-assigned and deliberately absent.
type CreateProductRequest struct {
	Title       string           `json:"title"`
	Price       float64          `json:"price"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Condition   ProductCondition `json:"condition"`
	Images      []string         `json:"images"`
}

// UpdateProductRequest carries the seller-editable fields only.
type UpdateProductRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Price       *float64          `json:"price,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Condition   *ProductCondition `json:"condition,omitempty"`
	Images      *[]string         `json:"images,omitempty"`
}

// BuyerInterest is an append-only notification record; duplicates per
// (buyer, product) are allowed.
type BuyerInterest struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProductID primitive.ObjectID `json:"productId" bson:"product_id"`
	SellerID  primitive.ObjectID `json:"sellerId" bson:"seller_id"`
	BuyerID   primitive.ObjectID `json:"buyerId" bson:"buyer_id"`
	Message   string             `json:"message" bson:"message"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// InterestEntry is a buyer interest as shown on the seller dashboard.
type InterestEntry struct {
	ID         primitive.ObjectID `json:"id"`
	BuyerID    primitive.ObjectID `json:"buyerId"`
	BuyerName  string             `json:"buyerName"`
	BuyerEmail string             `json:"buyerEmail"`
	Phone      string             `json:"phone,omitempty"`
	Message    string             `json:"message"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// SellerDashboard groups the seller's own listings with their buyer
// interest, split by lifecycle.
type SellerDashboard struct {
	Active []ProductView `json:"active"`
	Sold   []ProductView `json:"sold"`
}

type ShowInterestRequest struct {
	Message string `json:"message"`
	Phone   string `json:"phone,omitempty"`
}

// ProductFeedFilter carries the GET /api/products query parameters.
type ProductFeedFilter struct {
	Category string
	Search   string
	Page     int64
	Limit    int64
}

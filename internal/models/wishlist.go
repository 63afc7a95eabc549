package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wishlist is a pure save-list entry; (user_id, product_id) is unique and
// adds are idempotent.
type Wishlist struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"user_id"`
	ProductID primitive.ObjectID `json:"productId" bson:"product_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

type AddWishlistRequest struct {
	ProductID string `json:"productId"`
}

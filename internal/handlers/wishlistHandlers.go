package handlers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/models"
	"unihub/internal/services"
	"unihub/internal/utils"
)

type WishlistHandler struct {
	service services.WishlistService
}

func NewWishlistHandler(service services.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service}
}

func (h *WishlistHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.AddWishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	productID, err := primitive.ObjectIDFromHex(reqBody.ProductID)
	if err != nil {
		utils.SendJSONError(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Add(r.Context(), userID, productID); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Product added to wishlist", nil)
}

func (h *WishlistHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	productID, err := utils.GetObjectIDFromVars(w, r, "productId")
	if err != nil {
		return
	}

	if err := h.service.Remove(r.Context(), userID, productID); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Product removed from wishlist", nil)
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	page, limit := utils.ParsePagination(r)
	products, pageInfo, err := h.service.List(r.Context(), userID, page, limit)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, listPayload("products", products, pageInfo))
}

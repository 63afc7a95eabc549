package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"unihub/internal/models"
	"unihub/internal/services"
	"unihub/internal/utils"
)

type ProductHandler struct {
	service services.ProductService
}

func NewProductHandler(service services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	product, err := h.service.Create(r.Context(), userID, reqBody)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	log.Info().Str("product_id", product.ID.Hex()).Str("seller_id", userID.Hex()).Msg("Product listed")
	utils.RespondWithJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	page, limit := utils.ParsePagination(r)
	filter := models.ProductFeedFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Page:     page,
		Limit:    limit,
	}

	products, pageInfo, err := h.service.Feed(r.Context(), userID, filter)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, listPayload("products", products, pageInfo))
}

func (h *ProductHandler) GetMyProducts(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	dashboard, err := h.service.MyDashboard(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dashboard)
}

func (h *ProductHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	productID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	product, err := h.service.GetByID(r.Context(), userID, productID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	productID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var reqBody models.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	product, err := h.service.Update(r.Context(), userID, productID, reqBody)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) ReserveProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	productID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.Reserve(r.Context(), userID, productID); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Product reserved", nil)
}

func (h *ProductHandler) MarkProductSold(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	productID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.MarkSold(r.Context(), userID, productID); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Product marked as sold", nil)
}

func (h *ProductHandler) ShowInterest(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	productID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var reqBody models.ShowInterestRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.service.ShowInterest(r.Context(), userID, productID, reqBody); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "The seller has been notified", nil)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	productID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.Delete(r.Context(), userID, productID); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Product deleted", nil)
}

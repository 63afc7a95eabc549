package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"unihub/internal/models"
	"unihub/internal/services"
	"unihub/internal/utils"
)

type ReviewHandler struct {
	service services.ReviewService
}

func NewReviewHandler(service services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	review, err := h.service.Create(r.Context(), userID, reqBody)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	log.Info().Str("review_id", review.ID.Hex()).Str("job_id", review.JobID.Hex()).Msg("Review created")
	utils.RespondWithJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) GetFreelancerReviews(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.GetUserIDFromContext(w, r); err != nil {
		return
	}
	freelancerID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	reviews, err := h.service.FreelancerReviews(r.Context(), freelancerID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) GetJobReview(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.GetUserIDFromContext(w, r); err != nil {
		return
	}
	jobID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	review, err := h.service.JobReview(r.Context(), jobID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, review)
}

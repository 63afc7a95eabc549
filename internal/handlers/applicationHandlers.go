package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"unihub/internal/models"
	"unihub/internal/services"
	"unihub/internal/utils"
)

type ApplicationHandler struct {
	service services.ApplicationService
}

func NewApplicationHandler(service services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

func (h *ApplicationHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	app, err := h.service.Create(r.Context(), userID, reqBody)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	log.Info().Str("application_id", app.ID.Hex()).Str("job_id", app.JobID.Hex()).Msg("Application submitted")
	utils.RespondWithJSON(w, http.StatusCreated, app)
}

func (h *ApplicationHandler) GetFreelancerApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	page, limit := utils.ParsePagination(r)
	apps, pageInfo, err := h.service.FreelancerApplications(r.Context(), userID, page, limit)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, listPayload("applications", apps, pageInfo))
}

func (h *ApplicationHandler) GetClientApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	page, limit := utils.ParsePagination(r)
	apps, pageInfo, err := h.service.ClientApplications(r.Context(), userID, page, limit)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, listPayload("applications", apps, pageInfo))
}

func (h *ApplicationHandler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	applicationID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.Withdraw(r.Context(), userID, applicationID); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Application withdrawn", nil)
}

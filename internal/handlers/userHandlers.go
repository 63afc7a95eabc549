package handlers

import (
	"encoding/json"
	"net/http"

	"unihub/internal/models"
	"unihub/internal/services"
	"unihub/internal/utils"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.UserProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, reqBody)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

type universityVerificationRequest struct {
	UniversityEmail string `json:"universityEmail"`
}

func (h *UserHandler) RequestUniversityVerification(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody universityVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.service.SendUniversityOtp(r.Context(), userID, reqBody.UniversityEmail); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Verification code sent to your university email", nil)
}

type verifyUniversityEmailRequest struct {
	Otp string `json:"otp"`
}

func (h *UserHandler) VerifyUniversityEmail(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody verifyUniversityEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	profile, err := h.service.VerifyUniversityOtp(r.Context(), userID, reqBody.Otp)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"

	"unihub/internal/models"
	"unihub/internal/services"
	"unihub/internal/utils"
)

type AuthHandler struct {
	service services.AuthService
}

func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) SendOtp(w http.ResponseWriter, r *http.Request) {
	var reqBody models.SendOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.service.SendOtp(r.Context(), reqBody.Email); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "OTP sent to your email", nil)
}

func (h *AuthHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var reqBody models.VerifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := h.service.VerifyOtp(r.Context(), reqBody.Email, reqBody.Otp)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	log.Info().Str("user_id", result.User.ID.Hex()).Msg("User logged in")
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var reqBody models.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Refresh(r.Context(), reqBody.RefreshToken)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var reqBody models.RefreshTokenRequest
	// Logout is best effort: a malformed or missing body still succeeds.
	_ = json.NewDecoder(r.Body).Decode(&reqBody)

	if err := h.service.Logout(r.Context(), reqBody.RefreshToken); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Logged out", nil)
}

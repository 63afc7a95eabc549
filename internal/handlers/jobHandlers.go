package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/models"
	"unihub/internal/services"
	"unihub/internal/utils"
)

type JobHandler struct {
	service services.JobService
}

func NewJobHandler(service services.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// listPayload flattens a page of items into the shared list envelope.
func listPayload(key string, items interface{}, page models.Page) map[string]interface{} {
	return map[string]interface{}{
		key:          items,
		"count":      page.Count,
		"total":      page.Total,
		"page":       page.Page,
		"limit":      page.Limit,
		"totalPages": page.TotalPages,
	}
}

func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var reqBody models.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	job, err := h.service.Create(r.Context(), userID, reqBody)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	log.Info().Str("job_id", job.ID.Hex()).Str("user_id", userID.Hex()).Msg("Job created")
	utils.RespondWithJSON(w, http.StatusCreated, job)
}

func (h *JobHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	query := r.URL.Query()
	page, limit := utils.ParsePagination(r)
	filter := models.JobFeedFilter{
		Search:          query.Get("search"),
		Category:        query.Get("category"),
		ExperienceLevel: query.Get("experienceLevel"),
		Page:            page,
		Limit:           limit,
	}
	if v, err := strconv.ParseFloat(query.Get("minBudget"), 64); err == nil {
		filter.MinBudget = &v
	}
	if v, err := strconv.ParseFloat(query.Get("maxBudget"), 64); err == nil {
		filter.MaxBudget = &v
	}

	jobs, pageInfo, err := h.service.Feed(r.Context(), userID, filter)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, listPayload("jobs", jobs, pageInfo))
}

func (h *JobHandler) GetMyJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	page, limit := utils.ParsePagination(r)
	jobs, pageInfo, err := h.service.MyJobs(r.Context(), userID, page, limit)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, listPayload("jobs", jobs, pageInfo))
}

func (h *JobHandler) GetAssignedJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	page, limit := utils.ParsePagination(r)
	jobs, pageInfo, err := h.service.AssignedJobs(r.Context(), userID, page, limit)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, listPayload("jobs", jobs, pageInfo))
}

func (h *JobHandler) GetJobByID(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	jobID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	job, err := h.service.GetByID(r.Context(), userID, jobID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, job)
}

type startJobRequest struct {
	FreelancerID string `json:"freelancerId"`
}

func (h *JobHandler) StartJob(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	jobID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var reqBody startJobRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	freelancerID, err := primitive.ObjectIDFromHex(reqBody.FreelancerID)
	if err != nil {
		utils.SendJSONError(w, "Invalid freelancer ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Start(r.Context(), userID, jobID, freelancerID); err != nil {
		utils.RespondError(w, err)
		return
	}

	log.Info().Str("job_id", jobID.Hex()).Str("freelancer_id", freelancerID.Hex()).Msg("Job started")
	utils.RespondWithMessage(w, http.StatusOK, "Job started", nil)
}

func (h *JobHandler) CompleteJob(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Complete, "Job marked as completed")
}

func (h *JobHandler) SubmitWork(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.SubmitWork, "Work submitted")
}

func (h *JobHandler) ConfirmJob(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Confirm, "Job closed")
}

func (h *JobHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, jobID primitive.ObjectID) error, message string) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}
	jobID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := op(r.Context(), userID, jobID); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, message, nil)
}

func (h *JobHandler) GetFreelancerCompletedCount(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.GetUserIDFromContext(w, r); err != nil {
		return
	}
	freelancerID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	count, err := h.service.FreelancerCompletedCount(r.Context(), freelancerID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"completedJobs": count})
}

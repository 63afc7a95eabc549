package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"unihub/internal/database"
)

type CommonHandler struct {
	db        database.Service
	startedAt time.Time
}

func NewCommonHandler(db database.Service) *CommonHandler {
	return &CommonHandler{db: db, startedAt: time.Now()}
}

func (h *CommonHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"service":       "unihub",
		"db":            h.db.Health(),
		"uptimeSeconds": int64(time.Since(h.startedAt).Seconds()),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("Error encoding health response")
	}
}

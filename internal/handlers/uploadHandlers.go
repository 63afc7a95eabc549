package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/storage"
	"unihub/internal/utils"
)

const maxImageSize = 5 << 20 // 5MB

// Allowed image types, keyed by MIME with their canonical extension.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

type UploadHandler struct {
	store storage.BlobStore
}

func NewUploadHandler(store storage.BlobStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// UploadImage accepts one multipart image up to 5MB and returns its public
// URL. The type check goes by the part's content type, falling back to the
// filename extension for clients that send application/octet-stream.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.GetUserIDFromContext(w, r); err != nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		utils.SendJSONError(w, "Image must be smaller than 5MB", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.SendJSONError(w, "An image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		ext = strings.ToLower(filepath.Ext(header.Filename))
		if !allowedExtensions[ext] {
			utils.SendJSONError(w, "Only jpg, jpeg, png, webp and gif images are allowed", http.StatusBadRequest)
			return
		}
	}

	key := "uploads/" + primitive.NewObjectID().Hex() + ext
	url, err := h.store.Upload(r.Context(), key, file, header.Size, contentType)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload image")
		utils.SendJSONError(w, "Failed to upload image", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"url": url})
}

package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"hourgym/database/repository/gym"
	"hourgym/database/repository/space"
	"hourgym/models"
	"hourgym/services/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StorageHandler handles space photo uploads.
type StorageHandler struct {
	Storage storage.PhotoStorage
	Spaces  spaceRepo.SpaceRepository
	Gyms    gymRepo.GymRepository
}

func NewStorageHandler(st storage.PhotoStorage, spaces spaceRepo.SpaceRepository, gyms gymRepo.GymRepository) *StorageHandler {
	return &StorageHandler{Storage: st, Spaces: spaces, Gyms: gyms}
}

// UploadSpacePhoto handles POST /owner/spaces/:id/photos with a
// multipart "file" field.
func (h *StorageHandler) UploadSpacePhoto(c *gin.Context) {
	s, ok := ownedSpace(c, h.Spaces, h.Gyms)
	if !ok {
		return
	}
	if h.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage is not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "details": err.Error()})
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "details": err.Error()})
		return
	}
	defer os.Remove(tempFilePath)

	publicID, url, err := h.Storage.Upload(c, tempFilePath, "spaces/"+s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload photo", "details": err.Error()})
		return
	}

	existing, _ := h.Spaces.ListPhotos(c, s.ID)
	photo := models.SpacePhoto{
		ID:        uuid.NewString(),
		SpaceID:   s.ID,
		PublicID:  publicID,
		URL:       url,
		Position:  len(existing),
		CreatedAt: time.Now(),
	}
	if err := h.Spaces.AddPhoto(c, &photo); err != nil {
		// The file is already stored; clean it up rather than orphan it.
		_ = h.Storage.Delete(c, publicID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record photo"})
		return
	}

	c.JSON(http.StatusCreated, photo)
}

package uploads

import (
	"github.com/gofiber/fiber/v2"

	"findus-backend/internal/pkg/response"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *Service
}

type uploadRequest struct {
	FileName string `json:"file_name" form:"file_name"`
}

// UploadServiceImage POST /uploads/service-image
func (h *Handlers) UploadServiceImage(c *fiber.Ctx) error {
	return h.signedUpload(c, BucketServiceImages)
}

// UploadProfilePhoto POST /uploads/profile-photo
func (h *Handlers) UploadProfilePhoto(c *fiber.Ctx) error {
	return h.signedUpload(c, BucketProfilePhotos)
}

func (h *Handlers) signedUpload(c *fiber.Ctx, bucket string) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil || req.FileName == "" {
		return response.Error(c, "file_name is required", fiber.StatusBadRequest, nil)
	}
	res, err := h.Service.GetSignedUploadURL(c.Context(), bucket, req.FileName)
	if err != nil {
		if err == ErrNotAnImage {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, "Failed to generate upload URL", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Upload URL generated", res, nil)
}

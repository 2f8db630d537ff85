package reviews

import (
	"github.com/gofiber/fiber/v2"

	"findus-backend/internal/middleware"
	"findus-backend/internal/pkg/response"
)

// Handlers bundles review endpoints with the service.
type Handlers struct {
	Service *Service
}

// CreateReview POST /service/:id/reviews — customer writes one review.
func (h *Handlers) CreateReview(c *fiber.Ctx) error {
	user := middleware.GetSessionUser(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.NotFound(c, ErrServiceNotFound.Error())
	}
	var in CreateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	review, err := h.Service.Create(c.Context(), user.ProfileID, uint(id), in)
	if err != nil {
		switch err {
		case ErrServiceNotFound:
			return response.NotFound(c, err.Error())
		case ErrAlreadyReviewed:
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		case ErrInvalidRating, ErrCommentRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "Review submitted", review, nil)
}

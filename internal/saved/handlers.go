package saved

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"findus-backend/internal/middleware"
	"findus-backend/internal/pkg/response"
)

// Handlers bundles bookmark endpoints with the service.
type Handlers struct {
	Service *Service
}

// ListSaved GET /saved-services — the customer's bookmarks.
func (h *Handlers) ListSaved(c *fiber.Ctx) error {
	user := middleware.GetSessionUser(c)
	result, err := h.Service.List(c.Context(), user.ProfileID, c.QueryInt("page", 1))
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Saved services fetched", fiber.Map{
		"saved_services": result.Saved,
	}, fiber.Map{
		"page":        result.Page,
		"total_pages": result.TotalPages,
		"total_count": result.TotalCount,
		"page_size":   result.PageSize,
	})
}

// SaveService POST /save-service/:id
func (h *Handlers) SaveService(c *fiber.Ctx) error {
	return h.toggle(c, h.Service.Save)
}

// UnsaveService POST /unsave-service/:id
func (h *Handlers) UnsaveService(c *fiber.Ctx) error {
	return h.toggle(c, h.Service.Unsave)
}

func (h *Handlers) toggle(c *fiber.Ctx, op func(context.Context, uint, uint) (*SaveResult, error)) error {
	user := middleware.GetSessionUser(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.NotFound(c, ErrServiceNotFound.Error())
	}
	result, err := op(c.Context(), user.ProfileID, uint(id))
	if err != nil {
		if err == ErrServiceNotFound {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, result.Message, fiber.Map{
		"already_saved": result.AlreadySaved,
	}, nil)
}

package profiles

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"findus-backend/internal/listings"
	"findus-backend/internal/middleware"
	"findus-backend/internal/pkg/response"
)

// Handlers bundles profile endpoints with the profile service and the
// catalog service (the public page lists the craftsman's active services).
type Handlers struct {
	Service  *Service
	Listings *listings.Service
}

// CustomerProfile GET /customer-profile — own profile plus completeness.
func (h *Handlers) CustomerProfile(c *fiber.Ctx) error {
	user := middleware.GetSessionUser(c)
	p, err := h.Service.GetCustomer(c.Context(), user.ProfileID)
	if err != nil {
		return profileError(c, err)
	}
	return response.Success(c, "Profile fetched", fiber.Map{
		"customer":         p,
		"profile_complete": p.HasCompleteProfile(),
	}, nil)
}

// UpdateCustomerProfile PUT /customer-profile
func (h *Handlers) UpdateCustomerProfile(c *fiber.Ctx) error {
	user := middleware.GetSessionUser(c)
	var in CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	p, err := h.Service.UpdateCustomer(c.Context(), user.ProfileID, in)
	if err != nil {
		return profileError(c, err)
	}
	return response.Success(c, "Profile updated successfully!", fiber.Map{
		"customer":         p,
		"profile_complete": p.HasCompleteProfile(),
	}, nil)
}

// CraftsmanProfile GET /craftsman-profile — own profile; ?delete=true
// removes the profile and its services (irreversible).
func (h *Handlers) CraftsmanProfile(c *fiber.Ctx) error {
	user := middleware.GetSessionUser(c)

	if c.Query("delete") == "true" {
		name, err := h.Service.DeleteCraftsman(c.Context(), user.ProfileID)
		if err != nil {
			log.Error().Err(err).Uint("profile_id", user.ProfileID).Msg("delete craftsman profile failed")
			return profileError(c, err)
		}
		return response.Success(c, "Profile '"+name+"' has been deleted successfully!", nil, nil)
	}

	p, err := h.Service.GetCraftsman(c.Context(), user.ProfileID)
	if err != nil {
		return profileError(c, err)
	}
	return response.Success(c, "Profile fetched", fiber.Map{
		"craftsman":        p,
		"profile_complete": p.HasCompleteProfile(),
	}, nil)
}

// UpdateCraftsmanProfile PUT /craftsman-profile
func (h *Handlers) UpdateCraftsmanProfile(c *fiber.Ctx) error {
	user := middleware.GetSessionUser(c)
	var in CraftsmanInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	p, err := h.Service.UpdateCraftsman(c.Context(), user.ProfileID, in)
	if err != nil {
		return profileError(c, err)
	}
	return response.Success(c, "Profile updated successfully!", fiber.Map{
		"craftsman":        p,
		"profile_complete": p.HasCompleteProfile(),
	}, nil)
}

// PublicCraftsman GET /craftsman/:id — public profile with aggregate stats
// and the craftsman's active services.
func (h *Handlers) PublicCraftsman(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.NotFound(c, ErrCraftsmanNotFound.Error())
	}
	craftsman, err := h.Service.GetPublicCraftsman(c.Context(), uint(id))
	if err != nil {
		return profileError(c, err)
	}
	stats, err := h.Service.PublicStats(c.Context(), craftsman)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	services, err := h.Listings.PublicServices(c.Context(), craftsman.ID, c.QueryInt("page", 1))
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Craftsman fetched", fiber.Map{
		"craftsman": craftsman,
		"stats":     stats,
		"services":  services.Services,
	}, fiber.Map{
		"page":        services.Page,
		"total_pages": services.TotalPages,
		"total_count": services.TotalCount,
		"page_size":   services.PageSize,
	})
}

func profileError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrProfileNotFound:
		return response.NotFound(c, err.Error())
	case ErrCraftsmanNotFound:
		return response.NotFound(c, err.Error())
	case ErrInvalidCategory, ErrInvalidExperience, ErrInvalidPhone:
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}

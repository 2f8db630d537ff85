package listings

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"findus-backend/internal/constants"
	"findus-backend/internal/middleware"
	"findus-backend/internal/pkg/response"
)

// Handlers bundles the catalog endpoints with the service.
type Handlers struct {
	Service *Service
}

// CustomerDashboard GET /customer-dashboard — the browse pipeline. Also owns
// the session-location lifecycle: an auto-detect parameter stores a location,
// a visit with zero query parameters echoes the stored state one last time
// and drops it.
func (h *Handlers) CustomerDashboard(c *fiber.Ctx) error {
	values := queryValues(c)

	userState, _ := middleware.GetSessionLocation(c)
	if len(values) == 0 && userState != "" {
		middleware.ClearSessionLocation(c)
	}
	if values.Get("auto_detect") != "" && values.Get("location") != "" {
		userState = values.Get("location")
		middleware.SetSessionLocation(c, userState, "Auto-detected")
	}

	params, err := ParseBrowseParams(values, DashboardPageSize)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}

	result, err := h.Service.Browse(c.Context(), params)
	if err != nil {
		log.Error().Err(err).Msg("browse services failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	return response.Success(c, "Services fetched", fiber.Map{
		"services":   result.Services,
		"filters":    echoFilters(result.Params),
		"choices":    catalogChoices(),
		"user_state": userState,
	}, fiber.Map{
		"page":        result.Page,
		"total_pages": result.TotalPages,
		"total_count": result.TotalCount,
		"page_size":   result.PageSize,
		"querystring": PreserveQuery(values),
	})
}

// SaveLocation POST /save-location — stores or clears the session location.
// Responds with the original endpoint's bare {success} shape.
func (h *Handlers) SaveLocation(c *fiber.Ctx) error {
	var req struct {
		State string `json:"state" form:"state"`
		City  string `json:"city" form:"city"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.JSON(fiber.Map{"success": false})
	}
	if req.State != "" {
		middleware.SetSessionLocation(c, req.State, req.City)
	} else {
		middleware.ClearSessionLocation(c)
	}
	return c.JSON(fiber.Map{"success": true})
}

// ServiceDetail GET /service/:id — annotated service, reviews, rating
// distribution, related services.
func (h *Handlers) ServiceDetail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.NotFound(c, ErrServiceNotFound.Error())
	}
	detail, err := h.Service.GetDetail(c.Context(), uint(id))
	if err != nil {
		if err == ErrServiceNotFound {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Service fetched", detail, nil)
}

// CraftsmanDashboard GET /craftsman-dashboard — the craftsman's own
// services, paginated. ?edit=<id> additionally returns the service being
// edited; ?delete=<id> removes it (destructive, owner-scoped, no
// confirmation step).
func (h *Handlers) CraftsmanDashboard(c *fiber.Ctx) error {
	user := middleware.GetSessionUser(c)

	if raw := c.Query("delete"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return response.NotFound(c, ErrServiceNotFound.Error())
		}
		title, err := h.Service.DeleteService(c.Context(), user.ProfileID, uint(id))
		if err != nil {
			if err == ErrServiceNotFound {
				return response.NotFound(c, err.Error())
			}
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
		return response.Success(c, "Service '"+title+"' has been deleted successfully!", nil, nil)
	}

	var editing interface{}
	if raw := c.Query("edit"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return response.NotFound(c, ErrServiceNotFound.Error())
		}
		svc, err := h.Service.GetOwnService(c.Context(), user.ProfileID, uint(id))
		if err != nil {
			if err == ErrServiceNotFound {
				return response.NotFound(c, err.Error())
			}
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
		editing = svc
	}

	page := c.QueryInt("page", 1)
	result, err := h.Service.OwnerServices(c.Context(), user.ProfileID, page)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Services fetched", fiber.Map{
		"services":        result.Services,
		"editing_service": editing,
		"choices":         catalogChoices(),
	}, fiber.Map{
		"page":        result.Page,
		"total_pages": result.TotalPages,
		"total_count": result.TotalCount,
		"page_size":   result.PageSize,
	})
}

// SaveService POST /craftsman-dashboard — create a service, or update one
// when ?edit=<id> is present.
func (h *Handlers) SaveService(c *fiber.Ctx) error {
	user := middleware.GetSessionUser(c)

	var in ServiceInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	if raw := c.Query("edit"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return response.NotFound(c, ErrServiceNotFound.Error())
		}
		svc, err := h.Service.UpdateService(c.Context(), user.ProfileID, uint(id), in)
		if err != nil {
			return serviceInputError(c, err)
		}
		return response.Success(c, "Service updated successfully!", svc, nil)
	}

	svc, err := h.Service.CreateService(c.Context(), user.ProfileID, in)
	if err != nil {
		return serviceInputError(c, err)
	}
	return response.SuccessCreated(c, "Service created successfully!", svc, nil)
}

func serviceInputError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrServiceNotFound:
		return response.NotFound(c, err.Error())
	case ErrTitleRequired, ErrInvalidCategory, ErrInvalidPriceType,
		ErrHourlyRateRequired, ErrFixedPriceRequired, ErrInvalidAvailability, ErrInvalidJobSize:
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		log.Error().Err(err).Msg("save service failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}

func echoFilters(p BrowseParams) fiber.Map {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return fiber.Map{
		"selected_category":           p.Category,
		"selected_price_type":         p.PriceType,
		"selected_location":           p.Location,
		"selected_availability":       p.Availability,
		"selected_job_size":           p.JobSize,
		"selected_min_price":          p.MinPriceRaw,
		"selected_max_price":          p.MaxPriceRaw,
		"selected_features":           features,
		"selected_materials_included": p.MaterialsIncluded,
		"selected_sort":               p.Sort,
	}
}

func catalogChoices() fiber.Map {
	return fiber.Map{
		"categories":   constants.ServiceCategories,
		"availability": constants.AvailabilityClasses,
		"job_sizes":    constants.JobSizes,
		"features":     constants.ServiceFeatures,
	}
}

// queryValues converts the fasthttp query args into url.Values so the parser
// and the query-string builder can work with a standard type.
func queryValues(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, val []byte) {
		values.Add(string(key), string(val))
	})
	return values
}

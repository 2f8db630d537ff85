package listings

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"findus-backend/internal/constants"
	"findus-backend/internal/models"
)

// Page sizes per surface.
const (
	DashboardPageSize = 9
	OwnerPageSize     = 6
	ProfilePageSize   = 6
)

// ErrInvalidPrice is returned when min_price/max_price is not a number.
var ErrInvalidPrice = errors.New("Enter a valid price.")

// effectivePriceExpr derives the comparison price: hourly rate for hourly
// pricing, fixed price for fixed pricing, zero otherwise.
const effectivePriceExpr = "CASE WHEN services.price_type = 'hourly' THEN services.hourly_rate " +
	"WHEN services.price_type = 'fixed' THEN services.fixed_price ELSE 0 END"

// BrowseParams is the sanitized filter/sort/page parameter set for browsing
// services. Zero values mean pass-through.
type BrowseParams struct {
	Category          string
	PriceType         string
	Location          string
	Availability      string
	JobSize           string
	MinPrice          *float64
	MaxPrice          *float64
	Features          []string
	MaterialsIncluded bool
	Sort              string
	Page              int
	PageSize          int

	// Raw min/max as received, echoed back for form re-rendering.
	MinPriceRaw string
	MaxPriceRaw string
}

// ParseBrowseParams reads the recognized query parameters. Non-numeric price
// bounds are rejected with ErrInvalidPrice; unknown feature tags are
// discarded; an unknown sort falls back to recency; a bad page number falls
// back to 1.
func ParseBrowseParams(values url.Values, pageSize int) (BrowseParams, error) {
	p := BrowseParams{
		Category:     values.Get("category"),
		PriceType:    values.Get("price_type"),
		Location:     values.Get("location"),
		Availability: values.Get("availability"),
		JobSize:      values.Get("job_size"),
		Sort:         values.Get("sort"),
		Page:         1,
		PageSize:     pageSize,
		MinPriceRaw:  values.Get("min_price"),
		MaxPriceRaw:  values.Get("max_price"),
	}

	if p.MinPriceRaw != "" {
		v, err := strconv.ParseFloat(p.MinPriceRaw, 64)
		if err != nil {
			return p, ErrInvalidPrice
		}
		p.MinPrice = &v
	}
	if p.MaxPriceRaw != "" {
		v, err := strconv.ParseFloat(p.MaxPriceRaw, 64)
		if err != nil {
			return p, ErrInvalidPrice
		}
		p.MaxPrice = &v
	}

	for _, f := range values["features"] {
		if constants.IsServiceFeature(f) {
			p.Features = append(p.Features, f)
		}
	}

	p.MaterialsIncluded = isTruthy(values.Get("materials_included"))

	switch p.Sort {
	case "price_low_high", "price_high_low", "rating":
	default:
		p.Sort = ""
	}

	if raw := values.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			p.Page = n
		}
	}
	return p, nil
}

// PreserveQuery re-encodes the query string without the page parameter, for
// pagination links that keep the active filters.
func PreserveQuery(values url.Values) string {
	preserved := url.Values{}
	for k, vs := range values {
		if k == "page" {
			continue
		}
		preserved[k] = vs
	}
	return preserved.Encode()
}

// ServiceView is a Service annotated with the derived aggregates.
type ServiceView struct {
	models.Service
	AvgRating      float64 `gorm:"column:avg_rating" json:"avg_rating"`
	ReviewCount    int64   `gorm:"column:review_count" json:"review_count"`
	EffectivePrice float64 `gorm:"column:effective_price" json:"effective_price"`
}

// BrowseResult is one page of services plus the totals needed to render
// pagination controls.
type BrowseResult struct {
	Services   []ServiceView
	TotalCount int64
	Page       int
	TotalPages int
	PageSize   int
	Params     BrowseParams
}

// applyFilters narrows a services query (already joined to craftsman
// profiles) by the parameter set. Shared by the count and the page fetch so
// both always see the same collection.
func (p BrowseParams) applyFilters(tx *gorm.DB) *gorm.DB {
	tx = tx.Where("services.service_status = ?", constants.StatusActive)
	if p.Category != "" {
		tx = tx.Where("services.category = ?", p.Category)
	}
	if p.PriceType != "" {
		tx = tx.Where("services.price_type = ?", p.PriceType)
	}
	if p.Availability != "" {
		tx = tx.Where("services.availability = ?", p.Availability)
	}
	if p.JobSize != "" {
		tx = tx.Where("services.job_size = ?", p.JobSize)
	}
	if p.Location != "" {
		like := "%" + strings.ToLower(p.Location) + "%"
		tx = tx.Where("(LOWER(craftsman_profiles.city) LIKE ? OR LOWER(craftsman_profiles.state) LIKE ?)", like, like)
	}
	if p.MinPrice != nil {
		tx = tx.Where(effectivePriceExpr+" >= ?", *p.MinPrice)
	}
	if p.MaxPrice != nil {
		tx = tx.Where(effectivePriceExpr+" <= ?", *p.MaxPrice)
	}
	if len(p.Features) > 0 {
		// Features live in a JSON array column; a tag is present iff its
		// quoted form appears. Tags are validated against the known set
		// before they get here.
		conds := make([]string, 0, len(p.Features))
		args := make([]interface{}, 0, len(p.Features))
		for _, f := range p.Features {
			conds = append(conds, "services.features LIKE ?")
			args = append(args, `%"`+f+`"%`)
		}
		tx = tx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	if p.MaterialsIncluded {
		tx = tx.Where("services.materials_included = ?", true)
	}
	return tx
}

// orderClause maps the sort key to SQL. Ties always break by creation time
// descending then id descending so pages are deterministic.
func (p BrowseParams) orderClause() string {
	switch p.Sort {
	case "price_low_high":
		return effectivePriceExpr + " ASC, services.created_at DESC, services.id DESC"
	case "price_high_low":
		return effectivePriceExpr + " DESC, services.created_at DESC, services.id DESC"
	case "rating":
		return "avg_rating DESC, services.created_at DESC, services.id DESC"
	}
	return "services.created_at DESC, services.id DESC"
}

// Paginate clamps a 1-based page against the total and returns the page plus
// the page count (at least 1, like an empty result still has one page).
func Paginate(total int64, page, pageSize int) (clampedPage, totalPages int) {
	totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

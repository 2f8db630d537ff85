package listings

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findus-backend/internal/models"
)

func TestParseBrowseParams_Defaults(t *testing.T) {
	p, err := ParseBrowseParams(url.Values{}, DashboardPageSize)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DashboardPageSize, p.PageSize)
	assert.Nil(t, p.MinPrice)
	assert.Nil(t, p.MaxPrice)
	assert.Empty(t, p.Features)
	assert.Equal(t, "", p.Sort)
}

func TestParseBrowseParams_InvalidPrice(t *testing.T) {
	values := url.Values{"min_price": {"abc"}}
	_, err := ParseBrowseParams(values, DashboardPageSize)
	assert.Equal(t, ErrInvalidPrice, err)

	values = url.Values{"max_price": {"12.x"}}
	_, err = ParseBrowseParams(values, DashboardPageSize)
	assert.Equal(t, ErrInvalidPrice, err)
}

func TestParseBrowseParams_PriceBounds(t *testing.T) {
	values := url.Values{"min_price": {"10"}, "max_price": {"99.5"}}
	p, err := ParseBrowseParams(values, DashboardPageSize)
	require.NoError(t, err)
	require.NotNil(t, p.MinPrice)
	require.NotNil(t, p.MaxPrice)
	assert.Equal(t, 10.0, *p.MinPrice)
	assert.Equal(t, 99.5, *p.MaxPrice)
	assert.Equal(t, "10", p.MinPriceRaw)
	assert.Equal(t, "99.5", p.MaxPriceRaw)
}

func TestParseBrowseParams_UnknownFeaturesDiscarded(t *testing.T) {
	values := url.Values{"features": {"warranty", "nonsense", "emergency"}}
	p, err := ParseBrowseParams(values, DashboardPageSize)
	require.NoError(t, err)
	assert.Equal(t, []string{"warranty", "emergency"}, p.Features)
}

func TestParseBrowseParams_UnknownSortFallsBack(t *testing.T) {
	values := url.Values{"sort": {"alphabetical"}}
	p, err := ParseBrowseParams(values, DashboardPageSize)
	require.NoError(t, err)
	assert.Equal(t, "", p.Sort)

	values = url.Values{"sort": {"rating"}}
	p, err = ParseBrowseParams(values, DashboardPageSize)
	require.NoError(t, err)
	assert.Equal(t, "rating", p.Sort)
}

func TestParseBrowseParams_BadPageFallsBackToOne(t *testing.T) {
	for _, raw := range []string{"0", "-2", "abc", ""} {
		values := url.Values{}
		if raw != "" {
			values.Set("page", raw)
		}
		p, err := ParseBrowseParams(values, DashboardPageSize)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Page, "page=%q", raw)
	}
}

func TestPreserveQuery_DropsPage(t *testing.T) {
	values := url.Values{
		"category": {"plumbing"},
		"page":     {"3"},
		"features": {"warranty", "insured"},
	}
	qs := PreserveQuery(values)
	parsed, err := url.ParseQuery(qs)
	require.NoError(t, err)
	assert.Equal(t, "plumbing", parsed.Get("category"))
	assert.Empty(t, parsed.Get("page"))
	assert.ElementsMatch(t, []string{"warranty", "insured"}, parsed["features"])
}

func TestPaginate_Clamps(t *testing.T) {
	page, totalPages := Paginate(12, 1, 9)
	assert.Equal(t, 1, page)
	assert.Equal(t, 2, totalPages)

	page, totalPages = Paginate(12, 99, 9)
	assert.Equal(t, 2, page)
	assert.Equal(t, 2, totalPages)

	page, totalPages = Paginate(0, 5, 9)
	assert.Equal(t, 1, page)
	assert.Equal(t, 1, totalPages)

	page, totalPages = Paginate(27, 0, 9)
	assert.Equal(t, 1, page)
	assert.Equal(t, 3, totalPages)
}

func TestRatingDistribution(t *testing.T) {
	dist := RatingDistribution(nil)
	for star := 1; star <= 5; star++ {
		assert.Equal(t, 0.0, dist[star])
	}

	reviews := []models.Review{
		{Rating: 5}, {Rating: 5}, {Rating: 4}, {Rating: 1},
	}
	dist = RatingDistribution(reviews)
	assert.Equal(t, 50.0, dist[5])
	assert.Equal(t, 25.0, dist[4])
	assert.Equal(t, 0.0, dist[3])
	assert.Equal(t, 0.0, dist[2])
	assert.Equal(t, 25.0, dist[1])
}

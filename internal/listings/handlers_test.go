package listings

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"findus-backend/internal/constants"
	"findus-backend/internal/middleware"
	"findus-backend/internal/models"
)

func setupDashboardApp(t *testing.T) (*fiber.App, *gorm.DB, *redis.Client) {
	db := setupListingsDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	h := &Handlers{Service: &Service{DB: db}}
	app := fiber.New()
	app.Use(middleware.SessionWithClient(rdb))
	app.Get("/customer-dashboard", middleware.RequireCustomer(), h.CustomerDashboard)
	app.Post("/save-location", middleware.RequireCustomer(), h.SaveLocation)
	app.Get("/service/:id", middleware.RequireAuth(), h.ServiceDetail)
	app.Get("/craftsman-dashboard", middleware.RequireCraftsman(), h.CraftsmanDashboard)
	app.Post("/craftsman-dashboard", middleware.RequireCraftsman(), h.SaveService)
	return app, db, rdb
}

// seedSession writes a session straight into Redis and returns the cookie
// value a signed-in client would carry.
func seedSession(t *testing.T, rdb *redis.Client, user middleware.SessionUser) string {
	sessionID := "test-session-" + user.Username
	data := map[string]interface{}{
		"user": map[string]interface{}{
			"user_id":      float64(user.UserID),
			"username":     user.Username,
			"full_name":    user.FullName,
			"email":        user.Email,
			"account_type": user.AccountType,
			"profile_id":   float64(user.ProfileID),
		},
	}
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, rdb.Set(context.Background(), middleware.SessionRedisPrefix+sessionID, b, 0).Err())
	return middleware.SessionCookieName + "=s:" + sessionID
}

func customerCookie(t *testing.T, db *gorm.DB, rdb *redis.Client, username string) string {
	profile := seedCustomer(t, db, username)
	return seedSession(t, rdb, middleware.SessionUser{
		UserID:      profile.UserID,
		Username:    username,
		AccountType: constants.AccountCustomer,
		ProfileID:   profile.ID,
	})
}

func craftsmanCookie(t *testing.T, db *gorm.DB, rdb *redis.Client, username string) (string, *models.CraftsmanProfile) {
	profile := seedCraftsman(t, db, username, "Lagos", "Lagos", true)
	return seedSession(t, rdb, middleware.SessionUser{
		UserID:      profile.UserID,
		Username:    username,
		AccountType: constants.AccountCraftsman,
		ProfileID:   profile.ID,
	}), profile
}

func doRequest(t *testing.T, app *fiber.App, method, target, cookie string, body string) (map[string]interface{}, int) {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		r.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(r, -1)
	require.NoError(t, err)
	var parsed map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return parsed, resp.StatusCode
}

func TestCustomerDashboard_RequiresCustomer(t *testing.T) {
	app, db, rdb := setupDashboardApp(t)

	_, code := doRequest(t, app, "GET", "/customer-dashboard", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	cookie, _ := craftsmanCookie(t, db, rdb, "mario")
	body, code := doRequest(t, app, "GET", "/customer-dashboard", cookie, "")
	assert.Equal(t, fiber.StatusForbidden, code)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "Customer profile not found.", errObj["message"])
}

func TestCustomerDashboard_InvalidPriceIs400(t *testing.T) {
	app, db, rdb := setupDashboardApp(t)
	cookie := customerCookie(t, db, rdb, "ada")

	body, code := doRequest(t, app, "GET", "/customer-dashboard?min_price=abc", cookie, "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "Enter a valid price.", errObj["message"])
}

func TestCustomerDashboard_FiltersEchoedBack(t *testing.T) {
	app, db, rdb := setupDashboardApp(t)
	cookie := customerCookie(t, db, rdb, "ada")

	body, code := doRequest(t, app, "GET", "/customer-dashboard?category=plumbing&sort=rating&min_price=10&page=2", cookie, "")
	require.Equal(t, fiber.StatusOK, code)

	data := body["data"].(map[string]interface{})
	filters := data["filters"].(map[string]interface{})
	assert.Equal(t, "plumbing", filters["selected_category"])
	assert.Equal(t, "rating", filters["selected_sort"])
	assert.Equal(t, "10", filters["selected_min_price"])

	meta := body["metadata"].(map[string]interface{})
	qs := meta["querystring"].(string)
	assert.Contains(t, qs, "category=plumbing")
	assert.NotContains(t, qs, "page=")
}

func TestSessionLocation_EchoedOnceThenCleared(t *testing.T) {
	app, db, rdb := setupDashboardApp(t)
	cookie := customerCookie(t, db, rdb, "ada")

	body, code := doRequest(t, app, "POST", "/save-location", cookie, `{"state":"Lagos","city":"Ikeja"}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, body["success"])

	// Filtered visit keeps the stored state.
	body, code = doRequest(t, app, "GET", "/customer-dashboard?category=plumbing", cookie, "")
	require.Equal(t, fiber.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Lagos", data["user_state"])

	// First bare visit echoes the state one last time.
	body, code = doRequest(t, app, "GET", "/customer-dashboard", cookie, "")
	require.Equal(t, fiber.StatusOK, code)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, "Lagos", data["user_state"])

	// Second bare visit shows none.
	body, code = doRequest(t, app, "GET", "/customer-dashboard", cookie, "")
	require.Equal(t, fiber.StatusOK, code)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, "", data["user_state"])
}

func TestCustomerDashboard_AutoDetectStoresLocation(t *testing.T) {
	app, db, rdb := setupDashboardApp(t)
	cookie := customerCookie(t, db, rdb, "ada")

	body, code := doRequest(t, app, "GET", "/customer-dashboard?auto_detect=1&location=Lagos", cookie, "")
	require.Equal(t, fiber.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Lagos", data["user_state"])

	// Still there on the next filtered visit.
	body, code = doRequest(t, app, "GET", "/customer-dashboard?category=plumbing", cookie, "")
	require.Equal(t, fiber.StatusOK, code)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, "Lagos", data["user_state"])
}

func TestSaveLocation_EmptyStateClears(t *testing.T) {
	app, db, rdb := setupDashboardApp(t)
	cookie := customerCookie(t, db, rdb, "ada")

	doRequest(t, app, "POST", "/save-location", cookie, `{"state":"Lagos","city":"Ikeja"}`)
	doRequest(t, app, "POST", "/save-location", cookie, `{"state":""}`)

	body, code := doRequest(t, app, "GET", "/customer-dashboard?category=plumbing", cookie, "")
	require.Equal(t, fiber.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "", data["user_state"])
}

func TestServiceDetail_NotFound(t *testing.T) {
	app, db, rdb := setupDashboardApp(t)
	cookie := customerCookie(t, db, rdb, "ada")

	_, code := doRequest(t, app, "GET", "/service/9999", cookie, "")
	assert.Equal(t, fiber.StatusNotFound, code)

	_, code = doRequest(t, app, "GET", "/service/abc", cookie, "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestCraftsmanDashboard_CreateEditDelete(t *testing.T) {
	app, db, rdb := setupDashboardApp(t)
	cookie, profile := craftsmanCookie(t, db, rdb, "mario")

	body, code := doRequest(t, app, "POST", "/craftsman-dashboard", cookie,
		`{"title":"Pipes","category":"plumbing","price_type":"fixed","fixed_price":100}`)
	require.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "Service created successfully!", body["message"])

	var svc models.Service
	require.NoError(t, db.Where("craftsman_id = ?", profile.ID).First(&svc).Error)

	body, code = doRequest(t, app, "GET", "/craftsman-dashboard", cookie, "")
	require.Equal(t, fiber.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["services"], 1)
	assert.Nil(t, data["editing_service"])

	// Edit flow returns the service being edited.
	body, code = doRequest(t, app, "GET", "/craftsman-dashboard?edit="+itoa(svc.ID), cookie, "")
	require.Equal(t, fiber.StatusOK, code)
	data = body["data"].(map[string]interface{})
	editing := data["editing_service"].(map[string]interface{})
	assert.Equal(t, "Pipes", editing["title"])

	body, code = doRequest(t, app, "POST", "/craftsman-dashboard?edit="+itoa(svc.ID), cookie,
		`{"title":"Better Pipes","category":"plumbing","price_type":"fixed","fixed_price":120}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Service updated successfully!", body["message"])

	body, code = doRequest(t, app, "GET", "/craftsman-dashboard?delete="+itoa(svc.ID), cookie, "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Service 'Better Pipes' has been deleted successfully!", body["message"])

	var count int64
	db.Model(&models.Service{}).Where("craftsman_id = ?", profile.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCraftsmanDashboard_ForeignEditIs404(t *testing.T) {
	app, db, rdb := setupDashboardApp(t)
	ownerCookie, _ := craftsmanCookie(t, db, rdb, "mario")
	otherCookie, _ := craftsmanCookie(t, db, rdb, "luigi")

	_, code := doRequest(t, app, "POST", "/craftsman-dashboard", ownerCookie,
		`{"title":"Pipes","category":"plumbing","price_type":"fixed","fixed_price":100}`)
	require.Equal(t, fiber.StatusCreated, code)

	var svc models.Service
	require.NoError(t, db.First(&svc).Error)

	_, code = doRequest(t, app, "GET", "/craftsman-dashboard?edit="+itoa(svc.ID), otherCookie, "")
	assert.Equal(t, fiber.StatusNotFound, code)

	_, code = doRequest(t, app, "GET", "/craftsman-dashboard?delete="+itoa(svc.ID), otherCookie, "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestCraftsmanDashboard_InvalidInputIs400(t *testing.T) {
	app, db, rdb := setupDashboardApp(t)
	cookie, _ := craftsmanCookie(t, db, rdb, "mario")

	body, code := doRequest(t, app, "POST", "/craftsman-dashboard", cookie,
		`{"title":"Pipes","category":"alchemy","price_type":"fixed","fixed_price":100}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "Select a valid service category", errObj["message"])
}

func itoa(id uint) string {
	return strconv.Itoa(int(id))
}

package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSession(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return rdb, mr
}

func TestSession_PersistsDataAcrossRequests(t *testing.T) {
	rdb, _ := setupSession(t)

	app := fiber.New()
	app.Use(SessionWithClient(rdb))
	app.Get("/set", func(c *fiber.Ctx) error {
		RegenerateSessionID(c)
		SetSessionLocation(c, "Lagos", "Ikeja")
		return c.SendString(GetSessionID(c))
	})
	app.Get("/get", func(c *fiber.Ctx) error {
		state, city := GetSessionLocation(c)
		return c.JSON(fiber.Map{"state": state, "city": city})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/set", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	sessionID := string(raw)
	require.NotEmpty(t, sessionID)

	req := httptest.NewRequest("GET", "/get", nil)
	req.Header.Set("Cookie", SessionCookieName+"=s:"+sessionID)
	resp, err = app.Test(req)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Lagos", body["state"])
	assert.Equal(t, "Ikeja", body["city"])
}

func TestSession_ClearLocationRemovesKeys(t *testing.T) {
	rdb, _ := setupSession(t)

	sessionID := "clear-test"
	data, _ := json.Marshal(map[string]interface{}{
		"user_state": "Lagos",
		"user_city":  "Ikeja",
	})
	require.NoError(t, rdb.Set(context.Background(), SessionRedisPrefix+sessionID, data, 0).Err())

	app := fiber.New()
	app.Use(SessionWithClient(rdb))
	app.Get("/clear", func(c *fiber.Ctx) error {
		ClearSessionLocation(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/clear", nil)
	req.Header.Set("Cookie", SessionCookieName+"=s:"+sessionID)
	_, err := app.Test(req)
	require.NoError(t, err)

	raw, err := rdb.Get(context.Background(), SessionRedisPrefix+sessionID).Bytes()
	require.NoError(t, err)
	var stored map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &stored))
	_, hasState := stored["user_state"]
	_, hasCity := stored["user_city"]
	assert.False(t, hasState)
	assert.False(t, hasCity)
}

func TestGetSessionUser_CoercesNumericFields(t *testing.T) {
	app := fiber.New()
	var got *SessionUser
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":      float64(7),
			"username":     "ada",
			"account_type": "customer",
			"profile_id":   float64(3),
		})
		got = GetSessionUser(c)
		return c.SendStatus(fiber.StatusOK)
	})
	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, uint(3), got.ProfileID)
	assert.Equal(t, "customer", got.AccountType)
}

func TestGetSessionUser_NilWhenAnonymous(t *testing.T) {
	app := fiber.New()
	var got *SessionUser
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetSessionUser(c)
		return c.SendStatus(fiber.StatusOK)
	})
	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Nil(t, got)
}

package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionConfig for the Redis-backed session store.
type SessionConfig struct {
	Secret            string
	RedisURL          string
	AllowCrossSiteDev bool
	IsProduction      bool
}

const (
	sessionCookieName  = "findus.sid"
	SessionCookieName  = "findus.sid"
	sessionPrefix      = "session:"
	SessionRedisPrefix = "session:"
	sessionMaxAge      = 24 * time.Hour
)

// Session data keys beyond "user".
const (
	sessionKeyUser  = "user"
	sessionKeyState = "user_state"
	sessionKeyCity  = "user_city"
)

// SessionUser is the shape stored in the session under "user".
type SessionUser struct {
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	AccountType string `json:"account_type"`
	ProfileID   uint   `json:"profile_id"`
}

// Session returns a Fiber middleware that loads the session from Redis before
// the handler and persists it after. Cookie "findus.sid", key prefix
// "session:", 24h TTL.
func Session(cfg SessionConfig) (fiber.Handler, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opt)
	return SessionWithClient(rdb), rdb, nil
}

// SessionWithClient builds the session middleware around an existing Redis
// client (tests inject miniredis here).
func SessionWithClient(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(sessionCookieName)
		if strings.HasPrefix(sessionID, "s:") {
			parts := strings.SplitN(sessionID[2:], ".", 2)
			sessionID = parts[0]
		}

		var data map[string]interface{}
		if sessionID != "" {
			b, err := rdb.Get(context.Background(), sessionPrefix+sessionID).Bytes()
			if err == nil {
				_ = json.Unmarshal(b, &data)
			}
		}
		if data == nil {
			data = make(map[string]interface{})
		}

		c.Locals("session_data", data)
		if u, ok := data[sessionKeyUser]; ok {
			c.Locals("user", u)
		} else {
			c.Locals("user", nil)
		}
		c.Locals("session_id", sessionID)

		err := c.Next()
		if err != nil {
			return err
		}

		// Persist whatever the handler left in session_data.
		if sid, _ := c.Locals("session_id").(string); sid != "" {
			updated, _ := c.Locals("session_data").(map[string]interface{})
			if updated != nil {
				b, _ := json.Marshal(updated)
				rdb.Set(context.Background(), sessionPrefix+sid, b, sessionMaxAge)
			}
		}
		return nil
	}
}

// GetSessionID returns the current session ID from context.
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals("session_id").(string)
	return sid
}

// SetSessionUser stores the signed-in user in the session.
func SetSessionUser(c *fiber.Ctx, user SessionUser) {
	data := sessionData(c)
	data[sessionKeyUser] = map[string]interface{}{
		"user_id":      float64(user.UserID),
		"username":     user.Username,
		"full_name":    user.FullName,
		"email":        user.Email,
		"account_type": user.AccountType,
		"profile_id":   float64(user.ProfileID),
	}
	c.Locals("session_data", data)
	c.Locals("user", data[sessionKeyUser])
}

// GetSessionUser returns the signed-in user, or nil when anonymous.
func GetSessionUser(c *fiber.Ctx) *SessionUser {
	raw := c.Locals("user")
	if raw == nil {
		return nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	u := &SessionUser{
		Username:    asString(m["username"]),
		FullName:    asString(m["full_name"]),
		Email:       asString(m["email"]),
		AccountType: asString(m["account_type"]),
		UserID:      asUint(m["user_id"]),
		ProfileID:   asUint(m["profile_id"]),
	}
	if u.UserID == 0 {
		return nil
	}
	return u
}

// SetSessionLocation stores the selected (or auto-detected) state and city.
func SetSessionLocation(c *fiber.Ctx, state, city string) {
	data := sessionData(c)
	data[sessionKeyState] = state
	data[sessionKeyCity] = city
	c.Locals("session_data", data)
}

// GetSessionLocation returns the stored state and city, empty when none.
func GetSessionLocation(c *fiber.Ctx) (state, city string) {
	data := sessionData(c)
	return asString(data[sessionKeyState]), asString(data[sessionKeyCity])
}

// ClearSessionLocation removes the stored location from the session.
func ClearSessionLocation(c *fiber.Ctx) {
	data := sessionData(c)
	delete(data, sessionKeyState)
	delete(data, sessionKeyCity)
	c.Locals("session_data", data)
}

// RegenerateSessionID creates a new session ID and sets it in Locals; the
// cookie value is "s:"+ID.
func RegenerateSessionID(c *fiber.Ctx) string {
	newID := uuid.New().String()
	c.Locals("session_id", newID)
	return newID
}

// DestroySession clears user and session data from Locals; caller clears the
// cookie and the Redis key.
func DestroySession(c *fiber.Ctx) {
	c.Locals("session_data", make(map[string]interface{}))
	c.Locals("user", nil)
}

// SessionCookieConfig returns the cookie options used on login/logout.
func SessionCookieConfig(cfg SessionConfig) fiber.Cookie {
	sameSite := "Lax"
	if cfg.AllowCrossSiteDev {
		sameSite = "None"
	}
	secure := cfg.IsProduction && cfg.AllowCrossSiteDev
	return fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	}
}

func sessionData(c *fiber.Ctx) map[string]interface{} {
	data, _ := c.Locals("session_data").(map[string]interface{})
	if data == nil {
		data = make(map[string]interface{})
		c.Locals("session_data", data)
	}
	return data
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asUint(v interface{}) uint {
	switch x := v.(type) {
	case float64:
		return uint(x)
	case int:
		return uint(x)
	case uint:
		return x
	}
	return 0
}

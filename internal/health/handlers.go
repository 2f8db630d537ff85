package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for the health check. If nil, the database is
// reported as disconnected.
type DBPinger interface {
	Ping() error
}

// Handlers holds dependencies for the health endpoint.
type Handlers struct {
	Rdb *redis.Client
	DB  DBPinger
}

// DepStatus reports one dependency's reachability.
type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

// JSON GET /health/json — pings the database and Redis.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	deps := map[string]DepStatus{
		"database": pingDB(h.DB),
		"redis":    pingRedis(h.Rdb),
	}
	status := "ok"
	for _, d := range deps {
		if d.Status != "connected" {
			status = "degraded"
		}
	}
	return c.JSON(fiber.Map{
		"service":      "findus-api",
		"status":       status,
		"dependencies": deps,
	})
}

func pingDB(db DBPinger) DepStatus {
	if db == nil {
		return DepStatus{Status: "disconnected"}
	}
	start := time.Now()
	if err := db.Ping(); err != nil {
		return DepStatus{Status: "error"}
	}
	return DepStatus{Status: "connected", PingMs: time.Since(start).Milliseconds()}
}

func pingRedis(rdb *redis.Client) DepStatus {
	if rdb == nil {
		return DepStatus{Status: "disconnected"}
	}
	start := time.Now()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return DepStatus{Status: "error"}
	}
	return DepStatus{Status: "connected", PingMs: time.Since(start).Milliseconds()}
}

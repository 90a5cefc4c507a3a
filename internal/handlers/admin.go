package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// SessionCounter reports how many card sessions are open.
type SessionCounter interface {
	Len() int
}

// PoolStater reports redis connection pool usage.
type PoolStater interface {
	Stats() *redis.PoolStats
}

type AdminHandler struct {
	sessions SessionCounter
	cache    PoolStater
}

// NewAdminHandler builds the operator stats endpoint. cache may be nil.
func NewAdminHandler(sessions SessionCounter, cache PoolStater) *AdminHandler {
	return &AdminHandler{sessions: sessions, cache: cache}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	body := fiber.Map{"open_sessions": h.sessions.Len()}
	if h.cache != nil {
		if s := h.cache.Stats(); s != nil {
			body["redis_pool"] = fiber.Map{
				"hits":        s.Hits,
				"misses":      s.Misses,
				"timeouts":    s.Timeouts,
				"total_conns": s.TotalConns,
				"idle_conns":  s.IdleConns,
				"stale_conns": s.StaleConns,
			}
		}
	}
	return c.JSON(body)
}

package routes

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/xiao-e-yun/image-provider/internal/cache"
)

// ResizeSettings 描述诊断接口输出的重采样与缓存配置快照。
type ResizeSettings struct {
	CacheCapacity int
	CacheTTL      time.Duration
	Algorithm     string
	Filter        string
}

// RegisterStatsRoutes 暴露 /-/stats 诊断接口，供运维查询缓存命中情况。
func RegisterStatsRoutes(app *fiber.App, store cache.Store, settings ResizeSettings) {
	if app == nil || store == nil {
		return
	}

	app.Get("/-/stats", func(c fiber.Ctx) error {
		payload := fiber.Map{
			"cache":             store.Stats(),
			"cache_capacity":    settings.CacheCapacity,
			"cache_ttl_seconds": int64(settings.CacheTTL / time.Second),
			"resize_algorithm":  settings.Algorithm,
			"resize_filter":     settings.Filter,
		}
		return c.JSON(payload)
	})
}

package handlers

import (
	"dealtokens/internal/repositories"
	"dealtokens/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Health handles GET /health. It reports component reachability; the
// service itself stays up when the cache is down because reads degrade to
// the ledger.
func Health(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
	}
	if repositories.Counters != nil {
		if err := repositories.Counters.HealthCheck(c.Context()); err != nil {
			status["status"] = "degraded"
			status["cache"] = "unreachable"
		}
	}

	if status["status"] == "ok" {
		return utils.Success(c, status)
	}
	return utils.Respond(c, fiber.StatusServiceUnavailable, status)
}

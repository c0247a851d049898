// handlers/queue_routes.go
package handlers

import (
	"github.com/mathi030307/people-eye-client/middleware"
	"github.com/mathi030307/people-eye-client/services"

	"github.com/gofiber/fiber/v2"
)

func SetupQueueRoutes(app *fiber.App, queue *services.OfflineQueue, monitor *services.ConnectivityMonitor) {
	app.Get("/queue/status", func(c *fiber.Ctx) error {
		pending, err := queue.Len()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read queue",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"online":  monitor.Online(),
			"pending": pending,
		})
	})

	// Operator endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	adminGroup.Get("/queue/entries", func(c *fiber.Ctx) error {
		entries, err := queue.Entries()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list queue entries",
				"cause": err.Error(),
			})
		}
		return c.JSON(entries)
	})

	adminGroup.Post("/queue/drain", func(c *fiber.Ctx) error {
		delivered, err := queue.Drain(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "drain failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"message":   "drain complete",
			"delivered": delivered,
		})
	})
}

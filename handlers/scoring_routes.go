// handlers/scoring_routes.go
package handlers

import (
	"github.com/mathi030307/people-eye-client/middleware"
	"github.com/mathi030307/people-eye-client/services"

	"github.com/gofiber/fiber/v2"
)

func SetupScoringRoutes(app *fiber.App, scoringService *services.ScoringService) {
	// 🔓 Public — the leaderboard is community-visible
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		entries, err := scoringService.Leaderboard()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to build leaderboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(entries)
	})

	// 🔐 Secured — require user context (userID) forwarded by the gateway
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/score", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		score, err := scoringService.UserScore(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute score",
				"cause": err.Error(),
			})
		}
		return c.JSON(score)
	})

	securedGroup.Get("/user/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		badges, err := scoringService.UserBadges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(badges)
	})
}

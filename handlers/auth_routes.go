// handlers/auth_routes.go
package handlers

import (
	"github.com/mathi030307/people-eye-client/models"
	"github.com/mathi030307/people-eye-client/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func SetupAuthRoutes(app *fiber.App, authClient *services.AuthClient, db *gorm.DB) {
	app.Post("/auth/login", func(c *fiber.Ctx) error {
		var req services.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "invalid JSON",
				"cause":   err.Error(),
			})
		}

		result, err := authClient.Login(c.Context(), req)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success": false,
				"error":   "auth service unavailable",
				"cause":   err.Error(),
			})
		}

		if result.Success && result.User != nil {
			rememberSession(db, result.User)
		}
		return c.JSON(result)
	})

	app.Post("/auth/register", func(c *fiber.Ctx) error {
		var req services.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "invalid JSON",
				"cause":   err.Error(),
			})
		}

		result, err := authClient.Register(c.Context(), req)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success": false,
				"error":   "auth service unavailable",
				"cause":   err.Error(),
			})
		}

		if result.Success && result.User != nil {
			rememberSession(db, result.User)
		}
		return c.JSON(result)
	})
}

// rememberSession persists the last authenticated user so the relay resumes
// with the same acting identity after a restart. Best-effort.
func rememberSession(db *gorm.DB, user *services.AuthUser) {
	session := models.Session{
		UserID:   user.ID,
		FullName: user.FullName,
		Email:    user.Email,
	}
	_ = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "full_name", "updated_at"}),
	}).Create(&session).Error
}

// handlers/report_routes.go
package handlers

import (
	"github.com/mathi030307/people-eye-client/services"

	"github.com/gofiber/fiber/v2"
)

func SetupReportRoutes(app *fiber.App, reportService *services.ReportService) {
	// Submission carries its own user identity in the form fields, the way
	// the capture clients send it; gateway auth is already enforced globally.
	app.Post("/reports", reportService.SubmitReport)

	app.Get("/reports", reportService.GetAllReports)
	app.Get("/reports/user/:email", reportService.GetUserReports)
}

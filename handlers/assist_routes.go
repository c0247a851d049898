// handlers/assist_routes.go
package handlers

import (
	"github.com/mathi030307/people-eye-client/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAssistRoutes exposes the capture-assist stand-ins: problem detection
// from an uploaded image and phrase translation for dictated text.
func SetupAssistRoutes(app *fiber.App, detector services.ProblemDetector, translator services.Translator) {
	app.Post("/detect", func(c *fiber.Ctx) error {
		filename := c.FormValue("filename")
		if image, err := c.FormFile("image"); err == nil {
			filename = image.Filename
		}
		if filename == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "an image file or filename is required",
			})
		}
		return c.JSON(detector.DetectProblem(filename))
	})

	app.Post("/translate", func(c *fiber.Ctx) error {
		type Req struct {
			Text       string `json:"text"`
			SourceLang string `json:"sourceLang"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.Text == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is required"})
		}

		translated, err := translator.Translate(req.Text, req.SourceLang)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "translation failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"text":       translated,
			"sourceLang": req.SourceLang,
		})
	})
}

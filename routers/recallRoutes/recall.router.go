package recallRoutes

import (
	controllers "github.com/jasonyao09/active-recall-study-assistant/controllers/recall"
	validators "github.com/jasonyao09/active-recall-study-assistant/validators/recall"

	"github.com/gofiber/fiber/v2"
)

// SetupRecallRoutes sets up all recall routes
func SetupRecallRoutes(app *fiber.App) {
	recall := app.Group("/api/recall")

	recall.Post("/analyze", validators.AnalyzeRecall(), controllers.AnalyzeRecall)
	recall.Get("/history/:sectionId", controllers.GetRecallHistory)
	recall.Get("/session/:id", controllers.GetRecallSession)
}

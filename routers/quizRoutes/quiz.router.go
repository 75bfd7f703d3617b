package quizRoutes

import (
	controllers "github.com/jasonyao09/active-recall-study-assistant/controllers/quiz"
	validators "github.com/jasonyao09/active-recall-study-assistant/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up all quiz routes
func SetupQuizRoutes(app *fiber.App) {
	quiz := app.Group("/api/quiz")

	quiz.Post("/generate", validators.GenerateQuiz(), controllers.GenerateQuiz)
	quiz.Get("/section/:id", controllers.GetSectionQuestions)
	quiz.Post("/check", validators.CheckAnswer(), controllers.CheckAnswer)
	quiz.Delete("/section/:id/clear", controllers.ClearSectionQuestions)
}

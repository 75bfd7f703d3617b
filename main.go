package main

import (
	"log"

	"github.com/jasonyao09/active-recall-study-assistant/config"
	"github.com/jasonyao09/active-recall-study-assistant/database"
	"github.com/jasonyao09/active-recall-study-assistant/llm"
	"github.com/jasonyao09/active-recall-study-assistant/middleware"
	noteRoutes "github.com/jasonyao09/active-recall-study-assistant/routers/noteRoutes"
	quizRoutes "github.com/jasonyao09/active-recall-study-assistant/routers/quizRoutes"
	recallRoutes "github.com/jasonyao09/active-recall-study-assistant/routers/recallRoutes"
	"github.com/jasonyao09/active-recall-study-assistant/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	llm.Init()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve the frontend from the public folder
	app.Static("/", "./public")

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "healthy", fiber.Map{
			"ollama": utils.CurrentOllamaStatus(),
		})
	})

	noteRoutes.SetupNoteRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	recallRoutes.SetupRecallRoutes(app)

	utils.StartHealthMonitor(llm.Gateway)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}

package noteRoutes

import (
	controllers "github.com/jasonyao09/active-recall-study-assistant/controllers/notes"
	validators "github.com/jasonyao09/active-recall-study-assistant/validators/notes"

	"github.com/gofiber/fiber/v2"
)

// SetupNoteRoutes sets up all note section routes
func SetupNoteRoutes(app *fiber.App) {
	notes := app.Group("/api/notes")

	// Export routes registered before /:id so "export" is not taken as an id
	notes.Get("/export/all", controllers.ExportAllNotes)
	notes.Get("/export/:id", controllers.ExportSection)
	notes.Post("/import", validators.ImportNotes(), controllers.ImportNotes)

	notes.Get("/", controllers.ListSections)
	notes.Get("/:id", controllers.GetSection)
	notes.Post("/", validators.CreateSection(), controllers.CreateSection)
	notes.Put("/:id", validators.UpdateSection(), controllers.UpdateSection)
	notes.Delete("/:id", controllers.DeleteSection)
	notes.Post("/:id/reorder", validators.ReorderSection(), controllers.ReorderSection)
}

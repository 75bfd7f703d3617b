package noteValidators

import (
	"strings"

	"github.com/jasonyao09/active-recall-study-assistant/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateSectionRequest is the validated body for section creation
type CreateSectionRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// UpdateSectionRequest is the validated body for section updates
type UpdateSectionRequest struct {
	Title        *string `json:"title"`
	Content      *string `json:"content"`
	ParentID     *uint   `json:"parent_id"`
	DisplayOrder *int    `json:"display_order"`
}

// ReorderRequest is the validated body for sibling reordering
type ReorderRequest struct {
	NewOrder int `json:"new_order"`
}

// ImportSection is one section in an import document
type ImportSection struct {
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	DisplayOrder int             `json:"display_order"`
	Children     []ImportSection `json:"children"`
}

// ImportRequest is the validated body for a notes import
type ImportRequest struct {
	Sections []ImportSection `json:"sections"`
}

func CreateSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateSectionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) > 255 {
			errors["title"] = "Title must not exceed 255 characters!"
		}

		if reqData.ParentID != nil && *reqData.ParentID == 0 {
			errors["parent_id"] = "Parent ID must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateSection", reqData)
		return c.Next()
	}
}

func UpdateSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateSectionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil {
			*reqData.Title = strings.TrimSpace(*reqData.Title)
			if *reqData.Title == "" {
				errors["title"] = "Title must not be empty!"
			} else if len(*reqData.Title) > 255 {
				errors["title"] = "Title must not exceed 255 characters!"
			}
		}

		if reqData.DisplayOrder != nil && *reqData.DisplayOrder < 0 {
			errors["display_order"] = "Display order must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateSection", reqData)
		return c.Next()
	}
}

func ReorderSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReorderRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.NewOrder < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"new_order": "New order must not be negative!",
			})
		}

		c.Locals("validatedReorder", reqData)
		return c.Next()
	}
}

func ImportNotes() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ImportRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Sections) == 0 {
			errors["sections"] = "At least one section is required!"
		}
		for _, section := range reqData.Sections {
			if strings.TrimSpace(section.Title) == "" {
				errors["sections"] = "Every imported section needs a title!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedImport", reqData)
		return c.Next()
	}
}

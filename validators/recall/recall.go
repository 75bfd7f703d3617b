package recallValidators

import (
	"strings"

	"github.com/jasonyao09/active-recall-study-assistant/middleware"

	"github.com/gofiber/fiber/v2"
)

// AnalyzeRequest is the validated body for recall analysis
type AnalyzeRequest struct {
	SectionIDs         []uint `json:"section_ids"`
	UserRecall         string `json:"user_recall"`
	IncludeSubsections *bool  `json:"include_subsections"`
}

func AnalyzeRecall() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AnalyzeRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.SectionIDs) == 0 {
			errors["section_ids"] = "At least one section must be selected!"
		}
		for _, id := range reqData.SectionIDs {
			if id == 0 {
				errors["section_ids"] = "Section IDs must be greater than 0!"
				break
			}
		}

		if strings.TrimSpace(reqData.UserRecall) == "" {
			errors["user_recall"] = "No recall content provided!"
		}

		if reqData.IncludeSubsections == nil {
			include := true
			reqData.IncludeSubsections = &include
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnalyze", reqData)
		return c.Next()
	}
}

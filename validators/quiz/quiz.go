package quizValidators

import (
	"strings"

	"github.com/jasonyao09/active-recall-study-assistant/middleware"
	"github.com/jasonyao09/active-recall-study-assistant/models"

	"github.com/gofiber/fiber/v2"
)

// GenerateRequest is the validated body for quiz generation
type GenerateRequest struct {
	SectionIDs         []uint `json:"section_ids"`
	NumQuestions       int    `json:"num_questions"`
	QuestionType       string `json:"question_type"` // 'mcq', 'free_response', or 'mixed'
	CustomInstructions string `json:"custom_instructions"`
	IncludeSubsections *bool  `json:"include_subsections"`
}

// CheckRequest is the validated body for answer checking
type CheckRequest struct {
	QuestionID uint   `json:"question_id"`
	UserAnswer string `json:"user_answer"`
}

func GenerateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GenerateRequest)

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

		// Defaults mirror the UI: 5 mixed questions over the section tree.
		if reqData.NumQuestions == 0 {
			reqData.NumQuestions = 5
		}
		if reqData.NumQuestions < 1 {
			errors["num_questions"] = "Number of questions must be at least 1!"
		} else if reqData.NumQuestions > 50 {
			errors["num_questions"] = "Number of questions must not exceed 50!"
		}

		if reqData.QuestionType == "" {
			reqData.QuestionType = "mixed"
		}
		validTypes := map[string]bool{models.QuestionTypeMCQ: true, models.QuestionTypeFreeResponse: true, "mixed": true}
		if !validTypes[reqData.QuestionType] {
			errors["question_type"] = "Invalid question type! Allowed: mcq, free_response, mixed"
		}

		if reqData.IncludeSubsections == nil {
			include := true
			reqData.IncludeSubsections = &include
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGenerate", reqData)
		return c.Next()
	}
}

func CheckAnswer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CheckRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.QuestionID == 0 {
			errors["question_id"] = "Question ID is required!"
		}
		if strings.TrimSpace(reqData.UserAnswer) == "" {
			errors["user_answer"] = "An answer is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCheck", reqData)
		return c.Next()
	}
}

package quizControllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jasonyao09/active-recall-study-assistant/config"
	"github.com/jasonyao09/active-recall-study-assistant/database"
	"github.com/jasonyao09/active-recall-study-assistant/llm"
	"github.com/jasonyao09/active-recall-study-assistant/middleware"
	"github.com/jasonyao09/active-recall-study-assistant/models"
	quizValidators "github.com/jasonyao09/active-recall-study-assistant/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// getSectionWithChildren loads a section and optionally its subsections
func getSectionWithChildren(db *gorm.DB, sectionID uint, includeSubsections bool) []models.NoteSection {
	var section models.NoteSection
	if err := db.First(&section, sectionID).Error; err != nil {
		return nil
	}

	sections := []models.NoteSection{section}
	if includeSubsections {
		var children []models.NoteSection
		db.Where("parent_id = ?", section.ID).Order("display_order").Find(&children)
		sections = append(sections, children...)
	}
	return sections
}

// collectContent combines section contents with title headers
func collectContent(sections []models.NoteSection) string {
	parts := make([]string, 0, len(sections))
	for _, section := range sections {
		if strings.TrimSpace(section.Content) != "" {
			parts = append(parts, fmt.Sprintf("## %s\n%s", section.Title, section.Content))
		}
	}
	return strings.Join(parts, "\n\n")
}

// modelErrorResponse maps gateway failures to HTTP statuses
func modelErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, llm.ErrModelTimeout):
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false,
			"The model took too long to respond. Try again or reduce the amount of material.", nil)
	case errors.Is(err, llm.ErrModelUnavailable):
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false,
			"The model service is unreachable. Check that Ollama is running.", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, fallback, nil)
	}
}

// questionResponse serializes a question row with its owning section title
func questionResponse(q models.Question, sectionTitles map[uint]string) fiber.Map {
	return fiber.Map{
		"id":             q.ID,
		"section_id":     q.SectionID,
		"section_title":  sectionTitles[q.SectionID],
		"question_type":  q.QuestionType,
		"question_text":  q.QuestionText,
		"options":        q.Options,
		"correct_answer": q.CorrectAnswer,
		"explanation":    q.Explanation,
		"created_at":     q.CreatedAt,
	}
}

// GenerateQuiz generates questions from one or more sections using the model.
// The whole batch validates or nothing is persisted.
func GenerateQuiz(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedGenerate").(*quizValidators.GenerateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Collect requested sections, deduplicated, with optional subsections
	var allSections []models.NoteSection
	seen := make(map[uint]bool)
	sectionTitles := make(map[uint]string)
	for _, sectionID := range reqData.SectionIDs {
		for _, section := range getSectionWithChildren(db, sectionID, *reqData.IncludeSubsections) {
			if !seen[section.ID] {
				seen[section.ID] = true
				allSections = append(allSections, section)
				sectionTitles[section.ID] = section.Title
			}
		}
	}
	if len(allSections) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No sections found!", nil)
	}

	combined := collectContent(allSections)
	if strings.TrimSpace(combined) == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Selected sections have no content!", nil)
	}

	prompt, truncated := llm.BuildQuizPrompt(combined, reqData.NumQuestions, reqData.QuestionType,
		reqData.CustomInstructions, config.AppConfig.MaxPromptChars)
	if truncated {
		log.Printf("Quiz prompt truncated to %d chars for sections %v", config.AppConfig.MaxPromptChars, reqData.SectionIDs)
	}

	raw, err := llm.Gateway.Complete(c.UserContext(), llm.QuizSystemPrompt, prompt)
	if err != nil {
		log.Printf("Quiz generation model call failed: %v", err)
		return modelErrorResponse(c, err, "Failed to generate questions!")
	}

	drafts, err := llm.ParseQuestions(raw)
	if err != nil {
		log.Printf("Quiz generation parse failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to generate questions!", nil)
	}

	// Persist the validated batch in one transaction, owned by the first
	// requested section.
	primarySectionID := reqData.SectionIDs[0]
	questions := make([]models.Question, 0, len(drafts))
	for _, draft := range drafts {
		question := models.Question{
			SectionID:     primarySectionID,
			QuestionType:  draft.QuestionType,
			QuestionText:  draft.QuestionText,
			CorrectAnswer: draft.CorrectAnswer,
			Explanation:   draft.Explanation,
		}
		if draft.QuestionType == models.QuestionTypeMCQ {
			optionsJSON, err := json.Marshal(draft.Options)
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store questions!", nil)
			}
			question.Options = optionsJSON
		}
		questions = append(questions, question)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range questions {
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to persist generated questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store questions!", nil)
	}

	result := make([]fiber.Map, 0, len(questions))
	for _, q := range questions {
		result = append(result, questionResponse(q, sectionTitles))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions generated!", result)
}

// GetSectionQuestions returns stored questions for a section
func GetSectionQuestions(c *fiber.Ctx) error {
	sectionID, err := c.ParamsInt("id")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section ID!", nil)
	}

	db := database.Database.Db

	sections := getSectionWithChildren(db, uint(sectionID), c.QueryBool("include_subsections"))
	if len(sections) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	sectionIDs := make([]uint, 0, len(sections))
	sectionTitles := make(map[uint]string)
	for _, section := range sections {
		sectionIDs = append(sectionIDs, section.ID)
		sectionTitles[section.ID] = section.Title
	}

	var questions []models.Question
	if err := db.Where("section_id IN ?", sectionIDs).Order("created_at").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load questions!", nil)
	}

	result := make([]fiber.Map, 0, len(questions))
	for _, q := range questions {
		result = append(result, questionResponse(q, sectionTitles))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched!", result)
}

// CheckAnswer grades a submitted answer. MCQ grading is a deterministic string
// comparison; free-response grading asks the model for a verdict.
func CheckAnswer(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCheck").(*quizValidators.CheckRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var question models.Question
	if err := database.Database.Db.First(&question, reqData.QuestionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	var isCorrect bool
	switch question.QuestionType {
	case models.QuestionTypeMCQ:
		isCorrect = llm.AnswersMatch(reqData.UserAnswer, question.CorrectAnswer)
	case models.QuestionTypeFreeResponse:
		prompt := llm.BuildGradingPrompt(question.QuestionText, question.CorrectAnswer,
			question.Explanation, reqData.UserAnswer)
		raw, err := llm.Gateway.Complete(c.UserContext(), llm.GradingSystemPrompt, prompt)
		if err != nil {
			log.Printf("Answer grading model call failed: %v", err)
			return modelErrorResponse(c, err, "Failed to grade answer!")
		}
		isCorrect = llm.ParseVerdict(raw)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer checked!", fiber.Map{
		"is_correct":     isCorrect,
		"correct_answer": question.CorrectAnswer,
		"explanation":    question.Explanation,
		"question_type":  question.QuestionType,
	})
}

// ClearSectionQuestions deletes stored questions for a section
func ClearSectionQuestions(c *fiber.Ctx) error {
	sectionID, err := c.ParamsInt("id")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section ID!", nil)
	}

	db := database.Database.Db

	sections := getSectionWithChildren(db, uint(sectionID), c.QueryBool("include_subsections"))
	if len(sections) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	sectionIDs := make([]uint, 0, len(sections))
	for _, section := range sections {
		sectionIDs = append(sectionIDs, section.ID)
	}

	if err := db.Where("section_id IN ?", sectionIDs).Delete(&models.Question{}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to clear questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions cleared successfully!", nil)
}

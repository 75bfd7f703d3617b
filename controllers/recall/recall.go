package recallControllers

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
	recallValidators "github.com/jasonyao09/active-recall-study-assistant/validators/recall"

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

// sessionResponse serializes a recall session row
func sessionResponse(session models.RecallSession, sectionTitle string) fiber.Map {
	var analysis interface{}
	if len(session.Analysis) > 0 {
		_ = json.Unmarshal(session.Analysis, &analysis)
	}
	return fiber.Map{
		"id":            session.ID,
		"section_id":    session.SectionID,
		"section_title": sectionTitle,
		"user_recall":   session.UserRecall,
		"analysis":      analysis,
		"score":         session.Score,
		"created_at":    session.CreatedAt,
	}
}

// AnalyzeRecall grades a blind-recall attempt against the original notes and
// persists the session. Nothing is written when the model output fails to
// parse.
func AnalyzeRecall(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAnalyze").(*recallValidators.AnalyzeRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var allSections []models.NoteSection
	seen := make(map[uint]bool)
	for _, sectionID := range reqData.SectionIDs {
		for _, section := range getSectionWithChildren(db, sectionID, *reqData.IncludeSubsections) {
			if !seen[section.ID] {
				seen[section.ID] = true
				allSections = append(allSections, section)
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

	prompt, truncated := llm.BuildRecallPrompt(combined, reqData.UserRecall, config.AppConfig.MaxPromptChars)
	if truncated {
		log.Printf("Recall prompt truncated to %d chars for sections %v", config.AppConfig.MaxPromptChars, reqData.SectionIDs)
	}

	raw, err := llm.Gateway.Complete(c.UserContext(), llm.RecallSystemPrompt, prompt)
	if err != nil {
		log.Printf("Recall analysis model call failed: %v", err)
		return recallModelError(c, err)
	}

	draft, err := llm.ParseAnalysis(raw)
	if err != nil {
		log.Printf("Recall analysis parse failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to analyze recall!", nil)
	}

	analysisJSON, err := json.Marshal(draft)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store analysis!", nil)
	}

	primary := allSections[0]
	session := models.RecallSession{
		SectionID:  primary.ID,
		UserRecall: reqData.UserRecall,
		Analysis:   analysisJSON,
		Score:      draft.Score,
	}
	if err := db.Create(&session).Error; err != nil {
		log.Printf("Failed to persist recall session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store analysis!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recall analyzed!", sessionResponse(session, primary.Title))
}

// GetRecallHistory returns recall sessions for a section, newest first
func GetRecallHistory(c *fiber.Ctx) error {
	sectionID, err := c.ParamsInt("sectionId")
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

	var sessions []models.RecallSession
	if err := db.Where("section_id IN ?", sectionIDs).Order("created_at desc").Find(&sessions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load history!", nil)
	}

	result := make([]fiber.Map, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, sessionResponse(session, sectionTitles[session.SectionID]))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "History fetched!", result)
}

// GetRecallSession returns a single recall session
func GetRecallSession(c *fiber.Ctx) error {
	sessionID, err := c.ParamsInt("id")
	if err != nil || sessionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid session ID!", nil)
	}

	db := database.Database.Db

	var session models.RecallSession
	if err := db.First(&session, sessionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}

	var section models.NoteSection
	sectionTitle := ""
	if err := db.First(&section, session.SectionID).Error; err == nil {
		sectionTitle = section.Title
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session fetched!", sessionResponse(session, sectionTitle))
}

// recallModelError maps gateway failures to HTTP statuses
func recallModelError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, llm.ErrModelTimeout):
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false,
			"The model took too long to respond. Try again or reduce the amount of material.", nil)
	case errors.Is(err, llm.ErrModelUnavailable):
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false,
			"The model service is unreachable. Check that Ollama is running.", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to analyze recall!", nil)
	}
}

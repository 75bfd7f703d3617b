package noteControllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/jasonyao09/active-recall-study-assistant/database"
	"github.com/jasonyao09/active-recall-study-assistant/middleware"
	"github.com/jasonyao09/active-recall-study-assistant/models"
	noteValidators "github.com/jasonyao09/active-recall-study-assistant/validators/notes"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// sectionTree serializes a section with its (preloaded) children
func sectionTree(section models.NoteSection) fiber.Map {
	children := make([]fiber.Map, 0, len(section.Children))
	for _, child := range section.Children {
		children = append(children, sectionTree(child))
	}
	return fiber.Map{
		"id":            section.ID,
		"parent_id":     section.ParentID,
		"title":         section.Title,
		"content":       section.Content,
		"display_order": section.DisplayOrder,
		"created_at":    section.CreatedAt,
		"updated_at":    section.UpdatedAt,
		"children":      children,
	}
}

// ListSections returns all note sections, hierarchical by default
func ListSections(c *fiber.Ctx) error {
	db := database.Database.Db

	if c.QueryBool("flat") {
		var sections []models.NoteSection
		if err := db.Order("parent_id").Order("display_order").Order("updated_at desc").Find(&sections).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load sections!", nil)
		}
		result := make([]fiber.Map, 0, len(sections))
		for _, s := range sections {
			result = append(result, sectionTree(s))
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Sections fetched!", result)
	}

	var topSections []models.NoteSection
	err := db.Where("parent_id IS NULL").
		Order("display_order").Order("updated_at desc").
		Preload("Children", func(tx *gorm.DB) *gorm.DB { return tx.Order("display_order") }).
		Find(&topSections).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load sections!", nil)
	}

	result := make([]fiber.Map, 0, len(topSections))
	for _, s := range topSections {
		result = append(result, sectionTree(s))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sections fetched!", result)
}

// GetSection returns one section with its children
func GetSection(c *fiber.Ctx) error {
	sectionID, err := c.ParamsInt("id")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section ID!", nil)
	}

	var section models.NoteSection
	if err := database.Database.Db.
		Preload("Children", func(tx *gorm.DB) *gorm.DB { return tx.Order("display_order") }).
		First(&section, sectionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section fetched!", sectionTree(section))
}

// CreateSection creates a new section or subsection
func CreateSection(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateSection").(*noteValidators.CreateSectionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Two levels max: the parent must exist and be top-level itself.
	if reqData.ParentID != nil {
		var parent models.NoteSection
		if err := db.First(&parent, *reqData.ParentID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Parent section not found!", nil)
		}
		if parent.ParentID != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
				"Cannot create subsection under another subsection. Maximum 2 levels allowed.", nil)
		}
	}

	// Append after existing siblings
	var siblingCount int64
	siblings := db.Model(&models.NoteSection{})
	if reqData.ParentID == nil {
		siblings = siblings.Where("parent_id IS NULL")
	} else {
		siblings = siblings.Where("parent_id = ?", *reqData.ParentID)
	}
	siblings.Count(&siblingCount)

	section := models.NoteSection{
		Title:        reqData.Title,
		Content:      reqData.Content,
		ParentID:     reqData.ParentID,
		DisplayOrder: int(siblingCount),
	}
	if err := db.Create(&section).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section created!", sectionTree(section))
}

// UpdateSection updates title, content, parent or display order
func UpdateSection(c *fiber.Ctx) error {
	sectionID, err := c.ParamsInt("id")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section ID!", nil)
	}

	reqData, ok := c.Locals("validatedUpdateSection").(*noteValidators.UpdateSectionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var section models.NoteSection
	if err := db.First(&section, sectionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	if reqData.Title != nil {
		section.Title = *reqData.Title
	}
	if reqData.Content != nil {
		section.Content = *reqData.Content
	}
	if reqData.DisplayOrder != nil {
		section.DisplayOrder = *reqData.DisplayOrder
	}
	if reqData.ParentID != nil {
		if *reqData.ParentID == section.ID {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Section cannot be its own parent!", nil)
		}
		var parent models.NoteSection
		if err := db.First(&parent, *reqData.ParentID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Parent section not found!", nil)
		}
		if parent.ParentID != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
				"Cannot move section under another subsection. Maximum 2 levels allowed.", nil)
		}
		// A section that has children cannot become a subsection.
		var childCount int64
		db.Model(&models.NoteSection{}).Where("parent_id = ?", section.ID).Count(&childCount)
		if childCount > 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
				"Cannot move a section with subsections under another section!", nil)
		}
		section.ParentID = reqData.ParentID
	}

	if err := db.Save(&section).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update section!", nil)
	}

	if err := db.Preload("Children", func(tx *gorm.DB) *gorm.DB { return tx.Order("display_order") }).
		First(&section, section.ID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reload section!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section updated!", sectionTree(section))
}

// DeleteSection removes a section, its subsections and everything owned by them
func DeleteSection(c *fiber.Ctx) error {
	sectionID, err := c.ParamsInt("id")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section ID!", nil)
	}

	db := database.Database.Db

	var section models.NoteSection
	if err := db.First(&section, sectionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	var childIDs []uint
	db.Model(&models.NoteSection{}).Where("parent_id = ?", section.ID).Pluck("id", &childIDs)
	allIDs := append(childIDs, section.ID)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id IN ?", allIDs).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("section_id IN ?", allIDs).Delete(&models.RecallSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_id = ?", section.ID).Delete(&models.NoteSection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&section).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section deleted successfully!", nil)
}

// ReorderSection repositions a section among its siblings
func ReorderSection(c *fiber.Ctx) error {
	sectionID, err := c.ParamsInt("id")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section ID!", nil)
	}

	reqData, ok := c.Locals("validatedReorder").(*noteValidators.ReorderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var section models.NoteSection
	if err := db.First(&section, sectionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	var siblings []models.NoteSection
	query := db.Order("display_order")
	if section.ParentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *section.ParentID)
	}
	if err := query.Find(&siblings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load siblings!", nil)
	}

	// Remove from old position, insert at the new one
	reordered := make([]models.NoteSection, 0, len(siblings))
	for _, s := range siblings {
		if s.ID != section.ID {
			reordered = append(reordered, s)
		}
	}
	pos := reqData.NewOrder
	if pos > len(reordered) {
		pos = len(reordered)
	}
	reordered = append(reordered[:pos], append([]models.NoteSection{section}, reordered[pos:]...)...)

	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range reordered {
			if err := tx.Model(&models.NoteSection{}).Where("id = ?", reordered[i].ID).
				Update("display_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder sections!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section reordered successfully!", nil)
}

// exportSection serializes a section subtree for export files
func exportSection(section models.NoteSection) fiber.Map {
	children := make([]fiber.Map, 0, len(section.Children))
	for _, child := range section.Children {
		children = append(children, exportSection(child))
	}
	return fiber.Map{
		"title":         section.Title,
		"content":       section.Content,
		"display_order": section.DisplayOrder,
		"created_at":    section.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":    section.UpdatedAt.UTC().Format(time.RFC3339),
		"children":      children,
	}
}

// ExportAllNotes downloads every section as one JSON document
func ExportAllNotes(c *fiber.Ctx) error {
	var topSections []models.NoteSection
	err := database.Database.Db.Where("parent_id IS NULL").
		Order("display_order").
		Preload("Children", func(tx *gorm.DB) *gorm.DB { return tx.Order("display_order") }).
		Find(&topSections).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to export notes!", nil)
	}

	sections := make([]fiber.Map, 0, len(topSections))
	for _, s := range topSections {
		sections = append(sections, exportSection(s))
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename=notes_export.json`)
	return c.JSON(fiber.Map{
		"exported_at": time.Now().UTC().Format(time.RFC3339),
		"sections":    sections,
	})
}

// ExportSection downloads one section subtree as a JSON document
func ExportSection(c *fiber.Ctx) error {
	sectionID, err := c.ParamsInt("id")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section ID!", nil)
	}

	var section models.NoteSection
	if err := database.Database.Db.
		Preload("Children", func(tx *gorm.DB) *gorm.DB { return tx.Order("display_order") }).
		First(&section, sectionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	filename := fmt.Sprintf("notes_%s.json", strings.ReplaceAll(section.Title, " ", "_"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.JSON(fiber.Map{
		"exported_at": time.Now().UTC().Format(time.RFC3339),
		"section":     exportSection(section),
	})
}

// ImportNotes recreates sections from an export document. Nesting beyond the
// two supported levels is flattened onto the top-level ancestor.
func ImportNotes(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedImport").(*noteValidators.ImportRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	imported := 0

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, top := range reqData.Sections {
			parent := models.NoteSection{
				Title:        top.Title,
				Content:      top.Content,
				DisplayOrder: top.DisplayOrder,
			}
			if err := tx.Create(&parent).Error; err != nil {
				return err
			}
			imported++

			// Bounded traversal: collect every descendant as a direct child.
			pending := append([]noteValidators.ImportSection{}, top.Children...)
			for len(pending) > 0 {
				node := pending[0]
				pending = append(pending[1:], node.Children...)

				child := models.NoteSection{
					Title:        node.Title,
					Content:      node.Content,
					ParentID:     &parent.ID,
					DisplayOrder: node.DisplayOrder,
				}
				if err := tx.Create(&child).Error; err != nil {
					return err
				}
				imported++
			}
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to import notes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true,
		fmt.Sprintf("Successfully imported %d sections", imported), nil)
}

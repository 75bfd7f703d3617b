package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecallSession records one blind-recall attempt and its analysis. Sessions are
// immutable once written; history endpoints only read them.
type RecallSession struct {
	gorm.Model
	SectionID  uint           `json:"section_id" gorm:"index;not null"`
	UserRecall string         `json:"user_recall" gorm:"type:text;not null"` // what the user remembered
	Analysis   datatypes.JSON `json:"analysis"`                              // model analysis object
	Score      int            `json:"score" gorm:"check:score >= 0 AND score <= 100"`
}

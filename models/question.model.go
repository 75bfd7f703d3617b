package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question types
const (
	QuestionTypeMCQ          = "mcq"
	QuestionTypeFreeResponse = "free_response"
)

// Question is a generated study question for a note section. Rows are written
// once at generation time and never updated.
type Question struct {
	gorm.Model
	SectionID     uint           `json:"section_id" gorm:"index;not null"`
	QuestionType  string         `json:"question_type" gorm:"size:20;not null"` // 'mcq' or 'free_response'
	QuestionText  string         `json:"question_text" gorm:"type:text;not null"`
	Options       datatypes.JSON `json:"options"` // MCQ only: JSON array of option strings
	CorrectAnswer string         `json:"correct_answer" gorm:"type:text;not null"`
	Explanation   string         `json:"explanation" gorm:"type:text"`
}

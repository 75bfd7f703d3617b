package models

import "gorm.io/gorm"

// NoteSection is a section/topic of notes. Two levels only: a section with a
// non-nil ParentID must not have children of its own.
type NoteSection struct {
	gorm.Model
	ParentID     *uint  `json:"parent_id" gorm:"index"` // nil = top-level section
	Title        string `json:"title" gorm:"size:255;not null"`
	Content      string `json:"content" gorm:"type:text;not null;default:''"`
	DisplayOrder int    `json:"display_order" gorm:"default:0"` // ordering within parent

	Children       []NoteSection   `json:"children" gorm:"foreignKey:ParentID"`
	Questions      []Question      `json:"-" gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
	RecallSessions []RecallSession `json:"-" gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Question types. MCQ answers are auto-graded against the correct choice;
// TEXT answers wait for a reviewer grade.
const (
	QuestionTypeMCQ  = "MCQ"
	QuestionTypeText = "TEXT"
)

type Question struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	QuizID    uint           `json:"quiz_id" gorm:"not null;index"`
	Text      string         `json:"text" gorm:"type:text;not null"`
	Type      string         `json:"type" gorm:"not null;default:'MCQ'"` // "MCQ", "TEXT"
	ImageURL  *string        `json:"image_url,omitempty"`
	Position  int            `json:"position" gorm:"not null;default:0"`
	Choices   []Choice       `json:"choices,omitempty" gorm:"foreignKey:QuestionID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Answer is one ledger entry per (attempt, question). ChoiceID is set for
// MCQ questions, WrittenAnswer for TEXT questions. Grade is assigned later
// by a reviewer and only ever for TEXT answers.
type Answer struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	UserID        uint           `json:"user_id" gorm:"not null;index"` // denormalized for dashboard queries
	AttemptID     uint           `json:"attempt_id" gorm:"not null;index:idx_answers_attempt_question,unique"`
	QuestionID    uint           `json:"question_id" gorm:"not null;index:idx_answers_attempt_question,unique"`
	Question      Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	ChoiceID      *uint          `json:"choice_id,omitempty"`
	WrittenAnswer string         `json:"written_answer,omitempty" gorm:"type:text"`
	Grade         *float64       `json:"grade,omitempty"` // 0..100, reviewer assigned
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Attempt statuses. Pending covers both in-progress attempts and finalized
// attempts sent back for regrading; any status is reachable from any other
// through the reviewer override path.
const (
	StatusPending = "Pending"
	StatusPass    = "Pass"
	StatusFail    = "Fail"
)

// Attempt is one examinee's run through one quiz. EndedAt, TimeTaken and
// Score are set together at finalization and never individually.
// ReportPath is nil whenever Status is Pending.
type Attempt struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	UserID       uint           `json:"user_id" gorm:"not null;index"`
	User         User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	QuizID       uint           `json:"quiz_id" gorm:"not null;index"`
	Quiz         Quiz           `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	DepartmentID *uint          `json:"department_id,omitempty" gorm:"index"` // captured at creation
	Status       string         `json:"status" gorm:"not null;default:'Pending'"`
	StartedAt    time.Time      `json:"started_at" gorm:"not null"`
	EndedAt      *time.Time     `json:"ended_at,omitempty"`
	TimeTaken    *time.Duration `json:"time_taken,omitempty" gorm:"type:bigint"`
	Score        *int           `json:"score,omitempty"`
	TotalChoice  int            `json:"total_choice" gorm:"not null;default:0"` // choice-question count at finalization
	ReportPath   *string        `json:"report_path,omitempty"`
	Answers      []Answer       `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Finalized reports whether the attempt has been closed by the lifecycle.
func (a *Attempt) Finalized() bool {
	return a.EndedAt != nil
}

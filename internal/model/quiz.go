package model

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Title        string         `json:"title" gorm:"not null"`
	DepartmentID uint           `json:"department_id" gorm:"not null;index"`
	Department   Department     `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	Questions    []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

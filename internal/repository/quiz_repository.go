package repository

import (
	"github.com/qdimov/quizdesk/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	FindByID(id uint) (*model.Quiz, error)
	// FindByIDWithQuestions eager-loads questions in their stable catalog
	// order, each with its choice set.
	FindByIDWithQuestions(id uint) (*model.Quiz, error)
	FindAllByDepartment(departmentID uint) ([]model.Quiz, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC, questions.id ASC")
		}).
		Preload("Questions.Choices").
		First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindAllByDepartment(departmentID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	if err := r.db.Where("department_id = ?", departmentID).Order("title ASC").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

package repository

import (
	"github.com/qdimov/quizdesk/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByID(id uint) (*model.Question, error)
	FindByIDWithChoices(id uint) (*model.Question, error)
	// FindByQuizID returns the quiz's questions in stable catalog order.
	FindByQuizID(quizID uint) ([]model.Question, error)
	// FindByQuizIDTx is FindByQuizID inside the caller's transaction, for
	// snapshot-consistent aggregation reads.
	FindByQuizIDTx(tx *gorm.DB, quizID uint) ([]model.Question, error)
	CountByQuizID(quizID uint) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDWithChoices(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.Preload("Choices").First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByQuizID(quizID uint) ([]model.Question, error) {
	return r.findByQuizID(r.db, quizID)
}

func (r *questionRepository) FindByQuizIDTx(tx *gorm.DB, quizID uint) ([]model.Question, error) {
	return r.findByQuizID(tx, quizID)
}

func (r *questionRepository) findByQuizID(db *gorm.DB, quizID uint) ([]model.Question, error) {
	var questions []model.Question
	err := db.Where("quiz_id = ?", quizID).
		Preload("Choices").
		Order("position ASC, id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) CountByQuizID(quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

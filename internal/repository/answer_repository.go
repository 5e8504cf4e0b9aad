package repository

import (
	"github.com/qdimov/quizdesk/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	// Upsert writes the answer for its (attempt, question) pair, replacing
	// a prior submission for the same question instead of duplicating it.
	Upsert(answer *model.Answer) error
	Update(answer *model.Answer) error
	FindByID(id uint) (*model.Answer, error)
	FindByIDWithQuestion(id uint) (*model.Answer, error)
	FindByAttemptID(attemptID uint) ([]model.Answer, error)
	// FindByAttemptIDTx reads the ledger inside the caller's transaction so
	// aggregation sees one consistent grade snapshot.
	FindByAttemptIDTx(tx *gorm.DB, attemptID uint) ([]model.Answer, error)
	CountByAttemptID(attemptID uint) (int64, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Upsert(answer *model.Answer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"choice_id", "written_answer", "updated_at"}),
	}).Create(answer).Error
}

func (r *answerRepository) Update(answer *model.Answer) error {
	return r.db.Save(answer).Error
}

func (r *answerRepository) FindByID(id uint) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindByIDWithQuestion(id uint) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.Preload("Question").First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindByAttemptID(attemptID uint) ([]model.Answer, error) {
	return r.findByAttemptID(r.db, attemptID)
}

func (r *answerRepository) FindByAttemptIDTx(tx *gorm.DB, attemptID uint) ([]model.Answer, error) {
	return r.findByAttemptID(tx, attemptID)
}

func (r *answerRepository) findByAttemptID(db *gorm.DB, attemptID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := db.Where("attempt_id = ?", attemptID).
		Preload("Question").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answerRepository) CountByAttemptID(attemptID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).Where("attempt_id = ?", attemptID).Count(&count).Error
	return count, err
}

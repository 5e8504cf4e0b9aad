package service

import (
	"errors"
	"fmt"

	"github.com/qdimov/quizdesk/internal/apperr"
	"github.com/qdimov/quizdesk/internal/model"
	"github.com/qdimov/quizdesk/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ScoringService computes an attempt's score breakdown on demand. Reads
// happen inside one transaction so a concurrent grading batch can never
// leak a half-updated grade set into the percentages.
type ScoringService interface {
	BreakdownFor(attemptID uint) (ScoreBreakdown, error)
	// BreakdownForTx aggregates inside an already-open transaction, for
	// callers that hold the attempt's row lock.
	BreakdownForTx(tx *gorm.DB, attempt *model.Attempt) (ScoreBreakdown, error)
}

type scoringService struct {
	attemptRepo  repository.AttemptRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	db           *gorm.DB
}

func NewScoringService(
	attemptRepo repository.AttemptRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	db *gorm.DB,
) ScoringService {
	return &scoringService{
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		db:           db,
	}
}

func (s *scoringService) BreakdownFor(attemptID uint) (ScoreBreakdown, error) {
	var b ScoreBreakdown
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var attempt model.Attempt
		if err := tx.First(&attempt, attemptID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("attempt %d: %w", attemptID, apperr.ErrNotFound)
			}
			return err
		}
		var err error
		b, err = s.BreakdownForTx(tx, &attempt)
		return err
	})
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to compute score breakdown")
		return ScoreBreakdown{}, err
	}
	return b, nil
}

func (s *scoringService) BreakdownForTx(tx *gorm.DB, attempt *model.Attempt) (ScoreBreakdown, error) {
	questions, err := s.questionRepo.FindByQuizIDTx(tx, attempt.QuizID)
	if err != nil {
		return ScoreBreakdown{}, fmt.Errorf("loading questions for quiz %d: %w", attempt.QuizID, err)
	}
	answers, err := s.answerRepo.FindByAttemptIDTx(tx, attempt.ID)
	if err != nil {
		return ScoreBreakdown{}, fmt.Errorf("loading answers for attempt %d: %w", attempt.ID, err)
	}
	return ComputeBreakdown(questions, answers), nil
}

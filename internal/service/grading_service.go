package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/qdimov/quizdesk/internal/apperr"
	"github.com/qdimov/quizdesk/internal/dto"
	"github.com/qdimov/quizdesk/internal/model"
	"github.com/qdimov/quizdesk/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// GradingService records reviewer grades on free-text answers. Values are
// clamped into [0, 100]; unparseable values are rejected per answer and
// never disturb the rest of a batch.
type GradingService interface {
	RecordGrade(answerID uint, rawValue string, actorID uint) (*model.Answer, error)
	GradeBatch(items []dto.GradeItem, actorID uint) ([]dto.GradeResultDTO, error)
}

type gradingService struct {
	answerRepo repository.AnswerRepository
	userRepo   repository.UserRepository
}

func NewGradingService(answerRepo repository.AnswerRepository, userRepo repository.UserRepository) GradingService {
	return &gradingService{answerRepo: answerRepo, userRepo: userRepo}
}

func (s *gradingService) RecordGrade(answerID uint, rawValue string, actorID uint) (*model.Answer, error) {
	if err := requireReviewer(s.userRepo, actorID); err != nil {
		return nil, err
	}
	return s.recordGrade(answerID, rawValue)
}

func (s *gradingService) GradeBatch(items []dto.GradeItem, actorID uint) ([]dto.GradeResultDTO, error) {
	if err := requireReviewer(s.userRepo, actorID); err != nil {
		return nil, err
	}

	// Each answer is graded independently; an unparseable value fails its
	// own item only.
	results := make([]dto.GradeResultDTO, 0, len(items))
	for _, item := range items {
		answer, err := s.recordGrade(item.AnswerID, item.Value)
		if err != nil {
			log.Warn().Err(err).Uint("answerID", item.AnswerID).Msg("Skipping grade in batch")
			results = append(results, dto.GradeResultDTO{AnswerID: item.AnswerID, Error: err.Error()})
			continue
		}
		results = append(results, dto.GradeResultDTO{AnswerID: item.AnswerID, Grade: answer.Grade})
	}
	return results, nil
}

func (s *gradingService) recordGrade(answerID uint, rawValue string) (*model.Answer, error) {
	value, err := parseGrade(rawValue)
	if err != nil {
		// Prior grade, if any, stays untouched.
		return nil, err
	}

	answer, err := s.answerRepo.FindByIDWithQuestion(answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("answer %d: %w", answerID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("loading answer %d: %w", answerID, err)
	}
	if answer.Question.Type != model.QuestionTypeText {
		return nil, fmt.Errorf("answer %d is not free-text: %w", answerID, apperr.ErrInvalidInput)
	}

	answer.Grade = &value
	if err := s.answerRepo.Update(answer); err != nil {
		return nil, fmt.Errorf("saving grade for answer %d: %w", answerID, err)
	}
	log.Info().Uint("answerID", answerID).Float64("grade", value).Msg("Grade recorded")
	return answer, nil
}

// parseGrade parses a reviewer-entered value and clamps it into [0, 100].
// Out-of-range numbers are accepted and clamped; non-numbers are rejected.
func parseGrade(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("grade %q is not a number: %w", raw, apperr.ErrInvalidInput)
	}
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return v, nil
}

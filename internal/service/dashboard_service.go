package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/qdimov/quizdesk/internal/apperr"
	"github.com/qdimov/quizdesk/internal/dto"
	"github.com/qdimov/quizdesk/internal/model"
	"github.com/qdimov/quizdesk/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DashboardService serves the attempt listings and the per-attempt detail
// view with live percentages. Examinees see their own attempts; reviewers
// see everything.
type DashboardService interface {
	AttemptsForUser(userID uint) ([]dto.AttemptSummaryDTO, error)
	AllAttempts(actorID uint) ([]dto.AttemptSummaryDTO, error)
	AttemptDetail(attemptID, actorID uint) (*dto.AttemptDetailDTO, error)
}

type dashboardService struct {
	attemptRepo repository.AttemptRepository
	userRepo    repository.UserRepository
	scoring     ScoringService
}

func NewDashboardService(
	attemptRepo repository.AttemptRepository,
	userRepo repository.UserRepository,
	scoring ScoringService,
) DashboardService {
	return &dashboardService{attemptRepo: attemptRepo, userRepo: userRepo, scoring: scoring}
}

func (s *dashboardService) AttemptsForUser(userID uint) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindAllByUser(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to list user attempts")
		return nil, fmt.Errorf("error fetching attempts for user %d: %w", userID, err)
	}
	return summarize(attempts), nil
}

func (s *dashboardService) AllAttempts(actorID uint) ([]dto.AttemptSummaryDTO, error) {
	if err := requireReviewer(s.userRepo, actorID); err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list all attempts")
		return nil, fmt.Errorf("error fetching attempts: %w", err)
	}
	return summarize(attempts), nil
}

func (s *dashboardService) AttemptDetail(attemptID, actorID uint) (*dto.AttemptDetailDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attempt %d: %w", attemptID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}

	if attempt.UserID != actorID {
		if err := requireReviewer(s.userRepo, actorID); err != nil {
			return nil, err
		}
	}

	breakdown, err := s.scoring.BreakdownFor(attemptID)
	if err != nil {
		return nil, err
	}

	detail := dto.AttemptDetailDTO{
		AttemptSummaryDTO: summaryOf(&attempt.Quiz, &attempt.User, attempt),
		ObjectivePercent:  breakdown.ObjectivePercent(),
		SubjectivePercent: breakdown.SubjectivePercent(),
	}

	detail.Answers = make([]dto.AnswerDTO, 0, len(attempt.Answers))
	for _, answer := range attempt.Answers {
		var aDTO dto.AnswerDTO
		if err := copier.Copy(&aDTO, &answer); err != nil {
			log.Warn().Err(err).Uint("answerID", answer.ID).Msg("Failed to copy answer to DTO")
			continue
		}
		aDTO.QuestionText = answer.Question.Text
		aDTO.QuestionType = answer.Question.Type
		detail.Answers = append(detail.Answers, aDTO)
	}
	return &detail, nil
}

func summarize(attempts []model.Attempt) []dto.AttemptSummaryDTO {
	dtos := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	for i := range attempts {
		dtos = append(dtos, summaryOf(&attempts[i].Quiz, &attempts[i].User, &attempts[i]))
	}
	return dtos
}

func summaryOf(quiz *model.Quiz, user *model.User, attempt *model.Attempt) dto.AttemptSummaryDTO {
	return dto.AttemptSummaryDTO{
		ID:          attempt.ID,
		QuizID:      attempt.QuizID,
		QuizTitle:   quiz.Title,
		UserID:      attempt.UserID,
		Username:    user.Username,
		Status:      attempt.Status,
		Score:       attempt.Score,
		TotalChoice: attempt.TotalChoice,
		StartedAt:   attempt.StartedAt,
		EndedAt:     attempt.EndedAt,
		TimeTaken:   attempt.TimeTaken,
		HasReport:   attempt.ReportPath != nil,
		CreatedAt:   attempt.CreatedAt,
	}
}

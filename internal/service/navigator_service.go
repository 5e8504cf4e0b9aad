package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/qdimov/quizdesk/internal/apperr"
	"github.com/qdimov/quizdesk/internal/dto"
	"github.com/qdimov/quizdesk/internal/model"
	"github.com/qdimov/quizdesk/internal/repository"
	"github.com/qdimov/quizdesk/internal/session"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ValidationError is a recoverable answer-submission failure: the current
// question is re-rendered with the message, nothing is persisted, and the
// cursor does not move.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NavigatorService walks an examinee through a quiz one question at a
// time, strictly forward. It writes the answer ledger; score totals are
// left to the aggregator at finalization.
type NavigatorService interface {
	Begin(userID, quizID uint) (*dto.BeginAttemptResponse, error)
	Question(attemptID uint, index int) (*dto.QuestionViewDTO, error)
	SubmitAnswer(attemptID uint, index int, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
}

type navigatorService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	answerRepo   repository.AnswerRepository
	cursors      session.CursorStore
}

func NewNavigatorService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	cursors session.CursorStore,
) NavigatorService {
	return &navigatorService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		cursors:      cursors,
	}
}

func (s *navigatorService) Begin(userID, quizID uint) (*dto.BeginAttemptResponse, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %d: %w", quizID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("loading quiz %d: %w", quizID, err)
	}

	count, err := s.questionRepo.CountByQuizID(quizID)
	if err != nil {
		return nil, fmt.Errorf("counting questions for quiz %d: %w", quizID, err)
	}

	departmentID := quiz.DepartmentID
	attempt := model.Attempt{
		UserID:       userID,
		QuizID:       quiz.ID,
		DepartmentID: &departmentID, // captured now, immune to later catalog edits
		Status:       model.StatusPending,
		StartedAt:    nowFunc(),
	}
	if err := s.attemptRepo.Create(&attempt); err != nil {
		return nil, fmt.Errorf("creating attempt: %w", err)
	}

	s.cursors.Open(attempt.ID)
	log.Info().Uint("attemptID", attempt.ID).Uint("quizID", quizID).Uint("userID", userID).Msg("Attempt started")

	return &dto.BeginAttemptResponse{
		AttemptID:      attempt.ID,
		QuizID:         quiz.ID,
		FirstQuestion:  1,
		TotalQuestions: int(count),
	}, nil
}

func (s *navigatorService) Question(attemptID uint, index int) (*dto.QuestionViewDTO, error) {
	attempt, questions, err := s.attemptWithQuestions(attemptID)
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(questions) {
		return nil, fmt.Errorf("question %d of %d: %w", index, len(questions), apperr.ErrOutOfRange)
	}

	question := questions[index-1]
	var qDTO dto.QuestionDTO
	if err := copier.Copy(&qDTO, &question); err != nil {
		return nil, fmt.Errorf("preparing question response: %w", err)
	}
	// copier maps Choices by field name; correctness flags stay server-side
	// because ChoiceDTO has no such field.

	return &dto.QuestionViewDTO{
		AttemptID:      attempt.ID,
		QuizID:         attempt.QuizID,
		QuestionNumber: index,
		TotalQuestions: len(questions),
		Question:       qDTO,
	}, nil
}

func (s *navigatorService) SubmitAnswer(attemptID uint, index int, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	attempt, questions, err := s.attemptWithQuestions(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.StatusPending || attempt.Finalized() {
		return nil, fmt.Errorf("attempt %d is already finalized: %w", attemptID, apperr.ErrInvalidState)
	}
	if index < 1 || index > len(questions) {
		return nil, fmt.Errorf("question %d of %d: %w", index, len(questions), apperr.ErrOutOfRange)
	}

	cursor, ok := s.cursors.Get(attemptID)
	if !ok {
		return nil, fmt.Errorf("no live session for attempt %d: %w", attemptID, apperr.ErrNotFound)
	}
	// Forward-only: no backward revision, no jumping ahead.
	if index != cursor.Position {
		return nil, fmt.Errorf("attempt %d is at question %d, got %d: %w", attemptID, cursor.Position, index, apperr.ErrOutOfRange)
	}

	question := questions[index-1]
	answer, verr := buildAnswer(&question, req)
	if verr != nil {
		return nil, verr
	}
	answer.UserID = attempt.UserID
	answer.AttemptID = attempt.ID

	if err := s.answerRepo.Upsert(answer); err != nil {
		return nil, fmt.Errorf("recording answer for attempt %d question %d: %w", attemptID, question.ID, err)
	}

	correct := answer.ChoiceID != nil && isCorrectChoice(&question, *answer.ChoiceID)
	cursor, resp := stepCursor(cursor, correct, index, len(questions))
	s.cursors.Save(cursor)
	return resp, nil
}

// stepCursor advances the navigation cursor after an accepted answer and
// shapes the step response, carrying the running correct counter for
// display.
func stepCursor(c session.Cursor, correct bool, index, total int) (session.Cursor, *dto.SubmitAnswerResponse) {
	if correct {
		c.Correct++
	}
	resp := &dto.SubmitAnswerResponse{CorrectSoFar: c.Correct}
	if index == total {
		resp.Last = true
		return c, resp
	}
	c.Position = index + 1
	resp.NextIndex = c.Position
	return c, resp
}

func (s *navigatorService) attemptWithQuestions(attemptID uint) (*model.Attempt, []model.Question, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("attempt %d: %w", attemptID, apperr.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}
	questions, err := s.questionRepo.FindByQuizID(attempt.QuizID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading questions for quiz %d: %w", attempt.QuizID, err)
	}
	return attempt, questions, nil
}

// buildAnswer validates the response against the question type and shapes
// the ledger entry. Both failure modes are recoverable ValidationErrors.
func buildAnswer(q *model.Question, req dto.SubmitAnswerRequest) (*model.Answer, *ValidationError) {
	switch q.Type {
	case model.QuestionTypeMCQ:
		if req.ChoiceID == nil {
			return nil, &ValidationError{Reason: "Please select an answer."}
		}
		if !choiceBelongs(q, *req.ChoiceID) {
			return nil, &ValidationError{Reason: "Please select an answer."}
		}
		return &model.Answer{QuestionID: q.ID, ChoiceID: req.ChoiceID}, nil
	case model.QuestionTypeText:
		text := strings.TrimSpace(req.WrittenAnswer)
		if text == "" {
			return nil, &ValidationError{Reason: "Please write an answer."}
		}
		return &model.Answer{QuestionID: q.ID, WrittenAnswer: text}, nil
	default:
		return nil, &ValidationError{Reason: "Unsupported question type."}
	}
}

func choiceBelongs(q *model.Question, choiceID uint) bool {
	for _, c := range q.Choices {
		if c.ID == choiceID {
			return true
		}
	}
	return false
}

func isCorrectChoice(q *model.Question, choiceID uint) bool {
	for _, c := range q.Choices {
		if c.ID == choiceID {
			return c.IsCorrect
		}
	}
	return false
}

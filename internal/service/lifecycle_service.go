package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/qdimov/quizdesk/internal/apperr"
	"github.com/qdimov/quizdesk/internal/model"
	"github.com/qdimov/quizdesk/internal/repository"
	"github.com/qdimov/quizdesk/internal/session"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// nowFunc is swapped out by tests that pin timing fields.
var nowFunc = time.Now

// LifecycleService owns the attempt status machine:
// Pending -> {Pass, Fail} at finalization, and any state -> any state
// through the reviewer override. All transitions mutate status and the
// artifact reference under the attempt's row lock.
type LifecycleService interface {
	Finalize(attemptID uint) (*model.Attempt, error)
	Override(attemptID uint, newStatus string, actorID uint) (*model.Attempt, error)
}

type lifecycleService struct {
	attemptRepo   repository.AttemptRepository
	answerRepo    repository.AnswerRepository
	userRepo      repository.UserRepository
	scoring       ScoringService
	reports       ReportService
	cursors       session.CursorStore
	passThreshold float64
	db            *gorm.DB
}

func NewLifecycleService(
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	userRepo repository.UserRepository,
	scoring ScoringService,
	reports ReportService,
	cursors session.CursorStore,
	passThreshold float64,
	db *gorm.DB,
) LifecycleService {
	return &lifecycleService{
		attemptRepo:   attemptRepo,
		answerRepo:    answerRepo,
		userRepo:      userRepo,
		scoring:       scoring,
		reports:       reports,
		cursors:       cursors,
		passThreshold: passThreshold,
		db:            db,
	}
}

// Finalize closes a Pending attempt: timing fields, score/total from the
// aggregator, verdict from the pass threshold. Report generation runs after
// the commit; its failure never rolls the transition back.
func (s *lifecycleService) Finalize(attemptID uint) (*model.Attempt, error) {
	var attempt *model.Attempt
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		attempt, err = s.attemptRepo.FindByIDForUpdate(tx, attemptID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("attempt %d: %w", attemptID, apperr.ErrNotFound)
			}
			return fmt.Errorf("locking attempt %d: %w", attemptID, err)
		}
		if attempt.Status != model.StatusPending || attempt.Finalized() {
			return fmt.Errorf("attempt %d is %s: %w", attemptID, attempt.Status, apperr.ErrInvalidState)
		}

		answers, err := s.answerRepo.FindByAttemptIDTx(tx, attemptID)
		if err != nil {
			return fmt.Errorf("loading answers for attempt %d: %w", attemptID, err)
		}
		if len(answers) == 0 {
			return fmt.Errorf("attempt %d has no recorded answers: %w", attemptID, apperr.ErrInvalidState)
		}

		breakdown, err := s.scoring.BreakdownForTx(tx, attempt)
		if err != nil {
			return err
		}

		finalize(attempt, breakdown, s.passThreshold, nowFunc())
		return tx.Save(attempt).Error
	})
	if err != nil {
		return nil, err
	}

	s.cursors.Close(attemptID)
	log.Info().Uint("attemptID", attemptID).Str("status", attempt.Status).
		Int("score", *attempt.Score).Int("total", attempt.TotalChoice).
		Msg("Attempt finalized")

	if genErr := s.reports.Generate(attemptID); genErr != nil {
		// The verdict stands; the artifact is a cache regenerated on the
		// next download.
		log.Error().Err(genErr).Uint("attemptID", attemptID).Msg("Report generation failed after finalize")
	}

	return s.attemptRepo.FindByID(attemptID)
}

// Override relabels a finalized attempt or sends it back to Pending for
// regrading. Reverting to Pending invalidates the artifact but keeps
// score, total and timing so the timed attempt is not lost.
func (s *lifecycleService) Override(attemptID uint, newStatus string, actorID uint) (*model.Attempt, error) {
	if err := requireReviewer(s.userRepo, actorID); err != nil {
		return nil, err
	}

	switch newStatus {
	case model.StatusPending, model.StatusPass, model.StatusFail:
	default:
		return nil, fmt.Errorf("unknown status %q: %w", newStatus, apperr.ErrInvalidInput)
	}

	var (
		reportToDrop *string
		regenerate   bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		attempt, err := s.attemptRepo.FindByIDForUpdate(tx, attemptID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("attempt %d: %w", attemptID, apperr.ErrNotFound)
			}
			return fmt.Errorf("locking attempt %d: %w", attemptID, err)
		}

		reportToDrop, regenerate = applyOverride(attempt, newStatus)
		return tx.Save(attempt).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("attemptID", attemptID).Str("status", newStatus).Uint("actorID", actorID).Msg("Attempt status overridden")

	if regenerate {
		if genErr := s.reports.Generate(attemptID); genErr != nil {
			log.Error().Err(genErr).Uint("attemptID", attemptID).Msg("Report regeneration failed after override")
		}
	} else if reportToDrop != nil {
		if err := s.reports.Drop(*reportToDrop); err != nil {
			log.Warn().Err(err).Uint("attemptID", attemptID).Msg("Failed to delete invalidated report artifact")
		}
	}

	return s.attemptRepo.FindByID(attemptID)
}

// finalize applies the closing mutation. EndedAt, TimeTaken and Score are
// set together, never individually; the score comes from the aggregator,
// not the cursor's display counter.
func finalize(attempt *model.Attempt, b ScoreBreakdown, threshold float64, now time.Time) {
	taken := now.Sub(attempt.StartedAt)
	score := b.ObjectiveCorrect

	attempt.EndedAt = &now
	attempt.TimeTaken = &taken
	attempt.Score = &score
	attempt.TotalChoice = b.ChoiceQuestions
	attempt.Status = Verdict(score, b.ChoiceQuestions, threshold)
}

// applyOverride relabels the attempt and decides the artifact's fate:
// reverting to Pending clears the reference and hands back the old path
// for removal, any other status asks for a fresh artifact. Score, total
// and timing are never touched.
func applyOverride(attempt *model.Attempt, newStatus string) (dropPath *string, regenerate bool) {
	attempt.Status = newStatus
	if newStatus == model.StatusPending {
		dropPath = attempt.ReportPath
		attempt.ReportPath = nil
		return dropPath, false
	}
	return nil, true
}

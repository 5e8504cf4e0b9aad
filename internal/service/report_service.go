package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/qdimov/quizdesk/internal/apperr"
	"github.com/qdimov/quizdesk/internal/model"
	"github.com/qdimov/quizdesk/internal/repository"
	"github.com/qdimov/quizdesk/internal/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	notGradedMarker    = "Not yet graded"
	noSubjectiveMarker = "None"
)

// ReportData is the snapshot a report is rendered from. Everything here is
// derivable from the attempt, its answers and the catalog; the artifact is
// a cache, never a source of truth.
type ReportData struct {
	Username          string
	QuizTitle         string
	Score             *int
	TotalChoice       int
	TextQuestions     int
	ObjectivePercent  float64
	SubjectivePercent *float64
	Status            string
	TimeTaken         *time.Duration
	StartedAt         time.Time
	EndedAt           *time.Time
	GeneratedAt       time.Time
	Location          *time.Location
}

// ReportService derives the PDF artifact for status-carrying attempts and
// releases artifacts invalidated by a reversion to Pending.
type ReportService interface {
	Generate(attemptID uint) error
	Drop(path string) error
	OpenFor(attemptID uint) (io.ReadCloser, error)
}

type reportService struct {
	attemptRepo repository.AttemptRepository
	scoring     ScoringService
	store       storage.ArtifactStore
	location    *time.Location
	db          *gorm.DB
}

func NewReportService(
	attemptRepo repository.AttemptRepository,
	scoring ScoringService,
	store storage.ArtifactStore,
	timezone string,
	db *gorm.DB,
) ReportService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", timezone).Msg("Unknown report timezone, falling back to UTC")
		loc = time.UTC
	}
	return &reportService{
		attemptRepo: attemptRepo,
		scoring:     scoring,
		store:       store,
		location:    loc,
		db:          db,
	}
}

// Generate renders and stores the artifact, replacing any prior one for the
// attempt. The stable per-attempt key makes replacement atomic, so no
// orphaned artifacts accumulate.
func (s *reportService) Generate(attemptID uint) error {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("attempt %d: %w", attemptID, apperr.ErrNotFound)
		}
		return fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}
	if attempt.Status == model.StatusPending {
		return fmt.Errorf("attempt %d is Pending, nothing to report: %w", attemptID, apperr.ErrInvalidState)
	}

	breakdown, err := s.scoring.BreakdownFor(attemptID)
	if err != nil {
		return err
	}

	data := ReportData{
		Username:          attempt.User.Username,
		QuizTitle:         attempt.Quiz.Title,
		Score:             attempt.Score,
		TotalChoice:       attempt.TotalChoice,
		TextQuestions:     breakdown.TextQuestions,
		ObjectivePercent:  breakdown.ObjectivePercent(),
		SubjectivePercent: breakdown.SubjectivePercent(),
		Status:            attempt.Status,
		TimeTaken:         attempt.TimeTaken,
		StartedAt:         attempt.StartedAt,
		EndedAt:           attempt.EndedAt,
		GeneratedAt:       nowFunc(),
		Location:          s.location,
	}

	pdfBytes, err := renderReportPDF(data)
	if err != nil {
		return fmt.Errorf("rendering report for attempt %d: %w", attemptID, err)
	}

	key := artifactKey(attemptID)
	if err := s.store.Put(context.Background(), key, pdfBytes); err != nil {
		return fmt.Errorf("storing report for attempt %d: %w: %v", attemptID, apperr.ErrResource, err)
	}

	// Attach the reference under the row lock so status/artifact pairs are
	// never observed mid-transition. A reviewer may have reverted the
	// attempt while we rendered; in that case the fresh artifact is
	// already invalid and gets dropped instead of attached.
	return s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.attemptRepo.FindByIDForUpdate(tx, attemptID)
		if err != nil {
			return fmt.Errorf("locking attempt %d: %w", attemptID, err)
		}
		if locked.Status == model.StatusPending {
			log.Warn().Uint("attemptID", attemptID).Msg("Attempt reverted to Pending during report generation, dropping artifact")
			if rmErr := s.store.Remove(key); rmErr != nil {
				log.Warn().Err(rmErr).Str("key", key).Msg("Failed to drop stale report artifact")
			}
			return nil
		}
		locked.ReportPath = &key
		return tx.Save(locked).Error
	})
}

func (s *reportService) Drop(path string) error {
	if err := s.store.Remove(path); err != nil {
		return fmt.Errorf("removing artifact %s: %w: %v", path, apperr.ErrResource, err)
	}
	return nil
}

func (s *reportService) OpenFor(attemptID uint) (io.ReadCloser, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attempt %d: %w", attemptID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}
	if attempt.ReportPath == nil {
		return nil, fmt.Errorf("attempt %d has no report: %w", attemptID, apperr.ErrNotFound)
	}

	rc, err := s.store.Open(*attempt.ReportPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact %s: %w", *attempt.ReportPath, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("opening artifact %s: %w: %v", *attempt.ReportPath, apperr.ErrResource, err)
	}
	return rc, nil
}

func artifactKey(attemptID uint) string {
	return fmt.Sprintf("attempts/%d.pdf", attemptID)
}

// reportLines lays the report out as ordered text lines. Deterministic for
// unchanged inputs except the Generated On line.
func reportLines(d ReportData) []string {
	const stamp = "2006-01-02 15:04:05"

	score := "-"
	if d.Score != nil {
		score = fmt.Sprintf("%d/%d", *d.Score, d.TotalChoice)
	}
	// A quiz with no text questions has no subjective part; only a graded
	// one renders a percentage.
	subjective := noSubjectiveMarker
	switch {
	case d.SubjectivePercent != nil:
		subjective = fmt.Sprintf("%.2f%%", *d.SubjectivePercent)
	case d.TextQuestions > 0:
		subjective = notGradedMarker
	}
	taken := "-"
	if d.TimeTaken != nil {
		taken = d.TimeTaken.Round(time.Second).String()
	}
	ended := "-"
	if d.EndedAt != nil {
		ended = d.EndedAt.In(d.Location).Format(stamp)
	}

	return []string{
		fmt.Sprintf("User: %s", d.Username),
		fmt.Sprintf("Quiz: %s", d.QuizTitle),
		fmt.Sprintf("Score: %s", score),
		fmt.Sprintf("Objective: %.2f%%", d.ObjectivePercent),
		fmt.Sprintf("Subjective: %s", subjective),
		fmt.Sprintf("Status: %s", d.Status),
		fmt.Sprintf("Time Taken: %s", taken),
		fmt.Sprintf("Start Time: %s", d.StartedAt.In(d.Location).Format(stamp)),
		fmt.Sprintf("End Time: %s", ended),
		fmt.Sprintf("Generated On: %s", d.GeneratedAt.In(d.Location).Format(stamp)),
	}
}

func renderReportPDF(d ReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Pin the document creation date so regeneration with unchanged data is
	// reproducible except for the generation timestamp content line.
	pdf.SetCreationDate(d.GeneratedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 10, "Quiz Attempt Report", "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range reportLines(d) {
		pdf.MultiCell(0, 8, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

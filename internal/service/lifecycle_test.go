package service

import (
	"testing"
	"time"

	"github.com/qdimov/quizdesk/internal/model"
)

func pendingAttempt(startedAt time.Time) *model.Attempt {
	return &model.Attempt{
		ID:        1,
		UserID:    1,
		QuizID:    1,
		Status:    model.StatusPending,
		StartedAt: startedAt,
	}
}

func TestFinalizeSetsClosingFieldsTogether(t *testing.T) {
	started := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	ended := started.Add(90 * time.Second)

	attempt := pendingAttempt(started)
	if attempt.EndedAt != nil || attempt.TimeTaken != nil || attempt.Score != nil {
		t.Fatalf("pending attempt already carries closing fields: %+v", attempt)
	}

	finalize(attempt, ScoreBreakdown{ObjectiveCorrect: 3, ChoiceQuestions: 5}, 0.6, ended)

	if attempt.EndedAt == nil || attempt.TimeTaken == nil || attempt.Score == nil {
		t.Fatalf("closing fields not all set: EndedAt=%v TimeTaken=%v Score=%v",
			attempt.EndedAt, attempt.TimeTaken, attempt.Score)
	}
	if !attempt.EndedAt.Equal(ended) {
		t.Fatalf("EndedAt = %v, want %v", attempt.EndedAt, ended)
	}
	if *attempt.TimeTaken != 90*time.Second {
		t.Fatalf("TimeTaken = %v, want 90s", *attempt.TimeTaken)
	}
	if *attempt.Score != 3 || attempt.TotalChoice != 5 {
		t.Fatalf("Score = %d/%d, want 3/5", *attempt.Score, attempt.TotalChoice)
	}
	if !attempt.Finalized() {
		t.Fatal("attempt not reported as finalized")
	}
}

func TestFinalizeVerdict(t *testing.T) {
	tests := []struct {
		name       string
		breakdown  ScoreBreakdown
		threshold  float64
		wantStatus string
	}{
		{"all correct passes", ScoreBreakdown{ObjectiveCorrect: 3, ChoiceQuestions: 3}, 0.6, model.StatusPass},
		{"exactly at threshold passes", ScoreBreakdown{ObjectiveCorrect: 3, ChoiceQuestions: 5}, 0.6, model.StatusPass},
		{"below threshold fails", ScoreBreakdown{ObjectiveCorrect: 1, ChoiceQuestions: 2}, 0.6, model.StatusFail},
		{"no choice questions passes", ScoreBreakdown{TextQuestions: 2}, 0.6, model.StatusPass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt := pendingAttempt(time.Now())
			finalize(attempt, tt.breakdown, tt.threshold, time.Now())
			if attempt.Status != tt.wantStatus {
				t.Fatalf("Status = %q, want %q", attempt.Status, tt.wantStatus)
			}
		})
	}
}

func TestApplyOverrideToPending(t *testing.T) {
	started := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	attempt := pendingAttempt(started)
	finalize(attempt, ScoreBreakdown{ObjectiveCorrect: 4, ChoiceQuestions: 5}, 0.6, started.Add(time.Minute))
	path := "attempts/1.pdf"
	attempt.ReportPath = &path

	endedBefore := *attempt.EndedAt
	takenBefore := *attempt.TimeTaken
	scoreBefore := *attempt.Score
	totalBefore := attempt.TotalChoice

	dropPath, regenerate := applyOverride(attempt, model.StatusPending)

	if attempt.Status != model.StatusPending {
		t.Fatalf("Status = %q, want Pending", attempt.Status)
	}
	if attempt.ReportPath != nil {
		t.Fatalf("ReportPath = %q, want cleared", *attempt.ReportPath)
	}
	if dropPath == nil || *dropPath != path {
		t.Fatalf("dropPath = %v, want %q", dropPath, path)
	}
	if regenerate {
		t.Fatal("reverting to Pending must not regenerate the artifact")
	}

	// Score, total and timing survive the reversion.
	if !attempt.EndedAt.Equal(endedBefore) || *attempt.TimeTaken != takenBefore ||
		*attempt.Score != scoreBefore || attempt.TotalChoice != totalBefore {
		t.Fatalf("reversion disturbed closing fields: %+v", attempt)
	}
}

func TestApplyOverrideToVerdict(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"pass to fail", model.StatusPass, model.StatusFail},
		{"fail to pass", model.StatusFail, model.StatusPass},
		{"pending to fail", model.StatusPending, model.StatusFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt := pendingAttempt(time.Now())
			attempt.Status = tt.from
			path := "attempts/1.pdf"
			attempt.ReportPath = &path

			dropPath, regenerate := applyOverride(attempt, tt.to)

			if attempt.Status != tt.to {
				t.Fatalf("Status = %q, want %q", attempt.Status, tt.to)
			}
			if !regenerate {
				t.Fatal("verdict override must request a fresh artifact")
			}
			if dropPath != nil {
				t.Fatalf("dropPath = %q, want nil (replacement happens under the same key)", *dropPath)
			}
		})
	}
}

// A Pending attempt never carries an artifact reference, whichever path
// led there.
func TestPendingNeverCarriesReport(t *testing.T) {
	attempt := pendingAttempt(time.Now())
	if attempt.ReportPath != nil {
		t.Fatal("fresh attempt carries a report reference")
	}

	finalize(attempt, ScoreBreakdown{ObjectiveCorrect: 1, ChoiceQuestions: 1}, 0.6, time.Now())
	path := "attempts/1.pdf"
	attempt.ReportPath = &path

	applyOverride(attempt, model.StatusPending)
	if attempt.Status == model.StatusPending && attempt.ReportPath != nil {
		t.Fatal("Pending attempt carries a report reference")
	}
}

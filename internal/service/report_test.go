package service

import (
	"strings"
	"testing"
	"time"
)

func sampleReportData(generatedAt time.Time) ReportData {
	score := 4
	taken := 95 * time.Second
	started := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	ended := started.Add(taken)
	return ReportData{
		Username:         "aziza",
		QuizTitle:        "Network Basics",
		Score:            &score,
		TotalChoice:      5,
		TextQuestions:    2,
		ObjectivePercent: 80,
		Status:           "Pass",
		TimeTaken:        &taken,
		StartedAt:        started,
		EndedAt:          &ended,
		GeneratedAt:      generatedAt,
		Location:         time.UTC,
	}
}

func TestReportLines(t *testing.T) {
	d := sampleReportData(time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC))
	lines := reportLines(d)

	want := []string{
		"User: aziza",
		"Quiz: Network Basics",
		"Score: 4/5",
		"Objective: 80.00%",
		"Subjective: Not yet graded",
		"Status: Pass",
		"Time Taken: 1m35s",
		"Start Time: 2026-03-10 14:00:00",
		"End Time: 2026-03-10 14:01:35",
		"Generated On: 2026-03-10 15:00:00",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %v", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestReportLinesGradedSubjective(t *testing.T) {
	d := sampleReportData(time.Now())
	p := 70.0
	d.SubjectivePercent = &p

	for _, line := range reportLines(d) {
		if strings.HasPrefix(line, "Subjective: ") {
			if line != "Subjective: 70.00%" {
				t.Fatalf("subjective line = %q", line)
			}
			return
		}
	}
	t.Fatal("no subjective line in report")
}

// A quiz with no text questions has no subjective part; that must not
// read as "not yet graded".
func TestReportLinesNoSubjectivePart(t *testing.T) {
	d := sampleReportData(time.Now())
	d.TextQuestions = 0
	d.SubjectivePercent = nil

	for _, line := range reportLines(d) {
		if strings.HasPrefix(line, "Subjective: ") {
			if line != "Subjective: None" {
				t.Fatalf("subjective line = %q, want %q", line, "Subjective: None")
			}
			return
		}
	}
	t.Fatal("no subjective line in report")
}

// Regenerating from the same snapshot must change only the generation
// timestamp line; every other line is a pure function of the attempt.
func TestReportLinesStableAcrossRegeneration(t *testing.T) {
	first := reportLines(sampleReportData(time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)))
	second := reportLines(sampleReportData(time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC)))

	if len(first) != len(second) {
		t.Fatalf("line counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		generated := strings.HasPrefix(first[i], "Generated On: ")
		if generated && first[i] == second[i] {
			t.Fatal("generation timestamp did not change between runs")
		}
		if !generated && first[i] != second[i] {
			t.Fatalf("line %d drifted: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestRenderReportPDF(t *testing.T) {
	d := sampleReportData(time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC))
	out, err := renderReportPDF(d)
	if err != nil {
		t.Fatalf("renderReportPDF() error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty PDF output")
	}
	if !strings.HasPrefix(string(out[:5]), "%PDF-") {
		t.Fatalf("output does not look like a PDF: %q", out[:5])
	}
}

func TestRenderReportPDFDeterministic(t *testing.T) {
	d := sampleReportData(time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC))
	a, err := renderReportPDF(d)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	b, err := renderReportPDF(d)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if string(a) != string(b) {
		t.Fatal("identical snapshots rendered different PDFs")
	}
}

// An overridden verdict regenerates the artifact; the replacement carries
// the newer generation timestamp.
func TestRenderReportPDFRegenerationIsFresh(t *testing.T) {
	first := sampleReportData(time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC))
	second := first
	second.Status = "Fail"
	second.GeneratedAt = first.GeneratedAt.Add(time.Hour)

	a, err := renderReportPDF(first)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	b, err := renderReportPDF(second)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if string(a) == string(b) {
		t.Fatal("regenerated artifact is identical to the replaced one")
	}

	lines := reportLines(second)
	want := "Generated On: 2026-03-10 16:00:00"
	if lines[len(lines)-1] != want {
		t.Fatalf("generation line = %q, want %q", lines[len(lines)-1], want)
	}
}

func TestArtifactKey(t *testing.T) {
	if got := artifactKey(42); got != "attempts/42.pdf" {
		t.Fatalf("artifactKey(42) = %q", got)
	}
}

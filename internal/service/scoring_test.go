package service

import (
	"testing"

	"github.com/qdimov/quizdesk/internal/model"
)

func choicePtr(id uint) *uint { return &id }

func gradePtr(v float64) *float64 { return &v }

// mixedCatalog: Q1..Q3 are MCQ (correct choices 11, 21, 31), Q4 and Q5 are TEXT.
func mixedCatalog() []model.Question {
	return []model.Question{
		{ID: 1, Type: model.QuestionTypeMCQ, Choices: []model.Choice{
			{ID: 10, QuestionID: 1}, {ID: 11, QuestionID: 1, IsCorrect: true},
		}},
		{ID: 2, Type: model.QuestionTypeMCQ, Choices: []model.Choice{
			{ID: 20, QuestionID: 2}, {ID: 21, QuestionID: 2, IsCorrect: true},
		}},
		{ID: 3, Type: model.QuestionTypeMCQ, Choices: []model.Choice{
			{ID: 30, QuestionID: 3}, {ID: 31, QuestionID: 3, IsCorrect: true},
		}},
		{ID: 4, Type: model.QuestionTypeText},
		{ID: 5, Type: model.QuestionTypeText},
	}
}

func TestComputeBreakdown(t *testing.T) {
	tests := []struct {
		name    string
		answers []model.Answer
		want    ScoreBreakdown
	}{
		{
			name: "all choice answers correct",
			answers: []model.Answer{
				{QuestionID: 1, ChoiceID: choicePtr(11)},
				{QuestionID: 2, ChoiceID: choicePtr(21)},
				{QuestionID: 3, ChoiceID: choicePtr(31)},
			},
			want: ScoreBreakdown{ObjectiveCorrect: 3, ChoiceQuestions: 3, TextQuestions: 2},
		},
		{
			name: "wrong and missing choice answers",
			answers: []model.Answer{
				{QuestionID: 1, ChoiceID: choicePtr(10)},
				{QuestionID: 2, ChoiceID: choicePtr(21)},
			},
			want: ScoreBreakdown{ObjectiveCorrect: 1, ChoiceQuestions: 3, TextQuestions: 2},
		},
		{
			name: "text grades accumulate",
			answers: []model.Answer{
				{QuestionID: 4, WrittenAnswer: "one", Grade: gradePtr(80)},
				{QuestionID: 5, WrittenAnswer: "two", Grade: gradePtr(60)},
			},
			want: ScoreBreakdown{ChoiceQuestions: 3, TextQuestions: 2, GradedText: 2, GradeSum: 140},
		},
		{
			name: "ungraded text answers do not count",
			answers: []model.Answer{
				{QuestionID: 4, WrittenAnswer: "one", Grade: gradePtr(50)},
				{QuestionID: 5, WrittenAnswer: "two"},
			},
			want: ScoreBreakdown{ChoiceQuestions: 3, TextQuestions: 2, GradedText: 1, GradeSum: 50},
		},
		{
			name: "answer to unknown question is ignored",
			answers: []model.Answer{
				{QuestionID: 99, ChoiceID: choicePtr(11)},
			},
			want: ScoreBreakdown{ChoiceQuestions: 3, TextQuestions: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBreakdown(mixedCatalog(), tt.answers)
			if got != tt.want {
				t.Fatalf("ComputeBreakdown() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestObjectivePercent(t *testing.T) {
	tests := []struct {
		name string
		b    ScoreBreakdown
		want float64
	}{
		{"full marks", ScoreBreakdown{ObjectiveCorrect: 3, ChoiceQuestions: 3}, 100},
		{"half marks", ScoreBreakdown{ObjectiveCorrect: 1, ChoiceQuestions: 2}, 50},
		{"no choice questions", ScoreBreakdown{TextQuestions: 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.ObjectivePercent(); got != tt.want {
				t.Fatalf("ObjectivePercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubjectivePercent(t *testing.T) {
	tests := []struct {
		name string
		b    ScoreBreakdown
		want *float64
	}{
		{"fully graded", ScoreBreakdown{TextQuestions: 2, GradedText: 2, GradeSum: 140}, gradePtr(70)},
		{"partially graded is indeterminate", ScoreBreakdown{TextQuestions: 2, GradedText: 1, GradeSum: 80}, nil},
		{"no text questions is indeterminate", ScoreBreakdown{ChoiceQuestions: 3}, nil},
		{"all zero grades is a real zero", ScoreBreakdown{TextQuestions: 1, GradedText: 1, GradeSum: 0}, gradePtr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.b.SubjectivePercent()
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("SubjectivePercent() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("SubjectivePercent() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		total     int
		threshold float64
		want      string
	}{
		{"comfortably above threshold", 3, 3, 0.6, model.StatusPass},
		{"exactly at threshold", 3, 5, 0.6, model.StatusPass},
		{"just under threshold", 2, 5, 0.6, model.StatusFail},
		{"half of two fails at sixty percent", 1, 2, 0.6, model.StatusFail},
		{"zero of zero passes", 0, 0, 0.6, model.StatusPass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Verdict(tt.score, tt.total, tt.threshold); got != tt.want {
				t.Fatalf("Verdict(%d, %d, %v) = %q, want %q", tt.score, tt.total, tt.threshold, got, tt.want)
			}
		})
	}
}

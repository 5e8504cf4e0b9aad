package service

import (
	"github.com/qdimov/quizdesk/internal/model"
)

// ScoreBreakdown is the aggregation of one attempt's ledger against the
// question catalog. It is computed from plain slices so callers control the
// snapshot the numbers are derived from.
type ScoreBreakdown struct {
	ObjectiveCorrect int
	ChoiceQuestions  int
	TextQuestions    int
	GradedText       int
	GradeSum         float64
}

// ComputeBreakdown walks the catalog once and checks each choice answer
// against its question's correct option set. Answers referencing questions
// outside the catalog are ignored.
func ComputeBreakdown(questions []model.Question, answers []model.Answer) ScoreBreakdown {
	var b ScoreBreakdown

	correctChoices := make(map[uint]map[uint]bool, len(questions))
	types := make(map[uint]string, len(questions))
	for _, q := range questions {
		types[q.ID] = q.Type
		switch q.Type {
		case model.QuestionTypeMCQ:
			b.ChoiceQuestions++
			set := make(map[uint]bool, len(q.Choices))
			for _, c := range q.Choices {
				if c.IsCorrect {
					set[c.ID] = true
				}
			}
			correctChoices[q.ID] = set
		case model.QuestionTypeText:
			b.TextQuestions++
		}
	}

	for _, a := range answers {
		switch types[a.QuestionID] {
		case model.QuestionTypeMCQ:
			if a.ChoiceID != nil && correctChoices[a.QuestionID][*a.ChoiceID] {
				b.ObjectiveCorrect++
			}
		case model.QuestionTypeText:
			if a.Grade != nil {
				b.GradedText++
				b.GradeSum += *a.Grade
			}
		}
	}
	return b
}

// ObjectivePercent is the auto-graded share, 0 when the quiz has no choice
// questions.
func (b ScoreBreakdown) ObjectivePercent() float64 {
	if b.ChoiceQuestions == 0 {
		return 0
	}
	return float64(b.ObjectiveCorrect) / float64(b.ChoiceQuestions) * 100
}

// SubjectivePercent is defined only once every text question carries a
// grade; until then it is nil so "not yet graded" never reads as zero.
// A quiz without text questions has no subjective share either.
func (b ScoreBreakdown) SubjectivePercent() *float64 {
	if b.TextQuestions == 0 || b.GradedText < b.TextQuestions {
		return nil
	}
	p := b.GradeSum / (float64(b.TextQuestions) * 100) * 100
	return &p
}

// Verdict applies the pass threshold to the objective score/total pair.
func Verdict(score, total int, threshold float64) string {
	if float64(score) >= threshold*float64(total) {
		return model.StatusPass
	}
	return model.StatusFail
}

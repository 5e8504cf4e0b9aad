package service

import (
	"testing"

	"github.com/qdimov/quizdesk/internal/dto"
	"github.com/qdimov/quizdesk/internal/model"
	"github.com/qdimov/quizdesk/internal/session"
)

func mcqQuestion() *model.Question {
	return &model.Question{
		ID:   7,
		Type: model.QuestionTypeMCQ,
		Choices: []model.Choice{
			{ID: 70, QuestionID: 7},
			{ID: 71, QuestionID: 7, IsCorrect: true},
		},
	}
}

func textQuestion() *model.Question {
	return &model.Question{ID: 8, Type: model.QuestionTypeText}
}

func TestBuildAnswer(t *testing.T) {
	tests := []struct {
		name     string
		question *model.Question
		req      dto.SubmitAnswerRequest
		wantErr  bool
	}{
		{"valid choice", mcqQuestion(), dto.SubmitAnswerRequest{ChoiceID: choicePtr(70)}, false},
		{"missing choice", mcqQuestion(), dto.SubmitAnswerRequest{}, true},
		{"choice from another question", mcqQuestion(), dto.SubmitAnswerRequest{ChoiceID: choicePtr(999)}, true},
		{"valid text", textQuestion(), dto.SubmitAnswerRequest{WrittenAnswer: "an essay"}, false},
		{"blank text", textQuestion(), dto.SubmitAnswerRequest{WrittenAnswer: "   "}, true},
		{"unknown question type", &model.Question{ID: 9, Type: "AUDIO"}, dto.SubmitAnswerRequest{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, verr := buildAnswer(tt.question, tt.req)
			if tt.wantErr {
				if verr == nil {
					t.Fatalf("buildAnswer() expected validation error, got answer %+v", answer)
				}
				if verr.Reason == "" {
					t.Fatal("validation error carries no reason")
				}
				return
			}
			if verr != nil {
				t.Fatalf("buildAnswer() unexpected validation error: %v", verr)
			}
			if answer.QuestionID != tt.question.ID {
				t.Fatalf("answer bound to question %d, want %d", answer.QuestionID, tt.question.ID)
			}
		})
	}
}

func TestBuildAnswerTrimsWrittenText(t *testing.T) {
	answer, verr := buildAnswer(textQuestion(), dto.SubmitAnswerRequest{WrittenAnswer: "  kept words \n"})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if answer.WrittenAnswer != "kept words" {
		t.Fatalf("WrittenAnswer = %q, want %q", answer.WrittenAnswer, "kept words")
	}
}

func TestStepCursor(t *testing.T) {
	tests := []struct {
		name    string
		cursor  session.Cursor
		correct bool
		index   int
		total   int
		want    session.Cursor
		wantRsp dto.SubmitAnswerResponse
	}{
		{
			name:    "correct answer advances and counts",
			cursor:  session.Cursor{AttemptID: 1, Position: 1},
			correct: true,
			index:   1, total: 3,
			want:    session.Cursor{AttemptID: 1, Position: 2, Correct: 1},
			wantRsp: dto.SubmitAnswerResponse{NextIndex: 2, CorrectSoFar: 1},
		},
		{
			name:    "wrong answer advances without counting",
			cursor:  session.Cursor{AttemptID: 1, Position: 2, Correct: 1},
			correct: false,
			index:   2, total: 3,
			want:    session.Cursor{AttemptID: 1, Position: 3, Correct: 1},
			wantRsp: dto.SubmitAnswerResponse{NextIndex: 3, CorrectSoFar: 1},
		},
		{
			name:    "last question reports Last and holds position",
			cursor:  session.Cursor{AttemptID: 1, Position: 3, Correct: 1},
			correct: true,
			index:   3, total: 3,
			want:    session.Cursor{AttemptID: 1, Position: 3, Correct: 2},
			wantRsp: dto.SubmitAnswerResponse{Last: true, CorrectSoFar: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, resp := stepCursor(tt.cursor, tt.correct, tt.index, tt.total)
			if got != tt.want {
				t.Fatalf("cursor = %+v, want %+v", got, tt.want)
			}
			if *resp != tt.wantRsp {
				t.Fatalf("response = %+v, want %+v", *resp, tt.wantRsp)
			}
		})
	}
}

func TestIsCorrectChoice(t *testing.T) {
	q := mcqQuestion()
	if isCorrectChoice(q, 70) {
		t.Fatal("choice 70 reported correct")
	}
	if !isCorrectChoice(q, 71) {
		t.Fatal("choice 71 reported incorrect")
	}
	if isCorrectChoice(q, 999) {
		t.Fatal("unknown choice reported correct")
	}
}

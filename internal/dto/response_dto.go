package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type DepartmentDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type QuizSummaryDTO struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	DepartmentID  uint   `json:"department_id"`
	QuestionCount int    `json:"question_count"`
}

// ChoiceDTO deliberately omits the correctness flag; it is served to
// examinees mid-attempt.
type ChoiceDTO struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuestionDTO struct {
	ID       uint        `json:"id"`
	Text     string      `json:"text"`
	Type     string      `json:"type"`
	ImageURL *string     `json:"image_url,omitempty"`
	Choices  []ChoiceDTO `json:"choices,omitempty"`
}

// QuestionViewDTO is one navigation step: the question plus the examinee's
// position within the quiz.
type QuestionViewDTO struct {
	AttemptID      uint        `json:"attempt_id"`
	QuizID         uint        `json:"quiz_id"`
	QuestionNumber int         `json:"question_number"`
	TotalQuestions int         `json:"total_questions"`
	Question       QuestionDTO `json:"question"`
}

// SubmitAnswerResponse tells the client where to go next. Last means the
// attempt is ready to be finalized. CorrectSoFar is the live display
// counter; the authoritative score is recomputed from the ledger at
// finalization.
type SubmitAnswerResponse struct {
	NextIndex    int  `json:"next_index,omitempty"`
	Last         bool `json:"last"`
	CorrectSoFar int  `json:"correct_so_far"`
}

type AnswerDTO struct {
	ID            uint     `json:"id"`
	QuestionID    uint     `json:"question_id"`
	QuestionText  string   `json:"question_text,omitempty"`
	QuestionType  string   `json:"question_type,omitempty"`
	ChoiceID      *uint    `json:"choice_id,omitempty"`
	WrittenAnswer string   `json:"written_answer,omitempty"`
	Grade         *float64 `json:"grade,omitempty"`
}

type AttemptSummaryDTO struct {
	ID           uint           `json:"id"`
	QuizID       uint           `json:"quiz_id"`
	QuizTitle    string         `json:"quiz_title,omitempty"`
	UserID       uint           `json:"user_id"`
	Username     string         `json:"username,omitempty"`
	Status       string         `json:"status"`
	Score        *int           `json:"score,omitempty"`
	TotalChoice  int            `json:"total_choice"`
	StartedAt    time.Time      `json:"started_at"`
	EndedAt      *time.Time     `json:"ended_at,omitempty"`
	TimeTaken    *time.Duration `json:"time_taken,omitempty"`
	HasReport    bool           `json:"has_report"`
	CreatedAt    time.Time      `json:"created_at"`
}

type AttemptDetailDTO struct {
	AttemptSummaryDTO
	ObjectivePercent  float64     `json:"objective_percent"`
	SubjectivePercent *float64    `json:"subjective_percent,omitempty"` // nil until every TEXT answer is graded
	Answers           []AnswerDTO `json:"answers,omitempty"`
}

// BeginAttemptResponse points the client at the first question.
type BeginAttemptResponse struct {
	AttemptID      uint `json:"attempt_id"`
	QuizID         uint `json:"quiz_id"`
	FirstQuestion  int  `json:"first_question"`
	TotalQuestions int  `json:"total_questions"`
}

// GradeResultDTO reports the outcome of one item in a grading batch.
type GradeResultDTO struct {
	AnswerID uint     `json:"answer_id"`
	Grade    *float64 `json:"grade,omitempty"`
	Error    string   `json:"error,omitempty"`
}

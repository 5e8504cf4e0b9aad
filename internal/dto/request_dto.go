package dto

// LoginRequest identifies a user to the token endpoint. Identity proper is
// an external concern; this boundary only needs a username to resolve.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// SubmitAnswerRequest carries one response during navigation. Exactly one
// of ChoiceID / WrittenAnswer is meaningful depending on the question type.
type SubmitAnswerRequest struct {
	ChoiceID      *uint  `json:"choice_id"`
	WrittenAnswer string `json:"written_answer"`
}

// OverrideRequest relabels a finalized attempt or sends it back to Pending.
type OverrideRequest struct {
	Status string `json:"status" binding:"required"`
}

// GradeItem is one reviewer grade in a batch. Value stays a raw string so
// an unparseable entry can be rejected per item without failing the batch.
type GradeItem struct {
	AnswerID uint   `json:"answer_id" binding:"required"`
	Value    string `json:"value" binding:"required"`
}

type GradeBatchRequest struct {
	Grades []GradeItem `json:"grades" binding:"required,min=1,dive"`
}

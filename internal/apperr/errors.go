// Package apperr holds the sentinel errors the service layer reports to the
// HTTP boundary. Controllers match them with errors.Is and translate to
// status codes; services wrap them with context via fmt.Errorf and %w.
package apperr

import "errors"

var (
	// ErrNotFound covers missing quizzes, attempts, questions and answers.
	ErrNotFound = errors.New("not found")

	// ErrOutOfRange is a navigation position outside [1, question count].
	// The user controller turns it into a redirect to the dashboard rather
	// than an error page.
	ErrOutOfRange = errors.New("question index out of range")

	// ErrPermissionDenied is returned for non-owner artifact access and for
	// grading or override calls by a non-reviewer.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidState rejects lifecycle transitions from the wrong status,
	// e.g. finalizing an already finalized or answer-less attempt.
	ErrInvalidState = errors.New("invalid attempt state")

	// ErrInvalidInput rejects unrecognized status values and unparseable
	// grade values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrResource signals that the artifact store is unavailable. Lifecycle
	// transitions survive it; report generation is retried later.
	ErrResource = errors.New("artifact store unavailable")
)

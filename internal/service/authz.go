package service

import (
	"errors"
	"fmt"

	"github.com/qdimov/quizdesk/internal/apperr"
	"github.com/qdimov/quizdesk/internal/repository"
	"gorm.io/gorm"
)

// requireReviewer guards the reviewer-only operations: grading, override
// and the all-attempts listing.
func requireReviewer(userRepo repository.UserRepository, actorID uint) error {
	actor, err := userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("actor %d: %w", actorID, apperr.ErrNotFound)
		}
		return fmt.Errorf("loading actor %d: %w", actorID, err)
	}
	if !actor.IsReviewer {
		return fmt.Errorf("user %d is not a reviewer: %w", actorID, apperr.ErrPermissionDenied)
	}
	return nil
}

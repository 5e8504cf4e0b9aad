package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/qdimov/quizdesk/internal/apperr"
	"github.com/qdimov/quizdesk/internal/dto"
	"github.com/qdimov/quizdesk/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogService is the read-only browse side: departments and the quizzes
// under them. Question authoring is out of scope; the catalog is seeded at
// startup and treated as input.
type CatalogService interface {
	Departments() ([]dto.DepartmentDTO, error)
	QuizzesByDepartment(departmentID uint) ([]dto.QuizSummaryDTO, error)
}

type catalogService struct {
	departmentRepo repository.DepartmentRepository
	quizRepo       repository.QuizRepository
	questionRepo   repository.QuestionRepository
}

func NewCatalogService(
	departmentRepo repository.DepartmentRepository,
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
) CatalogService {
	return &catalogService{
		departmentRepo: departmentRepo,
		quizRepo:       quizRepo,
		questionRepo:   questionRepo,
	}
}

func (s *catalogService) Departments() ([]dto.DepartmentDTO, error) {
	departments, err := s.departmentRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list departments")
		return nil, fmt.Errorf("error fetching departments: %w", err)
	}

	var dtos []dto.DepartmentDTO
	if err := copier.Copy(&dtos, &departments); err != nil {
		return nil, fmt.Errorf("error preparing departments response: %w", err)
	}
	return dtos, nil
}

func (s *catalogService) QuizzesByDepartment(departmentID uint) ([]dto.QuizSummaryDTO, error) {
	if _, err := s.departmentRepo.FindByID(departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("department %d: %w", departmentID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("loading department %d: %w", departmentID, err)
	}

	quizzes, err := s.quizRepo.FindAllByDepartment(departmentID)
	if err != nil {
		return nil, fmt.Errorf("error fetching quizzes for department %d: %w", departmentID, err)
	}

	dtos := make([]dto.QuizSummaryDTO, 0, len(quizzes))
	for _, quiz := range quizzes {
		count, err := s.questionRepo.CountByQuizID(quiz.ID)
		if err != nil {
			log.Warn().Err(err).Uint("quizID", quiz.ID).Msg("Failed to count questions for quiz summary")
		}
		dtos = append(dtos, dto.QuizSummaryDTO{
			ID:            quiz.ID,
			Title:         quiz.Title,
			DepartmentID:  quiz.DepartmentID,
			QuestionCount: int(count),
		})
	}
	return dtos, nil
}

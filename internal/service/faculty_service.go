package service

import (
	"context"

	"github.com/coursedesk/coursedesk-backend/internal/model"
	"github.com/coursedesk/coursedesk-backend/internal/repository"
)

// FacultyService handles faculty account business logic.
type FacultyService struct {
	facultyRepo *repository.FacultyRepository
}

// NewFacultyService creates a new FacultyService.
func NewFacultyService(facultyRepo *repository.FacultyRepository) *FacultyService {
	return &FacultyService{facultyRepo: facultyRepo}
}

// GetByEmail retrieves a faculty account by email.
func (s *FacultyService) GetByEmail(ctx context.Context, email string) (*model.Faculty, error) {
	return s.facultyRepo.GetByEmail(ctx, email)
}

// GetByID retrieves a faculty account by ID.
func (s *FacultyService) GetByID(ctx context.Context, id int) (*model.Faculty, error) {
	return s.facultyRepo.GetByID(ctx, id)
}

// Create registers a new faculty account.
func (s *FacultyService) Create(ctx context.Context, f *model.Faculty) error {
	return s.facultyRepo.Create(ctx, f)
}

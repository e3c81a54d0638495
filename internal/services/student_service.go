package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/student-records/internal/models"
	"github.com/SAP-F-2025/student-records/internal/repositories"
	"github.com/SAP-F-2025/student-records/internal/validator"
)

type studentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	threshold float64
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, threshold float64) StudentService {
	return &studentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		threshold: threshold,
	}
}

func (s *studentService) Initialize(ctx context.Context) error {
	if err := s.repo.Student().Initialize(ctx); err != nil {
		return err
	}
	s.logger.Debug("Student table ready")
	return nil
}

// ===== CORE CRUD OPERATIONS =====

func (s *studentService) Create(ctx context.Context, input *StudentInput) (*models.Student, error) {
	student, err := s.buildStudent(ctx, "Create", input, 0, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info("Creating student", "student_id", student.StudentID, "name", student.Name)

	if _, err := s.repo.Student().Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("Student created successfully", "id", student.ID, "status", student.Status)
	return student, nil
}

func (s *studentService) List(ctx context.Context) ([]*models.Student, error) {
	return s.repo.Student().List(ctx)
}

func (s *studentService) FindByStudentID(ctx context.Context, studentID string) (*models.Student, bool, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, false, models.NewRecordError(models.KindEmptyField, "FindByStudentID", "student_id",
			"please enter a Student ID to search")
	}

	return s.repo.Student().GetByStudentID(ctx, studentID)
}

func (s *studentService) Update(ctx context.Context, id uint, input *StudentInput) (*models.Student, error) {
	current, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	student, err := s.buildStudent(ctx, "Update", input, id, current.StudentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updating student", "id", id, "student_id", student.StudentID)

	if err := s.repo.Student().Update(ctx, id, student); err != nil {
		return nil, err
	}

	s.logger.Info("Student updated successfully", "id", id, "status", student.Status)
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Student().Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Student deleted", "id", id)
	return nil
}

// ===== STATISTICS =====

func (s *studentService) Statistics(ctx context.Context) (*models.Statistics, error) {
	return s.repo.Student().Statistics(ctx)
}

// ===== HELPERS =====

// buildStudent runs the write path: parse and validate, enforce student_id
// uniqueness, then derive the status. currentStudentID is the stored key of the
// record being updated; the uniqueness check is skipped when it is unchanged.
func (s *studentService) buildStudent(ctx context.Context, op string, input *StudentInput, id uint, currentStudentID string) (*models.Student, error) {
	student, err := s.validator.GetBusinessValidator().ParseStudent(input)
	if err != nil {
		if re, ok := err.(*models.RecordError); ok {
			re.Op = op
		}
		return nil, err
	}

	if id == 0 || student.StudentID != currentStudentID {
		exists, err := s.repo.Student().ExistsByStudentID(ctx, student.StudentID, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, models.NewRecordError(models.KindDuplicateKey, op, "student_id",
				fmt.Sprintf("Student ID %q already exists, please use a unique Student ID", student.StudentID))
		}
	}

	student.Status = models.DeriveStatus(student.GPA, s.threshold)
	return student, nil
}

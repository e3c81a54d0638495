package services

import (
	"context"
	"io"
	"time"

	"github.com/SAP-F-2025/student-records/internal/models"
	"github.com/SAP-F-2025/student-records/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type StudentInput = validator.StudentInput

// ===== SERVICE INTERFACES =====

type StudentService interface {
	// Schema
	Initialize(ctx context.Context) error

	// Core CRUD operations
	Create(ctx context.Context, input *StudentInput) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, bool, error)
	Update(ctx context.Context, id uint, input *StudentInput) (*models.Student, error)
	Delete(ctx context.Context, id uint) error

	// Statistics
	Statistics(ctx context.Context) (*models.Statistics, error)
}

type ImportExportService interface {
	// Import
	Import(ctx context.Context, r io.Reader) (*models.ImportResult, error)
	ImportFile(ctx context.Context, path string) (*models.ImportResult, error)

	// Export
	Export(ctx context.Context, w io.Writer) (int, error)
	ExportFile(ctx context.Context, dir string, now time.Time) (string, error)
	ExportWorkbook(ctx context.Context, dir string, now time.Time) (string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Student() StudentService
	ImportExport() ImportExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

package repositories

import (
	"context"

	"github.com/SAP-F-2025/student-records/internal/models"
)

// StudentRepository is the sole gateway to the student table. Every call is
// its own implicit transaction.
type StudentRepository interface {
	// Initialize creates the table if it does not exist. It never drops data.
	Initialize(ctx context.Context) error

	// Create inserts a new row and returns the assigned internal ID.
	Create(ctx context.Context, student *models.Student) (uint, error)

	// List returns every record ordered by name (byte-wise), then ID.
	List(ctx context.Context) ([]*models.Student, error)

	// GetByStudentID returns found=false with a nil error when nothing matches.
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, bool, error)
	GetByID(ctx context.Context, id uint) (*models.Student, error)

	// ExistsByStudentID checks uniqueness, ignoring the row with excludeID (0 = none).
	ExistsByStudentID(ctx context.Context, studentID string, excludeID uint) (bool, error)

	// Update replaces every column of the row keyed by id.
	Update(ctx context.Context, id uint, student *models.Student) error
	Delete(ctx context.Context, id uint) error

	Count(ctx context.Context) (int64, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
}

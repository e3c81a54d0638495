package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SAP-F-2025/student-records/internal/models"
	"github.com/SAP-F-2025/student-records/internal/repositories"
	"gorm.io/gorm"
)

type StudentSQLite struct {
	db *gorm.DB
}

func NewStudentSQLite(db *gorm.DB) repositories.StudentRepository {
	return &StudentSQLite{db: db}
}

// Initialize creates the student table if it is missing
func (r *StudentSQLite) Initialize(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec(createStudentTable).Error; err != nil {
		return models.NewStorageError("Initialize", "failed to create student table", err)
	}
	return nil
}

// ===== BASIC CRUD OPERATIONS =====

// Create inserts a student and returns the assigned ID
func (r *StudentSQLite) Create(ctx context.Context, student *models.Student) (uint, error) {
	if err := checkRequired("Create", student); err != nil {
		return 0, err
	}

	student.ID = 0
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return 0, translateError("Create", student, "failed to create student", err)
	}

	return student.ID, nil
}

// List retrieves all students ordered by name
func (r *StudentSQLite) List(ctx context.Context) ([]*models.Student, error) {
	students := make([]*models.Student, 0)
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Order("id ASC").
		Find(&students).Error; err != nil {
		return nil, translateError("List", nil, "failed to list students", err)
	}
	return students, nil
}

// GetByStudentID looks up a student by exact student ID
func (r *StudentSQLite) GetByStudentID(ctx context.Context, studentID string) (*models.Student, bool, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Take(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, translateError("GetByStudentID", nil, "failed to search for student", err)
	}
	return &student, true, nil
}

// GetByID retrieves a student by internal ID
func (r *StudentSQLite) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Take(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("GetByID", id)
		}
		return nil, translateError("GetByID", nil, "failed to get student", err)
	}
	return &student, nil
}

func (r *StudentSQLite) ExistsByStudentID(ctx context.Context, studentID string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("student_id = ?", studentID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translateError("ExistsByStudentID", nil, "failed to check student ID", err)
	}
	return count > 0, nil
}

// Update replaces the full row keyed by id
func (r *StudentSQLite) Update(ctx context.Context, id uint, student *models.Student) error {
	if err := checkRequired("Update", student); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"student_id":      student.StudentID,
			"name":            student.Name,
			"age":             student.Age,
			"email":           student.Email,
			"department":      student.Department,
			"gpa":             student.GPA,
			"graduation_year": student.GraduationYear,
			"status":          student.Status,
		})
	if result.Error != nil {
		return translateError("Update", student, "failed to update student", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("Update", id)
	}

	student.ID = id
	return nil
}

// Delete hard deletes a student
func (r *StudentSQLite) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Student{}, id)
	if result.Error != nil {
		return translateError("Delete", nil, "failed to delete student", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("Delete", id)
	}
	return nil
}

// ===== AGGREGATES =====

func (r *StudentSQLite) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Count(&count).Error; err != nil {
		return 0, translateError("Count", nil, "failed to count students", err)
	}
	return count, nil
}

// Statistics computes counts and the mean GPA in one query. AVG over an empty
// table is NULL, which leaves AverageGPA nil.
func (r *StudentSQLite) Statistics(ctx context.Context) (*models.Statistics, error) {
	var row struct {
		Total   int64
		Pass    int64
		Fail    int64
		Average sql.NullFloat64
	}

	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pass, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS fail, "+
				"AVG(gpa) AS average",
			models.StatusPass, models.StatusFail,
		).
		Scan(&row).Error
	if err != nil {
		return nil, translateError("Statistics", nil, "failed to calculate statistics", err)
	}

	stats := &models.Statistics{
		Total: row.Total,
		Pass:  row.Pass,
		Fail:  row.Fail,
	}
	if row.Average.Valid {
		avg := row.Average.Float64
		stats.AverageGPA = &avg
	}
	return stats, nil
}

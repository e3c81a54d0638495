package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/student-records/internal/models"
	"gorm.io/gorm"
)

// translateError maps engine errors onto the record error taxonomy. Anything
// that is not a constraint or lookup failure is StorageUnavailable.
func translateError(op string, student *models.Student, message string, err error) error {
	if err == nil {
		return nil
	}

	var re *models.RecordError
	if errors.As(err, &re) {
		return err
	}

	msg := err.Error()
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(msg, "UNIQUE constraint failed"):
		studentID := ""
		if student != nil {
			studentID = student.StudentID
		}
		return &models.RecordError{
			Kind:    models.KindDuplicateKey,
			Op:      op,
			Field:   "student_id",
			Message: fmt.Sprintf("Student ID %q already exists, please use a unique Student ID", studentID),
			Err:     err,
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &models.RecordError{Kind: models.KindNotFound, Op: op, Message: "student record not found", Err: err}
	case errors.Is(err, gorm.ErrCheckConstraintViolated),
		strings.Contains(msg, "NOT NULL constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"):
		return &models.RecordError{Kind: models.KindConstraintViolation, Op: op, Message: "student record violates a table constraint", Err: err}
	}

	return models.NewStorageError(op, message, err)
}

// checkRequired enforces the NOT NULL columns before touching the engine:
// blank text is treated as absent.
func checkRequired(op string, student *models.Student) error {
	if student == nil {
		return models.NewRecordError(models.KindConstraintViolation, op, "", "student record is required")
	}
	if strings.TrimSpace(student.StudentID) == "" {
		return models.NewRecordError(models.KindConstraintViolation, op, "student_id", "student_id must not be null")
	}
	if strings.TrimSpace(student.Name) == "" {
		return models.NewRecordError(models.KindConstraintViolation, op, "name", "name must not be null")
	}
	return nil
}

func notFound(op string, id uint) error {
	return models.NewRecordError(models.KindNotFound, op, "id",
		fmt.Sprintf("no student record found with ID %d, it may have been deleted", id))
}

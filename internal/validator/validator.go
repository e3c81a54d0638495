package validator

import (
	"fmt"

	"github.com/SAP-F-2025/student-records/internal/models"
)

// ValidationError represents a single rule violation
type ValidationError struct {
	Field   string           `json:"field"`
	Message string           `json:"message"`
	Value   interface{}      `json:"value,omitempty"`
	Rule    string           `json:"rule,omitempty"`
	Kind    models.ErrorKind `json:"kind"`
}

// RecordError converts the violation into the caller-facing error type.
func (ve ValidationError) RecordError() *models.RecordError {
	return models.NewRecordError(ve.Kind, "Validate", ve.Field, ve.Message)
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator is the entry point shared by services
type Validator struct {
	business *BusinessValidator
}

// New creates a validator enforcing the given rules
func New(rules StudentRules) *Validator {
	if len(rules.Departments) == 0 {
		rules.Departments = models.DefaultDepartments
	}
	if rules.MinGPA == 0 && rules.MaxGPA == 0 {
		rules.MaxGPA = 4.0
	}
	return &Validator{business: NewBusinessValidator(rules)}
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

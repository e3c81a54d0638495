package validator

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/student-records/internal/models"
	"github.com/go-playground/validator/v10"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// tagKinds maps each validation tag to the error kind it reports.
var tagKinds = map[string]models.ErrorKind{
	"not_blank":  models.KindEmptyField,
	"integer":    models.KindFormatError,
	"department": models.KindInvalidChoice,
	"decimal":    models.KindFormatError,
	"gpa_range":  models.KindOutOfRange,
	"year_yyyy":  models.KindFormatError,
}

// BusinessValidator handles student field rules
type BusinessValidator struct {
	validate *validator.Validate
	rules    StudentRules
}

// NewBusinessValidator creates a new business validator for the given rules
func NewBusinessValidator(rules StudentRules) *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	bv := &BusinessValidator{validate: validate, rules: rules}
	bv.registerBusinessRules()

	return bv
}

// Validate returns every rule violation of the input, in field order.
func (bv *BusinessValidator) Validate(input *StudentInput) ValidationErrors {
	err := bv.validate.Struct(input)
	if err != nil {
		return bv.toValidationErrors(err)
	}
	return nil
}

// ParseStudent validates the input and converts it into a typed, normalized
// record. It stops at the first failing field and never returns a partially
// populated record. Status is left for the caller to derive.
func (bv *BusinessValidator) ParseStudent(input *StudentInput) (*models.Student, error) {
	if input == nil {
		return nil, models.NewRecordError(models.KindEmptyField, "Validate", "student_id", "Student ID is empty: a Student ID is required")
	}
	if errs := bv.Validate(input); len(errs) > 0 {
		return nil, errs[0].RecordError()
	}

	age, _ := strconv.Atoi(strings.TrimSpace(input.Age))
	gpa, _ := strconv.ParseFloat(strings.TrimSpace(input.GPA), 64)
	year, _ := strconv.Atoi(strings.TrimSpace(input.GraduationYear))

	return &models.Student{
		StudentID:      strings.TrimSpace(input.StudentID),
		Name:           strings.TrimSpace(input.Name),
		Age:            age,
		Email:          strings.TrimSpace(input.Email),
		Department:     strings.TrimSpace(input.Department),
		GPA:            gpa,
		GraduationYear: year,
	}, nil
}

// IsDepartment reports whether name is one of the configured departments.
func (bv *BusinessValidator) IsDepartment(name string) bool {
	name = strings.TrimSpace(name)
	for _, d := range bv.rules.Departments {
		if d == name {
			return true
		}
	}
	return false
}

// Rules returns the rules this validator enforces.
func (bv *BusinessValidator) Rules() StudentRules {
	return bv.rules
}

// registerBusinessRules registers custom student validators
func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// Age has no range rule, only a format rule.
	bv.validate.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil
	})

	bv.validate.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return bv.IsDepartment(fl.Field().String())
	})

	bv.validate.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		_, ok := parseDecimal(fl.Field().String())
		return ok
	})

	bv.validate.RegisterValidation("gpa_range", func(fl validator.FieldLevel) bool {
		gpa, ok := parseDecimal(fl.Field().String())
		return ok && gpa >= bv.rules.MinGPA && gpa <= bv.rules.MaxGPA
	})

	// Graduation year is a format rule: "99" parses but is rejected.
	bv.validate.RegisterValidation("year_yyyy", func(fl validator.FieldLevel) bool {
		return yearPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
}

func parseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (bv *BusinessValidator) toValidationErrors(err error) ValidationErrors {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{
			Field:   "input",
			Message: err.Error(),
			Rule:    "invalid",
			Kind:    models.KindFormatError,
		}}
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: bv.getErrorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
			Kind:    tagKinds[fe.Tag()],
		})
	}
	return errs
}

func (bv *BusinessValidator) getErrorMessage(fe validator.FieldError) string {
	value := fmt.Sprint(fe.Value())
	switch fe.Tag() {
	case "not_blank":
		if fe.Field() == "student_id" {
			return "Student ID is empty: a Student ID is required and cannot be blank"
		}
		return "Name is empty: the student's name is required and cannot be blank"
	case "integer":
		return fmt.Sprintf("Age has an invalid format: age must be a whole number, got %q", value)
	case "department":
		return fmt.Sprintf("Department is invalid: %q is not one of %s", value, strings.Join(bv.rules.Departments, ", "))
	case "decimal":
		return fmt.Sprintf("GPA has an invalid format: GPA must be a decimal number, got %q", value)
	case "gpa_range":
		return fmt.Sprintf("GPA is out of range: GPA must be between %g and %g, got %s", bv.rules.MinGPA, bv.rules.MaxGPA, strings.TrimSpace(value))
	case "year_yyyy":
		return fmt.Sprintf("Graduation year has an invalid format: expected 4 digits (YYYY), got %q", value)
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

package validator

import (
	"errors"
	"testing"

	"github.com/SAP-F-2025/student-records/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() StudentInput {
	return StudentInput{
		StudentID:      "S001",
		Name:           "Ada Lovelace",
		Age:            "21",
		Email:          "ada@example.com",
		Department:     "Mathematics",
		GPA:            "3.43",
		GraduationYear: "2025",
	}
}

func TestBusinessValidator_ParseStudent(t *testing.T) {
	bv := New(StudentRules{}).GetBusinessValidator()

	tests := []struct {
		name      string
		mutate    func(in *StudentInput)
		wantKind  models.ErrorKind
		wantField string
	}{
		{name: "ok", mutate: func(in *StudentInput) {}},
		{name: "blank student id", mutate: func(in *StudentInput) { in.StudentID = "   " }, wantKind: models.KindEmptyField, wantField: "student_id"},
		{name: "blank name", mutate: func(in *StudentInput) { in.Name = "" }, wantKind: models.KindEmptyField, wantField: "name"},
		{name: "age not integer", mutate: func(in *StudentInput) { in.Age = "twenty" }, wantKind: models.KindFormatError, wantField: "age"},
		{name: "age decimal", mutate: func(in *StudentInput) { in.Age = "20.5" }, wantKind: models.KindFormatError, wantField: "age"},
		{name: "negative age accepted", mutate: func(in *StudentInput) { in.Age = "-3" }},
		{name: "huge age accepted", mutate: func(in *StudentInput) { in.Age = "150" }},
		{name: "unknown department", mutate: func(in *StudentInput) { in.Department = "History" }, wantKind: models.KindInvalidChoice, wantField: "department"},
		{name: "department is case sensitive", mutate: func(in *StudentInput) { in.Department = "physics" }, wantKind: models.KindInvalidChoice, wantField: "department"},
		{name: "gpa not a number", mutate: func(in *StudentInput) { in.GPA = "A+" }, wantKind: models.KindFormatError, wantField: "gpa"},
		{name: "gpa NaN", mutate: func(in *StudentInput) { in.GPA = "NaN" }, wantKind: models.KindFormatError, wantField: "gpa"},
		{name: "gpa above max", mutate: func(in *StudentInput) { in.GPA = "4.01" }, wantKind: models.KindOutOfRange, wantField: "gpa"},
		{name: "gpa below min", mutate: func(in *StudentInput) { in.GPA = "-0.1" }, wantKind: models.KindOutOfRange, wantField: "gpa"},
		{name: "gpa bounds inclusive", mutate: func(in *StudentInput) { in.GPA = "4.0" }},
		{name: "gpa zero", mutate: func(in *StudentInput) { in.GPA = "0" }},
		{name: "two digit year", mutate: func(in *StudentInput) { in.GraduationYear = "25" }, wantKind: models.KindFormatError, wantField: "graduation_year"},
		{name: "five digit year", mutate: func(in *StudentInput) { in.GraduationYear = "20251" }, wantKind: models.KindFormatError, wantField: "graduation_year"},
		{name: "signed year", mutate: func(in *StudentInput) { in.GraduationYear = "+202" }, wantKind: models.KindFormatError, wantField: "graduation_year"},
		{name: "empty email accepted", mutate: func(in *StudentInput) { in.Email = "" }},
		{
			name: "first failing field wins",
			mutate: func(in *StudentInput) {
				in.Name = ""
				in.Age = "x"
				in.GraduationYear = "1"
			},
			wantKind:  models.KindEmptyField,
			wantField: "name",
		},
		{
			name: "gpa format checked before year",
			mutate: func(in *StudentInput) {
				in.GPA = "abc"
				in.GraduationYear = "99"
			},
			wantKind:  models.KindFormatError,
			wantField: "gpa",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			student, err := bv.ParseStudent(&in)
			if tt.wantKind == "" {
				require.NoError(t, err)
				require.NotNil(t, student)
				return
			}

			require.Error(t, err)
			assert.Nil(t, student)
			assert.Equal(t, tt.wantKind, models.KindOf(err))
			assert.Equal(t, tt.wantField, models.FieldOf(err))
			assert.True(t, models.IsValidation(err))
		})
	}
}

func TestBusinessValidator_ParseStudentNormalizes(t *testing.T) {
	bv := New(StudentRules{}).GetBusinessValidator()

	in := StudentInput{
		StudentID:      "  S042 ",
		Name:           " Grace Hopper ",
		Age:            " 30 ",
		Email:          " grace@example.com ",
		Department:     " Computer Science ",
		GPA:            " 2.2 ",
		GraduationYear: " 1934 ",
	}

	student, err := bv.ParseStudent(&in)
	require.NoError(t, err)

	assert.Equal(t, "S042", student.StudentID)
	assert.Equal(t, "Grace Hopper", student.Name)
	assert.Equal(t, 30, student.Age)
	assert.Equal(t, "grace@example.com", student.Email)
	assert.Equal(t, "Computer Science", student.Department)
	assert.Equal(t, 2.2, student.GPA)
	assert.Equal(t, 1934, student.GraduationYear)
	assert.Zero(t, student.ID)
	assert.Empty(t, student.Status)
}

func TestBusinessValidator_CustomRules(t *testing.T) {
	bv := New(StudentRules{
		Departments: []string{"Art", "Music"},
		MinGPA:      1.0,
		MaxGPA:      5.0,
	}).GetBusinessValidator()

	in := validInput()
	in.Department = "Music"
	in.GPA = "4.5"
	_, err := bv.ParseStudent(&in)
	require.NoError(t, err)

	in.Department = "Mathematics"
	_, err = bv.ParseStudent(&in)
	assert.True(t, errors.Is(err, models.ErrInvalidChoice))

	in.Department = "Art"
	in.GPA = "0.5"
	_, err = bv.ParseStudent(&in)
	assert.True(t, errors.Is(err, models.ErrOutOfRange))
}

func TestBusinessValidator_ValidateCollectsAll(t *testing.T) {
	bv := New(StudentRules{}).GetBusinessValidator()

	in := StudentInput{Age: "x", GPA: "9", GraduationYear: "99"}
	errs := bv.Validate(&in)

	rules := make([]string, 0, len(errs))
	for _, e := range errs {
		rules = append(rules, e.Rule)
	}
	assert.Equal(t, []string{"not_blank", "not_blank", "integer", "department", "gpa_range", "year_yyyy"}, rules)
	assert.Equal(t, "validation failed: 6 field errors", errs.Error())
}

func TestStudentInputFromRow(t *testing.T) {
	in := StudentInputFromRow([]string{"S1", "Bob", "20"})
	assert.Equal(t, "S1", in.StudentID)
	assert.Equal(t, "20", in.Age)
	assert.Empty(t, in.GraduationYear)
}

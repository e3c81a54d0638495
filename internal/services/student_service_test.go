package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/student-records/internal/models"
	"github.com/SAP-F-2025/student-records/internal/repositories/sqlite"
	"github.com/SAP-F-2025/student-records/internal/validator"
)

func newTestServiceManager(t *testing.T) ServiceManager {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repoManager := sqlite.NewRepositoryManager(sqlite.RepositoryConfig{
		Path: filepath.Join(t.TempDir(), "students.db"),
	})
	require.NoError(t, repoManager.Initialize())

	sm := NewDefaultServiceManager(repoManager, logger, validator.New(validator.StudentRules{}))
	require.NoError(t, sm.Initialize(context.Background()))
	t.Cleanup(func() { _ = sm.Shutdown(context.Background()) })
	return sm
}

func studentInput(studentID, name, gpa string) *StudentInput {
	return &StudentInput{
		StudentID:      studentID,
		Name:           name,
		Age:            "21",
		Email:          "student@example.com",
		Department:     "Physics",
		GPA:            gpa,
		GraduationYear: "2026",
	}
}

func TestStudentService_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	svc := newTestServiceManager(t).Student()

	created, err := svc.Create(ctx, &StudentInput{
		StudentID:      " S001 ",
		Name:           " Ada Lovelace ",
		Age:            "20",
		Email:          " ada@example.com ",
		Department:     "Mathematics",
		GPA:            "3.43",
		GraduationYear: "2026",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, found, err := svc.FindByStudentID(ctx, "S001")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.Student{
		ID:             created.ID,
		StudentID:      "S001",
		Name:           "Ada Lovelace",
		Age:            20,
		Email:          "ada@example.com",
		Department:     "Mathematics",
		GPA:            3.43,
		GraduationYear: 2026,
		Status:         models.StatusPass,
	}, *got)

	missing, found, err := svc.FindByStudentID(ctx, "S404")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, missing)

	_, _, err = svc.FindByStudentID(ctx, "   ")
	assert.True(t, errors.Is(err, models.ErrEmptyField))
}

func TestStudentService_StatusBoundary(t *testing.T) {
	ctx := context.Background()
	svc := newTestServiceManager(t).Student()

	tests := []struct {
		name string
		gpa  string
		want models.StudentStatus
	}{
		{name: "at threshold", gpa: "2.2", want: models.StatusPass},
		{name: "just below threshold", gpa: "2.1999", want: models.StatusFail},
		{name: "zero", gpa: "0", want: models.StatusFail},
		{name: "max", gpa: "4.0", want: models.StatusPass},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := svc.Create(ctx, studentInput(string(rune('A'+i)), "Student", tt.gpa))
			require.NoError(t, err)
			assert.Equal(t, tt.want, created.Status)
		})
	}
}

func TestStudentService_CreateRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestServiceManager(t).Student()

	_, err := svc.Create(ctx, studentInput("S001", "Ada", "3.0"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		input     *StudentInput
		want      error
		wantField string
	}{
		{name: "duplicate student id", input: studentInput("S001", "Other", "2.5"), want: models.ErrDuplicateKey, wantField: "student_id"},
		{name: "duplicate after trim", input: studentInput(" S001", "Other", "2.5"), want: models.ErrDuplicateKey, wantField: "student_id"},
		{name: "blank name", input: studentInput("S002", " ", "2.5"), want: models.ErrEmptyField, wantField: "name"},
		{name: "gpa out of range", input: studentInput("S002", "Bob", "4.5"), want: models.ErrOutOfRange, wantField: "gpa"},
		{name: "gpa not a number", input: studentInput("S002", "Bob", "abc"), want: models.ErrFormat, wantField: "gpa"},
		{
			name: "unknown department",
			input: func() *StudentInput {
				in := studentInput("S002", "Bob", "2.5")
				in.Department = "Art"
				return in
			}(),
			want:      models.ErrInvalidChoice,
			wantField: "department",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, tt.wantField, models.FieldOf(err))

			students, err := svc.List(ctx)
			require.NoError(t, err)
			assert.Len(t, students, 1)
		})
	}
}

func TestStudentService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newTestServiceManager(t).Student()

	ada, err := svc.Create(ctx, studentInput("S001", "Ada", "3.0"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, studentInput("S002", "Bob", "3.0"))
	require.NoError(t, err)

	// Keeping the same student_id is not a duplicate.
	updated, err := svc.Update(ctx, ada.ID, studentInput("S001", "Ada L.", "1.9"))
	require.NoError(t, err)
	assert.Equal(t, ada.ID, updated.ID)
	assert.Equal(t, models.StatusFail, updated.Status)

	got, found, err := svc.FindByStudentID(ctx, "S001")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Ada L.", got.Name)
	assert.Equal(t, models.StatusFail, got.Status)

	_, err = svc.Update(ctx, ada.ID, studentInput("S002", "Ada", "3.0"))
	assert.True(t, errors.Is(err, models.ErrDuplicateKey))

	_, err = svc.Update(ctx, ada.ID, studentInput("S001", "Ada", "-1"))
	assert.True(t, errors.Is(err, models.ErrOutOfRange))

	_, err = svc.Update(ctx, 9999, studentInput("S009", "Ghost", "3.0"))
	assert.True(t, errors.Is(err, models.ErrNotFound))

	renamed, err := svc.Update(ctx, ada.ID, studentInput("S003", "Ada", "3.0"))
	require.NoError(t, err)
	assert.Equal(t, "S003", renamed.StudentID)
	_, found, err = svc.FindByStudentID(ctx, "S001")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStudentService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newTestServiceManager(t).Student()

	ada, err := svc.Create(ctx, studentInput("S001", "Ada", "3.0"))
	require.NoError(t, err)

	err = svc.Delete(ctx, ada.ID+1)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	students, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	require.NoError(t, svc.Delete(ctx, ada.ID))
	students, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestStudentService_Statistics(t *testing.T) {
	ctx := context.Background()
	svc := newTestServiceManager(t).Student()

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Nil(t, stats.AverageGPA)
	assert.Equal(t, "N/A", stats.FormatAverage())

	for i, gpa := range []string{"3.43", "3.07", "2.0", "2.2"} {
		_, err := svc.Create(ctx, studentInput(string(rune('A'+i)), "Student", gpa))
		require.NoError(t, err)
	}

	stats, err = svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(3), stats.Pass)
	assert.Equal(t, int64(1), stats.Fail)
	require.NotNil(t, stats.AverageGPA)
	assert.InDelta(t, 2.675, *stats.AverageGPA, 1e-9)
}

func TestServiceManager_Lifecycle(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repoManager := sqlite.NewRepositoryManager(sqlite.RepositoryConfig{
		Path: filepath.Join(t.TempDir(), "students.db"),
	})
	require.NoError(t, repoManager.Initialize())

	sm := NewServiceManager(repoManager, logger, validator.New(validator.StudentRules{}), ServiceManagerConfig{
		PassThreshold:    3.0,
		InitializeSchema: true,
	})
	assert.Error(t, sm.HealthCheck(ctx))
	assert.Panics(t, func() { sm.Student() })

	require.NoError(t, sm.Initialize(ctx))
	require.NoError(t, sm.Initialize(ctx))
	assert.NoError(t, sm.HealthCheck(ctx))

	created, err := sm.Student().Create(ctx, studentInput("S001", "Ada", "2.5"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusFail, created.Status)

	require.NoError(t, sm.Shutdown(ctx))
	assert.Error(t, sm.HealthCheck(ctx))
	assert.NoError(t, sm.Shutdown(ctx))
}

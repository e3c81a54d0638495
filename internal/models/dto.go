package models

import "fmt"

// ===== STATISTICS =====

type Statistics struct {
	Total int64 `json:"total"`
	Pass  int64 `json:"pass"`
	Fail  int64 `json:"fail"`
	// AverageGPA is nil when the table is empty.
	AverageGPA *float64 `json:"average_gpa"`
}

// FormatAverage renders the average GPA with two decimals, or "N/A" when it is undefined.
func (s *Statistics) FormatAverage() string {
	if s == nil || s.AverageGPA == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *s.AverageGPA)
}

// PassRate returns the share of passing records in percent; 0 for an empty table.
func (s *Statistics) PassRate() float64 {
	if s == nil || s.Total == 0 {
		return 0
	}
	return float64(s.Pass) / float64(s.Total) * 100
}

// ===== IMPORT/EXPORT DTOs =====

// ImportColumns is the exact, order-sensitive header of an import file.
var ImportColumns = []string{"StudentID", "Name", "Age", "Email", "Department", "GPA", "GraduationYear"}

// ExportColumns is ImportColumns plus the derived status.
var ExportColumns = append(append([]string{}, ImportColumns...), "Status")

type ImportRowError struct {
	Row       int       `json:"row"`  // 1-based data row, header excluded
	Line      int       `json:"line"` // line in the source file
	StudentID string    `json:"student_id"`
	Kind      ErrorKind `json:"kind"`
	Field     string    `json:"field"`
	Message   string    `json:"message"`
}

type ImportResult struct {
	BatchID  string           `json:"batch_id"`
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}

// Skip records a rejected row.
func (r *ImportResult) Skip(e ImportRowError) {
	r.Skipped++
	r.Errors = append(r.Errors, e)
}

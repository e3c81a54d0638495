package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/student-records/internal/models"
	"github.com/SAP-F-2025/student-records/internal/repositories"
	"github.com/SAP-F-2025/student-records/internal/validator"
)

const (
	exportFilePrefix = "students_"
	exportTimeLayout = "20060102_150405"
	workbookSheet    = "Students"

	passFillColor = "90EE90"
	failFillColor = "FF6B6B"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type importExportService struct {
	repo     repositories.Repository
	students StudentService
	logger   *slog.Logger
}

func NewImportExportService(repo repositories.Repository, students StudentService, logger *slog.Logger) ImportExportService {
	return &importExportService{
		repo:     repo,
		students: students,
		logger:   logger,
	}
}

// ExportFileName returns the timestamped name of an export file, e.g.
// students_20240131_142500.csv.
func ExportFileName(now time.Time, ext string) string {
	return exportFilePrefix + now.Format(exportTimeLayout) + ext
}

// ===== IMPORT =====

// Import reads a CSV document and creates one record per data row. Row failures
// are collected in the result; only an unusable document fails the whole call.
func (s *importExportService) Import(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	batchID := uuid.NewString()
	logger := s.logger.With("batch_id", batchID)

	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, models.NewRecordError(models.KindFormatError, "Import", "header",
				"the import file is empty, expected header "+strings.Join(models.ImportColumns, ","))
		}
		return nil, &models.RecordError{Kind: models.KindFormatError, Op: "Import", Field: "header",
			Message: "unable to read the import header", Err: err}
	}
	if !matchesHeader(header) {
		return nil, models.NewRecordError(models.KindFormatError, "Import", "header",
			"CSV must have columns: "+strings.Join(models.ImportColumns, ","))
	}

	result := &models.ImportResult{BatchID: batchID, Errors: make([]models.ImportRowError, 0)}
	logger.Info("Importing students")

	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return result, &models.RecordError{Kind: models.KindStorageUnavailable, Op: "Import",
					Message: "unable to read the import file", Err: err}
			}
			result.Skip(models.ImportRowError{
				Row:     row,
				Line:    parseErr.Line,
				Kind:    models.KindFormatError,
				Message: parseErr.Err.Error(),
			})
			continue
		}
		line, _ := reader.FieldPos(0)

		if len(record) != len(models.ImportColumns) {
			result.Skip(models.ImportRowError{
				Row:       row,
				Line:      line,
				StudentID: firstField(record),
				Kind:      models.KindFormatError,
				Message:   fmt.Sprintf("expected %d columns, got %d", len(models.ImportColumns), len(record)),
			})
			continue
		}

		input := validator.StudentInputFromRow(record)
		if _, err := s.students.Create(ctx, &input); err != nil {
			result.Skip(rowError(row, line, input.StudentID, err))
			logger.Debug("Skipped import row", "row", row, "error", err)
			continue
		}
		result.Imported++
	}

	logger.Info("Import finished", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

func (s *importExportService) ImportFile(ctx context.Context, path string) (*models.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &models.RecordError{Kind: models.KindStorageUnavailable, Op: "Import", Field: "file",
			Message: fmt.Sprintf("unable to open import file %q", path), Err: err}
	}
	defer f.Close()

	return s.Import(ctx, f)
}

// ===== EXPORT =====

// Export writes every record as CSV and returns the number of data rows.
func (s *importExportService) Export(ctx context.Context, w io.Writer) (int, error) {
	students, err := s.exportable(ctx)
	if err != nil {
		return 0, err
	}

	if err := writeCSV(w, students); err != nil {
		return 0, models.NewStorageError("Export", "failed to write export", err)
	}
	return len(students), nil
}

// ExportFile writes a timestamped CSV into dir and returns its path. Nothing is
// created when there are no records.
func (s *importExportService) ExportFile(ctx context.Context, dir string, now time.Time) (string, error) {
	students, err := s.exportable(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, ExportFileName(now, ".csv"))
	f, err := os.Create(path)
	if err != nil {
		return "", models.NewStorageError("Export", fmt.Sprintf("unable to create %q", path), err)
	}

	if err := writeCSV(f, students); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", models.NewStorageError("Export", fmt.Sprintf("failed to write %q", path), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", models.NewStorageError("Export", fmt.Sprintf("failed to close %q", path), err)
	}

	s.logger.Info("Exported students", "path", path, "count", len(students))
	return path, nil
}

// ExportWorkbook writes the same rows as ExportFile into an .xlsx workbook with
// the status cells colored.
func (s *importExportService) ExportWorkbook(ctx context.Context, dir string, now time.Time) (string, error) {
	students, err := s.exportable(ctx)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("Failed to close workbook", "error", err)
		}
	}()

	if err := fillWorkbook(f, students); err != nil {
		return "", models.NewStorageError("Export", "failed to build workbook", err)
	}

	path := filepath.Join(dir, ExportFileName(now, ".xlsx"))
	if err := f.SaveAs(path); err != nil {
		return "", models.NewStorageError("Export", fmt.Sprintf("unable to save %q", path), err)
	}

	s.logger.Info("Exported students workbook", "path", path, "count", len(students))
	return path, nil
}

func (s *importExportService) exportable(ctx context.Context) ([]*models.Student, error) {
	students, err := s.repo.Student().List(ctx)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, models.NewRecordError(models.KindNoRecords, "Export", "", "no student records to export")
	}
	return students, nil
}

// ===== HELPERS =====

func matchesHeader(header []string) bool {
	if len(header) != len(models.ImportColumns) {
		return false
	}
	for i, col := range models.ImportColumns {
		if header[i] != col {
			return false
		}
	}
	return true
}

func firstField(record []string) string {
	if len(record) == 0 {
		return ""
	}
	return record[0]
}

func rowError(row, line int, studentID string, err error) models.ImportRowError {
	e := models.ImportRowError{
		Row:       row,
		Line:      line,
		StudentID: studentID,
		Kind:      models.KindOf(err),
		Field:     models.FieldOf(err),
		Message:   err.Error(),
	}
	var re *models.RecordError
	if errors.As(err, &re) {
		e.Message = re.Message
	}
	return e
}

func exportRow(s *models.Student) []string {
	return []string{
		s.StudentID,
		s.Name,
		strconv.Itoa(s.Age),
		s.Email,
		s.Department,
		strconv.FormatFloat(s.GPA, 'f', -1, 64),
		strconv.Itoa(s.GraduationYear),
		string(s.Status),
	}
}

func writeCSV(w io.Writer, students []*models.Student) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.ExportColumns); err != nil {
		return err
	}
	for _, s := range students {
		if err := cw.Write(exportRow(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fillWorkbook(f *excelize.File, students []*models.Student) error {
	if err := f.SetSheetName(f.GetSheetName(0), workbookSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	passStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{passFillColor}},
	})
	if err != nil {
		return err
	}
	failStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{failFillColor}},
	})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(models.ExportColumns))
	for i, col := range models.ExportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(workbookSheet, "A1", &header); err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(workbookSheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	statusCol := len(models.ExportColumns)
	for i, s := range students {
		rowNum := i + 2
		start, _ := excelize.CoordinatesToCellName(1, rowNum)
		values := []interface{}{
			s.StudentID, s.Name, s.Age, s.Email, s.Department, s.GPA, s.GraduationYear, string(s.Status),
		}
		if err := f.SetSheetRow(workbookSheet, start, &values); err != nil {
			return err
		}

		statusCell, _ := excelize.CoordinatesToCellName(statusCol, rowNum)
		style := passStyle
		if s.Status == models.StatusFail {
			style = failStyle
		}
		if err := f.SetCellStyle(workbookSheet, statusCell, statusCell, style); err != nil {
			return err
		}
	}

	return nil
}

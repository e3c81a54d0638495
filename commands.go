package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/SAP-F-2025/student-records/internal/config"
	"github.com/SAP-F-2025/student-records/internal/models"
	"github.com/SAP-F-2025/student-records/internal/services"
)

var errUsage = errors.New("usage")

type application struct {
	cfg      *config.Config
	services services.ServiceManager
	logger   *slog.Logger
	stdout   io.Writer
	stderr   io.Writer
}

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, app *application, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"init":   {usage: "init", summary: "create the database and student table", run: runInit},
		"add":    {usage: "add -student-id ID -name NAME [-age N] [-email E] -department D -gpa G -year YYYY", summary: "add a student", run: runAdd},
		"list":   {usage: "list", summary: "list all students ordered by name", run: runList},
		"find":   {usage: "find STUDENT_ID", summary: "look up a student by Student ID", run: runFind},
		"update": {usage: "update -id N -student-id ID -name NAME ... (same fields as add)", summary: "replace a student record", run: runUpdate},
		"delete": {usage: "delete ID", summary: "delete a student by internal ID", run: runDelete},
		"stats":  {usage: "stats", summary: "show pass/fail statistics", run: runStats},
		"import": {usage: "import FILE", summary: "import students from a CSV file", run: runImport},
		"export": {usage: "export [-format csv|xlsx] [-dir DIR]", summary: "export all students to a timestamped file", run: runExport},
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: student-records <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", name, commands[name].summary)
	}
	_ = tw.Flush()
}

func newFlagSet(app *application, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(app.stderr)
	fs.Usage = func() {
		fmt.Fprintf(app.stderr, "Usage: student-records %s\n", commands[name].usage)
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags maps flag errors onto errUsage; the flag package has already
// printed the problem.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

func bindStudentFlags(fs *flag.FlagSet) *services.StudentInput {
	input := &services.StudentInput{}
	fs.StringVar(&input.StudentID, "student-id", "", "unique Student ID")
	fs.StringVar(&input.Name, "name", "", "full name")
	fs.StringVar(&input.Age, "age", "0", "age in years")
	fs.StringVar(&input.Email, "email", "", "email address")
	fs.StringVar(&input.Department, "department", "", "department")
	fs.StringVar(&input.GPA, "gpa", "", "GPA")
	fs.StringVar(&input.GraduationYear, "year", "", "graduation year (YYYY)")
	return input
}

// ===== COMMANDS =====

func runInit(ctx context.Context, app *application, args []string) error {
	fs := newFlagSet(app, "init")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Database ready at %s\n", app.cfg.Database.Path)
	return nil
}

func runAdd(ctx context.Context, app *application, args []string) error {
	fs := newFlagSet(app, "add")
	input := bindStudentFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	student, err := app.services.Student().Create(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Student %s added with ID %d (%s)\n", student.StudentID, student.ID, student.Status)
	return nil
}

func runList(ctx context.Context, app *application, args []string) error {
	fs := newFlagSet(app, "list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	students, err := app.services.Student().List(ctx)
	if err != nil {
		return err
	}
	if len(students) == 0 {
		fmt.Fprintln(app.stdout, "No students found")
		return nil
	}

	return writeStudents(app.stdout, students)
}

func runFind(ctx context.Context, app *application, args []string) error {
	fs := newFlagSet(app, "find")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	student, found, err := app.services.Student().FindByStudentID(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(app.stdout, "No student found with Student ID %q\n", strings.TrimSpace(fs.Arg(0)))
		return nil
	}

	return writeStudents(app.stdout, []*models.Student{student})
}

func runUpdate(ctx context.Context, app *application, args []string) error {
	fs := newFlagSet(app, "update")
	id := fs.Uint("id", 0, "internal ID of the record to replace")
	input := bindStudentFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id == 0 {
		fs.Usage()
		return errUsage
	}

	student, err := app.services.Student().Update(ctx, *id, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Student %d updated (%s)\n", student.ID, student.Status)
	return nil
}

func runDelete(ctx context.Context, app *application, args []string) error {
	fs := newFlagSet(app, "delete")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	id, err := strconv.ParseUint(strings.TrimSpace(fs.Arg(0)), 10, 0)
	if err != nil || id == 0 {
		return models.NewRecordError(models.KindFormatError, "Delete", "id", fmt.Sprintf("%q is not a valid record ID", fs.Arg(0)))
	}

	if err := app.services.Student().Delete(ctx, uint(id)); err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Student %d deleted\n", id)
	return nil
}

func runStats(ctx context.Context, app *application, args []string) error {
	fs := newFlagSet(app, "stats")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	stats, err := app.services.Student().Statistics(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(app.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total students:\t%d\n", stats.Total)
	fmt.Fprintf(tw, "Passing:\t%d\n", stats.Pass)
	fmt.Fprintf(tw, "Failing:\t%d\n", stats.Fail)
	fmt.Fprintf(tw, "Average GPA:\t%s\n", stats.FormatAverage())
	fmt.Fprintf(tw, "Pass rate:\t%.1f%%\n", stats.PassRate())
	return tw.Flush()
}

func runImport(ctx context.Context, app *application, args []string) error {
	fs := newFlagSet(app, "import")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	result, err := app.services.ImportExport().ImportFile(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Imported %d students, skipped %d\n", result.Imported, result.Skipped)
	for _, e := range result.Errors {
		field := e.Field
		if field == "" {
			field = "row"
		}
		fmt.Fprintf(app.stdout, "  row %d (line %d) %s: %s: %s\n", e.Row, e.Line, e.StudentID, field, e.Message)
	}
	return nil
}

func runExport(ctx context.Context, app *application, args []string) error {
	fs := newFlagSet(app, "export")
	format := fs.String("format", "csv", "output format: csv or xlsx")
	dir := fs.String("dir", app.cfg.ExportDir, "destination directory")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var (
		path string
		err  error
	)
	switch strings.ToLower(*format) {
	case "csv":
		path, err = app.services.ImportExport().ExportFile(ctx, *dir, time.Now())
	case "xlsx":
		path, err = app.services.ImportExport().ExportWorkbook(ctx, *dir, time.Now())
	default:
		return models.NewRecordError(models.KindInvalidChoice, "Export", "format",
			fmt.Sprintf("unsupported export format %q, use csv or xlsx", *format))
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Exported to %s\n", path)
	return nil
}

// ===== OUTPUT =====

func writeStudents(w io.Writer, students []*models.Student) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTUDENT ID\tNAME\tAGE\tEMAIL\tDEPARTMENT\tGPA\tYEAR\tSTATUS")
	for _, s := range students {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%.2f\t%d\t%s\n",
			s.ID, s.StudentID, s.Name, s.Age, s.Email, s.Department, s.GPA, s.GraduationYear, s.Status)
	}
	return tw.Flush()
}

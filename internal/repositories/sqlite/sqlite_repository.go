package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/student-records/internal/models"
	"github.com/SAP-F-2025/student-records/internal/repositories"
)

// SQLiteRepository implements the main Repository interface
type SQLiteRepository struct {
	db *gorm.DB

	student repositories.StudentRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	// Path of the database file; created on first use
	Path        string
	BusyTimeout time.Duration
	LogQueries  bool
	Logger      *slog.Logger
}

// NewSQLiteRepository creates a repository over an open connection
func NewSQLiteRepository(db *gorm.DB) repositories.Repository {
	return &SQLiteRepository{
		db:      db,
		student: NewStudentSQLite(db),
	}
}

// Student returns the student repository
func (r *SQLiteRepository) Student() repositories.StudentRepository {
	return r.student
}

// Ping checks the health of the database connection
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return models.NewStorageError("Ping", "failed to get database instance", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return models.NewStorageError("Ping", "database ping failed", err)
	}

	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Open opens the SQLite file. A single connection is kept: one process, one writer.
func Open(config RepositoryConfig) (*gorm.DB, error) {
	db, err := gorm.Open(gormsqlite.Open(buildDSN(config)), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(config.Logger, config.LogQueries),
	})
	if err != nil {
		return nil, models.NewStorageError("Open", fmt.Sprintf("unable to open database %q", config.Path), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, models.NewStorageError("Open", "failed to get database instance", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func buildDSN(config RepositoryConfig) string {
	busy := config.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	sep := "?"
	if strings.Contains(config.Path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", config.Path, sep, busy.Milliseconds())
}

// slogWriter routes gorm's logger output to slog
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}

func newGormLogger(l *slog.Logger, logQueries bool) logger.Interface {
	if l == nil {
		return logger.Discard
	}

	level := logger.Warn
	if logQueries {
		level = logger.Info
	}

	return logger.New(slogWriter{logger: l}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize opens the database file and verifies the connection
func (rm *RepositoryManager) Initialize() error {
	if strings.TrimSpace(rm.config.Path) == "" {
		return models.NewRecordError(models.KindStorageUnavailable, "Open", "", "database path is required")
	}

	db, err := Open(rm.config)
	if err != nil {
		return err
	}

	repo := NewSQLiteRepository(db)
	if err := repo.Ping(context.Background()); err != nil {
		_ = repo.Close()
		return err
	}

	rm.repo = repo
	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of the database connection
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown closes the database connection
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/student-records/internal/models"
	"github.com/SAP-F-2025/student-records/internal/repositories"
	"github.com/SAP-F-2025/student-records/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// GPA below which a student is classified FAIL
	PassThreshold float64

	// Create the student table during Initialize
	InitializeSchema bool
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repoManager repositories.RepositoryManager
	logger      *slog.Logger
	validator   *validator.Validator
	config      ServiceManagerConfig

	// Service instances
	studentService      StudentService
	importExportService ImportExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies. The
// repository manager must already be initialized.
func NewServiceManager(repoManager repositories.RepositoryManager, logger *slog.Logger, validator *validator.Validator, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repoManager: repoManager,
		logger:      logger,
		validator:   validator,
		config:      config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(repoManager repositories.RepositoryManager, logger *slog.Logger, validator *validator.Validator) ServiceManager {
	config := ServiceManagerConfig{
		PassThreshold:    models.DefaultPassThreshold,
		InitializeSchema: true,
	}

	return NewServiceManager(repoManager, logger, validator, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Debug("Initializing service manager")

	repo := sm.repoManager.GetRepository()
	if repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	sm.studentService = NewStudentService(repo, sm.logger, sm.validator, sm.config.PassThreshold)
	sm.importExportService = NewImportExportService(repo, sm.studentService, sm.logger)

	if sm.config.InitializeSchema {
		if err := sm.studentService.Initialize(ctx); err != nil {
			return err
		}
	}

	sm.initialized = true
	sm.logger.Debug("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	return sm.studentService
}

func (sm *serviceManager) ImportExport() ImportExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	return sm.importExportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repoManager.HealthCheck(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	if err := sm.repoManager.Shutdown(ctx); err != nil {
		sm.logger.Error("Failed to shutdown repository manager", "error", err)
		return err
	}

	sm.shutdown = true
	sm.logger.Debug("Service manager shut down completed")

	return nil
}

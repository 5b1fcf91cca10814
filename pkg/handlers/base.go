package handlers

import (
	"time"

	"quantwp/pkg/config"
	"quantwp/pkg/envsync"
	"quantwp/pkg/hooks"
	"quantwp/pkg/logger"
	"quantwp/pkg/scheduler"
	"quantwp/pkg/settings"
)

// Dependencies are the collaborators the HTTP handlers read from
type Dependencies struct {
	Store     settings.Store
	Syncer    *envsync.Syncer
	Registry  *hooks.Registry
	Scheduler *scheduler.TaskScheduler
}

// HandlerService provides HTTP handlers for the API
type HandlerService struct {
	config    *config.Config
	store     settings.Store
	syncer    *envsync.Syncer
	registry  *hooks.Registry
	scheduler *scheduler.TaskScheduler
	startedAt time.Time
}

// NewHandlerService creates a new handler service
func NewHandlerService(cfg *config.Config, deps Dependencies) *HandlerService {
	logger.Info("Initializing handler service")

	registry := deps.Registry
	if registry == nil {
		registry = hooks.NewRegistry()
	}
	return &HandlerService{
		config:    cfg,
		store:     deps.Store,
		syncer:    deps.Syncer,
		registry:  registry,
		scheduler: deps.Scheduler,
		startedAt: time.Now(),
	}
}

// IsSchedulerAvailable checks if scheduler is available
func (h *HandlerService) IsSchedulerAvailable() bool {
	return h.scheduler != nil
}

func getCurrentTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

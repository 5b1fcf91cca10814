package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quantwp/pkg/response"
	"quantwp/pkg/scheduler"
)

// GetSchedulerStatus returns scheduler status
func (h *HandlerService) GetSchedulerStatus(c *gin.Context) {
	if !h.IsSchedulerAvailable() {
		_ = c.Error(response.NewServiceUnavailableError("Scheduler not available", nil))
		return
	}
	c.JSON(http.StatusOK, h.scheduler.GetStatus())
}

// GetScheduledJobs returns all scheduled jobs
func (h *HandlerService) GetScheduledJobs(c *gin.Context) {
	if !h.IsSchedulerAvailable() {
		_ = c.Error(response.NewServiceUnavailableError("Scheduler not available", nil))
		return
	}

	jobs := h.scheduler.GetJobs()
	c.JSON(http.StatusOK, gin.H{
		"jobs":      jobs,
		"count":     len(jobs),
		"timestamp": getCurrentTimestamp(),
	})
}

// RunScheduledJob executes a scheduled job immediately
func (h *HandlerService) RunScheduledJob(c *gin.Context) {
	if !h.IsSchedulerAvailable() {
		_ = c.Error(response.NewServiceUnavailableError("Scheduler not available", nil))
		return
	}

	jobID := c.Param("id")
	err := h.scheduler.RunJob(jobID)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		_ = c.Error(response.NewAPIError(http.StatusNotFound, "Job not found", err))
		return
	case errors.Is(err, scheduler.ErrJobRunning):
		_ = c.Error(response.NewAPIError(http.StatusConflict, "Job already running", err))
		return
	case err != nil:
		_ = c.Error(response.NewInternalServerError("Job failed", err))
		return
	}

	job, _ := h.scheduler.GetJob(jobID)
	c.JSON(http.StatusOK, gin.H{
		"job":       job,
		"timestamp": getCurrentTimestamp(),
	})
}

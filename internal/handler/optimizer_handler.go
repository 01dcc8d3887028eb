package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/middleware"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	"github.com/noah-isme/timetable-optimizer/internal/service"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
	"github.com/noah-isme/timetable-optimizer/pkg/response"
)

type optimizer interface {
	Optimize(ctx context.Context, req dto.OptimizeRequest) (*dto.OptimizeResponse, error)
	OptimizeStored(ctx context.Context, req dto.StoredOptimizeRequest) (*dto.OptimizeResponse, error)
	GetRun(ctx context.Context, id string) (*models.OptimizationRun, error)
	ListRuns(ctx context.Context, query dto.OptimizationRunQuery) ([]models.OptimizationRun, *models.Pagination, error)
	PurgeCache(ctx context.Context) error
}

type optimizationSubmitter interface {
	Submit(ctx context.Context, req dto.OptimizeRequest) (*dto.OptimizationJobResponse, error)
}

type scheduleExporter interface {
	Export(ctx context.Context, runID string, format dto.ExportFormat) (*service.ScheduleFile, error)
}

// OptimizerHandler exposes timetable optimization endpoints.
type OptimizerHandler struct {
	service  optimizer
	jobs     optimizationSubmitter
	exporter scheduleExporter
}

// NewOptimizerHandler constructs the handler.
func NewOptimizerHandler(svc *service.OptimizerService, jobs *service.OptimizationJobService, exporter *service.ScheduleExportService) *OptimizerHandler {
	h := &OptimizerHandler{service: svc, exporter: exporter}
	if jobs != nil {
		h.jobs = jobs
	}
	return h
}

// Optimize godoc
// @Summary Find the best timetable for an inline catalog
// @Tags Optimizations
// @Accept json
// @Produce json
// @Param payload body dto.OptimizeRequest true "Catalog and preferences"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /optimizations [post]
func (h *OptimizerHandler) Optimize(c *gin.Context) {
	var req dto.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid optimization payload"))
		return
	}
	result, err := h.service.Optimize(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOptimized(c, result)
}

// OptimizeStored godoc
// @Summary Find the best timetable for stored subjects
// @Tags Optimizations
// @Accept json
// @Produce json
// @Param payload body dto.StoredOptimizeRequest true "Subject codes and preferences"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /optimizations/stored [post]
func (h *OptimizerHandler) OptimizeStored(c *gin.Context) {
	var req dto.StoredOptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid optimization payload"))
		return
	}
	result, err := h.service.OptimizeStored(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOptimized(c, result)
}

func respondOptimized(c *gin.Context, result *dto.OptimizeResponse) {
	middleware.SetCacheHit(c, result.Cached)
	middleware.SetMeta(c, "exhaustive", result.Exhaustive)
	response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
}

// Submit godoc
// @Summary Queue an optimization for background execution
// @Tags Optimizations
// @Accept json
// @Produce json
// @Param payload body dto.OptimizeRequest true "Catalog and preferences"
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /optimizations/async [post]
func (h *OptimizerHandler) Submit(c *gin.Context) {
	if h.jobs == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnavailable, "async optimization is not configured"))
		return
	}
	var req dto.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid optimization payload"))
		return
	}
	result, err := h.jobs.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}

// Get godoc
// @Summary Get a stored optimization run
// @Tags Optimizations
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /optimizations/{id} [get]
func (h *OptimizerHandler) Get(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// List godoc
// @Summary List stored optimization runs
// @Tags Optimizations
// @Produce json
// @Param status query string false "QUEUED, RUNNING, COMPLETED or FAILED"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /optimizations [get]
func (h *OptimizerHandler) List(c *gin.Context) {
	var query dto.OptimizationRunQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	runs, pagination, err := h.service.ListRuns(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, pagination)
}

// Export godoc
// @Summary Download the schedule of a completed run
// @Tags Optimizations
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Run ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 409 {object} response.Envelope
// @Router /optimizations/{id}/export [get]
func (h *OptimizerHandler) Export(c *gin.Context) {
	file, err := h.exporter.Export(c.Request.Context(), c.Param("id"), dto.ExportFormat(c.DefaultQuery("format", string(dto.ExportFormatCSV))))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}

// PurgeCache godoc
// @Summary Drop cached optimization results
// @Tags Optimizations
// @Success 204
// @Router /optimizations/cache [delete]
func (h *OptimizerHandler) PurgeCache(c *gin.Context) {
	if err := h.service.PurgeCache(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

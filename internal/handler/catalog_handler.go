package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-optimizer/internal/models"
	"github.com/noah-isme/timetable-optimizer/internal/service"
	"github.com/noah-isme/timetable-optimizer/pkg/catalogio"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
	"github.com/noah-isme/timetable-optimizer/pkg/response"
)

const maxCatalogUploadBytes = 8 << 20

type catalogManager interface {
	Import(ctx context.Context, catalog models.Catalog) error
	Get(ctx context.Context, codes []string) (models.Catalog, error)
}

// CatalogHandler manages the stored activity catalog.
type CatalogHandler struct {
	service catalogManager
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Import godoc
// @Summary Replace stored subjects with an uploaded catalog
// @Description Accepts JSON, YAML or CSV catalogs selected by Content-Type.
// @Tags Catalog
// @Accept json
// @Accept text/csv
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /catalog [put]
func (h *CatalogHandler) Import(c *gin.Context) {
	format, err := catalogio.ParseFormat(c.ContentType())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnsupportedMediaType, "unsupported catalog content type"))
		return
	}
	doc, err := catalogio.Decode(http.MaxBytesReader(c.Writer, c.Request.Body, maxCatalogUploadBytes), format)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid catalog"))
		return
	}
	if err := h.service.Import(c.Request.Context(), doc.Catalog); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"subjects":   doc.Catalog.SubjectCodes(),
		"activities": doc.Catalog.ActivityCount(),
	}, nil)
}

// Get godoc
// @Summary Read stored subjects
// @Tags Catalog
// @Produce json
// @Param subjects query string true "Comma separated subject codes"
// @Success 200 {object} response.Envelope
// @Router /catalog [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	var codes []string
	for _, code := range strings.Split(c.Query("subjects"), ",") {
		if trimmed := strings.TrimSpace(code); trimmed != "" {
			codes = append(codes, trimmed)
		}
	}
	catalog, err := h.service.Get(c.Request.Context(), codes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, catalog, nil)
}

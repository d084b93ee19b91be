package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/labstack/echo/v4"
	"github.com/locvowork/stockcount/internal/domain"
	"github.com/locvowork/stockcount/internal/logger"
	"github.com/locvowork/stockcount/internal/service"
	"github.com/locvowork/stockcount/internal/service/serviceutils"
	"github.com/locvowork/stockcount/pkg/tabular"
)

const (
	catalogField  = "catalog"
	scheduleField = "schedule"
	dateField     = "date"
)

// errBadUpload marks request problems the client can fix.
var errBadUpload = errors.New("invalid upload")

type ReportHandler struct {
	svc *service.ReportService
	// catalogOptional is set when the service can read the catalog itself.
	catalogOptional bool
}

func NewReportHandler(svc *service.ReportService, catalogOptional bool) *ReportHandler {
	return &ReportHandler{svc: svc, catalogOptional: catalogOptional}
}

// BuildHandler returns the stock-count workbook as an attachment.
func (h *ReportHandler) BuildHandler(c echo.Context) error {
	req, err := h.bindRequest(c)
	if err != nil {
		return h.respondError(c, "Failed to read upload", err)
	}

	report, err := h.svc.Build(c.Request().Context(), *req)
	if err != nil {
		return h.respondError(c, "Failed to build report", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Response().Header().Set("X-Report-Id", report.ID)
	return c.Blob(http.StatusOK, report.ContentType, report.Data)
}

// PreviewHandler returns the filtered rows as JSON.
func (h *ReportHandler) PreviewHandler(c echo.Context) error {
	req, err := h.bindRequest(c)
	if err != nil {
		return h.respondError(c, "Failed to read upload", err)
	}

	preview, err := h.svc.Preview(c.Request().Context(), *req)
	if err != nil {
		return h.respondError(c, "Failed to preview report", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Report preview generated successfully", preview)
}

func HealthHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", nil)
}

func (h *ReportHandler) bindRequest(c echo.Context) (*service.BuildRequest, error) {
	req := &service.BuildRequest{}

	schedule, err := readTable(c, scheduleField)
	if err != nil {
		return nil, err
	}
	req.Schedule = schedule

	if _, err := c.FormFile(catalogField); err == nil || !h.catalogOptional {
		catalog, err := readTable(c, catalogField)
		if err != nil {
			return nil, err
		}
		req.Catalog = catalog
	}

	if raw := strings.TrimSpace(c.FormValue(dateField)); raw != "" {
		date, err := civil.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", errBadUpload, raw)
		}
		req.Date = &date
	}
	return req, nil
}

func readTable(c echo.Context, field string) (*tabular.Table, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%w: missing %s file", errBadUpload, field)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", errBadUpload, field, err)
	}
	defer f.Close()

	tbl, err := tabular.Read(fh.Filename, f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %q: %v", errBadUpload, field, fh.Filename, err)
	}
	return tbl, nil
}

func (h *ReportHandler) respondError(c echo.Context, message string, err error) error {
	var (
		schemaErr *domain.SchemaError
		emptyErr  *domain.EmptyScheduleError
	)
	switch {
	case errors.As(err, &schemaErr):
		return serviceutils.ResponseErrorData(c, http.StatusUnprocessableEntity, message, err,
			map[string]interface{}{"missing_columns": schemaErr.Missing})
	case errors.As(err, &emptyErr):
		return serviceutils.ResponseError(c, http.StatusUnprocessableEntity, message, err)
	case errors.Is(err, errBadUpload), errors.Is(err, service.ErrNoCatalog):
		return serviceutils.ResponseError(c, http.StatusBadRequest, message, err)
	default:
		logger.ErrorLog(c.Request().Context(), message, err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/locvowork/stockcount/internal/config"
	"github.com/locvowork/stockcount/internal/domain"
	"github.com/locvowork/stockcount/internal/engine"
	"github.com/locvowork/stockcount/internal/logger"
	"github.com/locvowork/stockcount/pkg/simpleexcelv3"
	"github.com/locvowork/stockcount/pkg/tabular"
)

// ErrNoCatalog is returned when a request carries no catalog and no
// catalog source is configured.
var ErrNoCatalog = errors.New("no catalog provided")

// BuildRequest holds the two input tables of a report. Date overrides
// "today" when set. A nil Catalog is read from the configured source.
type BuildRequest struct {
	Catalog  *tabular.Table
	Schedule *tabular.Table
	Date     *civil.Date
}

// Report is a rendered stock-count workbook.
type Report struct {
	ID          string              `json:"id"`
	FileName    string              `json:"file_name"`
	ContentType string              `json:"content_type"`
	Data        []byte              `json:"-"`
	Set         domain.ScheduledSet `json:"scheduled"`
	Rows        int                 `json:"rows"`
	Sheets      []string            `json:"sheets"`
	Products    int                 `json:"products"`
	SkippedRows int                 `json:"skipped_schedule_rows"`
}

// Preview is the filtered table of a report, without rendering it.
type Preview struct {
	Set         domain.ScheduledSet  `json:"scheduled"`
	Rows        []domain.FilteredRow `json:"rows"`
	SkippedRows int                  `json:"skipped_schedule_rows"`
}

type ReportService struct {
	opts              engine.Options
	echoScheduleDates bool
	loc               *time.Location
	now               func() time.Time
	catalogSource     domain.CatalogSource
}

// NewReportService creates a ReportService. loc is the zone "today" is taken in.
func NewReportService(cfg *config.ReportConfig, loc *time.Location) *ReportService {
	if cfg == nil {
		cfg = config.DefaultReportConfig()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{
		opts:              cfg.EngineOptions(),
		echoScheduleDates: cfg.Debug.EchoScheduleDates,
		loc:               loc,
		now:               time.Now,
	}
}

// WithCatalogSource makes requests without a catalog read it from src.
func (s *ReportService) WithCatalogSource(src domain.CatalogSource) *ReportService {
	s.catalogSource = src
	return s
}

// Today is the default report date.
func (s *ReportService) Today() civil.Date {
	return civil.DateOf(s.now().In(s.loc))
}

// Build runs the whole pipeline and renders the workbook.
func (s *ReportService) Build(ctx context.Context, req BuildRequest) (*Report, error) {
	id := uuid.NewString()
	date := s.reportDate(req)
	ctx = logger.WithLogger(ctx, map[string]interface{}{
		"build_id":    id,
		"report_date": date.String(),
	})
	start := time.Now()

	plan, err := s.prepare(ctx, req, date)
	if err != nil {
		return nil, err
	}

	layout, err := engine.Assemble(engine.Input{
		Set:     plan.set,
		Rows:    plan.rows,
		Catalog: plan.catalog,
	}, s.opts)
	if err != nil {
		var emptyErr *domain.EmptyScheduleError
		if errors.As(err, &emptyErr) {
			logger.WarnLog(ctx, "No branch scheduled on %s", date)
		}
		return nil, err
	}

	data, err := layout.Workbook.ToBytes()
	if err != nil {
		logger.ErrorLog(ctx, "Failed to render report", err)
		return nil, fmt.Errorf("render report: %w", err)
	}

	sheetNames := make([]string, 0, len(layout.Workbook.Sheets))
	for _, sh := range layout.Workbook.Ordered() {
		sheetNames = append(sheetNames, sh.Name)
	}

	logger.InfoLog(ctx, "Built %s: %d rows, %d brand sheets, %d products in %v",
		layout.FileName, len(plan.rows), len(layout.Sheets), len(layout.Summary), time.Since(start))

	return &Report{
		ID:          id,
		FileName:    layout.FileName,
		ContentType: simpleexcelv3.ContentType,
		Data:        data,
		Set:         plan.set,
		Rows:        len(plan.rows),
		Sheets:      sheetNames,
		Products:    len(layout.Summary),
		SkippedRows: plan.skipped,
	}, nil
}

// Preview returns the rows a report would contain. An empty schedule
// yields an empty preview rather than an error.
func (s *ReportService) Preview(ctx context.Context, req BuildRequest) (*Preview, error) {
	date := s.reportDate(req)
	ctx = logger.WithLogger(ctx, map[string]interface{}{
		"report_date": date.String(),
	})

	plan, err := s.prepare(ctx, req, date)
	if err != nil {
		return nil, err
	}
	rows := plan.rows
	if rows == nil {
		rows = []domain.FilteredRow{}
	}
	return &Preview{Set: plan.set, Rows: rows, SkippedRows: plan.skipped}, nil
}

type buildPlan struct {
	set     domain.ScheduledSet
	catalog []domain.CatalogRow
	rows    []domain.FilteredRow
	skipped int
}

func (s *ReportService) reportDate(req BuildRequest) civil.Date {
	if req.Date != nil {
		return *req.Date
	}
	return s.Today()
}

func (s *ReportService) prepare(ctx context.Context, req BuildRequest, date civil.Date) (*buildPlan, error) {
	if req.Schedule == nil {
		return nil, errors.New("no schedule provided")
	}

	entries, skipped := engine.ParseSchedule(req.Schedule)
	for _, perr := range skipped {
		logger.DebugLog(ctx, "Skipping schedule %v", perr)
	}
	if len(skipped) > 0 {
		logger.InfoLog(ctx, "Skipped %d schedule rows with unreadable dates", len(skipped))
	}
	if s.echoScheduleDates {
		for _, e := range entries {
			logger.InfoLog(ctx, "Schedule date %s (branch %q, brand %q)", e.Date, e.Branch, e.Brand)
		}
	}
	set := engine.ActiveSet(entries, date)

	catalogTable, err := s.catalogTable(ctx, req)
	if err != nil {
		return nil, err
	}
	catalog, err := engine.LoadCatalog(catalogTable)
	if err != nil {
		logger.WarnLog(ctx, "Catalog rejected: %v", err)
		return nil, err
	}

	rows := engine.FilterRows(catalog, set)
	logger.DebugLog(ctx, "%d of %d catalog rows scheduled for %d brands at %d branches",
		len(rows), len(catalog), len(set.Brands), len(set.Branches))

	return &buildPlan{
		set:     set,
		catalog: catalog,
		rows:    rows,
		skipped: len(skipped),
	}, nil
}

func (s *ReportService) catalogTable(ctx context.Context, req BuildRequest) (*tabular.Table, error) {
	if req.Catalog != nil {
		return req.Catalog, nil
	}
	if s.catalogSource == nil {
		return nil, ErrNoCatalog
	}
	tbl, err := s.catalogSource.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return tbl, nil
}

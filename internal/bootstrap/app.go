package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/stockcount/internal/config"
	"github.com/locvowork/stockcount/internal/database"
	"github.com/locvowork/stockcount/internal/handler"
	"github.com/locvowork/stockcount/internal/logger"
	"github.com/locvowork/stockcount/internal/repository"
	"github.com/locvowork/stockcount/internal/service"
)

type App struct {
	Echo      *echo.Echo
	DB        *sql.DB
	ReportSvc *service.ReportService
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

// Setup loads configuration and logging and builds the report service.
// The catalog database is opened when catalogFromDB or CATALOG_FROM_DB is set.
func (a *App) Setup(ctx context.Context, catalogFromDB bool) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	env := config.DefaultEnvConfig

	logger.InitLogging(env.LOG_FILE_PATH, env.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	reportCfg, err := config.LoadReportConfig(env.REPORT_CONFIG_PATH)
	if err != nil {
		return fmt.Errorf("failed to load report config: %w", err)
	}
	loc, err := env.Location()
	if err != nil {
		return fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", env.REPORT_TIMEZONE, err)
	}
	a.ReportSvc = service.NewReportService(reportCfg, loc)

	if catalogFromDB || env.CATALOG_FROM_DB {
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            env.DB_HOST,
			Port:            env.DB_PORT,
			User:            env.DB_USER,
			Password:        env.DB_PASSWORD,
			DBName:          env.DB_NAME,
			SSLMode:         env.DB_SSL_MODE,
			MaxOpenConns:    env.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    env.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: env.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = db
		a.ReportSvc.WithCatalogSource(repository.NewCatalogRepository(db, env.CATALOG_TABLE))
		logger.InfoLog(ctx, "Reading catalog from table %s", env.CATALOG_TABLE)
	}
	return nil
}

// Initialize prepares the HTTP server.
func (a *App) Initialize(ctx context.Context) error {
	if err := a.Setup(ctx, false); err != nil {
		return err
	}

	reportHandler := handler.NewReportHandler(a.ReportSvc, a.DB != nil)

	a.RegisterMiddlewares()
	a.RegisterRoutes(reportHandler)
	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	a.Echo.Use(middleware.BodyLimit(fmt.Sprintf("%dM", config.DefaultEnvConfig.MAX_UPLOAD_MB)))
}

func (a *App) RegisterRoutes(reportHandler *handler.ReportHandler) {
	a.Echo.GET("/healthz", handler.HealthHandler)

	reports := a.Echo.Group("/reports")
	reports.POST("", reportHandler.BuildHandler)
	reports.POST("/preview", reportHandler.PreviewHandler)
}

func (a *App) Run() error {
	defer a.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}

// Close releases the catalog database, if one was opened.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

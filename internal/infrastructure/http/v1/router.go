// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"librarium/internal/domain/catalogs/book"
	"librarium/internal/domain/catalogs/catalog"
	"librarium/internal/domain/catalogs/employee"
	"librarium/internal/domain/catalogs/reader"
	"librarium/internal/domain/documents/issue"
	"librarium/internal/infrastructure/http/v1/handlers"
	"librarium/internal/infrastructure/http/v1/middleware"
	"librarium/internal/infrastructure/storage/postgres"
	"librarium/internal/infrastructure/storage/postgres/catalog_repo"
	"librarium/internal/infrastructure/storage/postgres/document_repo"
	"librarium/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *pgxpool.Pool

	// TxManager manages database transactions
	TxManager *postgres.TxManager

	// Audit records entity changes, may be nil
	Audit *postgres.AuditService

	// Logger for request logging
	Logger *logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	// Repositories share the transaction manager so service-level
	// transactions span all of them
	catalogRepo := catalog_repo.NewCatalogRepo(cfg.TxManager)
	bookRepo := catalog_repo.NewBookRepo(cfg.TxManager)
	readerRepo := catalog_repo.NewReaderRepo(cfg.TxManager)
	employeeRepo := catalog_repo.NewEmployeeRepo(cfg.TxManager)
	issueRepo := document_repo.NewIssueRepo(cfg.TxManager)

	catalogService := catalog.NewService(catalogRepo, bookRepo, cfg.TxManager)
	bookService := book.NewService(bookRepo, catalogRepo, cfg.TxManager)
	readerService := reader.NewService(readerRepo, cfg.TxManager)
	employeeService := employee.NewService(employeeRepo, cfg.TxManager)

	var auditor issue.Auditor
	if cfg.Audit != nil {
		auditor = cfg.Audit
	}
	issueService := issue.NewService(
		issueRepo, bookRepo, readerService, employeeService, cfg.TxManager, auditor)

	baseHandler := handlers.NewBaseHandler()
	catalogHandler := handlers.NewCatalogHandler(baseHandler, catalogService)
	bookHandler := handlers.NewBookHandler(baseHandler, bookService)
	readerHandler := handlers.NewReaderHandler(baseHandler, readerService)
	employeeHandler := handlers.NewEmployeeHandler(baseHandler, employeeService)
	issueHandler := handlers.NewIssueHandler(baseHandler, issueService)

	api := router.Group("/api/v1")
	{
		catalogs := api.Group("/catalog")
		{
			catalogHandler.RegisterRoutes(catalogs.Group("/catalogs"))
			bookHandler.RegisterRoutes(catalogs.Group("/books"))
			bookHandler.RegisterCopyRoutes(catalogs.Group("/book-copies"))
			readerHandler.RegisterRoutes(catalogs.Group("/readers"))
			employeeHandler.RegisterRoutes(catalogs.Group("/employees"))
		}

		documents := api.Group("/document")
		{
			issueHandler.RegisterRoutes(documents.Group("/issues"))
		}
	}

	return router
}

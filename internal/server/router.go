package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vsevolod6/practika/internal/gateway"
	"github.com/vsevolod6/practika/internal/health"
	"github.com/vsevolod6/practika/internal/reports"
	"github.com/vsevolod6/practika/internal/resources"
	"go.uber.org/zap"
)

var (
	errMissingGateway = errors.New("book gateway dependency required")
	errMissingCatalog = errors.New("resource catalog dependency required")
	errMissingReports = errors.New("report fetcher dependency required")
	errMissingHealth  = errors.New("health checker dependency required")
)

type BookGateway interface {
	GetBookByInventory(ctx context.Context, inventoryNumber string) (gateway.PhysicalBook, error)
	SearchBooksByAuthor(ctx context.Context, author string) ([]gateway.PhysicalBook, error)
	RegisterLoan(ctx context.Context, request gateway.LoanRequest) (gateway.LoanResult, error)
	ReturnBook(ctx context.Context, inventoryNumber string) (gateway.LoanResult, error)
}

type ResourceCatalog interface {
	GetAll(ctx context.Context) ([]resources.DigitalResource, error)
	GetByID(ctx context.Context, id int64) (resources.DigitalResource, error)
	Search(ctx context.Context, query string) ([]resources.DigitalResource, error)
	LogDownload(ctx context.Context, request resources.DownloadRequest) (resources.DownloadReceipt, error)
	Stats(ctx context.Context) (resources.DownloadStats, error)
}

type ReportFetcher interface {
	Fetch(ctx context.Context, reportType reports.ReportType) (reports.Report, error)
}

type HealthChecker interface {
	Check(ctx context.Context) (health.Report, error)
}

type Dependencies struct {
	Gateway BookGateway
	Catalog ResourceCatalog
	Reports ReportFetcher
	Health  HealthChecker
	Logger  *zap.Logger
}

func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Gateway == nil {
		return nil, errMissingGateway
	}
	if deps.Catalog == nil {
		return nil, errMissingCatalog
	}
	if deps.Reports == nil {
		return nil, errMissingReports
	}
	if deps.Health == nil {
		return nil, errMissingHealth
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	router.Use(requestIDMiddleware())
	router.Use(accessLogMiddleware(logger))
	router.Use(metricsMiddleware())
	router.Use(recoveryMiddleware(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(bodyLimitMiddleware(maxRequestBodyBytes))

	handler := &httpHandler{
		gateway: deps.Gateway,
		catalog: deps.Catalog,
		reports: deps.Reports,
		health:  deps.Health,
		logger:  logger,
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("/health", handler.handleHealth)

	physical := api.Group("/physical")
	physical.GET("/books", handler.handleSearchBooks)
	physical.GET("/books/:inventoryNumber", handler.handleGetBook)
	physical.POST("/loan", handler.handleRegisterLoan)
	physical.POST("/return", handler.handleReturnBook)

	digital := api.Group("/digital")
	digital.GET("/resources", handler.handleListResources)
	digital.GET("/resources/search", handler.handleSearchResources)
	digital.GET("/resources/:id", handler.handleGetResource)
	digital.POST("/download", handler.handleDownload)
	digital.GET("/download/file/:id", handler.handleDownloadFile)
	digital.GET("/stats", handler.handleStats)

	internal := api.Group("/internal")
	internal.GET("/report", handler.handleReport)
	internal.GET("/overdue-report", handler.reportHandler(reports.ReportTypeOverdue))
	internal.GET("/popular-report", handler.reportHandler(reports.ReportTypePopular))
	internal.GET("/status-report", handler.reportHandler(reports.ReportTypeStatus))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   messageEndpointNotFound,
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	return router, nil
}

type httpHandler struct {
	gateway BookGateway
	catalog ResourceCatalog
	reports ReportFetcher
	health  HealthChecker
	logger  *zap.Logger
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	report, err := h.health.Check(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": health.StatusError,
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *httpHandler) handleReport(c *gin.Context) {
	h.respondReport(c, reports.ParseType(c.Query("type")))
}

func (h *httpHandler) reportHandler(reportType reports.ReportType) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.respondReport(c, reportType)
	}
}

func (h *httpHandler) respondReport(c *gin.Context, reportType reports.ReportType) {
	report, err := h.reports.Fetch(c.Request.Context(), reportType)
	if err != nil {
		h.respondReportError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": messageReportReady,
		"data":    report,
	})
}

package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-doc-inspector/internal/config"
	apperrors "go-doc-inspector/internal/errors"
	"go-doc-inspector/internal/extractor"
	"go-doc-inspector/internal/factory"
	"go-doc-inspector/internal/logger"
	"go-doc-inspector/internal/observer"
	"go-doc-inspector/internal/tempstore"
	"go-doc-inspector/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ExtractRequest carries one intake request. Exactly one of Path or URL must
// be set; Password overrides the configured archive password for this call.
type ExtractRequest struct {
	Path     string `json:"path,omitempty"`
	URL      string `json:"url,omitempty"`
	Password string `json:"password,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Handler bundles the dependencies of the HTTP surface
type Handler struct {
	extractor    *extractor.Extractor
	fetchers     factory.FetcherFactory
	store        *tempstore.Store
	urlValidator *validation.URLValidator
	metrics      *observer.MetricsObserver
	cfg          *config.Config
}

// NewHandler creates the gin router for the intake service
func NewHandler(
	ext *extractor.Extractor,
	fetchers factory.FetcherFactory,
	store *tempstore.Store,
	metrics *observer.MetricsObserver,
	cfg *config.Config,
) http.Handler {
	h := &Handler{
		extractor:    ext,
		fetchers:     fetchers,
		store:        store,
		urlValidator: validation.NewURLValidator(),
		metrics:      metrics,
		cfg:          cfg,
	}

	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/metrics", h.getMetrics)
	r.POST("/extract", h.extract)

	return r
}

func (h *Handler) extract(c *gin.Context) {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.ExtractTimeout)
	defer cancel()

	logger.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"ip":         c.ClientIP(),
	}).Info("Processing extraction request")

	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"ip": c.ClientIP(),
		}).Error("Invalid request format")
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	if (req.Path == "") == (req.URL == "") {
		err := apperrors.NewValidationError("exactly one of path or url must be set", nil)
		respondError(c, err.StatusCode, "invalid request", err)
		return
	}

	inputPath := req.Path
	if req.URL != "" {
		localPath, err := h.fetchRemote(ctx, req.URL)
		if err != nil {
			statusCode := apperrors.GetStatusCode(err)
			respondError(c, statusCode, "failed to fetch document", err)
			return
		}
		defer h.store.Remove(localPath)
		inputPath = localPath
	}

	password := req.Password
	var result interface{}
	if password != "" {
		result = h.extractor.ExtractWithPassword(ctx, inputPath, password)
	} else {
		result = h.extractor.Extract(ctx, inputPath)
	}

	duration := time.Since(startTime)
	logger.WithFields(logrus.Fields{
		"input":              req.Path + req.URL,
		"processing_time_ms": duration.Milliseconds(),
	}).Info("Extraction request completed")

	c.JSON(http.StatusOK, result)
}

// fetchRemote validates the URL and downloads it through the matching
// storage backend.
func (h *Handler) fetchRemote(ctx context.Context, documentURL string) (string, error) {
	if err := h.urlValidator.ValidateDocumentURL(documentURL); err != nil {
		logger.WithError(err).WithField("url", documentURL).Error("Invalid document URL")
		return "", err
	}

	fetcher, err := h.fetchers.CreateFetcherForURL(documentURL)
	if err != nil {
		return "", apperrors.NewValidationError("unsupported document source", err)
	}

	localPath, err := fetcher.FetchDocument(ctx, documentURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.NewTimeoutError("document fetch timeout", err)
		}
		return "", apperrors.NewNetworkError("failed to fetch document", err)
	}
	return localPath, nil
}

func (h *Handler) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.GetMetrics())
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}

package container

import (
	"fmt"
	"net/http"

	"go-doc-inspector/internal/archive"
	"go-doc-inspector/internal/config"
	"go-doc-inspector/internal/extractor"
	"go-doc-inspector/internal/factory"
	"go-doc-inspector/internal/logger"
	"go-doc-inspector/internal/observer"
	"go-doc-inspector/internal/profiler"
	"go-doc-inspector/internal/tempstore"
	"go-doc-inspector/internal/transport"
	"go-doc-inspector/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config    *config.Config
	store     *tempstore.Store
	extractor *extractor.Extractor
	metrics   *observer.MetricsObserver
	handler   http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Build dependency graph
	store := tempstore.New(cfg.TempDir)
	extensions := validation.NewExtensionSet(cfg.AcceptedExtensions)
	scanner := archive.NewScanner(store, cfg.CopyChunkSize, cfg.MaxArchiveSize)

	factories := factory.NewComponentFactory(store, cfg.AzureAccountName, cfg.AzureAccountKey)
	opener, err := factories.OpenerFactory.CreateOpener(factory.PDFOpener)
	if err != nil {
		return nil, err
	}

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	ext := extractor.New(
		scanner,
		profiler.New(opener),
		store,
		extensions,
		publisher,
		cfg.ArchivePassword,
		cfg.MaxWorkers,
	)

	handler := transport.NewHandler(ext, factories.FetcherFactory, store, metrics, cfg)

	return &Container{
		config:    cfg,
		store:     store,
		extractor: ext,
		metrics:   metrics,
		handler:   handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Extractor returns the extraction orchestrator
func (c *Container) Extractor() *extractor.Extractor {
	return c.extractor
}

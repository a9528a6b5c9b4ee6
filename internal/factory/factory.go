package factory

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go-doc-inspector/internal/docgeom"
	"go-doc-inspector/internal/storage"
	"go-doc-inspector/internal/tempstore"
)

// OpenerType represents different types of document openers
type OpenerType string

const (
	// PDFOpener for PDF documents
	PDFOpener OpenerType = "pdf"
)

// StorageType represents different types of remote document sources
type StorageType string

const (
	// HTTPStorage for plain HTTP(S) document fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
)

// OpenerFactory creates document openers
type OpenerFactory interface {
	CreateOpener(openerType OpenerType) (docgeom.Opener, error)
}

// FetcherFactory creates remote document fetchers
type FetcherFactory interface {
	CreateFetcher(storageType StorageType) (storage.DocumentFetcher, error)
	// CreateFetcherForURL picks the backend from the URL's host.
	CreateFetcherForURL(documentURL string) (storage.DocumentFetcher, error)
}

// openerFactory implements OpenerFactory
type openerFactory struct{}

// NewOpenerFactory creates a new opener factory
func NewOpenerFactory() OpenerFactory {
	return &openerFactory{}
}

// CreateOpener creates an opener based on the specified type
func (f *openerFactory) CreateOpener(openerType OpenerType) (docgeom.Opener, error) {
	switch openerType {
	case PDFOpener:
		return docgeom.NewPDFOpener(), nil
	default:
		return nil, fmt.Errorf("unsupported opener type: %s", openerType)
	}
}

// fetcherFactory implements FetcherFactory
type fetcherFactory struct {
	store            *tempstore.Store
	azureAccountName string
	azureAccountKey  string
}

// NewFetcherFactory creates a new fetcher factory. Azure credentials may be
// empty, in which case only the HTTP backend is available.
func NewFetcherFactory(store *tempstore.Store, azureAccountName, azureAccountKey string) FetcherFactory {
	return &fetcherFactory{
		store:            store,
		azureAccountName: azureAccountName,
		azureAccountKey:  azureAccountKey,
	}
}

// CreateFetcher creates a fetcher for the specified backend
func (f *fetcherFactory) CreateFetcher(storageType StorageType) (storage.DocumentFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPDocumentFetcher(f.store), nil
	case AzureStorage:
		if f.azureAccountName == "" || f.azureAccountKey == "" {
			return nil, fmt.Errorf("azure storage not configured")
		}
		blob, err := storage.NewAzureStorage(f.azureAccountName, f.azureAccountKey, f.store)
		if err != nil {
			return nil, err
		}
		return &blobFetcher{blob: blob}, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// CreateFetcherForURL routes blob.core.windows.net hosts to the azure
// backend and everything else to HTTP.
func (f *fetcherFactory) CreateFetcherForURL(documentURL string) (storage.DocumentFetcher, error) {
	parsed, err := url.Parse(documentURL)
	if err != nil {
		return nil, fmt.Errorf("invalid document URL: %w", err)
	}
	if strings.HasSuffix(parsed.Hostname(), ".blob.core.windows.net") {
		return f.CreateFetcher(AzureStorage)
	}
	return f.CreateFetcher(HTTPStorage)
}

// blobFetcher adapts BlobStorage to the DocumentFetcher interface
type blobFetcher struct {
	blob storage.BlobStorage
}

func (b *blobFetcher) FetchDocument(ctx context.Context, documentURL string) (string, error) {
	return b.blob.GetDocument(ctx, documentURL)
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	OpenerFactory  OpenerFactory
	FetcherFactory FetcherFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(store *tempstore.Store, azureAccountName, azureAccountKey string) *ComponentFactory {
	return &ComponentFactory{
		OpenerFactory:  NewOpenerFactory(),
		FetcherFactory: NewFetcherFactory(store, azureAccountName, azureAccountKey),
	}
}

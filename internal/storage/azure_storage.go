package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"go-doc-inspector/internal/tempstore"
)

// BlobStorage downloads documents from Azure Blob Storage into the temp store
type BlobStorage interface {
	GetDocument(ctx context.Context, blobURL string) (string, error)
}

type azureStorage struct {
	client *azblob.Client
	store  *tempstore.Store
}

// NewAzureStorage creates a blob-backed document source using shared key
// credentials
func NewAzureStorage(accountName string, accountKey string, store *tempstore.Store) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureStorage{client: client, store: store}, nil
}

// GetDocument downloads the blob at blobURL to a temp file and returns its
// path. The URL path carries the container name and the blob query parameter
// the blob name.
func (s *azureStorage) GetDocument(ctx context.Context, blobURL string) (string, error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return "", fmt.Errorf("invalid blob URL: %w", err)
	}
	if parsedURL.Path == "" || parsedURL.Path == "/" {
		return "", fmt.Errorf("blob URL carries no container name")
	}

	containerName := parsedURL.Path[1:] // Remove leading slash
	blobName := parsedURL.Query().Get("blob")

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	suffix := path.Ext(blobName)
	if suffix == "" {
		suffix = ".bin"
	}
	return writeToStore(s.store, suffix, retryReader)
}

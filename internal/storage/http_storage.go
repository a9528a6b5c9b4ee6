package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"go-doc-inspector/internal/tempstore"
)

// DocumentFetcher downloads a remote document into the temp store and
// returns the local path. The caller owns the returned file and removes it
// when done.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, documentURL string) (string, error)
}

// HTTPDocumentFetcher implements DocumentFetcher over plain HTTP(S)
type HTTPDocumentFetcher struct {
	client *http.Client
	store  *tempstore.Store
}

// NewHTTPDocumentFetcher creates an HTTP document fetcher writing through
// the given temp store
func NewHTTPDocumentFetcher(store *tempstore.Store) DocumentFetcher {
	// Transport tuned for occasional single-document downloads
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		DisableCompression:     false,
		MaxResponseHeaderBytes: 4096,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	return &HTTPDocumentFetcher{
		store: store,
		client: &http.Client{
			Transport: transport,
			Timeout:   60 * time.Second,

			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// FetchDocument downloads documentURL to a temp file. Transient failures
// (network errors, 5xx) are retried up to 3 times; 4xx responses fail
// immediately.
func (h *HTTPDocumentFetcher) FetchDocument(ctx context.Context, documentURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", documentURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "application/pdf, application/zip, application/octet-stream, */*")
	req.Header.Set("User-Agent", "Go-Doc-Inspector/1.0")

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		resp, err = h.client.Do(req)

		if err != nil {
			lastErr = err
		}

		if err == nil && resp != nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err == nil && resp != nil {
			resp.Body.Close()

			// 4xx client errors are non-retryable
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return "", fmt.Errorf("client error: status code %d", resp.StatusCode)
			}
			if resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
			}
			resp = nil
		}

		if attempt < 2 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}

	if resp == nil {
		if lastErr != nil {
			return "", fmt.Errorf("failed to fetch document after 3 attempts: %w", lastErr)
		}
		return "", fmt.Errorf("failed to fetch document after 3 attempts: unknown error")
	}
	defer resp.Body.Close()

	return writeToStore(h.store, urlSuffix(documentURL), resp.Body)
}

// urlSuffix derives a temp file suffix from the URL path extension.
func urlSuffix(documentURL string) string {
	parsed, err := url.Parse(documentURL)
	if err != nil {
		return ".bin"
	}
	if ext := path.Ext(parsed.Path); ext != "" {
		return ext
	}
	return ".bin"
}

// writeToStore streams r into a new temp file and returns its path. The
// partial file is removed on copy failure.
func writeToStore(store *tempstore.Store, suffix string, r io.Reader) (string, error) {
	tmp, err := store.Create(suffix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		store.Remove(tmpPath)
		return "", fmt.Errorf("failed to write document: %w", copyErr)
	}

	return tmpPath, nil
}

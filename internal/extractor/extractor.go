// Package extractor orchestrates one intake call: input validation, archive
// scanning, member layout profiling, and temp file cleanup.
package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-doc-inspector/internal/archive"
	"go-doc-inspector/internal/logger"
	"go-doc-inspector/internal/observer"
	"go-doc-inspector/internal/profiler"
	"go-doc-inspector/internal/tempstore"
	"go-doc-inspector/pkg/models"
	"go-doc-inspector/pkg/validation"
)

// Extractor runs the document intake pipeline for one input path at a time.
// Temp files created for archive members live only for the duration of a
// single Extract call.
type Extractor struct {
	scanner    *archive.Scanner
	profiler   *profiler.Profiler
	store      *tempstore.Store
	extensions *validation.ExtensionSet
	publisher  observer.Subject
	password   string
	workers    int
}

// New creates an Extractor. password is the default archive password applied
// when a request does not carry its own; workers bounds concurrent member
// profiling.
func New(
	scanner *archive.Scanner,
	prof *profiler.Profiler,
	store *tempstore.Store,
	extensions *validation.ExtensionSet,
	publisher observer.Subject,
	password string,
	workers int,
) *Extractor {
	return &Extractor{
		scanner:    scanner,
		profiler:   prof,
		store:      store,
		extensions: extensions,
		publisher:  publisher,
		password:   password,
		workers:    workers,
	}
}

// Extract processes the input at path with the configured default password.
func (e *Extractor) Extract(ctx context.Context, path string) *models.ExtractionResult {
	return e.ExtractWithPassword(ctx, path, e.password)
}

// ExtractWithPassword processes the input at path. Archives are scanned and
// each verified member profiled; standalone documents are profiled directly.
// Failures are reported inside the result, never as a panic or partial state:
// by the time this returns, every member temp file has been removed.
func (e *Extractor) ExtractWithPassword(ctx context.Context, path, password string) *models.ExtractionResult {
	start := time.Now()
	result := &models.ExtractionResult{}

	e.notify(ctx, observer.ExtractionEvent{
		EventType: observer.ExtractionStarted,
		Timestamp: start,
		Input:     path,
	})

	if _, err := os.Stat(path); err != nil {
		result.AddError(fmt.Sprintf("could not find file on path %s", path))
		e.notifyDone(ctx, path, start, result)
		return result
	}

	switch {
	case validation.IsArchive(path):
		e.extractArchive(ctx, path, password, result)
	case !e.extensions.Contains(path):
		result.AddError(fmt.Sprintf("file doesn't have valid extension. Got %s > expected %v",
			validation.Extension(path), e.extensions.List()))
	default:
		profile := e.profiler.Profile(path, filepath.Base(path))
		result.Profiles = append(result.Profiles, profile)
		e.notify(ctx, observer.ExtractionEvent{
			EventType: observer.DocumentProfiled,
			Timestamp: time.Now(),
			Input:     profile.FileName,
			Success:   profile.Readable,
			Metadata: map[string]interface{}{
				"recommendation": profile.Recommendation,
			},
		})
	}

	e.notifyDone(ctx, path, start, result)
	return result
}

// extractArchive scans the container and profiles every verified member.
// Member temp files are removed before returning regardless of outcome.
func (e *Extractor) extractArchive(ctx context.Context, path, password string, result *models.ExtractionResult) {
	scan := e.scanner.Scan(path, e.extensions, password)
	defer e.cleanupMembers(scan)

	for _, msg := range scan.Errors {
		result.AddError(msg)
	}
	for _, bad := range scan.Bad {
		result.AddWarning(fmt.Sprintf("%s: %s", bad.Name, bad.Error))
		e.notify(ctx, observer.ExtractionEvent{
			EventType:    observer.MemberRejected,
			Timestamp:    time.Now(),
			Input:        bad.Name,
			ErrorMessage: bad.Error,
		})
	}
	for _, ok := range scan.OK {
		e.notify(ctx, observer.ExtractionEvent{
			EventType: observer.MemberVerified,
			Timestamp: time.Now(),
			Input:     ok.Name,
			Success:   true,
		})
	}

	if scan.OKCount() == 0 {
		result.AddInfo(fmt.Sprintf("no verified members in archive %s", filepath.Base(path)))
		return
	}

	result.Profiles = append(result.Profiles, e.profileMembers(ctx, scan.OK)...)
}

// profileMembers profiles verified members concurrently. Results are
// collected by index so the output order matches the archive listing order
// regardless of completion order.
func (e *Extractor) profileMembers(ctx context.Context, members []*models.ArchiveMember) []*models.LayoutProfile {
	profiles := make([]*models.LayoutProfile, len(members))

	pool := NewWorkerPool(e.workers)
	pool.Start()
	defer pool.Close()

	for i, member := range members {
		i, member := i, member
		pool.Submit(func() {
			profiles[i] = e.profiler.Profile(member.LocalPath, member.Name)
			e.notify(ctx, observer.ExtractionEvent{
				EventType: observer.DocumentProfiled,
				Timestamp: time.Now(),
				Input:     member.Name,
				Success:   profiles[i].Readable,
				Metadata: map[string]interface{}{
					"recommendation": profiles[i].Recommendation,
				},
			})
		})
	}
	pool.Wait()

	return profiles
}

func (e *Extractor) cleanupMembers(scan *models.ScanResult) {
	var paths []string
	for _, member := range scan.OK {
		if member.LocalPath != "" {
			paths = append(paths, member.LocalPath)
		}
	}
	if len(paths) > 0 {
		e.store.RemoveAll(paths)
		logger.WithField("count", len(paths)).Debug("Cleaned up member temp files")
	}
}

func (e *Extractor) notify(ctx context.Context, event observer.ExtractionEvent) {
	if e.publisher != nil {
		e.publisher.NotifyObservers(ctx, event)
	}
}

func (e *Extractor) notifyDone(ctx context.Context, path string, start time.Time, result *models.ExtractionResult) {
	event := observer.ExtractionEvent{
		Timestamp:      time.Now(),
		Input:          path,
		ProcessingTime: time.Since(start),
	}
	if len(result.Error) > 0 {
		event.EventType = observer.ExtractionFailed
		event.ErrorMessage = result.Error[0]
	} else {
		event.EventType = observer.ExtractionCompleted
		event.Success = true
		event.Metadata = map[string]interface{}{
			"profiles": len(result.Profiles),
		}
	}
	e.notify(ctx, event)
}

package archive

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yeka/zip"

	"go-doc-inspector/internal/logger"
	"go-doc-inspector/internal/tempstore"
	"go-doc-inspector/pkg/models"
	"go-doc-inspector/pkg/validation"
)

// fallbackSuffix is used for entries without a recognizable extension.
const fallbackSuffix = ".bin"

// Scanner streams archive members through the temp store while verifying
// their checksums. Reading an entry to the end is the integrity check: the
// zip reader validates the stored CRC once the stream is fully consumed.
type Scanner struct {
	store          *tempstore.Store
	chunkSize      int
	maxArchiveSize int64
}

// NewScanner creates a Scanner writing through the given store in chunkSize
// blocks. Containers larger than maxArchiveSize are rejected at scan level.
func NewScanner(store *tempstore.Store, chunkSize int, maxArchiveSize int64) *Scanner {
	if chunkSize <= 0 {
		chunkSize = 1 << 20
	}
	return &Scanner{
		store:          store,
		chunkSize:      chunkSize,
		maxArchiveSize: maxArchiveSize,
	}
}

// Scan opens the container at archivePath and streams every non-directory
// entry whose extension is in accepted to a temp file. Members appear in the
// result's OK/Bad slices in archive listing order. The caller owns deleting
// the LocalPath of every verified member; failed members never leave a temp
// file behind. Container-level failures produce scan-level errors and an
// otherwise empty result.
func (s *Scanner) Scan(archivePath string, accepted *validation.ExtensionSet, password string) *models.ScanResult {
	result := &models.ScanResult{}

	if s.maxArchiveSize > 0 {
		if info, err := os.Stat(archivePath); err == nil && info.Size() > s.maxArchiveSize {
			result.Errors = append(result.Errors,
				fmt.Sprintf("archive too large: %d bytes (max %d)", info.Size(), s.maxArchiveSize))
			return result
		}
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("not a valid zip archive: %v", err))
		return result
	}
	defer reader.Close()

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if !accepted.Contains(entry.Name) {
			// Non-matching extensions are silently skipped, not reported
			logger.WithField("member", entry.Name).Debug("Skipping member with unaccepted extension")
			continue
		}

		member := s.scanMember(entry, password)
		if member.ChecksumVerified {
			result.OK = append(result.OK, member)
		} else {
			result.Bad = append(result.Bad, member)
		}
	}

	logger.WithFields(logger.Fields{
		"archive": archivePath,
		"ok":      result.OKCount(),
		"bad":     result.BadCount(),
	}).Info("Archive scan completed")

	return result
}

// scanMember copies one entry to a temp file. On any failure the partial
// temp file is removed immediately and the member carries a diagnostic.
func (s *Scanner) scanMember(entry *zip.File, password string) *models.ArchiveMember {
	member := &models.ArchiveMember{
		Name:           entry.Name,
		Size:           entry.UncompressedSize64,
		CompressedSize: entry.CompressedSize64,
		Modified:       entry.ModTime(),
		Checksum:       entry.CRC32,
	}

	if entry.IsEncrypted() {
		if password == "" {
			member.Error = fmt.Sprintf("%s: encrypted entry (missing password)", entry.Name)
			return member
		}
		entry.SetPassword(password)
	}

	rc, err := entry.Open()
	if err != nil {
		member.Error = describeMemberError(entry.Name, err)
		return member
	}
	defer rc.Close()

	tmp, err := s.store.Create(memberSuffix(entry.Name))
	if err != nil {
		member.Error = fmt.Sprintf("%s: %v", entry.Name, err)
		return member
	}
	tmpPath := tmp.Name()

	// Copying to EOF drives the reader's CRC verification.
	_, copyErr := io.CopyBuffer(tmp, rc, make([]byte, s.chunkSize))
	closeErr := tmp.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		s.store.Remove(tmpPath)
		member.Error = describeMemberError(entry.Name, copyErr)
		return member
	}

	member.ChecksumVerified = true
	member.LocalPath = tmpPath
	return member
}

// describeMemberError reports a clearer diagnostic when the failure text
// points at encryption rather than plain corruption.
func describeMemberError(name string, err error) string {
	text := strings.ToLower(err.Error())
	if strings.Contains(text, "password") || strings.Contains(text, "decrypt") ||
		strings.Contains(text, "authentication") {
		return fmt.Sprintf("%s: encrypted entry (wrong/missing password)", name)
	}
	return fmt.Sprintf("%s: %v", name, err)
}

// memberSuffix returns the entry's extension or a generic fallback.
func memberSuffix(name string) string {
	if ext := validation.Extension(name); ext != "" {
		return ext
	}
	return fallbackSuffix
}

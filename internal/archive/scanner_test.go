package archive

import (
	stdzip "archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	yekazip "github.com/yeka/zip"

	"go-doc-inspector/internal/tempstore"
	"go-doc-inspector/pkg/validation"
)

func pdfExtensions() *validation.ExtensionSet {
	return validation.NewExtensionSet([]string{".pdf"})
}

// writeZip creates an archive with the given name/payload pairs using the
// stored (uncompressed) method so payload bytes appear verbatim on disk.
func writeZip(t *testing.T, path string, entries map[string][]byte, order []string) {
	t.Helper()

	var buf bytes.Buffer
	zw := stdzip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.CreateHeader(&stdzip.FileHeader{Name: name, Method: stdzip.Store})
		if err != nil {
			t.Fatalf("CreateHeader(%s) failed: %v", name, err)
		}
		if _, err := w.Write(entries[name]); err != nil {
			t.Fatalf("Write(%s) failed: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func tempFileCount(t *testing.T, dir string) int {
	t.Helper()
	names, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	return len(names)
}

func TestScan_VerifiesMembersInListingOrder(t *testing.T) {
	storeDir := t.TempDir()
	scanner := NewScanner(tempstore.New(storeDir), 0, 0)

	archivePath := filepath.Join(t.TempDir(), "docs.zip")
	writeZip(t, archivePath, map[string][]byte{
		"b.pdf": []byte("second document body"),
		"a.pdf": []byte("first document body"),
	}, []string{"b.pdf", "a.pdf"})

	result := scanner.Scan(archivePath, pdfExtensions(), "")

	if len(result.Errors) != 0 {
		t.Fatalf("Expected no scan-level errors, got %v", result.Errors)
	}
	if result.OKCount() != 2 || result.BadCount() != 0 {
		t.Fatalf("Expected 2 ok / 0 bad, got %d / %d", result.OKCount(), result.BadCount())
	}

	// Listing order, not name order
	if result.OK[0].Name != "b.pdf" || result.OK[1].Name != "a.pdf" {
		t.Errorf("Expected listing order [b.pdf a.pdf], got [%s %s]",
			result.OK[0].Name, result.OK[1].Name)
	}

	for _, m := range result.OK {
		if !m.ChecksumVerified {
			t.Errorf("Member %s not marked verified", m.Name)
		}
		if m.LocalPath == "" {
			t.Fatalf("Member %s has no local path", m.Name)
		}
		info, err := os.Stat(m.LocalPath)
		if err != nil {
			t.Fatalf("Temp file for %s missing: %v", m.Name, err)
		}
		if uint64(info.Size()) != m.Size {
			t.Errorf("Member %s temp size %d != declared %d", m.Name, info.Size(), m.Size)
		}
	}
}

func TestScan_SkipsUnacceptedExtensions(t *testing.T) {
	scanner := NewScanner(tempstore.New(t.TempDir()), 0, 0)

	archivePath := filepath.Join(t.TempDir(), "mixed.zip")
	writeZip(t, archivePath, map[string][]byte{
		"doc.pdf":    []byte("a pdf"),
		"notes.txt":  []byte("a text file"),
		"image.jpeg": []byte("a picture"),
	}, []string{"doc.pdf", "notes.txt", "image.jpeg"})

	result := scanner.Scan(archivePath, pdfExtensions(), "")

	if result.OKCount() != 1 || result.BadCount() != 0 {
		t.Fatalf("Expected only doc.pdf processed, got %d ok / %d bad",
			result.OKCount(), result.BadCount())
	}
	if result.OK[0].Name != "doc.pdf" {
		t.Errorf("Expected doc.pdf, got %s", result.OK[0].Name)
	}
}

func TestScan_EmptyArchive(t *testing.T) {
	scanner := NewScanner(tempstore.New(t.TempDir()), 0, 0)

	archivePath := filepath.Join(t.TempDir(), "empty.zip")
	writeZip(t, archivePath, nil, nil)

	result := scanner.Scan(archivePath, pdfExtensions(), "")

	if result.OKCount() != 0 || result.BadCount() != 0 || len(result.Errors) != 0 {
		t.Errorf("Expected empty non-error result, got ok=%d bad=%d errors=%v",
			result.OKCount(), result.BadCount(), result.Errors)
	}
}

func TestScan_NotAnArchive(t *testing.T) {
	storeDir := t.TempDir()
	scanner := NewScanner(tempstore.New(storeDir), 0, 0)

	path := filepath.Join(t.TempDir(), "bogus.zip")
	if err := os.WriteFile(path, []byte("this is not a zip container"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	result := scanner.Scan(path, pdfExtensions(), "")

	if result.OKCount() != 0 || result.BadCount() != 0 {
		t.Errorf("Expected no members, got ok=%d bad=%d", result.OKCount(), result.BadCount())
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Expected one scan-level error, got %v", result.Errors)
	}
	if tempFileCount(t, storeDir) != 0 {
		t.Errorf("Expected no temp files for unreadable archive")
	}
}

func TestScan_CorruptedChecksumIsMemberFailure(t *testing.T) {
	storeDir := t.TempDir()
	scanner := NewScanner(tempstore.New(storeDir), 0, 0)

	payload := []byte("UNIQUE-PAYLOAD-FOR-CRC-CORRUPTION")
	archivePath := filepath.Join(t.TempDir(), "corrupt.zip")
	writeZip(t, archivePath, map[string][]byte{"doc.pdf": payload}, []string{"doc.pdf"})

	// Flip a payload byte; the stored CRC no longer matches the data.
	raw, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	idx := bytes.Index(raw, payload)
	if idx < 0 {
		t.Fatal("Stored payload not found in archive bytes")
	}
	raw[idx] ^= 0xFF
	if err := os.WriteFile(archivePath, raw, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	result := scanner.Scan(archivePath, pdfExtensions(), "")

	if result.OKCount() != 0 {
		t.Errorf("Expected no verified members, got %d", result.OKCount())
	}
	if result.BadCount() != 1 {
		t.Fatalf("Expected one failed member, got %d", result.BadCount())
	}
	if len(result.Errors) != 0 {
		t.Errorf("Per-member corruption must not produce scan-level errors, got %v", result.Errors)
	}

	bad := result.Bad[0]
	if bad.ChecksumVerified {
		t.Error("Failed member must not be marked verified")
	}
	if bad.LocalPath != "" {
		t.Errorf("Failed member must have no local path, got %s", bad.LocalPath)
	}
	if bad.Error == "" {
		t.Error("Failed member must carry a diagnostic")
	}
	if tempFileCount(t, storeDir) != 0 {
		t.Error("Failed member leaked a partial temp file")
	}
}

func TestScan_EncryptedEntryWithoutPassword(t *testing.T) {
	storeDir := t.TempDir()
	scanner := NewScanner(tempstore.New(storeDir), 0, 0)

	var buf bytes.Buffer
	zw := yekazip.NewWriter(&buf)
	w, err := zw.Encrypt("secret.pdf", "hunter2", yekazip.AES256Encryption)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := w.Write([]byte("protected document body")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}

	archivePath := filepath.Join(t.TempDir(), "protected.zip")
	if err := os.WriteFile(archivePath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	result := scanner.Scan(archivePath, pdfExtensions(), "")

	if result.BadCount() != 1 || result.OKCount() != 0 {
		t.Fatalf("Expected 1 bad / 0 ok, got %d / %d", result.BadCount(), result.OKCount())
	}
	if !strings.Contains(strings.ToLower(result.Bad[0].Error), "password") {
		t.Errorf("Expected password diagnostic, got %q", result.Bad[0].Error)
	}
	if tempFileCount(t, storeDir) != 0 {
		t.Error("Encrypted member without password leaked a temp file")
	}
}

func TestScan_EncryptedEntryWithPassword(t *testing.T) {
	scanner := NewScanner(tempstore.New(t.TempDir()), 0, 0)

	payload := []byte("protected document body")
	var buf bytes.Buffer
	zw := yekazip.NewWriter(&buf)
	w, err := zw.Encrypt("secret.pdf", "hunter2", yekazip.AES256Encryption)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}

	archivePath := filepath.Join(t.TempDir(), "protected.zip")
	if err := os.WriteFile(archivePath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	result := scanner.Scan(archivePath, pdfExtensions(), "hunter2")

	if result.OKCount() != 1 || result.BadCount() != 0 {
		t.Fatalf("Expected 1 ok / 0 bad, got %d / %d (bad: %+v)",
			result.OKCount(), result.BadCount(), result.Bad)
	}

	got, err := os.ReadFile(result.OK[0].LocalPath)
	if err != nil {
		t.Fatalf("ReadFile(%s) failed: %v", result.OK[0].LocalPath, err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("Decrypted temp file content differs from original payload")
	}
}

func TestScan_ArchiveTooLarge(t *testing.T) {
	scanner := NewScanner(tempstore.New(t.TempDir()), 0, 16)

	archivePath := filepath.Join(t.TempDir(), "big.zip")
	writeZip(t, archivePath, map[string][]byte{
		"doc.pdf": bytes.Repeat([]byte("x"), 1024),
	}, []string{"doc.pdf"})

	result := scanner.Scan(archivePath, pdfExtensions(), "")

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "too large") {
		t.Fatalf("Expected one too-large scan error, got %v", result.Errors)
	}
	if result.OKCount() != 0 || result.BadCount() != 0 {
		t.Errorf("Oversized archive must not yield members")
	}
}

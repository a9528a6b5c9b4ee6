package tempstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreate_UsesConfiguredDirAndSuffix(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	f, err := store.Create(".pdf")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer f.Close()
	defer store.Remove(f.Name())

	if filepath.Dir(f.Name()) != dir {
		t.Errorf("Expected file in %s, got %s", dir, f.Name())
	}
	if !strings.HasSuffix(f.Name(), ".pdf") {
		t.Errorf("Expected .pdf suffix, got %s", f.Name())
	}
}

func TestCreate_FilesAreDistinct(t *testing.T) {
	store := New(t.TempDir())

	a, err := store.Create(".bin")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer a.Close()
	b, err := store.Create(".bin")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer b.Close()

	if a.Name() == b.Name() {
		t.Errorf("Expected distinct temp files, both were %s", a.Name())
	}
}

func TestRemove_DeletesFile(t *testing.T) {
	store := New(t.TempDir())

	f, err := store.Create(".pdf")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	f.Close()

	store.Remove(f.Name())

	if _, err := os.Stat(f.Name()); !os.IsNotExist(err) {
		t.Errorf("Expected file to be gone, stat error: %v", err)
	}
}

func TestRemove_MissingFileDoesNotPanic(t *testing.T) {
	store := New(t.TempDir())

	// Removing a path that never existed must be silent
	store.Remove(filepath.Join(t.TempDir(), "never-created.pdf"))
	store.Remove("")
}

func TestRemoveAll_DeletesEverything(t *testing.T) {
	store := New(t.TempDir())

	var paths []string
	for i := 0; i < 3; i++ {
		f, err := store.Create(".pdf")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		f.Close()
		paths = append(paths, f.Name())
	}
	// A missing entry in the middle must not stop the sweep
	paths = append(paths, paths[0]+".gone")

	store.RemoveAll(paths)

	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("Expected %s to be removed, stat error: %v", p, err)
		}
	}
}

package archive

import (
	"archive/tar"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/weftkit/weft/core/errors"
)

func TestWriterFromDisk(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "game1_02.ac")
	if err := os.WriteFile(src, []byte("anybody want sheep?"), 0o644); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "out", "snap.tar.gz")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.WriteFile("snap/game1/unannotated/game1_02.ac", src); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	// Parent directory was created on demand.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("archive not created: %v", err)
	}

	data, err := ReadFile(path, "game1/unannotated/game1_02.ac")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "anybody want sheep?" {
		t.Errorf("content = %q", data)
	}
}

func TestWriterEntryMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.tar.xz")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBytes("snap/a.txt", []byte("aa")); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBytes("snap/b.txt", []byte("bb")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var headers []*tar.Header
	err = Walk(path, func(h *tar.Header, _ io.Reader) (bool, error) {
		copied := *h
		headers = append(headers, &copied)
		return false, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(headers) != 2 {
		t.Fatalf("entries = %d", len(headers))
	}
	// All entries share the writer's timestamp.
	if !headers[0].ModTime.Equal(headers[1].ModTime) {
		t.Errorf("timestamps differ: %v vs %v", headers[0].ModTime, headers[1].ModTime)
	}
	if headers[0].Mode != 0o644 {
		t.Errorf("mode = %o", headers[0].Mode)
	}
	if headers[1].Size != 2 {
		t.Errorf("size = %d", headers[1].Size)
	}
}

func TestNewWriterUnsupportedSuffix(t *testing.T) {
	_, err := NewWriter(filepath.Join(t.TempDir(), "snap.zip"))
	if !errors.Is(err, apperrors.ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
}

func TestWriteFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(filepath.Join(dir, "snap.tar.gz"))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	err = w.WriteFile("snap/ghost.txt", filepath.Join(dir, "ghost.txt"))
	if err == nil {
		t.Fatalf("WriteFile() succeeded on a missing source")
	}
	var ioErr *apperrors.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("error %v is not an IOError", err)
	}
}

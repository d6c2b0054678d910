package archive

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/weftkit/weft/core/errors"
)

// Writer builds a compressed tar archive entry by entry. The
// compression comes from the destination suffix, like NewReader.
type Writer struct {
	tw         *tar.Writer
	compressor io.Closer
	file       *os.File
	modTime    time.Time
}

// NewWriter creates the archive file at dstPath, making parent
// directories as needed. Entry timestamps are fixed at creation time
// so that packing the same tree twice yields comparable archives.
func NewWriter(dstPath string) (*Writer, error) {
	if !IsSupportedFormat(dstPath) {
		return nil, errors.NewUnsupported("archive format", dstPath)
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return nil, errors.NewIO("create", filepath.Dir(dstPath), err)
	}
	f, err := os.Create(dstPath)
	if err != nil {
		return nil, errors.NewIO("create", dstPath, err)
	}

	var compressed io.Writer
	var closer io.Closer
	switch {
	case strings.HasSuffix(dstPath, ".tar.xz"):
		xzw, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("write", dstPath, err)
		}
		compressed = xzw
		closer = xzw
	default: // .tar.gz
		gzw := gzip.NewWriter(f)
		compressed = gzw
		closer = gzw
	}

	return &Writer{
		tw:         tar.NewWriter(compressed),
		compressor: closer,
		file:       f,
		modTime:    time.Now(),
	}, nil
}

// WriteBytes adds one entry with the given content.
func (w *Writer) WriteBytes(name string, data []byte) error {
	header := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    int64(len(data)),
		ModTime: w.modTime,
	}
	if err := w.tw.WriteHeader(header); err != nil {
		return errors.NewIO("write", name, err)
	}
	if _, err := w.tw.Write(data); err != nil {
		return errors.NewIO("write", name, err)
	}
	return nil
}

// WriteFile adds one entry with the content of a file on disk.
func (w *Writer) WriteFile(name, srcPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return errors.NewIO("stat", srcPath, err)
	}
	header := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    info.Size(),
		ModTime: w.modTime,
	}
	if err := w.tw.WriteHeader(header); err != nil {
		return errors.NewIO("write", name, err)
	}
	f, err := os.Open(srcPath)
	if err != nil {
		return errors.NewIO("open", srcPath, err)
	}
	defer f.Close()
	if _, err := io.Copy(w.tw, f); err != nil {
		return errors.NewIO("write", name, err)
	}
	return nil
}

// Close flushes and closes the archive. The Writer is unusable
// afterwards.
func (w *Writer) Close() error {
	var errs []error
	if err := w.tw.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := w.compressor.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := w.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

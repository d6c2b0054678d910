package snapshot

import (
	"archive/tar"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/weftkit/weft/core/errors"
	"github.com/weftkit/weft/internal/archive"
	"github.com/weftkit/weft/internal/logging"
	"github.com/weftkit/weft/internal/validation"
)

// Create packs the tree under srcDir into a snapshot archive at
// dstPath. The manifest goes in as the first entry, so a reader can
// inspect the snapshot without unpacking the rest.
func Create(srcDir, dstPath string) (*Manifest, error) {
	if !archive.IsSupportedFormat(dstPath) {
		return nil, errors.NewUnsupported("archive format", dstPath)
	}
	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, errors.NewIO("stat", srcDir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidation("source", srcDir+" is not a directory")
	}

	files, err := collectFiles(srcDir)
	if err != nil {
		return nil, err
	}
	records := make([]FileRecord, 0, len(files))
	for _, rel := range files {
		if rel == ManifestName {
			return nil, errors.NewValidation("source", "tree already contains a top-level "+ManifestName)
		}
		sum, size, err := hashFile(filepath.Join(srcDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		records = append(records, FileRecord{Path: rel, SizeBytes: size, BLAKE3: sum})
	}

	manifest := NewManifest(records)
	data, err := manifest.ToJSON()
	if err != nil {
		return nil, errors.Wrap(err, "encoding manifest")
	}

	w, err := archive.NewWriter(dstPath)
	if err != nil {
		return nil, err
	}
	if err := writeEntries(w, baseName(dstPath), srcDir, data, records); err != nil {
		w.Close()
		os.Remove(dstPath)
		return nil, err
	}
	if err := w.Close(); err != nil {
		os.Remove(dstPath)
		return nil, err
	}

	logging.SnapshotEvent("create", dstPath, "id", manifest.ID, "files", len(records))
	return manifest, nil
}

func writeEntries(w *archive.Writer, base, srcDir string, manifestJSON []byte, records []FileRecord) error {
	if err := w.WriteBytes(path.Join(base, ManifestName), manifestJSON); err != nil {
		return err
	}
	for _, rec := range records {
		src := filepath.Join(srcDir, filepath.FromSlash(rec.Path))
		if err := w.WriteFile(path.Join(base, rec.Path), src); err != nil {
			return err
		}
	}
	return nil
}

// ReadManifest extracts just the manifest from a snapshot.
func ReadManifest(archivePath string) (*Manifest, error) {
	data, err := archive.ReadFile(archivePath, ManifestName)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}

// Verify re-hashes every file in a snapshot against its manifest and
// returns the manifest when everything matches. A file that is
// missing, unlisted, or altered makes verification fail.
func Verify(archivePath string) (*Manifest, error) {
	manifest, err := ReadManifest(archivePath)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(manifest.Files))
	err = archive.Walk(archivePath, func(header *tar.Header, r io.Reader) (bool, error) {
		if header.Typeflag == tar.TypeDir {
			return false, nil
		}
		name := stripBase(header.Name)
		if name == ManifestName {
			return false, nil
		}
		rec, ok := manifest.Lookup(name)
		if !ok {
			return true, errors.NewValidation("snapshot", "unlisted file "+name)
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return true, errors.NewIO("read", name, err)
		}
		if int64(len(data)) != rec.SizeBytes {
			return true, errors.NewValidation("snapshot", "size mismatch for "+name)
		}
		sum := blake3.Sum256(data)
		if hex.EncodeToString(sum[:]) != rec.BLAKE3 {
			return true, errors.NewValidation("snapshot", "checksum mismatch for "+name)
		}
		seen[name] = true
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	for _, rec := range manifest.Files {
		if !seen[rec.Path] {
			return nil, errors.NewValidation("snapshot", "missing file "+rec.Path)
		}
	}

	logging.SnapshotEvent("verify", archivePath, "files", len(manifest.Files))
	return manifest, nil
}

// Unpack restores a snapshot's tree under dstDir. The manifest is not
// written out, so the result mirrors the directory the snapshot was
// created from.
func Unpack(archivePath, dstDir string) error {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return errors.NewIO("create", dstDir, err)
	}

	err := archive.Walk(archivePath, func(header *tar.Header, r io.Reader) (bool, error) {
		if header.Typeflag == tar.TypeDir {
			return false, nil
		}
		name := stripBase(header.Name)
		if name == ManifestName {
			return false, nil
		}
		if err := validation.MemberPath(name); err != nil {
			return true, errors.NewValidation("member", err.Error())
		}
		target := filepath.Join(dstDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return true, errors.NewIO("create", filepath.Dir(target), err)
		}
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return true, errors.NewIO("create", target, err)
		}
		if _, err := io.Copy(f, r); err != nil {
			f.Close()
			return true, errors.NewIO("write", target, err)
		}
		if err := f.Close(); err != nil {
			return true, errors.NewIO("write", target, err)
		}
		return false, nil
	})
	if err != nil {
		return err
	}

	logging.SnapshotEvent("unpack", archivePath, "dest", dstDir)
	return nil
}

// collectFiles lists every regular file under srcDir as a sorted
// slash-separated relative path.
func collectFiles(srcDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.NewIO("scan", srcDir, err)
	}
	sort.Strings(files)
	return files, nil
}

func hashFile(p string) (string, int64, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return "", 0, errors.NewIO("read", p, err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), int64(len(data)), nil
}

// baseName derives the archive's internal top-level directory from
// the destination filename.
func baseName(archivePath string) string {
	base := filepath.Base(archivePath)
	base = strings.TrimSuffix(base, ".tar.xz")
	base = strings.TrimSuffix(base, ".tar.gz")
	return base
}

// Entries carry the snapshot's base directory as their first path
// component; everything after it is the corpus-relative name.
func stripBase(name string) string {
	if idx := strings.Index(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

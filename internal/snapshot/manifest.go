// Package snapshot packs corpus trees into portable archives and back.
// A snapshot is a .tar.xz (or .tar.gz) of the corpus directory with a
// manifest.json at the top describing every file and its content hash,
// so a receiver can check a snapshot without trusting its producer.
package snapshot

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/weftkit/weft/core/errors"
)

// Version is the current snapshot manifest format version.
const Version = "1.0.0"

// ManifestName is the manifest's filename inside the archive.
const ManifestName = "manifest.json"

// Manifest describes the contents of one snapshot.
type Manifest struct {
	SnapshotVersion string       `json:"snapshot_version"`
	ID              string       `json:"id"`
	CreatedAt       string       `json:"created_at"`
	Files           []FileRecord `json:"files"`
}

// FileRecord describes one file in the snapshot.
type FileRecord struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	BLAKE3    string `json:"blake3"`
}

// NewManifest creates a manifest over the given file records, stamped
// with a fresh snapshot id and the current time.
func NewManifest(files []FileRecord) *Manifest {
	return &Manifest{
		SnapshotVersion: Version,
		ID:              uuid.New().String(),
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		Files:           files,
	}
}

// ToJSON serializes the manifest.
func (m *Manifest) ToJSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// ParseManifest parses a manifest from JSON.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.NewParse("manifest", "", err.Error())
	}
	if m.SnapshotVersion == "" {
		return nil, errors.NewParse("manifest", "", "missing snapshot_version")
	}
	return &m, nil
}

// Lookup returns the record for a path inside the snapshot.
func (m *Manifest) Lookup(path string) (FileRecord, bool) {
	for _, f := range m.Files {
		if f.Path == path {
			return f, true
		}
	}
	return FileRecord{}, false
}

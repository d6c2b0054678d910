// Package index maintains a SQLite index over a loaded corpus: one row
// per document and one per annotation, keyed by global id and by
// position. The index answers the cross-document questions the
// representation layer deliberately does not: which annotations share a
// global id across stages, and which units from different annotators
// cover the same characters.
//
// Two SQLite implementations are supported behind build tags. The
// default is the pure Go modernc.org/sqlite; building with
// -tags cgo_sqlite selects mattn/go-sqlite3 instead.
package index

import (
	"database/sql"
	"time"

	"github.com/weftkit/weft/core/corpus"
	"github.com/weftkit/weft/core/errors"
	"github.com/weftkit/weft/core/glozz"
	"github.com/weftkit/weft/core/standoff"
	"github.com/weftkit/weft/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	doc TEXT NOT NULL,
	subdoc TEXT NOT NULL,
	stage TEXT NOT NULL,
	annotator TEXT NOT NULL,
	text_checksum TEXT NOT NULL,
	UNIQUE (doc, subdoc, stage, annotator)
);

CREATE TABLE IF NOT EXISTS annotations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	document_id INTEGER NOT NULL REFERENCES documents(id),
	global_id TEXT NOT NULL,
	local_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	type TEXT NOT NULL,
	position TEXT NOT NULL,
	char_start INTEGER,
	char_end INTEGER
);

CREATE INDEX IF NOT EXISTS idx_annotations_global_id ON annotations (global_id);
CREATE INDEX IF NOT EXISTS idx_annotations_span ON annotations (char_start, char_end);
`

// DriverName returns the database/sql driver name in use.
func DriverName() string { return driverName }

// DriverType identifies the underlying implementation: "purego" for
// modernc.org/sqlite, "cgo" for mattn/go-sqlite3.
func DriverType() string { return driverType }

// Store is an open annotation index.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the index at path, creating the schema if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating index schema")
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the location the store was opened at.
func (s *Store) Path() string {
	return s.path
}

// AddDocument indexes one document under its corpus key, replacing any
// previous rows for the same key so that re-indexing is idempotent.
func (s *Store) AddDocument(id corpus.FileID, doc *glozz.Doc) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrapf(err, "indexing %s", id)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM annotations WHERE document_id IN
		(SELECT id FROM documents WHERE doc = ? AND subdoc = ? AND stage = ? AND annotator = ?)`,
		id.Doc, id.Subdoc, string(id.Stage), id.Annotator)
	if err != nil {
		return errors.Wrapf(err, "indexing %s", id)
	}
	_, err = tx.Exec(`DELETE FROM documents WHERE doc = ? AND subdoc = ? AND stage = ? AND annotator = ?`,
		id.Doc, id.Subdoc, string(id.Stage), id.Annotator)
	if err != nil {
		return errors.Wrapf(err, "indexing %s", id)
	}

	res, err := tx.Exec(`INSERT INTO documents (doc, subdoc, stage, annotator, text_checksum)
		VALUES (?, ?, ?, ?, ?)`,
		id.Doc, id.Subdoc, string(id.Stage), id.Annotator, doc.TextChecksum)
	if err != nil {
		return errors.Wrapf(err, "indexing %s", id)
	}
	docRow, err := res.LastInsertId()
	if err != nil {
		return errors.Wrapf(err, "indexing %s", id)
	}

	stmt, err := tx.Prepare(`INSERT INTO annotations
		(document_id, global_id, local_id, kind, type, position, char_start, char_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrapf(err, "indexing %s", id)
	}
	defer stmt.Close()

	for _, anno := range doc.Annotations() {
		var position string
		var charStart, charEnd any
		if u, ok := anno.(*standoff.Unit); ok {
			position = u.Position()
			charStart, charEnd = u.Span().CharStart, u.Span().CharEnd
		}
		_, err := stmt.Exec(docRow,
			anno.Identifier(), anno.LocalID(),
			string(standoff.KindOf(anno)), anno.Type(),
			position, charStart, charEnd)
		if err != nil {
			return errors.Wrapf(err, "indexing %s in %s", anno.LocalID(), id)
		}
	}

	return tx.Commit()
}

// Build indexes a whole corpus.
func (s *Store) Build(c corpus.Corpus) error {
	start := time.Now()
	annotations := 0
	for _, id := range c.Keys() {
		doc := c[id]
		if err := s.AddDocument(id, doc); err != nil {
			return err
		}
		annotations += len(doc.Annotations())
	}
	logging.IndexBuild(s.path, len(c), annotations, time.Since(start))
	return nil
}

// Hit is one annotation row from the index.
type Hit struct {
	ID       corpus.FileID
	GlobalID string
	LocalID  string
	Kind     standoff.Kind
	Type     string
	Position string
	Span     standoff.Span
	HasSpan  bool
}

const hitColumns = `d.doc, d.subdoc, d.stage, d.annotator,
	a.global_id, a.local_id, a.kind, a.type, a.position, a.char_start, a.char_end`

func scanHits(rows *sql.Rows) ([]Hit, error) {
	defer rows.Close()
	var hits []Hit
	for rows.Next() {
		var h Hit
		var stage string
		var charStart, charEnd sql.NullInt64
		err := rows.Scan(&h.ID.Doc, &h.ID.Subdoc, &stage, &h.ID.Annotator,
			&h.GlobalID, &h.LocalID, &h.Kind, &h.Type, &h.Position, &charStart, &charEnd)
		if err != nil {
			return nil, errors.Wrap(err, "reading index row")
		}
		h.ID.Stage = corpus.Stage(stage)
		if charStart.Valid && charEnd.Valid {
			h.Span = standoff.Span{CharStart: int(charStart.Int64), CharEnd: int(charEnd.Int64)}
			h.HasSpan = true
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// LookupGlobalID returns every annotation carrying the given global
// identifier, across all indexed documents.
func (s *Store) LookupGlobalID(globalID string) ([]Hit, error) {
	rows, err := s.db.Query(`SELECT `+hitColumns+`
		FROM annotations a JOIN documents d ON a.document_id = d.id
		WHERE a.global_id = ?
		ORDER BY d.doc, d.subdoc, d.stage, d.annotator, a.local_id`, globalID)
	if err != nil {
		return nil, errors.Wrap(err, "querying index")
	}
	return scanHits(rows)
}

// LookupPosition returns the units covering exactly the given span.
// When the position is anchored, only the named document, subdocument,
// and stage are searched; annotators are never part of the question, so
// matching units from every annotator come back.
func (s *Store) LookupPosition(pos corpus.Position) ([]Hit, error) {
	query := `SELECT ` + hitColumns + `
		FROM annotations a JOIN documents d ON a.document_id = d.id
		WHERE a.kind = ? AND a.char_start = ? AND a.char_end = ?`
	args := []any{string(standoff.KindUnit), pos.Span.CharStart, pos.Span.CharEnd}
	if pos.Anchored() {
		query += ` AND d.doc = ? AND d.subdoc = ? AND d.stage = ?`
		args = append(args, pos.Doc, pos.Subdoc, pos.Stage)
	}
	query += ` ORDER BY d.doc, d.subdoc, d.stage, d.annotator, a.local_id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying index")
	}
	return scanHits(rows)
}

// Stats summarizes the index contents.
type Stats struct {
	Documents int
	Units     int
	Relations int
	Schemas   int
}

// Total returns the number of indexed annotations of all kinds.
func (st Stats) Total() int {
	return st.Units + st.Relations + st.Schemas
}

// Stats counts the indexed documents and annotations.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&st.Documents); err != nil {
		return Stats{}, errors.Wrap(err, "querying index")
	}
	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM annotations GROUP BY kind`)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying index")
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return Stats{}, errors.Wrap(err, "reading index row")
		}
		switch standoff.Kind(kind) {
		case standoff.KindUnit:
			st.Units = n
		case standoff.KindRelation:
			st.Relations = n
		case standoff.KindSchema:
			st.Schemas = n
		}
	}
	return st, rows.Err()
}

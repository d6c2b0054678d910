// Package glozz reads and writes the Glozz annotation format: an XML
// file of units, relations, and schemas (conventionally suffixed .aa)
// standing off from a sibling raw text file (.ac). The XML never
// embeds the text; units point into it by character offset, and
// relations and schemas point at other annotations by id.
//
// Reading yields resolved standoff documents, so a malformed file
// (dangling reference, duplicate id, inverted span) fails the read
// rather than producing a half-usable document. Writing is
// deterministic: element and feature order is fixed by OutputSettings
// so that rewriting an untouched document is a no-op at the byte
// level.
package glozz

import (
	"encoding/hex"
	"os"

	"github.com/zeebo/blake3"

	"github.com/weftkit/weft/core/errors"
	"github.com/weftkit/weft/core/standoff"
)

// Doc is one loaded annotation file pair: the resolved standoff
// document plus bookkeeping about the text it stands off from.
type Doc struct {
	*standoff.Document

	// TextChecksum is the hex blake3-256 digest of the raw .ac bytes,
	// or empty when the document was loaded without a text file. Two
	// annotation files over the same text carry the same checksum,
	// which is how an index spots text drift between stages.
	TextChecksum string
}

// ReadDocument loads an annotation file and, when acPath is non-empty,
// the raw text it annotates.
func ReadDocument(aaPath, acPath string) (*Doc, error) {
	data, err := os.ReadFile(aaPath)
	if err != nil {
		return nil, errors.NewIO("read", aaPath, err)
	}
	units, relations, schemas, err := ReadAnnotations(data, aaPath)
	if err != nil {
		return nil, err
	}

	if acPath == "" {
		doc, err := standoff.NewDocument(units, relations, schemas)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", aaPath)
		}
		return &Doc{Document: doc}, nil
	}

	text, err := os.ReadFile(acPath)
	if err != nil {
		return nil, errors.NewIO("read", acPath, err)
	}
	doc, err := standoff.NewDocumentWithText(units, relations, schemas, string(text))
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", aaPath)
	}
	sum := blake3.Sum256(text)
	return &Doc{
		Document:     doc,
		TextChecksum: hex.EncodeToString(sum[:]),
	}, nil
}

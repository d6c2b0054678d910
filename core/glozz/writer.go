package glozz

import (
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/weftkit/weft/core/encoding"
	"github.com/weftkit/weft/core/errors"
	"github.com/weftkit/weft/core/standoff"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>`

// OutputSettings fixes the emission order of features and metadata.
// Names listed here come out first, in list order; any names an
// annotation carries beyond the list follow alphabetically. Annotation
// tools tend to diff their files, so stable output matters more than
// any particular order.
type OutputSettings struct {
	FeatureOrder  []string
	MetadataOrder []string
}

// WriteAnnotationFile writes a document's annotations to path in
// glozz XML form. The text file is not written; it belongs to whatever
// produced the text.
func WriteAnnotationFile(path string, doc *standoff.Document, settings OutputSettings) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	if err := WriteAnnotations(f, doc, settings); err != nil {
		f.Close()
		return errors.NewIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIO("close", path, err)
	}
	return nil
}

// WriteAnnotations emits a document's annotations as glozz XML. Units
// are ordered by span and then by id; relations and schemas keep
// document order. The output is byte-stable for a given document and
// settings.
func WriteAnnotations(w io.Writer, doc *standoff.Document, settings OutputSettings) error {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("\n<annotations>\n")

	units := append([]*standoff.Unit(nil), doc.Units()...)
	sort.Slice(units, func(i, j int) bool {
		if c := units[i].Span().Compare(units[j].Span()); c != 0 {
			return c < 0
		}
		return units[i].LocalID() < units[j].LocalID()
	})
	for _, u := range units {
		writeUnit(&b, u, settings)
	}
	for _, r := range doc.Relations() {
		writeRelation(&b, r, settings)
	}
	for _, s := range doc.Schemas() {
		writeSchema(&b, s, settings)
	}

	b.WriteString("</annotations>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeUnit(b *strings.Builder, u *standoff.Unit, settings OutputSettings) {
	b.WriteString(`<unit id="` + encoding.EscapeXMLAttr(u.LocalID()) + "\">\n")
	writeMetadata(b, u.Metadata(), settings)
	writeCharacterisation(b, u.Type(), u.Features(), settings)
	sp := u.Span()
	b.WriteString("<positioning>\n<start>\n")
	b.WriteString(`<singlePosition index="` + strconv.Itoa(sp.CharStart) + "\"/>\n")
	b.WriteString("</start>\n<end>\n")
	b.WriteString(`<singlePosition index="` + strconv.Itoa(sp.CharEnd) + "\"/>\n")
	b.WriteString("</end>\n</positioning>\n")
	b.WriteString("</unit>\n")
}

func writeRelation(b *strings.Builder, r *standoff.Relation, settings OutputSettings) {
	b.WriteString(`<relation id="` + encoding.EscapeXMLAttr(r.LocalID()) + "\">\n")
	writeMetadata(b, r.Metadata(), settings)
	writeCharacterisation(b, r.Type(), r.Features(), settings)
	ids := r.IDs()
	b.WriteString("<positioning>\n")
	b.WriteString(`<term id="` + encoding.EscapeXMLAttr(ids.Source) + "\"/>\n")
	b.WriteString(`<term id="` + encoding.EscapeXMLAttr(ids.Target) + "\"/>\n")
	b.WriteString("</positioning>\n")
	b.WriteString("</relation>\n")
}

func writeSchema(b *strings.Builder, s *standoff.Schema, settings OutputSettings) {
	b.WriteString(`<schema id="` + encoding.EscapeXMLAttr(s.LocalID()) + "\">\n")
	writeMetadata(b, s.Metadata(), settings)
	writeCharacterisation(b, s.Type(), s.Features(), settings)
	b.WriteString("<positioning>\n")
	for _, id := range s.UnitIDs() {
		b.WriteString(`<embedded-unit id="` + encoding.EscapeXMLAttr(id) + "\"/>\n")
	}
	for _, id := range s.RelationIDs() {
		b.WriteString(`<embedded-relation id="` + encoding.EscapeXMLAttr(id) + "\"/>\n")
	}
	for _, id := range s.SchemaIDs() {
		b.WriteString(`<embedded-schema id="` + encoding.EscapeXMLAttr(id) + "\"/>\n")
	}
	b.WriteString("</positioning>\n")
	b.WriteString("</schema>\n")
}

// writeMetadata emits the metadata block. Keys become element names
// verbatim, so they must be plain names (the STAC set is author,
// creation-date, lastModifier, lastModificationDate).
func writeMetadata(b *strings.Builder, metadata map[string]string, settings OutputSettings) {
	if len(metadata) == 0 {
		b.WriteString("<metadata/>\n")
		return
	}
	b.WriteString("<metadata>\n")
	for _, key := range orderedKeys(metadata, settings.MetadataOrder) {
		b.WriteString("<" + key + ">" + encoding.EscapeXMLText(metadata[key]) + "</" + key + ">\n")
	}
	b.WriteString("</metadata>\n")
}

func writeCharacterisation(b *strings.Builder, typeLabel string, features map[string]string, settings OutputSettings) {
	b.WriteString("<characterisation>\n")
	b.WriteString("<type>" + encoding.EscapeXMLText(typeLabel) + "</type>\n")
	if len(features) == 0 {
		b.WriteString("<featureSet/>\n")
	} else {
		b.WriteString("<featureSet>\n")
		for _, name := range orderedKeys(features, settings.FeatureOrder) {
			b.WriteString(`<feature name="` + encoding.EscapeXMLAttr(name) + `">` +
				encoding.EscapeXMLText(features[name]) + "</feature>\n")
		}
		b.WriteString("</featureSet>\n")
	}
	b.WriteString("</characterisation>\n")
}

// orderedKeys returns the map's keys with the preferred names first,
// in preference order, and everything else alphabetically after.
func orderedKeys(m map[string]string, preferred []string) []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]struct{}, len(m))
	for _, k := range preferred {
		if _, ok := m[k]; ok {
			out = append(out, k)
			seen[k] = struct{}{}
		}
	}
	var rest []string
	for k := range m {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

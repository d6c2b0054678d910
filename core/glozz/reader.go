package glozz

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/weftkit/weft/core/errors"
	"github.com/weftkit/weft/core/standoff"
)

// Precompiled selectors for the three annotation elements under the
// <annotations> root.
var (
	unitSelector     = xpath.MustCompile("/annotations/unit")
	relationSelector = xpath.MustCompile("/annotations/relation")
	schemaSelector   = xpath.MustCompile("/annotations/schema")
)

// ReadAnnotations parses glozz annotation XML into unconnected
// annotation objects, in file order. Identifier resolution is not done
// here; hand the three slices to standoff.NewDocument (or use
// ReadDocument, which does both). path is used for error context only.
func ReadAnnotations(data []byte, path string) ([]*standoff.Unit, []*standoff.Relation, []*standoff.Schema, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, nil, &errors.ParseError{
			Format:  "glozz XML",
			Path:    path,
			Message: "malformed document",
			Err:     err,
		}
	}

	var units []*standoff.Unit
	for _, n := range xmlquery.QuerySelectorAll(root, unitSelector) {
		u, err := parseUnit(n, path)
		if err != nil {
			return nil, nil, nil, err
		}
		units = append(units, u)
	}

	var relations []*standoff.Relation
	for _, n := range xmlquery.QuerySelectorAll(root, relationSelector) {
		r, err := parseRelation(n, path)
		if err != nil {
			return nil, nil, nil, err
		}
		relations = append(relations, r)
	}

	var schemas []*standoff.Schema
	for _, n := range xmlquery.QuerySelectorAll(root, schemaSelector) {
		s, err := parseSchema(n, path)
		if err != nil {
			return nil, nil, nil, err
		}
		schemas = append(schemas, s)
	}

	return units, relations, schemas, nil
}

func parseUnit(n *xmlquery.Node, path string) (*standoff.Unit, error) {
	id, typeLabel, features, metadata, err := parseCommon(n, path)
	if err != nil {
		return nil, err
	}
	start, err := parsePoint(n, "start", id, path)
	if err != nil {
		return nil, err
	}
	end, err := parsePoint(n, "end", id, path)
	if err != nil {
		return nil, err
	}
	// Span validity is the document's business; a unit with inverted
	// bounds should fail resolution, not parsing.
	sp := standoff.Span{CharStart: start, CharEnd: end}
	return standoff.NewUnit(id, sp, typeLabel, features, metadata), nil
}

func parseRelation(n *xmlquery.Node, path string) (*standoff.Relation, error) {
	id, typeLabel, features, metadata, err := parseCommon(n, path)
	if err != nil {
		return nil, err
	}
	terms := xmlquery.Find(n, "positioning/term")
	if len(terms) != 2 {
		return nil, parseErr(path, "relation "+id+" has "+strconv.Itoa(len(terms))+" terms, want 2")
	}
	ids := standoff.RelSpan{
		Source: terms[0].SelectAttr("id"),
		Target: terms[1].SelectAttr("id"),
	}
	if ids.Source == "" || ids.Target == "" {
		return nil, parseErr(path, "relation "+id+" has a term without an id")
	}
	return standoff.NewRelation(id, ids, typeLabel, features, metadata), nil
}

func parseSchema(n *xmlquery.Node, path string) (*standoff.Schema, error) {
	id, typeLabel, features, metadata, err := parseCommon(n, path)
	if err != nil {
		return nil, err
	}
	unitIDs, err := embeddedIDs(n, "embedded-unit", id, path)
	if err != nil {
		return nil, err
	}
	relationIDs, err := embeddedIDs(n, "embedded-relation", id, path)
	if err != nil {
		return nil, err
	}
	schemaIDs, err := embeddedIDs(n, "embedded-schema", id, path)
	if err != nil {
		return nil, err
	}
	return standoff.NewSchema(id, unitIDs, relationIDs, schemaIDs, typeLabel, features, metadata), nil
}

// parseCommon pulls out the parts shared by all three annotation
// elements: the id attribute, the characterisation type, the feature
// set, and the metadata block.
func parseCommon(n *xmlquery.Node, path string) (id, typeLabel string, features, metadata map[string]string, err error) {
	id = n.SelectAttr("id")
	if id == "" {
		return "", "", nil, nil, parseErr(path, n.Data+" element without id attribute")
	}

	typeNode := xmlquery.FindOne(n, "characterisation/type")
	if typeNode == nil {
		return "", "", nil, nil, parseErr(path, "annotation "+id+" has no characterisation type")
	}
	typeLabel = strings.TrimSpace(typeNode.InnerText())

	features = make(map[string]string)
	for _, f := range xmlquery.Find(n, "characterisation/featureSet/feature") {
		name := f.SelectAttr("name")
		if name == "" {
			return "", "", nil, nil, parseErr(path, "annotation "+id+" has a feature without a name")
		}
		features[name] = f.InnerText()
	}

	if md := xmlquery.FindOne(n, "metadata"); md != nil {
		metadata = make(map[string]string)
		for child := md.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != xmlquery.ElementNode {
				continue
			}
			metadata[child.Data] = child.InnerText()
		}
	}

	return id, typeLabel, features, metadata, nil
}

// parsePoint reads one endpoint of a unit's positioning block.
func parsePoint(n *xmlquery.Node, side, id, path string) (int, error) {
	pos := xmlquery.FindOne(n, "positioning/"+side+"/singlePosition")
	if pos == nil {
		return 0, parseErr(path, "unit "+id+" has no "+side+" position")
	}
	index := pos.SelectAttr("index")
	v, err := strconv.Atoi(index)
	if err != nil {
		return 0, &errors.ParseError{
			Format:  "glozz XML",
			Path:    path,
			Message: "unit " + id + " has non-numeric " + side + " index " + strconv.Quote(index),
			Err:     err,
		}
	}
	return v, nil
}

func embeddedIDs(n *xmlquery.Node, element, id, path string) ([]string, error) {
	var ids []string
	for _, e := range xmlquery.Find(n, "positioning/"+element) {
		v := e.SelectAttr("id")
		if v == "" {
			return nil, parseErr(path, "schema "+id+" has an "+element+" without an id")
		}
		ids = append(ids, v)
	}
	return ids, nil
}

func parseErr(path, message string) error {
	return &errors.ParseError{Format: "glozz XML", Path: path, Message: message}
}

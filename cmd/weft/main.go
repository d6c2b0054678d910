// Command weft is the CLI for standoff annotation corpora.
// It scans and loads corpus trees, answers annotation queries through
// a SQLite index, and packs corpora into verifiable snapshots.
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/weftkit/weft/core/corpus"
	"github.com/weftkit/weft/core/standoff"
	"github.com/weftkit/weft/internal/config"
	"github.com/weftkit/weft/internal/index"
	"github.com/weftkit/weft/internal/logging"
	"github.com/weftkit/weft/internal/snapshot"
)

const version = "0.1.0"

// CLI defines the command-line interface for weft.
var CLI struct {
	// Global flags
	Config    string `help:"Config file path" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn or error"`
	LogFormat string `name:"log-format" help:"Log format: text or json"`

	// Command groups (noun-first organization)
	Corpus   CorpusGroup   `cmd:"" help:"Corpus tree operations (ls, check)"`
	Doc      DocGroup      `cmd:"" help:"Single-document operations (text, annotations, terminals)"`
	Index    IndexGroup    `cmd:"" help:"Annotation index operations"`
	Snapshot SnapshotGroup `cmd:"" help:"Corpus snapshot operations"`
	Version  VersionCmd    `cmd:"" help:"Print version information"`
}

// cfg is the effective configuration, assembled in main before any
// command runs.
var cfg *config.Config

// effectiveConfig returns the assembled configuration, or the defaults
// when a command runs without main having built one.
func effectiveConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

// CorpusGroup contains corpus tree operations.
type CorpusGroup struct {
	Ls    CorpusLsCmd    `cmd:"" help:"List corpus entries"`
	Check CorpusCheckCmd `cmd:"" help:"Load every entry and report problems"`
}

// DocGroup contains single-document operations.
type DocGroup struct {
	Text        DocTextCmd        `cmd:"" help:"Print a document's text or a span of it"`
	Annotations DocAnnotationsCmd `cmd:"" help:"List a document's annotations"`
	Terminals   DocTerminalsCmd   `cmd:"" help:"Flatten an annotation to its terminal units"`
}

// IndexGroup contains annotation index operations.
type IndexGroup struct {
	Build  IndexBuildCmd  `cmd:"" help:"Index a corpus into a SQLite database"`
	Lookup IndexLookupCmd `cmd:"" help:"Find annotations by global id or unit position"`
	Stats  IndexStatsCmd  `cmd:"" help:"Show index counts"`
}

// SnapshotGroup contains snapshot operations.
type SnapshotGroup struct {
	Create CreateSnapshotCmd `cmd:"" help:"Pack a corpus tree into a snapshot archive"`
	Verify VerifySnapshotCmd `cmd:"" help:"Check a snapshot against its manifest"`
	Unpack UnpackSnapshotCmd `cmd:"" help:"Restore a snapshot's corpus tree"`
}

// CorpusSelection is the flag set shared by commands that walk a
// corpus tree.
type CorpusSelection struct {
	Root      string   `help:"Corpus root directory (defaults to config)" type:"path"`
	Doc       []string `help:"Document name globs"`
	Subdoc    []string `help:"Subdocument globs"`
	Stage     []string `help:"Stage globs"`
	Annotator []string `help:"Annotator globs"`
}

func (s CorpusSelection) root(c *config.Config) string {
	if s.Root != "" {
		return s.Root
	}
	return c.Corpus.Root
}

func (s CorpusSelection) filter(c *config.Config) corpus.Filter {
	f := corpus.Filter{
		Docs:       s.Doc,
		Subdocs:    s.Subdoc,
		Stages:     s.Stage,
		Annotators: s.Annotator,
	}
	if len(f.Stages) == 0 {
		f.Stages = c.Corpus.Stages
	}
	if len(f.Annotators) == 0 {
		f.Annotators = c.Corpus.Annotators
	}
	return f
}

// scan lists the corpus entries the selection and the configured
// include/exclude globs leave in.
func (s CorpusSelection) scan(c *config.Config) ([]corpus.Entry, error) {
	root := s.root(c)
	entries, err := corpus.Scan(root)
	if err != nil {
		return nil, err
	}
	entries = s.filter(c).Apply(entries)
	if len(c.Corpus.Include) == 0 && len(c.Corpus.Exclude) == 0 {
		return entries, nil
	}
	var kept []corpus.Entry
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.AAPath)
		if err != nil {
			rel = e.AAPath
		}
		if c.Corpus.Selects(filepath.ToSlash(rel)) {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

// CorpusLsCmd lists the corpus entries a selection leaves in.
type CorpusLsCmd struct {
	CorpusSelection `embed:""`
	Paths           bool `help:"Print file paths instead of corpus keys"`
}

func (c *CorpusLsCmd) Run() error {
	entries, err := c.scan(effectiveConfig())
	if err != nil {
		return err
	}
	for _, e := range entries {
		if c.Paths {
			fmt.Println(e.AAPath)
		} else {
			fmt.Println(e.ID)
		}
	}
	fmt.Printf("%d entries\n", len(entries))
	return nil
}

// CorpusCheckCmd loads every selected entry and reports files that do
// not resolve, plus subdocuments whose stages disagree on the text.
type CorpusCheckCmd struct {
	CorpusSelection `embed:""`
}

func (c *CorpusCheckCmd) Run() error {
	entries, err := c.scan(effectiveConfig())
	if err != nil {
		return err
	}

	failures := 0
	units, relations, schemas := 0, 0, 0
	checksums := make(map[string]map[string]bool)
	for _, e := range entries {
		doc, err := corpus.LoadEntry(e)
		if err != nil {
			fmt.Printf("  [FAIL] %s: %v\n", e.ID, err)
			failures++
			continue
		}
		units += len(doc.Units())
		relations += len(doc.Relations())
		schemas += len(doc.Schemas())
		if doc.TextChecksum != "" {
			key := e.ID.Doc + " [" + e.ID.Subdoc + "]"
			if checksums[key] == nil {
				checksums[key] = make(map[string]bool)
			}
			checksums[key][doc.TextChecksum] = true
		}
	}
	for key, sums := range checksums {
		if len(sums) > 1 {
			fmt.Printf("  [FAIL] %s: stages disagree on the text\n", key)
			failures++
		}
	}

	fmt.Printf("Checked %d entries: %d units, %d relations, %d schemas\n",
		len(entries), units, relations, schemas)
	if failures > 0 {
		return fmt.Errorf("%d problems found", failures)
	}
	fmt.Println("OK")
	return nil
}

// DocSelection names one annotation file.
type DocSelection struct {
	Root      string `help:"Corpus root directory (defaults to config)" type:"path"`
	Doc       string `arg:"" help:"Document name"`
	Subdoc    string `arg:"" help:"Subdocument number"`
	Stage     string `help:"Annotation stage" default:"units"`
	Annotator string `help:"Annotator (defaults to the configured preference order)"`
}

// resolve finds the corpus entry the selection names. When no
// annotator is given, the configured preference order picks among the
// annotators that have the file.
func (s DocSelection) resolve(c *config.Config) (corpus.Entry, error) {
	root := s.Root
	if root == "" {
		root = c.Corpus.Root
	}
	entries, err := corpus.Scan(root)
	if err != nil {
		return corpus.Entry{}, err
	}

	var candidates []corpus.Entry
	for _, e := range entries {
		if e.ID.Doc != s.Doc || e.ID.Subdoc != s.Subdoc || string(e.ID.Stage) != s.Stage {
			continue
		}
		if s.Annotator != "" && e.ID.Annotator != s.Annotator {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		id := corpus.FileID{
			Doc:       s.Doc,
			Subdoc:    s.Subdoc,
			Stage:     corpus.Stage(s.Stage),
			Annotator: s.Annotator,
		}
		return corpus.Entry{}, fmt.Errorf("no corpus entry %s under %s", id, root)
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	annotators := make([]string, 0, len(candidates))
	for _, e := range candidates {
		annotators = append(annotators, e.ID.Annotator)
	}
	pick := c.Corpus.PreferAnnotator(annotators)
	for _, e := range candidates {
		if e.ID.Annotator == pick {
			return e, nil
		}
	}
	return candidates[0], nil
}

// DocTextCmd prints a document's text, or the slice one span covers.
type DocTextCmd struct {
	DocSelection `embed:""`
	Span         string `help:"Print only this span, as start:end"`
}

func (c *DocTextCmd) Run() error {
	entry, err := c.resolve(effectiveConfig())
	if err != nil {
		return err
	}
	if entry.ACPath == "" {
		return fmt.Errorf("%s has no text file", entry.ID)
	}
	doc, err := corpus.LoadEntry(entry)
	if err != nil {
		return err
	}

	if c.Span == "" {
		text, _ := doc.Text()
		fmt.Println(text)
		return nil
	}
	pos, err := corpus.ParsePosition(c.Span)
	if err != nil {
		return err
	}
	slice, _ := doc.SpanText(pos.Span)
	fmt.Println(slice)
	return nil
}

// DocAnnotationsCmd lists the annotations in one file.
type DocAnnotationsCmd struct {
	DocSelection `embed:""`
	Kind         string `help:"Keep one kind: unit, relation or schema"`
	Type         string `help:"Keep types matching this glob"`
}

func (c *DocAnnotationsCmd) Run() error {
	entry, err := c.resolve(effectiveConfig())
	if err != nil {
		return err
	}
	doc, err := corpus.LoadEntry(entry)
	if err != nil {
		return err
	}

	shown := 0
	for _, a := range doc.Annotations() {
		kind := standoff.KindOf(a)
		if c.Kind != "" && string(kind) != c.Kind {
			continue
		}
		if c.Type != "" {
			if ok, err := doublestar.Match(c.Type, a.Type()); err != nil || !ok {
				continue
			}
		}
		fmt.Printf("%-9s %s\n", kind, a)
		shown++
	}
	fmt.Printf("%d annotations\n", shown)
	return nil
}

// DocTerminalsCmd expands one annotation into its terminal units.
type DocTerminalsCmd struct {
	DocSelection `embed:""`
	ID           string `arg:"" help:"Local id of the annotation to flatten"`
}

func (c *DocTerminalsCmd) Run() error {
	entry, err := c.resolve(effectiveConfig())
	if err != nil {
		return err
	}
	doc, err := corpus.LoadEntry(entry)
	if err != nil {
		return err
	}
	anno, ok := doc.Lookup(c.ID)
	if !ok {
		return fmt.Errorf("no annotation %s in %s", c.ID, entry.ID)
	}

	terminals := anno.Terminals()
	for _, t := range terminals {
		unit, ok := t.(*standoff.Unit)
		if !ok {
			continue
		}
		line := unit.String()
		if text, ok := doc.SpanText(unit.Span()); ok {
			line += "\t" + strconv.Quote(text)
		}
		fmt.Println(line)
	}
	if sp, ok := anno.TextSpan(); ok {
		fmt.Printf("%d terminals covering %s\n", len(terminals), sp)
	} else {
		fmt.Printf("%d terminals\n", len(terminals))
	}
	return nil
}

func dbPath(c *config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	return c.Index.Path
}

// IndexBuildCmd loads a corpus and indexes it.
type IndexBuildCmd struct {
	CorpusSelection `embed:""`
	DB              string `help:"Index database file (defaults to config)" type:"path"`
}

func (c *IndexBuildCmd) Run() error {
	conf := effectiveConfig()
	entries, err := c.scan(conf)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no corpus entries selected")
	}
	corp, err := corpus.Load(entries)
	if err != nil {
		return err
	}

	store, err := index.Open(dbPath(conf, c.DB))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Build(corp); err != nil {
		return err
	}
	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d documents: %d units, %d relations, %d schemas\n",
		stats.Documents, stats.Units, stats.Relations, stats.Schemas)
	fmt.Printf("Database: %s (%s driver)\n", store.Path(), index.DriverType())
	return nil
}

// IndexLookupCmd finds annotations by global id or by unit position.
type IndexLookupCmd struct {
	ID       string `arg:"" optional:"" help:"Global annotation id"`
	Position string `help:"Unit position, start:end or doc:subdoc:stage:start:end"`
	DB       string `help:"Index database file (defaults to config)" type:"path"`
}

func (c *IndexLookupCmd) Run() error {
	if (c.ID == "") == (c.Position == "") {
		return fmt.Errorf("give either a global id or --position")
	}

	store, err := index.Open(dbPath(effectiveConfig(), c.DB))
	if err != nil {
		return err
	}
	defer store.Close()

	var hits []index.Hit
	if c.ID != "" {
		hits, err = store.LookupGlobalID(c.ID)
	} else {
		var pos corpus.Position
		pos, err = corpus.ParsePosition(c.Position)
		if err != nil {
			return err
		}
		hits, err = store.LookupPosition(pos)
	}
	if err != nil {
		return err
	}

	for _, h := range hits {
		span := "-"
		if h.HasSpan {
			span = h.Span.String()
		}
		fmt.Printf("%-9s %-24s %-24s %-12s %s\n", h.Kind, h.LocalID, h.Type, span, h.ID)
	}
	fmt.Printf("%d hits\n", len(hits))
	return nil
}

// IndexStatsCmd prints index counts.
type IndexStatsCmd struct {
	DB string `help:"Index database file (defaults to config)" type:"path"`
}

func (c *IndexStatsCmd) Run() error {
	store, err := index.Open(dbPath(effectiveConfig(), c.DB))
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Database:  %s (%s driver)\n", store.Path(), index.DriverType())
	fmt.Printf("Documents: %d\n", stats.Documents)
	fmt.Printf("Units:     %d\n", stats.Units)
	fmt.Printf("Relations: %d\n", stats.Relations)
	fmt.Printf("Schemas:   %d\n", stats.Schemas)
	fmt.Printf("Total:     %d annotations\n", stats.Total())
	return nil
}

// CreateSnapshotCmd packs a corpus tree into a snapshot.
type CreateSnapshotCmd struct {
	Src string `arg:"" optional:"" help:"Directory to pack (defaults to the corpus root)" type:"path"`
	Out string `help:"Snapshot path (defaults to <dir>.tar.<compression>)" type:"path"`
}

func (c *CreateSnapshotCmd) Run() error {
	conf := effectiveConfig()
	src := c.Src
	if src == "" {
		src = conf.Corpus.Root
	}
	out := c.Out
	if out == "" {
		base := filepath.Base(src)
		if base == "." || base == string(filepath.Separator) {
			base = "corpus"
		}
		out = base + ".tar." + conf.Snapshot.Compression
	}

	manifest, err := snapshot.Create(src, out)
	if err != nil {
		return err
	}
	fmt.Printf("Created: %s\n", out)
	fmt.Printf("  Snapshot ID: %s\n", manifest.ID)
	fmt.Printf("  Files: %d\n", len(manifest.Files))
	return nil
}

// VerifySnapshotCmd re-hashes a snapshot against its manifest.
type VerifySnapshotCmd struct {
	Path string `arg:"" help:"Snapshot path" type:"existingfile"`
}

func (c *VerifySnapshotCmd) Run() error {
	manifest, err := snapshot.Verify(c.Path)
	if err != nil {
		return err
	}
	fmt.Printf("Snapshot: %s\n", c.Path)
	fmt.Printf("  Version: %s\n", manifest.SnapshotVersion)
	fmt.Printf("  ID: %s\n", manifest.ID)
	fmt.Printf("  Created: %s\n", manifest.CreatedAt)
	fmt.Printf("  Files: %d (all verified)\n", len(manifest.Files))
	return nil
}

// UnpackSnapshotCmd restores a snapshot's tree.
type UnpackSnapshotCmd struct {
	Path string `arg:"" help:"Snapshot path" type:"existingfile"`
	Out  string `required:"" help:"Directory to restore into" type:"path"`
}

func (c *UnpackSnapshotCmd) Run() error {
	if err := snapshot.Unpack(c.Path, c.Out); err != nil {
		return err
	}
	fmt.Printf("Unpacked: %s -> %s\n", c.Path, c.Out)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("weft version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("weft"),
		kong.Description("Weft - standoff annotation corpus tool"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	loaded, err := config.NewLoader(nil).Load(CLI.Config)
	ctx.FatalIfErrorf(err)
	if CLI.LogLevel != "" {
		loaded.Logging.Level = CLI.LogLevel
	}
	if CLI.LogFormat != "" {
		loaded.Logging.Format = CLI.LogFormat
	}
	ctx.FatalIfErrorf(loaded.Validate())
	logging.InitLogger(logging.ParseLevel(loaded.Logging.Level), logging.ParseFormat(loaded.Logging.Format))
	cfg = loaded

	runCtx := logging.WithRunID(context.Background(), uuid.New().String())
	logging.DebugContext(runCtx, "starting", "command", ctx.Command(), "version", version)

	err = ctx.Run(ctx)
	if err != nil {
		logging.ErrorContext(runCtx, "command failed", "command", ctx.Command(), "error", err.Error())
	}
	ctx.FatalIfErrorf(err)
}

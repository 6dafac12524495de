// Package document implements the document store and parser manager
// (spec §4.1): versioned document text, UTF-8-aware position mapping,
// and a CST cache kept in sync with edits through the Success/Partial/
// Failed parse-outcome triad.
package document

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/cstutil"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

var (
	// ErrAlreadyOpen is returned by Open when uri already has a document.
	ErrAlreadyOpen = errors.NewKind("document already open: %s")
	// ErrNotOpen is returned by ApplyEdits/Close when uri has no open
	// document; Snapshot reports that case with a false result instead.
	ErrNotOpen = errors.NewKind("document not open: %s")
	// ErrStaleVersion is returned by ApplyEdits when new_version does not
	// exceed the document's current version.
	ErrStaleVersion = errors.NewKind("stale version for %s: current=%d new=%d")
)

// Range is a half-open span expressed as (line, character) positions,
// per spec §4.1's edit model.
type Range struct {
	Start Position
	End   Position
}

// Edit is either a full-text replacement (Range == nil) or a
// range-anchored splice.
type Edit struct {
	Range   *Range
	NewText string
}

// Document is one versioned, parsed document.
type Document struct {
	URI     string
	Version int
	Text    string
	Dialect dialect.Dialect
	Outcome cstutil.Outcome
}

// Snapshot is an immutable view returned by Store.Snapshot; callers may
// retain it across further Store mutations without observing tearing.
type Snapshot struct {
	URI     string
	Version int
	Text    string
	Dialect dialect.Dialect
	Root    cstutil.Node
	Outcome cstutil.Outcome
}

type entry struct {
	mu  sync.RWMutex // single-writer, multi-reader per spec §5 "Shared resources"
	doc *Document
}

// Store owns every open document, keyed by URI. Each document has its
// own lock, so edits to different URIs never contend (spec §5
// "independent across URIs").
type Store struct {
	mu     sync.RWMutex // guards the docs map itself, not document contents
	docs   map[string]*entry
	logger *logrus.Logger
}

// New returns an empty Store logging through logger (the teacher's
// structured-logging dependency; see engine.go's ctx.GetLogger() usage).
func New(logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{docs: make(map[string]*entry), logger: logger}
}

// Open creates uri's document and parses it once eagerly, deriving the
// parse dialect from the LSP languageId alone. It fails if uri is
// already open.
func (s *Store) Open(uri, text string, version int, languageID string) error {
	return s.OpenWithDialect(uri, text, version, dialect.LanguageID(languageID))
}

// OpenWithDialect creates uri's document under an explicit dialect tag
// rather than one derived from an LSP languageId. Per spec §6, the
// server-level dialect setting is the full five-tag set {mysql,
// postgresql, tidb, mariadb, cockroachdb}; languageId is the narrower,
// standard LSP signal ("mysql"/"postgresql" only) a client actually
// sends. Callers that know the configured dialect should prefer this
// over Open so a TiDB/MariaDB/CockroachDB server setting is not
// silently collapsed to Unknown.
func (s *Store) OpenWithDialect(uri, text string, version int, d dialect.Dialect) error {
	s.mu.Lock()
	if _, exists := s.docs[uri]; exists {
		s.mu.Unlock()
		return ErrAlreadyOpen.New(uri)
	}
	e := &entry{}
	s.docs[uri] = e
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc = &Document{URI: uri, Version: version, Text: text, Dialect: d}
	s.reparse(e.doc)
	return nil
}

// ApplyEdits applies edits in order against uri's current text, bumps
// its version to newVersion, and reparses. newVersion must exceed the
// document's current version.
func (s *Store) ApplyEdits(uri string, newVersion int, edits []Edit) error {
	e, ok := s.entryFor(uri)
	if !ok {
		return ErrNotOpen.New(uri)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return ErrNotOpen.New(uri)
	}
	if newVersion <= e.doc.Version {
		return ErrStaleVersion.New(uri, e.doc.Version, newVersion)
	}

	text := e.doc.Text
	for _, ed := range edits {
		if ed.Range == nil {
			text = ed.NewText
			continue
		}
		start := PositionToOffset(text, ed.Range.Start)
		end := PositionToOffset(text, ed.Range.End)
		if start > end {
			start, end = end, start
		}
		text = text[:start] + ed.NewText + text[end:]
	}

	e.doc.Text = text
	e.doc.Version = newVersion
	s.reparse(e.doc)
	return nil
}

// Close drops uri's document and CST.
func (s *Store) Close(uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[uri]; !ok {
		return ErrNotOpen.New(uri)
	}
	delete(s.docs, uri)
	return nil
}

// Snapshot returns an immutable (text, version, CST, parse metadata)
// view of uri, or false if it is not open.
func (s *Store) Snapshot(uri string) (Snapshot, bool) {
	e, ok := s.entryFor(uri)
	if !ok {
		return Snapshot{}, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.doc == nil {
		return Snapshot{}, false
	}
	return Snapshot{
		URI:     e.doc.URI,
		Version: e.doc.Version,
		Text:    e.doc.Text,
		Dialect: e.doc.Dialect,
		Root:    e.doc.Outcome.Root,
		Outcome: e.doc.Outcome,
	}, true
}

func (s *Store) entryFor(uri string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[uri]
	return e, ok
}

// reparse runs the dialect's parser and logs at a level keyed to the
// resulting outcome kind, mirroring the teacher's
// ctx.GetLogger().Tracef(...) instrumentation in engine.go.
func (s *Store) reparse(doc *Document) {
	start := time.Now()
	doc.Outcome = cstutil.Parse(doc.Dialect, doc.Text)
	fields := logrus.Fields{
		"uri":      doc.URI,
		"version":  doc.Version,
		"dialect":  doc.Dialect.String(),
		"duration": time.Since(start),
	}
	switch doc.Outcome.Kind() {
	case cstutil.Success:
		s.logger.WithFields(fields).Debug("parsed document")
	case cstutil.Partial:
		s.logger.WithFields(fields).Warn("partial parse")
	case cstutil.Failed:
		s.logger.WithFields(fields).Error("parse failed")
	}
}

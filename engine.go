// Package sqlls implements the orchestrating facade for the SQL
// language server's analytical core: a single Engine wires the
// document store, context detector, scope builder, resolver,
// completion engine, hover, definition, and catalog manager together
// behind one small per-request API, mirroring the shape (if not the
// scope) of the teacher's own root-package Engine in engine.go.
package sqlls

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/catalog"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/completion"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/config"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/definition"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/detector"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/diagnostics"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/document"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/hover"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/lowering"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/profiling"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/resolver"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/scopebuild"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/symbol"
)

// Options configures ambient concerns of an Engine that spec.md treats
// as external collaborators (logging, tracing, profiling) rather than
// core semantics; none of them are required.
type Options struct {
	Logger         *logrus.Logger
	Tracer         opentracing.Tracer
	Profiler       profiling.Recorder
	MaxConnections int
}

// Engine is the single entry point a CLI or wire-transport adapter
// drives: one per running server, shared across every open document.
type Engine struct {
	cfg      config.Config
	store    *document.Store
	catalogs *catalog.Manager
	tracer   opentracing.Tracer
	profiler profiling.Recorder
	logger   *logrus.Logger
	closed   atomic.Bool
}

// New constructs an Engine from cfg, registering the MySQL- and
// PostgreSQL-family catalog adapters. Should call Engine.Close() to
// release held catalog connections, mirroring the teacher's own
// New(...)/Close() engine lifecycle.
func New(cfg config.Config, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	profiler := opts.Profiler
	if profiler == nil {
		profiler = profiling.Noop
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = opentracing.GlobalTracer()
	}

	mgr := catalog.NewManager(opts.MaxConnections)
	mgr.Register(dialect.MySQLFamily, catalog.OpenMySQL)
	mgr.Register(dialect.PostgreSQLFamily, catalog.OpenPostgres)

	return &Engine{
		cfg:      cfg,
		store:    document.New(logger),
		catalogs: mgr,
		tracer:   tracer,
		profiler: profiler,
		logger:   logger,
	}
}

// Close releases every cached catalog adapter. Idempotent.
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	return e.catalogs.Close()
}

// OpenDocument registers a newly opened document with the store. The
// server's own configured dialect (spec §6's full five-tag set) takes
// precedence over the LSP languageId, which per the external interface
// only ever distinguishes "mysql" from "postgresql"; languageID is the
// fallback for a server run without a configured dialect.
func (e *Engine) OpenDocument(uri, text string, version int, languageID string) error {
	d := e.cfg.ResolvedDialect()
	if d == dialect.Unknown {
		d = dialect.LanguageID(languageID)
	}
	return e.store.OpenWithDialect(uri, text, version, d)
}

// ApplyEdits applies edits to an open document and bumps its version.
func (e *Engine) ApplyEdits(uri string, newVersion int, edits []document.Edit) error {
	return e.store.ApplyEdits(uri, newVersion, edits)
}

// CloseDocument drops an open document.
func (e *Engine) CloseDocument(uri string) error {
	return e.store.Close(uri)
}

// requestState is everything a single completion/hover/definition
// request needs, assembled fresh per request: the document's current
// CST/text snapshot, a catalog adapter, a freshly built scope tree (the
// scope tree is query-specific, so unlike the document it is never
// cached across edits), and the detected cursor context.
type requestState struct {
	snap    document.Snapshot
	cat     catalog.Catalog
	builder *scopebuild.Builder
	scopeID symbol.ScopeID
	cc      detector.CompletionContext
}

func (e *Engine) prepare(ctx context.Context, uri string, offset int) (requestState, error) {
	snap, ok := e.store.Snapshot(uri)
	if !ok {
		return requestState{}, document.ErrNotOpen.New(uri)
	}

	cat, err := e.catalogs.Get(snap.Dialect, e.cfg.ConnectionString)
	if err != nil {
		return requestState{}, err
	}

	builder := scopebuild.New(cat)
	lowered := lowering.LowerText(snap.Dialect, snap.Text)
	scopeID := builder.Build(ctx, lowered.Query)
	if lowered.Query == nil {
		// Lowering failed outright (unsupported statement or syntax
		// error beyond vitess's recovery): fall back to an empty scope
		// so completion/hover degrade to registry-only results instead
		// of operating on symbol.NoScope.
		scopeID = builder.Manager().NewScope(symbol.QueryScope, symbol.NoScope).ID
	}

	var cc detector.CompletionContext = detector.Unknown{}
	if snap.Outcome.IsUsable() {
		cc = detector.Detect(snap.Dialect, snap.Root, snap.Text, offset)
	}

	return requestState{snap: snap, cat: cat, builder: builder, scopeID: scopeID, cc: cc}, nil
}

// Complete returns ranked completion items for uri at byte offset,
// using prefix (the partially typed identifier) to filter and rank.
func (e *Engine) Complete(ctx context.Context, uri string, offset int, prefix string) ([]completion.Item, error) {
	span := e.tracer.StartSpan("sqlls.complete")
	defer span.Finish()

	start := time.Now()
	rs, err := e.prepare(ctx, uri, offset)
	if err != nil {
		return nil, err
	}
	eng := completion.New(rs.builder.Manager(), rs.cat)
	items, err := eng.Complete(ctx, rs.snap.Dialect, rs.scopeID, rs.cc, prefix)
	e.profiler.RecordCompletion(time.Since(start))
	return items, err
}

// Hover resolves the identifier at offset and returns rendered markdown.
func (e *Engine) Hover(ctx context.Context, uri string, offset int) (hover.Result, bool, error) {
	span := e.tracer.StartSpan("sqlls.hover")
	defer span.Finish()

	rs, err := e.prepare(ctx, uri, offset)
	if err != nil {
		return hover.Result{}, false, err
	}
	qualifier, identifier := detector.IdentifierAt(rs.snap.Text, offset)
	if identifier == "" {
		return hover.Result{}, false, nil
	}
	r := resolver.New(rs.builder.Manager(), rs.cat)
	res, ok := hover.Hover(ctx, r, rs.snap.Dialect, rs.scopeID, rs.cc, qualifier, identifier)
	return res, ok, nil
}

// Definition resolves the identifier at offset to the CST range that
// introduced it, when the document has a usable CST.
func (e *Engine) Definition(ctx context.Context, uri string, offset int) (definition.Location, bool, error) {
	span := e.tracer.StartSpan("sqlls.definition")
	defer span.Finish()

	rs, err := e.prepare(ctx, uri, offset)
	if err != nil {
		return definition.Location{}, false, err
	}
	if !rs.snap.Outcome.IsUsable() {
		return definition.Location{}, false, nil
	}
	_, identifier := detector.IdentifierAt(rs.snap.Text, offset)
	if identifier == "" {
		return definition.Location{}, false, nil
	}
	loc, ok := definition.Definition(rs.snap.Root, rs.snap.Text, rs.cc, identifier)
	return loc, ok, nil
}

// Diagnostics publishes every diagnostic currently known for uri: parse
// errors (from the document store's cached outcome) plus scope-build
// findings (from a fresh scope build against the document's current
// text). Per spec §7's propagation policy, this never itself fails on
// local findings; a catalog connection/timeout failure during scope
// build does propagate as an error.
func (e *Engine) Diagnostics(ctx context.Context, uri string) ([]diagnostics.Diagnostic, error) {
	span := e.tracer.StartSpan("sqlls.diagnostics")
	defer span.Finish()

	snap, ok := e.store.Snapshot(uri)
	if !ok {
		return nil, document.ErrNotOpen.New(uri)
	}

	var out []diagnostics.Diagnostic
	out = append(out, diagnostics.FromParseOutcome(snap.Text, snap.Outcome)...)

	if !snap.Outcome.IsUsable() {
		return out, nil
	}

	cat, err := e.catalogs.Get(snap.Dialect, e.cfg.ConnectionString)
	if err != nil {
		if diagnostics.FromCatalogError(err) {
			return out, err
		}
		return out, nil
	}

	builder := scopebuild.New(cat)
	lowered := lowering.LowerText(snap.Dialect, snap.Text)
	scopeID := builder.Build(ctx, lowered.Query)
	out = append(out, diagnostics.FromScopeDiagnostics(builder.Diagnostics())...)

	if lowered.Query != nil && lowered.Query.Select != nil {
		r := resolver.New(builder.Manager(), cat)
		for _, rerr := range r.DiagnoseSelect(scopeID, lowered.Query.Select) {
			if d, ok := diagnostics.FromResolverError(rerr); ok {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

package engine

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lumen-lang/lumen/internal/analyzer"
	"github.com/lumen-lang/lumen/internal/diag"
	"github.com/lumen-lang/lumen/internal/forest"
	"github.com/lumen-lang/lumen/internal/source"
	"github.com/lumen-lang/lumen/internal/symbols"
	"github.com/lumen-lang/lumen/internal/typesystem"
)

// ErrNoModule distinguishes "nothing registered under that key" from a
// clean module with zero diagnostics.
var ErrNoModule = errors.New("no module registered under the given key")

// ErrNoDeclaration reports an InferType query for a name the module
// does not declare.
var ErrNoDeclaration = errors.New("no such declaration in the module")

// Session is the front door of the engine: it owns one forest and one
// analyzer and exposes the query surface a front end consumes.
type Session struct {
	forest   *forest.Forest
	analyzer *analyzer.Analyzer
	cache    *SnapshotCache

	mu      sync.Mutex
	sources map[string]string
}

func NewSession() *Session {
	f := forest.New()
	return &Session{
		forest:   f,
		analyzer: analyzer.New(f),
		sources:  make(map[string]string),
	}
}

// UseCache attaches an export snapshot cache. Purely a memoization
// surface; the session works identically without one.
func (s *Session) UseCache(c *SnapshotCache) {
	s.cache = c
}

// AddOrReplaceModule registers source text under a key, replacing any
// previous registration. Re-registering identical content is
// idempotent with respect to diagnostics.
func (s *Session) AddOrReplaceModule(uri, src string) {
	s.mu.Lock()
	s.sources[uri] = src
	s.mu.Unlock()
	s.forest.AddOrReplace(uri, src)
}

func (s *Session) module(uri string) (*forest.Module, error) {
	m, ok := s.forest.Get(uri)
	if !ok {
		return nil, ErrNoModule
	}
	return m, nil
}

// SyntacticDiagnostics returns the parse-time findings for one module.
func (s *Session) SyntacticDiagnostics(uri string) ([]diag.Diagnostic, error) {
	m, err := s.module(uri)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Syntactic(m), nil
}

// SemanticDiagnostics runs resolution and inference for one module.
func (s *Session) SemanticDiagnostics(uri string) ([]diag.Diagnostic, error) {
	m, err := s.module(uri)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Semantic(m), nil
}

// SuggestionDiagnostics returns the advisory findings for one module.
func (s *Session) SuggestionDiagnostics(uri string) ([]diag.Diagnostic, error) {
	m, err := s.module(uri)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Suggestion(m), nil
}

// ResolveReferenceAt resolves the reference under an arbitrary
// (module, line, column) triple to its symbol.
func (s *Session) ResolveReferenceAt(uri string, pos source.Pos) (symbols.Symbol, bool, error) {
	m, err := s.module(uri)
	if err != nil {
		return symbols.Symbol{}, false, err
	}
	sym, ok := s.analyzer.ResolveAt(m, pos)
	return sym, ok, nil
}

// InferType returns the inferred (or declared) type of a top-level
// value declaration.
func (s *Session) InferType(uri, declName string) (typesystem.Type, error) {
	m, err := s.module(uri)
	if err != nil {
		return nil, err
	}
	t, ok := s.analyzer.InferType(m, declName)
	if !ok {
		return nil, ErrNoDeclaration
	}
	return t, nil
}

// ModuleResult is one module's combined diagnostics from a whole-forest
// run.
type ModuleResult struct {
	URI         string
	Diagnostics []diag.Diagnostic
}

// DiagnoseAll fans one worker out per module and gathers every pass's
// diagnostics. Results are published only for modules whose generation
// is unchanged when the worker finishes; a concurrent replacement wins
// and simply drops the stale result.
func (s *Session) DiagnoseAll(ctx context.Context) ([]ModuleResult, error) {
	uris := s.forest.URIs()
	sort.Strings(uris)

	results := make([]*ModuleResult, len(uris))
	g, ctx := errgroup.WithContext(ctx)

	for i, uri := range uris {
		i, uri := i, uri
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, ok := s.forest.Get(uri)
			if !ok {
				return nil
			}
			gen := m.Gen

			bag := diag.NewBag(0)
			bag.AddAll(s.analyzer.Syntactic(m))
			bag.AddAll(s.analyzer.Semantic(m))
			bag.AddAll(s.analyzer.Suggestion(m))

			if cur, ok := s.forest.Get(uri); !ok || cur.Gen != gen {
				return nil
			}
			results[i] = &ModuleResult{URI: uri, Diagnostics: bag.Items()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]ModuleResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

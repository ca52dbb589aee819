package engine

import (
	"github.com/lumen-lang/lumen/internal/forest"
)

// ExportInterface returns the module's exported interface as a
// snapshot. With a cache attached, an unchanged source digest answers
// from disk without re-analysis; otherwise the module is analyzed and
// the result stored.
func (s *Session) ExportInterface(uri string) (*ExportSnapshot, error) {
	m, err := s.module(uri)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	src := s.sources[uri]
	s.mu.Unlock()
	key := Key(src)

	if s.cache != nil {
		if snap, ok := s.cache.Get(key); ok {
			return snap, nil
		}
	}

	s.analyzer.Semantic(m)
	snap := buildSnapshot(m)
	if s.cache != nil {
		// Best effort; a failed write only loses the memoization.
		_ = s.cache.Put(key, snap)
	}
	return snap, nil
}

func buildSnapshot(m *forest.Module) *ExportSnapshot {
	snap := &ExportSnapshot{
		ModuleName: m.Name,
		Values:     make(map[string]string),
	}
	if m.Table == nil {
		return snap
	}
	for _, name := range m.Table.ValueNames() {
		if !m.ExposesValue(name) {
			continue
		}
		if sym, ok := m.Table.Value(name); ok && sym.Scheme.T != nil {
			snap.Values[name] = sym.Scheme.T.String()
		}
	}
	for _, name := range m.Table.TypeNames() {
		if m.ExposesType(name) {
			snap.Types = append(snap.Types, name)
		}
	}
	return snap
}

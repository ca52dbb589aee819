package diag

import (
	"sort"
	"strings"

	"github.com/lumen-lang/lumen/internal/source"
)

// Bag accumulates diagnostics for one pass. It deduplicates by identity
// key and yields a deterministic, source-ordered sequence.
type Bag struct {
	items []Diagnostic
	seen  map[string]bool
	max   int
}

// NewBag creates a bag. max <= 0 means unlimited.
func NewBag(max int) *Bag {
	return &Bag{seen: make(map[string]bool), max: max}
}

// Add records a diagnostic unless it is a duplicate or the limit is
// reached. Returns whether the diagnostic was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	key := d.Key()
	if b.seen[key] {
		return false
	}
	b.seen[key] = true
	b.items = append(b.items, d)
	return true
}

func (b *Bag) AddAll(ds []Diagnostic) {
	for _, d := range ds {
		b.Add(d)
	}
}

func (b *Bag) Len() int {
	return len(b.items)
}

func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Merge folds another bag's diagnostics in, keeping deduplication.
func (b *Bag) Merge(other *Bag) {
	for _, d := range other.items {
		b.Add(d)
	}
}

// Items returns the diagnostics sorted by span, then kind, then args.
func (b *Bag) Items() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool {
		if c := source.Compare(out[i].Span, out[j].Span); c != 0 {
			return c < 0
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return strings.Join(out[i].Args, "\x1f") < strings.Join(out[j].Args, "\x1f")
	})
	return out
}

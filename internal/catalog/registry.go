package catalog

import (
	"fmt"

	"github.com/bft-labs/vtcheck/internal/domain"
)

// Control ids shown alongside the vectors.
const (
	RunAllID = "a"
	QuitID   = "q"
)

// Kind distinguishes test vectors from menu control entries.
type Kind int

const (
	KindVector Kind = iota
	KindRunAll
	KindQuit
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindVector:
		return "vector"
	case KindRunAll:
		return "run-all"
	case KindQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Procedure emits one test vector on b.
type Procedure func(b *Bench) error

// TestCase is one registry entry. Control entries have no Procedure.
type TestCase struct {
	ID          string
	Label       string
	Description string
	Kind        Kind
	Run         Procedure
}

// IsControl reports whether tc is a menu control entry.
func (tc TestCase) IsControl() bool {
	return tc.Kind != KindVector
}

// Registry is an immutable, ordered set of test cases followed by the
// run-all and quit control entries.
type Registry struct {
	entries []TestCase
	index   map[string]int
}

// NewRegistry builds a registry from vectors in declaration order.
// Ids must be unique, non-empty and distinct from the control ids.
func NewRegistry(cases ...TestCase) (*Registry, error) {
	r := &Registry{
		entries: make([]TestCase, 0, len(cases)+2),
		index:   make(map[string]int, len(cases)+2),
	}
	for _, tc := range cases {
		switch {
		case tc.ID == "":
			return nil, fmt.Errorf("%w: empty id for %q", domain.ErrInvalidCase, tc.Label)
		case tc.Run == nil:
			return nil, fmt.Errorf("%w: %s has no procedure", domain.ErrInvalidCase, tc.ID)
		case tc.ID == RunAllID || tc.ID == QuitID:
			return nil, fmt.Errorf("%w: %s", domain.ErrReservedID, tc.ID)
		}
		if _, dup := r.index[tc.ID]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateCase, tc.ID)
		}
		tc.Kind = KindVector
		r.add(tc)
	}
	r.add(TestCase{ID: RunAllID, Label: "Run ALL tests", Kind: KindRunAll})
	r.add(TestCase{ID: QuitID, Label: "Quit", Kind: KindQuit})
	return r, nil
}

func (r *Registry) add(tc TestCase) {
	r.index[tc.ID] = len(r.entries)
	r.entries = append(r.entries, tc)
}

// Entries returns every entry, control entries included, in display order.
func (r *Registry) Entries() []TestCase {
	return append([]TestCase(nil), r.entries...)
}

// Cases returns the test vectors in execution order.
func (r *Registry) Cases() []TestCase {
	out := make([]TestCase, 0, len(r.entries))
	for _, tc := range r.entries {
		if !tc.IsControl() {
			out = append(out, tc)
		}
	}
	return out
}

// Lookup returns the entry for id.
func (r *Registry) Lookup(id string) (TestCase, bool) {
	i, ok := r.index[id]
	if !ok {
		return TestCase{}, false
	}
	return r.entries[i], true
}

// IDs returns every id in display order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.entries))
	for i, tc := range r.entries {
		ids[i] = tc.ID
	}
	return ids
}

// Len returns the number of entries, control entries included.
func (r *Registry) Len() int {
	return len(r.entries)
}

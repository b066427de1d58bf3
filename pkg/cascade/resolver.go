// Package cascade keeps a chain of dependent dropdown lists consistent:
// country, state, district, city, SDPO, police station. Each level lazily
// loads its options from the level above's selection, and changing an
// ancestor clears everything below it so no selection ever points at a
// parent that is no longer chosen.
package cascade

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"epolice/internal/logger"
	"epolice/internal/metrics"
)

type Option struct {
	ID    string
	Label string
}

// Loader fetches the option list for one level given the selected parent id.
// The top level receives an empty parentID.
type Loader func(ctx context.Context, parentID string) ([]Option, error)

// Level declares one link of the chain. Order of declaration is parent to
// child.
type Level struct {
	Name string
	Load Loader
}

type levelState struct {
	options  []Option
	selected string
	loading  bool
	loaded   bool
	epoch    int
}

// Resolver owns the state of one cascade instance. Instances are per form:
// the add form and every open edit session hold their own, so concurrent
// sessions cannot clobber each other's selections.
type Resolver struct {
	mu     sync.Mutex
	levels []Level
	states []levelState
	l      *slog.Logger
}

func NewResolver(levels ...Level) *Resolver {
	return &Resolver{
		levels: levels,
		states: make([]levelState, len(levels)),
		l:      logger.L(),
	}
}

func (r *Resolver) index(name string) (int, error) {
	for i, lv := range r.levels {
		if lv.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown cascade level %q", name)
}

// clearFrom resets level i and every level below it. Callers hold the lock.
func (r *Resolver) clearFrom(i int) {
	for j := i; j < len(r.states); j++ {
		r.states[j].options = nil
		r.states[j].selected = ""
		r.states[j].loaded = false
		r.states[j].epoch++
	}
}

// Select records a selection at the named level and clears every descendant
// level, options included. Selecting the empty id is how a dropdown is
// explicitly cleared.
func (r *Resolver) Select(name, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, err := r.index(name)
	if err != nil {
		return err
	}
	r.states[i].selected = id
	r.clearFrom(i + 1)
	r.l.Debug("cascade_select", "level", name, "id", id)
	return nil
}

// Open is the dropdown-opened trigger: load the option list lazily, once.
// A child level whose parent has no selection never issues a request; it
// just clears itself. A load whose parent changed while in flight is
// discarded.
func (r *Resolver) Open(ctx context.Context, name string) ([]Option, error) {
	r.mu.Lock()
	i, err := r.index(name)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	st := &r.states[i]
	parentID := ""
	if i > 0 {
		parentID = r.states[i-1].selected
		if parentID == "" {
			r.clearFrom(i)
			r.mu.Unlock()
			return nil, nil
		}
	}
	if st.loading || st.loaded {
		out := append([]Option(nil), st.options...)
		r.mu.Unlock()
		return out, nil
	}
	st.loading = true
	epoch := st.epoch
	load := r.levels[i].Load
	r.mu.Unlock()

	metrics.CascadeLoadsTotal.WithLabelValues(name).Inc()
	opts, err := load(ctx, parentID)

	r.mu.Lock()
	defer r.mu.Unlock()
	st = &r.states[i]
	st.loading = false
	if st.epoch != epoch {
		// Ancestor changed while the fetch was in flight; the result no
		// longer belongs to the current parent.
		r.l.Debug("cascade_stale_load", "level", name)
		return append([]Option(nil), st.options...), nil
	}
	if err != nil {
		r.l.Debug("cascade_load_error", "level", name, "err", err)
		return nil, err
	}
	st.options = mergeSelected(opts, st.selected, st.options)
	st.loaded = true
	return append([]Option(nil), st.options...), nil
}

// mergeSelected keeps an already-selected value visible when the freshly
// fetched sibling list does not contain it (merge-or-append, never silently
// deselect). The previous options supply its label.
func mergeSelected(fresh []Option, selected string, previous []Option) []Option {
	if selected == "" {
		return fresh
	}
	for _, o := range fresh {
		if o.ID == selected {
			return fresh
		}
	}
	label := selected
	for _, o := range previous {
		if o.ID == selected {
			label = o.Label
			break
		}
	}
	return append(fresh, Option{ID: selected, Label: label})
}

// Selection is one prewarm entry: a level with its current id and display
// label as returned by the entity's detail endpoint.
type Selection struct {
	Level string
	ID    string
	Label string
}

// Prewarm seeds the resolver with an entity's ancestor chain so edit forms
// render the current values before any sibling list is fetched. Levels keep
// loaded false: the first real open still fetches the full list and merges.
func (r *Resolver) Prewarm(chain []Selection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range chain {
		i, err := r.index(s.Level)
		if err != nil {
			return err
		}
		r.states[i].options = []Option{{ID: s.ID, Label: s.Label}}
		r.states[i].selected = s.ID
		r.states[i].loaded = false
	}
	metrics.CascadePrewarmTotal.Inc()
	r.l.Debug("cascade_prewarm", "levels", len(chain))
	return nil
}

// Reset returns every level to its initial empty state; used when the add
// form is cleared after a successful create.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearFrom(0)
}

// Selected returns the current selection at a level, empty when none.
func (r *Resolver) Selected(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, err := r.index(name)
	if err != nil {
		return ""
	}
	return r.states[i].selected
}

// Options returns a copy of the current option list at a level.
func (r *Resolver) Options(name string) []Option {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, err := r.index(name)
	if err != nil {
		return nil
	}
	return append([]Option(nil), r.states[i].options...)
}

// Loaded reports whether a level holds a fully fetched sibling list, as
// opposed to prewarmed one-element state.
func (r *Resolver) Loaded(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, err := r.index(name)
	if err != nil {
		return false
	}
	return r.states[i].loaded
}

// SelectedChain walks the levels top down and returns the contiguous run of
// selections; used by mutation validation to check required ancestor ids.
func (r *Resolver) SelectedChain() []Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Selection
	for i, lv := range r.levels {
		id := r.states[i].selected
		if id == "" {
			break
		}
		label := id
		for _, o := range r.states[i].options {
			if o.ID == id {
				label = o.Label
				break
			}
		}
		out = append(out, Selection{Level: lv.Name, ID: id, Label: label})
	}
	return out
}

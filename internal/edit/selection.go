package edit

import (
	"github.com/google/uuid"

	"geoedit/internal/event"
	"geoedit/internal/layer"
)

// Selection tracks the current feature selection and its highlight,
// independent of editing mode. When suppressPicking is set (edit-features
// sessions), selected features have their allow-picking flag cleared so
// transform glyphs and handles win clicks; the pre-add value is recorded
// and restored when the feature leaves the set, including on abnormal
// teardown.
type Selection struct {
	suppressPicking bool

	items       map[uuid.UUID]*layer.Feature
	order       []uuid.UUID
	prevPicking map[uuid.UUID]bool

	Changed event.Signal[[]*layer.Feature]
}

func NewSelection(suppressPicking bool) *Selection {
	return &Selection{
		suppressPicking: suppressPicking,
		items:           map[uuid.UUID]*layer.Feature{},
		prevPicking:     map[uuid.UUID]bool{},
	}
}

func (s *Selection) Contains(id uuid.UUID) bool {
	_, ok := s.items[id]
	return ok
}

func (s *Selection) Len() int { return len(s.order) }

func (s *Selection) Features() []*layer.Feature {
	out := make([]*layer.Feature, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *Selection) Add(f *layer.Feature) {
	if f == nil || s.Contains(f.ID) {
		return
	}
	s.items[f.ID] = f
	s.order = append(s.order, f.ID)
	s.prevPicking[f.ID] = f.AllowPicking
	if s.suppressPicking {
		f.AllowPicking = false
	}
	f.Highlighted = true
	s.Changed.Emit(s.Features())
}

func (s *Selection) Remove(f *layer.Feature) {
	if f == nil || !s.Contains(f.ID) {
		return
	}
	s.restore(f)
	delete(s.items, f.ID)
	delete(s.prevPicking, f.ID)
	for i, id := range s.order {
		if id == f.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.Changed.Emit(s.Features())
}

// Toggle adds f if absent, removes it otherwise.
func (s *Selection) Toggle(f *layer.Feature) {
	if f == nil {
		return
	}
	if s.Contains(f.ID) {
		s.Remove(f)
	} else {
		s.Add(f)
	}
}

// Set replaces the selection wholesale, restoring state on everything
// that leaves it.
func (s *Selection) Set(fs []*layer.Feature) {
	keep := map[uuid.UUID]bool{}
	for _, f := range fs {
		if f != nil {
			keep[f.ID] = true
		}
	}
	for _, f := range s.Features() {
		if !keep[f.ID] {
			s.Remove(f)
		}
	}
	for _, f := range fs {
		s.Add(f)
	}
}

// Clear empties the selection; every feature gets its picking flag back.
// This is the path session teardown runs.
func (s *Selection) Clear() {
	if len(s.order) == 0 {
		return
	}
	for _, f := range s.Features() {
		s.restore(f)
	}
	s.items = map[uuid.UUID]*layer.Feature{}
	s.prevPicking = map[uuid.UUID]bool{}
	s.order = nil
	s.Changed.Emit(nil)
}

func (s *Selection) restore(f *layer.Feature) {
	// the feature may already be gone from its collection; restoring the
	// flags on the object is still safe
	if prev, ok := s.prevPicking[f.ID]; ok && s.suppressPicking {
		f.AllowPicking = prev
	}
	f.Highlighted = false
}

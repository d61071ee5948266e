package edit

import (
	"github.com/google/uuid"

	"geoedit/internal/event"
	"geoedit/internal/geom"
	"geoedit/internal/layer"
)

// HandleFlags mark per-handle behavior. Handles are exempt from the
// feature transforms applied to their geometry so a transform does not
// move a marker twice.
type HandleFlags uint8

const (
	HandleSyncExempt HandleFlags = 1 << iota
	HandleAuxiliary
)

type handleMeta struct {
	index int
	flags HandleFlags
}

// HandleMove is emitted when a handle is dragged; it is the only way
// handle positions flow back into the edited geometry.
type HandleMove struct {
	Handle *layer.Feature
	Index  int
	To     geom.Coordinate
}

// HandleSet owns the draggable vertex markers of one edit or creation
// session. Marker state (index, flags) lives in an explicit side table
// keyed by marker id, not on the marker feature itself.
type HandleSet struct {
	scratch *layer.Collection
	meta    map[uuid.UUID]handleMeta
	order   []*layer.Feature

	// Moved fires on Drag only; SetPosition is the silent
	// geometry-to-handle direction.
	Moved event.Signal[HandleMove]
}

func NewHandleSet(scratch *layer.Collection) *HandleSet {
	return &HandleSet{
		scratch: scratch,
		meta:    map[uuid.UUID]handleMeta{},
	}
}

func (h *HandleSet) Len() int { return len(h.order) }

func (h *HandleSet) At(i int) *layer.Feature {
	if i < 0 || i >= len(h.order) {
		return nil
	}
	return h.order[i]
}

// Append creates a marker at pos with the next index.
func (h *HandleSet) Append(pos geom.Coordinate) *layer.Feature {
	return h.insert(len(h.order), pos)
}

// InsertAt splices a marker in before index i, shifting later indices up.
func (h *HandleSet) InsertAt(i int, pos geom.Coordinate) *layer.Feature {
	if i < 0 {
		i = 0
	}
	if i > len(h.order) {
		i = len(h.order)
	}
	return h.insert(i, pos)
}

func (h *HandleSet) insert(i int, pos geom.Coordinate) *layer.Feature {
	m := layer.NewFeature(geom.NewPoint(pos))
	m.Name = "handle"
	m.AllowPicking = false
	h.order = append(h.order, nil)
	copy(h.order[i+1:], h.order[i:])
	h.order[i] = m
	h.meta[m.ID] = handleMeta{index: i, flags: HandleSyncExempt}
	h.reindex(i + 1)
	h.scratch.Add(m)
	return m
}

// RemoveAt splices the marker at index i out and disposes it.
func (h *HandleSet) RemoveAt(i int) {
	if i < 0 || i >= len(h.order) {
		return
	}
	m := h.order[i]
	h.order = append(h.order[:i], h.order[i+1:]...)
	delete(h.meta, m.ID)
	h.reindex(i)
	h.scratch.Remove(m.ID)
}

func (h *HandleSet) reindex(from int) {
	for i := from; i < len(h.order); i++ {
		meta := h.meta[h.order[i].ID]
		meta.index = i
		h.meta[h.order[i].ID] = meta
	}
}

// IndexOf returns the side-table index of a marker.
func (h *HandleSet) IndexOf(m *layer.Feature) (int, bool) {
	meta, ok := h.meta[m.ID]
	return meta.index, ok
}

func (h *HandleSet) Flags(m *layer.Feature) HandleFlags {
	return h.meta[m.ID].flags
}

func (h *HandleSet) SetFlags(m *layer.Feature, f HandleFlags) {
	meta, ok := h.meta[m.ID]
	if !ok {
		return
	}
	meta.flags = f
	h.meta[m.ID] = meta
}

// Positions returns marker positions in index order; this is the array
// the edited geometry is reconstructed from.
func (h *HandleSet) Positions() []geom.Coordinate {
	out := make([]geom.Coordinate, len(h.order))
	for i, m := range h.order {
		out[i] = m.Geometry.(*geom.Point).Pos
	}
	return out
}

// SetPosition moves a marker without emitting Moved; used when
// resynchronizing handles from the geometry.
func (h *HandleSet) SetPosition(i int, pos geom.Coordinate) {
	if i < 0 || i >= len(h.order) {
		return
	}
	h.order[i].Geometry.(*geom.Point).Pos = pos
}

// Drag moves a marker and emits Moved so the owning editor can push the
// new position into the geometry.
func (h *HandleSet) Drag(m *layer.Feature, pos geom.Coordinate) {
	meta, ok := h.meta[m.ID]
	if !ok {
		return
	}
	m.Geometry.(*geom.Point).Pos = pos
	h.Moved.Emit(HandleMove{Handle: m, Index: meta.index, To: pos})
}

// HitTest returns the nearest marker within tol ground units of c.
func (h *HandleSet) HitTest(c geom.Coordinate, tol float64) (*layer.Feature, bool) {
	var best *layer.Feature
	bestD := tol
	for _, m := range h.order {
		d := geom.Distance2D(c, m.Geometry.(*geom.Point).Pos)
		if d <= bestD {
			bestD = d
			best = m
		}
	}
	return best, best != nil
}

// Clear removes every marker from the scratch collection.
func (h *HandleSet) Clear() {
	for _, m := range h.order {
		h.scratch.Remove(m.ID)
	}
	h.order = nil
	h.meta = map[uuid.UUID]handleMeta{}
}

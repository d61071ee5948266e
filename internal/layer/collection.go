package layer

import (
	"github.com/google/uuid"

	"geoedit/internal/geom"
)

// Collection is an id-addressed, ordered feature store. The editor uses
// one as the working layer and short-lived ones as scratch surfaces for
// handle markers.
type Collection struct {
	Name  string
	order []uuid.UUID
	byID  map[uuid.UUID]*Feature
}

func NewCollection(name string) *Collection {
	return &Collection{Name: name, byID: map[uuid.UUID]*Feature{}}
}

func (c *Collection) Add(f *Feature) {
	if _, ok := c.byID[f.ID]; ok {
		return
	}
	c.byID[f.ID] = f
	c.order = append(c.order, f.ID)
}

// Remove deletes the feature by id. Missing ids are a no-op so teardown
// paths can call it unconditionally.
func (c *Collection) Remove(id uuid.UUID) {
	if _, ok := c.byID[id]; !ok {
		return
	}
	delete(c.byID, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Collection) Get(id uuid.UUID) (*Feature, bool) {
	f, ok := c.byID[id]
	return f, ok
}

func (c *Collection) Has(id uuid.UUID) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *Collection) Len() int { return len(c.order) }

// Features returns the features in insertion order.
func (c *Collection) Features() []*Feature {
	out := make([]*Feature, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Collection) Show(id uuid.UUID) {
	if f, ok := c.byID[id]; ok {
		f.Visible = true
	}
}

func (c *Collection) Hide(id uuid.UUID) {
	if f, ok := c.byID[id]; ok {
		f.Visible = false
	}
}

// Clear removes every feature.
func (c *Collection) Clear() {
	c.order = nil
	c.byID = map[uuid.UUID]*Feature{}
}

// Bounds is the union of all feature bounds; ok is false when empty.
func (c *Collection) Bounds() (geom.BBox, bool) {
	var b geom.BBox
	first := true
	for _, id := range c.order {
		f := c.byID[id]
		if f.Geometry == nil {
			continue
		}
		if first {
			b = f.Geometry.Bounds()
			first = false
		} else {
			b = b.Union(f.Geometry.Bounds())
		}
	}
	return b, !first
}

// Geometries returns the geometries of all features in order.
func (c *Collection) Geometries() []geom.Geometry {
	out := make([]geom.Geometry, 0, len(c.order))
	for _, id := range c.order {
		if g := c.byID[id].Geometry; g != nil {
			out = append(out, g)
		}
	}
	return out
}

// Registry is the set of collections a view renders. Sessions register
// their scratch collections here and remove them again on stop.
type Registry struct {
	collections []*Collection
}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) Add(c *Collection) {
	r.collections = append(r.collections, c)
}

// NewScratch creates, registers and returns a transient collection.
func (r *Registry) NewScratch(name string) *Collection {
	c := NewCollection(name)
	r.Add(c)
	return c
}

// Remove unregisters the collection; unknown collections are a no-op.
func (r *Registry) Remove(c *Collection) {
	for i, o := range r.collections {
		if o == c {
			r.collections = append(r.collections[:i], r.collections[i+1:]...)
			return
		}
	}
}

func (r *Registry) Collections() []*Collection {
	return r.collections
}

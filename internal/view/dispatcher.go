package view

import "geoedit/internal/event"

// ActivationMask selects which of a view's default interactions (pan,
// zoom, hover inspection) are active while no exclusive consumer holds
// the dispatcher.
type ActivationMask uint32

const (
	MaskPan ActivationMask = 1 << iota
	MaskZoom
	MaskHover

	MaskNone ActivationMask = 0
	MaskAll                 = MaskPan | MaskZoom | MaskHover
)

// Dispatcher routes pointer and keyboard events from a view to the single
// exclusive interaction chain, if one is registered. Registering a new
// exclusive consumer displaces the old one via its displacement callback;
// the displaced owner is responsible for unregistering itself (sessions
// do this through their one stop path).
type Dispatcher struct {
	defaults  ActivationMask
	exclusive Handler
	displaced func()

	// tick fires once per render pass; transformation handlers use it to
	// keep glyphs screen-constant.
	tick event.Signal[struct{}]
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{defaults: MaskAll}
}

// SetExclusive registers h as the sole event consumer, deactivates the
// default interactions down to keep, and returns the prior activation
// mask for restoration. If another exclusive consumer is registered its
// displacement callback runs first.
func (d *Dispatcher) SetExclusive(h Handler, onDisplaced func(), keep ActivationMask) ActivationMask {
	if d.exclusive != nil && d.displaced != nil {
		// leave the old consumer registered so its unregistration call
		// matches and restores the activation mask it saved
		cb := d.displaced
		d.displaced = nil
		cb()
	}
	prior := d.defaults
	d.defaults = keep
	d.exclusive = h
	d.displaced = onDisplaced
	return prior
}

// ClearExclusive removes h and restores the given activation mask. A
// stale handler (already displaced) is a no-op.
func (d *Dispatcher) ClearExclusive(h Handler, restore ActivationMask) {
	if d.exclusive != h {
		return
	}
	d.exclusive = nil
	d.displaced = nil
	d.defaults = restore
}

// Exclusive reports whether any exclusive consumer is registered.
func (d *Dispatcher) Exclusive() bool { return d.exclusive != nil }

// Defaults is the currently active default-interaction mask.
func (d *Dispatcher) Defaults() ActivationMask { return d.defaults }

// DispatchPointer forwards ev to the exclusive consumer. It reports
// whether the event was consumed; unconsumed events fall through to the
// view's default interactions.
func (d *Dispatcher) DispatchPointer(ev *PointerEvent) bool {
	if d.exclusive == nil {
		return false
	}
	d.exclusive.HandlePointer(ev)
	return ev.Consumed
}

func (d *Dispatcher) DispatchKey(ev *KeyEvent) bool {
	if d.exclusive == nil {
		return false
	}
	d.exclusive.HandleKey(ev)
	return ev.Consumed
}

// OnTick subscribes to render ticks; the returned func detaches.
func (d *Dispatcher) OnTick(fn func()) func() {
	return d.tick.Listen(func(struct{}) { fn() })
}

// Tick is called by the view once per render pass.
func (d *Dispatcher) Tick() {
	d.tick.Emit(struct{}{})
}

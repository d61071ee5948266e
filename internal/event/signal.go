// Package event provides the small signal and disposer primitives the
// editor uses to wire collaborators together. Everything here is
// single-threaded: signals are emitted and listened to from the event
// loop only, so there is no locking.
package event

// Signal is a multi-listener notification carrying a value of type T.
// The zero value is ready to use.
type Signal[T any] struct {
	nextID    int
	listeners []entry[T]
}

type entry[T any] struct {
	id int
	fn func(T)
}

// Listen registers fn and returns a detach func. Detaching twice is a
// no-op, which keeps disposer lists safe to run unconditionally.
func (s *Signal[T]) Listen(fn func(T)) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, entry[T]{id: id, fn: fn})
	return func() {
		for i, e := range s.listeners {
			if e.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every listener in registration order. Listeners registered
// during emission do not see the current value.
func (s *Signal[T]) Emit(v T) {
	snapshot := make([]entry[T], len(s.listeners))
	copy(snapshot, s.listeners)
	for _, e := range snapshot {
		e.fn(v)
	}
}

// Once is a one-shot signal: it fires at most once, and listeners added
// after firing are invoked immediately.
type Once struct {
	fired bool
	inner Signal[struct{}]
}

func (o *Once) Listen(fn func()) func() {
	if o.fired {
		fn()
		return func() {}
	}
	return o.inner.Listen(func(struct{}) { fn() })
}

func (o *Once) Fire() {
	if o.fired {
		return
	}
	o.fired = true
	o.inner.Emit(struct{}{})
	o.inner.listeners = nil
}

func (o *Once) Fired() bool { return o.fired }

// Disposers collects teardown steps during setup and runs them once in
// reverse-acquisition order.
type Disposers struct {
	fns  []func()
	done bool
}

func (d *Disposers) Add(fn func()) {
	d.fns = append(d.fns, fn)
}

// Run executes all registered disposers newest-first. Subsequent calls
// are no-ops.
func (d *Disposers) Run() {
	if d.done {
		return
	}
	d.done = true
	for i := len(d.fns) - 1; i >= 0; i-- {
		d.fns[i]()
	}
	d.fns = nil
}

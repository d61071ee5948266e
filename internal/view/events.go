package view

import "geoedit/internal/geom"

// PointerPhase classifies a pointer event within a press cycle.
type PointerPhase int

const (
	PointerMove PointerPhase = iota
	PointerDown
	PointerUp
	PointerClick
	PointerDoubleClick
)

func (p PointerPhase) String() string {
	switch p {
	case PointerMove:
		return "move"
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	case PointerClick:
		return "click"
	case PointerDoubleClick:
		return "double-click"
	}
	return "unknown"
}

// PointerEvent is a pointer interaction in both screen and ground space.
// Handlers may mutate Ground (snapping) or set Consumed to stop the event
// from reaching handlers later in the chain.
type PointerEvent struct {
	Phase    PointerPhase
	ScreenX  float64
	ScreenY  float64
	Ground   geom.Coordinate
	OnGround bool
	Shift    bool
	Ctrl     bool
	Consumed bool
}

// KeyEvent is a keyboard interaction forwarded to the active chain.
type KeyEvent struct {
	Name     string
	Consumed bool
}

// Handler consumes events from the dispatcher, usually as a link in an
// interaction chain. Destroy releases handler-owned resources; it must be
// safe to call exactly once per registration.
type Handler interface {
	HandlePointer(*PointerEvent)
	HandleKey(*KeyEvent)
	Destroy()
}

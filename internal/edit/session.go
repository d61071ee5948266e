package edit

import (
	"github.com/charmbracelet/log"

	"geoedit/internal/event"
	"geoedit/internal/layer"
	"geoedit/internal/view"
)

// SessionKind is the editing mode a session was started for.
type SessionKind int

const (
	SessionCreate SessionKind = iota
	SessionEditGeometry
	SessionEditFeatures
	SessionSelect
)

func (k SessionKind) String() string {
	switch k {
	case SessionCreate:
		return "create"
	case SessionEditGeometry:
		return "edit-geometry"
	case SessionEditFeatures:
		return "edit-features"
	case SessionSelect:
		return "select"
	}
	return "unknown"
}

// Session owns one interaction chain registered exclusively with the
// view's dispatcher, plus a scratch collection for handle markers. There
// is exactly one teardown path: Stop. Displacement by another exclusive
// consumer funnels into Stop as well, and Stop is idempotent.
type Session struct {
	kind    SessionKind
	vw      view.View
	chain   *Chain
	scratch *layer.Collection
	cfg     Config
	logger  *log.Logger

	priorMask view.ActivationMask
	disposers event.Disposers
	stopping  bool
	stopped   event.Once
}

// newSession registers the chain with the dispatcher and creates the
// scratch collection. Mode-specific machines are appended by the Start*
// factories, which also register their teardown on the disposer list.
func newSession(kind SessionKind, vw view.View, reg *layer.Registry, cfg Config, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		kind:   kind,
		vw:     vw,
		chain:  NewChain(),
		cfg:    cfg,
		logger: logger,
	}
	s.priorMask = vw.Dispatcher().SetExclusive(s.chain, s.Stop, view.MaskNone)
	s.scratch = reg.NewScratch(kind.String() + "-scratch")
	s.disposers.Add(func() { reg.Remove(s.scratch) })
	return s
}

func (s *Session) Kind() SessionKind { return s.kind }

func (s *Session) View() view.View { return s.vw }

// Scratch is the session-owned drawing surface hosting handle markers.
func (s *Session) Scratch() *layer.Collection { return s.scratch }

func (s *Session) Config() Config { return s.cfg }

// Chain exposes the interaction chain so factories and tests can append
// handlers.
func (s *Session) Chain() *Chain { return s.chain }

// OnStopped registers a one-shot stop listener; if the session is already
// stopped the listener runs immediately.
func (s *Session) OnStopped(fn func()) func() {
	return s.stopped.Listen(fn)
}

func (s *Session) IsStopped() bool { return s.stopped.Fired() }

// addDisposer appends a teardown step; steps run newest-first on Stop.
func (s *Session) addDisposer(fn func()) {
	s.disposers.Add(fn)
}

// Stop tears the session down. Listener removal happens first so a
// half-destroyed session can not react to late events; then the disposer
// list runs in reverse-acquisition order, then the chain destroys the
// handlers still registered in it. A second call is a safe no-op and the
// stopped notification fires exactly once.
func (s *Session) Stop() {
	if s.stopping {
		return
	}
	s.stopping = true
	s.vw.Dispatcher().ClearExclusive(s.chain, s.priorMask)
	s.disposers.Run()
	s.chain.Destroy()
	s.stopped.Fire()
}

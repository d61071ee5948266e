package edit

import "geoedit/internal/view"

// Chain threads events through an ordered list of handlers. A handler may
// mutate the event in place for handlers after it, or mark it consumed to
// swallow it. Handlers can be added and removed at runtime, which is how
// sessions swap geometry-specific sub-machines without re-registering
// with the dispatcher.
type Chain struct {
	handlers []view.Handler
}

func NewChain(hs ...view.Handler) *Chain {
	return &Chain{handlers: hs}
}

func (c *Chain) Append(h view.Handler) {
	c.handlers = append(c.handlers, h)
}

// Remove detaches h without destroying it; ownership returns to the
// caller.
func (c *Chain) Remove(h view.Handler) {
	for i, o := range c.handlers {
		if o == h {
			c.handlers = append(c.handlers[:i], c.handlers[i+1:]...)
			return
		}
	}
}

func (c *Chain) Len() int { return len(c.handlers) }

func (c *Chain) HandlePointer(ev *view.PointerEvent) {
	for _, h := range c.handlers {
		if ev.Consumed {
			return
		}
		h.HandlePointer(ev)
	}
}

func (c *Chain) HandleKey(ev *view.KeyEvent) {
	for _, h := range c.handlers {
		if ev.Consumed {
			return
		}
		h.HandleKey(ev)
	}
}

// Destroy destroys the handlers still registered in the chain. Handlers
// removed beforehand are not touched; destruction is recursive but local.
func (c *Chain) Destroy() {
	hs := c.handlers
	c.handlers = nil
	for _, h := range hs {
		h.Destroy()
	}
}

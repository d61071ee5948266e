package edit

// syncGuard prevents re-entrant propagation between handle-driven and
// geometry-driven updates. The flag is scoped to the callback so an early
// return or panic cannot leave it stuck on.
type syncGuard struct {
	active bool
}

// do runs fn under the guard; it reports false (and skips fn) when the
// guard is already held, which is exactly the re-entrant case.
func (g *syncGuard) do(fn func()) bool {
	if g.active {
		return false
	}
	g.active = true
	defer func() { g.active = false }()
	fn()
	return true
}

func (g *syncGuard) held() bool { return g.active }

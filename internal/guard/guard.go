// Package guard prevents overlapping refresh passes for the same page from
// interleaving their writes. A second pass requested while one is in flight is
// skipped, not queued: the in-flight pass's completion is what the user sees.
package guard

import "sync"

// Guard tracks in-flight passes per page key. Independent keys never block
// one another. The zero value is not usable; call New.
type Guard struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

func New() *Guard {
	return &Guard{inFlight: make(map[string]bool)}
}

// Do runs fn unless a pass for key is already in flight, in which case it
// reports ran=false without invoking fn. The key is released even when fn
// panics or returns an error, so a failed pass never wedges the page.
func (g *Guard) Do(key string, fn func() error) (ran bool, err error) {
	g.mu.Lock()
	if g.inFlight[key] {
		g.mu.Unlock()
		return false, nil
	}
	g.inFlight[key] = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.inFlight, key)
		g.mu.Unlock()
	}()

	return true, fn()
}

// InFlight reports whether a pass for key is currently running.
func (g *Guard) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight[key]
}

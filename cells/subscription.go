package cells

import "sync/atomic"

// Subscription ties a callback to a cell. Cancel may be called from any
// goroutine, including from inside another callback of the same update.
type Subscription struct {
	r        *Reactor
	c        *cell
	fn       func(any)
	canceled atomic.Bool
}

// Cancel is idempotent. The canceled flag is re-checked immediately before
// every invocation, so a subscription canceled after a propagation decided
// to notify it still does not fire.
func (s *Subscription) Cancel() {
	if s.canceled.Swap(true) {
		return
	}
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	for i, sink := range s.c.sinks {
		if sink == s {
			s.c.sinks = append(s.c.sinks[:i], s.c.sinks[i+1:]...)
			return
		}
	}
}

func (s *Subscription) Canceled() bool {
	return s.canceled.Load()
}

func (r *Reactor) subscribe(c *cell, fn func(any)) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub := &Subscription{r: r, c: c, fn: fn}
	c.sinks = append(c.sinks, sub)
	return sub
}

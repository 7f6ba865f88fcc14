// Package notify turns the various "bookings changed somewhere" sources
// into one coalescing refresh signal consumed by the booking store.
package notify

import "context"

// Signal is a level-triggered refresh flag. Any number of Notify calls
// between two receives collapse into one.
type Signal struct {
	ch chan struct{}
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Notify never blocks.
func (s *Signal) Notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

func (s *Signal) C() <-chan struct{} {
	return s.ch
}

// Forward relays every receive on src into s until ctx is done or src closes.
func Forward(ctx context.Context, src <-chan struct{}, s *Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-src:
			if !ok {
				return
			}
			s.Notify()
		}
	}
}

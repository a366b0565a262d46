// Package stop provides a one-shot cancellation flag shared between
// the video and the audio loops.
//
// A single goroutine owns the write side and sets the flag once.
// Any number of goroutines may poll it.
package stop

import "sync/atomic"

type Signal struct {
	v atomic.Bool
}

// Stop raises the flag. It reports whether this call was the one
// that changed it.
func (s *Signal) Stop() bool { return s.v.CompareAndSwap(false, true) }

func (s *Signal) Stopped() bool { return s.v.Load() }

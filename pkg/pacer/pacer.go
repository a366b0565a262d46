// Package pacer limits a loop to a maximum number of iterations per second
// and reports the achieved rate once a second.
package pacer

import "time"

// Clock is the time source of a Pacer.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Pacer is not safe for concurrent use.
type Pacer struct {
	clock  Clock
	period time.Duration
	report func(fps int)

	start time.Time
	last  time.Time
	count int
}

// New creates a pacer for at most maxFPS iterations per second.
// A non-positive maxFPS disables the limit.
// The report func, if set, receives the number of iterations done during
// the last second.
func New(maxFPS float64, report func(fps int)) *Pacer {
	return NewWithClock(maxFPS, realClock{}, report)
}

func NewWithClock(maxFPS float64, clock Clock, report func(fps int)) *Pacer {
	p := Pacer{clock: clock, report: report}
	if maxFPS > 0 {
		p.period = time.Duration(float64(time.Second) / maxFPS)
	}
	p.last = clock.Now()
	return &p
}

// Period returns the target duration of one iteration.
func (p *Pacer) Period() time.Duration { return p.period }

// Begin marks the start of an iteration.
func (p *Pacer) Begin() { p.start = p.clock.Now() }

// End sleeps for whatever is left of the iteration period.
// A late iteration is not made up for by shorter ones later.
func (p *Pacer) End() {
	if elapsed := p.clock.Now().Sub(p.start); elapsed < p.period {
		p.clock.Sleep(p.period - elapsed)
	}

	p.count++
	now := p.clock.Now()
	if now.Sub(p.last) >= time.Second {
		if p.report != nil {
			p.report(p.count)
		}
		p.count = 0
		p.last = now
	}
}

package pacer

import (
	"testing"
	"time"
)

type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}
func (c *fakeClock) work(d time.Duration) { c.now = c.now.Add(d) }

func TestPacerSleepsRemainder(t *testing.T) {
	c := &fakeClock{now: time.Unix(0, 0)}
	p := NewWithClock(50, c, nil)
	if p.Period() != 20*time.Millisecond {
		t.Fatalf("period %v", p.Period())
	}

	p.Begin()
	c.work(5 * time.Millisecond)
	p.End()
	if len(c.slept) != 1 || c.slept[0] != 15*time.Millisecond {
		t.Errorf("slept %v, want [15ms]", c.slept)
	}
}

func TestPacerNoCatchUp(t *testing.T) {
	c := &fakeClock{now: time.Unix(0, 0)}
	p := NewWithClock(50, c, nil)

	// a slow iteration is not followed by a shorter one
	p.Begin()
	c.work(35 * time.Millisecond)
	p.End()
	p.Begin()
	c.work(5 * time.Millisecond)
	p.End()

	if len(c.slept) != 1 || c.slept[0] != 15*time.Millisecond {
		t.Errorf("slept %v, want [15ms]", c.slept)
	}
}

func TestPacerReportsOncePerSecond(t *testing.T) {
	c := &fakeClock{now: time.Unix(0, 0)}
	var reports []int
	p := NewWithClock(25, c, func(fps int) { reports = append(reports, fps) })

	for i := 0; i < 60; i++ {
		p.Begin()
		c.work(time.Millisecond)
		p.End()
	}
	if len(reports) != 2 || reports[0] != 25 || reports[1] != 25 {
		t.Errorf("reports %v, want [25 25]", reports)
	}
}

func TestPacerUnlimited(t *testing.T) {
	c := &fakeClock{now: time.Unix(0, 0)}
	p := NewWithClock(0, c, nil)
	p.Begin()
	p.End()
	if len(c.slept) != 0 {
		t.Errorf("unlimited pacer slept %v", c.slept)
	}
}

func TestPacerRealPeriod(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	const fps = 50
	p := New(fps, nil)
	const n = 10
	start := time.Now()
	for i := 0; i < n; i++ {
		p.Begin()
		p.End()
	}
	avg := time.Since(start) / n
	want := time.Second / fps
	if avg < want || avg > want+want/2 {
		t.Errorf("average period %v, want about %v", avg, want)
	}
}

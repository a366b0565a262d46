package os

import (
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
)

func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// ExpectTermination returns a channel that fires once on SIGINT or SIGTERM.
func ExpectTermination() chan struct{} {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{}, 1)
	go func() {
		<-signals
		done <- struct{}{}
	}()
	return done
}

// Interrupt is a cancellation key for runs without a window: Ctrl+C.
type Interrupt struct {
	done chan struct{}
	hit  bool
}

func NewInterrupt() *Interrupt { return &Interrupt{done: ExpectTermination()} }

// CancelRequested reports whether a termination signal has arrived.
// It never blocks.
func (i *Interrupt) CancelRequested() bool {
	if i.hit {
		return true
	}
	select {
	case <-i.done:
		i.hit = true
	default:
	}
	return i.hit
}

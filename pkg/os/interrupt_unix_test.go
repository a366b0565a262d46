//go:build unix

package os

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestInterrupt(t *testing.T) {
	i := NewInterrupt()
	if i.CancelRequested() {
		t.Fatalf("cancelled before any signal")
	}
	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Skip(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for !i.CancelRequested() {
		if time.Now().After(deadline) {
			t.Fatalf("no cancel after SIGTERM")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !i.CancelRequested() {
		t.Errorf("cancel is not sticky")
	}
}

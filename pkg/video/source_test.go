package video

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mp4"))
	if !errors.Is(err, ErrOpen) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("unexpected error %v", err)
	}
}

package thread

import "testing"

func TestMainWrapMaybe(t *testing.T) {
	if isMacOs {
		t.Skip("needs the real main thread")
	}
	value := 0
	MainWrapMaybe(func() { MainMaybe(func() { value = 1 }) })
	if value != 1 {
		t.Errorf("wrong value %v", value)
	}
}

package wlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestSilentUntilEnabled(t *testing.T) {
	Disable()
	var buf bytes.Buffer
	Enable(&buf)
	defer Disable()

	if !Enabled() {
		t.Fatal("expected Enabled() to be true after Enable")
	}
	Debugf("hello %d", 1)
	if !strings.Contains(buf.String(), "[debug] hello 1") {
		t.Errorf("buf = %q", buf.String())
	}

	Disable()
	if Enabled() {
		t.Fatal("expected Enabled() to be false after Disable")
	}
	buf.Reset()
	Warnf("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected no output while disabled, got %q", buf.String())
	}
}

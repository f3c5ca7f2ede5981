package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewVerbose(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewVerbose(&buf, tt.verbose)
			l.Debug("debug line")
			if got := strings.Contains(buf.String(), "debug line"); got != tt.wantDebug {
				t.Errorf("debug written = %v, want %v (output %q)", got, tt.wantDebug, buf.String())
			}
		})
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l := With(New(&buf), "playlist", "abc")
	l.Info("fetched")

	out := buf.String()
	if !strings.Contains(out, "playlist=abc") {
		t.Errorf("output %q missing key-value pair", out)
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic or write anywhere.
	Discard().Error("dropped")
}

package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestLogger_Levels(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name      string
		logger    Logger
		wantInfo  bool
		wantDebug bool
	}{
		{"Quiet", Logger{}, false, false},
		{"Verbose", Logger{Verbose: true}, true, false},
		{"Debug", Logger{Debug: true}, true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			l := tc.logger
			l.Out = &out
			l.Err = &errOut

			l.Infof("loaded %d plugins", 2)
			l.Debugf("resolving %s", "notes")
			l.Warnf("skipping %s", "broken")

			if got := strings.Contains(out.String(), "[info] loaded 2 plugins"); got != tc.wantInfo {
				t.Errorf("info shown = %t, expected %t (output %q)", got, tc.wantInfo, out.String())
			}
			if got := strings.Contains(out.String(), "[debug] resolving notes"); got != tc.wantDebug {
				t.Errorf("debug shown = %t, expected %t (output %q)", got, tc.wantDebug, out.String())
			}
			if !strings.Contains(errOut.String(), "[warn] skipping broken") {
				t.Errorf("expected warning on stderr, got %q", errOut.String())
			}
		})
	}
}

func TestLogger_ErrorfAndReturn(t *testing.T) {
	var errOut bytes.Buffer
	l := Logger{Err: &errOut}

	err := l.ErrorfAndReturn("failed to open vault: %v", "boom")
	if err == nil || err.Error() != "failed to open vault: boom" {
		t.Fatalf("unexpected error: %v", err)
	}
	if errOut.Len() != 0 {
		t.Errorf("expected nothing printed outside debug mode, got %q", errOut.String())
	}
}

package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FormatFollowsEnvironment(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{name: "production logs json", environment: "production", wantJSON: true},
		{name: "development logs console", environment: "development"},
		{name: "staging logs console", environment: "staging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Writer: &buf, Environment: tt.environment, Level: slog.LevelInfo, NoColor: true})
			log.Info("novel viewed", "novel_id", 3)

			out := buf.String()
			if tt.wantJSON {
				assert.Contains(t, out, `"msg":"novel viewed"`)
				assert.Contains(t, out, `"novel_id":3`)
			} else {
				assert.Contains(t, out, "INF novel viewed novel_id=3")
			}
		})
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatConsole, Level: slog.LevelWarn, NoColor: true})

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WRN shown")
}

func TestConsoleHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatConsole, Level: slog.LevelDebug, NoColor: true})

	log.WithComponent("store").WithGroup("doc").Debug("saved", "kind", "users", "note", "two words")

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "DBG saved")
	assert.Contains(t, line, "component=store")
	assert.Contains(t, line, "doc.kind=users")
	assert.Contains(t, line, `doc.note="two words"`)
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON, Level: slog.LevelInfo})

	log.WithError(errors.New("disk full")).Error("save failed")

	assert.Contains(t, buf.String(), `"error":"disk full"`)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		require.Equal(t, want, ParseLevel(in), in)
	}
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}

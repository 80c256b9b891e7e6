package colors

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	t.Cleanup(func() {
		SetOutput(nil, nil)
		SetDebug(false)
		SetQuiet(false)
		SetLogger(nil)
		EnableStructuredLogging()
	})
	return &out, &errOut
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) record(level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, level+":"+msg)
}

func (r *recordingLogger) Debug(msg string, args ...any) { r.record("debug", msg) }
func (r *recordingLogger) Info(msg string, args ...any)  { r.record("info", msg) }
func (r *recordingLogger) Warn(msg string, args ...any)  { r.record("warn", msg) }
func (r *recordingLogger) Error(msg string, args ...any) { r.record("error", msg) }

func TestConsoleOutput(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(...string)
		toStderr bool
		prefix   string
		color    string
	}{
		{name: "error", fn: Error, toStderr: true, prefix: "Error:", color: Red},
		{name: "warning", fn: Warning, toStderr: true, prefix: "Warning:", color: Yellow},
		{name: "success", fn: Success, prefix: checkmark, color: Green},
		{name: "info", fn: Info, color: Blue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := capture(t)
			tt.fn("clients", "loaded")

			got := out.String()
			if tt.toStderr {
				got = errOut.String()
				assert.Empty(t, out.String())
			} else {
				assert.Empty(t, errOut.String())
			}
			assert.Contains(t, got, "clients loaded")
			assert.Contains(t, got, tt.prefix)
			assert.Contains(t, got, tt.color)
		})
	}
}

func TestDebugIsGated(t *testing.T) {
	_, errOut := capture(t)

	Debug("hidden")
	assert.Empty(t, errOut.String())

	SetDebug(true)
	Debug("shown")
	assert.Contains(t, errOut.String(), "Debug:")
	assert.Contains(t, errOut.String(), "shown")
}

func TestQuietSuppressesInfoOnly(t *testing.T) {
	out, errOut := capture(t)
	SetQuiet(true)

	Info("info")
	Success("done")
	Warning("careful")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "careful")
}

func TestMessagesAreMirroredToLogger(t *testing.T) {
	capture(t)
	rec := &recordingLogger{}
	SetLogger(rec)
	SetQuiet(true)

	Error("e")
	Warning("w")
	Info("i")
	Success("s")

	assert.Equal(t, []string{"error:e", "warn:w", "info:i", "info:s"}, rec.lines)
}

func TestStructuredLog(t *testing.T) {
	_, errOut := capture(t)

	StructuredInfo("gateway", "fetch", "fallback", errors.New("boom"), "req-1", map[string]interface{}{"count": 5})
	assert.Empty(t, errOut.String(), "structured logs require debug mode")

	SetDebug(true)
	StructuredInfo("gateway", "fetch", "fallback", errors.New("boom"), "req-1", map[string]interface{}{"count": 5})

	var entry StructuredLogEntry
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &entry))
	assert.Equal(t, LevelInfo, entry.Level)
	assert.Equal(t, "gateway", entry.Component)
	assert.Equal(t, "fetch", entry.Action)
	assert.Equal(t, "fallback", entry.Status)
	assert.Equal(t, "boom", entry.Error)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.EqualValues(t, 5, entry.Fields["count"])
}

func TestStructuredLogCanBeDisabled(t *testing.T) {
	_, errOut := capture(t)
	SetDebug(true)
	DisableStructuredLogging()

	StructuredWarn("tui", "render", "slow", nil, "", nil)
	assert.Empty(t, errOut.String())
}

package colors

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
)

var structuredLoggingEnabled atomic.Bool

func init() {
	structuredLoggingEnabled.Store(true)
}

// StructuredLogLevel represents log level for structured logs.
type StructuredLogLevel string

const (
	LevelDebug StructuredLogLevel = "debug"
	LevelInfo  StructuredLogLevel = "info"
	LevelWarn  StructuredLogLevel = "warn"
	LevelError StructuredLogLevel = "error"
)

// StructuredLogEntry is one JSON line written by StructuredLog.
type StructuredLogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     StructuredLogLevel     `json:"level"`
	Component string                 `json:"component"`
	Action    string                 `json:"action"`
	Status    string                 `json:"status"`
	Error     string                 `json:"error,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// DisableStructuredLogging disables structured logging output.
// The TUI calls it because JSON lines on stderr corrupt the screen.
func DisableStructuredLogging() {
	structuredLoggingEnabled.Store(false)
}

// EnableStructuredLogging enables structured logging output.
func EnableStructuredLogging() {
	structuredLoggingEnabled.Store(true)
}

// StructuredLog writes a structured log entry to stderr when debug mode is on.
// Callers must not put credentials in fields.
func StructuredLog(level StructuredLogLevel, component, action, status string, err error, requestID string, fields map[string]interface{}) {
	if !debugEnabled.Load() || !structuredLoggingEnabled.Load() {
		return
	}

	entry := StructuredLogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: component,
		Action:    action,
		Status:    status,
		RequestID: requestID,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		errorFallback(fmt.Sprintf("failed to marshal structured log: %v", marshalErr))
		return
	}
	emit(true, "structured", string(data)+"\n")
}

// StructuredDebug logs a structured debug entry.
func StructuredDebug(component, action, status string, err error, requestID string, fields map[string]interface{}) {
	StructuredLog(LevelDebug, component, action, status, err, requestID, fields)
}

// StructuredInfo logs a structured info entry.
func StructuredInfo(component, action, status string, err error, requestID string, fields map[string]interface{}) {
	StructuredLog(LevelInfo, component, action, status, err, requestID, fields)
}

// StructuredWarn logs a structured warning entry.
func StructuredWarn(component, action, status string, err error, requestID string, fields map[string]interface{}) {
	StructuredLog(LevelWarn, component, action, status, err, requestID, fields)
}

// StructuredError logs a structured error entry.
func StructuredError(component, action, status string, err error, requestID string, fields map[string]interface{}) {
	StructuredLog(LevelError, component, action, status, err, requestID, fields)
}

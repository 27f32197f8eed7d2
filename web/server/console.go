package server

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
}

// ConsoleWriter receives zerolog JSON events and forwards them to a console
// channel. Sends never block; messages are dropped when the channel is full.
type ConsoleWriter struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewConsoleWriter creates a console writer for a specific render
func NewConsoleWriter(renderID string, consoleChan chan<- ConsoleMessage) *ConsoleWriter {
	return &ConsoleWriter{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Write implements io.Writer. p holds one JSON encoded zerolog event.
func (cw *ConsoleWriter) Write(p []byte) (int, error) {
	if cw.consoleChan == nil {
		return len(p), nil
	}

	msg, err := decodeEvent(p)
	if err != nil {
		// Not JSON, pass it through as-is
		msg = ConsoleMessage{
			Message:   strings.TrimSpace(string(p)),
			Timestamp: time.Now(),
			Level:     zerolog.InfoLevel.String(),
		}
	}

	select {
	case cw.consoleChan <- msg:
	default:
		// Channel full, skip (don't block)
	}
	return len(p), nil
}

func decodeEvent(p []byte) (ConsoleMessage, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(p, &fields); err != nil {
		return ConsoleMessage{}, err
	}

	msg := ConsoleMessage{
		Timestamp: time.Now(),
		Level:     zerolog.InfoLevel.String(),
	}
	if v, ok := fields[zerolog.LevelFieldName].(string); ok {
		msg.Level = v
	}
	if v, ok := fields[zerolog.TimestampFieldName].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			msg.Timestamp = ts
		}
	}
	text, _ := fields[zerolog.MessageFieldName].(string)
	if errText, ok := fields[zerolog.ErrorFieldName].(string); ok {
		text = fmt.Sprintf("%s: %s", text, errText)
	}

	delete(fields, zerolog.LevelFieldName)
	delete(fields, zerolog.TimestampFieldName)
	delete(fields, zerolog.MessageFieldName)
	delete(fields, zerolog.ErrorFieldName)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := []string{text}
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	msg.Message = strings.Join(parts, " ")
	return msg, nil
}

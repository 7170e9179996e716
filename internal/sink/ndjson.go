// Package sink provides event sinks for the engine's hand transcript
// stream.
package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// record is one NDJSON line.
type record struct {
	TS      string         `json:"ts"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// NDJSON writes one JSON record per line and flushes after each so a
// truncated run still leaves a usable transcript prefix. Safe for
// concurrent use.
type NDJSON struct {
	mu     sync.Mutex
	w      io.WriteCloser
	logger *log.Logger
	now    func() time.Time
}

// NewNDJSON creates the parent directories and opens (truncates) the file.
func NewNDJSON(path string, logger *log.Logger) (*NDJSON, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &NDJSON{w: f, logger: logger, now: time.Now}, nil
}

// Log writes one event. Failures are reported to the diagnostic logger and
// otherwise swallowed; transcript loss must not disturb the hand.
func (s *NDJSON) Log(eventType string, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	line, err := json.Marshal(record{
		TS:      s.now().UTC().Format(time.RFC3339Nano),
		Type:    eventType,
		Payload: payload,
	})
	if err != nil {
		s.logger.Warn("drop unencodable event", "event", eventType, "err", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(append(line, '\n')); err != nil {
		s.logger.Warn("event write failed", "event", eventType, "err", err)
	}
}

func (s *NDJSON) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}

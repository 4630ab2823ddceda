package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrSinkUnavailable is returned when a sink cannot accept snapshots
var ErrSinkUnavailable = errors.New("telemetry sink unavailable")

// Sink receives published snapshots
type Sink interface {
	Write(ctx context.Context, snap Snapshot) error
	Close() error
}

// JSONLinesSink writes one JSON document per snapshot
type JSONLinesSink struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
	closed bool
}

// NewJSONLinesSink writes to w. If w is an io.Closer, Close closes it.
func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	s := &JSONLinesSink{enc: json.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// OpenSink opens a JSON-lines file sink. An empty path or "-" writes to stdout.
func OpenSink(path string) (*JSONLinesSink, error) {
	if path == "" || path == "-" {
		return &JSONLinesSink{enc: json.NewEncoder(os.Stdout)}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry file: %w", err)
	}
	return NewJSONLinesSink(file), nil
}

// Write encodes snap as a single line
func (s *JSONLinesSink) Write(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkUnavailable
	}
	if err := s.enc.Encode(snap); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	return nil
}

// Close marks the sink closed and releases the underlying writer
func (s *JSONLinesSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

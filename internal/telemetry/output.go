package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// CSVSink appends summaries to a CSV file, writing the header once.
type CSVSink struct {
	file          *os.File
	headerWritten bool
}

// NewCSVSink creates (or truncates) path. Returns nil, nil when path is
// empty so callers can pass the result straight to NewRecorder.
func NewCSVSink(path string) (*CSVSink, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &CSVSink{file: f}, nil
}

// WriteSummary appends one row. A nil sink discards it.
func (s *CSVSink) WriteSummary(sum Summary) error {
	if s == nil || s.file == nil {
		return nil
	}
	records := []Summary{sum}
	if !s.headerWritten {
		if err := gocsv.Marshal(records, s.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		s.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, s.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (s *CSVSink) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

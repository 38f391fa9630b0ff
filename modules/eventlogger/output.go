package eventlogger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogEntry represents a log entry for an event.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Type      string         `json:"type"`
	Source    string         `json:"source"`
	ID        string         `json:"id"`
	Data      any            `json:"data,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// OutputTarget defines the interface for event log output targets.
type OutputTarget interface {
	// WriteEvent writes a log entry to the output target
	WriteEvent(entry *LogEntry) error

	// Flush ensures all buffered events are written
	Flush() error

	// Close releases the target.
	Close() error
}

// NewOutputTarget creates a new output target based on configuration.
func NewOutputTarget(config OutputTargetConfig) (OutputTarget, error) {
	switch config.Type {
	case "console":
		return NewWriterTarget(config, os.Stdout), nil
	case "file":
		return NewFileTarget(config)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOutputTargetType, config.Type)
	}
}

// WriterTarget writes formatted entries to an io.Writer, such as the console.
type WriterTarget struct {
	config OutputTargetConfig
	mu     sync.Mutex
	writer io.Writer
}

// NewWriterTarget creates an output target writing to w.
func NewWriterTarget(config OutputTargetConfig, w io.Writer) *WriterTarget {
	return &WriterTarget{config: config, writer: w}
}

// WriteEvent implements OutputTarget.
func (t *WriterTarget) WriteEvent(entry *LogEntry) error {
	output, err := format(t.config, entry)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintln(t.writer, output); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// Flush implements OutputTarget.
func (t *WriterTarget) Flush() error {
	return nil
}

// Close implements OutputTarget.
func (t *WriterTarget) Close() error {
	return nil
}

// FileTarget appends entries to a file through a buffered writer.
type FileTarget struct {
	config OutputTargetConfig
	mu     sync.Mutex
	file   *os.File
	buf    *bufio.Writer
}

// NewFileTarget opens the configured file for appending, creating its
// directory when missing.
func NewFileTarget(config OutputTargetConfig) (*FileTarget, error) {
	if config.Path == "" {
		return nil, ErrMissingFilePath
	}
	if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", filepath.Dir(config.Path), err)
	}
	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", config.Path, err)
	}
	return &FileTarget{config: config, file: file, buf: bufio.NewWriter(file)}, nil
}

// WriteEvent implements OutputTarget.
func (f *FileTarget) WriteEvent(entry *LogEntry) error {
	output, err := format(f.config, entry)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return ErrFileNotOpen
	}
	if _, err := fmt.Fprintln(f.buf, output); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

// Flush implements OutputTarget.
func (f *FileTarget) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	if err := f.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush file: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (f *FileTarget) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	flushErr := f.buf.Flush()
	closeErr := f.file.Close()
	f.file = nil
	if flushErr != nil {
		return fmt.Errorf("failed to flush file: %w", flushErr)
	}
	return closeErr
}

func format(config OutputTargetConfig, entry *LogEntry) (string, error) {
	switch config.Format {
	case "json":
		data, err := json.Marshal(entry)
		if err != nil {
			return "", fmt.Errorf("failed to marshal log entry to JSON: %w", err)
		}
		return string(data), nil
	case "structured":
		return formatStructured(entry), nil
	default:
		return formatText(entry, config.Timestamps), nil
	}
}

// formatText formats a log entry as a single human-readable line.
func formatText(entry *LogEntry, timestamps bool) string {
	var b strings.Builder
	if timestamps {
		b.WriteString(entry.Timestamp.Format("2006-01-02 15:04:05 "))
	}
	fmt.Fprintf(&b, "%s [%s] %s", entry.Level, entry.Type, entry.Source)
	if entry.Data != nil {
		fmt.Fprintf(&b, " %v", entry.Data)
	}
	return b.String()
}

// formatStructured formats a log entry over several indented lines.
func formatStructured(entry *LogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s\n", entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Level, entry.Type)
	fmt.Fprintf(&b, "  Source: %s\n", entry.Source)
	if entry.Data != nil {
		fmt.Fprintf(&b, "  Data: %v\n", entry.Data)
	}
	if len(entry.Metadata) > 0 {
		keys := make([]string, 0, len(entry.Metadata))
		for k := range entry.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("  Metadata:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "    %s: %v\n", k, entry.Metadata[k])
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func shouldLogLevel(eventLevel, minLevel string) bool {
	eventLevelNum, ok1 := levelOrder[eventLevel]
	minLevelNum, ok2 := levelOrder[minLevel]
	if !ok1 || !ok2 {
		return true
	}
	return eventLevelNum >= minLevelNum
}

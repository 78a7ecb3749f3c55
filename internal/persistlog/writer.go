// Package persistlog owns the durable count log: a comma-separated text
// file with one header row and one data row per persistence interval.
package persistlog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Writer appends rows to a single log file. The header is written once
// at creation; the file handle stays open for the writer's lifetime.
type Writer struct {
	file         *os.File
	path         string
	rows         uint64
	bytesWritten uint64
}

// Create opens (truncating) the log file and writes the header row. The
// first column is "time" in camera mode and "second" otherwise, followed
// by the zone names in order.
func Create(path string, columns []string, camera bool) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	first := "second"
	if camera {
		first = "time"
	}
	header := first + "," + strings.Join(columns, ",") + "\n"
	n, err := file.WriteString(header)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	return &Writer{
		file:         file,
		path:         path,
		bytesWritten: uint64(n),
	}, nil
}

// Append writes one data row synchronously. The call either completes or
// fails; no buffering, no retry.
func (w *Writer) Append(timestamp string, values []int) error {
	parts := make([]string, 0, len(values)+1)
	parts = append(parts, timestamp)
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}

	n, err := w.file.WriteString(strings.Join(parts, ",") + "\n")
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	w.bytesWritten += uint64(n)
	w.rows++
	return nil
}

// Status returns the current log status.
func (w *Writer) Status() Status {
	return Status{
		Path:         w.path,
		Rows:         w.rows,
		BytesWritten: w.bytesWritten,
	}
}

// Close syncs and closes the log file.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		w.file = nil
		return fmt.Errorf("sync log file: %w", err)
	}
	if err := w.file.Close(); err != nil {
		w.file = nil
		return fmt.Errorf("close log file: %w", err)
	}
	w.file = nil
	return nil
}

// Status describes a log writer's progress.
type Status struct {
	Path         string `json:"path"`
	Rows         uint64 `json:"rows"`
	BytesWritten uint64 `json:"bytes_written"`
}

package labels

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"signscraper/pkg/models"
)

// header is the fixed column order of the label file.
var header = []string{"ID", "VIDEO", "LABEL"}

// Writer appends entry rows to the CSV label file in discovery order. It is
// called only from the navigation goroutine, so a single writer with no
// locking is sufficient.
type Writer struct {
	file *os.File
	csv  *csv.Writer
}

// NewWriter opens the label file for appending, creating it (and its parent
// directory) with the header row when absent or empty.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create label directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open label file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat label file: %w", err)
	}

	w := &Writer{
		file: file,
		csv:  csv.NewWriter(file),
	}

	if info.Size() == 0 {
		if err := w.csv.Write(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write label header: %w", err)
		}
		w.csv.Flush()
		if err := w.csv.Error(); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to flush label header: %w", err)
		}
	}

	return w, nil
}

// Append writes one entry row and flushes it to disk.
func (w *Writer) Append(entry models.Entry) error {
	if err := w.csv.Write([]string{entry.ID, entry.VideoURL, entry.Label}); err != nil {
		return fmt.Errorf("failed to write label row: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush label row: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Load reads the entries recorded by previous runs, in file order. A missing
// file yields an empty slice; a header-only file does too.
func Load(path string) ([]models.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open label file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(header)

	var entries []models.Entry
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read label file: %w", err)
		}
		if first {
			first = false
			if record[0] == header[0] {
				continue
			}
		}
		entries = append(entries, models.Entry{
			ID:       record[0],
			VideoURL: record[1],
			Label:    record[2],
		})
	}

	return entries, nil
}

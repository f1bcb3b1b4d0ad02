package labels

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"signscraper/pkg/models"
)

func TestWriterCreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Text", "label.csv")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read label file: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "ID,VIDEO,LABEL" {
		t.Errorf("Expected header row, got %q", got)
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.csv")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	entries := []models.Entry{
		{ID: "D0001", VideoURL: "https://example.com/videos/a.mp4", Label: "hello"},
		{ID: "D0002", VideoURL: "https://example.com/videos/b.mp4", Label: "world"},
		{ID: "D0003", VideoURL: "https://example.com/videos/c.mp4", Label: "cat"},
	}
	for _, e := range entries {
		if err := w.Append(e); err != nil {
			t.Fatalf("Failed to append %s: %v", e.ID, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load label file: %v", err)
	}
	if len(loaded) != len(entries) {
		t.Fatalf("Expected %d entries, got %d", len(entries), len(loaded))
	}
	for i, e := range entries {
		if loaded[i] != e {
			t.Errorf("Row %d: expected %+v, got %+v", i, e, loaded[i])
		}
	}
}

func TestAppendEscapesCommasAndQuotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.csv")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	entry := models.Entry{
		ID:       "D0001",
		VideoURL: "https://example.com/videos/a.mp4",
		Label:    `xin chào, "bạn"`,
	}
	if err := w.Append(entry); err != nil {
		t.Fatalf("Failed to append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load label file: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(loaded))
	}
	if loaded[0].Label != entry.Label {
		t.Errorf("Label round trip failed: expected %q, got %q", entry.Label, loaded[0].Label)
	}
}

func TestWriterAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.csv")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	if err := w.Append(models.Entry{ID: "D0001", VideoURL: "u1", Label: "one"}); err != nil {
		t.Fatalf("Failed to append: %v", err)
	}
	w.Close()

	// Reopen and append, as a second run would
	w, err = NewWriter(path)
	if err != nil {
		t.Fatalf("Failed to reopen writer: %v", err)
	}
	if err := w.Append(models.Entry{ID: "D0002", VideoURL: "u2", Label: "two"}); err != nil {
		t.Fatalf("Failed to append: %v", err)
	}
	w.Close()

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load label file: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(loaded))
	}
	if loaded[0].ID != "D0001" || loaded[1].ID != "D0002" {
		t.Errorf("Unexpected entry order: %+v", loaded)
	}

	// Header must not be duplicated
	data, _ := os.ReadFile(path)
	if strings.Count(string(data), "ID,VIDEO,LABEL") != 1 {
		t.Error("Expected exactly one header row after reopening")
	}
}

func TestLoadMissingFile(t *testing.T) {
	entries, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

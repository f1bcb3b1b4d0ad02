package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestNewManagerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Videos")

	_, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Expected video directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected a directory")
	}
}

func TestScanExistingFiles(t *testing.T) {
	dir := t.TempDir()

	// Non-empty video counts as downloaded
	if err := os.WriteFile(filepath.Join(dir, "D0001.mp4"), []byte("video data"), 0644); err != nil {
		t.Fatal(err)
	}
	// Empty file must NOT count as downloaded
	if err := os.WriteFile(filepath.Join(dir, "D0002.mp4"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	// Foreign extension is ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if !m.IsDownloaded("D0001") {
		t.Error("Expected D0001 to be detected as downloaded")
	}
	if m.IsDownloaded("D0002") {
		t.Error("Expected empty D0002 to be treated as missing")
	}
	if m.IsDownloaded("notes") {
		t.Error("Expected non-mp4 file to be ignored")
	}
}

func TestSaveVideo(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	data := "fake mp4 bytes"
	written, err := m.SaveVideo(strings.NewReader(data), "D0001")
	if err != nil {
		t.Fatalf("Failed to save video: %v", err)
	}
	if written != int64(len(data)) {
		t.Errorf("Expected %d bytes written, got %d", len(data), written)
	}

	saved, err := os.ReadFile(filepath.Join(dir, "D0001.mp4"))
	if err != nil {
		t.Fatalf("Failed to read saved video: %v", err)
	}
	if string(saved) != data {
		t.Error("Saved data does not match input")
	}

	if !m.IsDownloaded("D0001") {
		t.Error("Expected D0001 to be marked downloaded after save")
	}

	// No temp file left behind
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("Temporary file %s left behind", e.Name())
		}
	}
}

func TestSaveVideoConcurrentSameID(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Two workers can end up saving the same ID at once, e.g. a recorded
	// entry queued at startup and the same URL sighted again mid-walk.
	// The installed file must be one body in full, never an interleaving.
	payloads := []string{
		strings.Repeat("A", 64*1024),
		strings.Repeat("B", 96*1024),
	}

	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			if _, err := m.SaveVideo(strings.NewReader(p), "D0001"); err != nil {
				t.Errorf("SaveVideo failed: %v", err)
			}
		}(p)
	}
	wg.Wait()

	saved, err := os.ReadFile(filepath.Join(dir, "D0001.mp4"))
	if err != nil {
		t.Fatalf("Failed to read saved video: %v", err)
	}
	if string(saved) != payloads[0] && string(saved) != payloads[1] {
		t.Errorf("Saved file is %d bytes and matches neither payload", len(saved))
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("Temporary file %s left behind", e.Name())
		}
	}
}

func TestSaveVideoRejectsEmptyBody(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if _, err := m.SaveVideo(strings.NewReader(""), "D0001"); err == nil {
		t.Error("Expected error for empty body")
	}
	if m.IsDownloaded("D0001") {
		t.Error("Empty download must not count as complete")
	}
	if _, err := os.Stat(filepath.Join(dir, "D0001.mp4")); !os.IsNotExist(err) {
		t.Error("Expected no file for empty download")
	}
}

func TestIsDownloadedChecksDisk(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if m.IsDownloaded("D0009") {
		t.Error("Did not expect D0009 before file exists")
	}

	// File appears outside the manager
	if err := os.WriteFile(filepath.Join(dir, "D0009.mp4"), []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	if !m.IsDownloaded("D0009") {
		t.Error("Expected D0009 after file appeared on disk")
	}
}

func TestVideoPath(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	want := filepath.Join(dir, "D0042.mp4")
	if got := m.VideoPath("D0042"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

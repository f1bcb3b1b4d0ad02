package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager handles the video directory and duplicate detection. A file counts
// as downloaded only when it exists and is non-empty, so aborted transfers
// are retried on the next run.
type Manager struct {
	videoDir   string
	downloaded map[string]bool
	mu         sync.RWMutex
}

// NewManager creates a new storage manager rooted at videoDir, creating the
// directory when missing and scanning it for already-downloaded videos.
func NewManager(videoDir string) (*Manager, error) {
	if err := os.MkdirAll(videoDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create video directory: %w", err)
	}

	manager := &Manager{
		videoDir:   videoDir,
		downloaded: make(map[string]bool),
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// scanExistingFiles records the IDs of non-empty .mp4 files already on disk
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.videoDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".mp4" {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() == 0 {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".mp4")
		m.downloaded[id] = true
	}

	return nil
}

// IsDownloaded checks whether the video for the given ID is already present
// and non-empty.
func (m *Manager) IsDownloaded(id string) bool {
	m.mu.RLock()
	cached := m.downloaded[id]
	m.mu.RUnlock()
	if cached {
		return true
	}

	// Double-check disk in case the file appeared outside this process
	info, err := os.Stat(m.VideoPath(id))
	if err != nil || info.Size() == 0 {
		return false
	}

	m.mu.Lock()
	m.downloaded[id] = true
	m.mu.Unlock()
	return true
}

// SaveVideo streams the video body to <videoDir>/<id>.mp4 through a
// temporary file and an atomic rename, so a partial transfer never counts
// as complete. The temp name is unique per call: two workers saving the
// same ID at once each write their own file, and whichever rename lands
// last installs a complete body. Returns the number of bytes written.
func (m *Manager) SaveVideo(r io.Reader, id string) (int64, error) {
	filename := m.VideoPath(id)

	out, err := os.CreateTemp(m.videoDir, id+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	written, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to save video data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to close file: %w", closeErr)
	}
	if written == 0 {
		os.Remove(tempFile)
		return 0, fmt.Errorf("server returned an empty body")
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.downloaded[id] = true
	m.mu.Unlock()

	return written, nil
}

// VideoPath returns the destination path for an ID.
func (m *Manager) VideoPath(id string) string {
	return filepath.Join(m.videoDir, id+".mp4")
}

// VideoDir returns the video directory path.
func (m *Manager) VideoDir() string {
	return m.videoDir
}

// DownloadedIDs returns the IDs of all videos currently on disk.
func (m *Manager) DownloadedIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.downloaded))
	for id := range m.downloaded {
		ids = append(ids, id)
	}
	return ids
}

// DownloadedCount returns the number of videos on disk.
func (m *Manager) DownloadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.downloaded)
}

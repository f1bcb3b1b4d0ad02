package logger

import (
	"fmt"
	"testing"
)

func TestLogDownloadDistinguishesOutcomes(t *testing.T) {
	tl := NewTestLogger()
	old := globalLogger
	globalLogger = tl
	defer func() { globalLogger = old }()

	LogDownload("D0001", "https://example.com/videos/D0001.mp4", true, false, nil)
	LogDownload("D0002", "https://example.com/videos/D0002.mp4", true, true, nil)
	LogDownload("D0003", "https://example.com/videos/D0003.mp4", false, false, fmt.Errorf("connection reset"))

	if !tl.HasMessage("INFO", "Download completed") {
		t.Error("Expected a completed-download message")
	}
	if !tl.HasMessage("INFO", "Video already on disk") {
		t.Error("Expected a skipped-download message")
	}
	if !tl.HasMessage("ERROR", "Download failed") {
		t.Error("Expected a failed-download message")
	}

	// A skip must not be reported as a fresh transfer
	completed := 0
	for _, m := range tl.Messages() {
		if m.Message == "Download completed" {
			completed++
		}
	}
	if completed != 1 {
		t.Errorf("Expected exactly 1 completed-download message, got %d", completed)
	}
}

// Package storage manages the video directory for the dictionary scraper.
//
// The Manager type handles:
//   - Creating the output directory
//   - Saving videos with atomic write operations (temp file + rename)
//   - Detecting already-downloaded videos, where only a non-empty
//     <ID>.mp4 counts as complete
//   - Thread-safe duplicate checks shared between download workers
//
// Because partial transfers go through a temporary file, an interrupted run
// never leaves a half-written file that a later run would mistake for a
// finished download.
package storage

package logger

// LogDownload logs the outcome of a single video download
func LogDownload(id, url string, success, skipped bool, err error) {
	fields := map[string]interface{}{
		"id":      id,
		"url":     url,
		"success": success,
		"skipped": skipped,
	}

	logger := GetLogger().WithFields(fields)

	switch {
	case err != nil:
		logger.WithError(err).Error("Download failed")
	case skipped:
		logger.Info("Video already on disk")
	case success:
		logger.Info("Download completed")
	default:
		logger.Warn("Download skipped")
	}
}

// LogPage logs progress through the paginated listing
func LogPage(page, lastPage, cards int) {
	GetLogger().WithFields(map[string]interface{}{
		"page":      page,
		"last_page": lastPage,
		"cards":     cards,
	}).Info("Page processed")
}

// LogCardSkip logs a card that was skipped during extraction
func LogCardSkip(page, card int, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"page":   page,
		"card":   card,
		"reason": reason,
	}).Warn("Card skipped")
}

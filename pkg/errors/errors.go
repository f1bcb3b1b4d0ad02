package errors

import "fmt"

// ErrorType classifies failures by the pipeline stage that produced them
type ErrorType string

const (
	// ErrorTypeNavigation covers listing pages that fail to load or render.
	// The only type that aborts a run.
	ErrorTypeNavigation ErrorType = "navigation"

	// ErrorTypeExtraction covers cards whose modal video or label could not
	// be read. The card is skipped and the run continues.
	ErrorTypeExtraction ErrorType = "extraction"

	// ErrorTypeDownload covers transport failures while fetching a video.
	// The job fails, the file stays absent and a later run retries it.
	ErrorTypeDownload ErrorType = "download"

	// ErrorTypeDuplicate marks an entry already recorded in the label file.
	// Not an error in the run's exit-status sense.
	ErrorTypeDuplicate ErrorType = "duplicate"

	ErrorTypeUnknown ErrorType = "unknown"
)

// Extraction failure reasons
const (
	ReasonMissingVideo = "missing_video"
	ReasonMissingLabel = "missing_label"
	ReasonEmptyLabel   = "empty_label"
)

// Error represents a classified scraper error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// NewNavigation creates a fatal navigation error
func NewNavigation(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeNavigation, Message: fmt.Sprintf(format, args...)}
}

// NewExtraction creates a per-card extraction error with one of the Reason* values
func NewExtraction(reason string) *Error {
	return &Error{Type: ErrorTypeExtraction, Message: reason}
}

// NewDownload creates a download error, code carries the HTTP status when known
func NewDownload(code int, format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeDownload, Message: fmt.Sprintf(format, args...), Code: code}
}

// IsFatal reports whether an error should abort the whole run
func IsFatal(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == ErrorTypeNavigation
	}
	return false
}

// TypeOf returns the classification of err, ErrorTypeUnknown for foreign errors
func TypeOf(err error) ErrorType {
	if e, ok := err.(*Error); ok {
		return e.Type
	}
	return ErrorTypeUnknown
}

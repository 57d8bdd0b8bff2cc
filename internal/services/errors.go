package services

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions other than
	// .pdf and .docx, before any extraction is attempted.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtraction is returned when a document is unreadable or yields
	// no text. No partial result is ever stored.
	ErrExtraction = errors.New("failed to extract document text")

	// ErrMissingPrerequisite is returned when a dependent record or
	// embedding artifact does not exist. Recoverable: the caller skips
	// the dependent component.
	ErrMissingPrerequisite = errors.New("missing prerequisite data")

	// ErrModelUnavailable is returned on every embedding call after the
	// model failed to initialize. Callers skip semantic scoring.
	ErrModelUnavailable = errors.New("embedding model unavailable")
)

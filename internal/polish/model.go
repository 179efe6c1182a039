package polish

import (
	"time"

	"cv-polisher/internal/shared/util"
)

// Placeholder is rendered when a download has no polished result to show.
const Placeholder = "No CV available"

// DownloadFilename is the attachment name of every rendered PDF.
const DownloadFilename = "polished_cv.pdf"

// ResumeFields are the user-submitted inputs of a polish request.
type ResumeFields struct {
	Name       string
	Education  string
	Experience string
	Skills     string
	Email      string
}

// Sanitized returns a copy with every field normalized by util.SanitizeText.
func (f ResumeFields) Sanitized() ResumeFields {
	return ResumeFields{
		Name:       util.SanitizeText(f.Name),
		Education:  util.SanitizeText(f.Education),
		Experience: util.SanitizeText(f.Experience),
		Skills:     util.SanitizeText(f.Skills),
		Email:      util.SanitizeText(f.Email),
	}
}

// Result is the outcome of a successful polish.
type Result struct {
	PolishedText string
	SessionToken string
	ExpiresAt    time.Time
}

// Source describes where a download's text came from.
type Source string

const (
	SourceSession     Source = "session"
	SourcePlaceholder Source = "placeholder"
)

// Document is a rendered PDF ready to stream.
type Document struct {
	Filename string
	Data     []byte
	Source   Source
}

// MissingPolicy decides what Download does when no result is available.
type MissingPolicy string

const (
	MissingPlaceholder MissingPolicy = "placeholder"
	MissingError       MissingPolicy = "error"
)

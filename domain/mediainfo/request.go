package mediainfo

import (
	"fmt"
	"strings"
)

// DefaultParseSpeed is the ParseSpeed passed to MediaInfo unless overridden.
// Higher values yield more precise results on some files but parse slower.
const DefaultParseSpeed = 0.5

// Request represents a request to analyze a media file
type Request struct {
	// MediaPath is the path or URL of the media file to inspect
	MediaPath string

	// Full requests computer-readable values for sizes and durations in
	// addition to the human-readable ones (MediaInfo's --Full)
	Full bool

	// ParseSpeed is passed to MediaInfo as ParseSpeed, between 0 and 1
	ParseSpeed float64

	// CoverData requests embedded cover art as base64
	CoverData bool

	// LegacyStreamDisplay requests additional per-stream information
	LegacyStreamDisplay bool

	// Output selects a custom MediaInfo output format (for example "JSON"
	// or a %-delimited template). Only used by Inform.
	Output string

	// Options holds extra raw MediaInfo options, for example Language=raw
	Options map[string]string
}

// NewRequest creates an analysis request with validation and defaults
func NewRequest(mediaPath string) (*Request, error) {
	if strings.TrimSpace(mediaPath) == "" {
		return nil, fmt.Errorf("media path is required")
	}
	return &Request{
		MediaPath:  mediaPath,
		Full:       true,
		ParseSpeed: DefaultParseSpeed,
	}, nil
}

// Validate checks that the request is valid
func (r *Request) Validate() error {
	if strings.TrimSpace(r.MediaPath) == "" {
		return fmt.Errorf("media path is required")
	}
	if r.ParseSpeed < 0 || r.ParseSpeed > 1 {
		return fmt.Errorf("parse speed %v out of range: must be between 0 and 1", r.ParseSpeed)
	}
	return nil
}

// IsURL returns true if the media path looks like a URL rather than a
// local file. MediaInfo can open URLs directly when built with CURL support.
func (r *Request) IsURL() bool {
	return strings.Contains(r.MediaPath, "://")
}

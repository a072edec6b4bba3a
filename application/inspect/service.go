package inspect

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mediainspect/domain/mediainfo"
)

// CoverExtractor provides fallback cover art for files without an embedded
// cover image
type CoverExtractor interface {
	// ExtractFrame returns base64-encoded PNG data for the first video frame
	ExtractFrame(ctx context.Context, videoPath string) (string, error)
}

// Service orchestrates media analysis and output rendering
type Service struct {
	analyzer       mediainfo.Analyzer
	fileChecker    mediainfo.FileChecker
	coverExtractor CoverExtractor
	output         io.Writer
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithCoverExtractor enables frame-grab fallback for cover art
func WithCoverExtractor(extractor CoverExtractor) Option {
	return func(s *Service) {
		s.coverExtractor = extractor
	}
}

// NewService creates a new inspect service
func NewService(analyzer mediainfo.Analyzer, fileChecker mediainfo.FileChecker, output io.Writer, opts ...Option) *Service {
	if output == nil {
		output = io.Discard
	}
	s := &Service{
		analyzer:    analyzer,
		fileChecker: fileChecker,
		output:      output,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Input contains the input parameters for an inspection
type Input struct {
	MediaPath           string            // Path or URL of the media file
	Format              string            // "", "summary", "json", "cover", or a raw MediaInfo output format
	Full                bool              // Request computer-readable values too
	ParseSpeed          float64           // 0 means the default
	CoverData           bool              // Request embedded cover art
	LegacyStreamDisplay bool              // Request additional stream details
	Options             map[string]string // Extra raw MediaInfo options
}

// request builds the validated domain request for the input
func (s *Service) request(input Input) (*mediainfo.Request, error) {
	req, err := mediainfo.NewRequest(input.MediaPath)
	if err != nil {
		return nil, err
	}
	req.Full = input.Full
	if input.ParseSpeed != 0 {
		req.ParseSpeed = input.ParseSpeed
	}
	req.CoverData = input.CoverData
	req.LegacyStreamDisplay = input.LegacyStreamDisplay
	req.Options = input.Options

	if !req.IsURL() && !s.fileChecker.Exists(req.MediaPath) {
		return nil, &mediainfo.NotFoundError{Path: req.MediaPath}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Inspect analyzes the media file and returns the rendered output
func (s *Service) Inspect(ctx context.Context, input Input) (string, error) {
	req, err := s.request(input)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(input.Format) {
	case "", "summary":
		report, err := s.analyzer.Analyze(ctx, req)
		if err != nil {
			return "", err
		}
		return s.summarize(req, report), nil
	case "json":
		report, err := s.analyzer.Analyze(ctx, req)
		if err != nil {
			return "", err
		}
		return report.JSON()
	case "cover":
		return s.CoverArt(ctx, input)
	default:
		// Any other format is passed to MediaInfo as-is ("XML", "HTML",
		// %-delimited templates, ...) and returned verbatim
		req.Output = input.Format
		return s.analyzer.Inform(ctx, req)
	}
}

// Report analyzes the media file and returns the parsed track report
func (s *Service) Report(ctx context.Context, input Input) (*mediainfo.Report, error) {
	req, err := s.request(input)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Analyze(ctx, req)
}

// CoverArt returns the cover image of a media file as base64 PNG/JPEG data.
// Embedded cover art wins; the frame-grab fallback is used when enabled.
func (s *Service) CoverArt(ctx context.Context, input Input) (string, error) {
	input.CoverData = true
	report, err := s.Report(ctx, input)
	if err != nil {
		return "", err
	}

	for _, track := range report.GeneralTracks() {
		if cover := track.Get("cover_data"); cover != "" {
			return cover, nil
		}
	}

	if s.coverExtractor == nil || len(report.VideoTracks()) == 0 {
		return "", fmt.Errorf("no cover art in %s", input.MediaPath)
	}
	fmt.Fprintf(s.output, "No embedded cover art, grabbing first video frame\n")
	return s.coverExtractor.ExtractFrame(ctx, input.MediaPath)
}

// summarize renders a human-oriented track overview
func (s *Service) summarize(req *mediainfo.Request, report *mediainfo.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", req.MediaPath)
	fmt.Fprintf(&b, "Tracks: %d\n", len(report.Tracks))

	for _, track := range report.Tracks {
		fmt.Fprintf(&b, "\n[%s]", track.Kind())
		if id := track.ID(); id != "" {
			fmt.Fprintf(&b, " #%s", id)
		}
		fmt.Fprintln(&b)
		for _, attr := range summaryAttributes {
			if value := track.Get(attr); value != "" {
				fmt.Fprintf(&b, "  %-17s %s\n", attr+":", value)
			}
		}
	}
	return b.String()
}

// summaryAttributes are the attributes worth showing in the text summary
var summaryAttributes = []string{
	"format",
	"duration",
	"file_size",
	"overall_bit_rate",
	"bit_rate",
	"width",
	"height",
	"frame_rate",
	"channel_s",
	"sampling_rate",
	"language",
	"title",
}

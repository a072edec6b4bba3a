//go:build !coverart

package coverart

import (
	"context"
	"errors"
)

// FrameExtractor is a stub when OpenCV is not available
type FrameExtractor struct{}

// NewFrameExtractor creates a stub extractor (requires building with -tags=coverart)
func NewFrameExtractor() *FrameExtractor {
	return &FrameExtractor{}
}

// ExtractFrame returns an error indicating frame extraction is not available
func (e *FrameExtractor) ExtractFrame(ctx context.Context, videoPath string) (string, error) {
	return "", errors.New("cover frame extraction requires -tags=coverart build with OpenCV installed")
}

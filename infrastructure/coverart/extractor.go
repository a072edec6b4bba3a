//go:build coverart

package coverart

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocv.io/x/gocv"
)

// FrameExtractor grabs the first video frame as PNG cover art.
// Used as a fallback for files that embed no cover image.
type FrameExtractor struct{}

// NewFrameExtractor creates a new frame-based cover extractor
func NewFrameExtractor() *FrameExtractor {
	return &FrameExtractor{}
}

// ExtractFrame decodes the first frame of the video and returns it as
// base64-encoded PNG
func (e *FrameExtractor) ExtractFrame(ctx context.Context, videoPath string) (string, error) {
	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video %s: %w", videoPath, err)
	}
	defer capture.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	if ok := capture.Read(&frame); !ok || frame.Empty() {
		return "", fmt.Errorf("no decodable frame in %s", videoPath)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	buf, err := gocv.IMEncode(".png", frame)
	if err != nil {
		return "", fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	return base64.StdEncoding.EncodeToString(buf.GetBytes()), nil
}

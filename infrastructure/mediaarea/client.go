package mediaarea

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"mediainspect/domain/bundle"

	"golang.org/x/crypto/blake2b"
)

// LatestReleaseURL is the API endpoint reporting the latest MediaInfo release
const LatestReleaseURL = "https://api.github.com/repos/MediaArea/MediaInfo/releases/latest"

// DefaultTimeout bounds an upstream transfer when the caller sets no deadline
const DefaultTimeout = 5 * time.Minute

// Client downloads MediaInfo library archives from upstream and queries the
// latest published version
type Client struct {
	httpClient *http.Client
	releaseURL string
	timeout    time.Duration
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing)
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithReleaseURL sets a custom latest-release endpoint (for testing)
func WithReleaseURL(url string) ClientOption {
	return func(c *Client) {
		c.releaseURL = url
	}
}

// WithTimeout sets the fallback transfer timeout for contexts without a
// deadline
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a new upstream download client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		releaseURL: LatestReleaseURL,
		timeout:    DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Download fetches url into destPath, computing the BLAKE2b digest of the
// body while streaming. Implements bundle.Downloader.
func (c *Client) Download(ctx context.Context, url, destPath string) (string, error) {
	// The caller's deadline governs the whole transfer. Archive downloads
	// can legitimately take minutes, so the client timeout only kicks in
	// for contexts without one.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: %s returned %s", url, resp.Status)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer out.Close()

	hasher, err := blake2b.New512(nil)
	if err != nil {
		return "", fmt.Errorf("failed to initialize hasher: %w", err)
	}

	if _, err := io.Copy(io.MultiWriter(out, hasher), resp.Body); err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Ensure Client implements the bundle ports
var (
	_ bundle.Downloader    = (*Client)(nil)
	_ bundle.ReleaseSource = (*Client)(nil)
)

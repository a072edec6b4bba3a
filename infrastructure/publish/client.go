package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"mediainspect/domain/release"
)

// Credentials hold the basic-auth identity for the package index
type Credentials struct {
	Username string
	Password string
}

// Client implements release.Publisher against an HTTP package index
type Client struct {
	httpClient  *http.Client
	indexURL    string
	credentials Credentials
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing)
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new package index client
func NewClient(indexURL string, credentials Credentials, opts ...ClientOption) *Client {
	c := &Client{
		httpClient:  http.DefaultClient,
		indexURL:    indexURL,
		credentials: credentials,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Upload publishes one artifact. An artifact the index already holds is
// reported as Skipped rather than failing the batch. Implements
// release.Publisher.
func (c *Client) Upload(ctx context.Context, artifact release.Artifact) (release.UploadStatus, error) {
	f, err := os.Open(artifact.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to open artifact %s: %w", artifact.Path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("content", filepath.Base(artifact.Name))
	if err != nil {
		return 0, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return 0, fmt.Errorf("failed to read artifact %s: %w", artifact.Path, err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to build upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.indexURL, &body)
	if err != nil {
		return 0, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(c.credentials.Username, c.credentials.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("upload of %s failed: %w", artifact.Name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		// The index already holds this file name: skip-existing
		return release.Skipped, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return release.Uploaded, nil
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("upload of %s rejected: %s: %s", artifact.Name, resp.Status, bytes.TrimSpace(msg))
	}
}

// Ensure Client implements release.Publisher
var _ release.Publisher = (*Client)(nil)

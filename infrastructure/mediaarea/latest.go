package mediaarea

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// latestRelease mirrors the fields we need from the releases API
type latestRelease struct {
	Name string `json:"name"`
}

// LatestVersion returns the version of the most recent upstream MediaInfo
// release. Implements bundle.ReleaseSource.
func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.releaseURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build release request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch latest release: %s", resp.Status)
	}

	var release latestRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("failed to decode latest release: %w", err)
	}
	if release.Name == "" {
		return "", fmt.Errorf("cannot read the version of the latest MediaInfo release")
	}
	return release.Name, nil
}

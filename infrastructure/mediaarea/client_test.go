package mediaarea

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/blake2b"
)

func TestDownload(t *testing.T) {
	body := []byte("fake archive bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")
	client := NewClient(WithHTTPClient(server.Client()))

	digest, err := client.Download(context.Background(), server.URL+"/archive.zip", dest)
	if err != nil {
		t.Fatalf("Download() unexpected error: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("downloaded content = %q, want %q", got, body)
	}

	sum := blake2b.Sum512(body)
	if want := hex.EncodeToString(sum[:]); digest != want {
		t.Errorf("digest = %s, want %s", digest, want)
	}
}

func TestDownloadHonorsCallerDeadline(t *testing.T) {
	// The transfer deliberately takes longer than the client timeout. With a
	// caller deadline in place the client timeout must not apply, so the
	// slow-but-steady stream completes.
	body := []byte("slow but steady archive")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for _, b := range body {
			w.Write([]byte{b})
			flusher.Flush()
			time.Sleep(10 * time.Millisecond)
		}
	}))
	defer server.Close()

	client := NewClient(WithHTTPClient(server.Client()), WithTimeout(20*time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dest := filepath.Join(t.TempDir(), "archive.zip")
	digest, err := client.Download(ctx, server.URL+"/archive.zip", dest)
	if err != nil {
		t.Fatalf("Download() unexpected error: %v", err)
	}
	sum := blake2b.Sum512(body)
	if want := hex.EncodeToString(sum[:]); digest != want {
		t.Errorf("digest = %s, want %s", digest, want)
	}
}

func TestDownloadTimeoutWithoutDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(WithHTTPClient(server.Client()), WithTimeout(30*time.Millisecond))
	_, err := client.Download(context.Background(), server.URL+"/archive.zip", filepath.Join(t.TempDir(), "out"))
	if err == nil {
		t.Fatal("Download() expected timeout error for a stalled server, got nil")
	}
}

func TestDownloadHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(WithHTTPClient(server.Client()))
	_, err := client.Download(context.Background(), server.URL+"/missing.zip", filepath.Join(t.TempDir(), "out"))
	if err == nil {
		t.Fatal("Download() expected error for 404, got nil")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v, want it to mention the status", err)
	}
}

func TestLatestVersion(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		status  int
		want    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "release found",
			payload: `{"name": "24.01", "tag_name": "v24.01"}`,
			status:  http.StatusOK,
			want:    "24.01",
		},
		{
			name:    "missing name field",
			payload: `{"message": "rate limited"}`,
			status:  http.StatusOK,
			wantErr: true,
			errMsg:  "cannot read the version",
		},
		{
			name:    "server error",
			payload: `{}`,
			status:  http.StatusInternalServerError,
			wantErr: true,
			errMsg:  "failed to fetch latest release",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			client := NewClient(WithHTTPClient(server.Client()), WithReleaseURL(server.URL))
			got, err := client.LatestVersion(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("LatestVersion() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("LatestVersion() error = %v, want error containing %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("LatestVersion() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LatestVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

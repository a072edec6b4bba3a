package mediainfo

import (
	"strings"
	"testing"
)

func TestNewRequest(t *testing.T) {
	req, err := NewRequest("sample.mkv")
	if err != nil {
		t.Fatalf("NewRequest() unexpected error: %v", err)
	}
	if !req.Full {
		t.Error("Full should default to true")
	}
	if req.ParseSpeed != DefaultParseSpeed {
		t.Errorf("ParseSpeed = %v, want %v", req.ParseSpeed, DefaultParseSpeed)
	}

	if _, err := NewRequest("  "); err == nil {
		t.Error("NewRequest() expected error for blank path")
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid",
			req:  Request{MediaPath: "sample.mp4", ParseSpeed: 0.5},
		},
		{
			name: "boundary speeds",
			req:  Request{MediaPath: "sample.mp4", ParseSpeed: 1},
		},
		{
			name:    "missing path",
			req:     Request{ParseSpeed: 0.5},
			wantErr: true,
			errMsg:  "media path is required",
		},
		{
			name:    "speed too high",
			req:     Request{MediaPath: "sample.mp4", ParseSpeed: 1.5},
			wantErr: true,
			errMsg:  "out of range",
		},
		{
			name:    "negative speed",
			req:     Request{MediaPath: "sample.mp4", ParseSpeed: -0.1},
			wantErr: true,
			errMsg:  "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() expected error, got nil")
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %v, want error containing %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestRequestIsURL(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"https://example.com/sample.mkv", true},
		{"rtsp://camera.local/stream", true},
		{"/data/sample.mkv", false},
		{"sample.mkv", false},
	}
	for _, tt := range tests {
		req := Request{MediaPath: tt.path}
		if got := req.IsURL(); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

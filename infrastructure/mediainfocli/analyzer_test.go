package mediainfocli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediainspect/domain/mediainfo"
)

// mockRunner records invocations and returns canned outputs per command line
type mockRunner struct {
	versionBanner string
	output        []byte
	outputErr     error
	calls         [][]string
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.calls = append(m.calls, append([]string{name}, args...))
	return nil
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if len(args) == 1 && args[0] == "--Version" {
		return []byte(m.versionBanner), nil
	}
	return m.output, m.outputErr
}

func (m *mockRunner) lastCall() []string {
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

const analyzeXML = `<?xml version="1.0"?>
<Mediainfo version="24.01">
<File>
<track type="General"><Format>MPEG-4</Format></track>
<track type="Video"><Format>AVC</Format><Duration>958</Duration></track>
<track type="Audio"><Format>AAC</Format><Duration>980</Duration></track>
</File>
</Mediainfo>`

// writeSample creates a file so that source checking passes
func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.mp4")
	if err := os.WriteFile(path, []byte("not really a video"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVerifyInstalled(t *testing.T) {
	tests := []struct {
		name    string
		banner  string
		wantErr bool
		errMsg  string
	}{
		{
			name:   "current banner",
			banner: "MediaInfo Command line,\nMediaInfoLib - v24.01",
		},
		{
			name:    "unparseable banner",
			banner:  "some unrelated tool v1.0",
			wantErr: true,
			errMsg:  "could not determine MediaInfo library version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockRunner{versionBanner: tt.banner}
			a := NewAnalyzer(WithCommandRunner(runner))

			err := a.VerifyInstalled(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("VerifyInstalled() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("VerifyInstalled() error = %v, want error containing %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("VerifyInstalled() unexpected error: %v", err)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	path := writeSample(t)
	runner := &mockRunner{
		versionBanner: "MediaInfoLib - v24.01",
		output:        []byte(analyzeXML),
	}
	a := NewAnalyzer(WithCommandRunner(runner))

	req, err := mediainfo.NewRequest(path)
	if err != nil {
		t.Fatal(err)
	}

	report, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}
	if len(report.Tracks) != 3 {
		t.Errorf("len(Tracks) = %d, want 3", len(report.Tracks))
	}

	call := runner.lastCall()
	joined := strings.Join(call, " ")
	for _, want := range []string{"--Full", "--ParseSpeed=0.5", "--Output=OLDXML", path} {
		if !strings.Contains(joined, want) {
			t.Errorf("command %q missing %q", joined, want)
		}
	}
}

func TestAnalyzeLegacyXMLFormat(t *testing.T) {
	path := writeSample(t)
	runner := &mockRunner{
		versionBanner: "MediaInfoLib - v0.7.80",
		output:        []byte(`<File><track type="General"></track></File>`),
	}
	a := NewAnalyzer(WithCommandRunner(runner))

	req, err := mediainfo.NewRequest(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Analyze(context.Background(), req); err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	joined := strings.Join(runner.lastCall(), " ")
	if !strings.Contains(joined, "--Output=XML") || strings.Contains(joined, "OLDXML") {
		t.Errorf("command %q should use the pre-17.10 XML format", joined)
	}
}

func TestAnalyzeOptionFlags(t *testing.T) {
	path := writeSample(t)
	runner := &mockRunner{
		versionBanner: "MediaInfoLib - v24.01",
		output:        []byte(analyzeXML),
	}
	a := NewAnalyzer(WithCommandRunner(runner))

	req := &mediainfo.Request{
		MediaPath:           path,
		Full:                false,
		ParseSpeed:          1,
		CoverData:           true,
		LegacyStreamDisplay: true,
		Options:             map[string]string{"Language": "raw"},
	}
	if _, err := a.Analyze(context.Background(), req); err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	joined := strings.Join(runner.lastCall(), " ")
	for _, want := range []string{"--ParseSpeed=1", "--Cover_Data=base64", "--LegacyStreamDisplay=1", "--Language=raw"} {
		if !strings.Contains(joined, want) {
			t.Errorf("command %q missing %q", joined, want)
		}
	}
	if strings.Contains(joined, "--Full") {
		t.Errorf("command %q should not request full output", joined)
	}
}

func TestAnalyzeCoverDataRequiresModernLibrary(t *testing.T) {
	path := writeSample(t)
	runner := &mockRunner{
		versionBanner: "MediaInfoLib - v17.12",
		output:        []byte(analyzeXML),
	}
	a := NewAnalyzer(WithCommandRunner(runner))

	req := &mediainfo.Request{MediaPath: path, ParseSpeed: 0.5, CoverData: true}
	if _, err := a.Analyze(context.Background(), req); err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	joined := strings.Join(runner.lastCall(), " ")
	if strings.Contains(joined, "Cover_Data") {
		t.Errorf("command %q must not pass Cover_Data to a pre-18.03 library", joined)
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	runner := &mockRunner{versionBanner: "MediaInfoLib - v24.01"}
	a := NewAnalyzer(WithCommandRunner(runner))

	req := &mediainfo.Request{MediaPath: filepath.Join(t.TempDir(), "missing.mp4"), ParseSpeed: 0.5}
	_, err := a.Analyze(context.Background(), req)

	var notFound *mediainfo.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Analyze() error = %v, want NotFoundError", err)
	}
	if len(runner.calls) != 0 {
		t.Error("mediainfo should not be invoked for a missing file")
	}
}

func TestAnalyzeURLSkipsFileCheck(t *testing.T) {
	runner := &mockRunner{
		versionBanner: "MediaInfoLib - v24.01",
		output:        []byte(analyzeXML),
	}
	a := NewAnalyzer(WithCommandRunner(runner))

	req := &mediainfo.Request{MediaPath: "http://127.0.0.1:9/sample.mkv", ParseSpeed: 0.5}
	if _, err := a.Analyze(context.Background(), req); err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}
}

func TestInform(t *testing.T) {
	path := writeSample(t)
	runner := &mockRunner{
		versionBanner: "MediaInfoLib - v24.01",
		output:        []byte(`{"media":{"track":[]}}`),
	}
	a := NewAnalyzer(WithCommandRunner(runner))

	req := &mediainfo.Request{MediaPath: path, ParseSpeed: 0.5, Output: "JSON"}
	out, err := a.Inform(context.Background(), req)
	if err != nil {
		t.Fatalf("Inform() unexpected error: %v", err)
	}
	if !strings.Contains(out, "media") {
		t.Errorf("Inform() = %q, want raw tool output", out)
	}

	joined := strings.Join(runner.lastCall(), " ")
	if !strings.Contains(joined, "--Output=JSON") {
		t.Errorf("command %q missing --Output=JSON", joined)
	}
}

func TestInformDefaultTextOutput(t *testing.T) {
	path := writeSample(t)
	runner := &mockRunner{
		versionBanner: "MediaInfoLib - v24.01",
		output:        []byte("General\nComplete name : sample.mp4"),
	}
	a := NewAnalyzer(WithCommandRunner(runner))

	req := &mediainfo.Request{MediaPath: path, ParseSpeed: 0.5}
	if _, err := a.Inform(context.Background(), req); err != nil {
		t.Fatalf("Inform() unexpected error: %v", err)
	}

	joined := strings.Join(runner.lastCall(), " ")
	if strings.Contains(joined, "--Output=") {
		t.Errorf("command %q should not pass --Output for default text output", joined)
	}
}

package mediainfo

import (
	"strings"
	"testing"
)

// sampleXML mimics MediaInfo's OLDXML output with a <Mediainfo> root
const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<Mediainfo version="0.7.80">
<File>
<track type="General">
<Format>Matroska</Format>
<File_size>5.71 MiB</File_size>
<File_size>5988134</File_size>
<File_size>6 MiB</File_size>
<File_size>5.7 MiB</File_size>
<File_size>5.71 MiB</File_size>
<File_size>5.712 MiB</File_size>
<Duration>61394</Duration>
<Duration>1mn 1s</Duration>
<Duration>1mn 1s 394ms</Duration>
<Duration>00:01:01.394</Duration>
</track>
<track type="Video">
<ID>1</ID>
<Codec>DV</Codec>
<Scan_type>Interlaced</Scan_type>
<Width>720</Width>
</track>
<track type="Audio">
<ID>2</ID>
<Duration>1mn 1s</Duration>
<Duration>61160</Duration>
<Bit_rate>1536000</Bit_rate>
<Sampling_rate>48000</Sampling_rate>
</track>
<track type="Menu">
</track>
</File>
</Mediainfo>
`

// legacyXML mimics libmediainfo < 18.03 output, which has <File> as root
const legacyXML = `<?xml version="1.0" encoding="UTF-8"?>
<File>
<track type="General">
<Format>MPEG-4</Format>
</track>
<track type="Video">
<Format>AVC</Format>
</track>
</File>
`

func TestParseReport(t *testing.T) {
	report, err := ParseReport([]byte(sampleXML))
	if err != nil {
		t.Fatalf("ParseReport() unexpected error: %v", err)
	}

	if got := len(report.Tracks); got != 4 {
		t.Fatalf("len(Tracks) = %d, want 4", got)
	}

	kinds := []string{KindGeneral, KindVideo, KindAudio, KindMenu}
	for i, want := range kinds {
		if got := report.Tracks[i].Kind(); got != want {
			t.Errorf("Tracks[%d].Kind() = %q, want %q", i, got, want)
		}
	}
}

func TestParseReportLegacyRoot(t *testing.T) {
	report, err := ParseReport([]byte(legacyXML))
	if err != nil {
		t.Fatalf("ParseReport() unexpected error: %v", err)
	}
	if got := len(report.Tracks); got != 2 {
		t.Fatalf("len(Tracks) = %d, want 2", got)
	}
	if got := report.Tracks[1].Get("format"); got != "AVC" {
		t.Errorf("video format = %q, want AVC", got)
	}
}

func TestParseReportInvalidXML(t *testing.T) {
	_, err := ParseReport([]byte("<Mediainfo><File></Mediainfo>"))
	if err == nil {
		t.Fatal("ParseReport() expected error for invalid XML, got nil")
	}
	if !strings.Contains(err.Error(), "invalid MediaInfo XML") {
		t.Errorf("error = %v, want invalid MediaInfo XML", err)
	}
}

func TestTrackIntegerPromotion(t *testing.T) {
	report, err := ParseReport([]byte(sampleXML))
	if err != nil {
		t.Fatalf("ParseReport() unexpected error: %v", err)
	}

	general := report.GeneralTracks()[0]

	// The integer form was not first, it must still win as primary value
	size, ok := general.Int("file_size")
	if !ok || size != 5988134 {
		t.Errorf("file_size = %d (ok=%v), want 5988134", size, ok)
	}
	// Displaced human-readable value moves to the other list
	if got := len(general.Other("file_size")); got != 5 {
		t.Errorf("len(other_file_size) = %d, want 5", got)
	}

	// Integer-first repeats stay as they are
	duration, ok := general.Int("duration")
	if !ok || duration != 61394 {
		t.Errorf("duration = %d (ok=%v), want 61394", duration, ok)
	}
	wantOther := []string{"1mn 1s", "1mn 1s 394ms", "00:01:01.394"}
	gotOther := general.Other("duration")
	if len(gotOther) != len(wantOther) {
		t.Fatalf("other_duration = %v, want %v", gotOther, wantOther)
	}
	for i := range wantOther {
		if gotOther[i] != wantOther[i] {
			t.Errorf("other_duration[%d] = %q, want %q", i, gotOther[i], wantOther[i])
		}
	}
}

func TestTrackAttributes(t *testing.T) {
	report, err := ParseReport([]byte(sampleXML))
	if err != nil {
		t.Fatalf("ParseReport() unexpected error: %v", err)
	}

	video := report.VideoTracks()[0]

	if got := video.Get("codec"); got != "DV" {
		t.Errorf("codec = %q, want DV", got)
	}
	if got := video.Get("scan_type"); got != "Interlaced" {
		t.Errorf("scan_type = %q, want Interlaced", got)
	}
	// ID elements are exposed as track_id
	if got := video.ID(); got != "1" {
		t.Errorf("ID() = %q, want 1", got)
	}

	audio := report.AudioTracks()[0]
	for _, attr := range []string{"duration", "bit_rate", "sampling_rate"} {
		if _, ok := audio.Int(attr); !ok {
			t.Errorf("audio %s: expected integer value", attr)
		}
	}

	// Missing attributes return zero values, not errors
	if got := video.Get("does_not_exist"); got != "" {
		t.Errorf("missing attribute = %q, want empty", got)
	}
	if video.Has("does_not_exist") {
		t.Error("Has(does_not_exist) = true, want false")
	}
}

func TestReportAccessors(t *testing.T) {
	report, err := ParseReport([]byte(sampleXML))
	if err != nil {
		t.Fatalf("ParseReport() unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		got   int
		want  int
	}{
		{"general", len(report.GeneralTracks()), 1},
		{"video", len(report.VideoTracks()), 1},
		{"audio", len(report.AudioTracks()), 1},
		{"menu", len(report.MenuTracks()), 1},
		{"text", len(report.TextTracks()), 0},
		{"image", len(report.ImageTracks()), 0},
		{"other", len(report.OtherTracks()), 0},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s tracks = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestReportJSON(t *testing.T) {
	report, err := ParseReport([]byte(legacyXML))
	if err != nil {
		t.Fatalf("ParseReport() unexpected error: %v", err)
	}

	out, err := report.JSON()
	if err != nil {
		t.Fatalf("JSON() unexpected error: %v", err)
	}
	for _, want := range []string{`"tracks"`, `"track_type":"General"`, `"format":"MPEG-4"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON() = %s, want it to contain %s", out, want)
		}
	}
}

func TestReportEqual(t *testing.T) {
	a, err := ParseReport([]byte(sampleXML))
	if err != nil {
		t.Fatalf("ParseReport() unexpected error: %v", err)
	}
	b, err := ParseReport([]byte(sampleXML))
	if err != nil {
		t.Fatalf("ParseReport() unexpected error: %v", err)
	}
	c, err := ParseReport([]byte(legacyXML))
	if err != nil {
		t.Fatalf("ParseReport() unexpected error: %v", err)
	}

	if !a.Equal(b) {
		t.Error("reports parsed from identical XML should be equal")
	}
	if a.Equal(c) {
		t.Error("reports parsed from different XML should not be equal")
	}
}

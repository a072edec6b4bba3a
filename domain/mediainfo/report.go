package mediainfo

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
)

// Report contains the parsed metadata of a media file as a list of tracks
type Report struct {
	Tracks []*Track
}

// xmlElement is a generic child element of a track node
type xmlElement struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// xmlTrack mirrors one <track> node of MediaInfo's OLDXML output
type xmlTrack struct {
	Kind     string       `xml:"type,attr"`
	Elements []xmlElement `xml:",any"`
}

// xmlDocument covers both OLDXML layouts: libmediainfo before 18.03 uses
// <File> as the document root, later versions wrap it in <Mediainfo>
type xmlDocument struct {
	XMLName xml.Name
	Tracks  []xmlTrack `xml:"track"`
	Files   []struct {
		Tracks []xmlTrack `xml:"track"`
	} `xml:"File"`
}

// ParseReport builds a Report from MediaInfo XML output ("OLDXML" format,
// or plain "XML" on library versions before 17.10)
func ParseReport(data []byte) (*Report, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid MediaInfo XML: %w", err)
	}

	rawTracks := doc.Tracks
	if doc.XMLName.Local != "File" {
		rawTracks = nil
		for _, file := range doc.Files {
			rawTracks = append(rawTracks, file.Tracks...)
		}
	}

	report := &Report{}
	for _, raw := range rawTracks {
		track := NewTrack(raw.Kind)
		for _, elem := range raw.Elements {
			track.add(elem.XMLName.Local, strings.TrimSpace(elem.Value))
		}
		track.promote()
		report.Tracks = append(report.Tracks, track)
	}
	return report, nil
}

// tracksOfKind filters tracks by kind
func (r *Report) tracksOfKind(kind string) []*Track {
	var tracks []*Track
	for _, track := range r.Tracks {
		if track.Kind() == kind {
			tracks = append(tracks, track)
		}
	}
	return tracks
}

// TracksOfKind returns all tracks of the given kind
func (r *Report) TracksOfKind(kind string) []*Track {
	return r.tracksOfKind(kind)
}

// GeneralTracks returns all tracks of kind General
func (r *Report) GeneralTracks() []*Track {
	return r.tracksOfKind(KindGeneral)
}

// VideoTracks returns all tracks of kind Video
func (r *Report) VideoTracks() []*Track {
	return r.tracksOfKind(KindVideo)
}

// AudioTracks returns all tracks of kind Audio
func (r *Report) AudioTracks() []*Track {
	return r.tracksOfKind(KindAudio)
}

// TextTracks returns all tracks of kind Text
func (r *Report) TextTracks() []*Track {
	return r.tracksOfKind(KindText)
}

// OtherTracks returns all tracks of kind Other
func (r *Report) OtherTracks() []*Track {
	return r.tracksOfKind(KindOther)
}

// ImageTracks returns all tracks of kind Image
func (r *Report) ImageTracks() []*Track {
	return r.tracksOfKind(KindImage)
}

// MenuTracks returns all tracks of kind Menu
func (r *Report) MenuTracks() []*Track {
	return r.tracksOfKind(KindMenu)
}

// Data returns a map representation of all tracks
func (r *Report) Data() map[string]any {
	tracks := make([]map[string]any, len(r.Tracks))
	for i, track := range r.Tracks {
		tracks[i] = track.Data()
	}
	return map[string]any{"tracks": tracks}
}

// JSON returns a JSON representation of all tracks
func (r *Report) JSON() (string, error) {
	data, err := json.Marshal(r.Data())
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	return string(data), nil
}

// Equal reports whether two reports carry the same tracks
func (r *Report) Equal(o *Report) bool {
	if len(r.Tracks) != len(o.Tracks) {
		return false
	}
	for i := range r.Tracks {
		if !r.Tracks[i].Equal(o.Tracks[i]) {
			return false
		}
	}
	return true
}

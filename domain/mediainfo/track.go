package mediainfo

import (
	"fmt"
	"strconv"
	"strings"
)

// Track kinds as reported by MediaInfo
const (
	KindGeneral = "General"
	KindVideo   = "Video"
	KindAudio   = "Audio"
	KindText    = "Text"
	KindOther   = "Other"
	KindImage   = "Image"
	KindMenu    = "Menu"
)

// Track represents a single stream (or the container itself) in a media file.
//
// Attribute names are normalized to lower case. Attributes that MediaInfo
// reports several times, such as duration, keep a single primary value plus
// an "other" list with the alternative human-readable forms. When any of the
// repeated values parses as an integer, the integer becomes the primary value.
type Track struct {
	kind   string
	order  []string
	fields map[string]any
	other  map[string][]string
}

// NewTrack creates an empty track of the given kind
func NewTrack(kind string) *Track {
	return &Track{
		kind:   kind,
		fields: make(map[string]any),
		other:  make(map[string][]string),
	}
}

// normalizeKey converts a raw MediaInfo element name to an attribute key
func normalizeKey(name string) string {
	key := strings.Trim(strings.TrimSpace(strings.ToLower(name)), "_")
	if key == "id" {
		key = "track_id"
	}
	return key
}

// add records a raw attribute value under its normalized key.
// The first value becomes the primary value; repeats accumulate in the
// other list.
func (t *Track) add(name, value string) {
	key := normalizeKey(name)
	if _, ok := t.fields[key]; !ok {
		t.order = append(t.order, key)
		t.fields[key] = value
		return
	}
	t.other[key] = append(t.other[key], value)
}

// promote converts repeated attributes so that the primary value holds the
// integer form when one exists. The displaced human-readable value is
// appended to the other list.
func (t *Track) promote() {
	for key, others := range t.other {
		primary, ok := t.fields[key].(string)
		if !ok {
			continue
		}
		if n, err := strconv.ParseInt(primary, 10, 64); err == nil {
			t.fields[key] = n
			continue
		}
		for _, candidate := range others {
			if n, err := strconv.ParseInt(candidate, 10, 64); err == nil {
				t.fields[key] = n
				t.other[key] = append(t.other[key], primary)
				break
			}
		}
	}
}

// Kind returns the track type (General, Video, Audio, ...)
func (t *Track) Kind() string {
	return t.kind
}

// ID returns the track identifier, or the empty string when absent
func (t *Track) ID() string {
	return t.Get("track_id")
}

// Get returns the primary value of an attribute as a string.
// Missing attributes return the empty string.
func (t *Track) Get(name string) string {
	switch v := t.fields[normalizeKey(name)].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// Int returns the primary value of an attribute as an integer.
// The second return value reports whether the attribute exists and has an
// integer form.
func (t *Track) Int(name string) (int64, bool) {
	switch v := t.fields[normalizeKey(name)].(type) {
	case int64:
		return v, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Has returns true if the attribute exists on the track
func (t *Track) Has(name string) bool {
	_, ok := t.fields[normalizeKey(name)]
	return ok
}

// Other returns the alternative values recorded for a repeated attribute.
// Attributes that appear only once return nil.
func (t *Track) Other(name string) []string {
	return t.other[normalizeKey(name)]
}

// Attributes returns the attribute keys in document order
func (t *Track) Attributes() []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	return keys
}

// Data returns a map representation of the track, including the track kind
// and the other_* lists for repeated attributes
func (t *Track) Data() map[string]any {
	data := make(map[string]any, len(t.fields)+len(t.other)+1)
	data["track_type"] = t.kind
	for key, value := range t.fields {
		data[key] = value
	}
	for key, values := range t.other {
		data["other_"+key] = values
	}
	return data
}

// Equal reports whether two tracks carry the same kind and attributes
func (t *Track) Equal(o *Track) bool {
	if t.kind != o.kind || len(t.fields) != len(o.fields) || len(t.other) != len(o.other) {
		return false
	}
	for key, value := range t.fields {
		if o.fields[key] != value {
			return false
		}
	}
	for key, values := range t.other {
		ovalues := o.other[key]
		if len(values) != len(ovalues) {
			return false
		}
		for i := range values {
			if values[i] != ovalues[i] {
				return false
			}
		}
	}
	return true
}

// String implements fmt.Stringer
func (t *Track) String() string {
	return fmt.Sprintf("<Track track_id=%q, track_type=%q>", t.ID(), t.kind)
}

package mediainfo

import "fmt"

// NotFoundError is returned when the media path names a local file that
// does not exist. Analysis failures on existing files are ordinary errors.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("media file not found: %s", e.Path)
}

package bundle

import (
	"errors"
	"fmt"
)

// ErrChecksumMissing is returned when verification is requested but the
// descriptor carries no pinned digest
var ErrChecksumMissing = errors.New("no pinned checksum for archive")

// ChecksumError reports a digest mismatch for a downloaded archive
type ChecksumError struct {
	Platform string
	Arch     string
	Expected string
	Got      string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch for (%s, %s): expected %s, got %s",
		e.Platform, e.Arch, e.Expected, e.Got)
}

// VerifyChecksum compares the BLAKE2b digest of a downloaded archive against
// the pinned value. A mismatch aborts the operation that requested it.
func (d *Descriptor) VerifyChecksum(digest string) error {
	if d.Checksum == "" {
		return ErrChecksumMissing
	}
	if d.Checksum != digest {
		return &ChecksumError{
			Platform: d.Platform,
			Arch:     d.Arch,
			Expected: d.Checksum,
			Got:      digest,
		}
	}
	return nil
}

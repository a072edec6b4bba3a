package bundle

import (
	"fmt"
)

// BaseURL is the upstream download location for MediaInfo library builds
const BaseURL = "https://mediaarea.net/download/binary/libmediainfo0"

// Supported platforms
const (
	PlatformLinux   = "linux"
	PlatformDarwin  = "darwin"
	PlatformWindows = "windows"
)

// Supported architectures
const (
	ArchAMD64 = "x86_64"
	ArchARM64 = "arm64"
	Arch386   = "i386"
)

// allowedArchs lists the architectures upstream publishes per platform
var allowedArchs = map[string][]string{
	PlatformLinux:   {ArchAMD64, ArchARM64},
	PlatformDarwin:  {ArchAMD64, ArchARM64},
	PlatformWindows: {ArchAMD64, Arch386, ArchARM64},
}

// Descriptor identifies one upstream MediaInfo library archive
type Descriptor struct {
	// Version of the MediaInfo library, for example "24.01"
	Version string

	// Platform of the archive: linux, darwin or windows
	Platform string

	// Arch of the archive: x86_64, arm64 or i386
	Arch string

	// Checksum is the pinned BLAKE2b hex digest of the archive.
	// May be empty when the descriptor is only used to compute digests.
	Checksum string
}

// NewDescriptor creates a Descriptor, validating the platform/arch combination
func NewDescriptor(version, platform, arch, checksum string) (*Descriptor, error) {
	d := &Descriptor{
		Version:  version,
		Platform: platform,
		Arch:     arch,
		Checksum: checksum,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks that the descriptor names an archive upstream publishes
func (d *Descriptor) Validate() error {
	if d.Version == "" {
		return fmt.Errorf("library version is required")
	}

	allowed, ok := allowedArchs[d.Platform]
	if !ok {
		return fmt.Errorf("platform not recognized: %q", d.Platform)
	}
	for _, arch := range allowed {
		if d.Arch == arch {
			return nil
		}
	}
	return fmt.Errorf("arch %q is not available for platform %q; must be one of %v", d.Arch, d.Platform, allowed)
}

// winArch returns the architecture as it appears in Windows archive names
func (d *Descriptor) winArch() string {
	switch d.Arch {
	case ArchAMD64:
		return "x64"
	case ArchARM64:
		return "ARM64"
	default:
		return d.Arch
	}
}

// ArchiveName returns the compressed file name upstream publishes for this
// version, platform and architecture
func (d *Descriptor) ArchiveName() string {
	var suffix string
	switch d.Platform {
	case PlatformLinux:
		suffix = fmt.Sprintf("Lambda_%s.zip", d.Arch)
	case PlatformDarwin:
		// macOS ships a single universal archive
		suffix = "Mac_x86_64+arm64.tar.bz2"
	case PlatformWindows:
		suffix = fmt.Sprintf("Windows_%s_WithoutInstaller.zip", d.winArch())
	}
	return fmt.Sprintf("MediaInfo_DLL_%s_%s", d.Version, suffix)
}

// URL returns the download URL for the archive under the given base URL
func (d *Descriptor) URL(baseURL string) string {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return fmt.Sprintf("%s/%s/%s", baseURL, d.Version, d.ArchiveName())
}

// Members maps archive member paths to the canonical file names they are
// extracted under (the shared library and its license)
func (d *Descriptor) Members() map[string]string {
	switch d.Platform {
	case PlatformLinux:
		return map[string]string{
			"lib/libmediainfo.so.0.0.0": "libmediainfo.so.0",
			"LICENSE":                   "LICENSE",
		}
	case PlatformDarwin:
		return map[string]string{
			"MediaInfoLib/libmediainfo.0.dylib": "libmediainfo.0.dylib",
			"MediaInfoLib/License.html":         "License.html",
		}
	case PlatformWindows:
		return map[string]string{
			"MediaInfo.dll":           "MediaInfo.dll",
			"Developers/License.html": "License.html",
		}
	}
	return nil
}

// LibraryName returns the canonical shared-library file name for the platform
func (d *Descriptor) LibraryName() string {
	switch d.Platform {
	case PlatformLinux:
		return "libmediainfo.so.0"
	case PlatformDarwin:
		return "libmediainfo.0.dylib"
	case PlatformWindows:
		return "MediaInfo.dll"
	}
	return ""
}

// CleanPatterns are the glob patterns matching previously extracted files
var CleanPatterns = []string{
	"License.html",
	"LICENSE",
	"MediaInfo.dll",
	"libmediainfo.*",
}

package bundle

import (
	"errors"
	"strings"
	"testing"
)

func TestNewDescriptor(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		arch     string
		wantErr  bool
		errMsg   string
	}{
		{name: "linux amd64", platform: PlatformLinux, arch: ArchAMD64},
		{name: "linux arm64", platform: PlatformLinux, arch: ArchARM64},
		{name: "darwin amd64", platform: PlatformDarwin, arch: ArchAMD64},
		{name: "windows i386", platform: PlatformWindows, arch: Arch386},
		{name: "windows arm64", platform: PlatformWindows, arch: ArchARM64},
		{
			name:     "linux i386 not published",
			platform: PlatformLinux,
			arch:     Arch386,
			wantErr:  true,
			errMsg:   "not available for platform",
		},
		{
			name:     "unknown platform",
			platform: "solaris",
			arch:     ArchAMD64,
			wantErr:  true,
			errMsg:   "platform not recognized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDescriptor("24.01", tt.platform, tt.arch, "")
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewDescriptor() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("NewDescriptor() error = %v, want error containing %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("NewDescriptor() unexpected error: %v", err)
			}
		})
	}
}

func TestNewDescriptorRequiresVersion(t *testing.T) {
	_, err := NewDescriptor("", PlatformLinux, ArchAMD64, "")
	if err == nil || !strings.Contains(err.Error(), "version is required") {
		t.Errorf("NewDescriptor() error = %v, want version is required", err)
	}
}

func TestArchiveName(t *testing.T) {
	tests := []struct {
		platform string
		arch     string
		want     string
	}{
		{PlatformLinux, ArchAMD64, "MediaInfo_DLL_24.01_Lambda_x86_64.zip"},
		{PlatformLinux, ArchARM64, "MediaInfo_DLL_24.01_Lambda_arm64.zip"},
		{PlatformDarwin, ArchAMD64, "MediaInfo_DLL_24.01_Mac_x86_64+arm64.tar.bz2"},
		{PlatformDarwin, ArchARM64, "MediaInfo_DLL_24.01_Mac_x86_64+arm64.tar.bz2"},
		{PlatformWindows, ArchAMD64, "MediaInfo_DLL_24.01_Windows_x64_WithoutInstaller.zip"},
		{PlatformWindows, Arch386, "MediaInfo_DLL_24.01_Windows_i386_WithoutInstaller.zip"},
		{PlatformWindows, ArchARM64, "MediaInfo_DLL_24.01_Windows_ARM64_WithoutInstaller.zip"},
	}

	for _, tt := range tests {
		d, err := NewDescriptor("24.01", tt.platform, tt.arch, "")
		if err != nil {
			t.Fatalf("NewDescriptor(%s, %s) unexpected error: %v", tt.platform, tt.arch, err)
		}
		if got := d.ArchiveName(); got != tt.want {
			t.Errorf("ArchiveName(%s, %s) = %q, want %q", tt.platform, tt.arch, got, tt.want)
		}
	}
}

func TestURL(t *testing.T) {
	d, err := NewDescriptor("24.01", PlatformLinux, ArchAMD64, "")
	if err != nil {
		t.Fatalf("NewDescriptor() unexpected error: %v", err)
	}

	want := "https://mediaarea.net/download/binary/libmediainfo0/24.01/MediaInfo_DLL_24.01_Lambda_x86_64.zip"
	if got := d.URL(""); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}

	if got := d.URL("http://mirror.test/base"); !strings.HasPrefix(got, "http://mirror.test/base/24.01/") {
		t.Errorf("URL(mirror) = %q, want mirror prefix", got)
	}
}

func TestMembers(t *testing.T) {
	tests := []struct {
		platform string
		arch     string
		wantLib  string
	}{
		{PlatformLinux, ArchAMD64, "libmediainfo.so.0"},
		{PlatformDarwin, ArchARM64, "libmediainfo.0.dylib"},
		{PlatformWindows, ArchAMD64, "MediaInfo.dll"},
	}

	for _, tt := range tests {
		d, err := NewDescriptor("24.01", tt.platform, tt.arch, "")
		if err != nil {
			t.Fatalf("NewDescriptor() unexpected error: %v", err)
		}
		if got := d.LibraryName(); got != tt.wantLib {
			t.Errorf("LibraryName(%s) = %q, want %q", tt.platform, got, tt.wantLib)
		}

		members := d.Members()
		if len(members) != 2 {
			t.Fatalf("Members(%s) = %v, want 2 entries", tt.platform, members)
		}
		found := false
		for _, target := range members {
			if target == tt.wantLib {
				found = true
			}
		}
		if !found {
			t.Errorf("Members(%s) = %v, missing library target %q", tt.platform, members, tt.wantLib)
		}
	}
}

func TestVerifyChecksum(t *testing.T) {
	d, err := NewDescriptor("24.01", PlatformLinux, ArchAMD64, "abc123")
	if err != nil {
		t.Fatalf("NewDescriptor() unexpected error: %v", err)
	}

	if err := d.VerifyChecksum("abc123"); err != nil {
		t.Errorf("VerifyChecksum(match) unexpected error: %v", err)
	}

	err = d.VerifyChecksum("def456")
	var mismatch *ChecksumError
	if !errors.As(err, &mismatch) {
		t.Fatalf("VerifyChecksum(mismatch) error = %v, want ChecksumError", err)
	}
	if mismatch.Expected != "abc123" || mismatch.Got != "def456" {
		t.Errorf("ChecksumError = %+v, want expected abc123 got def456", mismatch)
	}
	if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("error = %v, want checksum mismatch", err)
	}

	d.Checksum = ""
	if err := d.VerifyChecksum("abc123"); !errors.Is(err, ErrChecksumMissing) {
		t.Errorf("VerifyChecksum(no pin) error = %v, want ErrChecksumMissing", err)
	}
}

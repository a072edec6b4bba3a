package mediainfo

import "context"

// Analyzer defines the interface for media analysis operations
// This is a port that can be implemented by different infrastructure adapters
type Analyzer interface {
	// Analyze inspects the media file and returns the parsed track report
	Analyze(ctx context.Context, req *Request) (*Report, error)

	// Inform inspects the media file and returns MediaInfo's raw output in
	// the format named by req.Output (empty means the default text output)
	Inform(ctx context.Context, req *Request) (string, error)
}

// FileChecker defines the interface for checking file existence
// This is used to validate that media files exist before analysis
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

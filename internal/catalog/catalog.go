package catalog

import "context"

// Clip is a handle to one media-pool entry. FilePath may point at media that
// is offline or has been moved; callers must tolerate missing files.
type Clip struct {
	ID       string
	Name     string
	FilePath string
}

// Catalog is the media-pool surface the pipeline depends on.
type Catalog interface {
	// Initialize establishes the connection and verifies a project with a
	// media pool is open. The absence of an active project is an expected
	// condition reported as services.ErrNotFound.
	Initialize(ctx context.Context) error

	// ListClips enumerates every clip in the pool's root folder.
	ListClips(ctx context.Context) ([]Clip, error)

	// Replace removes clip from the pool and imports newFilePath in its
	// place. Callers treat failures as best-effort: the converted file on
	// disk stays authoritative.
	Replace(ctx context.Context, clip Clip, newFilePath string) error
}

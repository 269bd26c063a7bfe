package driven

import "context"

// FileArchive keeps unmodified copies of uploaded files.
type FileArchive interface {
	// Save writes content under name and returns the stored path.
	// Saving the same name again overwrites the previous copy.
	Save(ctx context.Context, name string, content []byte) (string, error)
}

package attachment

import "context"

// Uploader sends a single attachment to the generic upload path.
type Uploader interface {
	Upload(ctx context.Context, secret string, f File) (Meta, error)
}

// Manager uploads batches of attachments one file at a time.
type Manager struct {
	uploader Uploader
}

// NewManager constructs a Manager.
func NewManager(uploader Uploader) *Manager {
	return &Manager{uploader: uploader}
}

// AddFiles uploads files sequentially in the given order. The first failure
// stops the batch and is returned as a *BatchError; files already uploaded stay
// in the object store and are listed in BatchError.Uploaded.
func (m *Manager) AddFiles(ctx context.Context, secret string, files []File) ([]Meta, error) {
	uploaded := make([]Meta, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, &BatchError{Uploaded: uploaded, Failed: f.Name, Err: err}
		}
		meta, err := m.uploader.Upload(ctx, secret, f)
		if err != nil {
			return nil, &BatchError{Uploaded: uploaded, Failed: f.Name, Err: err}
		}
		uploaded = append(uploaded, meta)
	}
	return uploaded, nil
}

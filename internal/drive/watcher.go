package drive

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// FileStatter returns Drive file metadata.
type FileStatter interface {
	GetFile(ctx context.Context, fileID string) (*File, error)
}

// ChangeFunc is called when a watched file's modifiedTime changes.
type ChangeFunc func(ctx context.Context, file *File) error

// Watcher polls a Drive file and calls onChange whenever its modifiedTime
// differs from the last one seen. The first successful poll only records
// the current version.
type Watcher struct {
	files    FileStatter
	fileID   string
	interval time.Duration
	onChange ChangeFunc

	lastModified string
}

// NewWatcher creates a watcher for fileID.
func NewWatcher(files FileStatter, fileID string, interval time.Duration, onChange ChangeFunc) *Watcher {
	return &Watcher{
		files:    files,
		fileID:   fileID,
		interval: interval,
		onChange: onChange,
	}
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll checks the file once and reports whether a change was dispatched.
func (w *Watcher) Poll(ctx context.Context) bool {
	file, err := w.files.GetFile(ctx, w.fileID)
	if err != nil {
		log.Warn().Err(err).Str("file_id", w.fileID).Msg("drive watcher: poll failed")
		return false
	}

	if w.lastModified == "" {
		w.lastModified = file.ModifiedTime
		return false
	}
	if file.ModifiedTime == w.lastModified {
		return false
	}

	log.Info().
		Str("file_id", w.fileID).
		Str("name", file.Name).
		Str("modified", file.ModifiedTime).
		Msg("drive watcher: file changed")

	if err := w.onChange(ctx, file); err != nil {
		log.Error().Err(err).Str("file_id", w.fileID).Msg("drive watcher: change handler failed")
		return true
	}
	w.lastModified = file.ModifiedTime
	return true
}

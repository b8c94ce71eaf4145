package models

import (
	"errors"
	"io"
	"os"
	"sync"
)

// ErrHandleReleased is returned when a preview handle is used or released
// after it was already released.
var ErrHandleReleased = errors.New("preview handle already released")

// PreviewHandle holds a not-yet-uploaded file's bytes in a local temp file
// so the form can keep a preview before the provider returns a URL.
//
// The handle must be released exactly once: either when its image is removed
// from the form, or when the form is reset/closed. Releasing twice is an
// error so lifecycle bugs surface in tests instead of passing silently.
type PreviewHandle struct {
	mu       sync.Mutex
	path     string
	released bool
}

// NewPreviewHandle spools the reader into a temp file under dir.
func NewPreviewHandle(dir string, r io.Reader) (*PreviewHandle, error) {
	f, err := os.CreateTemp(dir, "preview-*")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, err
	}
	return &PreviewHandle{path: f.Name()}, nil
}

// Path returns the local preview location.
func (h *PreviewHandle) Path() string {
	return h.path
}

// Open returns a reader over the spooled bytes for the upload call.
func (h *PreviewHandle) Open() (*os.File, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil, ErrHandleReleased
	}
	return os.Open(h.path)
}

// Released reports whether Release has already run.
func (h *PreviewHandle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Release removes the spooled file. A failed removal leaves the handle
// unreleased so the caller can keep its state unchanged and retry.
func (h *PreviewHandle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return ErrHandleReleased
	}
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	h.released = true
	return nil
}

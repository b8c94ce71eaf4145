package services

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"musicstore_admin/internal/dto"
	"musicstore_admin/internal/models"
	"musicstore_admin/pkg/apperrors"
)

// FormMode distinguishes creating a new instrument from editing one.
type FormMode string

const (
	ModeCreate FormMode = "create"
	ModeEdit   FormMode = "edit"
)

// maxFormImages is the product limit on images per instrument.
const maxFormImages = 5

// FormSession owns one open/close cycle of the product form: the field
// values, the category reference list and the ordered image sequence.
// All operations serialize on the session mutex, the server-side analogue
// of the single UI event loop the form used to live on.
//
// State machine per cycle:
//
//	closed -> open(hydrate) -> mutations* -> {submit -> closed | close -> closed}
//
// Open is an explicit transition, so hydration runs exactly when a cycle
// starts and never on unrelated calls.
type FormSession struct {
	id string

	mu         sync.Mutex
	mode       FormMode
	form       models.Instrument
	categories []models.Category
	images     []*models.ImageEntry
	uploading  bool
	lastActive time.Time
}

func newFormSession(id string) *FormSession {
	return &FormSession{
		id:         id,
		mode:       ModeCreate,
		lastActive: time.Now(),
	}
}

// ID returns the session identifier.
func (s *FormSession) ID() string {
	return s.id
}

// Mode returns the current form mode.
func (s *FormSession) Mode() FormMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Open (re)hydrates the session. Editing seeds the fields from the source
// record and the image sequence from its hosted URLs; creating clears
// everything. Re-opening a live session discards the previous cycle first,
// releasing any held preview handles.
func (s *FormSession) Open(mode FormMode, source *models.Instrument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case ModeCreate, ModeEdit:
	default:
		return apperrors.NewBadRequestError("unknown form mode: " + string(mode))
	}
	if mode == ModeEdit && (source == nil || source.ID == 0) {
		return apperrors.NewBadRequestError("edit mode requires a source record with an id")
	}

	// Best effort: a re-open must not keep anything from the previous cycle.
	_ = s.resetLocked()

	if mode == ModeEdit {
		s.form = *source
		s.form.ImageURLs = nil
		s.images = make([]*models.ImageEntry, 0, len(source.ImageURLs))
		for _, url := range source.ImageURLs {
			s.images = append(s.images, models.ExistingImageEntry(url))
		}
	}

	s.mode = mode
	s.uploading = false
	s.touchLocked()
	return nil
}

// SetCategories stores the reference category list.
func (s *FormSession) SetCategories(categories []models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
}

// ChangeField applies one field change. In edit mode every field except the
// category selector is a deliberate no-op: editing an existing instrument
// only permits recategorization.
func (s *FormSession) ChangeField(name, value, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode == ModeEdit && name != "idCategory" {
		return nil
	}

	switch name {
	case "idCategory":
		id, err := strconv.Atoi(value)
		if err != nil {
			return apperrors.NewBadRequestError("idCategory must be an integer")
		}
		s.form.IDCategory = id
	case "available":
		// Covers both checkbox input and the text value "true".
		s.form.Available = value == "true"
	case "name":
		s.form.Name = value
	case "brand":
		s.form.Brand = value
	case "model":
		s.form.Model = value
	case "year":
		s.form.Year = value
	case "stock":
		s.form.Stock = value
	case "description":
		s.form.Description = value
	case "price":
		s.form.Price = value
	default:
		return apperrors.NewBadRequestError("unknown form field: " + name)
	}
	return nil
}

// RemoveImage drops the image at index and releases its preview handle when
// it holds one. Existing images carry no handle, so nothing is released for
// them. A release failure leaves the sequence unchanged. No-op in edit mode:
// the gallery is read-only there.
func (s *FormSession) RemoveImage(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode == ModeEdit {
		return nil
	}
	if index < 0 || index >= len(s.images) {
		return apperrors.NewBadRequestError("image index out of range")
	}

	entry := s.images[index]
	if entry.Handle != nil {
		if err := entry.Handle.Release(); err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternalError, "form",
				"Could not remove the image", http.StatusInternalServerError)
		}
	}
	s.images = append(s.images[:index], s.images[index+1:]...)
	return nil
}

// BeginBatch validates an incoming upload batch against the mode, the busy
// flag and the image limit, then marks the session busy. Rejecting here
// rejects the whole batch: nothing is staged yet.
func (s *FormSession) BeginBatch(incoming int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.mode == ModeEdit {
		return apperrors.ErrEditLocked
	}
	if s.uploading {
		return apperrors.NewBadRequestError("an upload batch is already in progress")
	}
	if incoming == 0 {
		return apperrors.NewBadRequestError("no files selected")
	}
	if incoming+len(s.images) > maxFormImages {
		return apperrors.ErrTooManyImages(maxFormImages)
	}

	s.uploading = true
	return nil
}

// EndBatch clears the busy flag when the batch finishes or fails.
func (s *FormSession) EndBatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploading = false
	s.touchLocked()
}

// StagePending appends a pending entry backed by a local preview handle.
func (s *FormSession) StagePending(handle *models.PreviewHandle) *models.ImageEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &models.ImageEntry{
		Status:  models.ImagePending,
		Preview: handle.Path(),
		Handle:  handle,
	}
	s.images = append(s.images, entry)
	s.touchLocked()
	return entry
}

// CommitUploaded flips a staged entry to uploaded with the descriptor the
// provider returned. If the session was reset while the upload was in
// flight the entry is gone, its handle is already released and the result
// is discarded; the method reports whether the commit took.
func (s *FormSession) CommitUploaded(entry *models.ImageEntry, descriptor *models.ImageDescriptor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.containsLocked(entry) {
		return false
	}
	entry.Status = models.ImageUploaded
	entry.Descriptor = descriptor
	entry.Preview = descriptor.URL
	s.touchLocked()
	return true
}

// DropEntry removes a staged entry after its upload failed and releases its
// handle. Entries committed earlier in the batch stay committed.
func (s *FormSession) DropEntry(entry *models.ImageEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.images {
		if e == entry {
			s.images = append(s.images[:i], s.images[i+1:]...)
			break
		}
	}
	if entry.Handle != nil && !entry.Handle.Released() {
		_ = entry.Handle.Release()
	}
	s.touchLocked()
}

// PrepareSubmit validates the form and builds the outgoing payload under the
// session lock. In edit mode the payload is exactly {id, idCategory}. The
// network call happens outside the lock; a failed submit changes nothing.
func (s *FormSession) PrepareSubmit() (*models.Instrument, FormMode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.form.IDCategory == 0 {
		return nil, s.mode, apperrors.ErrCategoryRequired
	}

	if s.mode == ModeEdit {
		return &models.Instrument{ID: s.form.ID, IDCategory: s.form.IDCategory}, s.mode, nil
	}

	if len(s.images) == 0 {
		return nil, s.mode, apperrors.ErrImagesRequired
	}
	if s.uploading {
		return nil, s.mode, apperrors.ErrImagesNotUploaded
	}

	urls := make([]string, 0, len(s.images))
	for _, entry := range s.images {
		if entry.Status != models.ImageUploaded || entry.Descriptor == nil {
			// The form never uploads inline at submit time; staged files
			// must finish uploading first.
			return nil, s.mode, apperrors.ErrImagesNotUploaded
		}
		urls = append(urls, entry.Descriptor.URL)
	}

	payload := s.form
	payload.ImageURLs = urls
	return &payload, s.mode, nil
}

// Reset releases every held preview handle exactly once and clears the
// fields and the image sequence back to defaults.
func (s *FormSession) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetLocked()
}

func (s *FormSession) resetLocked() error {
	var errs []error
	for _, entry := range s.images {
		if entry.Handle != nil && !entry.Handle.Released() {
			if err := entry.Handle.Release(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	s.images = nil
	s.form = models.Instrument{}
	s.touchLocked()
	return errors.Join(errs...)
}

// State returns a snapshot for the UI.
func (s *FormSession) State() *dto.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()

	images := make([]models.ImageEntry, len(s.images))
	for i, entry := range s.images {
		images[i] = *entry
	}
	categories := make([]models.Category, len(s.categories))
	copy(categories, s.categories)

	return &dto.FormState{
		SessionID:  s.id,
		Mode:       string(s.mode),
		Form:       s.form,
		Categories: categories,
		Images:     images,
		Uploading:  s.uploading,
	}
}

// LastActive reports the last operation time, used by the idle sweeper.
func (s *FormSession) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *FormSession) containsLocked(entry *models.ImageEntry) bool {
	for _, e := range s.images {
		if e == entry {
			return true
		}
	}
	return false
}

func (s *FormSession) touchLocked() {
	s.lastActive = time.Now()
}

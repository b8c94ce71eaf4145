package services

import (
	"context"
	"time"

	"musicstore_admin/internal/dto"
	"musicstore_admin/internal/logger"
	"musicstore_admin/internal/models"
	"musicstore_admin/pkg/apperrors"

	"github.com/google/uuid"
)

// CatalogAPI is the slice of the catalog client the form service needs.
type CatalogAPI interface {
	Categories(ctx context.Context) ([]models.Category, error)
	CreateInstrument(ctx context.Context, inst *models.Instrument) (*models.Instrument, error)
	UpdateInstrumentCategory(ctx context.Context, id, idCategory int) (*models.Instrument, error)
}

// FormService drives product-form sessions end to end.
type FormService interface {
	// Open starts a new form session and hydrates it.
	Open(ctx context.Context, req *dto.OpenFormRequest) (*dto.FormState, error)

	// Reopen re-hydrates a live session from current source data.
	Reopen(ctx context.Context, sessionID string, req *dto.OpenFormRequest) (*dto.FormState, error)

	// State returns the current snapshot.
	State(sessionID string) (*dto.FormState, error)

	// ChangeField applies one field change.
	ChangeField(sessionID string, req *dto.FieldChangeRequest) (*dto.FormState, error)

	// RemoveImage drops the image at index.
	RemoveImage(sessionID string, index int) (*dto.FormState, error)

	// Submit sends the form to the catalog; success closes the session.
	Submit(ctx context.Context, sessionID string) (*dto.SubmitResult, error)

	// Close discards the session.
	Close(sessionID string) error

	// SweepIdle discards sessions idle for longer than ttl.
	SweepIdle(ttl time.Duration) int
}

type formService struct {
	store   *sessionStore
	catalog CatalogAPI
}

// NewFormService creates the form service over the shared session store.
func NewFormService(store *sessionStore, catalog CatalogAPI) FormService {
	return &formService{
		store:   store,
		catalog: catalog,
	}
}

func (s *formService) Open(ctx context.Context, req *dto.OpenFormRequest) (*dto.FormState, error) {
	session := newFormSession(uuid.NewString())
	if err := session.Open(FormMode(req.Mode), req.Source); err != nil {
		return nil, err
	}

	session.SetCategories(s.fetchCategories(ctx))
	s.store.Put(session)

	logger.CtxInfo(ctx, "form session opened", "session_id", session.ID(), "mode", req.Mode)
	return session.State(), nil
}

func (s *formService) Reopen(ctx context.Context, sessionID string, req *dto.OpenFormRequest) (*dto.FormState, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	if err := session.Open(FormMode(req.Mode), req.Source); err != nil {
		return nil, err
	}
	session.SetCategories(s.fetchCategories(ctx))

	logger.CtxInfo(ctx, "form session re-opened", "session_id", sessionID, "mode", req.Mode)
	return session.State(), nil
}

func (s *formService) State(sessionID string) (*dto.FormState, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return session.State(), nil
}

func (s *formService) ChangeField(sessionID string, req *dto.FieldChangeRequest) (*dto.FormState, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	if err := session.ChangeField(req.Name, req.Value, req.Kind); err != nil {
		return nil, err
	}
	return session.State(), nil
}

func (s *formService) RemoveImage(sessionID string, index int) (*dto.FormState, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	if err := session.RemoveImage(index); err != nil {
		return nil, err
	}
	return session.State(), nil
}

func (s *formService) Submit(ctx context.Context, sessionID string) (*dto.SubmitResult, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}

	payload, mode, err := session.PrepareSubmit()
	if err != nil {
		return nil, err
	}

	var record *models.Instrument
	var message string
	if mode == ModeEdit {
		record, err = s.catalog.UpdateInstrumentCategory(ctx, payload.ID, payload.IDCategory)
		message = "Category updated successfully"
	} else {
		record, err = s.catalog.CreateInstrument(ctx, payload)
		message = "Instrument created successfully"
	}
	if err != nil {
		// A failed submit leaves the session open with its state intact.
		logger.CtxWithError(ctx, "form submit failed", err, "session_id", sessionID, "mode", mode)
		return nil, err
	}

	if rerr := session.Reset(); rerr != nil {
		logger.CtxWarn(ctx, "preview cleanup after submit failed", "error", rerr.Error(), "session_id", sessionID)
	}
	s.store.Delete(sessionID)

	logger.CtxInfo(ctx, "form submitted", "session_id", sessionID, "mode", mode, "instrument_id", record.ID)
	return &dto.SubmitResult{Instrument: record, Message: message}, nil
}

func (s *formService) Close(sessionID string) error {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if err := session.Reset(); err != nil {
		logger.Warn("preview cleanup on close failed", "error", err.Error(), "session_id", sessionID)
	}
	s.store.Delete(sessionID)
	return nil
}

func (s *formService) SweepIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	swept := 0
	for _, session := range s.store.All() {
		if session.LastActive().Before(cutoff) {
			if err := session.Reset(); err != nil {
				logger.Warn("preview cleanup on sweep failed", "error", err.Error(), "session_id", session.ID())
			}
			s.store.Delete(session.ID())
			swept++
		}
	}
	return swept
}

// fetchCategories loads the reference list; a failure degrades to an empty
// list so the form still opens.
func (s *formService) fetchCategories(ctx context.Context) []models.Category {
	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		logger.CtxWithError(ctx, "failed to fetch categories", err)
		return []models.Category{}
	}
	return categories
}

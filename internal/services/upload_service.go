package services

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"musicstore_admin/internal/dto"
	"musicstore_admin/internal/logger"
	"musicstore_admin/internal/models"
	"musicstore_admin/pkg/apperrors"
)

// ImageUploader is the slice of the upload client the batch path needs.
type ImageUploader interface {
	UploadViaBackend(ctx context.Context, filename string, r io.Reader) (*models.ImageDescriptor, error)
}

// ImagePurger deletes a hosted image by its public id.
type ImagePurger interface {
	Delete(ctx context.Context, publicID string) (string, error)
}

// UploadService implements the upload side of the form: batch validation,
// sequential per-file upload and provider-side deletion.
type UploadService interface {
	// UploadImages validates and uploads one selection batch into a session.
	UploadImages(ctx context.Context, sessionID string, files []*multipart.FileHeader) (*dto.FormState, error)

	// PurgeImage deletes a hosted image at the provider.
	PurgeImage(ctx context.Context, publicID string) (*dto.PurgeImageResult, error)
}

type uploadService struct {
	store      *sessionStore
	uploader   ImageUploader
	purger     ImagePurger
	previewDir string
}

// NewUploadService creates the upload service over the shared session store.
func NewUploadService(store *sessionStore, uploader ImageUploader, purger ImagePurger, previewDir string) UploadService {
	return &uploadService{
		store:      store,
		uploader:   uploader,
		purger:     purger,
		previewDir: previewDir,
	}
}

// UploadImages processes one file-selection batch. The whole batch is
// rejected up front when it would exceed the image limit or contains a
// non-image file. Files then upload one at a time in selection order, so
// the resulting sequence order is deterministic. A failure mid-batch keeps
// the files already committed and surfaces one generic upload error.
func (s *uploadService) UploadImages(ctx context.Context, sessionID string, files []*multipart.FileHeader) (*dto.FormState, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}

	if err := session.BeginBatch(len(files)); err != nil {
		return nil, err
	}
	defer session.EndBatch()

	for _, fh := range files {
		if !isImageFile(fh) {
			return nil, apperrors.ErrNotAnImage
		}
	}

	for _, fh := range files {
		if err := s.uploadOne(ctx, session, fh); err != nil {
			logger.CtxWithError(ctx, "image upload failed", err,
				"session_id", sessionID, "filename", fh.Filename)
			return nil, apperrors.ErrUploadFailed(err)
		}
	}

	// Clear the busy flag before snapshotting so the returned state already
	// reflects the finished batch. The deferred EndBatch on error paths is a
	// harmless repeat.
	session.EndBatch()
	return session.State(), nil
}

func (s *uploadService) uploadOne(ctx context.Context, session *FormSession, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	handle, err := models.NewPreviewHandle(s.previewDir, src)
	src.Close()
	if err != nil {
		return err
	}

	entry := session.StagePending(handle)

	reader, err := handle.Open()
	if err != nil {
		session.DropEntry(entry)
		return err
	}
	descriptor, err := s.uploader.UploadViaBackend(ctx, fh.Filename, reader)
	reader.Close()
	if err != nil {
		session.DropEntry(entry)
		return err
	}

	// A false commit means the session was reset mid-flight; the upload
	// result is simply discarded.
	if !session.CommitUploaded(entry, descriptor) {
		logger.CtxWarn(ctx, "upload finished after session reset, result discarded",
			"session_id", session.ID(), "filename", fh.Filename)
	}
	return nil
}

func (s *uploadService) PurgeImage(ctx context.Context, publicID string) (*dto.PurgeImageResult, error) {
	if publicID == "" {
		return nil, apperrors.NewBadRequestError("publicId is required")
	}

	result, err := s.purger.Delete(ctx, publicID)
	if err != nil {
		logger.CtxWithError(ctx, "image purge failed", err, "public_id", publicID)
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "upload",
			"Error deleting image", http.StatusBadGateway)
	}
	return &dto.PurgeImageResult{PublicID: publicID, Result: result}, nil
}

// isImageFile checks the part's media type, falling back to the filename
// extension when the client sent no Content-Type.
func isImageFile(fh *multipart.FileHeader) bool {
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))
	}
	return strings.HasPrefix(contentType, "image/")
}

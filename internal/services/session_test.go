package services

import (
	"strings"
	"testing"

	"musicstore_admin/internal/models"
	"musicstore_admin/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandle(t *testing.T) *models.PreviewHandle {
	t.Helper()
	handle, err := models.NewPreviewHandle(t.TempDir(), strings.NewReader("img"))
	require.NoError(t, err)
	return handle
}

func TestFormSession_OpenCreate_StartsEmpty(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	require.NoError(t, s.Open(ModeCreate, nil))

	state := s.State()
	assert.Equal(t, "create", state.Mode)
	assert.Equal(t, models.Instrument{}, state.Form)
	assert.Empty(t, state.Images)
	assert.False(t, state.Uploading)
}

func TestFormSession_OpenEdit_HydratesFromSource(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	source := &models.Instrument{
		ID:         7,
		Name:       "Stratocaster",
		IDCategory: 2,
		ImageURLs:  []string{"http://a/1.png"},
	}
	require.NoError(t, s.Open(ModeEdit, source))

	state := s.State()
	assert.Equal(t, "edit", state.Mode)
	assert.Equal(t, 7, state.Form.ID)
	assert.Equal(t, 2, state.Form.IDCategory)

	require.Len(t, state.Images, 1)
	assert.Equal(t, models.ImageUploaded, state.Images[0].Status)
	assert.True(t, state.Images[0].Existing)
	assert.Equal(t, "http://a/1.png", state.Images[0].Preview)
}

func TestFormSession_OpenEdit_RequiresSourceID(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	assert.Error(t, s.Open(ModeEdit, nil))
	assert.Error(t, s.Open(ModeEdit, &models.Instrument{}))
	assert.Error(t, s.Open("delete", nil))
}

func TestFormSession_Reopen_DiscardsPreviousCycle(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	require.NoError(t, s.Open(ModeCreate, nil))
	require.NoError(t, s.ChangeField("name", "Les Paul", "text"))
	handle := newTestHandle(t)
	s.StagePending(handle)

	require.NoError(t, s.Open(ModeCreate, nil))

	state := s.State()
	assert.Empty(t, state.Form.Name)
	assert.Empty(t, state.Images)
	assert.True(t, handle.Released())
}

func TestFormSession_ChangeField_Coercion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		kind  string
		check func(t *testing.T, form models.Instrument)
	}{
		{"name", "Telecaster", "text", func(t *testing.T, f models.Instrument) {
			assert.Equal(t, "Telecaster", f.Name)
		}},
		{"brand", "Fender", "text", func(t *testing.T, f models.Instrument) {
			assert.Equal(t, "Fender", f.Brand)
		}},
		{"year", "1972", "number", func(t *testing.T, f models.Instrument) {
			assert.Equal(t, "1972", f.Year)
		}},
		{"price", "1499.90", "number", func(t *testing.T, f models.Instrument) {
			assert.Equal(t, "1499.90", f.Price)
		}},
		{"stock", "3", "number", func(t *testing.T, f models.Instrument) {
			assert.Equal(t, "3", f.Stock)
		}},
		{"idCategory", "4", "select", func(t *testing.T, f models.Instrument) {
			assert.Equal(t, 4, f.IDCategory)
		}},
		{"available", "true", "checkbox", func(t *testing.T, f models.Instrument) {
			assert.True(t, f.Available)
		}},
		{"available", "false", "checkbox", func(t *testing.T, f models.Instrument) {
			assert.False(t, f.Available)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			s := newFormSession("s1")
			require.NoError(t, s.Open(ModeCreate, nil))
			require.NoError(t, s.ChangeField(tt.name, tt.value, tt.kind))
			tt.check(t, s.State().Form)
		})
	}
}

func TestFormSession_ChangeField_Unknown(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	require.NoError(t, s.Open(ModeCreate, nil))
	assert.Error(t, s.ChangeField("serial", "x", "text"))
	assert.Error(t, s.ChangeField("idCategory", "not-a-number", "select"))
}

func TestFormSession_ChangeField_EditOnlyCategory(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	source := &models.Instrument{ID: 7, Name: "Stratocaster", IDCategory: 2}
	require.NoError(t, s.Open(ModeEdit, source))

	// Non-category edits are silent no-ops.
	require.NoError(t, s.ChangeField("name", "Hacked", "text"))
	assert.Equal(t, "Stratocaster", s.State().Form.Name)

	require.NoError(t, s.ChangeField("idCategory", "5", "select"))
	assert.Equal(t, 5, s.State().Form.IDCategory)
}

func TestFormSession_RemoveImage(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	require.NoError(t, s.Open(ModeCreate, nil))

	h1 := newTestHandle(t)
	h2 := newTestHandle(t)
	e1 := s.StagePending(h1)
	e2 := s.StagePending(h2)
	require.True(t, s.CommitUploaded(e1, &models.ImageDescriptor{URL: "http://a/1.png"}))
	require.True(t, s.CommitUploaded(e2, &models.ImageDescriptor{URL: "http://a/2.png"}))

	require.NoError(t, s.RemoveImage(0))

	state := s.State()
	require.Len(t, state.Images, 1)
	assert.Equal(t, "http://a/2.png", state.Images[0].Preview)
	assert.True(t, h1.Released())
	assert.False(t, h2.Released())

	assert.Error(t, s.RemoveImage(5))
	assert.Error(t, s.RemoveImage(-1))
}

func TestFormSession_RemoveImage_EditIsNoOp(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	source := &models.Instrument{ID: 7, IDCategory: 2, ImageURLs: []string{"http://a/1.png"}}
	require.NoError(t, s.Open(ModeEdit, source))

	require.NoError(t, s.RemoveImage(0))
	assert.Len(t, s.State().Images, 1)
}

func TestFormSession_BeginBatch_Limits(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	require.NoError(t, s.Open(ModeCreate, nil))

	assert.Error(t, s.BeginBatch(0))
	assert.Error(t, s.BeginBatch(6))

	e := s.StagePending(newTestHandle(t))
	require.True(t, s.CommitUploaded(e, &models.ImageDescriptor{URL: "http://a/1.png"}))

	// 1 committed + 5 incoming exceeds the limit of 5.
	err := s.BeginBatch(5)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "You can only upload up to 5 images", appErr.Message)

	require.NoError(t, s.BeginBatch(4))
	assert.True(t, s.State().Uploading)

	// A second batch while busy is rejected.
	assert.Error(t, s.BeginBatch(1))

	s.EndBatch()
	assert.False(t, s.State().Uploading)
}

func TestFormSession_BeginBatch_EditLocked(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	require.NoError(t, s.Open(ModeEdit, &models.Instrument{ID: 7}))
	assert.ErrorIs(t, s.BeginBatch(1), apperrors.ErrEditLocked)
}

func TestFormSession_CommitUploaded_AfterResetIsDiscarded(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	require.NoError(t, s.Open(ModeCreate, nil))

	handle := newTestHandle(t)
	entry := s.StagePending(handle)

	// The session is reset while the upload is still in flight.
	require.NoError(t, s.Reset())
	assert.True(t, handle.Released())

	committed := s.CommitUploaded(entry, &models.ImageDescriptor{URL: "http://a/1.png"})
	assert.False(t, committed)
	assert.Empty(t, s.State().Images)
}

func TestFormSession_DropEntry_KeepsEarlierCommits(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	require.NoError(t, s.Open(ModeCreate, nil))

	e1 := s.StagePending(newTestHandle(t))
	require.True(t, s.CommitUploaded(e1, &models.ImageDescriptor{URL: "http://a/1.png"}))

	failed := newTestHandle(t)
	e2 := s.StagePending(failed)
	s.DropEntry(e2)

	state := s.State()
	require.Len(t, state.Images, 1)
	assert.Equal(t, "http://a/1.png", state.Images[0].Preview)
	assert.True(t, failed.Released())
}

func TestFormSession_PrepareSubmit_Create(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	require.NoError(t, s.Open(ModeCreate, nil))

	// No category selected.
	_, _, err := s.PrepareSubmit()
	assert.ErrorIs(t, err, apperrors.ErrCategoryRequired)

	require.NoError(t, s.ChangeField("idCategory", "2", "select"))

	// No images at all.
	_, _, err = s.PrepareSubmit()
	assert.ErrorIs(t, err, apperrors.ErrImagesRequired)

	// A staged but not yet uploaded image blocks submit.
	entry := s.StagePending(newTestHandle(t))
	_, _, err = s.PrepareSubmit()
	assert.ErrorIs(t, err, apperrors.ErrImagesNotUploaded)

	require.True(t, s.CommitUploaded(entry, &models.ImageDescriptor{URL: "http://a/1.png"}))
	require.NoError(t, s.ChangeField("name", "Telecaster", "text"))

	payload, mode, err := s.PrepareSubmit()
	require.NoError(t, err)
	assert.Equal(t, ModeCreate, mode)
	assert.Equal(t, "Telecaster", payload.Name)
	assert.Equal(t, []string{"http://a/1.png"}, payload.ImageURLs)
}

func TestFormSession_PrepareSubmit_BusyBlocks(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	require.NoError(t, s.Open(ModeCreate, nil))
	require.NoError(t, s.ChangeField("idCategory", "2", "select"))
	e := s.StagePending(newTestHandle(t))
	require.True(t, s.CommitUploaded(e, &models.ImageDescriptor{URL: "http://a/1.png"}))

	require.NoError(t, s.BeginBatch(1))
	defer s.EndBatch()

	_, _, err := s.PrepareSubmit()
	assert.ErrorIs(t, err, apperrors.ErrImagesNotUploaded)
}

func TestFormSession_PrepareSubmit_EditSendsOnlyIDAndCategory(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	source := &models.Instrument{
		ID:         7,
		Name:       "Stratocaster",
		Brand:      "Fender",
		IDCategory: 2,
		ImageURLs:  []string{"http://a/1.png"},
	}
	require.NoError(t, s.Open(ModeEdit, source))
	require.NoError(t, s.ChangeField("idCategory", "5", "select"))

	payload, mode, err := s.PrepareSubmit()
	require.NoError(t, err)
	assert.Equal(t, ModeEdit, mode)
	assert.Equal(t, &models.Instrument{ID: 7, IDCategory: 5}, payload)
}

func TestFormSession_Reset_ReleasesAllHandlesOnce(t *testing.T) {
	t.Parallel()

	s := newFormSession("s1")
	require.NoError(t, s.Open(ModeCreate, nil))
	require.NoError(t, s.ChangeField("name", "Telecaster", "text"))

	h1 := newTestHandle(t)
	h2 := newTestHandle(t)
	s.StagePending(h1)
	e2 := s.StagePending(h2)
	require.True(t, s.CommitUploaded(e2, &models.ImageDescriptor{URL: "http://a/2.png"}))

	require.NoError(t, s.Reset())

	state := s.State()
	assert.Empty(t, state.Images)
	assert.Equal(t, models.Instrument{}, state.Form)
	assert.True(t, h1.Released())
	assert.True(t, h2.Released())

	// A second reset must not double-release anything.
	assert.NoError(t, s.Reset())
}

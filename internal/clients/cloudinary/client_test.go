package cloudinary

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_UploadViaBackend(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cloudinary/upload", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		require.NoError(t, r.ParseMultipartForm(32<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "guitar.png", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "png bytes", string(data))

		w.Write([]byte(`{"secureUrl":"https://cdn/x.png","publicId":"pid-x","width":800,"height":600,"format":"png"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BackendBaseURL: server.URL})
	descriptor, err := client.UploadViaBackend(context.Background(), "guitar.png", strings.NewReader("png bytes"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn/x.png", descriptor.URL)
	assert.Equal(t, "pid-x", descriptor.PublicID)
	assert.Equal(t, 800, descriptor.Width)
	assert.Equal(t, 600, descriptor.Height)
	assert.Equal(t, "png", descriptor.Format)
}

func TestClient_UploadViaBackend_MissingSecureURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"publicId":"pid-x"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BackendBaseURL: server.URL})
	_, err := client.UploadViaBackend(context.Background(), "guitar.png", strings.NewReader("x"))
	assert.ErrorContains(t, err, "secureUrl")
}

func TestClient_UploadViaBackend_UpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(Config{BackendBaseURL: server.URL})
	_, err := client.UploadViaBackend(context.Background(), "guitar.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_UploadDirect_SendsPreset(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "ml_default", r.FormValue("upload_preset"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "guitar.png", header.Filename)

		w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/x.png"}`))
	}))
	defer server.Close()

	client := NewClient(Config{UploadURL: server.URL, UploadPreset: "ml_default"})
	url, err := client.UploadDirect(context.Background(), "guitar.png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/x.png", url)
}

func TestClient_Delete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/cloudinary/delete/folder%2Fpid-x", r.URL.EscapedPath())
		w.Write([]byte(`{"result":"ok"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BackendBaseURL: server.URL})
	result, err := client.Delete(context.Background(), "folder/pid-x")
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestClient_Delete_UpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not found"))
	}))
	defer server.Close()

	client := NewClient(Config{BackendBaseURL: server.URL})
	_, err := client.Delete(context.Background(), "pid-x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"musicstore_admin/internal/models"
)

// Config holds the image-hosting endpoints. The form uploads through the
// backend proxy; the direct provider path additionally needs the preset.
type Config struct {
	BackendBaseURL string
	UploadURL      string
	UploadPreset   string
	Timeout        time.Duration
}

// Client is a stateless wrapper around the image-hosting API. Errors
// propagate untranslated; callers decide what the user sees.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates an upload client from an explicit config.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	cfg.BackendBaseURL = strings.TrimRight(cfg.BackendBaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// backendUploadResponse is the proxy's descriptor payload.
type backendUploadResponse struct {
	SecureURL string `json:"secureUrl"`
	PublicID  string `json:"publicId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
}

// UploadViaBackend uploads one image through the backend proxy and returns
// the full descriptor.
func (c *Client) UploadViaBackend(ctx context.Context, filename string, r io.Reader) (*models.ImageDescriptor, error) {
	body, contentType, err := multipartBody(filename, r, nil)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BackendBaseURL+"/api/cloudinary/upload", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, statusError("upload", res)
	}

	var parsed backendUploadResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if parsed.SecureURL == "" {
		return nil, fmt.Errorf("upload response missing secureUrl")
	}

	return &models.ImageDescriptor{
		URL:      parsed.SecureURL,
		PublicID: parsed.PublicID,
		Width:    parsed.Width,
		Height:   parsed.Height,
		Format:   parsed.Format,
	}, nil
}

// UploadDirect uploads straight to the provider using the pre-shared upload
// preset. Only the secure URL comes back on this path.
func (c *Client) UploadDirect(ctx context.Context, filename string, r io.Reader) (string, error) {
	fields := map[string]string{"upload_preset": c.cfg.UploadPreset}
	body, contentType, err := multipartBody(filename, r, fields)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.UploadURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", statusError("direct upload", res)
	}

	var parsed struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode direct upload response: %w", err)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("direct upload response missing secure_url")
	}
	return parsed.SecureURL, nil
}

// Delete removes a hosted image by its public id and returns the provider's
// deletion result string.
func (c *Client) Delete(ctx context.Context, publicID string) (string, error) {
	endpoint := c.cfg.BackendBaseURL + "/api/cloudinary/delete/" + url.PathEscape(publicID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return "", err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", statusError("delete", res)
	}

	var parsed struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode delete response: %w", err)
	}
	return parsed.Result, nil
}

// multipartBody builds a multipart form with a single "file" part plus any
// extra fields. Buffered in memory; product images are small.
func multipartBody(filename string, r io.Reader, fields map[string]string) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", err
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func statusError(op string, res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	return fmt.Errorf("%s failed with status %d: %s", op, res.StatusCode, strings.TrimSpace(string(raw)))
}

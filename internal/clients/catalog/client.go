package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"musicstore_admin/internal/logger"
	"musicstore_admin/internal/models"
	"musicstore_admin/pkg/apperrors"
)

// Config holds the catalog API connection settings. Passed in explicitly at
// construction instead of read from the environment inside the client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the instrument/category catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// categoriesEnvelope is the shape the catalog wraps its category list in.
type categoriesEnvelope struct {
	Response *struct {
		Categories []models.Category `json:"categories"`
	} `json:"response"`
}

// Categories fetches the category reference list. Any payload that does not
// match the expected envelope degrades to an empty list with a logged error,
// never a hard failure: the form stays usable without categories loaded.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/categories", nil)
	if err != nil {
		return nil, apperrors.ErrCatalogUnavailable(err, err.Error())
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ErrCatalogUnavailable(err, err.Error())
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, c.statusError(res)
	}

	var envelope categoriesEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		logger.Error("unexpected categories payload shape", "error", err.Error())
		return []models.Category{}, nil
	}
	if envelope.Response == nil || envelope.Response.Categories == nil {
		logger.Error("categories payload missing categories list")
		return []models.Category{}, nil
	}
	return envelope.Response.Categories, nil
}

// CreateInstrument posts the full form payload plus imageUrls and returns
// the created record.
func (c *Client) CreateInstrument(ctx context.Context, inst *models.Instrument) (*models.Instrument, error) {
	return c.sendInstrument(ctx, http.MethodPost, c.baseURL+"/api/instruments", inst)
}

// UpdateInstrumentCategory sends exactly {id, idCategory}: the form supports
// category-only edits, nothing else leaves the client.
func (c *Client) UpdateInstrumentCategory(ctx context.Context, id, idCategory int) (*models.Instrument, error) {
	payload := struct {
		ID         int `json:"id"`
		IDCategory int `json:"idCategory"`
	}{ID: id, IDCategory: idCategory}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	url := fmt.Sprintf("%s/api/instruments/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.ErrCatalogUnavailable(err, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doInstrument(req)
}

func (c *Client) sendInstrument(ctx context.Context, method, url string, inst *models.Instrument) (*models.Instrument, error) {
	body, err := json.Marshal(inst)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.ErrCatalogUnavailable(err, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doInstrument(req)
}

func (c *Client) doInstrument(req *http.Request) (*models.Instrument, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ErrCatalogUnavailable(err, err.Error())
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, c.statusError(res)
	}

	var record models.Instrument
	if err := json.NewDecoder(res.Body).Decode(&record); err != nil {
		return nil, apperrors.ErrCatalogUnavailable(err, "invalid catalog response")
	}
	return &record, nil
}

// statusError maps upstream statuses to the fixed set of user-facing
// messages; anything outside the set surfaces the raw response.
func (c *Client) statusError(res *http.Response) *apperrors.AppError {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	cause := fmt.Errorf("catalog returned status %d: %s", res.StatusCode, strings.TrimSpace(string(raw)))

	switch {
	case res.StatusCode == http.StatusConflict:
		return apperrors.ErrInstrumentExists(cause)
	case res.StatusCode == http.StatusBadRequest:
		return apperrors.ErrInvalidInstrument(cause)
	case res.StatusCode >= 500:
		return apperrors.ErrCatalogServer(cause)
	default:
		return apperrors.ErrCatalogUnavailable(cause, cause.Error())
	}
}

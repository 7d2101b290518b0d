package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the external image-hosting service. The service is a black
// box: it accepts an image payload and returns a public URL plus an opaque
// deletion id.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// UploadResult is the hosted image handle returned by the service.
type UploadResult struct {
	URL      string
	DeleteID string
}

// New builds an image host client. The base URL and API key come from
// configuration; the HTTP client carries a short request timeout.
func New(baseURL, apiKey string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("image host base url is required")
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}, nil
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
		ID  string `json:"id"`
	} `json:"data"`
	Error string `json:"error"`
}

// Upload pushes the image bytes and returns the public URL and deletion id.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, errors.New("image payload is empty")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart payload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("build multipart payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build multipart payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/upload?key=%s", c.baseURL, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image host upload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return nil, fmt.Errorf("image host upload failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
		}
		return nil, fmt.Errorf("image host upload failed: %s", resp.Status)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode image host response: %w", err)
	}
	if !parsed.Success || parsed.Data.URL == "" {
		if parsed.Error != "" {
			return nil, fmt.Errorf("image host upload rejected: %s", parsed.Error)
		}
		return nil, errors.New("image host upload rejected")
	}

	return &UploadResult{
		URL:      parsed.Data.URL,
		DeleteID: parsed.Data.ID,
	}, nil
}

// Delete removes a previously uploaded image by its opaque id.
func (c *Client) Delete(ctx context.Context, deleteID string) error {
	if strings.TrimSpace(deleteID) == "" {
		return errors.New("delete id is required")
	}

	endpoint := fmt.Sprintf("%s/images/%s?key=%s", c.baseURL, url.PathEscape(deleteID), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("image host delete: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("image host delete failed: %s", resp.Status)
	}
	return nil
}

// Package client talks to the Unsplash photo API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aouyang1/imageslider/api/models"
	"github.com/aouyang1/imageslider/carousel"
)

const DefaultBaseURL = "https://api.unsplash.com"

// ErrUnexpectedFormat is returned when the photo listing is not a JSON array.
var ErrUnexpectedFormat = errors.New("unexpected data format")

type UnsplashClient struct {
	baseURL   string
	accessKey string
	client    *http.Client
}

func NewUnsplashClient(baseURL, accessKey string, httpClient *http.Client) *UnsplashClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &UnsplashClient{
		baseURL:   baseURL,
		accessKey: accessKey,
		client:    httpClient,
	}
}

func (uc *UnsplashClient) photosURL(perPage int) string {
	query := url.Values{}
	query.Set("client_id", uc.accessKey)
	query.Set("per_page", strconv.Itoa(perPage))
	return fmt.Sprintf("%s/photos?%s", uc.baseURL, query.Encode())
}

// ListImages fetches the first page of photos.
func (uc *UnsplashClient) ListImages(ctx context.Context, perPage int) ([]carousel.ImageRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uc.photosURL(perPage), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept-Version", "v1")

	resp, err := uc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, preview(body))
	}

	return ParsePhotos(body)
}

// ParsePhotos decodes a photo listing body. Anything other than a JSON array
// is reported as ErrUnexpectedFormat.
func ParsePhotos(body []byte) ([]carousel.ImageRecord, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedFormat, preview(body))
	}

	var photos []models.UnsplashPhoto
	if err := json.Unmarshal(raw, &photos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedFormat, err)
	}

	images := make([]carousel.ImageRecord, len(photos))
	for i, p := range photos {
		images[i] = carousel.ImageRecord{
			ID:         p.ID,
			DisplayURL: p.URLs.Regular,
			AltText:    p.AltDescription,
			Caption:    p.Description,
			AuthorName: p.User.Name,
		}
	}
	return images, nil
}

func preview(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

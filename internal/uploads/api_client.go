package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Credential mirrors the write-credential payload returned by the API.
type Credential struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

// RecordInput is the metadata committed after a successful upload.
type RecordInput struct {
	Key           string  `json:"key"`
	URL           string  `json:"url"`
	ThumbKey      *string `json:"thumb_key,omitempty"`
	ThumbURL      *string `json:"thumb_url,omitempty"`
	Title         string  `json:"title,omitempty"`
	Description   string  `json:"description,omitempty"`
	Tag           string  `json:"tag,omitempty"`
	Location      string  `json:"location,omitempty"`
	ExifMake      string  `json:"exif_make,omitempty"`
	ExifModel     string  `json:"exif_model,omitempty"`
	ExifLens      string  `json:"exif_lens,omitempty"`
	ExifFNumber   string  `json:"exif_fnumber,omitempty"`
	ExifExposure  string  `json:"exif_exposure,omitempty"`
	ExifISO       string  `json:"exif_iso,omitempty"`
	ExifFocal     string  `json:"exif_focal,omitempty"`
	ExifTakenAt   string  `json:"exif_taken_at,omitempty"`
	ExifLat       string  `json:"exif_lat,omitempty"`
	ExifLng       string  `json:"exif_lng,omitempty"`
	Featured      bool    `json:"featured"`
	Visibility    string  `json:"visibility,omitempty"`
	AlbumPublicID string  `json:"album_id,omitempty"`
}

// ImageRecord is the slice of an image listing the pipeline cares about.
type ImageRecord struct {
	ID       int64  `json:"id"`
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// ServerError is a non-2xx API response with the server's public message.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// APIClient talks to the portfolio backend on behalf of the pipeline.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIClient builds a client for the given base URL. The token is sent as a
// bearer header on every call.
func NewAPIClient(baseURL, token string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// RequestCredential asks the API for a one-shot write credential.
func (c *APIClient) RequestCredential(ctx context.Context, fileName, contentType string) (*Credential, error) {
	body := map[string]string{"file_name": fileName, "content_type": contentType}
	var cred Credential
	if err := c.postJSON(ctx, "/api/v1/credentials", body, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// PutObject uploads bytes directly to the presigned URL.
func (c *APIClient) PutObject(ctx context.Context, uploadURL, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &ServerError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(excerpt))}
	}
	return nil
}

// CommitRecord persists the metadata row for an uploaded object.
func (c *APIClient) CommitRecord(ctx context.Context, input RecordInput) error {
	return c.postJSON(ctx, "/api/v1/images/record", input, nil)
}

// ListImages refreshes the image listing after a completed upload.
func (c *APIClient) ListImages(ctx context.Context) ([]ImageRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/images", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.serverError(resp)
	}

	var envelope struct {
		Data []ImageRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding image listing: %w", err)
	}
	return envelope.Data, nil
}

func (c *APIClient) postJSON(ctx context.Context, path string, payload any, dest any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.serverError(resp)
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

func (c *APIClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// serverError extracts the public message from an error envelope, falling
// back to the raw body when the response is not shaped as expected.
func (c *APIClient) serverError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(raw, &envelope); err == nil {
		message = strings.TrimSpace(envelope.Error.Message)
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	return &ServerError{StatusCode: resp.StatusCode, Message: message}
}

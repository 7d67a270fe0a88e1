package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrObjectNotFound  = errors.New("Object not found")
	ErrStorageDisabled = errors.New("Object storage is not configured")
)

// StorageClient defines what we need from the object storage signing service.
type StorageClient interface {
	SignObjectURL(ctx context.Context, bucket, object, method string, ttl time.Duration) (string, error)
}

// SidecarClient is a StorageClient backed by the storage sidecar's HTTP API.
type SidecarClient struct {
	BaseURL string
	Client  *http.Client
}

const defaultSidecarURL = "http://127.0.0.1:1106"

type signRequest struct {
	BucketName string `json:"bucket_name"`
	ObjectName string `json:"object_name"`
	Method     string `json:"method"`
	ExpiresAt  string `json:"expires_at"`
}

type signResponse struct {
	SignedURL string `json:"signed_url"`
}

func (c *SidecarClient) SignObjectURL(ctx context.Context, bucket, object, method string, ttl time.Duration) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	base := c.BaseURL
	if base == "" {
		base = defaultSidecarURL
	}
	payload := signRequest{
		BucketName: bucket,
		ObjectName: object,
		Method:     method,
		ExpiresAt:  time.Now().Add(ttl).UTC().Format(time.RFC3339),
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	endpoint := strings.TrimRight(base, "/") + "/object-storage/signed-object-url"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage sidecar request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage sidecar error: status %d body: %s", resp.StatusCode, string(respBody))
	}
	var data signResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("storage sidecar response decode: %w", err)
	}
	if data.SignedURL == "" {
		return "", fmt.Errorf("storage sidecar returned no signed URL, body: %s", string(respBody))
	}
	return data.SignedURL, nil
}

// Service encapsulates object storage access. PrivateDir holds uploaded
// objects addressed as /objects/<id>; PublicSearchPaths are bucket prefixes
// searched, in order, for publicly served assets.
type Service struct {
	Client            StorageClient
	PrivateDir        string
	PublicSearchPaths []string
}

type UploadResult struct {
	UploadURL  string `json:"uploadUrl"`
	ObjectPath string `json:"objectPath"`
}

// GetUploadURL mints a short-lived PUT URL for a fresh object under the
// private directory.
func (s *Service) GetUploadURL(ctx context.Context) (*UploadResult, error) {
	if s.PrivateDir == "" {
		return nil, ErrStorageDisabled
	}
	objectID := uuid.New().String()
	fullPath := strings.TrimRight(s.PrivateDir, "/") + "/uploads/" + objectID
	bucket, object, err := splitObjectPath(fullPath)
	if err != nil {
		return nil, err
	}
	signed, err := s.Client.SignObjectURL(ctx, bucket, object, http.MethodPut, 15*time.Minute)
	if err != nil {
		return nil, err
	}
	return &UploadResult{UploadURL: signed, ObjectPath: "/objects/uploads/" + objectID}, nil
}

// ResolveObjectURL mints a GET URL for the object addressed by an
// /objects/... path, falling back to the public search paths.
func (s *Service) ResolveObjectURL(ctx context.Context, objectPath string) (string, error) {
	rel := strings.TrimPrefix(objectPath, "/objects/")
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return "", ErrObjectNotFound
	}
	var candidates []string
	if s.PrivateDir != "" {
		candidates = append(candidates, strings.TrimRight(s.PrivateDir, "/")+"/"+rel)
	}
	for _, p := range s.PublicSearchPaths {
		if p == "" {
			continue
		}
		candidates = append(candidates, strings.TrimRight(p, "/")+"/"+rel)
	}
	if len(candidates) == 0 {
		return "", ErrStorageDisabled
	}
	var lastErr error
	for _, full := range candidates {
		bucket, object, err := splitObjectPath(full)
		if err != nil {
			lastErr = err
			continue
		}
		signed, err := s.Client.SignObjectURL(ctx, bucket, object, http.MethodGet, 15*time.Minute)
		if err != nil {
			lastErr = err
			continue
		}
		return signed, nil
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", ErrObjectNotFound
}

// NormalizeObjectPath rewrites a raw storage URL returned by the browser
// after a direct upload into the stable /objects/... address stored in the
// database. Inputs already in /objects/ form pass through unchanged.
func (s *Service) NormalizeObjectPath(raw string) string {
	if strings.HasPrefix(raw, "/objects/") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return raw
	}
	if s.PrivateDir == "" {
		return raw
	}
	prefix := strings.TrimRight(s.PrivateDir, "/") + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return raw
	}
	return "/objects/" + strings.TrimPrefix(u.Path, prefix)
}

// splitObjectPath splits "/bucket/rest/of/object" into its bucket and object
// name components.
func splitObjectPath(full string) (string, string, error) {
	trimmed := strings.TrimPrefix(full, "/")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid object path %q", full)
	}
	return parts[0], parts[1], nil
}

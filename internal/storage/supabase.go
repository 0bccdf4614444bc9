package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Uploader is what the publish flow needs from object storage.
type Uploader interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (publicURL string, err error)
}

// SupabaseClient uploads objects through the Supabase storage HTTP API.
type SupabaseClient struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

// Upload writes the object and returns its public URL. The bucket must be
// public for the returned URL to serve.
func (c *SupabaseClient) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if c.BaseURL == "" {
		return "", fmt.Errorf("supabase: SUPABASE_URL is not set")
	}
	if c.SecretKey == "" {
		return "", fmt.Errorf("supabase: SUPABASE_SECRET_KEY is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", base, bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	// supabase-js sends both apikey and Authorization Bearer (same key)
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyStr := string(respBody)
		if resp.StatusCode == 400 || resp.StatusCode == 403 {
			if strings.Contains(bodyStr, "Invalid Compact JWS") || strings.Contains(bodyStr, "Unauthorized") {
				return "", fmt.Errorf("supabase storage requires the service_role key (secret), not the anon key: set SUPABASE_SECRET_KEY to your project's service_role key (raw body: %s)", bodyStr)
			}
		}
		return "", fmt.Errorf("supabase error: status %d body: %s", resp.StatusCode, bodyStr)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", base, bucket, path), nil
}

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SupabaseStore talks to Supabase Storage over its REST API. Whether it can
// remove objects depends on the key it was built with: the anon key is
// bound by bucket policies, the service-role key bypasses them.
type SupabaseStore struct {
	projectID  string
	apiKey     string
	bucket     string
	httpClient *http.Client
}

func NewSupabase(projectID, apiKey, bucket string) *SupabaseStore {
	return &SupabaseStore{
		projectID:  projectID,
		apiKey:     apiKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *SupabaseStore) objectURL(objectName string) string {
	return fmt.Sprintf("https://%s.supabase.co/storage/v1/object/%s/%s",
		s.projectID, s.bucket, objectName)
}

func (s *SupabaseStore) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL(objectName), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, msg)
	}
	return objectName, nil
}

func (s *SupabaseStore) Remove(ctx context.Context, objectName string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(objectName), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("remove failed with status %d: %s", resp.StatusCode, msg)
	}
	return nil
}

func (s *SupabaseStore) SignedURL(ctx context.Context, objectName string, ttl time.Duration) (string, error) {
	signURL := fmt.Sprintf("https://%s.supabase.co/storage/v1/object/sign/%s/%s",
		s.projectID, s.bucket, objectName)

	payload, _ := json.Marshal(map[string]int64{"expiresIn": int64(ttl.Seconds())})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("sign failed with status %d: %s", resp.StatusCode, msg)
	}

	var out struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode sign response: %w", err)
	}
	return fmt.Sprintf("https://%s.supabase.co/storage/v1%s", s.projectID, out.SignedURL), nil
}

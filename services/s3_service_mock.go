package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MockS3Service is an in-memory S3Interface. Its clock is frozen at the Unix
// epoch, so an upload of widget.png always lands at products/0_widget.png.
type MockS3Service struct {
	mu      sync.RWMutex
	objects map[string]mockObject
}

type mockObject struct {
	body        []byte
	contentType string
}

// NewMockS3Service creates an empty bucket
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{objects: make(map[string]mockObject)}
}

// Now is the clock used for object keys
func (m *MockS3Service) Now() time.Time {
	return time.Unix(0, 0)
}

// PutObject keeps a copy of body under key
func (m *MockS3Service) PutObject(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object body: %w", err)
	}

	m.mu.Lock()
	m.objects[key] = mockObject{body: data, contentType: contentType}
	m.mu.Unlock()
	return nil
}

// PresignGetObject returns a fake presigned URL for a stored key
func (m *MockS3Service) PresignGetObject(_ context.Context, key string) (string, error) {
	if !m.FileExists(key) {
		return "", fmt.Errorf("no such key in mock bucket: %s", key)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteObject forgets key; unknown keys are ignored like in S3
func (m *MockS3Service) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// GetUploadedFiles returns a copy of every stored body by key
func (m *MockS3Service) GetUploadedFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string][]byte, len(m.objects))
	for key, obj := range m.objects {
		files[key] = obj.body
	}
	return files
}

// ContentType reports the content type key was stored with
func (m *MockS3Service) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[key].contentType
}

// FileExists checks if key is stored
func (m *MockS3Service) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

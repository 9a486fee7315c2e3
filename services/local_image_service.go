package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/kendall-kelly/production-tracker-api/utils"
)

// LocalImageService keeps product images on local disk. It is used when no
// S3 bucket is configured; images are served by GET /api/v1/uploads/:filename.
type LocalImageService struct {
	dir string
	seq atomic.Uint64
}

// NewLocalImageService stores images under dir
func NewLocalImageService(dir string) *LocalImageService {
	return &LocalImageService{dir: dir}
}

// UploadImage validates the file and writes it under a unique name
func (s *LocalImageService) UploadImage(_ context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d_%d%s", time.Now().Unix(), s.seq.Add(1), utils.AllowedImageFormat)
	return utils.SaveUploadedFile(fileHeader, s.dir, name)
}

// GetImageURL returns the API path of a stored image
func (s *LocalImageService) GetImageURL(_ context.Context, imageKey string) (string, error) {
	return utils.GetImageURL(imageKey), nil
}

// DeleteImage removes a stored image; missing files are ignored
func (s *LocalImageService) DeleteImage(_ context.Context, imageKey string) error {
	if imageKey == "" || !utils.IsSafeFilename(imageKey) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, imageKey)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

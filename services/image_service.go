package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"sync"
	"time"

	"github.com/kendall-kelly/production-tracker-api/config"
	"github.com/kendall-kelly/production-tracker-api/utils"
)

// ImageService stores product images and resolves the URL clients load them from
type ImageService interface {
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)
	GetImageURL(ctx context.Context, imageKey string) (string, error)
	DeleteImage(ctx context.Context, imageKey string) error
}

var (
	imageMu      sync.RWMutex
	imageService ImageService
)

// ConfigureImageService installs the process-wide image backend: the S3
// bucket when one is configured, the local upload directory otherwise
func ConfigureImageService(ctx context.Context, cfg *config.Config) (ImageService, error) {
	if !cfg.HasS3() {
		local := NewLocalImageService(utils.UploadDir)
		SetImageService(local)
		return local, nil
	}

	store, err := NewS3Service(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return InitImageService(store), nil
}

// InitImageService installs an S3-backed image service over store
func InitImageService(store S3Interface) ImageService {
	images := NewS3ImageService(store)
	SetImageService(images)
	return images
}

// GetImageService returns the process-wide image service, nil when storage is not configured
func GetImageService() ImageService {
	imageMu.RLock()
	defer imageMu.RUnlock()
	return imageService
}

// SetImageService replaces the process-wide image service
func SetImageService(service ImageService) {
	imageMu.Lock()
	imageService = service
	imageMu.Unlock()
}

// ObjectKey builds the bucket key for an uploaded product image
func ObjectKey(filename string, at time.Time) string {
	return fmt.Sprintf("products/%d_%s", at.Unix(), filepath.Base(filename))
}

// S3ImageService keeps product images in a bucket under products/
type S3ImageService struct {
	s3Service S3Interface
	now       func() time.Time
}

// NewS3ImageService stores images in store. Stores that carry their own
// clock (see MockS3Service) decide the timestamp in object keys.
func NewS3ImageService(store S3Interface) *S3ImageService {
	images := &S3ImageService{s3Service: store, now: time.Now}
	if clock, ok := store.(interface{ Now() time.Time }); ok {
		images.now = clock.Now
	}
	return images
}

// UploadImage validates the file and puts it in the bucket
func (s *S3ImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("warning: failed to close upload %s: %v", fileHeader.Filename, err)
		}
	}()

	key := ObjectKey(fileHeader.Filename, s.now())
	if err := s.s3Service.PutObject(ctx, key, file, utils.ImageContentType); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

// GetImageURL presigns a GET URL for the image
func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}
	url, err := s.s3Service.PresignGetObject(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

// DeleteImage removes the image from the bucket
func (s *S3ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}
	if err := s.s3Service.DeleteObject(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

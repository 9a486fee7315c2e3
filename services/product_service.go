package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"github.com/kendall-kelly/production-tracker-api/models"
	"gorm.io/gorm"
)

// DefaultProductionTime is used when a product is created without an estimate
const DefaultProductionTime = 1.0

// ProductInput is the payload for creating a product
type ProductInput struct {
	Code                    string            `json:"code" yaml:"code" binding:"required"`
	Name                    string            `json:"name" yaml:"name" binding:"required"`
	Description             string            `json:"description" yaml:"description"`
	Category                string            `json:"category" yaml:"category"`
	Price                   float64           `json:"price" yaml:"price"`
	EstimatedProductionTime float64           `json:"estimated_production_time" yaml:"estimated_production_time"`
	Materials               []models.Material `json:"materials" yaml:"materials"`
	Notes                   string            `json:"notes" yaml:"notes"`
}

// ProductPatch updates only the fields that are present
type ProductPatch struct {
	Code                    *string            `json:"code"`
	Name                    *string            `json:"name"`
	Description             *string            `json:"description"`
	Category                *string            `json:"category"`
	Price                   *float64           `json:"price"`
	EstimatedProductionTime *float64           `json:"estimated_production_time"`
	Materials               *[]models.Material `json:"materials"`
	Notes                   *string            `json:"notes"`
}

// ProductService is the catalog store
type ProductService struct {
	db     *gorm.DB
	images ImageService
}

// NewProductService creates a catalog store backed by db.
// Image operations use the process-wide image service.
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db, images: GetImageService()}
}

// WithImageService overrides the image backend
func (s *ProductService) WithImageService(images ImageService) *ProductService {
	s.images = images
	return s
}

// List returns all products ordered by code
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("code ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	for i := range products {
		s.resolveImageURL(ctx, &products[i])
	}
	return products, nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := findProduct(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	s.resolveImageURL(ctx, product)
	return product, nil
}

// Create adds a product to the catalog
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if strings.TrimSpace(in.Code) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, invalidInput("Product code and name are required")
	}
	if in.EstimatedProductionTime == 0 {
		in.EstimatedProductionTime = DefaultProductionTime
	}
	if err := validateProductNumbers(in.Price, in.EstimatedProductionTime); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureProductCodeFree(db, in.Code, 0); err != nil {
		return nil, err
	}

	product := models.Product{
		Code:                    in.Code,
		Name:                    in.Name,
		Description:             in.Description,
		Category:                in.Category,
		Price:                   in.Price,
		EstimatedProductionTime: in.EstimatedProductionTime,
		Materials:               in.Materials,
		Notes:                   in.Notes,
	}
	if product.Materials == nil {
		product.Materials = []models.Material{}
	}

	if err := db.Create(&product).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, productExists(in.Code)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// Update applies a patch to a product. Orders keep their price snapshots.
func (s *ProductService) Update(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	db := s.db.WithContext(ctx)
	product, err := findProduct(db, id)
	if err != nil {
		return nil, err
	}

	if patch.Code != nil {
		if strings.TrimSpace(*patch.Code) == "" {
			return nil, invalidInput("Product code cannot be empty")
		}
		if *patch.Code != product.Code {
			if err := ensureProductCodeFree(db, *patch.Code, product.ID); err != nil {
				return nil, err
			}
		}
		product.Code = *patch.Code
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, invalidInput("Product name cannot be empty")
		}
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.EstimatedProductionTime != nil {
		product.EstimatedProductionTime = *patch.EstimatedProductionTime
	}
	if patch.Materials != nil {
		product.Materials = *patch.Materials
	}
	if patch.Notes != nil {
		product.Notes = *patch.Notes
	}

	if err := validateProductNumbers(product.Price, product.EstimatedProductionTime); err != nil {
		return nil, err
	}

	if err := db.Save(product).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, productExists(product.Code)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	s.resolveImageURL(ctx, product)
	return product, nil
}

// Delete removes a product. Orders and activities that reference it are left untouched.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	product, err := findProduct(db, id)
	if err != nil {
		return err
	}

	if err := db.Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if product.ImageS3Key != nil && s.images != nil {
		if err := s.images.DeleteImage(ctx, *product.ImageS3Key); err != nil {
			log.Printf("warning: failed to delete image %s of product %d: %v", *product.ImageS3Key, product.ID, err)
		}
	}
	return nil
}

// AttachImage uploads a PNG for the product and replaces any previous image
func (s *ProductService) AttachImage(ctx context.Context, id uint, fileHeader *multipart.FileHeader) (*models.Product, error) {
	if s.images == nil {
		return nil, invalidState("IMAGE_STORAGE_UNAVAILABLE", "Image storage is not configured")
	}

	db := s.db.WithContext(ctx)
	product, err := findProduct(db, id)
	if err != nil {
		return nil, err
	}

	key, err := s.images.UploadImage(ctx, fileHeader)
	if err != nil {
		return nil, err
	}

	previous := product.ImageS3Key
	if err := db.Model(product).Update("image_s3_key", key).Error; err != nil {
		return nil, fmt.Errorf("failed to save product image: %w", err)
	}
	product.ImageS3Key = &key

	if previous != nil && *previous != key {
		if err := s.images.DeleteImage(ctx, *previous); err != nil {
			log.Printf("warning: failed to delete previous image %s: %v", *previous, err)
		}
	}

	s.resolveImageURL(ctx, product)
	return product, nil
}

func (s *ProductService) resolveImageURL(ctx context.Context, product *models.Product) {
	if product.ImageS3Key == nil || s.images == nil {
		return
	}
	url, err := s.images.GetImageURL(ctx, *product.ImageS3Key)
	if err != nil {
		log.Printf("warning: failed to resolve image URL for product %d: %v", product.ID, err)
		return
	}
	product.ImageURL = &url
}

func findProduct(db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("PRODUCT_NOT_FOUND", "Product with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to load product %d: %w", id, err)
	}
	return &product, nil
}

func ensureProductCodeFree(db *gorm.DB, code string, exceptID uint) error {
	var count int64
	if err := db.Model(&models.Product{}).Where("code = ? AND id <> ?", code, exceptID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check product code: %w", err)
	}
	if count > 0 {
		return productExists(code)
	}
	return nil
}

func productExists(code string) *ServiceError {
	return conflict("PRODUCT_EXISTS", "Product with code %s already exists", code)
}

func validateProductNumbers(price, productionTime float64) error {
	if price < 0 {
		return invalidInput("Product price cannot be negative")
	}
	if productionTime <= 0 {
		return invalidInput("Estimated production time must be greater than zero")
	}
	return nil
}

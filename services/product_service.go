package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodorder/apperr"
	"foodorder/models"
	"foodorder/mylogger"
	"foodorder/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	IsAvailable *bool
	Image       string
}

type ProductService interface {
	Create(ctx context.Context, admin models.AdminIdentity, in ProductInput) (*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, category string) ([]models.Product, error)
	Update(ctx context.Context, admin models.AdminIdentity, id string, patch models.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, admin models.AdminIdentity, id string) error
}

type productService struct {
	products repository.ProductRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewProductService(products repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productService{products: products, logger: logger, now: time.Now}
}

func (s *productService) Create(ctx context.Context, admin models.AdminIdentity, in ProductInput) (*models.Product, error) {
	if !admin.Valid() {
		return nil, apperr.Forbidden("admin only")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.InvalidInput("name is required")
	}
	if in.Price <= 0 {
		return nil, apperr.InvalidInput("price must be greater than 0")
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	now := s.now().UTC()
	product := &models.Product{
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		IsAvailable: available,
		Image:       in.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to create product", zap.Error(err))
		return nil, apperr.Internal(err, "failed to create product")
	}
	return product, nil
}

func (s *productService) Get(ctx context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.InvalidInput("invalid product id")
	}

	product, err := s.products.FindByID(ctx, objID)
	if err != nil {
		return nil, s.mapError(ctx, err)
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.products.List(ctx, strings.TrimSpace(category))
	if err != nil {
		mylogger.Error(ctx, s.logger, "Failed to list products", zap.Error(err))
		return nil, apperr.Internal(err, "failed to list products")
	}
	return products, nil
}

func (s *productService) Update(ctx context.Context, admin models.AdminIdentity, id string, patch models.ProductPatch) (*models.Product, error) {
	if !admin.Valid() {
		return nil, apperr.Forbidden("admin only")
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.InvalidInput("invalid product id")
	}
	if patch.Empty() {
		return nil, apperr.InvalidInput("nothing to update")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.InvalidInput("name cannot be empty")
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return nil, apperr.InvalidInput("price must be greater than 0")
	}

	product, err := s.products.Update(ctx, objID, patch, s.now().UTC())
	if err != nil {
		return nil, s.mapError(ctx, err)
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, admin models.AdminIdentity, id string) error {
	if !admin.Valid() {
		return apperr.Forbidden("admin only")
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.InvalidInput("invalid product id")
	}

	if err := s.products.Delete(ctx, objID); err != nil {
		return s.mapError(ctx, err)
	}
	return nil
}

func (s *productService) mapError(ctx context.Context, err error) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return apperr.NotFound("product not found")
	}
	mylogger.Error(ctx, s.logger, "Product store failure", zap.Error(err))
	return apperr.Internal(err, "product store failure")
}

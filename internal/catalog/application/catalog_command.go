package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/onlineshop/internal/catalog/domain"
	"github.com/wyfcoding/onlineshop/pkg/utils"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	Width        int
	Height       int
	Image        string
	CategorySlug string
}

// UpdateProductCommand 更新商品命令
type UpdateProductCommand struct {
	ProductID   uint
	Name        string
	Description string
	Price       decimal.Decimal
	Width       int
	Height      int
	Image       string
}

// CreateCategoryCommand 创建分类命令
type CreateCategoryCommand struct {
	Name string
}

// CreateManufacturerCommand 创建生产商命令
type CreateManufacturerCommand struct {
	Name string
}

// ProductCache 商品详情缓存，更新时用于失效
type ProductCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	products      domain.ProductRepository
	categories    domain.CategoryRepository
	manufacturers domain.ManufacturerRepository
	views         domain.ViewRepository
	publisher     domain.EventPublisher
	cache         ProductCache
}

// NewCatalogCommandService 创建商品目录命令服务实例
func NewCatalogCommandService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	manufacturers domain.ManufacturerRepository,
	views domain.ViewRepository,
	publisher domain.EventPublisher,
	cache ProductCache,
) *CatalogCommandService {
	return &CatalogCommandService{
		products:      products,
		categories:    categories,
		manufacturers: manufacturers,
		views:         views,
		publisher:     publisher,
		cache:         cache,
	}
}

// CreateProduct 处理创建商品
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	category, err := s.categories.GetBySlug(ctx, cmd.CategorySlug)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        cmd.Name,
		Slug:        utils.Slugify(cmd.Name),
		Price:       cmd.Price,
		Width:       cmd.Width,
		Height:      cmd.Height,
		Description: cmd.Description,
		Image:       cmd.Image,
		CategoryID:  category.ID,
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	event := domain.ProductCreatedEvent{
		ProductID: product.ID,
		Name:      product.Name,
		Slug:      product.Slug,
		Price:     product.Price,
		Category:  category.Slug,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "catalog.product.created", product.Slug, event)

	return product, nil
}

// UpdateProduct 处理更新商品，价格等字段变更后使缓存失效
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	oldSlug := product.Slug
	product.Name = cmd.Name
	product.Slug = utils.Slugify(cmd.Name)
	product.Price = cmd.Price
	product.Width = cmd.Width
	product.Height = cmd.Height
	product.Description = cmd.Description
	product.Image = cmd.Image

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	// 已缓存的详情不再有效
	s.cache.Delete(ctx, productCacheKey(oldSlug), productCacheKey(product.Slug))

	event := domain.ProductUpdatedEvent{
		ProductID: product.ID,
		Name:      product.Name,
		Slug:      product.Slug,
		Price:     product.Price,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "catalog.product.updated", product.Slug, event)

	return product, nil
}

// CreateCategory 处理创建分类
func (s *CatalogCommandService) CreateCategory(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	category := &domain.Category{
		Name: cmd.Name,
		Slug: utils.Slugify(cmd.Name),
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateManufacturer 处理创建生产商
func (s *CatalogCommandService) CreateManufacturer(ctx context.Context, cmd CreateManufacturerCommand) (*domain.Manufacturer, error) {
	manufacturer := &domain.Manufacturer{Name: cmd.Name}
	if err := s.manufacturers.Save(ctx, manufacturer); err != nil {
		return nil, err
	}
	return manufacturer, nil
}

// RecordView 记录用户对商品的浏览，同一 (product, user) 只记录一次；匿名用户不记录
func (s *CatalogCommandService) RecordView(ctx context.Context, productID uint, userID string) error {
	if userID == "" {
		return nil
	}

	if err := s.views.RecordView(ctx, productID, userID); err != nil {
		return err
	}

	event := domain.ProductViewedEvent{
		ProductID: productID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "catalog.product.viewed", userID, event)

	return nil
}

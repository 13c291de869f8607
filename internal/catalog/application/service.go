package application

import (
	"context"

	"github.com/wyfcoding/onlineshop/internal/catalog/domain"
)

// CatalogService 商品目录服务门面，整合命令服务和查询服务
type CatalogService struct {
	commandService *CatalogCommandService
	queryService   *CatalogQueryService
}

// NewCatalogService 创建商品目录服务门面实例
func NewCatalogService(
	commandService *CatalogCommandService,
	queryService *CatalogQueryService,
) *CatalogService {
	return &CatalogService{
		commandService: commandService,
		queryService:   queryService,
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	return s.commandService.CreateProduct(ctx, cmd)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	return s.commandService.UpdateProduct(ctx, cmd)
}

func (s *CatalogService) CreateCategory(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	return s.commandService.CreateCategory(ctx, cmd)
}

func (s *CatalogService) CreateManufacturer(ctx context.Context, cmd CreateManufacturerCommand) (*domain.Manufacturer, error) {
	return s.commandService.CreateManufacturer(ctx, cmd)
}

func (s *CatalogService) RecordView(ctx context.Context, productID uint, userID string) error {
	return s.commandService.RecordView(ctx, productID, userID)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.queryService.GetProduct(ctx, id)
}

func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	return s.queryService.GetProductBySlug(ctx, slug)
}

func (s *CatalogService) ListProducts(ctx context.Context, categorySlug string, page, size int) (*ProductPage, error) {
	return s.queryService.ListProducts(ctx, categorySlug, page, size)
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	return s.queryService.Search(ctx, query)
}

func (s *CatalogService) PopularProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.queryService.PopularProducts(ctx)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.queryService.ListCategories(ctx)
}

func (s *CatalogService) ListManufacturers(ctx context.Context) ([]*domain.Manufacturer, error) {
	return s.queryService.ListManufacturers(ctx)
}

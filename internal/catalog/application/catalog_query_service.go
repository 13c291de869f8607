package application

import (
	"context"
	"time"

	"github.com/wyfcoding/onlineshop/internal/catalog/domain"
	"github.com/wyfcoding/onlineshop/pkg/logger"
	"github.com/wyfcoding/onlineshop/pkg/utils"
)

const (
	productCachePrefix = "catalog:product:"
	productCacheTTL    = 10 * time.Minute

	searchLimit  = 50
	popularCount = 6
	maxPageSize  = 100
)

func productCacheKey(slug string) string { return productCachePrefix + slug }

// ProductDetail 商品详情视图，含浏览次数
type ProductDetail struct {
	Product   *domain.Product `json:"product"`
	ViewCount int64           `json:"view_count"`
}

// ProductPage 商品分页视图
type ProductPage struct {
	Products []*domain.Product `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Size     int               `json:"size"`
}

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	products      domain.ProductRepository
	categories    domain.CategoryRepository
	manufacturers domain.ManufacturerRepository
	views         domain.ViewRepository
	cache         ProductCache
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	manufacturers domain.ManufacturerRepository,
	views domain.ViewRepository,
	cache ProductCache,
) *CatalogQueryService {
	return &CatalogQueryService{
		products:      products,
		categories:    categories,
		manufacturers: manufacturers,
		views:         views,
		cache:         cache,
	}
}

// GetProduct 根据ID获取商品信息
func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// GetProductBySlug 根据 slug 获取商品详情，商品本体走 Redis 读穿缓存，浏览次数实时查询
func (s *CatalogQueryService) GetProductBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	var product *domain.Product

	var cached domain.Product
	if err := s.cache.GetJSON(ctx, productCacheKey(slug), &cached); err == nil && cached.ID != 0 {
		product = &cached
	} else {
		var err error
		product, err = s.products.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetJSON(ctx, productCacheKey(slug), product, productCacheTTL); err != nil {
			logger.Warn(ctx, "Failed to cache product", "slug", slug, "error", err)
		}
	}

	viewCount, err := s.views.CountForProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	return &ProductDetail{Product: product, ViewCount: viewCount}, nil
}

// ListProducts 列出商品，可按分类 slug 过滤；分类不存在时返回 ErrNotFound
func (s *CatalogQueryService) ListProducts(ctx context.Context, categorySlug string, page, size int) (*ProductPage, error) {
	if categorySlug != "" {
		if _, err := s.categories.GetBySlug(ctx, categorySlug); err != nil {
			return nil, err
		}
	}

	offset, limit := utils.Paginate(page, size, maxPageSize)
	products, total, err := s.products.List(ctx, categorySlug, offset, limit)
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products: products,
		Total:    total,
		Page:     offset/limit + 1,
		Size:     limit,
	}, nil
}

// Search 按名称搜索商品，查询词先转写成 slug 再匹配，避免数据库对非拉丁字符大小写不敏感匹配的差异
func (s *CatalogQueryService) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	needle := utils.Slugify(query)
	if needle == "" {
		return nil, nil
	}

	defer logger.LogDuration(ctx, "Product search", "query", query, "needle", needle)()

	return s.products.Search(ctx, needle, searchLimit)
}

// PopularProducts 返回首页展示的商品样本
func (s *CatalogQueryService) PopularProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.Random(ctx, popularCount)
}

// ListCategories 列出全部分类
func (s *CatalogQueryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// ListManufacturers 列出全部生产商
func (s *CatalogQueryService) ListManufacturers(ctx context.Context) ([]*domain.Manufacturer, error) {
	return s.manufacturers.List(ctx)
}

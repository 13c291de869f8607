package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/onlineshop/internal/catalog/domain"
)

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, categorySlug string, offset, limit int) ([]*domain.Product, int64, error) {
	var products []*domain.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if categorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", categorySlug)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Category").Order("products.name").Offset(offset).Limit(limit).Find(&products).Error
	return products, total, err
}

func (r *productRepository) Search(ctx context.Context, needle string, limit int) ([]*domain.Product, error) {
	var products []*domain.Product
	pattern := "%" + needle + "%"
	err := r.db.WithContext(ctx).
		Where("name LIKE ? OR slug LIKE ?", pattern, pattern).
		Order("name").Limit(limit).Find(&products).Error
	return products, err
}

func (r *productRepository) Random(ctx context.Context, n int) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).Order("RAND()").Limit(n).Find(&products).Error
	return products, err
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Save(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

type manufacturerRepository struct{ db *gorm.DB }

func NewManufacturerRepository(db *gorm.DB) domain.ManufacturerRepository {
	return &manufacturerRepository{db: db}
}

func (r *manufacturerRepository) Save(ctx context.Context, manufacturer *domain.Manufacturer) error {
	return r.db.WithContext(ctx).Save(manufacturer).Error
}

func (r *manufacturerRepository) List(ctx context.Context) ([]*domain.Manufacturer, error) {
	var manufacturers []*domain.Manufacturer
	err := r.db.WithContext(ctx).Order("name").Find(&manufacturers).Error
	return manufacturers, err
}

type viewRepository struct{ db *gorm.DB }

func NewViewRepository(db *gorm.DB) domain.ViewRepository {
	return &viewRepository{db: db}
}

// RecordView 依赖 (product_id, user_id) 唯一索引实现 get-or-create 语义
func (r *viewRepository) RecordView(ctx context.Context, productID uint, userID string) error {
	view := domain.ViewCount{ProductID: productID, UserID: userID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&view).Error
}

func (r *viewRepository) CountForProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ViewCount{}).
		Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

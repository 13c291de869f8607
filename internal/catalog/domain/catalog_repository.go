package domain

import (
	"context"
	"errors"
)

// ErrNotFound 请求的记录不存在
var ErrNotFound = errors.New("catalog: not found")

type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, categorySlug string, offset, limit int) ([]*Product, int64, error)
	Search(ctx context.Context, needle string, limit int) ([]*Product, error)
	Random(ctx context.Context, n int) ([]*Product, error)
}

type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}

type ManufacturerRepository interface {
	Save(ctx context.Context, manufacturer *Manufacturer) error
	List(ctx context.Context) ([]*Manufacturer, error)
}

type ViewRepository interface {
	// RecordView 记录一次浏览，(product, user) 已存在时为幂等 no-op
	RecordView(ctx context.Context, productID uint, userID string) error
	CountForProduct(ctx context.Context, productID uint) (int64, error)
}

// EventPublisher 领域事件发布者
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventPublisher 领域事件发布者
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// CartItemAddedEvent 购物车添加商品事件
type CartItemAddedEvent struct {
	SessionID string          `json:"session_id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Updated   bool            `json:"updated"`
	Timestamp time.Time       `json:"timestamp"`
}

// CartItemRemovedEvent 购物车移除商品事件
type CartItemRemovedEvent struct {
	SessionID string    `json:"session_id"`
	ProductID uint      `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartClearedEvent 购物车清空事件
type CartClearedEvent struct {
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartCheckedOutEvent 购物车结算完成事件
type CartCheckedOutEvent struct {
	SessionID  string          `json:"session_id"`
	ItemCount  int             `json:"item_count"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Timestamp  time.Time       `json:"timestamp"`
}

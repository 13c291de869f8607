package application

import (
	"context"
	"time"

	"github.com/wyfcoding/onlineshop/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/onlineshop/internal/catalog/domain"
	"github.com/wyfcoding/onlineshop/pkg/logger"
)

// Session 带标识的会话，事件以会话 ID 作为分区键
type Session interface {
	domain.Session
	ID() string
}

// ProductReader 购物车所需的商品查询能力，由商品目录服务提供。
// 商品解析是调用方的职责，解析失败的 NotFound 属于目录层错误。
type ProductReader interface {
	GetProduct(ctx context.Context, id uint) (*catalogdomain.Product, error)
}

// AddItemCommand 添加商品到购物车命令
type AddItemCommand struct {
	ProductID      uint
	Quantity       int
	UpdateQuantity bool
}

// RemoveItemCommand 从购物车移除商品命令
type RemoveItemCommand struct {
	ProductID uint
}

// CartCommandService 购物车命令服务
type CartCommandService struct {
	products  ProductReader
	publisher domain.EventPublisher
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(
	products ProductReader,
	publisher domain.EventPublisher,
) *CartCommandService {
	return &CartCommandService{
		products:  products,
		publisher: publisher,
	}
}

// AddItem 处理添加商品到购物车。先解析商品并在此刻捕获其单价，
// 之后商品价格变动不影响该条目。
func (s *CartCommandService) AddItem(ctx context.Context, sess Session, cmd AddItemCommand) error {
	product, err := s.products.GetProduct(ctx, cmd.ProductID)
	if err != nil {
		return err
	}

	cart := domain.NewCart(sess)
	cart.Add(product.ID, product.Price, cmd.Quantity, cmd.UpdateQuantity)

	event := domain.CartItemAddedEvent{
		SessionID: sess.ID(),
		ProductID: product.ID,
		Quantity:  cmd.Quantity,
		Price:     product.Price,
		Updated:   cmd.UpdateQuantity,
		Timestamp: time.Now(),
	}
	s.publish(ctx, "cart.item.added", sess.ID(), event)

	return nil
}

// RemoveItem 处理从购物车移除商品，商品不在购物车中时为 no-op
func (s *CartCommandService) RemoveItem(ctx context.Context, sess Session, cmd RemoveItemCommand) error {
	cart := domain.NewCart(sess)
	cart.Remove(cmd.ProductID)

	event := domain.CartItemRemovedEvent{
		SessionID: sess.ID(),
		ProductID: cmd.ProductID,
		Timestamp: time.Now(),
	}
	s.publish(ctx, "cart.item.removed", sess.ID(), event)

	return nil
}

// ClearCart 处理清空购物车
func (s *CartCommandService) ClearCart(ctx context.Context, sess Session) error {
	cart := domain.NewCart(sess)
	cart.Clear()

	event := domain.CartClearedEvent{
		SessionID: sess.ID(),
		Timestamp: time.Now(),
	}
	s.publish(ctx, "cart.cleared", sess.ID(), event)

	return nil
}

// Checkout 处理结算完成：记录结算事件并清空购物车
func (s *CartCommandService) Checkout(ctx context.Context, sess Session) error {
	cart := domain.NewCart(sess)

	event := domain.CartCheckedOutEvent{
		SessionID:  sess.ID(),
		ItemCount:  cart.Len(),
		TotalPrice: cart.TotalPrice(),
		Timestamp:  time.Now(),
	}

	cart.Clear()
	s.publish(ctx, "cart.checked_out", sess.ID(), event)

	return nil
}

// publish 发布事件；发布失败只记录日志，不影响购物车操作本身
func (s *CartCommandService) publish(ctx context.Context, topic, key string, event any) {
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		logger.Warn(ctx, "Failed to publish cart event", "topic", topic, "error", err)
	}
}

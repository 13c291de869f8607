package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/onlineshop/internal/cart/domain"
)

// CartService 购物车服务门面，整合命令服务和查询服务
type CartService struct {
	commandService *CartCommandService
	queryService   *CartQueryService
}

// NewCartService 创建购物车服务门面实例
func NewCartService(products ProductReader, publisher domain.EventPublisher) *CartService {
	return &CartService{
		commandService: NewCartCommandService(products, publisher),
		queryService:   NewCartQueryService(products),
	}
}

func (s *CartService) AddItem(ctx context.Context, sess Session, cmd AddItemCommand) error {
	return s.commandService.AddItem(ctx, sess, cmd)
}

func (s *CartService) RemoveItem(ctx context.Context, sess Session, cmd RemoveItemCommand) error {
	return s.commandService.RemoveItem(ctx, sess, cmd)
}

func (s *CartService) ClearCart(ctx context.Context, sess Session) error {
	return s.commandService.ClearCart(ctx, sess)
}

func (s *CartService) Checkout(ctx context.Context, sess Session) error {
	return s.commandService.Checkout(ctx, sess)
}

func (s *CartService) GetCart(ctx context.Context, sess Session) (*CartView, error) {
	return s.queryService.GetCart(ctx, sess)
}

func (s *CartService) GetItemCount(sess Session) int {
	return s.queryService.GetItemCount(sess)
}

func (s *CartService) GetTotalPrice(sess Session) decimal.Decimal {
	return s.queryService.GetTotalPrice(sess)
}

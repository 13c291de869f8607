package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/onlineshop/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/onlineshop/internal/catalog/domain"
)

// CartItemView 购物车条目视图。Product 在查询时实时重取，
// 反映商品当前的名称等信息；TotalPrice 使用加入时捕获的单价。
type CartItemView struct {
	Product    *catalogdomain.Product `json:"product"`
	Quantity   int                    `json:"quantity"`
	UnitPrice  decimal.Decimal        `json:"unit_price"`
	TotalPrice decimal.Decimal        `json:"total_price"`
}

// CartView 购物车视图
type CartView struct {
	Items      []CartItemView  `json:"items"`
	ItemCount  int             `json:"item_count"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CartQueryService 购物车查询服务
type CartQueryService struct {
	products ProductReader
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(products ProductReader) *CartQueryService {
	return &CartQueryService{products: products}
}

// GetCart 获取购物车视图。每次调用对每个条目重新查询商品，
// 两次调用之间目录发生变化时视图随之变化；条目小计与总价
// 始终使用加入时捕获的单价。
func (s *CartQueryService) GetCart(ctx context.Context, sess domain.Session) (*CartView, error) {
	cart := domain.NewCart(sess)

	lines := cart.Lines()
	items := make([]CartItemView, 0, len(lines))
	for _, line := range lines {
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, CartItemView{
			Product:    product,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.TotalPrice(),
		})
	}

	return &CartView{
		Items:      items,
		ItemCount:  cart.Len(),
		TotalPrice: cart.TotalPrice(),
	}, nil
}

// GetItemCount 购物车商品总件数，不查询商品目录
func (s *CartQueryService) GetItemCount(sess domain.Session) int {
	return domain.NewCart(sess).Len()
}

// GetTotalPrice 购物车总价，使用捕获单价，不查询商品目录
func (s *CartQueryService) GetTotalPrice(sess domain.Session) decimal.Decimal {
	return domain.NewCart(sess).TotalPrice()
}

package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/wyfcoding/onlineshop/internal/catalog/domain"
)

type stubSession struct {
	id     string
	values map[string][]byte
	dirty  bool
}

func newStubSession() *stubSession {
	return &stubSession{id: "sess-1", values: map[string][]byte{}}
}

func (s *stubSession) ID() string { return s.id }

func (s *stubSession) Get(key string) ([]byte, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *stubSession) Set(key string, value []byte) { s.values[key] = value }
func (s *stubSession) Delete(key string)            { delete(s.values, key) }
func (s *stubSession) MarkDirty()                   { s.dirty = true }

type stubProductReader struct {
	products map[uint]*catalogdomain.Product
}

func (r *stubProductReader) GetProduct(ctx context.Context, id uint) (*catalogdomain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, catalogdomain.ErrNotFound
	}
	// 返回副本，调用方观察到的是查询时刻的商品状态
	cp := *p
	return &cp, nil
}

type stubPublisher struct {
	topics []string
}

func (p *stubPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	p.topics = append(p.topics, topic)
	return nil
}

func setup(t *testing.T) (*CartService, *stubProductReader, *stubPublisher, *stubSession) {
	t.Helper()
	products := &stubProductReader{products: map[uint]*catalogdomain.Product{}}
	publisher := &stubPublisher{}
	return NewCartService(products, publisher), products, publisher, newStubSession()
}

func product(id uint, name, price string) *catalogdomain.Product {
	p := &catalogdomain.Product{
		Name:  name,
		Slug:  name,
		Price: decimal.RequireFromString(price),
	}
	p.ID = id
	return p
}

func TestAddItemCapturesCurrentPrice(t *testing.T) {
	svc, products, publisher, sess := setup(t)
	products.products[7] = product(7, "rose-bouquet", "10.00")

	err := svc.AddItem(context.Background(), sess, AddItemCommand{ProductID: 7, Quantity: 2})
	require.NoError(t, err)

	// 加入后价格上涨
	products.products[7].Price = decimal.RequireFromString("15.00")

	view, err := svc.GetCart(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	// 条目价格为加入时捕获的价格
	assert.True(t, decimal.RequireFromString("10.00").Equal(view.Items[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("20.00").Equal(view.TotalPrice))
	// 商品信息为当前目录数据
	assert.True(t, decimal.RequireFromString("15.00").Equal(view.Items[0].Product.Price))

	assert.Contains(t, publisher.topics, "cart.item.added")
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _, publisher, sess := setup(t)

	err := svc.AddItem(context.Background(), sess, AddItemCommand{ProductID: 99, Quantity: 1})

	assert.ErrorIs(t, err, catalogdomain.ErrNotFound)
	assert.Empty(t, publisher.topics, "no event for failed resolution")
	assert.Equal(t, 0, svc.GetItemCount(sess))
}

func TestGetCartRefetchesProductEachCall(t *testing.T) {
	svc, products, _, sess := setup(t)
	products.products[7] = product(7, "rose-bouquet", "10.00")

	require.NoError(t, svc.AddItem(context.Background(), sess, AddItemCommand{ProductID: 7, Quantity: 1}))

	view1, err := svc.GetCart(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "rose-bouquet", view1.Items[0].Product.Name)

	products.products[7].Name = "white-rose-bouquet"

	view2, err := svc.GetCart(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "white-rose-bouquet", view2.Items[0].Product.Name)
}

func TestRemoveItem(t *testing.T) {
	svc, products, publisher, sess := setup(t)
	products.products[7] = product(7, "rose-bouquet", "10.00")

	require.NoError(t, svc.AddItem(context.Background(), sess, AddItemCommand{ProductID: 7, Quantity: 2}))
	require.NoError(t, svc.RemoveItem(context.Background(), sess, RemoveItemCommand{ProductID: 7}))

	assert.Equal(t, 0, svc.GetItemCount(sess))
	assert.Contains(t, publisher.topics, "cart.item.removed")
}

func TestRemoveItemAbsentSucceeds(t *testing.T) {
	svc, _, _, sess := setup(t)

	err := svc.RemoveItem(context.Background(), sess, RemoveItemCommand{ProductID: 404})

	assert.NoError(t, err)
}

func TestClearCart(t *testing.T) {
	svc, products, publisher, sess := setup(t)
	products.products[7] = product(7, "rose-bouquet", "10.00")

	require.NoError(t, svc.AddItem(context.Background(), sess, AddItemCommand{ProductID: 7, Quantity: 2}))
	require.NoError(t, svc.ClearCart(context.Background(), sess))

	assert.Equal(t, 0, svc.GetItemCount(sess))
	assert.True(t, decimal.Zero.Equal(svc.GetTotalPrice(sess)))

	view, err := svc.GetCart(context.Background(), sess)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Contains(t, publisher.topics, "cart.cleared")
}

func TestCheckoutClearsCartAndPublishes(t *testing.T) {
	svc, products, publisher, sess := setup(t)
	products.products[7] = product(7, "rose-bouquet", "10.00")

	require.NoError(t, svc.AddItem(context.Background(), sess, AddItemCommand{ProductID: 7, Quantity: 2}))
	require.NoError(t, svc.Checkout(context.Background(), sess))

	assert.Equal(t, 0, svc.GetItemCount(sess))
	assert.Contains(t, publisher.topics, "cart.checked_out")
}

func TestUpdateQuantityScenario(t *testing.T) {
	svc, products, _, sess := setup(t)
	products.products[7] = product(7, "rose-bouquet", "10.00")

	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, sess, AddItemCommand{ProductID: 7, Quantity: 2}))
	assert.Equal(t, 2, svc.GetItemCount(sess))
	assert.True(t, decimal.RequireFromString("20.00").Equal(svc.GetTotalPrice(sess)))

	require.NoError(t, svc.AddItem(ctx, sess, AddItemCommand{ProductID: 7, Quantity: 3, UpdateQuantity: true}))
	assert.Equal(t, 3, svc.GetItemCount(sess))
	assert.True(t, decimal.RequireFromString("30.00").Equal(svc.GetTotalPrice(sess)))
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/onlineshop/internal/cart/application"
	"github.com/wyfcoding/onlineshop/internal/cart/infrastructure/session"
	catalogdomain "github.com/wyfcoding/onlineshop/internal/catalog/domain"
	"github.com/wyfcoding/onlineshop/pkg/metrics"
)

type fakeProductReader struct {
	products map[uint]*catalogdomain.Product
}

func (r *fakeProductReader) GetProduct(ctx context.Context, id uint) (*catalogdomain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, catalogdomain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type fakePublisher struct {
	topics []string
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	p.topics = append(p.topics, topic)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *session.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reader := &fakeProductReader{products: map[uint]*catalogdomain.Product{
		1: {Name: "Rose Bouquet", Slug: "rose-bouquet", Price: decimal.RequireFromString("25.00")},
		2: {Name: "Tulips", Slug: "tulips", Price: decimal.RequireFromString("12.50")},
	}}
	reader.products[1].ID = 1
	reader.products[2].ID = 2

	cartService := application.NewCartService(reader, &fakePublisher{})
	handler := NewCartHandler(cartService, metrics.New("shop_test"))

	sess := session.New("test-session")
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(sessionContextKey, sess)
		c.Next()
	})
	handler.RegisterRoutes(router)
	return router, sess
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAddItemThenGetCart(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	var added struct {
		ItemCount  int    `json:"item_count"`
		TotalPrice string `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	assert.Equal(t, 2, added.ItemCount)
	assert.Equal(t, "50", added.TotalPrice)

	w = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		Items []struct {
			Product struct {
				Slug string `json:"slug"`
			} `json:"product"`
			Quantity   int    `json:"quantity"`
			UnitPrice  string `json:"unit_price"`
			TotalPrice string `json:"total_price"`
		} `json:"items"`
		ItemCount  int    `json:"item_count"`
		TotalPrice string `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "rose-bouquet", view.Items[0].Product.Slug)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, "25", view.Items[0].UnitPrice)
	assert.Equal(t, "50", view.Items[0].TotalPrice)
	assert.Equal(t, 2, view.ItemCount)
}

func TestAddItemUnknownProductReturns404(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 99})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "product not found")
}

func TestAddItemMissingProductIDReturns400(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"quantity": 2})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 2})
	require.Equal(t, http.StatusOK, w.Code)

	var added struct {
		ItemCount int `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	assert.Equal(t, 1, added.ItemCount)
}

func TestRemoveItem(t *testing.T) {
	router, _ := newTestRouter(t)

	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 1, "quantity": 3}).Code)

	w := doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ItemCount int `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.ItemCount)
}

func TestRemoveItemInvalidID(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/not-a-number", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearCart(t *testing.T) {
	router, sess := newTestRouter(t)

	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 1}).Code)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, ok := sess.Get("cart")
	assert.False(t, ok)
}

func TestCheckoutEmptiesCart(t *testing.T) {
	router, _ := newTestRouter(t)

	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 1, "quantity": 2}).Code)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "order processed")

	w = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		ItemCount int `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Zero(t, view.ItemCount)
}

func TestGetCartProductGone(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reader := &fakeProductReader{products: map[uint]*catalogdomain.Product{}}
	reader.products[1] = &catalogdomain.Product{Name: "Ephemeral", Slug: "ephemeral", Price: decimal.RequireFromString("5.00")}
	reader.products[1].ID = 1

	cartService := application.NewCartService(reader, &fakePublisher{})
	handler := NewCartHandler(cartService, metrics.New("shop_test"))

	sess := session.New("test-session")
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(sessionContextKey, sess)
		c.Next()
	})
	handler.RegisterRoutes(router)

	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 1}).Code)

	// 商品从目录下架后，购物车详情应报告商品已不可用
	delete(reader.products, 1)

	w := doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no longer available")
}

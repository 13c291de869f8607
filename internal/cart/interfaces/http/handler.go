package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/onlineshop/internal/cart/application"
	catalogdomain "github.com/wyfcoding/onlineshop/internal/catalog/domain"
	"github.com/wyfcoding/onlineshop/pkg/logger"
	"github.com/wyfcoding/onlineshop/pkg/metrics"
)

// CartHandler HTTP 处理器
type CartHandler struct {
	cartService *application.CartService
	metrics     *metrics.Metrics
}

// NewCartHandler 创建 HTTP 处理器
func NewCartHandler(cartService *application.CartService, m *metrics.Metrics) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		metrics:     m,
	}
}

// RegisterRoutes 注册路由，所有路由要求会话中间件已挂载
func (h *CartHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/cart")
	{
		api.GET("", h.GetCart)
		api.POST("/items", h.AddItem)
		api.DELETE("/items/:id", h.RemoveItem)
		api.POST("/clear", h.ClearCart)
		api.POST("/checkout", h.Checkout)
	}
}

// AddItemRequest 添加商品请求。quantity 缺省为 1；
// update 为 true 时将数量设为 quantity 而非累加。
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  *int `json:"quantity"`
	Update    bool `json:"update"`
}

// AddItem 添加商品到购物车或更新其数量
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	sess := sessionFrom(c)
	err := h.cartService.AddItem(c.Request.Context(), sess, application.AddItemCommand{
		ProductID:      req.ProductID,
		Quantity:       quantity,
		UpdateQuantity: req.Update,
	})
	if err != nil {
		if errors.Is(err, catalogdomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to add cart item", "product_id", req.ProductID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.metrics.CartItemsAdded.Inc()

	c.JSON(http.StatusOK, gin.H{
		"item_count":  h.cartService.GetItemCount(sess),
		"total_price": h.cartService.GetTotalPrice(sess),
	})
}

// RemoveItem 从购物车移除商品，商品不在购物车中同样返回成功
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	sess := sessionFrom(c)
	if err := h.cartService.RemoveItem(c.Request.Context(), sess, application.RemoveItemCommand{ProductID: uint(id)}); err != nil {
		logger.Error(c.Request.Context(), "Failed to remove cart item", "product_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.metrics.CartItemsRemoved.Inc()

	c.JSON(http.StatusOK, gin.H{
		"item_count":  h.cartService.GetItemCount(sess),
		"total_price": h.cartService.GetTotalPrice(sess),
	})
}

// ClearCart 清空购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	sess := sessionFrom(c)
	if err := h.cartService.ClearCart(c.Request.Context(), sess); err != nil {
		logger.Error(c.Request.Context(), "Failed to clear cart", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.metrics.CartsCleared.Inc()

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// Checkout 结算完成，清空购物车
func (h *CartHandler) Checkout(c *gin.Context) {
	sess := sessionFrom(c)
	if err := h.cartService.Checkout(c.Request.Context(), sess); err != nil {
		logger.Error(c.Request.Context(), "Failed to checkout", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.metrics.CheckoutsTotal.Inc()

	c.JSON(http.StatusOK, gin.H{"status": "order processed"})
}

// GetCart 购物车详情。条目中的商品信息为当前目录数据，
// 小计与总价使用加入时捕获的单价。
func (h *CartHandler) GetCart(c *gin.Context) {
	sess := sessionFrom(c)

	view, err := h.cartService.GetCart(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrNotFound) {
			// 购物车引用的商品已不在目录中
			c.JSON(http.StatusNotFound, gin.H{"error": "product no longer available"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to get cart", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, view)
}

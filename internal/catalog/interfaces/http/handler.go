package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/onlineshop/internal/catalog/application"
	"github.com/wyfcoding/onlineshop/internal/catalog/domain"
	"github.com/wyfcoding/onlineshop/pkg/logger"
	"github.com/wyfcoding/onlineshop/pkg/metrics"
)

// CatalogHandler HTTP 处理器
type CatalogHandler struct {
	catalogService *application.CatalogService
	metrics        *metrics.Metrics
}

// NewCatalogHandler 创建 HTTP 处理器
func NewCatalogHandler(catalogService *application.CatalogService, m *metrics.Metrics) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		metrics:        m,
	}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.GET("/products", h.ListProducts)
		api.GET("/products/popular", h.PopularProducts)
		api.GET("/products/search", h.Search)
		api.GET("/products/:slug", h.GetProduct)
		api.POST("/products", h.CreateProduct)
		api.PUT("/products/:id", h.UpdateProduct)
		api.GET("/categories", h.ListCategories)
		api.POST("/categories", h.CreateCategory)
		api.GET("/manufacturers", h.ListManufacturers)
		api.POST("/manufacturers", h.CreateManufacturer)
	}
}

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Image       string `json:"image"`
	Category    string `json:"category" binding:"required"`
}

// CreateProduct 创建商品
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), application.CreateProductCommand{
		Name:         req.Name,
		Description:  req.Description,
		Price:        price,
		Width:        req.Width,
		Height:       req.Height,
		Image:        req.Image,
		CategorySlug: req.Category,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to create product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProductRequest 更新商品请求
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Image       string `json:"image"`
}

// UpdateProduct 更新商品
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), application.UpdateProductCommand{
		ProductID:   uint(id),
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Width:       req.Width,
		Height:      req.Height,
		Image:       req.Image,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to update product", "product_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetProduct 商品详情；带用户身份的请求记录一次浏览
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	slug := c.Param("slug")

	detail, err := h.catalogService.GetProductBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to get product", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if userID := c.GetHeader("X-User-ID"); userID != "" {
		if err := h.catalogService.RecordView(c.Request.Context(), detail.Product.ID, userID); err != nil {
			// 浏览记录失败不影响详情展示
			logger.Warn(c.Request.Context(), "Failed to record product view", "slug", slug, "error", err)
		} else {
			h.metrics.ProductViewsTotal.Inc()
		}
	}

	c.JSON(http.StatusOK, detail)
}

// ListProducts 商品列表，可按分类过滤
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	categorySlug := c.Query("category")

	result, err := h.catalogService.ListProducts(c.Request.Context(), categorySlug, page, size)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to list products", "category", categorySlug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// PopularProducts 首页商品样本
func (h *CatalogHandler) PopularProducts(c *gin.Context) {
	products, err := h.catalogService.PopularProducts(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get popular products", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Search 商品搜索
func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("query")

	products, err := h.catalogService.Search(c.Request.Context(), query)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to search products", "query", query, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.metrics.SearchesTotal.Inc()

	c.JSON(http.StatusOK, gin.H{"query": query, "products": products})
}

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory 创建分类
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), application.CreateCategoryCommand{Name: req.Name})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create category", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// ListCategories 分类列表
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateManufacturerRequest 创建生产商请求
type CreateManufacturerRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateManufacturer 创建生产商
func (h *CatalogHandler) CreateManufacturer(c *gin.Context) {
	var req CreateManufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	manufacturer, err := h.catalogService.CreateManufacturer(c.Request.Context(), application.CreateManufacturerCommand{Name: req.Name})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create manufacturer", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, manufacturer)
}

// ListManufacturers 生产商列表
func (h *CatalogHandler) ListManufacturers(c *gin.Context) {
	manufacturers, err := h.catalogService.ListManufacturers(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list manufacturers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"manufacturers": manufacturers})
}

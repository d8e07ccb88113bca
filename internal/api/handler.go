package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"store-service/internal/service"
	"store-service/internal/store"
	"store-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	ledger    *service.LedgerService
	catalog   *service.CatalogService
	analytics *service.AnalyticsService
	inventory *service.InventoryService
	tokens    *TokenParser
}

// NewHandler creates a new HTTP handler
func NewHandler(
	ledger *service.LedgerService,
	catalog *service.CatalogService,
	analytics *service.AnalyticsService,
	inventory *service.InventoryService,
	tokens *TokenParser,
) *Handler {
	return &Handler{
		ledger:    ledger,
		catalog:   catalog,
		analytics: analytics,
		inventory: inventory,
		tokens:    tokens,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware(h.tokens))
	{
		v1.POST("/orders", h.placeOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.DELETE("/orders/:id", h.deleteOrder)

		v1.POST("/expenses", h.recordExpense)
		v1.GET("/expenses", h.listExpenses)
		v1.GET("/expenses/:id", h.getExpense)
		v1.PUT("/expenses/:id", h.updateExpense)
		v1.DELETE("/expenses/:id", h.deleteExpense)

		v1.GET("/transactions", h.listTransactions)

		v1.POST("/products", h.createProduct)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)

		v1.GET("/dashboard", h.dashboard)
		v1.GET("/inventories", h.inventories)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// placeOrder handles order placement
func (h *Handler) placeOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.ledger.PlaceOrder(c.Request.Context(), principalFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// listOrders handles order listing with the running income total
func (h *Handler) listOrders(c *gin.Context) {
	resp, err := h.ledger.ListOrders(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, items, err := h.ledger.GetOrder(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}

// deleteOrder removes an order together with its ledger entry
func (h *Handler) deleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.ledger.DeleteOrder(c.Request.Context(), principalFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order and ledger entry deleted successfully"})
}

// recordExpense handles expense creation
func (h *Handler) recordExpense(c *gin.Context) {
	var req service.RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	expense, err := h.ledger.RecordExpense(c.Request.Context(), principalFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// listExpenses handles expense listing with the running total
func (h *Handler) listExpenses(c *gin.Context) {
	resp, err := h.ledger.ListExpenses(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getExpense handles get expense by ID
func (h *Handler) getExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	expense, err := h.ledger.GetExpense(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// updateExpense rewrites an expense in place
func (h *Handler) updateExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.ledger.UpdateExpense(c.Request.Context(), principalFrom(c), id, &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense updated successfully"})
}

// deleteExpense soft-deletes an expense; its ledger entry is kept
func (h *Handler) deleteExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.ledger.DeleteExpense(c.Request.Context(), principalFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// listTransactions serves the unified ledger
func (h *Handler) listTransactions(c *gin.Context) {
	entries, err := h.ledger.ListLedger(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// createProduct handles product creation
func (h *Handler) createProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), principalFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// listProducts handles product listing
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// updateProduct rewrites product fields except stock
func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.catalog.UpdateProduct(c.Request.Context(), principalFrom(c), id, &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

// deleteProduct soft-deletes a product
func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), principalFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// dashboard serves the aggregated reporting payload for a timeframe
func (h *Handler) dashboard(c *gin.Context) {
	timeframe := c.Query("timeframe")

	dashboard, err := h.analytics.Dashboard(c.Request.Context(), principalFrom(c), timeframe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// inventories serves the derived inventory valuation report
func (h *Handler) inventories(c *gin.Context) {
	lines, err := h.inventory.Report(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrProductNotFound) && c.Request.Method == http.MethodPost,
		errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, store.ErrStoreNotFound),
		errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrOrderNotFound),
		errors.Is(err, store.ErrExpenseNotFound),
		errors.Is(err, store.ErrLedgerEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"details": err.Error(),
		})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the REST surface. Auth is handled by the deployment in
// front of this service; everything here assumes a trusted operator.
func NewRouter(logger *logrus.Logger) *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(corsConfig))

	h := &handlers{logger: logger}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/customers", h.listCustomers)
		api.GET("/customers/paginated", h.listCustomersPaginated)
		api.POST("/customers", h.createCustomer)
		api.PUT("/customers/:id", h.updateCustomer)
		api.DELETE("/customers/:id", h.deleteCustomer)
		api.GET("/customers/duplicate-check", h.checkCustomerDuplicate)
		api.GET("/customers/:id/balance", h.getCustomerBalance)
		api.POST("/customers/:id/adjustments", h.addBalanceAdjustment)

		api.GET("/resources", h.listResources)
		api.POST("/resources", h.createResource)
		api.PUT("/resources/:id", h.updateResource)
		api.DELETE("/resources/:id", h.deleteResource)

		api.GET("/inventory", h.listInventory)
		api.POST("/inventory", h.createInventoryItem)
		api.PUT("/inventory/:id", h.updateInventoryItem)
		api.DELETE("/inventory/:id", h.deleteInventoryItem)
		api.POST("/inventory/:id/adjust", h.adjustInventoryQuantity)

		api.GET("/sessions/active", h.listActiveSessions)
		api.POST("/sessions", h.startSession)
		api.POST("/sessions/:id/end", h.endSession)
		api.GET("/sessions/:id/cost", h.getSessionCost)
		api.POST("/sessions/:id/inventory", h.addSessionInventory)
		api.PUT("/sessions/:id/inventory/:consumptionId", h.updateSessionInventory)
		api.DELETE("/sessions/:id/inventory/:consumptionId", h.removeSessionInventory)

		api.GET("/subscriptions", h.listSubscriptions)
		api.POST("/subscriptions", h.purchaseSubscription)
		api.POST("/subscriptions/:id/cancel", h.cancelSubscription)
		api.POST("/subscriptions/:id/reactivate", h.reactivateSubscription)
		api.POST("/subscriptions/:id/change-plan", h.changeSubscriptionPlan)

		api.GET("/invoices", h.listInvoices)
		api.GET("/invoices/paginated", h.listInvoicesPaginated)
		api.POST("/invoices/:id/cancel", h.cancelInvoice)

		api.POST("/payments", h.processPayment)
		api.POST("/payments/bulk", h.processBulkPayment)

		api.GET("/settings", h.getSettings)
		api.PUT("/settings", h.updateSettings)

		api.GET("/dashboard/metrics", h.dashboardMetrics)
	}

	return r
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paysentry.backend/internal/interfaces/http/handlers"
	"paysentry.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	webhookHandler      *handlers.WebhookHandler
	reconcileHandler    *handlers.ReconcileHandler
	refundHandler       *handlers.RefundHandler
	checkoutHandler     *handlers.CheckoutHandler
	adminAuthMiddleware gin.HandlerFunc
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	// Provider webhook intake (signature-authenticated, no middleware
	// that could consume or rewrite the raw body)
	r.POST("/webhooks/stripe", d.webhookHandler.HandleStripeWebhook)

	// Operator reconciliation (admin-key protected)
	r.POST("/reconcile", d.adminAuthMiddleware, d.reconcileHandler.HandleReconcile)

	// Merchant collaborators (replay-safe via Idempotency-Key)
	r.POST("/refunds", middleware.IdempotencyMiddleware(), d.refundHandler.HandleCreateRefund)
	r.POST("/checkouts", middleware.IdempotencyMiddleware(), d.checkoutHandler.HandleCreateCheckout)
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

package routes

import (
	"mgma_back_end/internal/handlers/admin"
	"mgma_back_end/internal/handlers/emails"
	pay "mgma_back_end/internal/handlers/payment"
	"mgma_back_end/internal/handlers/product"
	"mgma_back_end/internal/handlers/user"
	"mgma_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Auth
	r.POST("/api/auth/register", user.Register)
	r.POST("/api/auth/login", middleware.LoginRateLimit(), user.Login)
	r.POST("/api/auth/team/login", middleware.LoginRateLimit(), user.TeamLogin)
	r.GET("/api/auth/oauth/:provider", user.BeginAuth)
	r.GET("/api/auth/oauth/:provider/callback", user.CallbackAuth)
	r.GET("/api/auth/me", middleware.AuthRequired(), user.Me)

	// Catalogue public
	r.GET("/api/products", product.GetAllProducts)
	r.GET("/api/products/:slug", product.GetProductBySlug)
	r.GET("/api/search", product.SearchProducts)

	// Achat et paiement
	r.POST("/api/purchase", middleware.PurchaseRateLimit(), pay.Purchase)
	r.GET("/api/coupons/validate", pay.ValidateCoupon)
	r.POST("/api/payments/webhook", pay.StripeWebhook)
	r.POST("/api/payments/moneymotion/webhook", pay.MoneyMotionWebhook)
	r.POST("/api/payments/moneymotion/create-session", pay.CreateMoneyMotionSession)
	r.GET("/api/payments/moneymotion/check-status", pay.CheckMoneyMotionStatus)
	r.GET("/api/payments/session", pay.GetSessionStatus)
	r.POST("/api/payments/mock/complete", pay.CompleteMockSession)

	// File d'emails, appelée par TriggerDrain ou un cron externe
	r.POST("/api/emails/process", emails.ProcessOutbox)

	// Espace client
	account := r.Group("/api/account", middleware.AuthRequired())
	{
		account.GET("/orders", user.GetMyOrders)
		account.GET("/orders/:orderNumber/receipt", user.GetOrderReceipt)
		account.GET("/licenses", user.GetMyLicenses)
		account.GET("/licenses/:licenseKey/qr", user.GetLicenseQR)
	}

	// Back-office : lecture ouverte au support, écriture réservée à l'admin
	team := r.Group("/api/admin", middleware.AuthRequired(), middleware.RequireTeam)
	{
		team.GET("/dashboard", pay.GetDashboardStats)
		team.GET("/orders", pay.GetRecentOrders)
		team.GET("/orders/:orderNumber", pay.GetOrderDetail)
		team.GET("/customers/:email/orders", admin.GetCustomerOrders)
		team.GET("/licenses", admin.GetAllLicenses)
		team.GET("/webhooks", admin.GetWebhookEvents)
		team.GET("/emails", emails.GetOutbox)
		team.GET("/refunds", pay.GetRefunds)
		team.GET("/live", admin.OrdersLiveFeed)
	}

	adm := r.Group("/api/admin", middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adm.PUT("/orders/:orderNumber/status", admin.OverrideOrderStatus)
		adm.POST("/orders/:orderNumber/refund", pay.RefundOrder)
		adm.POST("/maintenance/expire-orders", pay.ExpireStaleOrders)

		adm.POST("/licenses/:licenseKey/revoke", admin.RevokeLicense)
		adm.POST("/licenses/:licenseKey/reactivate", admin.ReactivateLicense)
		adm.POST("/licenses/:licenseKey/extend", admin.ExtendLicense)
		adm.POST("/licenses/:licenseKey/reset", admin.ResetLicenseKey)

		adm.POST("/coupons", pay.CreateCoupon)
		adm.GET("/coupons", pay.GetAllCoupons)
		adm.PUT("/coupons/:code", pay.UpdateCoupon)
		adm.DELETE("/coupons/:code", pay.DeleteCoupon)

		adm.POST("/products", product.CreateProduct)
		adm.PUT("/products/:id", product.UpdateProduct)
		adm.DELETE("/products/:id", product.DeleteProduct)
		adm.POST("/products/:id/image", product.UploadProductImage)

		adm.POST("/team", admin.CreateTeamMember)
		adm.GET("/team", admin.GetTeamMembers)
		adm.PUT("/team/:email", admin.UpdateTeamMember)
		adm.DELETE("/team/:email", admin.DeleteTeamMember)
	}
}

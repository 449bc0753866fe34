package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swim360/swim360-backend/internal/config"
	"github.com/swim360/swim360-backend/internal/http/handlers"
	"github.com/swim360/swim360-backend/internal/http/middleware"
	"github.com/swim360/swim360-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	listingHandler *handlers.ListingHandler,
	marketplaceHandler *handlers.MarketplaceHandler,
	chatHandler *handlers.ChatHandler,
	reviewHandler *handlers.ReviewHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api/v1")

	// Аутентификация. Публичные ручки под rate limit от перебора.
	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/verify-email", authHandler.VerifyEmail)
		authGroup.POST("/resend-otp", authHandler.ResendOTP)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/listings", listingHandler.List)
	api.GET("/listings/:id", middleware.UUIDValidator("id"), listingHandler.Get)
	api.GET("/marketplace/products", marketplaceHandler.List)
	api.GET("/marketplace/products/:id", middleware.UUIDValidator("id"), marketplaceHandler.Get)
	api.GET("/reviews", reviewHandler.List)
	api.GET("/reviews/rating/:entityId", middleware.UUIDValidator("entityId"), reviewHandler.GetRating)
	api.GET("/subscriptions/plans", subscriptionHandler.ListPlans)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/users/me", profileHandler.GetMe)
		protected.PUT("/users/me", profileHandler.UpdateMe)
		protected.POST("/users/me/roles", profileHandler.EnrollRole)

		protected.POST("/media/photos", mediaHandler.UploadPhoto)
		protected.DELETE("/media/:id", middleware.UUIDValidator("id"), mediaHandler.DeleteMedia)

		protected.GET("/chat/conversations", chatHandler.ListConversations)
		protected.GET("/chat/conversations/:id/messages", middleware.UUIDValidator("id"), chatHandler.ListMessages)

		protected.POST("/subscriptions", subscriptionHandler.Subscribe)
		protected.GET("/subscriptions/my", subscriptionHandler.MySubscriptions)
	}

	// Операции, требующие подтверждённый email.
	verified := api.Group("/")
	verified.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireVerifiedEmail())
	{
		verified.POST("/listings", listingHandler.Create)
		verified.PUT("/listings/:id", middleware.UUIDValidator("id"), listingHandler.Update)
		verified.DELETE("/listings/:id", middleware.UUIDValidator("id"), listingHandler.Deactivate)

		verified.POST("/marketplace/products", marketplaceHandler.Create)
		verified.PUT("/marketplace/products/:id", middleware.UUIDValidator("id"), marketplaceHandler.Update)
		verified.DELETE("/marketplace/products/:id", middleware.UUIDValidator("id"), marketplaceHandler.Deactivate)

		verified.POST("/chat/messages", chatHandler.SendMessage)
		verified.POST("/reviews", reviewHandler.Create)
	}

	return r
}

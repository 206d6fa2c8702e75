package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/harshxd2006/Nexus-Ai/internal/config"
	"github.com/harshxd2006/Nexus-Ai/internal/handlers"
	"github.com/harshxd2006/Nexus-Ai/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	toolHandler *handlers.ToolHandler,
	reviewHandler *handlers.ReviewHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/verify-email", authHandler.VerifyEmail)
	auth.Post("/resend-verification", authHandler.ResendVerification)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	jwt := middleware.JWTProtected(cfg)

	api.Post("/auth/logout", jwt, authHandler.Logout)
	api.Post("/auth/change-password", jwt, authHandler.ChangePassword)
	api.Delete("/auth/account", jwt, authHandler.DeleteAccount)
	api.Get("/auth/me", jwt, authHandler.Me)

	// Users
	api.Get("/users/:id", userHandler.GetPublicProfile)
	api.Put("/users/me", jwt, userHandler.UpdateProfile)

	// Tools — public reads
	api.Get("/tools", toolHandler.List)
	api.Get("/tools/slug/:slug", toolHandler.GetBySlug)
	api.Get("/tools/:id", toolHandler.GetByID)
	api.Get("/tools/:id/reviews", reviewHandler.ListForTool)

	// Tools — authenticated mutations
	api.Post("/tools", jwt, toolHandler.Create)
	api.Put("/tools/:id", jwt, toolHandler.Update)
	api.Delete("/tools/:id", jwt, toolHandler.Delete)
	api.Post("/tools/:id/upvote", jwt, toolHandler.Upvote)
	api.Post("/tools/:id/usage", jwt, toolHandler.TrackUsage)
	api.Post("/tools/:id/favorite", jwt, toolHandler.Favorite)
	api.Delete("/tools/:id/favorite", jwt, toolHandler.Unfavorite)
	api.Get("/me/favorites", jwt, toolHandler.ListFavorites)

	// Reviews
	api.Post("/tools/:id/reviews", jwt, reviewHandler.Create)
	api.Put("/reviews/:id", jwt, reviewHandler.Update)
	api.Delete("/reviews/:id", jwt, reviewHandler.Delete)
	api.Post("/reviews/:id/votes", jwt, reviewHandler.Vote)
	api.Delete("/reviews/:id/votes", jwt, reviewHandler.Unvote)
	api.Post("/reviews/:id/flag", jwt, reviewHandler.Flag)

	// Admin moderation panel
	admin := api.Group("/admin", jwt, middleware.AdminRequired(db, cfg))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id/ban", adminHandler.SetBanned)
	admin.Put("/users/:id/verify", adminHandler.VerifyUser)
	admin.Get("/moderation/reviews", adminHandler.ListFlaggedReviews)
	admin.Put("/moderation/reviews/:id/approve", adminHandler.ApproveReview)
	admin.Put("/moderation/reviews/:id/reject", adminHandler.RejectReview)
	admin.Put("/moderation/reviews/:id/feature", adminHandler.FeatureReview)
	admin.Put("/tools/:id/feature", adminHandler.FeatureTool)
	admin.Put("/tools/:id/verify", adminHandler.VerifyTool)
	admin.Put("/tools/:id/status", adminHandler.SetToolStatus)
	admin.Delete("/tools/:id", adminHandler.DeleteTool)
}

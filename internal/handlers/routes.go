package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/auth"
	"github.com/zfogg/inkwell/backend/internal/middleware"
)

// SetupRoutes registers /health, /metrics and the /api/v1 procedures on r.
// Most routes attach the caller when a token is present and leave the
// authentication decision to the service; /users/me requires a stored user.
func (h *Handlers) SetupRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/metrics", middleware.MetricsHandler())

	optional := auth.OptionalUser(h.resolver)
	required := auth.RequireUser(h.resolver)
	writes := middleware.RateLimit("writes", middleware.WriteRateLimitConfig())
	uploads := middleware.RateLimit("uploads", middleware.UploadRateLimitConfig())

	api := r.Group("/api/v1")

	users := api.Group("/users")
	{
		users.POST("/store", h.StoreUser)
		users.GET("/me", required, h.GetMe)
		users.POST("/me/onboarding", required, h.CompleteOnboarding)
		users.POST("/:id/follow", optional, writes, h.ToggleFollow)
		users.GET("/:id/follow", optional, h.IsFollowing)
		users.GET("/:id/followers/count", h.GetFollowerCount)
	}

	follows := api.Group("/follows", optional)
	{
		follows.GET("/followers", h.GetMyFollowers)
		follows.GET("/following", h.GetMyFollowing)
	}

	postRoutes := api.Group("/posts", optional)
	{
		postRoutes.POST("", h.CreatePost)
		postRoutes.GET("/draft", h.GetUserDraft)
		postRoutes.GET("/mine", h.GetUserPosts)
		postRoutes.GET("/:id", h.GetPost)
		postRoutes.PUT("/:id", h.UpdatePost)
		postRoutes.DELETE("/:id", h.DeletePost)
		postRoutes.POST("/:id/view", h.IncrementViewCount)

		postRoutes.POST("/:id/like", writes, h.ToggleLike)
		postRoutes.GET("/:id/like", h.HasUserLiked)
		postRoutes.GET("/:id/likes", h.GetPostLikes)

		postRoutes.POST("/:id/comments", writes, h.AddComment)
		postRoutes.GET("/:id/comments", h.GetPostComments)
	}
	api.DELETE("/comments/:id", optional, h.DeleteComment)

	feedRoutes := api.Group("/feed", optional)
	{
		feedRoutes.GET("", h.GetFeed)
		feedRoutes.GET("/trending", h.GetTrendingPosts)
		feedRoutes.GET("/suggested", h.GetSuggestedUsers)
	}

	dash := api.Group("/dashboard", optional)
	{
		dash.GET("/analytics", h.GetAnalytics)
		dash.GET("/posts", h.GetPostsWithAnalytics)
		dash.GET("/activity", h.GetRecentActivity)
		dash.GET("/daily-views", h.GetDailyViews)
		dash.GET("/events/:id", h.GetEventDashboard)
	}

	public := api.Group("/public")
	{
		public.GET("/:username/posts", h.GetPublishedPostsByUsername)
		public.GET("/:username/posts/:post", h.GetPublishedPost)
	}

	api.POST("/images/upload", optional, uploads, h.UploadImage)
}

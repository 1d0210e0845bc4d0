package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/feed"
	"github.com/zfogg/inkwell/backend/internal/util"
)

const maxFeedLimit = 100

// GetFeed returns posts from followed authors, or the public feed
// GET /api/v1/feed?limit=&cursor=
func (h *Handlers) GetFeed(c *gin.Context) {
	limit := util.ParseLimit(c, feed.DefaultFeedLimit, maxFeedLimit)
	result, err := h.feed.GetFeed(c.Request.Context(), util.CurrentUser(c), limit, c.Query("cursor"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTrendingPosts ranks recent published posts by engagement
// GET /api/v1/feed/trending
func (h *Handlers) GetTrendingPosts(c *gin.Context) {
	limit := util.ParseLimit(c, feed.DefaultTrendingLimit, maxFeedLimit)
	posts, err := h.feed.GetTrendingPosts(c.Request.Context(), limit)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// GetSuggestedUsers suggests authors to follow
// GET /api/v1/feed/suggested
func (h *Handlers) GetSuggestedUsers(c *gin.Context) {
	limit := util.ParseLimit(c, feed.DefaultSuggestedLimit, 50)
	users := h.feed.GetSuggestedUsers(c.Request.Context(), util.CurrentUser(c), limit)
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

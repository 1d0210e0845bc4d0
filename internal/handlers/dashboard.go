package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/dashboard"
	"github.com/zfogg/inkwell/backend/internal/util"
)

// GetAnalytics returns the caller's lifetime totals
// GET /api/v1/dashboard/analytics
func (h *Handlers) GetAnalytics(c *gin.Context) {
	analytics, err := h.dashboard.GetAnalytics(c.Request.Context(), util.CurrentUser(c))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// GetPostsWithAnalytics lists the caller's posts with their counters
// GET /api/v1/dashboard/posts
func (h *Handlers) GetPostsWithAnalytics(c *gin.Context) {
	limit := util.ParseLimit(c, dashboard.DefaultPostsLimit, 100)
	posts, err := h.dashboard.GetPostsWithAnalytics(c.Request.Context(), util.CurrentUser(c), limit)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// GetRecentActivity merges recent comments on the caller's posts with new followers
// GET /api/v1/dashboard/activity
func (h *Handlers) GetRecentActivity(c *gin.Context) {
	limit := util.ParseLimit(c, dashboard.DefaultActivityLimit, 50)
	activity, err := h.dashboard.GetRecentActivity(c.Request.Context(), util.CurrentUser(c), limit)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": activity, "count": len(activity)})
}

// GetDailyViews returns the seven-day views chart
// GET /api/v1/dashboard/daily-views
func (h *Handlers) GetDailyViews(c *gin.Context) {
	days, err := h.dashboard.GetDailyViews(c.Request.Context(), util.CurrentUser(c))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// GetEventDashboard returns check-in stats for an event the caller organizes
// GET /api/v1/dashboard/events/:id
func (h *Handlers) GetEventDashboard(c *gin.Context) {
	result, err := h.dashboard.GetEventDashboard(c.Request.Context(), util.CurrentUser(c), c.Param("id"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

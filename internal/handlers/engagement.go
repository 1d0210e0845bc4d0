package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/engagement"
	"github.com/zfogg/inkwell/backend/internal/util"
)

// ToggleLike likes or unlikes a post for the caller
// POST /api/v1/posts/:id/like
func (h *Handlers) ToggleLike(c *gin.Context) {
	result, err := h.engagement.ToggleLike(c.Request.Context(), util.CurrentUser(c), c.Param("id"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HasUserLiked reports whether the caller likes the post
// GET /api/v1/posts/:id/like
func (h *Handlers) HasUserLiked(c *gin.Context) {
	liked, err := h.engagement.HasUserLiked(c.Request.Context(), util.CurrentUser(c), c.Param("id"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// GetPostLikes lists the newest likes on a post with the liker's profile
// GET /api/v1/posts/:id/likes
func (h *Handlers) GetPostLikes(c *gin.Context) {
	limit := util.ParseLimit(c, engagement.DefaultLikesLimit, 200)
	likes, err := h.engagement.GetPostLikes(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes, "count": len(likes)})
}

// AddComment comments on a post as the caller
// POST /api/v1/posts/:id/comments
func (h *Handlers) AddComment(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "content", "invalid request body")
		return
	}

	commentID, err := h.engagement.AddComment(c.Request.Context(), util.CurrentUser(c), c.Param("id"), req.Content)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment_id": commentID})
}

// GetPostComments lists a post's comments newest first
// GET /api/v1/posts/:id/comments
func (h *Handlers) GetPostComments(c *gin.Context) {
	comments, err := h.engagement.GetPostComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments, "count": len(comments)})
}

// DeleteComment deletes one of the caller's comments
// DELETE /api/v1/comments/:id
func (h *Handlers) DeleteComment(c *gin.Context) {
	commentID, err := h.engagement.DeleteComment(c.Request.Context(), util.CurrentUser(c), c.Param("id"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment_id": commentID})
}

// ToggleFollow follows or unfollows a user
// POST /api/v1/users/:id/follow
func (h *Handlers) ToggleFollow(c *gin.Context) {
	result, err := h.engagement.ToggleFollow(c.Request.Context(), util.CurrentUser(c), c.Param("id"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// IsFollowing reports whether the caller follows the user
// GET /api/v1/users/:id/follow
func (h *Handlers) IsFollowing(c *gin.Context) {
	following, err := h.engagement.IsFollowing(c.Request.Context(), util.CurrentUser(c), c.Param("id"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_following": following})
}

// GetFollowerCount counts a user's followers
// GET /api/v1/users/:id/followers/count
func (h *Handlers) GetFollowerCount(c *gin.Context) {
	count, err := h.engagement.GetFollowerCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"follower_count": count})
}

// GetMyFollowers lists users following the caller, newest first
// GET /api/v1/follows/followers
func (h *Handlers) GetMyFollowers(c *gin.Context) {
	limit := util.ParseLimit(c, engagement.DefaultFollowsLimit, 200)
	users, err := h.engagement.GetMyFollowers(c.Request.Context(), util.CurrentUser(c), limit)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// GetMyFollowing lists users the caller follows, newest first
// GET /api/v1/follows/following
func (h *Handlers) GetMyFollowing(c *gin.Context) {
	limit := util.ParseLimit(c, engagement.DefaultFollowsLimit, 200)
	users, err := h.engagement.GetMyFollowing(c.Request.Context(), util.CurrentUser(c), limit)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

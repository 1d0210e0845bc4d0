package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/posts"
	"github.com/zfogg/inkwell/backend/internal/util"
)

// CreatePost creates a draft or published post authored by the caller
// POST /api/v1/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	var input posts.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondBadRequest(c, "", "invalid request body")
		return
	}

	postID, err := h.posts.Create(c.Request.Context(), util.CurrentUser(c), input)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post_id": postID})
}

// UpdatePost replaces the editable fields of one of the caller's posts
// PUT /api/v1/posts/:id
func (h *Handlers) UpdatePost(c *gin.Context) {
	var input posts.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondBadRequest(c, "", "invalid request body")
		return
	}

	postID, err := h.posts.Update(c.Request.Context(), util.CurrentUser(c), c.Param("id"), input)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post_id": postID})
}

// DeletePost hard-deletes one of the caller's posts
// DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	postID, err := h.posts.Delete(c.Request.Context(), util.CurrentUser(c), c.Param("id"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post_id": postID})
}

// GetPost returns one of the caller's posts, drafts included
// GET /api/v1/posts/:id
func (h *Handlers) GetPost(c *gin.Context) {
	post, err := h.posts.GetByID(c.Request.Context(), util.CurrentUser(c), c.Param("id"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// GetUserDraft returns the caller's oldest draft; post is null when there is none
// GET /api/v1/posts/draft
func (h *Handlers) GetUserDraft(c *gin.Context) {
	draft, err := h.posts.GetUserDraft(c.Request.Context(), util.CurrentUser(c))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": draft})
}

// GetUserPosts lists the caller's posts newest first
// GET /api/v1/posts/mine
func (h *Handlers) GetUserPosts(c *gin.Context) {
	list, err := h.posts.GetUserPosts(c.Request.Context(), util.CurrentUser(c))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": list, "count": len(list)})
}

// IncrementViewCount records a view. No authentication needed.
// POST /api/v1/posts/:id/view
func (h *Handlers) IncrementViewCount(c *gin.Context) {
	count, err := h.posts.IncrementViewCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view_count": count})
}

// GetPublishedPostsByUsername lists an author's published posts for their public profile
// GET /api/v1/public/:username/posts
func (h *Handlers) GetPublishedPostsByUsername(c *gin.Context) {
	limit := util.ParseLimit(c, posts.DefaultPublicPostsLimit, 100)
	list, err := h.posts.GetPublishedPostsByUsername(c.Request.Context(), c.Param("username"), limit)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": list, "count": len(list)})
}

// GetPublishedPost returns a published post by slug or ID; post is null when nothing matches
// GET /api/v1/public/:username/posts/:post
func (h *Handlers) GetPublishedPost(c *gin.Context) {
	post, err := h.posts.GetPublishedPost(c.Request.Context(), c.Param("username"), c.Param("post"))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gameforum/client/internal/store"
)

// PostInput defines the structure for post creation.
type PostInput struct {
	Title   string   `json:"title" example:"新人报道"`
	Author  string   `json:"author"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

// CommentInput defines the structure for comment creation.
type CommentInput struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// CreatePost godoc
// @Summary      Add a post
// @Description  Commits the post locally and best-effort mirrors it to the backend.
// @Tags         forum
// @Accept       json
// @Produce      json
// @Param        input body PostInput true "Post Info"
// @Success      201 {object} store.AddResult
// @Failure      400 {object} ErrorResponse
// @Router       /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := h.store.AddPost(c.Request.Context(), store.PostInput{
		Title:   input.Title,
		Author:  input.Author,
		Content: input.Content,
		Images:  input.Images,
	})
	c.JSON(http.StatusCreated, res)
}

// GetPosts godoc
// @Summary      List posts
// @Description  Returns posts newest first. A q parameter updates the stored search filter.
// @Tags         forum
// @Produce      json
// @Param        q query string false "Search filter for title, content or author"
// @Success      200 {array} store.Post
// @Router       /posts [get]
func (h *Handler) GetPosts(c *gin.Context) {
	if q, ok := c.GetQuery("q"); ok {
		h.store.SetForumSearch(q)
	}
	c.JSON(http.StatusOK, h.store.SearchPosts())
}

// GetPostByID godoc
// @Summary      Get a single post
// @Tags         forum
// @Produce      json
// @Param        id path string true "Local post ID"
// @Success      200 {object} store.Post
// @Failure      404 {object} ErrorResponse
// @Router       /posts/{id} [get]
func (h *Handler) GetPostByID(c *gin.Context) {
	p := h.store.Post(c.Param("id"))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// AddComment godoc
// @Summary      Comment on a post
// @Description  Appends the comment locally; remote mirroring needs a signed-in session.
// @Tags         forum
// @Accept       json
// @Produce      json
// @Param        id    path string       true "Local post ID"
// @Param        input body CommentInput true "Comment"
// @Success      201 {object} map[string]string "{"id": "..."}"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /posts/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := h.store.AddComment(c.Request.Context(), c.Param("id"), store.CommentInput{
		Author:  input.Author,
		Content: input.Content,
	})
	if id == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// LikePost godoc
// @Summary      Like a post
// @Description  Increments the like counter. Local-only, no uniqueness check.
// @Tags         forum
// @Produce      json
// @Param        id path string true "Local post ID"
// @Success      200 {object} map[string]int "{"likes": 4}"
// @Failure      404 {object} ErrorResponse
// @Router       /posts/{id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	likes, ok := h.store.LikePost(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// SetForumSearch godoc
// @Summary      Set the forum search filter
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        input body SearchInput true "Filter"
// @Success      200 {object} map[string]string
// @Router       /search/posts [put]
func (h *Handler) SetForumSearch(c *gin.Context) {
	var input SearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.store.SetForumSearch(input.Query)
	c.JSON(http.StatusOK, gin.H{"query": input.Query})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RelationResponse describes one side of the follow graph for a user.
type RelationResponse struct {
	Name      string `json:"name"`
	Following bool   `json:"following"`
}

// FollowUser godoc
// @Summary      Follow a user
// @Description  Adds the follow edge on both sides. Idempotent.
// @Tags         social
// @Produce      json
// @Param        name path string true "Target display name"
// @Success      200 {object} RelationResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /users/{name}/follow [post]
func (h *Handler) FollowUser(c *gin.Context) {
	name := c.Param("name")
	if !h.store.FollowUser(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow this user"})
		return
	}
	c.JSON(http.StatusOK, RelationResponse{Name: name, Following: true})
}

// UnfollowUser godoc
// @Summary      Unfollow a user
// @Description  Removes the follow edge on both sides.
// @Tags         social
// @Produce      json
// @Param        name path string true "Target display name"
// @Success      200 {object} RelationResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /users/{name}/follow [delete]
func (h *Handler) UnfollowUser(c *gin.Context) {
	name := c.Param("name")
	if !h.store.UnfollowUser(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot unfollow this user"})
		return
	}
	c.JSON(http.StatusOK, RelationResponse{Name: name, Following: false})
}

// GetFollowers godoc
// @Summary      List a user's followers
// @Tags         social
// @Produce      json
// @Param        name path string true "Display name"
// @Success      200 {array} store.Person
// @Router       /users/{name}/followers [get]
func (h *Handler) GetFollowers(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.FollowersOf(c.Param("name")))
}

// GetFollowing godoc
// @Summary      List who a user follows
// @Tags         social
// @Produce      json
// @Param        name path string true "Display name"
// @Success      200 {array} store.Person
// @Router       /users/{name}/following [get]
func (h *Handler) GetFollowing(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.FollowingOf(c.Param("name")))
}

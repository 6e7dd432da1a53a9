package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gameforum/client/internal/store"
)

// SignUpInput defines the structure for user registration.
type SignUpInput struct {
	Username string `json:"username" binding:"required" example:"testuser"`
	Email    string `json:"email" binding:"required" example:"test@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// SignInInput defines the structure for user login.
type SignInInput struct {
	Email    string `json:"email" binding:"required" example:"test@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// AvatarInput defines the structure for avatar updates.
type AvatarInput struct {
	Avatar string `json:"avatar" binding:"required"`
}

// SignUp godoc
// @Summary      Register a new user
// @Description  Creates a remote identity plus profile and signs the user in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body SignUpInput true "Registration Info"
// @Success      201  {object}  store.User
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/signup [post]
func (h *Handler) SignUp(c *gin.Context) {
	var input SignUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok := h.store.SignUp(c.Request.Context(), store.Credentials{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration failed"})
		return
	}
	c.JSON(http.StatusCreated, h.store.CurrentUser())
}

// SignIn godoc
// @Summary      Log in a user
// @Description  Authenticates against the remote provider and loads the profile.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body SignInInput true "Login Info"
// @Success      200  {object}  store.User
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/signin [post]
func (h *Handler) SignIn(c *gin.Context) {
	var input SignInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok := h.store.SignIn(c.Request.Context(), store.Credentials{
		Email:    input.Email,
		Password: input.Password,
	})
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, h.store.CurrentUser())
}

// SignOut godoc
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]string "{"message": "Signed out"}"
// @Router       /auth/signout [post]
func (h *Handler) SignOut(c *gin.Context) {
	h.store.SignOut()
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Me godoc
// @Summary      Get the active session user
// @Tags         auth
// @Produce      json
// @Success      200 {object} store.User
// @Failure      401 {object} ErrorResponse
// @Router       /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user := h.store.CurrentUser()
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateAvatar godoc
// @Summary      Update the session user's avatar
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body AvatarInput true "Avatar data URL"
// @Success      200 {object} store.User
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /me/avatar [put]
func (h *Handler) UpdateAvatar(c *gin.Context) {
	var input AvatarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.store.UpdateAvatar(input.Avatar) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}
	c.JSON(http.StatusOK, h.store.CurrentUser())
}

// Package handler is the JSON surface over the store. Store sentinels map
// onto HTTP statuses: validation failures become 400, missing records 404.
// Remote mirror failures never surface here; by the time a handler responds,
// the local write has already committed.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gameforum/client/internal/store"
)

// Handler binds the HTTP surface to one store.
type Handler struct {
	store *store.Store
}

// New returns a handler backed by s.
func New(s *store.Store) *Handler {
	return &Handler{store: s}
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// RequireSession aborts with 401 when no user is signed in.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.store.CurrentUser() == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign-in required"})
			return
		}
		c.Next()
	}
}

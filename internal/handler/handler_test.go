package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"gameforum/client/internal/store"
)

func newRouter() (*gin.Engine, *store.Store) {
	gin.SetMode(gin.TestMode)
	s := store.New(nil)
	h := New(s)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/signup", h.SignUp)
	api.GET("/auth/me", h.Me)
	api.GET("/games", h.GetGames)
	api.POST("/games", h.CreateGame)
	api.GET("/games/:id", h.GetGameByID)
	api.POST("/games/:id/ratings", h.AddRating)
	api.POST("/posts", h.CreatePost)
	api.POST("/posts/:id/comments", h.AddComment)
	api.POST("/posts/:id/like", h.LikePost)

	protected := api.Group("/users")
	protected.Use(h.RequireSession())
	protected.POST("/:name/follow", h.FollowUser)

	return r, s
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateGameAcceptsLooseInput(t *testing.T) {
	r, s := newRouter()
	w := doJSON(r, http.MethodPost, "/api/v1/games", `{"title":"","price":"abc"}`)
	assert.Equal(t, w.Code, http.StatusCreated)

	var res store.AddResult
	assert.Equal(t, json.Unmarshal(w.Body.Bytes(), &res), nil)
	g := s.Game(res.LocalID)
	assert.Equal(t, g.Title, "未命名游戏")
	assert.Equal(t, g.Price, float64(0))
}

func TestCreateGameNumericPrice(t *testing.T) {
	r, s := newRouter()
	w := doJSON(r, http.MethodPost, "/api/v1/games", `{"title":"t","price":128}`)
	assert.Equal(t, w.Code, http.StatusCreated)

	var res store.AddResult
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, s.Game(res.LocalID).Price, float64(128))
}

func TestGetGameNotFound(t *testing.T) {
	r, _ := newRouter()
	w := doJSON(r, http.MethodGet, "/api/v1/games/g_missing", "")
	assert.Equal(t, w.Code, http.StatusNotFound)
}

func TestRatingEndpoint(t *testing.T) {
	r, s := newRouter()
	w := doJSON(r, http.MethodPost, "/api/v1/games/game_demo/ratings", `{"stars":9}`)
	assert.Equal(t, w.Code, http.StatusCreated)
	assert.Equal(t, s.Game("game_demo").Ratings[0].Stars, 5)

	w = doJSON(r, http.MethodPost, "/api/v1/games/g_missing/ratings", `{"stars":3}`)
	assert.Equal(t, w.Code, http.StatusNotFound)
}

func TestCommentOnMissingPost(t *testing.T) {
	r, _ := newRouter()
	w := doJSON(r, http.MethodPost, "/api/v1/posts/p_missing/comments", `{"content":"hi"}`)
	assert.Equal(t, w.Code, http.StatusNotFound)
}

func TestLikeEndpoint(t *testing.T) {
	r, _ := newRouter()
	w := doJSON(r, http.MethodPost, "/api/v1/posts/post_demo/like", "")
	assert.Equal(t, w.Code, http.StatusOK)

	var body map[string]int
	json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, body["likes"], 4)
}

func TestSignUpValidationMapsTo400(t *testing.T) {
	r, s := newRouter()
	// password too short: store fails closed before any remote call
	w := doJSON(r, http.MethodPost, "/api/v1/auth/signup",
		`{"username":"alice","email":"a@b.com","password":"12345"}`)
	assert.Equal(t, w.Code, http.StatusBadRequest)
	assert.Equal(t, s.CurrentUser() == nil, true)
}

func TestMeWhenAnonymous(t *testing.T) {
	r, _ := newRouter()
	w := doJSON(r, http.MethodGet, "/api/v1/auth/me", "")
	assert.Equal(t, w.Code, http.StatusUnauthorized)
}

func TestFollowRequiresSession(t *testing.T) {
	r, _ := newRouter()
	w := doJSON(r, http.MethodPost, "/api/v1/users/bob/follow", "")
	assert.Equal(t, w.Code, http.StatusUnauthorized)
}

func TestGamesListWithFilter(t *testing.T) {
	r, _ := newRouter()
	doJSON(r, http.MethodPost, "/api/v1/games", `{"title":"Star Quest"}`)

	w := doJSON(r, http.MethodGet, "/api/v1/games?q=star", "")
	assert.Equal(t, w.Code, http.StatusOK)

	var out []GameResponse
	assert.Equal(t, json.Unmarshal(w.Body.Bytes(), &out), nil)
	assert.Equal(t, len(out), 1)
	assert.Equal(t, out[0].Game.Title, "Star Quest")
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"gameforum/client/internal/store"
)

// region --- DTOs ---

// GameInput defines the structure for game creation. Every field is
// optional; blanks get defaulted by the store.
type GameInput struct {
	Title       string   `json:"title" example:"永夜传说"`
	Company     string   `json:"company" example:"星环工作室"`
	Price       any      `json:"price" swaggertype:"number" example:"128"`
	Genre       string   `json:"genre"`
	Genres      []string `json:"genres"`
	Background  string   `json:"background"`
	Gameplay    string   `json:"gameplay"`
	OfficialURL string   `json:"officialUrl"`
	Cover       string   `json:"cover"`
	Gallery     []string `json:"gallery"`
}

// RatingInput defines the structure for a star vote.
type RatingInput struct {
	Stars float64 `json:"stars" example:"5"`
}

// GameResponse pairs a game with its aggregated rating.
type GameResponse struct {
	Game         *store.Game `json:"game"`
	AverageStars float64     `json:"averageStars"`
}

func newGameResponse(g *store.Game) GameResponse {
	return GameResponse{Game: g, AverageStars: store.AverageStars(g)}
}

// endregion

// CreateGame godoc
// @Summary      Add a game
// @Description  Commits the game locally and best-effort mirrors it to the backend.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        input body GameInput true "Game Info"
// @Success      201 {object} store.AddResult
// @Failure      400 {object} ErrorResponse
// @Router       /games [post]
func (h *Handler) CreateGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price := ""
	if input.Price != nil {
		price = fmt.Sprintf("%v", input.Price)
	}
	res := h.store.AddGame(c.Request.Context(), store.GameInput{
		Title:       input.Title,
		Company:     input.Company,
		Price:       price,
		Genre:       input.Genre,
		Genres:      input.Genres,
		Background:  input.Background,
		Gameplay:    input.Gameplay,
		OfficialURL: input.OfficialURL,
		Cover:       input.Cover,
		Gallery:     input.Gallery,
	})
	c.JSON(http.StatusCreated, res)
}

// GetGames godoc
// @Summary      List games
// @Description  Returns games newest first. A q parameter updates the stored search filter.
// @Tags         games
// @Produce      json
// @Param        q query string false "Search filter for title, company or genre"
// @Success      200 {array} GameResponse
// @Router       /games [get]
func (h *Handler) GetGames(c *gin.Context) {
	if q, ok := c.GetQuery("q"); ok {
		h.store.SetGameSearch(q)
	}
	games := h.store.SearchGames()
	out := make([]GameResponse, 0, len(games))
	for _, g := range games {
		out = append(out, newGameResponse(g))
	}
	c.JSON(http.StatusOK, out)
}

// GetGameByID godoc
// @Summary      Get a single game
// @Tags         games
// @Produce      json
// @Param        id path string true "Local game ID"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id} [get]
func (h *Handler) GetGameByID(c *gin.Context) {
	g := h.store.Game(c.Param("id"))
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	c.JSON(http.StatusOK, newGameResponse(g))
}

// AddRating godoc
// @Summary      Rate a game
// @Description  Stores a star vote, rounded and clamped into [1,5]. Ratings are local-only.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        id    path string      true "Local game ID"
// @Param        input body RatingInput true "Stars"
// @Success      201 {object} map[string]any "{"id": "...", "averageStars": 4.5}"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id}/ratings [post]
func (h *Handler) AddRating(c *gin.Context) {
	var input RatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	gameID := c.Param("id")
	id := h.store.AddRating(gameID, input.Stars)
	if id == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":           id,
		"averageStars": store.AverageStars(h.store.Game(gameID)),
	})
}

// SetGameSearch godoc
// @Summary      Set the game search filter
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        input body SearchInput true "Filter"
// @Success      200 {object} map[string]string
// @Router       /search/games [put]
func (h *Handler) SetGameSearch(c *gin.Context) {
	var input SearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.store.SetGameSearch(input.Query)
	c.JSON(http.StatusOK, gin.H{"query": input.Query})
}

// SearchInput defines the structure for search filter updates.
type SearchInput struct {
	Query string `json:"query"`
}

package store

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
)

// GameInput is the raw material for AddGame. Every field may be blank or
// malformed; defaults are applied on insert.
type GameInput struct {
	Title       string
	Company     string
	Price       string // free-form, coerced to a number
	Genre       string
	Genres      []string
	Background  string
	Gameplay    string
	OfficialURL string
	Cover       string
	Gallery     []string
}

// AddResult carries both identifiers of an optimistically created record.
// RemoteID is empty when the backend mirror did not (yet) succeed.
type AddResult struct {
	LocalID  string `json:"localId"`
	RemoteID string `json:"remoteId,omitempty"`
}

// AddGame commits a new game to local state immediately, then attempts to
// mirror it to the backend. The local record is returned usable either way;
// on mirror success its remote id is patched in.
func (s *Store) AddGame(ctx context.Context, in GameInput) AddResult {
	title := fallback(strings.TrimSpace(in.Title), defaultGameTitle)
	company := fallback(strings.TrimSpace(in.Company), defaultCompany)
	price := parsePrice(in.Price)
	genres := normalizeGenres(in.Genres, in.Genre)
	gallery := compact(in.Gallery)
	background := strings.TrimSpace(in.Background)
	gameplay := strings.TrimSpace(in.Gameplay)
	officialURL := strings.TrimSpace(in.OfficialURL)
	cover := strings.TrimSpace(in.Cover)

	g := &Game{
		ID:          newID("g"),
		Title:       title,
		Company:     company,
		Price:       price,
		Genre:       fallback(strings.TrimSpace(in.Genre), genres[0]),
		Genres:      genres,
		Background:  background,
		Gameplay:    gameplay,
		OfficialURL: officialURL,
		Cover:       cover,
		Gallery:     gallery,
		CreatedAt:   nowMillis(),
		Ratings:     []*Rating{},
	}

	s.mu.Lock()
	creator, creatorID := anonymousName, ""
	if s.state.User != nil {
		creator = s.state.User.Name
		creatorID = s.state.User.ID
	}
	g.Creator = creator
	s.state.Games = append([]*Game{g}, s.state.Games...)
	s.mu.Unlock()
	s.dirty()

	res := AddResult{LocalID: g.ID}

	row := map[string]any{
		"title":        title,
		"company":      company,
		"price":        price,
		"genres":       []string(genres),
		"background":   background,
		"gameplay":     gameplay,
		"official_url": officialURL,
		"cover_url":    cover,
		"created_at":   time.Now().UTC().Format(time.RFC3339),
	}
	if creatorID != "" {
		row["creator"] = creatorID
	}
	data, err := s.insertRow(ctx, "games", row)
	if err != nil {
		glog.Errorf("store: mirroring game %s failed: %v", g.ID, err)
		return res
	}
	if id := remoteIDString(data["id"]); id != "" {
		s.mu.Lock()
		g.RemoteID = id
		s.mu.Unlock()
		s.dirty()
		res.RemoteID = id
		glog.V(1).Infof("store: game %s mirrored as %s", g.ID, id)
	}
	return res
}

// Game looks a game up by local id. Callers must nil-check.
func (s *Store) Game(id string) *Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game(id)
}

func (s *Store) game(id string) *Game {
	for _, g := range s.state.Games {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// Games returns all games, newest first.
func (s *Store) Games() []*Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Game, len(s.state.Games))
	copy(out, s.state.Games)
	return out
}

// AddRating appends a star vote to a game. The value is rounded and clamped
// into [1,5]. Ratings are local-only; they are never mirrored to the
// backend. Returns the rating id, or "" when the game does not exist.
func (s *Store) AddRating(gameID string, stars float64) string {
	v := int(math.Round(stars))
	if v < 1 {
		v = 1
	}
	if v > 5 {
		v = 5
	}
	s.mu.Lock()
	g := s.game(gameID)
	if g == nil {
		s.mu.Unlock()
		return ""
	}
	r := &Rating{ID: newID("r"), Stars: v, CreatedAt: nowMillis()}
	g.Ratings = append(g.Ratings, r)
	s.mu.Unlock()
	s.dirty()
	return r.ID
}

// AverageStars is the mean star value rounded to one decimal, 0 when the
// game has no ratings.
func AverageStars(g *Game) float64 {
	if g == nil || len(g.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range g.Ratings {
		sum += r.Stars
	}
	return math.Round(float64(sum)/float64(len(g.Ratings))*10) / 10
}

// SetGameSearch stores the catalogue search filter.
func (s *Store) SetGameSearch(q string) {
	s.mu.Lock()
	s.state.SearchGame = strings.TrimSpace(q)
	s.mu.Unlock()
	s.dirty()
}

// SearchGames returns the games matching the stored filter against title,
// company and genre tags. An empty filter matches everything.
func (s *Store) SearchGames() []*Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := s.state.SearchGame
	if q == "" {
		out := make([]*Game, len(s.state.Games))
		copy(out, s.state.Games)
		return out
	}
	out := []*Game{}
	for _, g := range s.state.Games {
		if containsFold(g.Title, q) || containsFold(g.Company, q) {
			out = append(out, g)
			continue
		}
		for _, genre := range g.Genres {
			if containsFold(genre, q) {
				out = append(out, g)
				break
			}
		}
	}
	return out
}

func parsePrice(raw string) float64 {
	p, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

package store

import (
	"context"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestAddGameDefaultsBlankFields(t *testing.T) {
	s := New(nil)
	res := s.AddGame(context.Background(), GameInput{Title: "", Price: "abc"})
	assert.Equal(t, res.LocalID == "", false)
	assert.Equal(t, res.RemoteID, "")

	g := s.Game(res.LocalID)
	assert.Equal(t, g == nil, false)
	assert.Equal(t, g.Title, "未命名游戏")
	assert.Equal(t, g.Company, "未知公司")
	assert.Equal(t, g.Price, float64(0))
	assert.Equal(t, []string(g.Genres), []string{"未分类"})
	assert.Equal(t, g.Creator, "匿名")
}

func TestAddGamePrependsNewest(t *testing.T) {
	s := New(nil)
	res := s.AddGame(context.Background(), GameInput{Title: "新游戏"})
	games := s.Games()
	assert.Equal(t, games[0].ID, res.LocalID)
	assert.Equal(t, games[len(games)-1].ID, "game_demo")
}

func TestAddGameNormalizesGallery(t *testing.T) {
	s := New(nil)
	res := s.AddGame(context.Background(), GameInput{
		Title:   "t",
		Gallery: []string{"a", "", " b "},
	})
	g := s.Game(res.LocalID)
	assert.Equal(t, []string(g.Gallery), []string{"a", "b"})
}

func TestAddGameMirrorsAndPatchesRemoteID(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend)
	res := s.AddGame(context.Background(), GameInput{Title: "永夜传说", Price: "128"})

	assert.Equal(t, res.RemoteID, "remote_1")
	assert.Equal(t, s.Game(res.LocalID).RemoteID, "remote_1")

	calls := backend.insertsTo("games")
	assert.Equal(t, len(calls), 1)
	assert.Equal(t, calls[0].row["title"], "永夜传说")
	assert.Equal(t, calls[0].row["price"], float64(128))
	_, hasCreator := calls[0].row["creator"]
	assert.Equal(t, hasCreator, false)
}

func TestAddGameKeepsLocalRecordOnRemoteFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failTables["games"] = true
	s := New(backend)

	res := s.AddGame(context.Background(), GameInput{Title: "t"})
	assert.Equal(t, res.RemoteID, "")

	g := s.Game(res.LocalID)
	assert.Equal(t, g == nil, false)
	assert.Equal(t, g.RemoteID, "")
	assert.Equal(t, g.Title, "t")
}

func TestGameLookupMissing(t *testing.T) {
	s := New(nil)
	assert.Equal(t, s.Game("g_missing") == nil, true)
}

func TestAddRatingClampsAndRounds(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{2.4, 2},
		{2.5, 3},
		{4.6, 5},
		{5, 5},
		{9, 5},
	}
	for _, tc := range cases {
		s := New(nil)
		id := s.AddRating("game_demo", tc.in)
		assert.Equal(t, id == "", false)
		assert.Equal(t, s.Game("game_demo").Ratings[0].Stars, tc.want)
	}
}

func TestAddRatingMissingGame(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend)
	assert.Equal(t, s.AddRating("g_missing", 5), "")
	assert.Equal(t, len(backend.inserts), 0)
}

func TestAddRatingStaysLocal(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend)
	s.AddRating("game_demo", 4)
	assert.Equal(t, len(backend.inserts), 0)
}

func TestAverageStars(t *testing.T) {
	g := &Game{}
	assert.Equal(t, AverageStars(g), float64(0))
	assert.Equal(t, AverageStars(nil), float64(0))

	g.Ratings = []*Rating{{Stars: 3}, {Stars: 4}, {Stars: 5}}
	assert.Equal(t, AverageStars(g), 4.0)

	g.Ratings = []*Rating{{Stars: 4}, {Stars: 4}, {Stars: 5}}
	assert.Equal(t, AverageStars(g), 4.3)
}

func TestSearchGames(t *testing.T) {
	s := New(nil)
	s.AddGame(context.Background(), GameInput{Title: "Star Quest", Company: "Acme", Genres: []string{"策略"}})

	s.SetGameSearch("star")
	out := s.SearchGames()
	assert.Equal(t, len(out), 1)
	assert.Equal(t, out[0].Title, "Star Quest")

	s.SetGameSearch("策略")
	assert.Equal(t, len(s.SearchGames()), 1)

	s.SetGameSearch("")
	assert.Equal(t, len(s.SearchGames()), 2)

	s.SetGameSearch("nothing-matches")
	assert.Equal(t, len(s.SearchGames()), 0)
}

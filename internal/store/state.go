package store

import (
	"encoding/json"
	"strings"
)

// State is the full local authoritative state tree. Field names follow the
// persisted snapshot format, so an existing snapshot loads unchanged.
type State struct {
	User        *User                `json:"user"`
	Profiles    map[string]*Profile  `json:"profiles"`
	Relations   map[string]*Relation `json:"relations"`
	SearchGame  string               `json:"searchGame"`
	SearchForum string               `json:"searchForum"`
	Games       []*Game              `json:"games"`
	Posts       []*Post              `json:"posts"`
}

// Game is a catalogue entry. RemoteID stays empty until the backend mirror
// succeeds.
type Game struct {
	ID          string     `json:"id"`
	RemoteID    string     `json:"supabase_id,omitempty"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Price       float64    `json:"price"`
	Genre       string     `json:"genre,omitempty"` // legacy single-genre field
	Genres      StringList `json:"genres"`
	Background  string     `json:"background"`
	Gameplay    string     `json:"gameplay"`
	OfficialURL string     `json:"officialUrl"`
	Cover       string     `json:"cover"`
	Gallery     StringList `json:"gallery"`
	CreatedAt   int64      `json:"createdAt"`
	Creator     string     `json:"creator"`
	Ratings     []*Rating  `json:"ratings"`
}

// Rating is one star vote on a game.
type Rating struct {
	ID        string `json:"id"`
	Stars     int    `json:"stars"`
	CreatedAt int64  `json:"createdAt"`
}

// Post is a forum thread.
type Post struct {
	ID        string     `json:"id"`
	RemoteID  string     `json:"supabase_id,omitempty"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Content   string     `json:"content"`
	CreatedAt int64      `json:"createdAt"`
	Likes     int        `json:"likes"`
	Images    StringList `json:"images"`
	Comments  []*Comment `json:"comments"`
}

// Comment is a reply on a post.
type Comment struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

// User is the active session. ID is assigned by the auth provider.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Profile is the per-display-name record, independent of session lifetime.
type Profile struct {
	Avatar string `json:"avatar,omitempty"`
}

// Relation holds both sides of the follow graph for one display name.
type Relation struct {
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// Person is a resolved display record for follower/following listings.
type Person struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// StringList unmarshals from either a JSON array or a comma separated
// string, dropping empty and non-string entries either way.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []any
	if err := json.Unmarshal(data, &items); err == nil {
		out := make(StringList, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					out = append(out, t)
				}
			}
		}
		*l = out
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Unrecognized shapes degrade to empty rather than failing the
		// whole snapshot load.
		*l = StringList{}
		return nil
	}
	*l = splitList(s)
	return nil
}

func splitList(s string) StringList {
	out := StringList{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func compact(in []string) StringList {
	out := StringList{}
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

package store

import (
	"encoding/json"
	"strings"

	"github.com/golang/glog"
)

// StorageKey is the fixed key the snapshot lives under in local storage.
const StorageKey = "game_forum_store_v1"

const (
	defaultGameTitle = "未命名游戏"
	defaultCompany   = "未知公司"
	defaultGenre     = "未分类"
	defaultPostTitle = "无标题"
	anonymousName    = "匿名"
)

// seedState is the dataset used when no snapshot exists: one example game and
// one example post.
func seedState() *State {
	return &State{
		Profiles:  map[string]*Profile{},
		Relations: map[string]*Relation{},
		Games: []*Game{
			{
				ID:          "game_demo",
				Title:       "示例游戏：永夜传说",
				Company:     "星环工作室",
				Price:       128,
				Genre:       "角色扮演",
				Genres:      StringList{"角色扮演"},
				Background:  "在永夜笼罩的大陆，玩家踏上寻找曙光的旅途。",
				Gameplay:    "开放世界探索 + 回合制战斗 + 队伍养成。",
				OfficialURL: "https://example.com/demo-game",
				Gallery: StringList{
					"https://picsum.photos/seed/game1/1200/600",
					"https://picsum.photos/seed/game2/1200/600",
					"https://picsum.photos/seed/game3/1200/600",
				},
				CreatedAt: nowMillis(),
				Creator:   anonymousName,
				Ratings:   []*Rating{},
			},
		},
		Posts: []*Post{
			{
				ID:        "post_demo",
				Title:     "新人报道：永夜传说初体验",
				Author:    "小明",
				Content:   "战斗节奏不错，剧情也挺吸引人。你们都玩到哪了？",
				CreatedAt: nowMillis(),
				Likes:     3,
				Images:    StringList{},
				Comments: []*Comment{
					{
						ID:        newID("c"),
						Author:    "路人甲",
						Content:   "刚打完第一章 Boss！",
						CreatedAt: nowMillis(),
					},
				},
			},
		},
	}
}

// Migrate turns a persisted snapshot into a usable state tree. A nil or
// malformed snapshot falls back to the seed dataset. Migration is structural:
// missing collections get empty defaults, game galleries and genres are
// normalized, and every post gets an image list. Running it twice yields the
// same result.
func Migrate(raw []byte) *State {
	base := seedState()
	if len(raw) > 0 {
		var src State
		if err := json.Unmarshal(raw, &src); err != nil {
			glog.Warningf("store: snapshot unreadable, starting from seed data: %v", err)
		} else {
			base.User = src.User
			base.SearchGame = src.SearchGame
			base.SearchForum = src.SearchForum
			if src.Games != nil {
				base.Games = src.Games
			}
			if src.Posts != nil {
				base.Posts = src.Posts
			}
			base.Profiles = src.Profiles
			base.Relations = src.Relations
		}
	}
	normalize(base)
	return base
}

func normalize(s *State) {
	if s.Profiles == nil {
		s.Profiles = map[string]*Profile{}
	}
	if s.Relations == nil {
		s.Relations = map[string]*Relation{}
	}
	for name, rel := range s.Relations {
		if rel == nil {
			s.Relations[name] = &Relation{Followers: []string{}, Following: []string{}}
			continue
		}
		if rel.Followers == nil {
			rel.Followers = []string{}
		}
		if rel.Following == nil {
			rel.Following = []string{}
		}
	}
	for _, g := range s.Games {
		if g.Gallery == nil {
			g.Gallery = StringList{}
		}
		g.Genres = normalizeGenres(g.Genres, g.Genre)
		if g.Ratings == nil {
			g.Ratings = []*Rating{}
		}
	}
	for _, p := range s.Posts {
		if p.Images == nil {
			p.Images = StringList{}
		}
		if p.Comments == nil {
			p.Comments = []*Comment{}
		}
	}
}

// normalizeGenres guarantees a non-empty tag list: the given list with blanks
// dropped, else the legacy single-genre field, else the uncategorized
// sentinel.
func normalizeGenres(genres []string, legacy string) StringList {
	out := compact(genres)
	if len(out) > 0 {
		return out
	}
	if t := strings.TrimSpace(legacy); t != "" {
		return StringList{t}
	}
	return StringList{defaultGenre}
}

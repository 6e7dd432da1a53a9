package store

import (
	"context"
	"strings"
	"time"

	"github.com/golang/glog"
)

// PostInput is the raw material for AddPost.
type PostInput struct {
	Title   string
	Author  string
	Content string
	Images  []string
}

// CommentInput is the raw material for AddComment.
type CommentInput struct {
	Author  string
	Content string
}

// AddPost commits a new post locally, then best-effort mirrors it to the
// backend, patching the remote id on success.
func (s *Store) AddPost(ctx context.Context, in PostInput) AddResult {
	title := fallback(strings.TrimSpace(in.Title), defaultPostTitle)
	content := strings.TrimSpace(in.Content)

	p := &Post{
		ID:        newID("p"),
		Title:     title,
		Content:   content,
		CreatedAt: nowMillis(),
		Images:    compact(in.Images),
		Comments:  []*Comment{},
	}

	s.mu.Lock()
	author := strings.TrimSpace(in.Author)
	if author == "" && s.state.User != nil {
		author = s.state.User.Name
	}
	p.Author = fallback(author, anonymousName)
	var authorID string
	if s.state.User != nil {
		authorID = s.state.User.ID
	}
	s.state.Posts = append([]*Post{p}, s.state.Posts...)
	s.mu.Unlock()
	s.dirty()

	res := AddResult{LocalID: p.ID}

	row := map[string]any{
		"title":       title,
		"author_name": p.Author,
		"content":     content,
		"likes":       0,
		"created_at":  time.Now().UTC().Format(time.RFC3339),
	}
	if authorID != "" {
		row["author_id"] = authorID
	}
	data, err := s.insertRow(ctx, "posts", row)
	if err != nil {
		glog.Errorf("store: mirroring post %s failed: %v", p.ID, err)
		return res
	}
	if id := remoteIDString(data["id"]); id != "" {
		s.mu.Lock()
		p.RemoteID = id
		s.mu.Unlock()
		s.dirty()
		res.RemoteID = id
		glog.V(1).Infof("store: post %s mirrored as %s", p.ID, id)
	}
	return res
}

// Post looks a post up by local id. Callers must nil-check.
func (s *Store) Post(id string) *Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.post(id)
}

func (s *Store) post(id string) *Post {
	for _, p := range s.state.Posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Posts returns all posts, newest first.
func (s *Store) Posts() []*Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Post, len(s.state.Posts))
	copy(out, s.state.Posts)
	return out
}

// ensureRemotePost backfills the backend record for a post created before a
// mirror succeeded, attributed to the post's original author and timestamp.
// Returns the remote id, or "" when the backfill failed.
func (s *Store) ensureRemotePost(ctx context.Context, p *Post) string {
	s.mu.RLock()
	remoteID := p.RemoteID
	var authorID string
	if s.state.User != nil {
		authorID = s.state.User.ID
	}
	row := map[string]any{
		"title":       p.Title,
		"author_name": p.Author,
		"content":     p.Content,
		"likes":       p.Likes,
		"created_at":  time.UnixMilli(p.CreatedAt).UTC().Format(time.RFC3339),
	}
	s.mu.RUnlock()
	if remoteID != "" {
		return remoteID
	}
	if authorID != "" {
		row["author_id"] = authorID
	}
	data, err := s.insertRow(ctx, "posts", row)
	if err != nil {
		glog.Errorf("store: backfilling post %s failed: %v", p.ID, err)
		return ""
	}
	id := remoteIDString(data["id"])
	if id == "" {
		return ""
	}
	s.mu.Lock()
	p.RemoteID = id
	s.mu.Unlock()
	s.dirty()
	return id
}

// AddComment appends a comment to a post. The local append is unconditional;
// the backend mirror additionally needs the parent post to exist remotely
// (backfilled on demand) and an authenticated session. Returns the comment
// id, or "" when the post does not exist.
func (s *Store) AddComment(ctx context.Context, postID string, in CommentInput) string {
	s.mu.Lock()
	p := s.post(postID)
	if p == nil {
		s.mu.Unlock()
		return ""
	}
	author := strings.TrimSpace(in.Author)
	if author == "" && s.state.User != nil {
		author = s.state.User.Name
	}
	author = fallback(author, anonymousName)
	var authorID string
	if s.state.User != nil {
		authorID = s.state.User.ID
	}
	c := &Comment{
		ID:        newID("c"),
		Author:    author,
		Content:   strings.TrimSpace(in.Content),
		CreatedAt: nowMillis(),
	}
	p.Comments = append(p.Comments, c)
	s.mu.Unlock()
	s.dirty()

	remotePostID := s.ensureRemotePost(ctx, p)
	if remotePostID == "" {
		return c.ID
	}
	if authorID == "" {
		// Comment rows require an author identity; anonymous comments stay
		// local-only while anonymous posts still mirror.
		glog.V(1).Infof("store: no session, comment %s stays local", c.ID)
		return c.ID
	}
	row := map[string]any{
		"post_id":     remotePostID,
		"author_id":   authorID,
		"author_name": author,
		"content":     c.Content,
		"created_at":  time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := s.insertRow(ctx, "comments", row); err != nil {
		glog.Errorf("store: mirroring comment %s failed: %v", c.ID, err)
	}
	return c.ID
}

// LikePost increments a post's like counter. Local-only; likes are never
// mirrored to the backend. The second return is false when the post does
// not exist.
func (s *Store) LikePost(id string) (int, bool) {
	s.mu.Lock()
	p := s.post(id)
	if p == nil {
		s.mu.Unlock()
		return 0, false
	}
	p.Likes++
	likes := p.Likes
	s.mu.Unlock()
	s.dirty()
	return likes, true
}

// SetForumSearch stores the forum search filter.
func (s *Store) SetForumSearch(q string) {
	s.mu.Lock()
	s.state.SearchForum = strings.TrimSpace(q)
	s.mu.Unlock()
	s.dirty()
}

// SearchPosts returns the posts matching the stored filter against title,
// content and author. An empty filter matches everything.
func (s *Store) SearchPosts() []*Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := s.state.SearchForum
	out := []*Post{}
	for _, p := range s.state.Posts {
		if q == "" || containsFold(p.Title, q) || containsFold(p.Content, q) || containsFold(p.Author, q) {
			out = append(out, p)
		}
	}
	return out
}

package store

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang/glog"
)

// Credentials is the input to SignUp and SignIn.
type Credentials struct {
	Username string
	Email    string
	Password string
}

// SignUp registers a new identity with the auth provider, creates the linked
// profile row and establishes the session. Unlike content creation this is
// not optimistic: without a remote identity there is no session, so any
// validation or remote failure returns false and leaves the state anonymous.
func (s *Store) SignUp(ctx context.Context, creds Credentials) bool {
	username := strings.TrimSpace(creds.Username)
	email := strings.TrimSpace(creds.Email)
	password := strings.TrimSpace(creds.Password)

	if utf8.RuneCountInString(username) < 3 {
		return false
	}
	if !strings.Contains(email, "@") {
		return false
	}
	if len(password) < 6 {
		return false
	}
	if s.backend == nil {
		glog.Errorf("store: sign-up requires a remote backend")
		return false
	}
	if s.userTaken(ctx, username, email) {
		return false
	}

	session, err := s.backend.SignUp(ctx, email, password, username)
	if err != nil {
		glog.Errorf("store: auth sign-up for %s failed: %v", email, err)
		return false
	}
	s.backend.UseSession(session)
	userID := session.Subject()

	_, err = s.backend.InsertRow(ctx, "profiles", map[string]any{
		"id":         userID,
		"name":       username,
		"avatar_url": nil,
	})
	if err != nil {
		// No compensating delete: the anon client cannot remove auth
		// identities, so the orphan is left for a server-side sweep.
		glog.Errorf("store: profile row for identity %s failed, identity left unlinked: %v", userID, err)
		s.backend.UseSession(nil)
		return false
	}

	s.mu.Lock()
	s.state.User = &User{
		ID:        userID,
		Name:      username,
		Email:     email,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if _, ok := s.state.Profiles[username]; !ok {
		s.state.Profiles[username] = &Profile{}
	}
	s.mu.Unlock()
	s.dirty()
	return true
}

// userTaken probes the remote directory for an existing profile with the
// same name or email.
func (s *Store) userTaken(ctx context.Context, username, email string) bool {
	if row, err := s.backend.SelectSingle(ctx, "profiles", "name", username, "id"); err == nil && row != nil {
		return true
	}
	if row, err := s.backend.SelectSingle(ctx, "profiles", "email", email, "id"); err == nil && row != nil {
		return true
	}
	return false
}

// SignIn authenticates against the remote provider and loads the matching
// profile. Any failure leaves the state anonymous and returns false.
func (s *Store) SignIn(ctx context.Context, creds Credentials) bool {
	email := strings.TrimSpace(creds.Email)
	password := strings.TrimSpace(creds.Password)
	if !strings.Contains(email, "@") || password == "" {
		return false
	}
	if s.backend == nil {
		glog.Errorf("store: sign-in requires a remote backend")
		return false
	}

	session, err := s.backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		glog.Errorf("store: auth sign-in for %s failed: %v", email, err)
		return false
	}
	userID := session.Subject()

	profile, err := s.backend.SelectSingle(ctx, "profiles", "id", userID, "*")
	if err != nil || profile == nil {
		glog.Errorf("store: loading profile for identity %s failed: %v", userID, err)
		return false
	}
	s.backend.UseSession(session)

	name, _ := profile["name"].(string)
	avatar, _ := profile["avatar_url"].(string)
	createdAt, _ := profile["created_at"].(string)
	if createdAt == "" {
		createdAt = session.User.CreatedAt
	}

	s.mu.Lock()
	s.state.User = &User{
		ID:        userID,
		Name:      name,
		Email:     session.User.Email,
		Avatar:    avatar,
		CreatedAt: createdAt,
	}
	s.state.Profiles[name] = &Profile{Avatar: avatar}
	s.mu.Unlock()
	s.dirty()
	return true
}

// SignOut clears the session unconditionally. Profiles, relations and
// content created so far stay in place.
func (s *Store) SignOut() {
	s.mu.Lock()
	s.state.User = nil
	s.mu.Unlock()
	s.dirty()
	if s.backend != nil {
		s.backend.UseSession(nil)
	}
}

// CurrentUser returns the active session, or nil when anonymous.
func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// UpdateAvatar sets the avatar on the session user and its profile record.
// Returns false when anonymous.
func (s *Store) UpdateAvatar(dataURL string) bool {
	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		return false
	}
	s.state.User.Avatar = dataURL
	name := s.state.User.Name
	if s.state.Profiles[name] == nil {
		s.state.Profiles[name] = &Profile{}
	}
	s.state.Profiles[name].Avatar = dataURL
	s.mu.Unlock()
	s.dirty()
	return true
}

// AvatarOf resolves a display name to its stored avatar, "" when unknown.
func (s *Store) AvatarOf(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.state.Profiles[name]; p != nil {
		return p.Avatar
	}
	return ""
}

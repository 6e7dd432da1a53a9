package store

import (
	"context"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestSignUpValidationFailsClosed(t *testing.T) {
	cases := []Credentials{
		{Username: "ab", Email: "a@b.com", Password: "secret1"},   // name too short
		{Username: "alice", Email: "nomail", Password: "secret1"}, // no @
		{Username: "alice", Email: "a@b.com", Password: "12345"},  // password too short
		{},
	}
	for _, creds := range cases {
		backend := newFakeBackend()
		s := New(backend)
		assert.Equal(t, s.SignUp(context.Background(), creds), false)
		assert.Equal(t, s.CurrentUser() == nil, true)
		// fails before any remote traffic
		assert.Equal(t, len(backend.inserts), 0)
		assert.Equal(t, backend.selectCalls, 0)
		assert.Equal(t, len(backend.sessions), 0)
	}
}

func TestSignUpRejectsTakenName(t *testing.T) {
	backend := newFakeBackend()
	backend.selectRows["profiles/name/alice"] = map[string]any{"id": "other"}
	s := New(backend)

	ok := s.SignUp(context.Background(), Credentials{Username: "alice", Email: "a@b.com", Password: "secret1"})
	assert.Equal(t, ok, false)
	assert.Equal(t, s.CurrentUser() == nil, true)
	assert.Equal(t, len(backend.inserts), 0)
}

func TestSignUpSuccess(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend)

	ok := s.SignUp(context.Background(), Credentials{Username: "alice", Email: "a@b.com", Password: "secret1"})
	assert.Equal(t, ok, true)

	u := s.CurrentUser()
	assert.Equal(t, u == nil, false)
	assert.Equal(t, u.ID, "auth_1")
	assert.Equal(t, u.Name, "alice")
	assert.Equal(t, u.Email, "a@b.com")

	profiles := backend.insertsTo("profiles")
	assert.Equal(t, len(profiles), 1)
	assert.Equal(t, profiles[0].row["id"], "auth_1")
	assert.Equal(t, profiles[0].row["name"], "alice")

	// local profile cached
	_, cached := s.state.Profiles["alice"]
	assert.Equal(t, cached, true)
}

func TestSignUpAuthFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failAuth = true
	s := New(backend)

	ok := s.SignUp(context.Background(), Credentials{Username: "alice", Email: "a@b.com", Password: "secret1"})
	assert.Equal(t, ok, false)
	assert.Equal(t, s.CurrentUser() == nil, true)
}

func TestSignUpProfileFailureLeavesAnonymous(t *testing.T) {
	backend := newFakeBackend()
	backend.failTables["profiles"] = true
	s := New(backend)

	ok := s.SignUp(context.Background(), Credentials{Username: "alice", Email: "a@b.com", Password: "secret1"})
	assert.Equal(t, ok, false)
	assert.Equal(t, s.CurrentUser() == nil, true)
	// the session attached for the profile insert was detached again
	assert.Equal(t, backend.sessions[len(backend.sessions)-1] == nil, true)
}

func TestSignInValidation(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend)
	assert.Equal(t, s.SignIn(context.Background(), Credentials{Email: "nomail", Password: "x"}), false)
	assert.Equal(t, s.SignIn(context.Background(), Credentials{Email: "a@b.com", Password: ""}), false)
	assert.Equal(t, len(backend.sessions), 0)
}

func TestSignInSuccessLoadsProfile(t *testing.T) {
	backend := newFakeBackend()
	backend.selectRows["profiles/id/auth_1"] = map[string]any{
		"id":         "auth_1",
		"name":       "alice",
		"avatar_url": "data:image/png;base64,xyz",
		"created_at": "2025-01-01T00:00:00Z",
	}
	s := New(backend)

	ok := s.SignIn(context.Background(), Credentials{Email: "a@b.com", Password: "secret1"})
	assert.Equal(t, ok, true)

	u := s.CurrentUser()
	assert.Equal(t, u.Name, "alice")
	assert.Equal(t, u.Avatar, "data:image/png;base64,xyz")
	assert.Equal(t, u.CreatedAt, "2025-01-01T00:00:00Z")
	assert.Equal(t, s.AvatarOf("alice"), "data:image/png;base64,xyz")
}

func TestSignInMissingProfileFails(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend)

	ok := s.SignIn(context.Background(), Credentials{Email: "a@b.com", Password: "secret1"})
	assert.Equal(t, ok, false)
	assert.Equal(t, s.CurrentUser() == nil, true)
}

func TestSignOut(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend)
	s.state.User = &User{ID: "auth_1", Name: "alice"}
	s.state.Profiles["alice"] = &Profile{Avatar: "a.png"}

	s.SignOut()
	assert.Equal(t, s.CurrentUser() == nil, true)
	// profiles survive the session
	assert.Equal(t, s.AvatarOf("alice"), "a.png")
	assert.Equal(t, backend.sessions[len(backend.sessions)-1] == nil, true)
}

func TestUpdateAvatar(t *testing.T) {
	s := New(nil)
	assert.Equal(t, s.UpdateAvatar("x"), false)

	s.state.User = &User{ID: "auth_1", Name: "alice"}
	assert.Equal(t, s.UpdateAvatar("data:avatar"), true)
	assert.Equal(t, s.CurrentUser().Avatar, "data:avatar")
	assert.Equal(t, s.AvatarOf("alice"), "data:avatar")
	assert.Equal(t, s.AvatarOf("nobody"), "")
}

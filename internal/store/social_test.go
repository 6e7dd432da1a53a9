package store

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func signedIn(name string) *Store {
	s := New(nil)
	s.state.User = &User{ID: "auth_1", Name: name}
	return s
}

func TestFollowRequiresSessionAndTarget(t *testing.T) {
	s := New(nil)
	assert.Equal(t, s.FollowUser("bob"), false)

	s = signedIn("alice")
	assert.Equal(t, s.FollowUser(""), false)
	assert.Equal(t, s.FollowUser("  "), false)
	assert.Equal(t, s.FollowUser("alice"), false) // self
}

func TestFollowIsSymmetric(t *testing.T) {
	s := signedIn("alice")
	assert.Equal(t, s.FollowUser("bob"), true)
	assert.Equal(t, s.IsFollowing("bob"), true)

	followers := s.FollowersOf("bob")
	assert.Equal(t, len(followers), 1)
	assert.Equal(t, followers[0].Name, "alice")

	following := s.FollowingOf("alice")
	assert.Equal(t, len(following), 1)
	assert.Equal(t, following[0].Name, "bob")
}

func TestFollowIsIdempotent(t *testing.T) {
	s := signedIn("alice")
	s.FollowUser("bob")
	s.FollowUser("bob")
	assert.Equal(t, len(s.FollowingOf("alice")), 1)
	assert.Equal(t, len(s.FollowersOf("bob")), 1)
}

func TestUnfollowRemovesBothSides(t *testing.T) {
	s := signedIn("alice")
	s.FollowUser("bob")

	assert.Equal(t, s.UnfollowUser("bob"), true)
	assert.Equal(t, s.IsFollowing("bob"), false)
	assert.Equal(t, len(s.FollowersOf("bob")), 0)
	assert.Equal(t, len(s.FollowingOf("alice")), 0)
}

func TestUnfollowAlwaysNotifiesObservers(t *testing.T) {
	s := signedIn("alice")
	calls := 0
	s.OnChange(func([]byte) error {
		calls++
		return nil
	})

	// not following bob at all: the mutation is a no-op but observers
	// still hear about it
	assert.Equal(t, s.UnfollowUser("bob"), true)
	assert.Equal(t, calls, 1)
}

func TestFollowListsResolveAvatars(t *testing.T) {
	s := signedIn("alice")
	s.state.Profiles["alice"] = &Profile{Avatar: "alice.png"}
	s.FollowUser("bob")

	followers := s.FollowersOf("bob")
	assert.Equal(t, followers[0].Avatar, "alice.png")

	following := s.FollowingOf("alice")
	assert.Equal(t, following[0].Avatar, "")
}

func TestIsFollowingAnonymous(t *testing.T) {
	s := New(nil)
	assert.Equal(t, s.IsFollowing("bob"), false)
}

func TestRelationReadsDoNotCreateEntries(t *testing.T) {
	s := New(nil)
	s.FollowersOf("ghost")
	s.FollowingOf("ghost")
	_, exists := s.state.Relations["ghost"]
	assert.Equal(t, exists, false)
}

package store

import "strings"

// rel returns the relation record for name, creating it if needed. Caller
// holds the write lock.
func (s *Store) rel(name string) *Relation {
	r := s.state.Relations[name]
	if r == nil {
		r = &Relation{Followers: []string{}, Following: []string{}}
		s.state.Relations[name] = r
	}
	return r
}

// relView is a read-only lookup that never creates entries. Caller holds at
// least the read lock.
func (s *Store) relView(name string) Relation {
	if r := s.state.Relations[name]; r != nil {
		return *r
	}
	return Relation{}
}

// FollowUser adds target to the caller's following set and the caller to
// target's follower set. Idempotent; both sides always stay in sync. No-op
// returning false when anonymous, target is blank or target is the caller.
func (s *Store) FollowUser(target string) bool {
	target = strings.TrimSpace(target)
	s.mu.Lock()
	me := ""
	if s.state.User != nil {
		me = s.state.User.Name
	}
	if me == "" || target == "" || me == target {
		s.mu.Unlock()
		return false
	}
	my := s.rel(me)
	theirs := s.rel(target)
	if !contains(my.Following, target) {
		my.Following = append(my.Following, target)
	}
	if !contains(theirs.Followers, me) {
		theirs.Followers = append(theirs.Followers, me)
	}
	s.mu.Unlock()
	s.dirty()
	return true
}

// UnfollowUser removes both sides of the follow edge. The relations map is
// reassigned wholesale and the on-change hook always fires, so observers of
// the map are notified even when the removal touched nothing.
func (s *Store) UnfollowUser(target string) bool {
	target = strings.TrimSpace(target)
	s.mu.Lock()
	me := ""
	if s.state.User != nil {
		me = s.state.User.Name
	}
	if me == "" || target == "" {
		s.mu.Unlock()
		return false
	}
	my := s.rel(me)
	theirs := s.rel(target)
	my.Following = remove(my.Following, target)
	theirs.Followers = remove(theirs.Followers, me)

	rels := make(map[string]*Relation, len(s.state.Relations))
	for name, r := range s.state.Relations {
		rels[name] = r
	}
	rels[me] = my
	rels[target] = theirs
	s.state.Relations = rels
	s.mu.Unlock()
	s.dirty()
	return true
}

// IsFollowing reports whether the session user follows target.
func (s *Store) IsFollowing(target string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil || target == "" {
		return false
	}
	return contains(s.relView(s.state.User.Name).Following, target)
}

// FollowersOf lists the people following name, avatars resolved.
func (s *Store) FollowersOf(name string) []Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.people(s.relView(name).Followers)
}

// FollowingOf lists the people name follows, avatars resolved.
func (s *Store) FollowingOf(name string) []Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.people(s.relView(name).Following)
}

func (s *Store) people(names []string) []Person {
	out := make([]Person, 0, len(names))
	for _, n := range names {
		avatar := ""
		if p := s.state.Profiles[n]; p != nil {
			avatar = p.Avatar
		}
		out = append(out, Person{ID: n, Name: n, Avatar: avatar})
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

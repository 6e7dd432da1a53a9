// Package store holds the canonical application state: games, forum posts,
// the active session, profiles and the follow graph. Reads and writes go
// through the Store; every mutation is committed locally first and then
// mirrored to the remote backend on a best-effort basis. A remote failure
// never rolls a local change back.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"gameforum/client/internal/remote"
)

// Backend is the remote collaborator surface the store mirrors into. A nil
// Backend means local-only operation.
type Backend interface {
	InsertRow(ctx context.Context, table string, row map[string]any) (map[string]any, error)
	SelectSingle(ctx context.Context, table, column, value, columns string) (map[string]any, error)
	SignUp(ctx context.Context, email, password, username string) (*remote.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*remote.Session, error)
	UseSession(s *remote.Session)
}

// Store owns the state tree. The composition root constructs one, loads the
// persisted snapshot into it and registers the persistence hook.
type Store struct {
	mu       sync.RWMutex
	state    *State
	backend  Backend
	onChange func([]byte) error
}

// New returns a store holding the seed dataset.
func New(backend Backend) *Store {
	return &Store{
		state:   Migrate(nil),
		backend: backend,
	}
}

// Load replaces the state with the migrated snapshot. A nil or malformed
// snapshot leaves the seed dataset in place.
func (s *Store) Load(raw []byte) {
	s.mu.Lock()
	s.state = Migrate(raw)
	s.mu.Unlock()
}

// OnChange registers the hook invoked with a full serialized snapshot after
// every mutation. Hook errors are logged and swallowed; durability of the
// local snapshot is best effort.
func (s *Store) OnChange(fn func([]byte) error) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Snapshot serializes the full state tree.
func (s *Store) Snapshot() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, err := json.Marshal(s.state)
	if err != nil {
		glog.Errorf("store: snapshot serialization failed: %v", err)
		return nil
	}
	return blob
}

// dirty flushes the current state through the on-change hook. Called after
// every mutation, including ones that only touch nested records, so
// observers always see the change.
func (s *Store) dirty() {
	s.mu.RLock()
	hook := s.onChange
	var blob []byte
	var err error
	if hook != nil {
		blob, err = json.Marshal(s.state)
	}
	s.mu.RUnlock()
	if hook == nil {
		return
	}
	if err != nil {
		glog.Errorf("store: snapshot serialization failed: %v", err)
		return
	}
	if err := hook(blob); err != nil {
		glog.Errorf("store: persisting snapshot failed: %v", err)
	}
}

var errNoBackend = errors.New("no remote backend configured")

func (s *Store) insertRow(ctx context.Context, table string, row map[string]any) (map[string]any, error) {
	if s.backend == nil {
		return nil, errNoBackend
	}
	return s.backend.InsertRow(ctx, table, row)
}

// newID builds a local identifier: type prefix plus a short random token.
// Uniqueness is probabilistic, which is enough for a single-client dataset.
func newID(prefix string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + token[:8]
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// remoteIDString normalizes a remote-assigned id, which arrives as a string
// uuid or a JSON number depending on the column type.
func remoteIDString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

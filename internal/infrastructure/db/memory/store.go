// Package memory is an in-process implementation of every repository port.
// It backs STORAGE_DRIVER=memory for local development and the test suites.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agileworks/backlog-api/internal/core/domain"
)

// Store keeps all entities in maps guarded by one lock. Values are copied on
// the way in and out so callers never share memory with the store.
type Store struct {
	mu sync.RWMutex
	// txMu is held for the whole of a transaction and around every write
	// made outside one.
	txMu sync.Mutex

	data tables
}

type tables struct {
	users           map[string]domain.User
	projects        map[string]domain.Project
	roles           map[string]domain.Role
	productBacklogs map[string]domain.ProductBacklog
	sprintBacklogs  map[string]domain.SprintBacklog
	epics           map[string]domain.Epic
	userStories     map[string]domain.UserStory
	testCases       map[string]domain.TestCase
}

func newTables() tables {
	return tables{
		users:           make(map[string]domain.User),
		projects:        make(map[string]domain.Project),
		roles:           make(map[string]domain.Role),
		productBacklogs: make(map[string]domain.ProductBacklog),
		sprintBacklogs:  make(map[string]domain.SprintBacklog),
		epics:           make(map[string]domain.Epic),
		userStories:     make(map[string]domain.UserStory),
		testCases:       make(map[string]domain.TestCase),
	}
}

func (t tables) clone() tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.projects {
		c.projects[k] = v
	}
	for k, v := range t.roles {
		c.roles[k] = v
	}
	for k, v := range t.productBacklogs {
		c.productBacklogs[k] = v
	}
	for k, v := range t.sprintBacklogs {
		c.sprintBacklogs[k] = v
	}
	for k, v := range t.epics {
		c.epics[k] = v
	}
	for k, v := range t.userStories {
		c.userStories[k] = v
	}
	for k, v := range t.testCases {
		c.testCases[k] = v
	}
	return c
}

// New creates an empty store.
func New() *Store {
	return &Store{data: newTables()}
}

// txKey marks a context as running inside a transaction of the store it
// points at.
type txKey struct{}

// WithinTransaction runs fn and restores the previous state when it fails.
// Transactions run one at a time, and writes made outside a transaction wait
// until the active one finishes, so a rollback never discards them. A nested
// call joins the enclosing transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lockWrite takes the write lock and returns its release. Outside a
// transaction it first waits for the active transaction to end.
func (s *Store) lockWrite(ctx context.Context) func() {
	if s.inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

func newID() string {
	return uuid.NewString()
}

func byCreation[T any](items []*T, created func(*T) time.Time, id func(*T) string) []*T {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if ci.Equal(cj) {
			return id(items[i]) < id(items[j])
		}
		return ci.Before(cj)
	})
	return items
}

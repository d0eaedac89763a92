// Package memory is the in-process record store backend. Snapshots are
// copied out wholesale on every read and change notifications are fanned
// out to watchers, mirroring the push contract of the remote backends.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu           sync.Mutex
	transactions map[string]map[string]core.Transaction // userID -> id -> record
	categories   map[string]map[string]core.Category
	profiles     map[string]core.Profile
	watchers     []watcher
}

type watcher struct {
	userID string
	ch     chan store.ChangeEvent
}

func New() *Store {
	return &Store{
		transactions: make(map[string]map[string]core.Transaction),
		categories:   make(map[string]map[string]core.Category),
		profiles:     make(map[string]core.Profile),
	}
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.transactions[userID]))
	for _, tx := range s.transactions[userID] {
		out = append(out, tx)
	}
	return out, nil
}

func (s *Store) UpsertTransaction(_ context.Context, tx core.Transaction) (string, error) {
	s.mu.Lock()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if s.transactions[tx.UserID] == nil {
		s.transactions[tx.UserID] = make(map[string]core.Transaction)
	}
	s.transactions[tx.UserID][tx.ID] = tx
	s.mu.Unlock()

	s.notify(tx.UserID, store.CollectionTransactions)
	return tx.ID, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	if _, ok := s.transactions[userID][id]; !ok {
		s.mu.Unlock()
		return core.ErrNotFound
	}
	delete(s.transactions[userID], id)
	s.mu.Unlock()

	s.notify(userID, store.CollectionTransactions)
	return nil
}

func (s *Store) ClearTransactions(_ context.Context, userID string) error {
	s.mu.Lock()
	s.transactions[userID] = make(map[string]core.Transaction)
	s.mu.Unlock()

	s.notify(userID, store.CollectionTransactions)
	return nil
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.categories[userID]))
	for _, c := range s.categories[userID] {
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) UpsertCategory(_ context.Context, cat core.Category) (string, error) {
	s.mu.Lock()
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	if s.categories[cat.UserID] == nil {
		s.categories[cat.UserID] = make(map[string]core.Category)
	}
	s.categories[cat.UserID][cat.ID] = cat
	s.mu.Unlock()

	s.notify(cat.UserID, store.CollectionCategories)
	return cat.ID, nil
}

func (s *Store) DeleteCategory(_ context.Context, userID, id string) error {
	s.mu.Lock()
	if _, ok := s.categories[userID][id]; !ok {
		s.mu.Unlock()
		return core.ErrNotFound
	}
	delete(s.categories[userID], id)
	s.mu.Unlock()

	s.notify(userID, store.CollectionCategories)
	return nil
}

func (s *Store) ReplaceCategories(_ context.Context, userID string, cats []core.Category) error {
	s.mu.Lock()
	next := make(map[string]core.Category, len(cats))
	for _, c := range cats {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.UserID = userID
		next[c.ID] = c
	}
	s.categories[userID] = next
	s.mu.Unlock()

	s.notify(userID, store.CollectionCategories)
	return nil
}

func (s *Store) GetProfile(_ context.Context, userID string) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return core.Profile{}, core.ErrNotFound
	}
	return p, nil
}

func (s *Store) UpsertProfile(_ context.Context, p core.Profile) error {
	s.mu.Lock()
	s.profiles[p.ID] = p
	s.mu.Unlock()

	s.notify(p.ID, store.CollectionProfile)
	return nil
}

// Watch implements store.Watcher. Slow consumers drop events rather than
// block writers; a dropped event is harmless because consumers re-read
// the full snapshot anyway.
func (s *Store) Watch(ctx context.Context, userID string) (<-chan store.ChangeEvent, error) {
	ch := make(chan store.ChangeEvent, 16)
	s.mu.Lock()
	s.watchers = append(s.watchers, watcher{userID: userID, ch: ch})
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w.ch == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()

	return ch, nil
}

func (s *Store) Close(context.Context) error {
	return nil
}

// notify sends under the lock so a watcher channel is never closed while
// a send is in flight. Sends are non-blocking: a full buffer drops the
// event, which is fine because consumers re-read the whole snapshot.
func (s *Store) notify(userID, collection string) {
	event := store.ChangeEvent{UserID: userID, Collection: collection}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.watchers {
		if w.userID != userID && w.userID != "" {
			continue
		}
		select {
		case w.ch <- event:
		default:
		}
	}
}

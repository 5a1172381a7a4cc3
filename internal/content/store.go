package content

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotFound indicates the requested content item does not exist.
var ErrNotFound = errors.New("content item not found")

// Store is the process-wide in-memory content registry. Readers always get
// copies; iteration never observes concurrent inserts.
type Store struct {
	mu    sync.RWMutex
	items map[string]Item
}

// NewStore creates an empty content store.
func NewStore() *Store {
	return &Store{items: map[string]Item{}}
}

// Put inserts or overwrites an item by id.
func (s *Store) Put(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// List returns a copy of all items in no particular order.
func (s *Store) List() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	return out
}

// Recent returns up to n items sorted by timestamp descending. The result is
// a snapshot copy taken under the read lock.
func (s *Store) Recent(n int) []Item {
	items := s.List()
	sort.Slice(items, func(i, j int) bool {
		if items[i].Timestamp.Equal(items[j].Timestamp) {
			return items[i].ID > items[j].ID
		}
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// SetStatus transitions an item's moderation status.
func (s *Store) SetStatus(id string, status Status) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	item.Status = status
	s.items[id] = item
	return item, nil
}

// Delete removes an item if present. Deleting an unknown id is a no-op and
// returns false.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	return true
}

// Len reports the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

package dashboard

import (
	"sync"

	"github.com/linedeck/linedeck/internal/content"
)

// Store holds a dashboard client's local view of the moderation queue,
// newest first.
type Store struct {
	mu    sync.RWMutex
	items []content.Item
}

// NewStore creates an empty dashboard store.
func NewStore() *Store {
	return &Store{}
}

// Add prepends an item to the list.
func (s *Store) Add(item content.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]content.Item{item}, s.items...)
}

// SetStatus updates the moderation status of the item with the given id.
func (s *Store) SetStatus(id string, status content.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = status
			return true
		}
	}
	return false
}

// Delete removes the item with the given id.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the current list, newest first.
func (s *Store) Items() []content.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]content.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

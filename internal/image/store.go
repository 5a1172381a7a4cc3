package image

import (
	"sync"

	"github.com/google/uuid"
)

// StoredImage is a raw binary payload plus its declared content type.
type StoredImage struct {
	Bytes       []byte
	ContentType string
}

// Store is the process-wide in-memory image registry. Images are referenced
// weakly from content items; deleting a content item never deletes its image.
// There is no eviction: growth is bounded only by process lifetime.
type Store struct {
	mu     sync.RWMutex
	images map[string]StoredImage
}

// NewStore creates an empty image store.
func NewStore() *Store {
	return &Store{images: map[string]StoredImage{}}
}

// Add stores an image under a freshly generated id and returns that id.
func (s *Store) Add(img StoredImage) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[id] = img
	return id
}

// Get returns the image with the given id.
func (s *Store) Get(id string) (StoredImage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[id]
	return img, ok
}

// Delete removes an image if present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.images[id]; !ok {
		return false
	}
	delete(s.images, id)
	return true
}

// Len reports the number of stored images.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}

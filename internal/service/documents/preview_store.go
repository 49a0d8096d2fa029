package documents

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultPreviewTTL = 30 * time.Minute

type previewEntry struct {
	preview  *Preview
	lastSeen time.Time
}

// PreviewStore keeps the open previews of all dashboard sessions by id.
type PreviewStore struct {
	previews map[string]*previewEntry
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
}

// NewPreviewStore creates an empty store. Previews idle for longer than ttl
// are dropped by Sweep.
func NewPreviewStore(ttl time.Duration) *PreviewStore {
	if ttl <= 0 {
		ttl = defaultPreviewTTL
	}
	return &PreviewStore{
		previews: make(map[string]*previewEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Open creates a preview showing data and returns its id.
func (s *PreviewStore) Open(data PreviewData) (string, *Preview) {
	p := NewPreview()
	p.Show(data)

	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previews[id] = &previewEntry{preview: p, lastSeen: s.now()}
	return id, p
}

// Get returns the preview with id and refreshes its idle timer.
func (s *PreviewStore) Get(id string) (*Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.previews[id]
	if !ok {
		return nil, ErrPreviewNotFound
	}
	entry.lastSeen = s.now()
	return entry.preview, nil
}

// Delete closes and removes the preview with id.
func (s *PreviewStore) Delete(id string) error {
	s.mu.Lock()
	entry, ok := s.previews[id]
	delete(s.previews, id)
	s.mu.Unlock()
	if !ok {
		return ErrPreviewNotFound
	}
	entry.preview.Close()
	return nil
}

// Len reports how many previews are held.
func (s *PreviewStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.previews)
}

// Sweep drops previews idle past the TTL and closed previews. It returns
// how many were removed.
func (s *PreviewStore) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.previews {
		if entry.lastSeen.Before(cutoff) || entry.preview.Snapshot().State == PreviewClosed {
			entry.preview.Close()
			delete(s.previews, id)
			removed++
		}
	}
	return removed
}

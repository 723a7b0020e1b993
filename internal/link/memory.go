package link

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MemoryRepository keeps records in a mutex-guarded map. It mirrors the
// visibility and ownership semantics of the Postgres implementation and
// backs tests and credential-less local runs.
type MemoryRepository struct {
	mu   sync.RWMutex
	recs map[string]*Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{recs: make(map[string]*Record)}
}

func (m *MemoryRepository) ListVisible(ctx context.Context, userID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0, len(m.recs))
	for _, r := range m.recs {
		if visibleTo(r, userID) {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) Search(ctx context.Context, userID, query string) ([]Record, error) {
	all, err := m.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(query)

	out := make([]Record, 0, len(all))
	for _, r := range all {
		if strings.Contains(strings.ToLower(r.URL), lower) ||
			strings.Contains(strings.ToLower(r.Summary), lower) ||
			(r.Title != nil && strings.Contains(strings.ToLower(*r.Title), lower)) ||
			containsTag(r.Tags, query) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryRepository) Insert(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	copied := *rec
	m.recs[rec.ID] = &copied
	return nil
}

func (m *MemoryRepository) UpdateFields(ctx context.Context, id, userID string, fields map[string]any) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.recs[id]
	if !ok || rec.UserID != userID {
		return nil, ErrNotFound
	}

	applyFields(rec, fields)
	rec.UpdatedAt = time.Now()

	copied := *rec
	return &copied, nil
}

func (m *MemoryRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.recs[id]
	if !ok || rec.UserID != userID {
		return ErrNotFound
	}
	delete(m.recs, id)
	return nil
}

func (m *MemoryRepository) IncrementAccess(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.recs[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	rec.AccessCount++
	rec.LastAccessed = &now
	rec.UpdatedAt = now
	return nil
}

func (m *MemoryRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.recs)), nil
}

// Get returns a copy of one record regardless of owner, for inspection.
func (m *MemoryRepository) Get(id string) (Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.recs[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

func visibleTo(r *Record, userID string) bool {
	switch r.Status {
	case StatusActive, StatusArchived:
		return true
	default:
		return r.UserID == userID
	}
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func applyFields(rec *Record, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "title":
			s := v.(string)
			rec.Title = &s
		case "summary":
			rec.Summary = v.(string)
		case "tags":
			rec.Tags = v.(pq.StringArray)
		case "context":
			s := v.(string)
			rec.Context = &s
		case "status":
			rec.Status = v.(Status)
		case "position":
			rec.Position = v.(int)
		case "thumbnail":
			s := v.(string)
			rec.Thumbnail = &s
		case "description":
			s := v.(string)
			rec.Description = &s
		case "due_date":
			t := v.(time.Time)
			rec.DueDate = &t
		case "priority":
			s := v.(string)
			rec.Priority = &s
		case "updated_at":
			rec.UpdatedAt = v.(time.Time)
		}
	}
}

package link

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service is the store gateway: validation, classification and ownership
// scoping on top of the repository.
type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

type CreateInput struct {
	URL     string
	Title   *string
	Summary string
	Tags    []string
	Context *string
	Status  Status

	// Position is the caller-supplied sort slot; nil means end of list.
	Position *int

	// ManuallyAdded marks records created without the AI adapter. Manual
	// entries must carry a user-supplied summary.
	ManuallyAdded bool
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*Record, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", ErrValidation)
	}
	if in.ManuallyAdded && strings.TrimSpace(in.Summary) == "" {
		return nil, fmt.Errorf("%w: summary is required for manual entries", ErrValidation)
	}

	url = NormalizeURL(url)
	typ, platform := Classify(url)

	status := in.Status
	if status == "" {
		status = StatusActive
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	position := 0
	if in.Position != nil {
		position = *in.Position
	} else {
		n, err := s.Repo.Count(ctx)
		if err != nil {
			return nil, err
		}
		position = int(n)
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	rec := &Record{
		URL:             url,
		Title:           in.Title,
		Summary:         in.Summary,
		Tags:            tags,
		Context:         in.Context,
		Type:            typ,
		Platform:        platform,
		Status:          status,
		UserID:          userID,
		IsManuallyAdded: in.ManuallyAdded,
		AccessCount:     0,
		Position:        position,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := s.Repo.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Record, error) {
	return s.Repo.ListVisible(ctx, userID)
}

func (s *Service) Search(ctx context.Context, userID, query string) ([]Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Repo.ListVisible(ctx, userID)
	}
	return s.Repo.Search(ctx, userID, query)
}

// UpdateInput carries the mutable subset of a record. URL, id, userId and
// createdAt cannot be changed after creation.
type UpdateInput struct {
	Title       *string
	Summary     *string
	Tags        *[]string
	Context     *string
	Status      *Status
	Position    *int
	Thumbnail   *string
	Description *string
	DueDate     *time.Time
	Priority    *string
}

func (in UpdateInput) fields() (map[string]any, error) {
	f := map[string]any{}
	if in.Title != nil {
		f["title"] = *in.Title
	}
	if in.Summary != nil {
		f["summary"] = *in.Summary
	}
	if in.Tags != nil {
		f["tags"] = toStringArray(*in.Tags)
	}
	if in.Context != nil {
		f["context"] = *in.Context
	}
	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *in.Status)
		}
		f["status"] = *in.Status
	}
	if in.Position != nil {
		f["position"] = *in.Position
	}
	if in.Thumbnail != nil {
		f["thumbnail"] = *in.Thumbnail
	}
	if in.Description != nil {
		f["description"] = *in.Description
	}
	if in.DueDate != nil {
		f["due_date"] = *in.DueDate
	}
	if in.Priority != nil {
		f["priority"] = *in.Priority
	}
	return f, nil
}

func (s *Service) Update(ctx context.Context, id, userID string, in UpdateInput) (*Record, error) {
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}
	return s.Repo.UpdateFields(ctx, id, userID, fields)
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	return s.Repo.DeleteOwned(ctx, id, userID)
}

// TrackAccess is best effort: callers log the returned error and move on,
// a failed count must never block the navigation that triggered it.
func (s *Service) TrackAccess(ctx context.Context, id string) error {
	return s.Repo.IncrementAccess(ctx, id)
}

// ReorderUpdate is one (id, order) pair of a reorder batch.
type ReorderUpdate struct {
	ID       string `json:"id"`
	Position int    `json:"order"`
}

// Reorder applies each pair as an independent owner-scoped update. There is
// no atomicity across the batch: a failed pair leaves its record at the old
// position while the others keep their new one.
func (s *Service) Reorder(ctx context.Context, userID string, updates []ReorderUpdate) error {
	var errs []error
	for _, u := range updates {
		if _, err := s.Repo.UpdateFields(ctx, u.ID, userID, map[string]any{"position": u.Position}); err != nil {
			errs = append(errs, fmt.Errorf("reorder %s: %w", u.ID, err))
		}
	}
	return errors.Join(errs...)
}

package link

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository is the row-level contract over the analyzed_links table.
// The gorm implementation below is the production one; tests substitute
// an in-memory double.
type Repository interface {
	// ListVisible returns every active/archived record regardless of owner
	// plus the todo/completed records owned by userID, newest first.
	ListVisible(ctx context.Context, userID string) ([]Record, error)

	// Search narrows ListVisible by a case-insensitive pattern over
	// url/summary/title or exact tag containment.
	Search(ctx context.Context, userID, query string) ([]Record, error)

	Insert(ctx context.Context, rec *Record) error

	// UpdateFields applies a partial update scoped to (id, userID) and
	// returns the fresh row. ErrNotFound covers both a missing id and a
	// row owned by someone else.
	UpdateFields(ctx context.Context, id, userID string, fields map[string]any) (*Record, error)

	// DeleteOwned removes the record scoped to (id, userID). Absence is an
	// error, not a no-op.
	DeleteOwned(ctx context.Context, id, userID string) error

	// IncrementAccess bumps access_count and stamps last_accessed. Not
	// owner-scoped: opening a shared link counts for its record.
	IncrementAccess(ctx context.Context, id string) error

	Count(ctx context.Context) (int64, error)
}

type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

const visibleClause = `status IN ('active','archived') OR (user_id = ? AND status IN ('todo','completed'))`

func (r *GormRepository) ListVisible(ctx context.Context, userID string) ([]Record, error) {
	var rows []Record
	err := r.DB.WithContext(ctx).
		Where(visibleClause, userID).
		Order("created_at desc").
		Find(&rows).Error
	return rows, err
}

func (r *GormRepository) Search(ctx context.Context, userID, query string) ([]Record, error) {
	var rows []Record
	pattern := "%" + query + "%"
	err := r.DB.WithContext(ctx).
		Where(visibleClause, userID).
		Where(`url ILIKE ? OR summary ILIKE ? OR title ILIKE ? OR ? = any(tags)`,
			pattern, pattern, pattern, query).
		Order("created_at desc").
		Find(&rows).Error
	return rows, err
}

func (r *GormRepository) Insert(ctx context.Context, rec *Record) error {
	return r.DB.WithContext(ctx).Create(rec).Error
}

func (r *GormRepository) UpdateFields(ctx context.Context, id, userID string, fields map[string]any) (*Record, error) {
	fields["updated_at"] = time.Now()

	res := r.DB.WithContext(ctx).
		Model(&Record{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var rec Record
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *GormRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Record{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) IncrementAccess(ctx context.Context, id string) error {
	now := time.Now()
	res := r.DB.WithContext(ctx).
		Model(&Record{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"access_count":  gorm.Expr("access_count + 1"),
			"last_accessed": now,
			"updated_at":    now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&Record{}).Count(&n).Error
	return n, err
}

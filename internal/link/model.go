package link

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Type string

const (
	TypeVideo Type = "video"
	TypeLink  Type = "link"
)

type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformOther     Platform = "other"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusTodo      Status = "todo"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// ValidStatus reports whether s is one of the four known statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusTodo, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Record is a bookmarked link and its derived metadata.
//
// Type and Platform are a pure function of URL and are recomputed on
// creation; URL, ID, UserID and CreatedAt are immutable afterwards.
// Status todo/completed are private to UserID, active/archived are
// visible to every user.
type Record struct {
	ID      string         `gorm:"primaryKey;type:uuid" json:"id"`
	URL     string         `gorm:"type:text;not null" json:"url"`
	Title   *string        `gorm:"type:text" json:"title,omitempty"`
	Summary string         `gorm:"type:text;not null" json:"summary"`
	Tags    pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"tags"`
	Context *string        `gorm:"type:text" json:"context,omitempty"`

	Type     Type     `gorm:"type:text;not null" json:"type"`
	Platform Platform `gorm:"type:text;not null;default:'other'" json:"platform"`
	Status   Status   `gorm:"type:text;index;not null;default:'active'" json:"status"`

	UserID          string `gorm:"index;not null" json:"userId"`
	IsManuallyAdded bool   `gorm:"not null;default:false" json:"isManuallyAdded"`

	AccessCount  int        `gorm:"not null;default:0" json:"accessCount"`
	LastAccessed *time.Time `gorm:"type:timestamptz" json:"lastAccessed,omitempty"`

	Thumbnail   *string    `gorm:"type:text" json:"thumbnail,omitempty"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	DueDate     *time.Time `gorm:"type:timestamptz" json:"dueDate,omitempty"`
	Priority    *string    `gorm:"type:text" json:"priority,omitempty"`

	// Position is the manual sort slot within the record's status group.
	// Serialized as "order" on the wire.
	Position int `gorm:"not null;default:0" json:"order"`

	CreatedAt time.Time `gorm:"index;not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Record) TableName() string { return "analyzed_links" }

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func toStringArray(tags []string) pq.StringArray {
	if tags == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(tags)
}

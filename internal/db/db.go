package db

import (
	"fmt"

	"github.com/rishabhsai/linkscope/internal/link"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&link.Record{}); err != nil {
		return err
	}

	stmts := []string{
		// list() scans by visibility then sorts newest first
		`create index if not exists idx_links_status_created on analyzed_links(status, created_at desc);`,
		`create index if not exists idx_links_user_status on analyzed_links(user_id, status);`,
		// tag containment filter (GIN for text[])
		`create index if not exists idx_links_tags on analyzed_links using gin (tags);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}

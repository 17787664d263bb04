package db

import (
	"context"
	"fmt"
	"time"
)

// Update maps the updates table: one recorded news item. The table is
// written by the ingestion pipeline after a candidate clears the
// duplicate checks; this engine reads it for the rolling history
// window and treats it as append-only.
type Update struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Title          string     `gorm:"column:title;type:varchar(500);not null"`
	URL            string     `gorm:"column:url;type:varchar(1000);not null;unique"`
	Summary        *string    `gorm:"column:summary;type:text"`
	Content        *string    `gorm:"column:content;type:text"`
	DatePublished  *time.Time `gorm:"column:date_published;type:date"`
	DateScraped    time.Time  `gorm:"column:date_scraped;type:timestamptz;not null;default:now();index"`
	SourceName     *string    `gorm:"column:source_name;type:varchar(200)"`
	SourceURL      *string    `gorm:"column:source_url;type:varchar(1000)"`
	Category       *string    `gorm:"column:category;type:varchar(100)"`
	RelevanceScore *float64   `gorm:"column:relevance_score"`
	IsApproved     bool       `gorm:"column:is_approved;not null;default:false"`
	IsDeleted      bool       `gorm:"column:is_deleted;not null;default:false"`
}

func (Update) TableName() string { return "updates" }

func (p *Pool) autoMigrate(ctx context.Context) error {
	if p == nil || p.gdb == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	if err := p.gdb.WithContext(ctx).AutoMigrate(&Update{}); err != nil {
		return fmt.Errorf("migrate updates table: %w", err)
	}
	return nil
}

// Package models contains domain entities and business models for the catalog and ordering system
package models

import (
	"time"

	"github.com/google/uuid"
)

// Bean represents a coffee bean product in the catalog.
// Table: beans
// Index preserves the ordering of the seed data file and is the stable sort
// key for listings. IsBotd marks the current bean of the day; at most one row
// holds true once a daily selection has been made.
// Cost is kept as the seed's currency string (e.g. "£39.26"); order totals
// are derived from it and re-encoded in the same representation.
type Bean struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_beans_uuid" json:"uuid"`

	Index       int    `gorm:"not null;index:idx_beans_index" json:"index"`
	IsBotd      bool   `gorm:"not null;default:false;index:idx_beans_is_botd" json:"isBOTD"`
	Cost        string `gorm:"size:32;not null" json:"cost"`
	Image       string `gorm:"not null" json:"image"`
	Colour      string `gorm:"size:64;not null;index:idx_beans_colour" json:"colour"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"not null" json:"description"`
	Country     string `gorm:"size:128;not null;index:idx_beans_country" json:"country"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Bean) TableName() string {
	return "beans"
}

// BeanFilter represents filter criteria for bean queries.
// Search is a case-insensitive substring match over name, description and
// country; Country and Colour are exact matches. All provided filters are
// ANDed together.
type BeanFilter struct {
	ID      *uint
	UUID    *uuid.UUID
	Search  *string
	Country *string
	Colour  *string
	IsBotd  *bool
}

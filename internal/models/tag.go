package models

// Tag represents a transaction tag. Tags are shared across all users and are
// created via seed migrations only; the API never mutates them.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

package models

import "time"

// TransactionType represents the type of transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeOutcome TransactionType = "OUTCOME"
)

// Transaction represents a financial transaction in the system. Value is
// stored in cents so sums never go through floating point. A transaction
// always belongs to exactly one user; TagID may reference a tag that has
// since been deleted, in which case Tag stays nil on reads.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	Value       int64           `gorm:"type:bigint;not null" json:"value"`
	Date        time.Time       `gorm:"column:transaction_date;not null" json:"transaction_date"`
	Type        TransactionType `gorm:"not null" json:"type"`
	TagID       *uint           `json:"tag_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Tag *Tag `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}

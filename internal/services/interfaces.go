package services

import (
	"time"

	"grana/internal/models"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
}

// TagServicer defines the contract for tag lookups. Tags are seeded by
// migrations and read-only at runtime.
type TagServicer interface {
	GetTagByID(id uint) (*models.Tag, error)
	GetTagByName(name string) (*models.Tag, error)
	ListTags() ([]models.Tag, error)
}

// TransactionDraft holds the fields of a transaction that has not been
// persisted yet. Value is in cents.
type TransactionDraft struct {
	Name        string
	Description string
	Value       int64
	Date        time.Time
	Type        models.TransactionType
	TagID       *uint
}

// TransactionPatch carries a full-overwrite update: every field replaces the
// stored one, including a nil TagID clearing the tag.
type TransactionPatch struct {
	Name        string
	Description string
	Value       int64
	Date        time.Time
	Type        models.TransactionType
	TagID       *uint
}

// Summary aggregates one month of transactions. All totals are in cents and
// profit is always totalIncome - totalOutcome.
type Summary struct {
	FormattedDate string `json:"formattedDate"`
	InitialDate   string `json:"initialDate"`
	LastDate      string `json:"lastDate"`
	TotalOutcome  int64  `json:"totalOutcome"`
	TotalIncome   int64  `json:"totalIncome"`
	Profit        int64  `json:"profit"`
}

// TransactionMonth is one distinct (year, month) pair that has transactions,
// rendered both as a machine token and a display label.
type TransactionMonth struct {
	Date          string `json:"date"`
	FormattedDate string `json:"formattedDate"`
}

// TransactionServicer defines the contract for transaction-related business
// logic: the lifecycle of a single transaction plus the period queries and
// the CSV import/export pipeline built on top of it.
type TransactionServicer interface {
	CreateTransaction(userID uint, draft TransactionDraft) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, patch TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	GetTransactionsByPeriod(userID uint, yearMonth string) ([]models.Transaction, error)
	GetMonthsWithTransactions(userID uint) ([]TransactionMonth, error)
	GetSummary(userID uint, yearMonth string) (*Summary, error)
	ImportCSV(userID uint, bankName, statementMonth, csvBase64 string) (int, error)
	ExportCSV(userID uint, yearMonth string) (string, error)
}

package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"grana/internal/bankcsv"
	apperrors "grana/internal/errors"
	"grana/internal/models"
	"grana/internal/period"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db         *gorm.DB
	tagService TagServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, tagService TagServicer) TransactionServicer {
	return &transactionService{
		db:         db,
		tagService: tagService,
	}
}

// CreateTransaction persists a new transaction for the given user. If the
// draft carries a tag reference, the tag must exist at write time.
func (s *transactionService) CreateTransaction(userID uint, draft TransactionDraft) (*models.Transaction, error) {
	if draft.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction name is required")
	}
	if draft.Type != models.TransactionTypeIncome && draft.Type != models.TransactionTypeOutcome {
		return nil, apperrors.ErrInvalidTransactionType
	}

	if draft.TagID != nil {
		if _, err := s.tagService.GetTagByID(*draft.TagID); err != nil {
			return nil, err
		}
	}

	date := draft.Date
	if date.IsZero() {
		date = truncateToDate(time.Now())
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Name:        draft.Name,
		Description: draft.Description,
		Value:       draft.Value,
		Date:        date,
		Type:        draft.Type,
		TagID:       draft.TagID,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.reload(transaction.ID)
}

// UpdateTransaction applies a full-overwrite patch to a transaction owned by
// the given user. A transaction owned by someone else is reported exactly
// like a missing one.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, patch TransactionPatch) (*models.Transaction, error) {
	transaction, err := s.getOwned(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if patch.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction name is required")
	}
	if patch.Type != models.TransactionTypeIncome && patch.Type != models.TransactionTypeOutcome {
		return nil, apperrors.ErrInvalidTransactionType
	}

	if patch.TagID != nil {
		if _, err := s.tagService.GetTagByID(*patch.TagID); err != nil {
			return nil, err
		}
	}

	transaction.Name = patch.Name
	transaction.Description = patch.Description
	transaction.Value = patch.Value
	transaction.Date = patch.Date
	transaction.Type = patch.Type
	transaction.TagID = patch.TagID
	transaction.Tag = nil

	// Save with Select so a nil TagID clears the stored tag reference.
	if err := s.db.Model(transaction).
		Select("name", "description", "value", "transaction_date", "type", "tag_id").
		Updates(map[string]interface{}{
			"name":             transaction.Name,
			"description":      transaction.Description,
			"value":            transaction.Value,
			"transaction_date": transaction.Date,
			"type":             transaction.Type,
			"tag_id":           transaction.TagID,
		}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.reload(transaction.ID)
}

// DeleteTransaction removes a transaction owned by the given user. Deletion
// is irrevocable; the same ownership masking as UpdateTransaction applies.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.getOwned(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetTransactionsByPeriod returns the user's transactions dated within the
// given YYYY-MM month, inclusive on both ends, ordered by date.
func (s *transactionService) GetTransactionsByPeriod(userID uint, yearMonth string) ([]models.Transaction, error) {
	r, err := period.Resolve(yearMonth)
	if err != nil {
		return nil, err
	}
	return s.listBetween(userID, r.Start, r.End)
}

// GetMonthsWithTransactions returns the distinct (year, month) pairs of the
// user's transactions, oldest first.
func (s *transactionService) GetMonthsWithTransactions(userID uint) ([]TransactionMonth, error) {
	// Month extraction in SQL differs between postgres and sqlite, so pull
	// the ordered dates and fold them here.
	var dates []time.Time
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Order("transaction_date ASC").
		Pluck("transaction_date", &dates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	months := make([]TransactionMonth, 0, len(dates))
	seen := ""
	for _, d := range dates {
		token := fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
		if token == seen {
			continue
		}
		seen = token

		r, err := period.Resolve(token)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		months = append(months, TransactionMonth{Date: token, FormattedDate: r.Label})
	}

	return months, nil
}

// GetSummary computes the income/outcome totals and profit for one month.
// An empty month yields all-zero totals.
func (s *transactionService) GetSummary(userID uint, yearMonth string) (*Summary, error) {
	r, err := period.Resolve(yearMonth)
	if err != nil {
		return nil, err
	}

	transactions, err := s.listBetween(userID, r.Start, r.End)
	if err != nil {
		return nil, err
	}

	summary := summarize(transactions)
	summary.FormattedDate = r.Label
	summary.InitialDate = r.Start.Format(time.DateOnly)
	summary.LastDate = r.End.Format(time.DateOnly)
	return &summary, nil
}

// ImportCSV ingests a base64-wrapped bank statement CSV and persists one
// OUTCOME transaction per retained row, all dated on the first day of the
// statement month. The batch is all-or-nothing: any unresolved tag or bad
// row aborts with nothing written.
func (s *transactionService) ImportCSV(userID uint, bankName, statementMonth, csvBase64 string) (int, error) {
	r, err := period.Resolve(statementMonth)
	if err != nil {
		return 0, apperrors.ErrInvalidStatementMonth
	}

	rows, err := bankcsv.DecodeRows(csvBase64)
	if err != nil {
		return 0, err
	}

	description := bankcsv.ImportDescription(bankName)

	transactions := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		tagName := bankcsv.MapCategory(row.Category)
		tag, err := s.tagService.GetTagByName(tagName)
		if err != nil {
			if isCode(err, apperrors.ErrTagNotFound.Code) {
				return 0, apperrors.WithMessage(apperrors.ErrUnresolvedTag,
					fmt.Sprintf("no tag named %q for category %q", tagName, row.Category))
			}
			return 0, err
		}

		tagID := tag.ID
		transactions = append(transactions, models.Transaction{
			UserID:      userID,
			Name:        row.Title,
			Description: description,
			Value:       row.Amount,
			Date:        r.Start,
			Type:        models.TransactionTypeOutcome,
			TagID:       &tagID,
		})
	}

	if len(transactions) == 0 {
		return 0, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&transactions).Error
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return len(transactions), nil
}

// ExportCSV serializes one month of the user's transactions into
// base64-wrapped CSV text.
func (s *transactionService) ExportCSV(userID uint, yearMonth string) (string, error) {
	transactions, err := s.GetTransactionsByPeriod(userID, yearMonth)
	if err != nil {
		return "", err
	}
	return bankcsv.EncodeExport(transactions), nil
}

// summarize partitions transactions by type and sums their values in cents.
func summarize(transactions []models.Transaction) Summary {
	var summary Summary
	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome += tx.Value
		case models.TransactionTypeOutcome:
			summary.TotalOutcome += tx.Value
		}
	}
	summary.Profit = summary.TotalIncome - summary.TotalOutcome
	return summary
}

// getOwned loads a transaction scoped to its owner. Both a missing ID and a
// foreign owner surface as ErrTransactionNotFound.
func (s *transactionService) getOwned(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

func (s *transactionService) listBetween(userID uint, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Preload("Tag").
		Where("user_id = ? AND transaction_date >= ? AND transaction_date <= ?", userID, start, end).
		Order("transaction_date ASC, id ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func (s *transactionService) reload(id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Tag").First(&transaction, id).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isCode(err error, code string) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

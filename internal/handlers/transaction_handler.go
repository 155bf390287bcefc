package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "grana/internal/errors"
	"grana/internal/models"
	"grana/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the payload for creating or fully
// overwriting a transaction. Value is in cents.
type TransactionRequest struct {
	Name        string                 `json:"name" binding:"required,max=255"`
	Description string                 `json:"description" binding:"max=500"`
	Value       int64                  `json:"value" binding:"required"`
	Date        *string                `json:"transaction_date"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	TagID       *uint                  `json:"tag_id"`
}

// ImportCSVRequest represents the payload for importing a bank statement.
type ImportCSVRequest struct {
	BankName         string `json:"bank_name" binding:"required,max=100"`
	TransactionsDate string `json:"transactions_date" binding:"required,year_month"`
	CSVBase64        string `json:"csv_base64" binding:"required"`
}

// ExportCSVResponse wraps the base64-encoded CSV export.
type ExportCSVResponse struct {
	Base64 string `json:"base_64"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Create a new INCOME or OUTCOME transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Tag not found"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	draft := services.TransactionDraft{
		Name:        req.Name,
		Description: req.Description,
		Value:       req.Value,
		Type:        req.Type,
		TagID:       req.TagID,
	}
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := time.Parse(time.DateOnly, *req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction_date must be YYYY-MM-DD"))
			return
		}
		draft.Date = parsed
	}

	transaction, err := h.transactionService.CreateTransaction(userID, draft)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// UpdateTransaction handles a full overwrite of an existing transaction
// @Summary     Update transaction
// @Description Overwrite every field of an existing transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Transaction ID"
// @Param       request body TransactionRequest true "All transaction fields"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Date == nil || *req.Date == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction_date is required"))
		return
	}
	date, parseErr := time.Parse(time.DateOnly, *req.Date)
	if parseErr != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction_date must be YYYY-MM-DD"))
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, services.TransactionPatch{
		Name:        req.Name,
		Description: req.Description,
		Value:       req.Value,
		Date:        date,
		Type:        req.Type,
		TagID:       req.TagID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete transaction
// @Description Delete a transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// GetTransactions lists one month of transactions
// @Summary     List transactions
// @Description List the authenticated user's transactions for a month
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       year_month query string true "Month in YYYY-MM format"
// @Success     200 {object} map[string]interface{} "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetTransactionsByPeriod(userID, c.Query("year_month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GetMonths lists the months that have transactions
// @Summary     List months with transactions
// @Description List the distinct months that have transactions, oldest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Months"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/months [get]
func (h *TransactionHandler) GetMonths(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months, err := h.transactionService.GetMonthsWithTransactions(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": months})
}

// GetSummary returns the monthly totals
// @Summary     Get monthly summary
// @Description Get total income, total outcome and profit for a month
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       year_month query string true "Month in YYYY-MM format"
// @Success     200 {object} services.Summary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetSummary(userID, c.Query("year_month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ImportCSV ingests a base64-encoded bank statement
// @Summary     Import bank statement CSV
// @Description Import a base64-encoded bank statement CSV as OUTCOME transactions
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ImportCSVRequest true "Statement payload"
// @Success     201 {object} map[string]interface{} "Number of created transactions"
// @Failure     400 {object} ErrorResponse "Invalid payload"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Unresolved tag"
// @Router      /transactions/import-csv [post]
func (h *TransactionHandler) ImportCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ImportCSVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	created, err := h.transactionService.ImportCSV(userID, req.BankName, req.TransactionsDate, req.CSVBase64)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"created": created})
}

// ExportCSV returns one month of transactions as base64-encoded CSV
// @Summary     Export transactions CSV
// @Description Export one month of transactions as base64-encoded CSV
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       year_month query string true "Month in YYYY-MM format"
// @Success     200 {object} ExportCSVResponse "Base64-encoded CSV"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/export-csv [get]
func (h *TransactionHandler) ExportCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	encoded, err := h.transactionService.ExportCSV(userID, c.Query("year_month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExportCSVResponse{Base64: encoded})
}

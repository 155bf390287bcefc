package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "grana/internal/errors"
	"grana/internal/models"
	"grana/internal/services"
	"grana/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// --- mock transaction service ---

type mockTransactionService struct {
	createFn  func(userID uint, draft services.TransactionDraft) (*models.Transaction, error)
	updateFn  func(userID, transactionID uint, patch services.TransactionPatch) (*models.Transaction, error)
	deleteFn  func(userID, transactionID uint) error
	listFn    func(userID uint, yearMonth string) ([]models.Transaction, error)
	monthsFn  func(userID uint) ([]services.TransactionMonth, error)
	summaryFn func(userID uint, yearMonth string) (*services.Summary, error)
	importFn  func(userID uint, bankName, statementMonth, csvBase64 string) (int, error)
	exportFn  func(userID uint, yearMonth string) (string, error)
}

func (m *mockTransactionService) CreateTransaction(userID uint, draft services.TransactionDraft) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(userID, draft)
	}
	return &models.Transaction{ID: 1, UserID: userID}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID uint, patch services.TransactionPatch) (*models.Transaction, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, transactionID, patch)
	}
	return &models.Transaction{ID: transactionID, UserID: userID}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetTransactionsByPeriod(userID uint, yearMonth string) ([]models.Transaction, error) {
	if m.listFn != nil {
		return m.listFn(userID, yearMonth)
	}
	return []models.Transaction{}, nil
}

func (m *mockTransactionService) GetMonthsWithTransactions(userID uint) ([]services.TransactionMonth, error) {
	if m.monthsFn != nil {
		return m.monthsFn(userID)
	}
	return []services.TransactionMonth{}, nil
}

func (m *mockTransactionService) GetSummary(userID uint, yearMonth string) (*services.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(userID, yearMonth)
	}
	return &services.Summary{}, nil
}

func (m *mockTransactionService) ImportCSV(userID uint, bankName, statementMonth, csvBase64 string) (int, error) {
	if m.importFn != nil {
		return m.importFn(userID, bankName, statementMonth, csvBase64)
	}
	return 0, nil
}

func (m *mockTransactionService) ExportCSV(userID uint, yearMonth string) (string, error) {
	if m.exportFn != nil {
		return m.exportFn(userID, yearMonth)
	}
	return "", nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

// injectUserID simulates the auth middleware for tests.
func injectUserID(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/months", handler.GetMonths)
	auth.GET("/transactions/summary", handler.GetSummary)
	auth.POST("/transactions/import-csv", handler.ImportCSV)
	auth.GET("/transactions/export-csv", handler.ExportCSV)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error response %q: %v", w.Body.String(), err)
	}
	return body.Error.Code
}

func TestCreateTransactionHandler(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var gotDraft services.TransactionDraft
		mock := &mockTransactionService{
			createFn: func(userID uint, draft services.TransactionDraft) (*models.Transaction, error) {
				gotDraft = draft
				return &models.Transaction{ID: 7, UserID: userID, Name: draft.Name}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(mock))

		w := doJSON(t, r, http.MethodPost, "/transactions", gin.H{
			"name":             "Salário",
			"value":            500000,
			"type":             "INCOME",
			"transaction_date": "2024-03-01",
		})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if gotDraft.Name != "Salário" || gotDraft.Value != 500000 {
			t.Errorf("unexpected draft: %+v", gotDraft)
		}
	})

	t.Run("rejects_unknown_type", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		w := doJSON(t, r, http.MethodPost, "/transactions", gin.H{
			"name":  "x",
			"value": 100,
			"type":  "TRANSFER",
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects_bad_date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		w := doJSON(t, r, http.MethodPost, "/transactions", gin.H{
			"name":             "x",
			"value":            100,
			"type":             "OUTCOME",
			"transaction_date": "03/01/2024",
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("maps_tag_not_found", func(t *testing.T) {
		mock := &mockTransactionService{
			createFn: func(uint, services.TransactionDraft) (*models.Transaction, error) {
				return nil, apperrors.ErrTagNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(mock))

		w := doJSON(t, r, http.MethodPost, "/transactions", gin.H{
			"name": "x", "value": 100, "type": "OUTCOME", "tag_id": 42,
		})

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "TAG_NOT_FOUND" {
			t.Errorf("expected TAG_NOT_FOUND, got %q", code)
		}
	})
}

func TestUpdateTransactionHandler(t *testing.T) {
	t.Run("not_found_masks_ownership", func(t *testing.T) {
		mock := &mockTransactionService{
			updateFn: func(uint, uint, services.TransactionPatch) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(mock))

		w := doJSON(t, r, http.MethodPut, "/transactions/5", gin.H{
			"name": "x", "value": 100, "type": "OUTCOME", "transaction_date": "2024-03-01",
		})

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "TRANSACTION_NOT_FOUND" {
			t.Errorf("expected TRANSACTION_NOT_FOUND, got %q", code)
		}
	})

	t.Run("requires_date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		w := doJSON(t, r, http.MethodPut, "/transactions/5", gin.H{
			"name": "x", "value": 100, "type": "OUTCOME",
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects_bad_id", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		w := doJSON(t, r, http.MethodPut, "/transactions/abc", gin.H{
			"name": "x", "value": 100, "type": "OUTCOME", "transaction_date": "2024-03-01",
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestDeleteTransactionHandler(t *testing.T) {
	var deletedID uint
	mock := &mockTransactionService{
		deleteFn: func(_, transactionID uint) error {
			deletedID = transactionID
			return nil
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(mock))

	w := doJSON(t, r, http.MethodDelete, "/transactions/9", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if deletedID != 9 {
		t.Errorf("expected delete of ID 9, got %d", deletedID)
	}
}

func TestGetTransactionsHandler(t *testing.T) {
	t.Run("passes_period", func(t *testing.T) {
		var gotPeriod string
		mock := &mockTransactionService{
			listFn: func(_ uint, yearMonth string) ([]models.Transaction, error) {
				gotPeriod = yearMonth
				return []models.Transaction{{ID: 1}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(mock))

		w := doJSON(t, r, http.MethodGet, "/transactions?year_month=2024-03", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotPeriod != "2024-03" {
			t.Errorf("expected period 2024-03, got %q", gotPeriod)
		}
	})

	t.Run("invalid_period", func(t *testing.T) {
		mock := &mockTransactionService{
			listFn: func(uint, string) ([]models.Transaction, error) {
				return nil, apperrors.ErrInvalidPeriod
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(mock))

		w := doJSON(t, r, http.MethodGet, "/transactions?year_month=bogus", nil)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "INVALID_PERIOD" {
			t.Errorf("expected INVALID_PERIOD, got %q", code)
		}
	})
}

func TestImportCSVHandler(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var gotBank, gotMonth string
		mock := &mockTransactionService{
			importFn: func(_ uint, bankName, statementMonth, _ string) (int, error) {
				gotBank, gotMonth = bankName, statementMonth
				return 2, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(mock))

		w := doJSON(t, r, http.MethodPost, "/transactions/import-csv", gin.H{
			"bank_name":         "nubank",
			"transactions_date": "2024-03",
			"csv_base64":        "dGl0bGUsYW1vdW50LGNhdGVnb3J5Cg==",
		})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if gotBank != "nubank" || gotMonth != "2024-03" {
			t.Errorf("unexpected call: bank=%q month=%q", gotBank, gotMonth)
		}
	})

	t.Run("rejects_bad_statement_month_at_binding", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		w := doJSON(t, r, http.MethodPost, "/transactions/import-csv", gin.H{
			"bank_name":         "nubank",
			"transactions_date": "2024/03",
			"csv_base64":        "Zm9v",
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("maps_unresolved_tag", func(t *testing.T) {
		mock := &mockTransactionService{
			importFn: func(uint, string, string, string) (int, error) {
				return 0, apperrors.ErrUnresolvedTag
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(mock))

		w := doJSON(t, r, http.MethodPost, "/transactions/import-csv", gin.H{
			"bank_name":         "nubank",
			"transactions_date": "2024-03",
			"csv_base64":        "Zm9v",
		})

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "UNRESOLVED_TAG" {
			t.Errorf("expected UNRESOLVED_TAG, got %q", code)
		}
	})
}

func TestExportCSVHandler(t *testing.T) {
	mock := &mockTransactionService{
		exportFn: func(_ uint, yearMonth string) (string, error) {
			if yearMonth != "2024-03" {
				t.Errorf("expected period 2024-03, got %q", yearMonth)
			}
			return "Tm9tZSwgVmFsb3I=", nil
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(mock))

	w := doJSON(t, r, http.MethodGet, "/transactions/export-csv?year_month=2024-03", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Base64 string `json:"base_64"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Base64 != "Tm9tZSwgVmFsb3I=" {
		t.Errorf("unexpected base_64 field: %q", body.Base64)
	}
}

func TestGetSummaryHandler(t *testing.T) {
	mock := &mockTransactionService{
		summaryFn: func(_ uint, yearMonth string) (*services.Summary, error) {
			return &services.Summary{
				FormattedDate: "Março 2024",
				InitialDate:   "2024-03-01",
				LastDate:      "2024-03-31",
				TotalIncome:   25000,
				TotalOutcome:  10000,
				Profit:        15000,
			}, nil
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(mock))

	w := doJSON(t, r, http.MethodGet, "/transactions/summary?year_month=2024-03", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var summary services.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if summary.Profit != 15000 || summary.FormattedDate != "Março 2024" {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

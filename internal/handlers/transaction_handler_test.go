package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finboard/internal/errors"
	"finboard/internal/finance"
	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/services"
)

const testTransactionID = "0190a0b1-0000-7000-8000-0000000000b1"

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn      func(userID string, in services.TransactionInput) (*models.Transaction, error)
	batchCreateFn            func(userID string, inputs []services.TransactionInput) ([]models.Transaction, error)
	getUserTransactionsFn    func(userID string, page pagination.PageRequest, filter finance.Filter) (*pagination.PageResponse[models.Transaction], error)
	getAccountTransactionsFn func(userID, accountID string, page pagination.PageRequest, filter finance.Filter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn     func(userID, transactionID string) (*models.Transaction, error)
	updateTransactionFn      func(userID, transactionID string, fields services.TransactionUpdateFields) (*models.Transaction, error)
	deleteTransactionFn      func(userID, transactionID string) error
}

func (m *mockTransactionService) CreateTransaction(userID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) BatchCreateTransactions(userID string, inputs []services.TransactionInput) ([]models.Transaction, error) {
	if m.batchCreateFn != nil {
		return m.batchCreateFn(userID, inputs)
	}
	return make([]models.Transaction, len(inputs)), nil
}

func (m *mockTransactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter finance.Filter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 50, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter finance.Filter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getAccountTransactionsFn != nil {
		return m.getAccountTransactionsFn(userID, accountID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 50, 0)
	return &resp, nil
}

func (m *mockTransactionService) ListTransactions(_ string) ([]models.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, fields)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.POST("/transactions/batch", handler.BatchCreateTransactions)
	auth.GET("/transactions", handler.GetUserTransactions)
	auth.GET("/transactions/:id", handler.GetTransactionByID)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	auth.GET("/accounts/:id/transactions", handler.GetAccountTransactions)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var captured services.TransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(userID string, in services.TransactionInput) (*models.Transaction, error) {
				captured = in
				return &models.Transaction{
					Base:      models.Base{ID: testTransactionID},
					UserID:    userID,
					AccountID: in.AccountID,
					Amount:    in.Amount,
					Category:  in.Category,
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":"`+testAccountID+`","amount":"-42.50","category":"Food","date":"2025-04-20"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !captured.Amount.Equal(decimal.RequireFromString("-42.5")) {
			t.Errorf("expected amount -42.5, got %s", captured.Amount)
		}
		if !captured.Date.Equal(time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected date 2025-04-20, got %s", captured.Date)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["category"] != "Food" {
			t.Errorf("expected Food, got %v", tx["category"])
		}
	})

	t.Run("returns 400 on missing amount", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"account_id":"`+testAccountID+`"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":"`+testAccountID+`","amount":"10","date":"20/04/2025"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unknown frequency", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":"`+testAccountID+`","amount":"10","is_recurring":true,"frequency":"daily"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when the account is not the user's", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(_ string, _ services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"account_id":"`+testAccountID+`","amount":"10"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_BatchCreateTransactions(t *testing.T) {
	t.Run("returns 201 with every transaction", func(t *testing.T) {
		var count int
		txSvc := &mockTransactionService{
			batchCreateFn: func(_ string, inputs []services.TransactionInput) ([]models.Transaction, error) {
				count = len(inputs)
				return make([]models.Transaction, len(inputs)), nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions/batch", `{"transactions":[
			{"account_id":"`+testAccountID+`","amount":"-5"},
			{"account_id":"`+testAccountID+`","amount":"2500","category":"Salary"}
		]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if count != 2 {
			t.Errorf("expected 2 inputs, got %d", count)
		}
		if len(parseJSON(t, rec)["transactions"].([]interface{})) != 2 {
			t.Error("expected 2 transactions in response")
		}
	})

	t.Run("returns 400 on empty batch", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions/batch", `{"transactions":[]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when one item is invalid", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions/batch", `{"transactions":[
			{"account_id":"`+testAccountID+`","amount":"-5"},
			{"account_id":"not-a-uuid","amount":"1"}
		]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetUserTransactions(t *testing.T) {
	t.Run("passes filters to the service", func(t *testing.T) {
		var captured finance.Filter
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ string, page pagination.PageRequest, filter finance.Filter) (*pagination.PageResponse[models.Transaction], error) {
				captured = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 50, 0)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET",
			"/transactions?from_date=2025-01-01&type=expense&categories=Food,%20Rent&search=coffee&min_amount=-100", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.StartDate == nil || captured.StartDate.Year() != 2025 {
			t.Errorf("expected start date, got %v", captured.StartDate)
		}
		if captured.Type != finance.TypeExpense {
			t.Errorf("expected expense filter, got %q", captured.Type)
		}
		if len(captured.Categories) != 2 || captured.Categories[1] != "Rent" {
			t.Errorf("expected [Food Rent], got %v", captured.Categories)
		}
		if captured.Search != "coffee" {
			t.Errorf("expected search coffee, got %q", captured.Search)
		}
		if captured.MinAmount == nil || !captured.MinAmount.Equal(decimal.NewFromInt(-100)) {
			t.Errorf("expected min amount -100, got %v", captured.MinAmount)
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?type=refund", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_FILTER")
	})

	t.Run("returns 400 on invalid amount", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?max_amount=lots", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_FILTER")
	})
}

func TestTransactionHandler_GetAccountTransactions(t *testing.T) {
	t.Run("scopes the query to the account", func(t *testing.T) {
		var gotAccount string
		txSvc := &mockTransactionService{
			getAccountTransactionsFn: func(_, accountID string, _ pagination.PageRequest, _ finance.Filter) (*pagination.PageResponse[models.Transaction], error) {
				gotAccount = accountID
				resp := pagination.NewPageResponse([]models.Transaction{{Description: "Coffee"}}, 1, 50, 1)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/accounts/"+testAccountID+"/transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotAccount != testAccountID {
			t.Errorf("expected account %s, got %s", testAccountID, gotAccount)
		}
	})

	t.Run("returns 400 on invalid account ID", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/accounts/xyz/transactions", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactionByID(t *testing.T) {
	t.Run("returns 404 when not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getTransactionByIDFn: func(_, _ string) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/"+testTransactionID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("passes only provided fields", func(t *testing.T) {
		var captured services.TransactionUpdateFields
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_, id string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
				captured = fields
				return &models.Transaction{Base: models.Base{ID: id}}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/"+testTransactionID, `{"category":"Groceries","type":"transfer"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Category == nil || *captured.Category != "Groceries" {
			t.Errorf("expected category Groceries, got %v", captured.Category)
		}
		if captured.Type == nil || *captured.Type != models.TransactionKindTransfer {
			t.Errorf("expected transfer, got %v", captured.Type)
		}
		if captured.Amount != nil || captured.Date != nil {
			t.Error("expected amount and date untouched")
		}
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/"+testTransactionID, `{"type":"refund"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "DELETE", "/transactions/"+testTransactionID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["message"] != "Transaction deleted successfully" {
			t.Error("expected delete message")
		}
	})
}

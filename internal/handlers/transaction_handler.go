package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finboard/internal/errors"
	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
// Amount is signed: negative values are expenses.
type CreateTransactionRequest struct {
	AccountID   string           `json:"account_id" binding:"required,uuid"`
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string"`
	Description string           `json:"description" binding:"max=500"`
	Category    string           `json:"category" binding:"max=100"`
	Note        string           `json:"note" binding:"max=1000"`
	Type        string           `json:"type" binding:"omitempty,transaction_kind"`
	Date        *string          `json:"date"`
	IsRecurring bool             `json:"is_recurring"`
	RecurringID string           `json:"recurring_id" binding:"max=100"`
	Frequency   string           `json:"frequency" binding:"omitempty,frequency"`
}

// BatchCreateTransactionsRequest represents a batch import payload
type BatchCreateTransactionsRequest struct {
	Transactions []CreateTransactionRequest `json:"transactions" binding:"required,min=1,max=500,dive"`
}

// UpdateTransactionRequest represents the request payload for updating a transaction.
type UpdateTransactionRequest struct {
	AccountID   *string          `json:"account_id" binding:"omitempty,uuid"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"string"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Note        *string          `json:"note" binding:"omitempty,max=1000"`
	Type        *string          `json:"type" binding:"omitempty,transaction_kind"`
	Date        *string          `json:"date"`
	IsRecurring *bool            `json:"is_recurring"`
	RecurringID *string          `json:"recurring_id" binding:"omitempty,max=100"`
	Frequency   *string          `json:"frequency" binding:"omitempty,frequency"`
}

func (r CreateTransactionRequest) input() (services.TransactionInput, error) {
	date, err := parseOptionalTime(r.Date, "date")
	if err != nil {
		return services.TransactionInput{}, err
	}
	in := services.TransactionInput{
		AccountID:   r.AccountID,
		Amount:      *r.Amount,
		Description: r.Description,
		Category:    r.Category,
		Note:        r.Note,
		Type:        models.TransactionKind(r.Type),
		IsRecurring: r.IsRecurring,
		RecurringID: r.RecurringID,
		Frequency:   models.Frequency(r.Frequency),
	}
	if date != nil {
		in.Date = *date
	}
	return in, nil
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a transaction on one of the user's accounts. Account balances are not adjusted.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"account_id": in.AccountID, "amount": in.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// BatchCreateTransactions imports several transactions at once
// @Summary     Batch create transactions
// @Description Record several transactions in one request. Either all are stored or none.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BatchCreateTransactionsRequest true "Transactions"
// @Success     201 {object} map[string][]models.Transaction "Transactions created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/batch [post]
func (h *TransactionHandler) BatchCreateTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BatchCreateTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.TransactionInput, 0, len(req.Transactions))
	for _, r := range req.Transactions {
		in, err := r.input()
		if err != nil {
			respondWithError(c, err)
			return
		}
		inputs = append(inputs, in)
	}

	transactions, err := h.transactionService.BatchCreateTransactions(userID, inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "BATCH_CREATE_TRANSACTIONS", "transaction", "", c.ClientIP(),
		map[string]interface{}{"count": len(transactions)})

	c.JSON(http.StatusCreated, gin.H{"transactions": transactions})
}

// GetUserTransactions handles the retrieval of all transactions for a user
// @Summary     Get user transactions
// @Description Get a paginated, filtered list of the user's transactions, newest first
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       limit       query int    false "Items per page (default 50, max 200)"
// @Param       from_date   query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       type        query string false "all, income, expense or transfer"
// @Param       categories  query string false "Comma separated category names"
// @Param       account_ids query string false "Comma separated account IDs"
// @Param       search      query string false "Matches description, category or note"
// @Param       min_amount  query string false "Minimum signed amount"
// @Param       max_amount  query string false "Maximum signed amount"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountTransactions handles the retrieval of transactions for one account
// @Summary     Get account transactions
// @Description Get a paginated, filtered list of transactions for a specific account
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Account ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       limit     query int    false "Items per page (default 50, max 200)"
// @Param       from_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       type      query string false "all, income, expense or transfer"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid account ID or filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/transactions [get]
func (h *TransactionHandler) GetAccountTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetAccountTransactions(userID, accountID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID for the authenticated user
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
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

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles updating a transaction
// @Summary     Update transaction
// @Description Update fields of an existing transaction. Only provided fields change.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
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

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseOptionalTime(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	fields := services.TransactionUpdateFields{
		AccountID:   req.AccountID,
		Date:        date,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Note:        req.Note,
		IsRecurring: req.IsRecurring,
		RecurringID: req.RecurringID,
	}
	if req.Type != nil {
		kind := models.TransactionKind(*req.Type)
		fields.Type = &kind
	}
	if req.Frequency != nil {
		freq := models.Frequency(*req.Frequency)
		fields.Frequency = &freq
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction
// @Summary     Delete transaction
// @Description Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
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

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

package services

import (
	"errors"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finboard/internal/errors"
	"finboard/internal/finance"
	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/state"
)

var frequencies = []models.Frequency{
	models.FrequencyWeekly,
	models.FrequencyBiweekly,
	models.FrequencyMonthly,
	models.FrequencyQuarterly,
	models.FrequencyAnnually,
}

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	store          Dispatcher
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, store Dispatcher, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		store:          store,
		accountService: accountService,
	}
}

// CreateTransaction records a transaction on one of the user's accounts.
// Account balances are not adjusted.
func (s *transactionService) CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	transaction, err := s.build(userID, in)
	if err != nil {
		return nil, err
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.AddTransaction{Transaction: *transaction})
	return transaction, nil
}

// BatchCreateTransactions records several transactions atomically.
func (s *transactionService) BatchCreateTransactions(userID string, inputs []TransactionInput) ([]models.Transaction, error) {
	if len(inputs) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one transaction is required")
	}

	transactions := make([]models.Transaction, 0, len(inputs))
	for _, in := range inputs {
		t, err := s.build(userID, in)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transactions).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.store.Dispatch(userID, state.BatchAddTransactions{Transactions: transactions})
	return transactions, nil
}

// build validates input and returns an unsaved transaction.
func (s *transactionService) build(userID string, in TransactionInput) (*models.Transaction, error) {
	if in.AccountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if in.Amount.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be zero")
	}

	kind := in.Type
	if kind == "" {
		kind = models.TransactionKindNormal
	}
	if kind != models.TransactionKindNormal && kind != models.TransactionKindTransfer {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if in.Frequency != "" && !slices.Contains(frequencies, in.Frequency) {
		return nil, apperrors.ErrInvalidFrequency
	}

	// Default date to now if not provided
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	// Ensure the account exists and belongs to the user
	if _, err := s.accountService.GetAccountByID(userID, in.AccountID); err != nil {
		return nil, err
	}

	return &models.Transaction{
		UserID:      userID,
		AccountID:   in.AccountID,
		Date:        date,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Note:        in.Note,
		Type:        kind,
		IsRecurring: in.IsRecurring,
		RecurringID: in.RecurringID,
		Frequency:   in.Frequency,
	}, nil
}

// GetUserTransactions retrieves a paginated, filtered list of a user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter finance.Filter) (*pagination.PageResponse[models.Transaction], error) {
	base := s.db.Model(&models.Transaction{}).Scopes(models.OwnedBy(userID))
	return s.page(base, page, filter)
}

// GetAccountTransactions retrieves a paginated, filtered list of transactions for a specific account.
func (s *transactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter finance.Filter) (*pagination.PageResponse[models.Transaction], error) {
	// First verify the account belongs to the user
	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	base := s.db.Model(&models.Transaction{}).Where("user_id = ? AND account_id = ?", userID, accountID)
	return s.page(base, page, filter)
}

func (s *transactionService) page(base *gorm.DB, page pagination.PageRequest, filter finance.Filter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.Limit, totalItems)
	return &result, nil
}

// likeEscaper makes LIKE match search text literally, as Filter.Match does.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applyTransactionFilters is the SQL form of finance.Filter.Match.
func applyTransactionFilters(q *gorm.DB, f finance.Filter) *gorm.DB {
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate)
	}
	if len(f.Categories) > 0 {
		q = q.Where("category IN ?", f.Categories)
	}
	if len(f.AccountIDs) > 0 {
		q = q.Where("account_id IN ?", f.AccountIDs)
	}
	if f.Search != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		q = q.Where(`(LOWER(description) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\' OR LOWER(note) LIKE ? ESCAPE '\')`,
			like, like, like)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	switch f.Type {
	case finance.TypeIncome:
		q = q.Where("amount > 0")
	case finance.TypeExpense:
		q = q.Where("amount < 0")
	case finance.TypeTransfer:
		q = q.Where("type = ?", models.TransactionKindTransfer)
	}
	return q
}

// ListTransactions returns every transaction of a user, newest first.
func (s *transactionService) ListTransactions(userID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Scopes(models.OwnedBy(userID)).Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Scopes(models.OwnedRecord(transactionID, userID)).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies the non-nil fields to a transaction.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.AccountID != nil && *fields.AccountID != transaction.AccountID {
		if _, err := s.accountService.GetAccountByID(userID, *fields.AccountID); err != nil {
			return nil, err
		}
		updates["account_id"] = *fields.AccountID
	}
	if fields.Date != nil && !fields.Date.IsZero() {
		updates["date"] = *fields.Date
	}
	if fields.Amount != nil {
		if fields.Amount.IsZero() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be zero")
		}
		updates["amount"] = *fields.Amount
	}
	if fields.Description != nil {
		updates["description"] = strings.TrimSpace(*fields.Description)
	}
	if fields.Category != nil {
		updates["category"] = strings.TrimSpace(*fields.Category)
	}
	if fields.Note != nil {
		updates["note"] = *fields.Note
	}
	if fields.Type != nil {
		if *fields.Type != models.TransactionKindNormal && *fields.Type != models.TransactionKindTransfer {
			return nil, apperrors.ErrInvalidTransactionType
		}
		updates["type"] = *fields.Type
	}
	if fields.IsRecurring != nil {
		updates["is_recurring"] = *fields.IsRecurring
	}
	if fields.RecurringID != nil {
		updates["recurring_id"] = *fields.RecurringID
	}
	if fields.Frequency != nil {
		if *fields.Frequency != "" && !slices.Contains(frequencies, *fields.Frequency) {
			return nil, apperrors.ErrInvalidFrequency
		}
		updates["frequency"] = *fields.Frequency
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", transaction.ID).First(transaction).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		s.store.Dispatch(userID, state.UpdateTransaction{Transaction: *transaction})
	}

	return transaction, nil
}

// DeleteTransaction deletes a transaction
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.DeleteTransaction{ID: transactionID})
	return nil
}

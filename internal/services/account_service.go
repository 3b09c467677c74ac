package services

import (
	"errors"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finboard/internal/errors"
	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/state"
)

const defaultCurrency = "USD"

// accountService handles account-related business logic.
type accountService struct {
	db    *gorm.DB
	store Dispatcher
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, store Dispatcher) AccountServicer {
	return &accountService{db: db, store: store}
}

// CreateAccount creates a new account for a user
func (s *accountService) CreateAccount(userID string, in AccountInput) (*models.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if !slices.Contains(models.AccountTypes, in.Type) {
		return nil, apperrors.ErrInvalidAccountType
	}

	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	account := &models.Account{
		UserID:      userID,
		Name:        name,
		Institution: strings.TrimSpace(in.Institution),
		Type:        in.Type,
		Balance:     in.Balance,
		Currency:    currency,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.AddAccount{Account: *account})
	return account, nil
}

// GetUserAccounts retrieves a paginated list of accounts for a user.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Account{}).Scopes(models.OwnedBy(userID))
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.Limit, totalItems)
	return &result, nil
}

// ListAccounts returns every account of a user.
func (s *accountService) ListAccounts(userID string) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Scopes(models.OwnedBy(userID)).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Scopes(models.OwnedRecord(accountID, userID)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates the descriptive fields of an account.
func (s *accountService) UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && strings.TrimSpace(*fields.Name) != "" {
		updates["name"] = strings.TrimSpace(*fields.Name)
	}
	if fields.Institution != nil {
		updates["institution"] = strings.TrimSpace(*fields.Institution)
	}
	if fields.Type != nil {
		if !slices.Contains(models.AccountTypes, *fields.Type) {
			return nil, apperrors.ErrInvalidAccountType
		}
		updates["type"] = *fields.Type
	}
	if fields.Currency != nil && *fields.Currency != "" {
		updates["currency"] = strings.ToUpper(*fields.Currency)
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// Reload to get fresh data
		if err := s.db.Where("id = ?", account.ID).First(account).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		s.store.Dispatch(userID, state.UpdateAccount{Account: *account})
	}

	return account, nil
}

// UpdateAccountBalance sets the balance of an account. Balances are
// maintained by the user and are not derived from transactions.
func (s *accountService) UpdateAccountBalance(userID, accountID string, balance decimal.Decimal) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(account).Update("balance", balance).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	account.Balance = balance

	s.store.Dispatch(userID, state.UpdateAccountBalance{AccountID: accountID, NewBalance: balance})
	return account, nil
}

// DeleteAccount removes an account that has no transactions.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Transaction{}).Where("account_id = ?", accountID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrAccountInUse
	}

	if err := s.db.Delete(account).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.DeleteAccount{ID: accountID})
	return nil
}

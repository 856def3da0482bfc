package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalReader
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalReader, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(options...),
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, ledgerID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := dto.ValidateStruct(req); err != nil {
		return nil, err
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	currency := strings.ToUpper(req.CurrencyCode)
	if !domain.IsValidCurrencyCode(currency) {
		return nil, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, req.CurrencyCode)
	}

	now := s.Now()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		LedgerID:     ledgerID,
		Code:         strings.TrimSpace(req.Code),
		Name:         strings.TrimSpace(req.Name),
		AccountType:  req.AccountType,
		CurrencyCode: currency,
		IsActive:     true,
		Balance:      domain.Zero(currency),
		AuditFields:  domain.NewAuditFields(userID, now),
	}

	err := s.WithLedgerLock(ctx, ledgerID, func() error {
		if err := s.ensureCodeFree(ctx, ledgerID, account.Code, ""); err != nil {
			return err
		}
		return s.accountRepo.SaveAccount(ctx, account)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create account", slog.String("ledger_id", ledgerID), slog.String("code", account.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully", slog.String("account_id", account.AccountID), slog.String("ledger_id", ledgerID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, ledgerID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, ledgerID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
		}
		s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, ledgerID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.LoadAccounts(ctx, ledgerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("ledger_id", ledgerID))
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount applies a partial update. Code, type and currency are frozen once a posted
// entry references the account; name and the active flag can always change.
func (s *accountService) UpdateAccount(ctx context.Context, ledgerID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := dto.ValidateStruct(req); err != nil {
		return nil, err
	}

	var updated *domain.Account
	err := s.WithLedgerLock(ctx, ledgerID, func() error {
		account, err := s.GetAccountByID(ctx, ledgerID, accountID)
		if err != nil {
			return err
		}

		structural := false
		if req.Code != nil && strings.TrimSpace(*req.Code) != account.Code {
			code := strings.TrimSpace(*req.Code)
			if err := s.ensureCodeFree(ctx, ledgerID, code, account.AccountID); err != nil {
				return err
			}
			account.Code = code
			structural = true
		}
		if req.AccountType != nil && *req.AccountType != account.AccountType {
			if !req.AccountType.IsValid() {
				return fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *req.AccountType)
			}
			account.AccountType = *req.AccountType
			structural = true
		}
		if req.CurrencyCode != nil && strings.ToUpper(*req.CurrencyCode) != account.CurrencyCode {
			currency := strings.ToUpper(*req.CurrencyCode)
			if !domain.IsValidCurrencyCode(currency) {
				return fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, *req.CurrencyCode)
			}
			account.CurrencyCode = currency
			account.Balance = domain.NewMoney(account.Balance.Amount, currency)
			structural = true
		}
		if structural {
			referenced, err := s.journalRepo.IsAccountReferenced(ctx, ledgerID, accountID)
			if err != nil {
				return err
			}
			if referenced {
				return fmt.Errorf("%w: %s", apperrors.ErrAccountInUse, account.Code)
			}
		}

		if req.Name != nil {
			account.Name = strings.TrimSpace(*req.Name)
		}
		if req.IsActive != nil {
			account.IsActive = *req.IsActive
		}
		account.Touch(userID, s.Now())

		if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return updated, nil
}

// ensureCodeFree fails with ErrDuplicate when code belongs to an account other than selfID.
func (s *accountService) ensureCodeFree(ctx context.Context, ledgerID, code, selfID string) error {
	existing, err := s.accountRepo.FindAccountByCode(ctx, ledgerID, code)
	switch {
	case err == nil && existing.AccountID != selfID:
		return fmt.Errorf("%w: account code %s is already used in ledger %s", apperrors.ErrDuplicate, code, ledgerID)
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return err
	}
	return nil
}

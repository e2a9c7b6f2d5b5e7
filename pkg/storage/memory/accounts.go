package memory

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/storage"
)

const (
	referralCodeLength  = 8
	referralCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts     = 5
)

// GenerateReferralCode returns a random code drawn from a 36^8 space.
func GenerateReferralCode() (string, error) {
	code := make([]byte, referralCodeLength)
	charsetLen := big.NewInt(int64(len(referralCodeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		code[i] = referralCodeCharset[n.Int64()]
	}
	return string(code), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// RegisterOrGet returns the existing account or creates a new one.
func (s *Store) RegisterOrGet(ctx context.Context, accountID, displayName, inviterCode string) (*models.Account, bool, error) {
	if accountID == "" {
		return nil, false, fmt.Errorf("account id is required")
	}

	var out *models.Account
	var created bool
	err := s.mutate(ctx, func() (bool, error) {
		if acc, ok := s.accounts[accountID]; ok {
			out = copyAccount(acc)
			return false, nil
		}

		code, err := s.uniqueCodeLocked()
		if err != nil {
			return false, err
		}

		acc := &models.Account{
			Id:           accountID,
			DisplayName:  displayName,
			ReferralCode: code,
			CreatedAt:    s.now(),
		}
		if inviter := normalizeCode(inviterCode); inviter != "" {
			if _, ok := s.byCode[inviter]; ok {
				acc.ReferredBy = inviter
			}
		}

		s.accounts[acc.Id] = acc
		s.accountIDs = append(s.accountIDs, acc.Id)
		s.byCode[code] = acc.Id

		out = copyAccount(acc)
		created = true
		return true, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to register account: %w", err)
	}

	if created {
		s.logger.Info("account registered", "account_id", out.Id, "referral_code", out.ReferralCode, "referred_by", out.ReferredBy)
	}
	return out, created, nil
}

func (s *Store) uniqueCodeLocked() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		if _, taken := s.byCode[code]; !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique referral code after %d attempts", maxCodeAttempts)
}

// GetAccount retrieves an account by its id.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, storage.ErrAccountNotFound
	}
	return copyAccount(acc), nil
}

// GetAccountByReferralCode retrieves the account owning a referral code.
func (s *Store) GetAccountByReferralCode(ctx context.Context, code string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byCode[normalizeCode(code)]
	if !ok {
		return nil, storage.ErrAccountNotFound
	}
	return copyAccount(s.accounts[id]), nil
}

// ListReferrals retrieves the accounts referred by the given code in registration order.
func (s *Store) ListReferrals(ctx context.Context, code string) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code = normalizeCode(code)
	referrals := []models.Account{}
	if code == "" {
		return referrals, nil
	}
	for _, id := range s.accountIDs {
		if acc := s.accounts[id]; acc.ReferredBy == code {
			referrals = append(referrals, *copyAccount(acc))
		}
	}
	return referrals, nil
}

// ListAccounts retrieves all accounts in registration order.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]models.Account, 0, len(s.accountIDs))
	for _, id := range s.accountIDs {
		accounts = append(accounts, *copyAccount(s.accounts[id]))
	}
	return accounts, nil
}

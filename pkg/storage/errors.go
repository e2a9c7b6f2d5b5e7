package storage

import "errors"

// ErrAccountNotFound is returned when no account exists for the given id or referral code.
var ErrAccountNotFound = errors.New("account not found")

// ErrInsufficientFunds is returned when an account's balance cannot cover a withdrawal.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrBelowMinimumWithdrawal is returned when a withdrawal amount, or the balance available to withdraw, is below the configured minimum.
var ErrBelowMinimumWithdrawal = errors.New("below minimum withdrawal")

// ErrRequestNotFound is returned when no withdrawal request exists for the given id.
var ErrRequestNotFound = errors.New("withdrawal request not found")

// ErrRequestNotPending is returned when a withdrawal request has already been approved or rejected.
var ErrRequestNotPending = errors.New("withdrawal request not in a pending state")

// ErrInvalidAmountFormat is returned when a withdrawal amount is not a whole number ending in "00".
var ErrInvalidAmountFormat = errors.New("invalid amount format")

// ErrInvalidPaymentMethod is returned when a payment method is not recognised.
var ErrInvalidPaymentMethod = errors.New("invalid payment method")

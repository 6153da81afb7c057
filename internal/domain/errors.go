package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Business errors are terminal: they are surfaced to the caller as-is and
// never retried. Each carries enough context to build a user-facing message
// without another lookup.

type CardNotFoundError struct {
	CardID int64
}

func (e *CardNotFoundError) Error() string {
	return fmt.Sprintf("card %d not found", e.CardID)
}

type UserNotFoundError struct {
	UserID int64
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %d not found", e.UserID)
}

type DuplicateCardError struct {
	Number string // masked
}

func (e *DuplicateCardError) Error() string {
	return fmt.Sprintf("card number already exists: %s", e.Number)
}

type ForbiddenError struct {
	UserID int64
	CardID int64
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("user %d is not allowed to act on card %d: %s", e.UserID, e.CardID, e.Reason)
}

type InvalidCardStateError struct {
	CardID int64
	Status CardStatus
}

func (e *InvalidCardStateError) Error() string {
	return fmt.Sprintf("card %d is %s", e.CardID, e.Status)
}

type InsufficientFundsError struct {
	CardID    int64
	Requested decimal.Decimal
	Balance   decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("card %d has insufficient funds: requested %s, balance %s",
		e.CardID, e.Requested.String(), e.Balance.String())
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusBlocked CardStatus = "BLOCKED"
	CardStatusExpired CardStatus = "EXPIRED"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type TransactionType string

const TransactionTypeTransfer TransactionType = "TRANSFER"

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Email        string    `db:"email"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

type Card struct {
	ID              int64           `db:"id"`
	Number          string          `db:"number"` // masked, for display only
	EncryptedNumber string          `db:"encrypted_number"`
	Holder          string          `db:"holder"`
	ExpirationDate  time.Time       `db:"expiration_date"`
	Status          CardStatus      `db:"status"`
	Balance         decimal.Decimal `db:"balance"`
	UserID          int64           `db:"user_id"`
	CreatedAt       time.Time       `db:"created_at"`
}

// Transaction is an append-only record of a completed transfer. Rows are
// written once, inside the same database transaction as the balance moves,
// and never updated afterwards.
type Transaction struct {
	ID         int64           `db:"id"`
	Type       TransactionType `db:"type"`
	Amount     decimal.Decimal `db:"amount"`
	FromCardID int64           `db:"from_card_id"`
	ToCardID   int64           `db:"to_card_id"`
	Timestamp  time.Time       `db:"created_at"`
}

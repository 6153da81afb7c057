package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateCardRequestDTO struct {
	Number         string `json:"number" validate:"required,len=16" example:"4111111111111111"`
	Holder         string `json:"holder" validate:"required" example:"IVAN IVANOV"`
	ExpirationDate string `json:"expiration_date" validate:"required" example:"2030-12-31"`
	UserID         int64  `json:"user_id" validate:"required" example:"1"`
}

type CardResponseDTO struct {
	ID             int64           `json:"id" example:"1"`
	Number         string          `json:"number" example:"**** **** **** 4444"`
	Holder         string          `json:"holder" example:"IVAN IVANOV"`
	ExpirationDate string          `json:"expiration_date" example:"2030-12-31"`
	Status         string          `json:"status" example:"ACTIVE"`
	Balance        decimal.Decimal `json:"balance" example:"100.5"`
	UserID         int64           `json:"user_id" example:"1"`
}

type DepositRequestDTO struct {
	Amount decimal.Decimal `json:"amount" validate:"required" example:"50"`
}

type TransferRequestDTO struct {
	FromCardID int64           `json:"from_card_id" validate:"required" example:"1"`
	ToCardID   int64           `json:"to_card_id" validate:"required" example:"2"`
	Amount     decimal.Decimal `json:"amount" validate:"required" example:"50"`
}

type TransferResponseDTO struct {
	TransactionID int64           `json:"transaction_id" example:"1"`
	Amount        decimal.Decimal `json:"amount" example:"50"`
	FromCardID    int64           `json:"from_card_id" example:"1"`
	ToCardID      int64           `json:"to_card_id" example:"2"`
	Timestamp     time.Time       `json:"timestamp"`
}

type BalanceResponseDTO struct {
	Balance decimal.Decimal `json:"balance" example:"100.5"`
}

type TransactionResponseDTO struct {
	ID         int64           `json:"id" example:"1"`
	Type       string          `json:"type" example:"TRANSFER"`
	Amount     decimal.Decimal `json:"amount" example:"50"`
	FromCardID int64           `json:"from_card_id" example:"1"`
	ToCardID   int64           `json:"to_card_id" example:"2"`
	Timestamp  time.Time       `json:"timestamp"`
}

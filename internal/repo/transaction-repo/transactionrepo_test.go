package transactionrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kmosolov/bankcards/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
		INSERT INTO transactions (type, amount, from_card_id, to_card_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		txn       *domain.Transaction
		mockSetup func(txn *domain.Transaction)
		expectErr bool
	}{
		{
			name: "Create transaction successfully",
			txn: &domain.Transaction{
				Type:       domain.TransactionTypeTransfer,
				Amount:     decimal.NewFromInt(50),
				FromCardID: 1,
				ToCardID:   2,
				Timestamp:  now,
			},
			mockSetup: func(txn *domain.Transaction) {
				mock.ExpectQuery(query).
					WithArgs(txn.Type, txn.Amount, txn.FromCardID, txn.ToCardID, txn.Timestamp).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
			},
		},
		{
			name: "Database error",
			txn: &domain.Transaction{
				Type:       domain.TransactionTypeTransfer,
				Amount:     decimal.NewFromInt(50),
				FromCardID: 1,
				ToCardID:   2,
				Timestamp:  now,
			},
			mockSetup: func(txn *domain.Transaction) {
				mock.ExpectQuery(query).
					WithArgs(txn.Type, txn.Amount, txn.FromCardID, txn.ToCardID, txn.Timestamp).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup(tt.txn)
			result, err := repo.Create(context.Background(), tt.txn)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(7), result.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindByCardID(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
        SELECT id, type, amount, from_card_id, to_card_id, created_at
        FROM transactions
        WHERE from_card_id = $1 OR to_card_id = $1
        ORDER BY created_at DESC
    `)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		cardID    int64
		mockSetup func()
		expectErr bool
		result    []domain.Transaction
	}{
		{
			name:   "Transactions found, newest first",
			cardID: 1,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "type", "amount", "from_card_id", "to_card_id", "created_at"}).
					AddRow(int64(2), domain.TransactionTypeTransfer, decimal.NewFromInt(30), int64(1), int64(2), now).
					AddRow(int64(1), domain.TransactionTypeTransfer, decimal.NewFromInt(10), int64(2), int64(1), now.Add(-time.Hour))
				mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnRows(rows)
			},
			result: []domain.Transaction{
				{ID: 2, Type: domain.TransactionTypeTransfer, Amount: decimal.NewFromInt(30), FromCardID: 1, ToCardID: 2, Timestamp: now},
				{ID: 1, Type: domain.TransactionTypeTransfer, Amount: decimal.NewFromInt(10), FromCardID: 2, ToCardID: 1, Timestamp: now.Add(-time.Hour)},
			},
		},
		{
			name:   "No transactions",
			cardID: 3,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "type", "amount", "from_card_id", "to_card_id", "created_at"})
				mock.ExpectQuery(query).WithArgs(int64(3)).WillReturnRows(rows)
			},
			result: nil,
		},
		{
			name:   "Database error",
			cardID: 1,
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByCardID(context.Background(), tt.cardID)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

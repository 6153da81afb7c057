package transactionrepo

import (
	"context"

	"go.uber.org/zap"

	"github.com/kmosolov/bankcards/internal/domain"
	"github.com/kmosolov/bankcards/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// Create appends a transfer record. Records are written once and never
// updated; there is deliberately no update or delete here.
func (r *Repository) Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (type, amount, from_card_id, to_card_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, txn.Type, txn.Amount, txn.FromCardID, txn.ToCardID, txn.Timestamp).Scan(&txn.ID)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return txn, nil
}

func (r *Repository) FindByCardID(ctx context.Context, cardID int64) ([]domain.Transaction, error) {
	query := `
        SELECT id, type, amount, from_card_id, to_card_id, created_at
        FROM transactions
        WHERE from_card_id = $1 OR to_card_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, cardID)
	if err != nil {
		zap.L().Error("can't get transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		err := rows.Scan(&txn.ID, &txn.Type, &txn.Amount, &txn.FromCardID, &txn.ToCardID, &txn.Timestamp)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

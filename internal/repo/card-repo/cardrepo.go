package cardrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/kmosolov/bankcards/internal/domain"
	"github.com/kmosolov/bankcards/internal/pg"
)

const uniqueViolationCode = "23505"

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func scanCard(row pgx.Row) (*domain.Card, error) {
	var card domain.Card
	err := row.Scan(&card.ID, &card.Number, &card.EncryptedNumber, &card.Holder,
		&card.ExpirationDate, &card.Status, &card.Balance, &card.UserID, &card.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *Repository) Create(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	query := `
        INSERT INTO cards (number, encrypted_number, holder, expiration_date, status, balance, user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, card.Number, card.EncryptedNumber, card.Holder,
		card.ExpirationDate, card.Status, card.Balance, card.UserID).Scan(&card.ID, &card.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, &domain.DuplicateCardError{Number: card.Number}
		}
		zap.L().Error("can't save card", zap.Error(err))
		return nil, err
	}
	return card, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Card, error) {
	query := `
        SELECT id, number, encrypted_number, holder, expiration_date, status, balance, user_id, created_at
        FROM cards
        WHERE id = $1
    `
	card, err := scanCard(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find card", zap.Error(err))
		return nil, err
	}
	return card, nil
}

// FindByIDForUpdate locks the card row for the rest of the surrounding
// transaction. Callers must be inside a TXManager.Begin.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Card, error) {
	query := `
        SELECT id, number, encrypted_number, holder, expiration_date, status, balance, user_id, created_at
        FROM cards
        WHERE id = $1
        FOR UPDATE
    `
	card, err := scanCard(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't lock card", zap.Error(err))
		return nil, err
	}
	return card, nil
}

func (r *Repository) queryCards(ctx context.Context, query string, args ...any) ([]domain.Card, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get cards", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			zap.L().Error("can't scan card row", zap.Error(err))
			return nil, err
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

// FindByOwner pages by id ascending so repeated calls over an unchanged data
// set return the same order.
func (r *Repository) FindByOwner(ctx context.Context, userID int64, limit, offset int) ([]domain.Card, error) {
	query := `
        SELECT id, number, encrypted_number, holder, expiration_date, status, balance, user_id, created_at
        FROM cards
        WHERE user_id = $1
        ORDER BY id ASC
        LIMIT $2 OFFSET $3
    `
	return r.queryCards(ctx, query, userID, limit, offset)
}

func (r *Repository) FindAll(ctx context.Context, limit, offset int) ([]domain.Card, error) {
	query := `
        SELECT id, number, encrypted_number, holder, expiration_date, status, balance, user_id, created_at
        FROM cards
        ORDER BY id ASC
        LIMIT $1 OFFSET $2
    `
	return r.queryCards(ctx, query, limit, offset)
}

func (r *Repository) ExistsByEncryptedNumber(ctx context.Context, encryptedNumber string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM cards WHERE encrypted_number = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, encryptedNumber).Scan(&exists); err != nil {
		zap.L().Error("can't check card existence", zap.Error(err))
		return false, err
	}
	return exists, nil
}

// Save replaces the card's mutable fields in a single atomic statement.
func (r *Repository) Save(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	query := `
        UPDATE cards
        SET holder = $1, expiration_date = $2, status = $3, balance = $4
        WHERE id = $5
        RETURNING id
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		var id int64
		err := r.db.QueryRow(ctx, query, card.Holder, card.ExpirationDate, card.Status, card.Balance, card.ID).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.CardNotFoundError{CardID: card.ID}
		}
		if err != nil {
			zap.L().Error("can't update card", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// UpdateStatus writes only the status column, leaving the balance to the
// ledger's locked transactions. Returns the row as it stands after the update.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.CardStatus) (*domain.Card, error) {
	query := `
        UPDATE cards
        SET status = $1
        WHERE id = $2
        RETURNING id, number, encrypted_number, holder, expiration_date, status, balance, user_id, created_at
    `
	card, err := scanCard(r.db.QueryRow(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.CardNotFoundError{CardID: id}
		}
		zap.L().Error("can't update card status", zap.Error(err))
		return nil, err
	}
	return card, nil
}

// Delete hard-deletes the card. Deleting an id that does not exist returns
// CardNotFoundError.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		zap.L().Error("can't delete card", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return &domain.CardNotFoundError{CardID: id}
	}
	return nil
}

// FindExpired returns cards whose expiration date has passed but whose status
// has not been moved to EXPIRED yet.
func (r *Repository) FindExpired(ctx context.Context, asOf time.Time, limit uint32) ([]domain.Card, error) {
	query := `
        SELECT id, number, encrypted_number, holder, expiration_date, status, balance, user_id, created_at
        FROM cards
        WHERE expiration_date < $1 AND status <> $2
        ORDER BY id ASC
        LIMIT $3
    `
	return r.queryCards(ctx, query, asOf, domain.CardStatusExpired, limit)
}

func (r *Repository) MarkExpired(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE cards SET status = $1 WHERE id = $2`, domain.CardStatusExpired, id)
	if err != nil {
		zap.L().Error("can't mark card expired", zap.Error(err))
		return err
	}
	return nil
}

package ledgerservice

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kmosolov/bankcards/internal/domain"
	"github.com/kmosolov/bankcards/internal/pg"
)

type CardRepo interface {
	FindByID(ctx context.Context, id int64) (*domain.Card, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Card, error)
	Save(ctx context.Context, card *domain.Card) (*domain.Card, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
	FindByCardID(ctx context.Context, cardID int64) ([]domain.Transaction, error)
}

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrSameCard      = errors.New("cannot transfer to the same card")
)

type Service struct {
	cardRepo  CardRepo
	txnRepo   TransactionRepo
	txManager pg.TXManager
}

func New(cardRepo CardRepo, txnRepo TransactionRepo, txManager pg.TXManager) *Service {
	return &Service{
		cardRepo:  cardRepo,
		txnRepo:   txnRepo,
		txManager: txManager,
	}
}

// Deposit adds amount to the card balance. The row is locked for the duration
// of the check-then-write so a concurrent transfer cannot make the update
// operate on a stale balance. Deposits are not recorded in the ledger.
func (s *Service) Deposit(ctx context.Context, cardID int64, amount decimal.Decimal) (*domain.Card, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var updated *domain.Card
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		card, err := s.cardRepo.FindByIDForUpdate(ctx, cardID)
		if err != nil {
			return err
		}
		if card == nil {
			return &domain.CardNotFoundError{CardID: cardID}
		}
		if card.Status == domain.CardStatusBlocked || card.Status == domain.CardStatusExpired {
			return &domain.InvalidCardStateError{CardID: cardID, Status: card.Status}
		}

		card.Balance = card.Balance.Add(amount)
		updated, err = s.cardRepo.Save(ctx, card)
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("deposit completed", zap.Int64("cardID", cardID), zap.String("amount", amount.String()))
	return updated, nil
}

// Transfer moves amount between two cards owned by the acting user. Both row
// locks, both balance writes and the ledger record commit as one unit. Rows
// are locked in ascending id order so two opposite transfers over the same
// pair cannot deadlock. Card status is intentionally not checked here.
func (s *Service) Transfer(ctx context.Context, actorID, fromCardID, toCardID int64, amount decimal.Decimal) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if fromCardID == toCardID {
		return nil, ErrSameCard
	}

	var txn *domain.Transaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		cards := make(map[int64]*domain.Card, 2)
		for _, id := range lockOrder(fromCardID, toCardID) {
			card, err := s.cardRepo.FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if card == nil {
				return &domain.CardNotFoundError{CardID: id}
			}
			cards[id] = card
		}

		fromCard, toCard := cards[fromCardID], cards[toCardID]
		if fromCard.UserID != actorID || toCard.UserID != actorID {
			return &domain.ForbiddenError{UserID: actorID, CardID: fromCardID, Reason: "you can only transfer between your own cards"}
		}
		if fromCard.Balance.LessThan(amount) {
			return &domain.InsufficientFundsError{CardID: fromCardID, Requested: amount, Balance: fromCard.Balance}
		}

		fromCard.Balance = fromCard.Balance.Sub(amount)
		toCard.Balance = toCard.Balance.Add(amount)

		if _, err := s.cardRepo.Save(ctx, fromCard); err != nil {
			return err
		}
		if _, err := s.cardRepo.Save(ctx, toCard); err != nil {
			return err
		}

		txn = &domain.Transaction{
			Type:       domain.TransactionTypeTransfer,
			Amount:     amount,
			FromCardID: fromCardID,
			ToCardID:   toCardID,
			Timestamp:  time.Now(),
		}
		_, err := s.txnRepo.Create(ctx, txn)
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("transfer completed",
		zap.Int64("fromCardID", fromCardID),
		zap.Int64("toCardID", toCardID),
		zap.String("amount", amount.String()))
	return txn, nil
}

// ListTransactions returns the transfer history touching a card, owner only.
func (s *Service) ListTransactions(ctx context.Context, cardID, actorID int64) ([]domain.Transaction, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, &domain.CardNotFoundError{CardID: cardID}
	}
	if card.UserID != actorID {
		return nil, &domain.ForbiddenError{UserID: actorID, CardID: cardID, Reason: "you can only view transactions of your own cards"}
	}

	txns, err := s.txnRepo.FindByCardID(ctx, cardID)
	if err != nil {
		zap.L().Error("can't fetch transactions", zap.Error(err))
		return nil, err
	}
	return txns, nil
}

func lockOrder(a, b int64) [2]int64 {
	if b < a {
		return [2]int64{b, a}
	}
	return [2]int64{a, b}
}

package cardservice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kmosolov/bankcards/internal/domain"
)

type CardRepo interface {
	Create(ctx context.Context, card *domain.Card) (*domain.Card, error)
	FindByID(ctx context.Context, id int64) (*domain.Card, error)
	FindByOwner(ctx context.Context, userID int64, limit, offset int) ([]domain.Card, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.Card, error)
	ExistsByEncryptedNumber(ctx context.Context, encryptedNumber string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status domain.CardStatus) (*domain.Card, error)
	Delete(ctx context.Context, id int64) error
}

type UserRepo interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

type Codec interface {
	Encrypt(rawNumber string) (string, error)
	Mask(rawNumber string) string
}

type Service struct {
	cardRepo CardRepo
	userRepo UserRepo
	codec    Codec
}

func New(cardRepo CardRepo, userRepo UserRepo, codec Codec) *Service {
	return &Service{
		cardRepo: cardRepo,
		userRepo: userRepo,
		codec:    codec,
	}
}

// Create provisions a new ACTIVE card with a zero balance for an existing
// user. The encrypted number is the uniqueness key; a clash fails with
// DuplicateCardError whether it is caught by the lookup or by the unique
// index on insert.
func (s *Service) Create(ctx context.Context, rawNumber, holder string, expiration time.Time, ownerID int64) (*domain.Card, error) {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		zap.L().Error("can't find card owner", zap.Error(err))
		return nil, err
	}
	if owner == nil {
		return nil, &domain.UserNotFoundError{UserID: ownerID}
	}

	encrypted, err := s.codec.Encrypt(rawNumber)
	if err != nil {
		zap.L().Error("can't encrypt card number", zap.Error(err))
		return nil, err
	}

	exists, err := s.cardRepo.ExistsByEncryptedNumber(ctx, encrypted)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateCardError{Number: s.codec.Mask(rawNumber)}
	}

	card := &domain.Card{
		Number:          s.codec.Mask(rawNumber),
		EncryptedNumber: encrypted,
		Holder:          holder,
		ExpirationDate:  expiration,
		Status:          domain.CardStatusActive,
		Balance:         decimal.Zero,
		UserID:          ownerID,
	}

	created, err := s.cardRepo.Create(ctx, card)
	if err != nil {
		return nil, err
	}
	zap.L().Info("card created", zap.Int64("cardID", created.ID), zap.Int64("userID", ownerID))
	return created, nil
}

// Block sets the card to BLOCKED. Regular users may only block their own
// cards; administrators may block any card. Blocking an already blocked card
// is a no-op that still succeeds.
func (s *Service) Block(ctx context.Context, cardID, actorID int64) (*domain.Card, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, &domain.CardNotFoundError{CardID: cardID}
	}

	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, &domain.UserNotFoundError{UserID: actorID}
	}

	if actor.Role == domain.RoleUser && card.UserID != actorID {
		return nil, &domain.ForbiddenError{UserID: actorID, CardID: cardID, Reason: "cannot block another user's card"}
	}

	// Status-only write: a full row update here would persist the balance
	// read above, clobbering any transfer or deposit committed since.
	return s.cardRepo.UpdateStatus(ctx, cardID, domain.CardStatusBlocked)
}

// Activate sets the card to ACTIVE. Unlike Block, ownership is required
// regardless of role: administrators cannot activate someone else's card.
func (s *Service) Activate(ctx context.Context, cardID, actorID int64) (*domain.Card, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, &domain.CardNotFoundError{CardID: cardID}
	}

	if card.UserID != actorID {
		return nil, &domain.ForbiddenError{UserID: actorID, CardID: cardID, Reason: "you can only activate your own cards"}
	}

	return s.cardRepo.UpdateStatus(ctx, cardID, domain.CardStatusActive)
}

func (s *Service) GetBalance(ctx context.Context, cardID, actorID int64) (decimal.Decimal, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return decimal.Zero, err
	}
	if card == nil {
		return decimal.Zero, &domain.CardNotFoundError{CardID: cardID}
	}
	if card.UserID != actorID {
		return decimal.Zero, &domain.ForbiddenError{UserID: actorID, CardID: cardID, Reason: "you can only view balance of your own cards"}
	}
	return card.Balance, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64, page, size int) ([]domain.Card, error) {
	return s.cardRepo.FindByOwner(ctx, userID, size, page*size)
}

func (s *Service) ListAll(ctx context.Context, page, size int) ([]domain.Card, error) {
	return s.cardRepo.FindAll(ctx, size, page*size)
}

func (s *Service) Delete(ctx context.Context, cardID int64) error {
	if err := s.cardRepo.Delete(ctx, cardID); err != nil {
		return err
	}
	zap.L().Info("card deleted", zap.Int64("cardID", cardID))
	return nil
}

package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kmosolov/bankcards/internal/domain"
	"github.com/kmosolov/bankcards/pkg/auth"
	"github.com/kmosolov/bankcards/pkg/cardcrypto"
)

type UserRepo interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type CardRepo interface {
	ExistsByEncryptedNumber(ctx context.Context, encryptedNumber string) (bool, error)
	FindByOwner(ctx context.Context, userID int64, limit, offset int) ([]domain.Card, error)
	Create(ctx context.Context, card *domain.Card) (*domain.Card, error)
}

// Seeder provisions demo accounts and cards for local runs. It is the only
// path that creates cards with a non-zero starting balance.
type Seeder struct {
	userRepo    UserRepo
	cardRepo    CardRepo
	codec       *cardcrypto.Codec
	hashService auth.HashServiceInterface
}

func New(userRepo UserRepo, cardRepo CardRepo, codec *cardcrypto.Codec) *Seeder {
	return &Seeder{
		userRepo:    userRepo,
		cardRepo:    cardRepo,
		codec:       codec,
		hashService: &auth.HashService{},
	}
}

func (s *Seeder) Run(ctx context.Context) error {
	if _, err := s.ensureUser(ctx, "admin", "admin123", "admin@bank.com", domain.RoleAdmin); err != nil {
		return err
	}

	user, err := s.ensureUser(ctx, "user", "user123", "user@bank.com", domain.RoleUser)
	if err != nil {
		return err
	}

	cards, err := s.cardRepo.FindByOwner(ctx, user.ID, 1, 0)
	if err != nil {
		return err
	}
	if len(cards) > 0 {
		return nil
	}

	if err := s.createDemoCard(ctx, user, "1111222233334444", "User Test 1"); err != nil {
		return err
	}
	if err := s.createDemoCard(ctx, user, "5555666677778888", "User Test 2"); err != nil {
		return err
	}
	zap.L().Info("two demo cards created", zap.String("username", user.Username))
	return nil
}

func (s *Seeder) ensureUser(ctx context.Context, username, password, email string, role domain.Role) (*domain.User, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := s.hashService.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("can't hash demo password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("demo user created", zap.String("username", username), zap.String("role", string(role)))
	return user, nil
}

func (s *Seeder) createDemoCard(ctx context.Context, owner *domain.User, number, holder string) error {
	encrypted, err := s.codec.Encrypt(number)
	if err != nil {
		return err
	}

	exists, err := s.cardRepo.ExistsByEncryptedNumber(ctx, encrypted)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = s.cardRepo.Create(ctx, &domain.Card{
		Number:          s.codec.Mask(number),
		EncryptedNumber: encrypted,
		Holder:          holder,
		ExpirationDate:  time.Now().AddDate(2, 0, 0),
		Status:          domain.CardStatusActive,
		Balance:         decimal.NewFromInt(1000),
		UserID:          owner.ID,
	})
	return err
}

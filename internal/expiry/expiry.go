package expiry

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kmosolov/bankcards/internal/config"
	"github.com/kmosolov/bankcards/internal/domain"
)

const sweepLimit = 1000

type CardRepo interface {
	FindExpired(ctx context.Context, asOf time.Time, limit uint32) ([]domain.Card, error)
	MarkExpired(ctx context.Context, id int64) error
}

// Service is the time-based process that moves past-date cards into the
// terminal EXPIRED status. No user-facing operation performs this transition.
type Service struct {
	cardRepo      CardRepo
	limit         uint32
	workerPool    WorkerPoolI
	sweepInterval time.Duration

	processing sync.Map
}

func New(cfg *config.Config, cardRepo CardRepo) *Service {
	return &Service{
		cardRepo:      cardRepo,
		limit:         sweepLimit,
		workerPool:    NewWorkerPool(10),
		sweepInterval: cfg.ExpiryInterval,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("card expiry sweeper started", zap.Duration("interval", s.sweepInterval))
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("context canceled, stopping expiry sweeper")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	cards, err := s.cardRepo.FindExpired(ctx, time.Now(), s.limit)
	if err != nil {
		zap.L().Error("failed to fetch expired cards", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, card := range cards {
		card := card

		if _, loaded := s.processing.LoadOrStore(card.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer s.processing.Delete(card.ID)
				return s.expireCard(ctx, card)
			})
			if err != nil {
				s.processing.Delete(card.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("error sweeping expired cards", zap.Error(err))
	}
}

func (s *Service) expireCard(ctx context.Context, card domain.Card) error {
	if err := s.cardRepo.MarkExpired(ctx, card.ID); err != nil {
		return err
	}
	zap.L().Info("card expired",
		zap.Int64("cardID", card.ID),
		zap.Time("expirationDate", card.ExpirationDate))
	return nil
}

package expiry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/kmosolov/bankcards/internal/config"
	"github.com/kmosolov/bankcards/internal/domain"
)

func NewTestService(t *testing.T) (*Service, *MockCardRepo) {
	ctrl := gomock.NewController(t)
	cardRepo := NewMockCardRepo(ctrl)
	service := New(&config.Config{ExpiryInterval: time.Hour}, cardRepo)
	defer ctrl.Finish()
	return service, cardRepo
}

func TestSweep(t *testing.T) {
	service, cardRepo := NewTestService(t)

	cards := []domain.Card{
		{ID: 1, Status: domain.CardStatusActive, ExpirationDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Status: domain.CardStatusBlocked, ExpirationDate: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	var wg sync.WaitGroup
	wg.Add(len(cards))

	cardRepo.EXPECT().FindExpired(gomock.Any(), gomock.Any(), uint32(sweepLimit)).Return(cards, nil)
	cardRepo.EXPECT().MarkExpired(gomock.Any(), int64(1)).DoAndReturn(func(context.Context, int64) error {
		wg.Done()
		return nil
	})
	cardRepo.EXPECT().MarkExpired(gomock.Any(), int64(2)).DoAndReturn(func(context.Context, int64) error {
		wg.Done()
		return nil
	})

	service.sweep(context.Background())
	wg.Wait()
}

func TestSweepSkipsCardsAlreadyInFlight(t *testing.T) {
	service, cardRepo := NewTestService(t)

	cards := []domain.Card{
		{ID: 1, Status: domain.CardStatusActive, ExpirationDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	service.processing.Store(int64(1), struct{}{})

	cardRepo.EXPECT().FindExpired(gomock.Any(), gomock.Any(), uint32(sweepLimit)).Return(cards, nil)
	// no MarkExpired expectation: the card is already being processed

	service.sweep(context.Background())
}

func TestSweepFetchError(t *testing.T) {
	service, cardRepo := NewTestService(t)

	cardRepo.EXPECT().FindExpired(gomock.Any(), gomock.Any(), uint32(sweepLimit)).
		Return(nil, errors.New("database error"))

	service.sweep(context.Background())
}

func TestExpireCard(t *testing.T) {
	service, cardRepo := NewTestService(t)
	card := domain.Card{ID: 1, ExpirationDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name        string
		prepareMock func()
		expectErr   bool
	}{
		{
			name: "Card marked expired",
			prepareMock: func() {
				cardRepo.EXPECT().MarkExpired(gomock.Any(), int64(1)).Return(nil)
			},
		},
		{
			name: "Repo error is propagated",
			prepareMock: func() {
				cardRepo.EXPECT().MarkExpired(gomock.Any(), int64(1)).Return(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			err := service.expireCard(context.Background(), card)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

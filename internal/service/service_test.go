package service

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/kmosolov/bankcards/internal/pg"
	"github.com/kmosolov/bankcards/internal/repo"
	"github.com/kmosolov/bankcards/pkg/cardcrypto"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	txManager := pg.NewMockTXManager(ctrl)
	repos := repo.New(mockDB, txManager)

	codec, err := cardcrypto.New([]byte("1234567890123456"))
	require.NoError(t, err)

	services := New(repos, codec, txManager)

	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.CardService)
	assert.NotNil(t, services.LedgerService)
}

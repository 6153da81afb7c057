package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	_ "github.com/kmosolov/bankcards/docs"
	authhandlers "github.com/kmosolov/bankcards/internal/handlers/auth"
	cardhandlers "github.com/kmosolov/bankcards/internal/handlers/cards"
	"github.com/kmosolov/bankcards/internal/service"
	"github.com/kmosolov/bankcards/pkg/auth"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services := &service.Services{
		AuthService:   authhandlers.NewMockService(ctrl),
		CardService:   cardhandlers.NewMockCardService(ctrl),
		LedgerService: cardhandlers.NewMockLedgerService(ctrl),
	}

	h := New(services)
	assert.NotNil(t, h, "Handlers should not be nil")
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockCardHandler := NewMockCardHandler(ctrl)

	mockAuthHandler.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	mockCardHandler.EXPECT().ListMine(gomock.Any(), gomock.Any()).AnyTimes()
	mockCardHandler.EXPECT().ListAll(gomock.Any(), gomock.Any()).AnyTimes()
	mockCardHandler.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes()
	mockCardHandler.EXPECT().Block(gomock.Any(), gomock.Any()).AnyTimes()
	mockCardHandler.EXPECT().Activate(gomock.Any(), gomock.Any()).AnyTimes()
	mockCardHandler.EXPECT().GetBalance(gomock.Any(), gomock.Any()).AnyTimes()
	mockCardHandler.EXPECT().Delete(gomock.Any(), gomock.Any()).AnyTimes()
	mockCardHandler.EXPECT().Deposit(gomock.Any(), gomock.Any()).AnyTimes()
	mockCardHandler.EXPECT().Transfer(gomock.Any(), gomock.Any()).AnyTimes()
	mockCardHandler.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).AnyTimes()

	h := &Handlers{
		AuthHandler: mockAuthHandler,
		CardHandler: mockCardHandler,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	jwtService := &auth.JWTService{}
	expiration := time.Now().Add(time.Hour)
	userToken, err := jwtService.GenerateJWT(1, "USER", expiration)
	require.NoError(t, err)
	adminToken, err := jwtService.GenerateJWT(2, "ADMIN", expiration)
	require.NoError(t, err)

	tests := []struct {
		method string
		url    string
		token  string
		status int
	}{
		{"POST", "/api/auth/register", "", http.StatusOK},
		{"POST", "/api/auth/login", "", http.StatusOK},

		{"GET", "/api/cards", "", http.StatusUnauthorized},
		{"POST", "/api/cards/transfer", "", http.StatusUnauthorized},
		{"GET", "/api/cards/1/balance", "", http.StatusUnauthorized},

		{"GET", "/api/cards", userToken, http.StatusOK},
		{"POST", "/api/cards/transfer", userToken, http.StatusOK},
		{"POST", "/api/cards/1/block", userToken, http.StatusOK},
		{"POST", "/api/cards/1/activate", userToken, http.StatusOK},
		{"GET", "/api/cards/1/balance", userToken, http.StatusOK},
		{"GET", "/api/cards/1/transactions", userToken, http.StatusOK},

		{"POST", "/api/cards", userToken, http.StatusForbidden},
		{"GET", "/api/cards/all", userToken, http.StatusForbidden},
		{"DELETE", "/api/cards/1", userToken, http.StatusForbidden},
		{"POST", "/api/cards/1/deposit", userToken, http.StatusForbidden},

		{"POST", "/api/cards", adminToken, http.StatusOK},
		{"GET", "/api/cards/all", adminToken, http.StatusOK},
		{"DELETE", "/api/cards/1", adminToken, http.StatusOK},
		{"POST", "/api/cards/1/deposit", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

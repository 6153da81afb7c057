package service

import (
	authhandlers "github.com/kmosolov/bankcards/internal/handlers/auth"
	cardhandlers "github.com/kmosolov/bankcards/internal/handlers/cards"
	"github.com/kmosolov/bankcards/internal/pg"
	"github.com/kmosolov/bankcards/internal/repo"
	"github.com/kmosolov/bankcards/internal/service/authservice"
	"github.com/kmosolov/bankcards/internal/service/cardservice"
	"github.com/kmosolov/bankcards/internal/service/ledgerservice"
	pkgauth "github.com/kmosolov/bankcards/pkg/auth"
	"github.com/kmosolov/bankcards/pkg/cardcrypto"
)

type Services struct {
	AuthService   authhandlers.Service
	CardService   cardhandlers.CardService
	LedgerService cardhandlers.LedgerService
}

func New(repo *repo.Repositories, codec *cardcrypto.Codec, txManager pg.TXManager) *Services {
	authService := authservice.New(repo.UserRepo, &pkgauth.HashService{}, &pkgauth.JWTService{})
	cardService := cardservice.New(repo.CardRepo, repo.UserRepo, codec)
	ledgerService := ledgerservice.New(repo.CardRepo, repo.TransactionRepo, txManager)

	return &Services{
		AuthService:   authService,
		CardService:   cardService,
		LedgerService: ledgerService,
	}
}

package repo

import (
	"github.com/kmosolov/bankcards/internal/pg"
	cardrepo "github.com/kmosolov/bankcards/internal/repo/card-repo"
	transactionrepo "github.com/kmosolov/bankcards/internal/repo/transaction-repo"
	userrepo "github.com/kmosolov/bankcards/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo        *userrepo.Repository
	CardRepo        *cardrepo.Repository
	TransactionRepo *transactionrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:        userrepo.New(conn),
		CardRepo:        cardrepo.New(conn, txManager),
		TransactionRepo: transactionrepo.New(conn),
	}
}

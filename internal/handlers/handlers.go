package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/kmosolov/bankcards/docs"
	authhandlers "github.com/kmosolov/bankcards/internal/handlers/auth"
	cardhandlers "github.com/kmosolov/bankcards/internal/handlers/cards"
	"github.com/kmosolov/bankcards/internal/service"
	"github.com/kmosolov/bankcards/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type CardHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Block(w http.ResponseWriter, r *http.Request)
	Activate(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Deposit(w http.ResponseWriter, r *http.Request)
	Transfer(w http.ResponseWriter, r *http.Request)
	ListTransactions(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler AuthHandler
	CardHandler CardHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler: authhandlers.New(s.AuthService),
		CardHandler: cardhandlers.New(s.CardService, s.LedgerService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Use(auth.AuthMiddleware)

			r.Get("/", h.CardHandler.ListMine)
			r.Post("/transfer", h.CardHandler.Transfer)
			r.With(auth.RequireAdmin).Post("/", h.CardHandler.Create)
			r.With(auth.RequireAdmin).Get("/all", h.CardHandler.ListAll)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/block", h.CardHandler.Block)
				r.Post("/activate", h.CardHandler.Activate)
				r.Get("/balance", h.CardHandler.GetBalance)
				r.Get("/transactions", h.CardHandler.ListTransactions)
				r.With(auth.RequireAdmin).Delete("/", h.CardHandler.Delete)
				r.With(auth.RequireAdmin).Post("/deposit", h.CardHandler.Deposit)
			})
		})
	})

	return r
}

package cards

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kmosolov/bankcards/internal/domain"
	"github.com/kmosolov/bankcards/internal/dto"
	"github.com/kmosolov/bankcards/pkg/auth"
	"github.com/kmosolov/bankcards/pkg/utils"
	"github.com/kmosolov/bankcards/pkg/validate"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	dateLayout      = "2006-01-02"
)

type CardService interface {
	Create(ctx context.Context, rawNumber, holder string, expiration time.Time, ownerID int64) (*domain.Card, error)
	Block(ctx context.Context, cardID, actorID int64) (*domain.Card, error)
	Activate(ctx context.Context, cardID, actorID int64) (*domain.Card, error)
	GetBalance(ctx context.Context, cardID, actorID int64) (decimal.Decimal, error)
	ListMine(ctx context.Context, userID int64, page, size int) ([]domain.Card, error)
	ListAll(ctx context.Context, page, size int) ([]domain.Card, error)
	Delete(ctx context.Context, cardID int64) error
}

type LedgerService interface {
	Deposit(ctx context.Context, cardID int64, amount decimal.Decimal) (*domain.Card, error)
	Transfer(ctx context.Context, actorID, fromCardID, toCardID int64, amount decimal.Decimal) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, cardID, actorID int64) ([]domain.Transaction, error)
}

type CardHandler struct {
	cardService   CardService
	ledgerService LedgerService
}

func New(cardService CardService, ledgerService LedgerService) *CardHandler {
	return &CardHandler{
		cardService:   cardService,
		ledgerService: ledgerService,
	}
}

// ListMine godoc
//
//	@Summary		List own cards
//	@Description	Paginated list of cards owned by the authenticated user
//	@Tags			Cards
//	@Security		BearerAuth
//	@Produce		json
//	@Param			page	query		int	false	"Page number (0-based)"
//	@Param			size	query		int	false	"Page size"
//	@Success		200		{array}		dto.CardResponseDTO
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/cards [get]
func (h *CardHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)
	page, size := parsePagination(r)

	cards, err := h.cardService.ListMine(r.Context(), userID, page, size)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toCardDTOs(cards))
}

// ListAll godoc
//
//	@Summary		List all cards
//	@Description	Paginated list of every card in the system, administrators only
//	@Tags			Cards
//	@Security		BearerAuth
//	@Produce		json
//	@Param			page	query		int	false	"Page number (0-based)"
//	@Param			size	query		int	false	"Page size"
//	@Success		200		{array}		dto.CardResponseDTO
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Administrator role required"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/cards/all [get]
func (h *CardHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r)

	cards, err := h.cardService.ListAll(r.Context(), page, size)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toCardDTOs(cards))
}

// Create godoc
//
//	@Summary		Create a card
//	@Description	Provision a new card for a user, administrators only
//	@Tags			Cards
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateCardRequestDTO	true	"Card creation payload"
//	@Success		200		{object}	dto.CardResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		404		{object}	utils.Response	"Owner not found"
//	@Failure		409		{object}	utils.Response	"Card number already exists"
//	@Failure		422		{object}	utils.Response	"Invalid card number or expiration date"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/cards [post]
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCardRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Holder == "" || req.UserID == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Holder and user_id are required")
		return
	}
	if !validate.IsCardNumber(req.Number) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid card number")
		return
	}
	expiration, err := time.Parse(dateLayout, req.ExpirationDate)
	if err != nil || !expiration.After(time.Now()) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Expiration date must be a future date in YYYY-MM-DD format")
		return
	}

	card, err := h.cardService.Create(r.Context(), req.Number, req.Holder, expiration, req.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toCardDTO(card))
}

// Block godoc
//
//	@Summary		Block a card
//	@Description	Set the card status to BLOCKED. Users may block only their own cards, administrators any card.
//	@Tags			Cards
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Card id"
//	@Success		200	{object}	dto.CardResponseDTO
//	@Failure		403	{object}	utils.Response	"Not the card owner"
//	@Failure		404	{object}	utils.Response	"Card or user not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/cards/{id}/block [post]
func (h *CardHandler) Block(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)
	cardID, ok := parseCardID(w, r)
	if !ok {
		return
	}

	card, err := h.cardService.Block(r.Context(), cardID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toCardDTO(card))
}

// Activate godoc
//
//	@Summary		Activate a card
//	@Description	Set the card status to ACTIVE. Ownership is required for everyone, administrators included.
//	@Tags			Cards
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Card id"
//	@Success		200	{object}	dto.CardResponseDTO
//	@Failure		403	{object}	utils.Response	"Not the card owner"
//	@Failure		404	{object}	utils.Response	"Card not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/cards/{id}/activate [post]
func (h *CardHandler) Activate(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)
	cardID, ok := parseCardID(w, r)
	if !ok {
		return
	}

	card, err := h.cardService.Activate(r.Context(), cardID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toCardDTO(card))
}

// GetBalance godoc
//
//	@Summary		Get card balance
//	@Description	Current balance of an owned card
//	@Tags			Cards
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Card id"
//	@Success		200	{object}	dto.BalanceResponseDTO
//	@Failure		403	{object}	utils.Response	"Not the card owner"
//	@Failure		404	{object}	utils.Response	"Card not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/cards/{id}/balance [get]
func (h *CardHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)
	cardID, ok := parseCardID(w, r)
	if !ok {
		return
	}

	balance, err := h.cardService.GetBalance(r.Context(), cardID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{Balance: balance})
}

// Delete godoc
//
//	@Summary		Delete a card
//	@Description	Hard-delete a card, administrators only
//	@Tags			Cards
//	@Security		BearerAuth
//	@Param			id	path	int	true	"Card id"
//	@Success		204
//	@Failure		403	{object}	utils.Response	"Administrator role required"
//	@Failure		404	{object}	utils.Response	"Card not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/cards/{id} [delete]
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cardID, ok := parseCardID(w, r)
	if !ok {
		return
	}

	if err := h.cardService.Delete(r.Context(), cardID); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusNoContent, nil)
}

// Deposit godoc
//
//	@Summary		Deposit to a card
//	@Description	Add funds to a card, administrators only. Fails on BLOCKED or EXPIRED cards.
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Card id"
//	@Param			request	body		dto.DepositRequestDTO	true	"Deposit payload"
//	@Success		200		{object}	dto.CardResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		404		{object}	utils.Response	"Card not found"
//	@Failure		409		{object}	utils.Response	"Card is blocked or expired"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/cards/{id}/deposit [post]
func (h *CardHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	cardID, ok := parseCardID(w, r)
	if !ok {
		return
	}

	var req dto.DepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Amount.IsPositive() {
		utils.RespondWithError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	card, err := h.ledgerService.Deposit(r.Context(), cardID, req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toCardDTO(card))
}

// Transfer godoc
//
//	@Summary		Transfer between own cards
//	@Description	Atomically move funds between two cards owned by the authenticated user
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.TransferRequestDTO	true	"Transfer payload"
//	@Success		200		{object}	dto.TransferResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount or card pair"
//	@Failure		402		{object}	utils.Response	"Insufficient funds"
//	@Failure		403		{object}	utils.Response	"Not the owner of both cards"
//	@Failure		404		{object}	utils.Response	"Card not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/cards/transfer [post]
func (h *CardHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)

	var req dto.TransferRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Amount.IsPositive() {
		utils.RespondWithError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	txn, err := h.ledgerService.Transfer(r.Context(), userID, req.FromCardID, req.ToCardID, req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.TransferResponseDTO{
		TransactionID: txn.ID,
		Amount:        txn.Amount,
		FromCardID:    txn.FromCardID,
		ToCardID:      txn.ToCardID,
		Timestamp:     txn.Timestamp,
	})
}

// ListTransactions godoc
//
//	@Summary		List card transfers
//	@Description	Transfer history touching an owned card, newest first
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Card id"
//	@Success		200	{array}		dto.TransactionResponseDTO
//	@Failure		403	{object}	utils.Response	"Not the card owner"
//	@Failure		404	{object}	utils.Response	"Card not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/cards/{id}/transactions [get]
func (h *CardHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)
	cardID, ok := parseCardID(w, r)
	if !ok {
		return
	}

	txns, err := h.ledgerService.ListTransactions(r.Context(), cardID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response := make([]dto.TransactionResponseDTO, len(txns))
	for i, txn := range txns {
		response[i] = dto.TransactionResponseDTO{
			ID:         txn.ID,
			Type:       string(txn.Type),
			Amount:     txn.Amount,
			FromCardID: txn.FromCardID,
			ToCardID:   txn.ToCardID,
			Timestamp:  txn.Timestamp,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func parseCardID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	cardID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || cardID <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid card id")
		return 0, false
	}
	return cardID, true
}

func parsePagination(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func toCardDTO(card *domain.Card) dto.CardResponseDTO {
	return dto.CardResponseDTO{
		ID:             card.ID,
		Number:         card.Number,
		Holder:         card.Holder,
		ExpirationDate: card.ExpirationDate.Format(dateLayout),
		Status:         string(card.Status),
		Balance:        card.Balance,
		UserID:         card.UserID,
	}
}

func toCardDTOs(cards []domain.Card) []dto.CardResponseDTO {
	response := make([]dto.CardResponseDTO, len(cards))
	for i := range cards {
		response[i] = toCardDTO(&cards[i])
	}
	return response
}

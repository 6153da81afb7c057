package cards

import (
	"errors"
	"net/http"

	"github.com/kmosolov/bankcards/internal/domain"
	"github.com/kmosolov/bankcards/internal/service/ledgerservice"
	"github.com/kmosolov/bankcards/pkg/utils"
)

// respondServiceError maps the business error taxonomy onto HTTP statuses.
// Business errors are terminal, so their messages go to the client verbatim.
func respondServiceError(w http.ResponseWriter, err error) {
	var (
		cardNotFound      *domain.CardNotFoundError
		userNotFound      *domain.UserNotFoundError
		duplicate         *domain.DuplicateCardError
		forbidden         *domain.ForbiddenError
		invalidState      *domain.InvalidCardStateError
		insufficientFunds *domain.InsufficientFundsError
	)

	switch {
	case errors.As(err, &cardNotFound), errors.As(err, &userNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &duplicate):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.As(err, &forbidden):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &invalidState):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.As(err, &insufficientFunds):
		utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, ledgerservice.ErrInvalidAmount), errors.Is(err, ledgerservice.ErrSameCard):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

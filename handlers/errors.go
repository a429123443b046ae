package handlers

import (
	"errors"
	"net/http"

	"github.com/ferreirogomes/quinhao/services"
)

// statusForError mapeia a taxonomia de erros dos serviços para códigos HTTP.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidPublicKey),
		errors.Is(err, services.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAssetNotFound),
		errors.Is(err, services.ErrAuctionNotFound),
		errors.Is(err, services.ErrLedgerNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrBidTooLow),
		errors.Is(err, services.ErrAuctionEnded),
		errors.Is(err, services.ErrAuctionStillActive),
		errors.Is(err, services.ErrAlreadySettled),
		errors.Is(err, services.ErrAlreadyRegistered),
		errors.Is(err, services.ErrAssetAlreadyMinted),
		errors.Is(err, services.ErrInsufficientBalance):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

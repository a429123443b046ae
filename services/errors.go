package services

import "errors"

// Erros sinalizados pelas operações do ledger de frações e do motor de
// leilões. Toda falha é síncrona e aborta a operação inteira, sem mudança
// parcial de estado. As mensagens dos erros de leilão e de registro espelham
// as razões de reversão do contrato original.
var (
	ErrUnauthorized        = errors.New("somente o dono do ledger pode emitir frações")
	ErrAssetAlreadyMinted  = errors.New("ativo já emitido; o total de frações é fixado na emissão")
	ErrAssetNotFound       = errors.New("ativo não encontrado")
	ErrInsufficientBalance = errors.New("saldo de frações insuficiente")
	ErrNotAuthorized       = errors.New("operador não autorizado a transferir frações deste titular")

	ErrInvalidQuantity = errors.New("a quantidade de frações deve ser maior que zero")

	ErrAuctionNotFound    = errors.New("leilão não encontrado")
	ErrAuctionEnded       = errors.New("Auction has ended.")
	ErrBidTooLow          = errors.New("Bid must be higher than current highest bid.")
	ErrAuctionStillActive = errors.New("leilão ainda em andamento")
	ErrAlreadySettled     = errors.New("leilão já liquidado")

	ErrInvalidPublicKey = errors.New("chave pública inválida")

	ErrAlreadyRegistered = errors.New("Already deployed")
	ErrLedgerNotFound    = errors.New("nenhum ledger registrado para esta identidade")
)

package handler

import (
	"pokeswap/internal/usecase"
)

var (
	authHandler   *AuthHandler
	cardHandler   *CardHandler
	tradeHandler  *TradeHandler
	shareHandler  *ShareHandler
	healthHandler *HealthHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	collectionUseCase *usecase.CollectionUseCase,
	tradeUseCase *usecase.TradeUseCase,
	shareUseCase *usecase.ShareUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	cardHandler = NewCardHandler(collectionUseCase)
	tradeHandler = NewTradeHandler(tradeUseCase)
	shareHandler = NewShareHandler(shareUseCase)
	healthHandler = NewHealthHandler()
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetCardHandler() *CardHandler {
	return cardHandler
}

func GetTradeHandler() *TradeHandler {
	return tradeHandler
}

func GetShareHandler() *ShareHandler {
	return shareHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

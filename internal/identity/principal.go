package identity

import (
	"context"
	"errors"
)

// Principal - пользователь хостинг-провайдера авторизации
type Principal struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
}

// Verifier проверяет токен провайдера и возвращает принципала
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

var ErrInvalidToken = errors.New("invalid token")

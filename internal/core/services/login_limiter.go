package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
)

// LoginLimiter aplica a política de tentativas de login sobre um dos dois
// backends intercambiáveis (memória de processo ou contador compartilhado).
// A política é fail-closed: identificador ausente ou backend indisponível
// contam como bloqueio.
type LoginLimiter struct {
	store ports.LoginAttemptStore
}

func NewLoginLimiter(store ports.LoginAttemptStore) (*LoginLimiter, error) {
	if store == nil {
		return nil, fmt.Errorf("login attempt store is required")
	}
	return &LoginLimiter{store: store}, nil
}

// IsLocked responde se o identificador está bloqueado agora. Em caso de erro
// do backend a resposta é "bloqueado" e o erro sobe intocado para o log do
// chamador.
func (l *LoginLimiter) IsLocked(ctx context.Context, identifier string, now time.Time) (bool, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || identifier == domain.UnknownIdentifier {
		return true, domain.ErrMissingIdentifier
	}
	locked, err := l.store.IsLocked(ctx, identifier, now)
	if err != nil {
		return true, err
	}
	return locked, nil
}

// RegisterFailure contabiliza uma tentativa malsucedida.
func (l *LoginLimiter) RegisterFailure(ctx context.Context, identifier string, now time.Time) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || identifier == domain.UnknownIdentifier {
		return domain.ErrMissingIdentifier
	}
	return l.store.RegisterFailure(ctx, identifier, now)
}

// Reset zera o estado do identificador; deve ser chamado em toda
// autenticação bem-sucedida.
func (l *LoginLimiter) Reset(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || identifier == domain.UnknownIdentifier {
		return domain.ErrMissingIdentifier
	}
	return l.store.Reset(ctx, identifier)
}

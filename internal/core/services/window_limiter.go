package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
)

// WindowLimiter avalia janelas fixas por (escopo, identificador) sobre um
// armazenamento injetado. Escopos são isolados entre si: esgotar um escopo
// não afeta contadores de outro para o mesmo identificador.
type WindowLimiter struct {
	store ports.WindowStore
}

func NewWindowLimiter(store ports.WindowStore) (*WindowLimiter, error) {
	if store == nil {
		return nil, fmt.Errorf("window store is required")
	}
	return &WindowLimiter{store: store}, nil
}

// Check registra a requisição e decide em uma única operação lógica.
// Identificador ausente ou sentinela é negação imediata: omitir o endereço
// não pode contornar o limitador.
func (l *WindowLimiter) Check(scope, identifier string, maxRequests int, window time.Duration, now time.Time) (domain.WindowDecision, error) {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return domain.WindowDecision{}, fmt.Errorf("scope is required")
	}
	if maxRequests <= 0 || window <= 0 {
		return domain.WindowDecision{}, fmt.Errorf("max requests and window must be positive")
	}

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || identifier == domain.UnknownIdentifier {
		return domain.WindowDecision{Scope: scope}, domain.ErrMissingIdentifier
	}

	count, windowStart, err := l.store.Increment(scope, identifier, window, now)
	if err != nil {
		if errors.Is(err, ports.ErrWindowStoreFull) {
			return domain.WindowDecision{Scope: scope}, domain.ErrWindowExceeded
		}
		return domain.WindowDecision{}, err
	}

	decision := domain.WindowDecision{
		Allowed:   count <= maxRequests,
		Scope:     scope,
		Count:     count,
		Remaining: maxRequests - count,
		ResetAt:   windowStart.Add(window),
	}
	if decision.Remaining < 0 {
		decision.Remaining = 0
	}
	if !decision.Allowed {
		return decision, domain.ErrWindowExceeded
	}
	return decision, nil
}

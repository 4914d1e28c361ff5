// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"context"
	"errors"
	"time"
)

// ErrWindowStoreFull sinaliza que o armazenamento de janelas atingiu sua
// capacidade mesmo após a varredura de entradas expiradas. Os chamadores
// tratam isso como negação, nunca como falha de infraestrutura.
var ErrWindowStoreFull = errors.New("window store is at capacity")

// LoginAttemptStore é o contrato único dos dois backends do limitador de
// login (memória de processo e contador compartilhado). O backend é
// escolhido uma vez na inicialização.
type LoginAttemptStore interface {
	IsLocked(ctx context.Context, identifier string, now time.Time) (bool, error)
	RegisterFailure(ctx context.Context, identifier string, now time.Time) error
	Reset(ctx context.Context, identifier string) error
}

// WindowStore mantém contadores de janela fixa por (escopo, identificador).
// A incrementação é uma única operação atômica do ponto de vista de outros
// chamadores. Implementações são estritamente locais ao processo.
type WindowStore interface {
	// Increment registra uma requisição e devolve a contagem corrente da
	// janela e o seu início. Devolve ErrWindowStoreFull quando não há espaço
	// nem após varrer entradas expiradas.
	Increment(scope, identifier string, window time.Duration, now time.Time) (count int, windowStart time.Time, err error)
	// Reset limpa todas as entradas; existe para testes.
	Reset()
}

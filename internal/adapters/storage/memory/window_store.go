// Package memory disponibiliza os armazenamentos locais de processo usados
// pelos limitadores. Uma única instância é criada na inicialização e
// compartilhada por todas as requisições.
package memory

import (
	"sync"
	"time"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
)

// DefaultWindowStoreCapacity limita a memória sob carga sustentada de
// identificadores distintos (ex.: scraping com rotação de endereços).
const DefaultWindowStoreCapacity = 10000

type windowEntry struct {
	windowStart time.Time
	window      time.Duration
	count       int
}

func (e *windowEntry) expired(now time.Time) bool {
	return now.Sub(e.windowStart) >= e.window
}

type windowKey struct {
	scope      string
	identifier string
}

// WindowStore guarda contadores de janela fixa por (escopo, identificador)
// em um mapa único protegido por mutex. Quando a capacidade é atingida, uma
// varredura remove entradas expiradas antes de a inserção poder falhar.
type WindowStore struct {
	mu       sync.Mutex
	entries  map[windowKey]*windowEntry
	capacity int
}

var _ ports.WindowStore = (*WindowStore)(nil)

func NewWindowStore(capacity int) *WindowStore {
	if capacity <= 0 {
		capacity = DefaultWindowStoreCapacity
	}
	return &WindowStore{
		entries:  make(map[windowKey]*windowEntry),
		capacity: capacity,
	}
}

func (s *WindowStore) Increment(scope, identifier string, window time.Duration, now time.Time) (int, time.Time, error) {
	key := windowKey{scope: scope, identifier: identifier}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok {
		if !entry.expired(now) {
			entry.count++
			return entry.count, entry.windowStart, nil
		}
		// Janela vencida: reancora no agora.
		entry.windowStart = now
		entry.window = window
		entry.count = 1
		return 1, now, nil
	}

	if len(s.entries) >= s.capacity {
		s.sweepLocked(now)
		if len(s.entries) >= s.capacity {
			return 0, time.Time{}, ports.ErrWindowStoreFull
		}
	}

	s.entries[key] = &windowEntry{windowStart: now, window: window, count: 1}
	return 1, now, nil
}

// Reset limpa todas as entradas; existe para testes.
func (s *WindowStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[windowKey]*windowEntry)
}

// Len devolve o número corrente de entradas; existe para testes.
func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *WindowStore) sweepLocked(now time.Time) {
	for key, entry := range s.entries {
		if entry.expired(now) {
			delete(s.entries, key)
		}
	}
}

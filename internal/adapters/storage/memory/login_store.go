package memory

import (
	"context"
	"sync"
	"time"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
)

type attemptState struct {
	attempts      int
	windowStartAt time.Time
	lockedUntil   time.Time
}

// LoginStore é o backend de tentativas de login local ao processo. Implementa
// a máquina de três fases: OPEN acumula falhas, LOCKED ao atingir o máximo,
// volta a OPEN quando o bloqueio expira; falhas também zeram quando a janela
// de tentativas vence sem atingir o máximo.
type LoginStore struct {
	mu           sync.Mutex
	states       map[string]*attemptState
	maxAttempts  int
	window       time.Duration
	lockDuration time.Duration
}

var _ ports.LoginAttemptStore = (*LoginStore)(nil)

func NewLoginStore(maxAttempts int, window, lockDuration time.Duration) *LoginStore {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	if lockDuration <= 0 {
		lockDuration = 15 * time.Minute
	}
	return &LoginStore{
		states:       make(map[string]*attemptState),
		maxAttempts:  maxAttempts,
		window:       window,
		lockDuration: lockDuration,
	}
}

func (s *LoginStore) IsLocked(_ context.Context, identifier string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[identifier]
	if !ok {
		return false, nil
	}
	if !state.lockedUntil.IsZero() {
		if now.Before(state.lockedUntil) {
			return true, nil
		}
		// Bloqueio vencido: a próxima tentativa é avaliada normalmente.
		delete(s.states, identifier)
		return false, nil
	}
	if now.Sub(state.windowStartAt) > s.window {
		delete(s.states, identifier)
	}
	return false, nil
}

func (s *LoginStore) RegisterFailure(_ context.Context, identifier string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[identifier]
	if !ok || (state.lockedUntil.IsZero() && now.Sub(state.windowStartAt) > s.window) ||
		(!state.lockedUntil.IsZero() && !now.Before(state.lockedUntil)) {
		state = &attemptState{windowStartAt: now}
		s.states[identifier] = state
	}

	state.attempts++
	if state.attempts >= s.maxAttempts {
		state.lockedUntil = now.Add(s.lockDuration)
	}
	return nil
}

func (s *LoginStore) Reset(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, identifier)
	return nil
}

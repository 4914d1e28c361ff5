// Package redis disponibiliza o backend compartilhado do limitador de login,
// para implantações com mais de uma instância.
package redis

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
)

// LoginStore mantém o contador de falhas e a marca de bloqueio em chaves
// separadas: o contador expira com a janela de tentativas, a marca com a
// duração do bloqueio.
type LoginStore struct {
	client       *redis.Client
	maxAttempts  int
	window       time.Duration
	lockDuration time.Duration
}

var _ ports.LoginAttemptStore = (*LoginStore)(nil)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config, maxAttempts int, window, lockDuration time.Duration) (*LoginStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	if maxAttempts <= 0 || window <= 0 || lockDuration <= 0 {
		return nil, fmt.Errorf("login limiter settings must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &LoginStore{
		client:       client,
		maxAttempts:  maxAttempts,
		window:       window,
		lockDuration: lockDuration,
	}, nil
}

func (s *LoginStore) Close() error {
	return s.client.Close()
}

func (s *LoginStore) IsLocked(ctx context.Context, identifier string, _ time.Time) (bool, error) {
	exists, err := s.client.Exists(ctx, lockKey(identifier)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *LoginStore) RegisterFailure(ctx context.Context, identifier string, _ time.Time) error {
	pipe := s.client.TxPipeline()
	counter := pipe.Incr(ctx, attemptsKey(identifier))
	pipe.Expire(ctx, attemptsKey(identifier), s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if counter.Val() >= int64(s.maxAttempts) {
		pipe = s.client.TxPipeline()
		pipe.Set(ctx, lockKey(identifier), "1", s.lockDuration)
		pipe.Del(ctx, attemptsKey(identifier))
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *LoginStore) Reset(ctx context.Context, identifier string) error {
	return s.client.Del(ctx, attemptsKey(identifier), lockKey(identifier)).Err()
}

func attemptsKey(identifier string) string {
	return fmt.Sprintf("login:attempts:%s", identifier)
}

func lockKey(identifier string) string {
	return fmt.Sprintf("login:lock:%s", identifier)
}

package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
)

const (
	sessionSubject = "admin"
	// DefaultSessionLifetime é a validade padrão de uma sessão administrativa.
	DefaultSessionLifetime = 12 * time.Hour

	sessionCookieName     = "admin_session"
	sessionCookieNameProd = "__Host-admin_session"
)

// SessionTokens emite e verifica tokens de sessão administrativa no formato
// <payload>.<assinatura>, ambos em base64url, assinados com HMAC-SHA256.
type SessionTokens struct {
	secret     []byte
	lifetime   time.Duration
	production bool
	now        func() time.Time
}

func NewSessionTokens(secret string, lifetime time.Duration, production bool) (*SessionTokens, error) {
	secret = strings.TrimSpace(secret)
	if len(secret) < minSaltLength {
		if production {
			return nil, fmt.Errorf("session secret must have at least %d characters", minSaltLength)
		}
		log.Printf("session tokens: secret too short, using development fallback")
		secret = devSaltFallback
	}
	if lifetime <= 0 {
		lifetime = DefaultSessionLifetime
	}
	return &SessionTokens{secret: []byte(secret), lifetime: lifetime, production: production, now: time.Now}, nil
}

// WithClock troca a fonte de tempo; existe para testes.
func (s *SessionTokens) WithClock(now func() time.Time) *SessionTokens {
	s.now = now
	return s
}

// Create emite um token de sessão para o sujeito fixo "admin".
func (s *SessionTokens) Create() (string, error) {
	issued := s.now()
	payload := domain.SessionPayload{
		Subject:   sessionSubject,
		IssuedAt:  issued.Unix(),
		ExpiresAt: issued.Add(s.lifetime).Unix(),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode session payload: %w", err)
	}
	encodedPayload := base64.RawURLEncoding.EncodeToString(encoded)
	signature := s.sign(encodedPayload)
	return encodedPayload + "." + signature, nil
}

// Verify devolve o payload da sessão ou nil. Toda rejeição é logada como
// evento de segurança com o motivo interno; o chamador só vê nil,
// independentemente de qual checagem falhou.
func (s *SessionTokens) Verify(token string) *domain.SessionPayload {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		log.Printf("session token rejected: wrong segment count")
		return nil
	}
	encodedPayload, signature := parts[0], parts[1]

	raw, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		log.Printf("session token rejected: undecodable payload")
		return nil
	}

	var payload domain.SessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("session token rejected: malformed payload")
		return nil
	}

	valid := true
	reason := ""
	if payload.Subject != sessionSubject {
		valid, reason = false, "wrong subject"
	}
	if payload.IssuedAt <= 0 || payload.ExpiresAt <= 0 {
		valid, reason = false, "missing timestamps"
	}
	// exp == now já é expirado: a fronteira é exclusiva.
	if payload.ExpiresAt <= s.now().Unix() {
		valid, reason = false, "expired"
	}

	expected := s.sign(encodedPayload)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		valid, reason = false, "signature mismatch"
	}

	if !valid {
		log.Printf("session token rejected: %s", reason)
		return nil
	}
	return &payload
}

// CookiePolicy descreve os atributos que a camada HTTP deve aplicar ao
// cookie de sessão.
func (s *SessionTokens) CookiePolicy() domain.CookiePolicy {
	name := sessionCookieName
	if s.production {
		name = sessionCookieNameProd
	}
	return domain.CookiePolicy{
		Name:           name,
		Path:           "/",
		HTTPOnly:       true,
		Secure:         s.production,
		SameSiteStrict: true,
	}
}

// Lifetime expõe a validade configurada; a camada HTTP a usa no Max-Age.
func (s *SessionTokens) Lifetime() time.Duration {
	return s.lifetime
}

func (s *SessionTokens) sign(encodedPayload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

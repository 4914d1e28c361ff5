package services

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

const (
	csrfVersion    = "v1"
	csrfFieldCount = 5
	// DefaultCSRFTTL é a validade padrão de um token CSRF.
	DefaultCSRFTTL = time.Hour
)

// CSRFTokens emite e verifica tokens CSRF assinados, sem estado no servidor.
// Cada token é amarrado a um propósito: um token emitido para um formulário
// nunca valida em outro, porque o propósito entra na assinatura.
type CSRFTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCSRFTokens(secret string, ttl time.Duration, production bool) (*CSRFTokens, error) {
	secret = strings.TrimSpace(secret)
	if len(secret) < minSaltLength {
		if production {
			return nil, fmt.Errorf("csrf secret must have at least %d characters", minSaltLength)
		}
		log.Printf("csrf tokens: secret too short, using development fallback")
		secret = devSaltFallback
	}
	if ttl <= 0 {
		ttl = DefaultCSRFTTL
	}
	return &CSRFTokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock troca a fonte de tempo; existe para testes.
func (s *CSRFTokens) WithClock(now func() time.Time) *CSRFTokens {
	s.now = now
	return s
}

// Create emite um token para o propósito informado.
func (s *CSRFTokens) Create(purpose string) (string, error) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return "", fmt.Errorf("csrf purpose is required")
	}
	if strings.Contains(purpose, "|") {
		return "", fmt.Errorf("csrf purpose must not contain separators")
	}

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate csrf nonce: %w", err)
	}

	issuedAt := strconv.FormatInt(s.now().UnixMilli(), 10)
	nonceHex := hex.EncodeToString(nonce)
	signature := s.sign(purpose, issuedAt, nonceHex)

	payload := strings.Join([]string{csrfVersion, purpose, issuedAt, nonceHex, signature}, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(payload)), nil
}

// Verify responde se o token é válido para o propósito. Só um booleano cruza
// a fronteira de confiança; o motivo interno vai para o log. A comparação da
// assinatura é sempre em tempo constante.
func (s *CSRFTokens) Verify(purpose, token string) bool {
	purpose = strings.TrimSpace(purpose)

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		log.Printf("csrf token rejected: undecodable")
		return false
	}
	fields := strings.Split(string(raw), "|")
	if len(fields) != csrfFieldCount {
		log.Printf("csrf token rejected: malformed payload")
		return false
	}
	version, tokenPurpose, issuedAt, nonceHex, signature := fields[0], fields[1], fields[2], fields[3], fields[4]

	// Field checks accumulate into one flag so the signature comparison runs
	// on every structurally complete token.
	valid := true
	reason := ""
	if version != csrfVersion {
		valid, reason = false, "wrong version"
	}
	if purpose == "" || tokenPurpose != purpose {
		valid, reason = false, "purpose mismatch"
	}
	issuedMillis, err := strconv.ParseInt(issuedAt, 10, 64)
	if err != nil {
		valid, reason = false, "non-numeric issuedAt"
	} else {
		issued := time.UnixMilli(issuedMillis)
		now := s.now()
		if issued.After(now) {
			valid, reason = false, "issued in the future"
		}
		if !now.Before(issued.Add(s.ttl)) {
			valid, reason = false, "expired"
		}
	}
	if nonceHex == "" {
		valid, reason = false, "missing nonce"
	}

	expected := s.sign(tokenPurpose, issuedAt, nonceHex)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		valid, reason = false, "signature mismatch"
	}

	if !valid {
		log.Printf("csrf token rejected: %s", reason)
	}
	return valid
}

func (s *CSRFTokens) sign(purpose, issuedAt, nonceHex string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(csrfVersion + "|" + purpose + "|" + issuedAt + "|" + nonceHex))
	return hex.EncodeToString(mac.Sum(nil))
}

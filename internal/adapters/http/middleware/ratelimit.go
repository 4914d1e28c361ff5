// Package middleware disponibiliza middlewares HTTP específicos da aplicação.
package middleware

import (
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/services"
)

const rateLimitExceededMessage = "you have reached the maximum number of requests or actions allowed within a certain time frame"

// PublicLimitRule parametriza o limitador de um escopo público.
type PublicLimitRule struct {
	Scope       string
	MaxRequests int
	Window      time.Duration
}

// NewPublicLimiter protege endpoints públicos de leitura. A política aqui é
// fail-open para erros inesperados (um bug no limitador não pode derrubar
// checagens de liveness) e fail-closed para identificador ausente ou
// capacidade esgotada.
func NewPublicLimiter(limiter *services.WindowLimiter, hasher *services.IPHasher, rule PublicLimitRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			identifier, err := hasher.Hash(ExtractIP(r))
			if err != nil {
				// Sem identificador não há decisão confiável: nega.
				writeTooManyRequests(w)
				return
			}

			decision, err := limiter.Check(rule.Scope, identifier, rule.MaxRequests, rule.Window, time.Now())
			if err != nil {
				if domain.IsAdmissionDenied(err) {
					writeRateLimitHeaders(w, decision)
					writeTooManyRequests(w)
					return
				}

				log.Printf("public limiter failed on scope %s: %v", rule.Scope, err)
				next.ServeHTTP(w, r)
				return
			}

			writeRateLimitHeaders(w, decision)
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractIP deriva o endereço do cliente dos cabeçalhos de encaminhamento
// (premissa de proxy confiável) ou do RemoteAddr.
func ExtractIP(r *http.Request) string {
	xForwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xForwardedFor != "" {
		parts := strings.Split(xForwardedFor, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if xRealIP != "" {
		return xRealIP
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}

	return host
}

func writeRateLimitHeaders(w http.ResponseWriter, decision domain.WindowDecision) {
	if decision.Scope == "" {
		return
	}
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	if !decision.ResetAt.IsZero() {
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
	}
}

func writeTooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(rateLimitExceededMessage))
}

package middleware

import (
	"net/http"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/services"
)

// CSRFHeader é o cabeçalho de onde o token CSRF é extraído em requisições
// administrativas que mudam estado.
const CSRFHeader = "X-CSRF-Token"

// AdminActionPurpose amarra os tokens CSRF de ações administrativas.
const AdminActionPurpose = "admin-action"

// NewAdminGate exige uma sessão administrativa válida e, para métodos que
// mudam estado, um token CSRF do propósito administrativo. Os portões de
// token rodam antes de qualquer limitador.
func NewAdminGate(sessions *services.SessionTokens, csrf *services.CSRFTokens) func(http.Handler) http.Handler {
	policy := sessions.CookiePolicy()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(policy.Name)
			if err != nil || sessions.Verify(cookie.Value) == nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				if !csrf.Verify(AdminActionPurpose, r.Header.Get(CSRFHeader)) {
					http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

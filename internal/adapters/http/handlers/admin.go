package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/adapters/http/middleware"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/services"
)

// Admin expõe o login administrativo e as ações de moderação.
type Admin struct {
	limiter  *services.LoginLimiter
	hasher   *services.IPHasher
	sessions *services.SessionTokens
	csrf     *services.CSRFTokens
	reports  ports.ReportStore
	password string
}

func NewAdmin(limiter *services.LoginLimiter, hasher *services.IPHasher, sessions *services.SessionTokens, csrf *services.CSRFTokens, reports ports.ReportStore, password string) *Admin {
	return &Admin{
		limiter:  limiter,
		hasher:   hasher,
		sessions: sessions,
		csrf:     csrf,
		reports:  reports,
		password: password,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login autentica o administrador atrás do limitador de tentativas. A
// política é fail-closed: identificador ausente ou backend indisponível
// negam a tentativa.
func (h *Admin) Login(w http.ResponseWriter, r *http.Request) {
	identifier, err := h.hasher.Hash(middleware.ExtractIP(r))
	if err != nil {
		writeAdmissionError(w, domain.ErrMissingIdentifier)
		return
	}

	now := time.Now()
	locked, err := h.limiter.IsLocked(r.Context(), identifier, now)
	if err != nil && !domain.IsAdmissionDenied(err) {
		log.Printf("login limiter unavailable, denying attempt: %v", err)
	}
	if locked {
		writeAdmissionError(w, domain.ErrLoginLocked)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid-body", "request body must be valid JSON")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) != 1 {
		if err := h.limiter.RegisterFailure(r.Context(), identifier, now); err != nil {
			log.Printf("failed to register login failure: %v", err)
		}
		writeError(w, http.StatusUnauthorized, "invalid-credentials", "invalid credentials")
		return
	}

	if err := h.limiter.Reset(r.Context(), identifier); err != nil {
		log.Printf("failed to reset login attempts: %v", err)
	}

	token, err := h.sessions.Create()
	if err != nil {
		log.Printf("failed to create session token: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	csrfToken, err := h.csrf.Create(middleware.AdminActionPurpose)
	if err != nil {
		log.Printf("failed to create admin csrf token: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	policy := h.sessions.CookiePolicy()
	cookie := &http.Cookie{
		Name:     policy.Name,
		Value:    token,
		Path:     policy.Path,
		HttpOnly: policy.HTTPOnly,
		Secure:   policy.Secure,
		MaxAge:   int(h.sessions.Lifetime().Seconds()),
	}
	if policy.SameSiteStrict {
		cookie.SameSite = http.SameSiteStrictMode
	}
	http.SetCookie(w, cookie)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"csrf_token": csrfToken})
}

type moderationRequest struct {
	Action string `json:"action"`
}

// Moderate aplica uma ação da enumeração fechada sobre uma denúncia.
func (h *Admin) Moderate(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")

	var req moderationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid-body", "request body must be valid JSON")
		return
	}

	action, err := domain.ParseModerationAction(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid-action", "unknown moderation action")
		return
	}

	if err := h.reports.ApplyModeration(r.Context(), reportID, action); err != nil {
		if errors.Is(err, ports.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "not-found", "report not found")
			return
		}
		log.Printf("moderation action failed: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": string(action.TargetStatus())})
}

// List devolve as denúncias recentes para o painel.
func (h *Admin) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ListRecent(r.Context(), 50)
	if err != nil {
		log.Printf("failed to list reports: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	type reportView struct {
		ID               string `json:"id"`
		CompanyName      string `json:"company_name"`
		PositionCategory string `json:"position_category"`
		PositionDetail   string `json:"position_detail"`
		Status           string `json:"status"`
		CreatedAt        string `json:"created_at"`
	}
	views := make([]reportView, 0, len(reports))
	for _, report := range reports {
		views = append(views, reportView{
			ID:               report.ID,
			CompanyName:      report.CompanyName,
			PositionCategory: report.PositionCategory.String(),
			PositionDetail:   report.PositionDetail,
			Status:           string(report.Status),
			CreatedAt:        report.CreatedAt.Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(views)
}

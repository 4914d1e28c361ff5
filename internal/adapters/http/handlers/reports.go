// Package handlers agrupa os handlers HTTP da aplicação.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/adapters/http/middleware"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/services"
)

// ReportSubmitPurpose amarra os tokens CSRF do formulário público de denúncia.
const ReportSubmitPurpose = "report-submit"

// Reports expõe a submissão anônima de denúncias.
type Reports struct {
	engine *services.ReportQuotaEngine
	hasher *services.IPHasher
	csrf   *services.CSRFTokens
}

func NewReports(engine *services.ReportQuotaEngine, hasher *services.IPHasher, csrf *services.CSRFTokens) *Reports {
	return &Reports{engine: engine, hasher: hasher, csrf: csrf}
}

type submitRequest struct {
	CompanyName      string `json:"company_name"`
	PositionCategory string `json:"position_category"`
	PositionDetail   string `json:"position_detail"`
	CSRFToken        string `json:"csrf_token"`
}

// Submit valida o formulário, deriva o identificador anonimizado e delega ao
// motor de cotas. Negações de admissão viram 4xx com código estável; falhas
// de infraestrutura viram 500 sem disfarce.
func (h *Reports) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid-body", "request body must be valid JSON")
		return
	}

	if !h.csrf.Verify(ReportSubmitPurpose, req.CSRFToken) {
		writeError(w, http.StatusForbidden, "invalid-csrf", "invalid or expired form token")
		return
	}

	category, err := domain.ParsePositionCategory(req.PositionCategory)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid-category", "unknown position category")
		return
	}

	companyKey := services.NormalizeCompanyKey(req.CompanyName)
	if companyKey == "" {
		writeError(w, http.StatusBadRequest, "invalid-company", "company name is required")
		return
	}

	identifier, err := h.hasher.Hash(middleware.ExtractIP(r))
	if err != nil {
		// Falha fechada na borda pública: sem identificador, sem denúncia.
		writeAdmissionError(w, domain.ErrMissingIdentifier)
		return
	}

	report := domain.Report{
		ID:               uuid.NewString(),
		Identifier:       identifier,
		CompanyID:        companyKey,
		CompanyName:      req.CompanyName,
		CompanyKey:       companyKey,
		PositionCategory: category,
		PositionDetail:   services.NormalizePositionDetail(req.PositionDetail),
		CreatedAt:        time.Now().UTC(),
	}

	if err := h.engine.Submit(r.Context(), report); err != nil {
		if domain.IsAdmissionDenied(err) {
			writeAdmissionError(w, err)
			return
		}
		log.Printf("report submission failed: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": report.ID})
}

// FormToken emite o token CSRF consumido pelo formulário de denúncia.
func (h *Reports) FormToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.csrf.Create(ReportSubmitPurpose)
	if err != nil {
		log.Printf("failed to create form token: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"csrf_token": token})
}

func writeAdmissionError(w http.ResponseWriter, err error) {
	status := http.StatusTooManyRequests
	switch domain.ReasonFor(err) {
	case "missing-ip":
		status = http.StatusBadRequest
	case "company-position-limit":
		if errors.Is(err, domain.ErrDuplicatePosition) {
			status = http.StatusConflict
		}
	}
	writeError(w, status, domain.ReasonFor(err), domain.SafeMessage(err))
}

func writeError(w http.ResponseWriter, status int, reason, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": reason, "message": message})
}

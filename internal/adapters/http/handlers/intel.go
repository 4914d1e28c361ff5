package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/services"
)

// Intel expõe o agregado por empresa protegido por k-anonimato.
type Intel struct {
	service *services.CompanyIntel
}

func NewIntel(service *services.CompanyIntel) *Intel {
	return &Intel{service: service}
}

func (h *Intel) Lookup(w http.ResponseWriter, r *http.Request) {
	key := services.NormalizeCompanyKey(chi.URLParam(r, "key"))

	signal, err := h.service.Lookup(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			writeError(w, http.StatusNotFound, "insufficient-data", "not enough reports to release a signal")
			return
		}
		log.Printf("company intel lookup failed: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"company_key":    signal.CompanyKey,
		"company_name":   signal.CompanyName,
		"active_reports": signal.ActiveReports,
	})
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
)

// DefaultKAnonymityThreshold é o mínimo de denúncias ativas antes de liberar
// qualquer número para terceiros.
const DefaultKAnonymityThreshold = 5

// CompanyIntel libera agregados por empresa apenas acima do limiar de
// k-anonimato. Abaixo dele a resposta é "dados insuficientes", nunca o
// número real — invariante de privacidade, não otimização.
type CompanyIntel struct {
	store     ports.IntelStore
	threshold int
}

func NewCompanyIntel(store ports.IntelStore, threshold int) (*CompanyIntel, error) {
	if store == nil {
		return nil, fmt.Errorf("intel store is required")
	}
	if threshold <= 0 {
		threshold = DefaultKAnonymityThreshold
	}
	return &CompanyIntel{store: store, threshold: threshold}, nil
}

// Lookup devolve o sinal agregado da empresa que melhor corresponde à chave
// normalizada, ou domain.ErrInsufficientData quando a contagem está abaixo
// do limiar ou nada corresponde.
func (s *CompanyIntel) Lookup(ctx context.Context, companyKey string) (domain.CompanySignal, error) {
	companyKey = strings.TrimSpace(companyKey)
	if companyKey == "" {
		return domain.CompanySignal{}, domain.ErrInsufficientData
	}

	signal, err := s.store.FindCompany(ctx, companyKey)
	if err != nil {
		if errors.Is(err, ports.ErrNoCompanyMatch) {
			return domain.CompanySignal{}, domain.ErrInsufficientData
		}
		return domain.CompanySignal{}, err
	}
	if signal.ActiveReports < s.threshold {
		return domain.CompanySignal{}, domain.ErrInsufficientData
	}
	return signal, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
)

// FindCompany localiza a empresa que melhor corresponde à chave normalizada:
// primeiro por igualdade exata, depois por prefixo, preferindo a de maior
// contagem de denúncias ativas.
func (s *Store) FindCompany(ctx context.Context, companyKey string) (domain.CompanySignal, error) {
	signal, err := s.findByExactKey(ctx, companyKey)
	if err == nil {
		return signal, nil
	}
	if !errors.Is(err, ports.ErrNoCompanyMatch) {
		return domain.CompanySignal{}, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT company_key, company_name, COUNT(*) AS active
		FROM reports
		WHERE status = 'active' AND company_key LIKE ? || '%'
		GROUP BY company_key
		ORDER BY active DESC
		LIMIT 1
	`, companyKey)
	return scanSignal(row)
}

func (s *Store) findByExactKey(ctx context.Context, companyKey string) (domain.CompanySignal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT company_key, company_name, COUNT(*) AS active
		FROM reports
		WHERE status = 'active' AND company_key = ?
		GROUP BY company_key
	`, companyKey)
	return scanSignal(row)
}

func scanSignal(row *sql.Row) (domain.CompanySignal, error) {
	var signal domain.CompanySignal
	err := row.Scan(&signal.CompanyKey, &signal.CompanyName, &signal.ActiveReports)
	if err == sql.ErrNoRows {
		return domain.CompanySignal{}, ports.ErrNoCompanyMatch
	}
	if err != nil {
		return domain.CompanySignal{}, fmt.Errorf("failed to aggregate company signal: %w", err)
	}
	return signal, nil
}

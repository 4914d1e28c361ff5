package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
)

const dayKeyLayout = "2006-01-02"

// QuotaConfig agrega os tetos aplicados pelo motor de cotas.
type QuotaConfig struct {
	MaxPerDay     int
	MaxPerCompany int
}

// ReportQuotaEngine garante, dentro de uma única transação, o teto diário
// global por identificador, o teto por (identificador, empresa) e a
// unicidade por (identificador, empresa, vaga).
type ReportQuotaEngine struct {
	store ports.QuotaStore
	cfg   QuotaConfig
	now   func() time.Time
}

func NewReportQuotaEngine(store ports.QuotaStore, cfg QuotaConfig) (*ReportQuotaEngine, error) {
	if store == nil {
		return nil, fmt.Errorf("quota store is required")
	}
	if cfg.MaxPerDay <= 0 || cfg.MaxPerCompany <= 0 {
		return nil, fmt.Errorf("quota limits must be positive")
	}
	return &ReportQuotaEngine{store: store, cfg: cfg, now: time.Now}, nil
}

// WithClock troca a fonte de tempo; existe para testes.
func (e *ReportQuotaEngine) WithClock(now func() time.Time) *ReportQuotaEngine {
	e.now = now
	return e
}

// Submit aplica as três checagens e grava a denúncia em uma unidade atômica:
// qualquer falha desfaz inclusive o incremento do contador diário.
//
// Identificador vazio ou o sentinela "unknown" pula todas as checagens de
// cota — política explícita de "sem limitação possível"; as bordas pagas ou
// anônimas devem ter falhado fechado antes de chegar aqui.
func (e *ReportQuotaEngine) Submit(ctx context.Context, report domain.Report) error {
	identifier := strings.TrimSpace(report.Identifier)
	skipChecks := identifier == "" || identifier == domain.UnknownIdentifier

	day := e.now().UTC().Format(dayKeyLayout)

	return e.store.WithinTx(ctx, func(tx ports.QuotaTx) error {
		if !skipChecks {
			count, err := tx.DailyCount(ctx, identifier, day)
			if err != nil {
				return err
			}
			if count >= e.cfg.MaxPerDay {
				return domain.ErrDailyLimit
			}
			if err := tx.IncrementDailyCount(ctx, identifier, day); err != nil {
				return err
			}

			claims, err := tx.CountClaims(ctx, identifier, report.CompanyID)
			if err != nil {
				return err
			}
			if claims >= e.cfg.MaxPerCompany {
				return domain.ErrCompanyLimit
			}

			if err := tx.InsertClaim(ctx, identifier, report.CompanyID, report.PositionKey()); err != nil {
				if errors.Is(err, ports.ErrClaimConflict) {
					return domain.ErrDuplicatePosition
				}
				return err
			}
		}

		return tx.InsertReport(ctx, report)
	})
}

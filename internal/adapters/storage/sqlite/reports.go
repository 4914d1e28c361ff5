package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
)

// ListRecent devolve as denúncias mais recentes para o painel administrativo.
// O identificador anonimizado acompanha a linha; o endereço bruto nunca é
// armazenado, então nunca aparece aqui.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, identifier, company_id, company_name, company_key, position_category, position_detail, status, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var (
			report    domain.Report
			category  string
			status    string
			createdAt string
		)
		if err := rows.Scan(
			&report.ID,
			&report.Identifier,
			&report.CompanyID,
			&report.CompanyName,
			&report.CompanyKey,
			&category,
			&report.PositionDetail,
			&status,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		parsed, err := domain.ParsePositionCategory(category)
		if err != nil {
			return nil, fmt.Errorf("corrupt report row %s: %w", report.ID, err)
		}
		report.PositionCategory = parsed
		report.Status = domain.ReportStatus(status)
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			report.CreatedAt = ts
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

// ApplyModeration aplica a ação administrativa sobre a denúncia.
func (s *Store) ApplyModeration(ctx context.Context, reportID string, action domain.ModerationAction) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE reports SET status = ? WHERE id = ?`,
		string(action.TargetStatus()), reportID,
	)
	if err != nil {
		return fmt.Errorf("failed to apply moderation action: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read moderation result: %w", err)
	}
	if affected == 0 {
		return ports.ErrReportNotFound
	}
	return nil
}

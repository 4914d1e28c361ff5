package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
)

// quotaTx implementa ports.QuotaTx sobre uma transação aberta.
type quotaTx struct {
	tx *sql.Tx
}

var _ ports.QuotaTx = (*quotaTx)(nil)

func (q *quotaTx) DailyCount(ctx context.Context, identifier, day string) (int, error) {
	var count int
	err := q.tx.QueryRowContext(ctx,
		`SELECT count FROM daily_counters WHERE identifier = ? AND day = ?`,
		identifier, day,
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read daily counter: %w", err)
	}
	return count, nil
}

func (q *quotaTx) IncrementDailyCount(ctx context.Context, identifier, day string) error {
	_, err := q.tx.ExecContext(ctx, `
		INSERT INTO daily_counters (identifier, day, count) VALUES (?, ?, 1)
		ON CONFLICT (identifier, day) DO UPDATE SET count = count + 1
	`, identifier, day)
	if err != nil {
		return fmt.Errorf("failed to increment daily counter: %w", err)
	}
	return nil
}

func (q *quotaTx) CountClaims(ctx context.Context, identifier, companyID string) (int, error) {
	var count int
	err := q.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM company_position_claims WHERE identifier = ? AND company_id = ?`,
		identifier, companyID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count claims: %w", err)
	}
	return count, nil
}

func (q *quotaTx) InsertClaim(ctx context.Context, identifier, companyID, positionKey string) error {
	_, err := q.tx.ExecContext(ctx,
		`INSERT INTO company_position_claims (identifier, company_id, position_key) VALUES (?, ?, ?)`,
		identifier, companyID, positionKey,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ports.ErrClaimConflict
		}
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

func (q *quotaTx) InsertReport(ctx context.Context, report domain.Report) error {
	createdAt := report.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := q.tx.ExecContext(ctx, `
		INSERT INTO reports (id, identifier, company_id, company_name, company_key, position_category, position_detail, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.ID,
		report.Identifier,
		report.CompanyID,
		report.CompanyName,
		report.CompanyKey,
		report.PositionCategory.String(),
		report.PositionDetail,
		string(domain.StatusActive),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

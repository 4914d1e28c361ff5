package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/domain"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/services"
)

func TestStore_DailyCounterLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(tx ports.QuotaTx) error {
		count, err := tx.DailyCount(ctx, "id-1", "2026-03-01")
		if err != nil {
			return err
		}
		if count != 0 {
			t.Fatalf("expected zero before first submission, got %d", count)
		}
		if err := tx.IncrementDailyCount(ctx, "id-1", "2026-03-01"); err != nil {
			return err
		}
		return tx.IncrementDailyCount(ctx, "id-1", "2026-03-01")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = store.WithinTx(ctx, func(tx ports.QuotaTx) error {
		count, err := tx.DailyCount(ctx, "id-1", "2026-03-01")
		if err != nil {
			return err
		}
		if count != 2 {
			t.Fatalf("expected committed count 2, got %d", count)
		}
		// Days partition naturally: another day starts from zero.
		other, err := tx.DailyCount(ctx, "id-1", "2026-03-02")
		if err != nil {
			return err
		}
		if other != 0 {
			t.Fatalf("expected other day to be empty, got %d", other)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_RollbackDiscardsDailyIncrement(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("abort")

	err := store.WithinTx(ctx, func(tx ports.QuotaTx) error {
		if err := tx.IncrementDailyCount(ctx, "id-1", "2026-03-01"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error to surface, got %v", err)
	}

	err = store.WithinTx(ctx, func(tx ports.QuotaTx) error {
		count, err := tx.DailyCount(ctx, "id-1", "2026-03-01")
		if err != nil {
			return err
		}
		if count != 0 {
			t.Fatalf("expected rollback to discard the increment, got %d", count)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_ClaimConflictIsTyped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(tx ports.QuotaTx) error {
		return tx.InsertClaim(ctx, "id-1", "acme", "engineering:backend")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = store.WithinTx(ctx, func(tx ports.QuotaTx) error {
		return tx.InsertClaim(ctx, "id-1", "acme", "engineering:backend")
	})
	if !errors.Is(err, ports.ErrClaimConflict) {
		t.Fatalf("expected typed claim conflict, got %v", err)
	}

	// A different position key is a different claim.
	err = store.WithinTx(ctx, func(tx ports.QuotaTx) error {
		return tx.InsertClaim(ctx, "id-1", "acme", "engineering:frontend")
	})
	if err != nil {
		t.Fatalf("unexpected error for distinct position: %v", err)
	}
}

func TestStore_QuotaEngineConcurrentDuplicates(t *testing.T) {
	store := newTestStore(t)
	engine, err := services.NewReportQuotaEngine(store, services.QuotaConfig{MaxPerDay: 100, MaxPerCompany: 10})
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	const attempts = 5
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Submit(context.Background(), domain.Report{
				ID:               fmt.Sprintf("report-%d", i),
				Identifier:       "id-1",
				CompanyID:        "acme",
				CompanyName:      "Acme",
				CompanyKey:       "acme",
				PositionCategory: domain.PositionEngineering,
				PositionDetail:   "backend engineer",
				CreatedAt:        time.Now().UTC(),
			})
		}(i)
	}
	wg.Wait()

	successes, duplicates := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrDuplicatePosition):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || duplicates != attempts-1 {
		t.Fatalf("expected one winner, got %d successes and %d duplicates", successes, duplicates)
	}

	// Only the accepted submission may appear in the daily counter.
	ctx := context.Background()
	day := time.Now().UTC().Format("2006-01-02")
	err = store.WithinTx(ctx, func(tx ports.QuotaTx) error {
		count, err := tx.DailyCount(ctx, "id-1", day)
		if err != nil {
			return err
		}
		if count != 1 {
			t.Fatalf("rejected submissions leaked daily increments: counter is %d", count)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_FindCompanyMatchesExactThenPrefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertReports(t, store, "acme-corp", "Acme Corp", 3)
	insertReports(t, store, "acme-labs", "Acme Labs", 6)

	signal, err := store.FindCompany(ctx, "acme-labs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signal.CompanyName != "Acme Labs" || signal.ActiveReports != 6 {
		t.Fatalf("unexpected exact match: %+v", signal)
	}

	// Prefix fallback prefers the highest active count.
	signal, err = store.FindCompany(ctx, "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signal.CompanyKey != "acme-labs" {
		t.Fatalf("expected best prefix match acme-labs, got %+v", signal)
	}

	if _, err := store.FindCompany(ctx, "ghost-inc"); !errors.Is(err, ports.ErrNoCompanyMatch) {
		t.Fatalf("expected no-match error, got %v", err)
	}
}

func TestStore_FindCompanyIgnoresModeratedReports(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertReports(t, store, "acme-corp", "Acme Corp", 2)
	if err := store.ApplyModeration(ctx, "acme-corp-report-0", domain.ActionDelete); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	signal, err := store.FindCompany(ctx, "acme-corp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signal.ActiveReports != 1 {
		t.Fatalf("expected deleted report to leave the aggregate, got %d", signal.ActiveReports)
	}
}

func TestStore_ApplyModeration(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertReports(t, store, "acme-corp", "Acme Corp", 1)

	if err := store.ApplyModeration(ctx, "acme-corp-report-0", domain.ActionFlag); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reports, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 1 || reports[0].Status != domain.StatusFlagged {
		t.Fatalf("expected flagged report, got %+v", reports)
	}

	if err := store.ApplyModeration(ctx, "acme-corp-report-0", domain.ActionRestore); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reports, err = store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reports[0].Status != domain.StatusActive {
		t.Fatalf("expected restored report, got %+v", reports[0])
	}

	if err := store.ApplyModeration(ctx, "missing-id", domain.ActionFlag); !errors.Is(err, ports.ErrReportNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func insertReports(t *testing.T, store *Store, companyKey, companyName string, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		report := domain.Report{
			ID:               fmt.Sprintf("%s-report-%d", companyKey, i),
			Identifier:       fmt.Sprintf("id-%d", i),
			CompanyID:        companyKey,
			CompanyName:      companyName,
			CompanyKey:       companyKey,
			PositionCategory: domain.PositionEngineering,
			PositionDetail:   fmt.Sprintf("position %d", i),
			CreatedAt:        time.Now().UTC(),
		}
		err := store.WithinTx(ctx, func(tx ports.QuotaTx) error {
			return tx.InsertReport(ctx, report)
		})
		if err != nil {
			t.Fatalf("failed to insert report: %v", err)
		}
	}
}

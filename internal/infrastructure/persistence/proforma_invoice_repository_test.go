package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
)

func newTestProforma(t *testing.T, f *testFixtures) *trade.ProformaInvoice {
	t.Helper()
	pi, err := trade.NewProformaInvoice(testMaker, trade.ProformaInvoiceHeader{
		Parties:         f.parties(),
		CommercialTerms: f.terms(),
	})
	require.NoError(t, err)
	return pi
}

func lineInput(desc string, qty, price string) trade.LineItemInput {
	q := decimal.RequireFromString(qty)
	p := decimal.RequireFromString(price)
	return trade.LineItemInput{Description: &desc, Quantity: &q, UnitPriceUSD: &p}
}

// findLine returns the line whose item code or description matches key
func findLine(t *testing.T, lines []trade.LineItem, key string) trade.LineItem {
	t.Helper()
	for _, l := range lines {
		if l.ItemCode == key || l.Description == key {
			return l
		}
	}
	t.Fatalf("line %q not found", key)
	return trade.LineItem{}
}

func TestGormProformaInvoiceRepository_SaveAssignsNumber(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormProformaInvoiceRepository(db)
	ctx := context.Background()
	year := time.Now().Year()

	first := newTestProforma(t, f)
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, fmt.Sprintf("PI-%d-0001", year), first.Number)

	second := newTestProforma(t, f)
	require.NoError(t, repo.Save(ctx, second))
	assert.Equal(t, fmt.Sprintf("PI-%d-0002", year), second.Number)

	// Saving again keeps the number
	require.NoError(t, first.Submit(testMaker))
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, fmt.Sprintf("PI-%d-0001", year), first.Number)
}

func TestGormProformaInvoiceRepository_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormProformaInvoiceRepository(db)
	ctx := context.Background()

	pi := newTestProforma(t, f)
	_, err := pi.AddLineItem(testMaker, lineInput("Basmati rice", "10.5", "12.25"))
	require.NoError(t, err)
	second, err := pi.AddLineItem(testMaker, lineInput("Sona masoori", "2", "100"))
	require.NoError(t, err)
	secondID := second.ID
	require.NoError(t, repo.Save(ctx, pi))

	loaded, err := repo.FindByID(ctx, pi.ID)
	require.NoError(t, err)
	assert.Equal(t, pi.Number, loaded.Number)
	assert.Equal(t, trade.ProformaStatusDraft, loaded.Status)
	assert.Equal(t, testMaker.ID, loaded.MakerID)
	assert.Equal(t, f.Exporter.ID, loaded.ExporterID)
	require.Len(t, loaded.LineItems, 2)
	basmati := findLine(t, loaded.LineItems, "Basmati rice")
	assert.True(t, decimal.RequireFromString("128.62").Equal(basmati.AmountUSD), basmati.AmountUSD.String())
	assert.True(t, decimal.RequireFromString("328.62").Equal(loaded.TotalAmountUSD), loaded.TotalAmountUSD.String())

	_, err = loaded.DeactivateLineItem(testMaker, secondID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, loaded))

	reloaded, err := repo.FindByID(ctx, pi.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.LineItems, 2, "deactivated lines are kept")
	assert.Len(t, reloaded.ActiveLineItems(), 1)
	assert.True(t, decimal.RequireFromString("128.62").Equal(reloaded.TotalAmountUSD))
}

func TestGormProformaInvoiceRepository_AuditTrail(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormProformaInvoiceRepository(db)
	audit := NewGormAuditTrailRepository(db)
	ctx := context.Background()

	pi := newTestProforma(t, f)
	require.NoError(t, repo.Save(ctx, pi))
	assert.Empty(t, pi.PendingEvents(), "events are drained on save")

	require.NoError(t, pi.Submit(testMaker))
	require.NoError(t, repo.Save(ctx, pi))
	require.NoError(t, pi.Reject(testChecker, "fix consignee"))
	require.NoError(t, repo.Save(ctx, pi))

	entries, err := audit.ListByDocument(ctx, trade.DocumentTypeProformaInvoice, pi.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	actions := []trade.AuditAction{entries[0].Action, entries[1].Action, entries[2].Action}
	assert.ElementsMatch(t, []trade.AuditAction{trade.AuditActionCreated, trade.AuditActionSubmitted, trade.AuditActionRejected}, actions)

	var rejected trade.AuditEntry
	for _, e := range entries {
		if e.Action == trade.AuditActionRejected {
			rejected = e
		}
	}
	assert.Equal(t, "fix consignee", rejected.Notes)
	assert.Equal(t, testChecker.ID, rejected.ActorID)
	assert.Equal(t, "checker", rejected.ActorName)
}

func TestGormProformaInvoiceRepository_SoftDelete(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormProformaInvoiceRepository(db)
	ctx := context.Background()

	pi := newTestProforma(t, f)
	require.NoError(t, repo.Save(ctx, pi))

	changed, err := pi.Deactivate(testMaker)
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, repo.Save(ctx, pi))

	_, err = repo.FindByID(ctx, pi.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	inactive, err := repo.FindByIDIncludingInactive(ctx, pi.ID)
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)

	count, err := repo.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormProformaInvoiceRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormProformaInvoiceRepository(db)
	ctx := context.Background()

	var saved []*trade.ProformaInvoice
	for i := 0; i < 3; i++ {
		pi := newTestProforma(t, f)
		pi.Date = time.Date(2025, 1, 10+i, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Save(ctx, pi))
		saved = append(saved, pi)
	}
	require.NoError(t, saved[0].Submit(testMaker))
	require.NoError(t, repo.Save(ctx, saved[0]))

	t.Run("default order is newest date first", func(t *testing.T) {
		all, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, saved[2].ID, all[0].ID)
		assert.Equal(t, saved[0].ID, all[2].ID)
	})

	t.Run("search by consignee name", func(t *testing.T) {
		all, err := repo.FindAll(ctx, shared.Filter{Search: "globex"})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		none, err := repo.FindAll(ctx, shared.Filter{Search: "initech"})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("search by number", func(t *testing.T) {
		all, err := repo.FindAll(ctx, shared.Filter{Search: saved[1].Number})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, saved[1].ID, all[0].ID)
	})

	t.Run("status filter", func(t *testing.T) {
		filter := shared.Filter{Filters: map[string]any{"status": string(trade.ProformaStatusPendingApproval)}}
		all, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, saved[0].ID, all[0].ID)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("explicit ascending order", func(t *testing.T) {
		all, err := repo.FindAll(ctx, shared.Filter{OrderBy: "number", OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, saved[0].Number, all[0].Number)
	})
}

func TestGormProformaInvoiceRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProformaInvoiceRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradedocs/backend/internal/domain/printing"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
)

func TestGormArchiveRepository_SaveAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormArchiveRepository(db)
	ctx := context.Background()
	docID := uuid.New()

	first, err := printing.NewArchivedDocument(trade.DocumentTypeProformaInvoice, docID, "PI-2025-0001",
		printing.VariantFinal, "filesystem", "PI/2025/PI-2025-0001/a.pdf", 1024, testChecker.ID)
	require.NoError(t, err)
	first.CreatedAt = time.Now().Add(-time.Hour)
	first.PageCount = 2
	require.NoError(t, repo.Save(ctx, first))

	second, err := printing.NewArchivedDocument(trade.DocumentTypeProformaInvoice, docID, "PI-2025-0001",
		printing.VariantFinal, "filesystem", "PI/2025/PI-2025-0001/b.pdf", 2048, testChecker.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	docs, err := repo.ListByDocument(ctx, trade.DocumentTypeProformaInvoice, docID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, second.ID, docs[0].ID)
	assert.Equal(t, first.StorageKey, docs[1].StorageKey)
	assert.Equal(t, 2, docs[1].PageCount)
	assert.Equal(t, printing.VariantFinal, docs[1].Variant)

	none, err := repo.ListByDocument(ctx, trade.DocumentTypeCommercialInvoice, docID)
	require.NoError(t, err)
	assert.Empty(t, none)

	found, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.StorageKey, found.StorageKey)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

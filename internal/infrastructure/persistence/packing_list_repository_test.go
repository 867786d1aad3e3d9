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

func testContainers(uomID uuid.UUID) []trade.ContainerInput {
	return []trade.ContainerInput{
		{
			ContainerReference: "MSKU1234567",
			Items: []trade.ContainerItemInput{
				{ItemCode: "RICE-01", DescriptionOfGoods: "Basmati rice", Quantity: decimal.NewFromInt(100), UOMID: &uomID,
					NetWeight: decimal.NewFromInt(1000), TareWeight: decimal.NewFromInt(20)},
				{ItemCode: "RICE-02", DescriptionOfGoods: "Sona masoori", Quantity: decimal.NewFromInt(50), UOMID: &uomID,
					NetWeight: decimal.NewFromInt(500), TareWeight: decimal.NewFromInt(10)},
			},
		},
		{
			ContainerReference: "MSKU7654321",
			Items: []trade.ContainerItemInput{
				{ItemCode: "RICE-01", DescriptionOfGoods: "Basmati rice", Quantity: decimal.NewFromInt(40), UOMID: &uomID,
					NetWeight: decimal.NewFromInt(400), TareWeight: decimal.NewFromInt(8)},
			},
		},
	}
}

func newTestPackingList(t *testing.T, f *testFixtures, header trade.PackingListHeader) *trade.PackingList {
	t.Helper()
	if header.ExporterID == uuid.Nil {
		header.Parties = f.parties()
	}
	pl, err := trade.NewPackingList(testMaker, header, testContainers(f.UOM.ID))
	require.NoError(t, err)
	return pl
}

func approvePackingList(t *testing.T, pl *trade.PackingList) {
	t.Helper()
	require.NoError(t, pl.Submit(testMaker))
	require.NoError(t, pl.Approve(testChecker))
}

func TestGormPackingListRepository_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormPackingListRepository(db)
	ctx := context.Background()

	pl := newTestPackingList(t, f, trade.PackingListHeader{InvoiceNumber: "EXP/001", PONumber: "PO-77"})
	require.NoError(t, repo.Save(ctx, pl))
	assert.Equal(t, fmt.Sprintf("PL-%d-0001", time.Now().Year()), pl.Number)

	loaded, err := repo.FindByID(ctx, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, "EXP/001", loaded.InvoiceNumber)
	assert.Equal(t, "PO-77", loaded.PONumber)
	require.Len(t, loaded.Containers, 2)
	assert.Equal(t, "MSKU1234567", loaded.Containers[0].ContainerReference)
	require.Len(t, loaded.Containers[0].Items, 2)
	assert.Equal(t, "RICE-01", loaded.Containers[0].Items[0].ItemCode)
	assert.True(t, decimal.NewFromInt(1530).Equal(loaded.Containers[0].GrossWeight), loaded.Containers[0].GrossWeight.String())
	require.NotNil(t, loaded.Containers[0].Items[0].UOMID)
	assert.Equal(t, f.UOM.ID, *loaded.Containers[0].Items[0].UOMID)
}

func TestGormPackingListRepository_UpdateDeactivatesMissingItems(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormPackingListRepository(db)
	ctx := context.Background()

	pl := newTestPackingList(t, f, trade.PackingListHeader{})
	require.NoError(t, repo.Save(ctx, pl))

	loaded, err := repo.FindByID(ctx, pl.ID)
	require.NoError(t, err)
	first := loaded.Containers[0]
	keep := first.Items[0]
	err = loaded.Update(testMaker, loaded.PackingListHeader, []trade.ContainerInput{{
		ID:                 &first.ID,
		ContainerReference: first.ContainerReference,
		Items: []trade.ContainerItemInput{{
			ID: &keep.ID, ItemCode: keep.ItemCode, DescriptionOfGoods: keep.DescriptionOfGoods,
			Quantity: decimal.NewFromInt(120), UOMID: keep.UOMID, NetWeight: keep.NetWeight, TareWeight: keep.TareWeight,
		}},
	}})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, loaded))

	reloaded, err := repo.FindByID(ctx, pl.ID)
	require.NoError(t, err)
	active := reloaded.ActiveContainers()
	require.Len(t, active, 1)
	items := active[0].ActiveItems()
	require.Len(t, items, 1)
	assert.True(t, decimal.NewFromInt(120).Equal(items[0].Quantity))
	assert.Equal(t, pl.Number, reloaded.Number)
}

func TestGormPackingListRepository_ApprovedQueries(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormPackingListRepository(db)
	ctx := context.Background()

	draft := newTestPackingList(t, f, trade.PackingListHeader{})
	require.NoError(t, repo.Save(ctx, draft))

	older := newTestPackingList(t, f, trade.PackingListHeader{Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)})
	approvePackingList(t, older)
	require.NoError(t, repo.Save(ctx, older))

	newer := newTestPackingList(t, f, trade.PackingListHeader{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)})
	approvePackingList(t, newer)
	require.NoError(t, repo.Save(ctx, newer))

	approved, err := repo.FindApprovedByConsignee(ctx, f.Consignee.ID)
	require.NoError(t, err)
	require.Len(t, approved, 2)
	assert.Equal(t, newer.ID, approved[0].ID)
	assert.Equal(t, older.ID, approved[1].ID)

	ids, err := repo.ApprovedConsigneeIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.Consignee.ID}, ids)

	_, err = newer.Deactivate(testAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, newer))

	approved, err = repo.FindApprovedByConsignee(ctx, f.Consignee.ID)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, older.ID, approved[0].ID)

	none, err := repo.FindApprovedByConsignee(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormPackingListRepository_ExistsForProforma(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	repo := NewGormPackingListRepository(db)
	piRepo := NewGormProformaInvoiceRepository(db)
	ctx := context.Background()

	pi := newTestProforma(t, f)
	require.NoError(t, piRepo.Save(ctx, pi))

	exists, err := repo.ExistsForProforma(ctx, pi.ID, uuid.Nil)
	require.NoError(t, err)
	assert.False(t, exists)

	piID := pi.ID
	pl := newTestPackingList(t, f, trade.PackingListHeader{ProformaInvoiceID: &piID})
	require.NoError(t, repo.Save(ctx, pl))

	exists, err = repo.ExistsForProforma(ctx, pi.ID, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForProforma(ctx, pi.ID, pl.ID)
	require.NoError(t, err)
	assert.False(t, exists, "the packing list itself is excluded")

	t.Run("search by proforma number", func(t *testing.T) {
		found, err := repo.FindAll(ctx, shared.Filter{Search: pi.Number})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, pl.ID, found[0].ID)
	})
}

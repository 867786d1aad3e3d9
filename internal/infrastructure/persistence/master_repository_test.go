package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/shared"
)

func TestGormMasterRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repos := NewMasterRepositories(db)
	ctx := context.Background()

	country := masterdata.Country{Base: masterdata.NewBase(), Name: "Germany", ISOCode: "DE"}
	require.NoError(t, repos.Countries.Save(ctx, &country))

	found, err := repos.Countries.FindByID(ctx, country.ID)
	require.NoError(t, err)
	assert.Equal(t, "Germany", found.Name)
	assert.Equal(t, "DE", found.ISOCode)
	assert.True(t, found.IsActive)

	found.Name = "Federal Republic of Germany"
	require.NoError(t, repos.Countries.Save(ctx, found))

	reloaded, err := repos.Countries.FindByID(ctx, country.ID)
	require.NoError(t, err)
	assert.Equal(t, "Federal Republic of Germany", reloaded.Name)
}

func TestGormMasterRepository_UniqueViolation(t *testing.T) {
	db := setupTestDB(t)
	repos := NewMasterRepositories(db)
	ctx := context.Background()

	first := masterdata.Country{Base: masterdata.NewBase(), Name: "France", ISOCode: "FR"}
	require.NoError(t, repos.Countries.Save(ctx, &first))

	dup := masterdata.Country{Base: masterdata.NewBase(), Name: "French Republic", ISOCode: "FR"}
	err := repos.Countries.Save(ctx, &dup)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormMasterRepository_SoftDelete(t *testing.T) {
	db := setupTestDB(t)
	repos := NewMasterRepositories(db)
	ctx := context.Background()

	term := masterdata.PaymentTerm{NamedRecord: masterdata.NamedRecord{Base: masterdata.NewBase(), Name: "30 days"}}
	require.NoError(t, repos.PaymentTerms.Save(ctx, &term))

	require.True(t, term.Deactivate())
	require.NoError(t, repos.PaymentTerms.Save(ctx, &term))

	_, err := repos.PaymentTerms.FindByID(ctx, term.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	inactive, err := repos.PaymentTerms.FindByIDIncludingInactive(ctx, term.ID)
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)
	assert.NotNil(t, inactive.DeactivatedAt)

	count, err := repos.PaymentTerms.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = repos.PaymentTerms.Count(ctx, shared.Filter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormMasterRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repos := NewMasterRepositories(db)
	ctx := context.Background()

	for _, c := range []struct{ name, iso string }{
		{"Spain", "ES"}, {"Austria", "AT"}, {"Sweden", "SE"}, {"Singapore", "SG"},
	} {
		country := masterdata.Country{Base: masterdata.NewBase(), Name: c.name, ISOCode: c.iso}
		require.NoError(t, repos.Countries.Save(ctx, &country))
	}

	t.Run("default order is name ascending", func(t *testing.T) {
		all, err := repos.Countries.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "Austria", all[0].Name)
		assert.Equal(t, "Sweden", all[3].Name)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		all, err := repos.Countries.FindAll(ctx, shared.Filter{Search: "S", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Len(t, all, 4)

		all, err = repos.Countries.FindAll(ctx, shared.Filter{Search: "sing", Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "SG", all[0].ISOCode)
	})

	t.Run("explicit order and paging", func(t *testing.T) {
		page, err := repos.Countries.FindAll(ctx, shared.Filter{OrderBy: "iso_code", OrderDir: "desc", Page: 2, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "ES", page[0].ISOCode)
		assert.Equal(t, "AT", page[1].ISOCode)
	})

	t.Run("unknown sort field falls back", func(t *testing.T) {
		all, err := repos.Countries.FindAll(ctx, shared.Filter{OrderBy: "name; DROP TABLE countries", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})
}

func TestGormMasterRepository_FilterByCountry(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	repos := NewMasterRepositories(db)
	ctx := context.Background()

	other := masterdata.Country{Base: masterdata.NewBase(), Name: "Kenya", ISOCode: "KE"}
	require.NoError(t, repos.Countries.Save(ctx, &other))
	port := masterdata.Port{Base: masterdata.NewBase(), Kind: masterdata.PortKindLoading, Name: "Mombasa", CountryID: other.ID}
	require.NoError(t, repos.Ports.Save(ctx, &port))
	local := masterdata.Port{Base: masterdata.NewBase(), Kind: masterdata.PortKindLoading, Name: "Nhava Sheva", CountryID: f.Country.ID}
	require.NoError(t, repos.Ports.Save(ctx, &local))

	ports, err := repos.Ports.FindAll(ctx, shared.Filter{Filters: map[string]any{"country_id": other.ID}})
	require.NoError(t, err)
	require.Len(t, ports, 1)
	assert.Equal(t, "Mombasa", ports[0].Name)

	dup := masterdata.Port{Base: masterdata.NewBase(), Kind: masterdata.PortKindLoading, Name: "Mombasa", CountryID: other.ID}
	assert.ErrorIs(t, repos.Ports.Save(ctx, &dup), shared.ErrAlreadyExists)

	discharge := masterdata.Port{Base: masterdata.NewBase(), Kind: masterdata.PortKindDischarge, Name: "Mombasa", CountryID: other.ID}
	assert.NoError(t, repos.Ports.Save(ctx, &discharge))
}

func TestGormMasterRepository_FindByIDs(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	repos := NewMasterRepositories(db)
	ctx := context.Background()

	found, err := repos.Exporters.FindByIDs(ctx, []uuid.UUID{f.Exporter.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Acme Exports", found[0].Name)

	empty, err := repos.Exporters.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormReferenceChecker_ActiveExists(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	checker := NewGormReferenceChecker(db)
	ctx := context.Background()

	ok, err := checker.ActiveExists(ctx, masterdata.KindConsignee, f.Consignee.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.ActiveExists(ctx, masterdata.KindConsignee, f.Exporter.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	f.Consignee.Deactivate()
	require.NoError(t, NewMasterRepositories(db).Consignees.Save(ctx, &f.Consignee))
	ok, err = checker.ActiveExists(ctx, masterdata.KindConsignee, f.Consignee.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = checker.ActiveExists(ctx, masterdata.Kind("planet"), uuid.New())
	assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
}

package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/trade"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a migrated in-memory SQLite database. A single connection
// keeps every query on the same in-memory schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

// testFixtures holds master rows referenced by documents in tests
type testFixtures struct {
	Country     masterdata.Country
	Exporter    masterdata.Exporter
	Consignee   masterdata.Consignee
	PaymentTerm masterdata.PaymentTerm
	Incoterm    masterdata.Incoterm
	Bank        masterdata.Bank
	UOM         masterdata.UOM
}

func seedFixtures(t *testing.T, db *gorm.DB) *testFixtures {
	t.Helper()
	ctx := context.Background()
	repos := NewMasterRepositories(db)

	f := &testFixtures{}
	f.Country = masterdata.Country{Base: masterdata.NewBase(), Name: "India", ISOCode: "IN"}
	require.NoError(t, repos.Countries.Save(ctx, &f.Country))

	f.Exporter = masterdata.Exporter{Base: masterdata.NewBase(), PartyDetails: masterdata.PartyDetails{
		Name: "Acme Exports", Address: "1 Harbour Road", CountryID: f.Country.ID,
	}}
	require.NoError(t, repos.Exporters.Save(ctx, &f.Exporter))

	f.Consignee = masterdata.Consignee{Base: masterdata.NewBase(), PartyDetails: masterdata.PartyDetails{
		Name: "Globex Trading", Address: "9 Dock Street", CountryID: f.Country.ID,
	}}
	require.NoError(t, repos.Consignees.Save(ctx, &f.Consignee))

	f.PaymentTerm = masterdata.PaymentTerm{NamedRecord: masterdata.NamedRecord{Base: masterdata.NewBase(), Name: "100% advance"}}
	require.NoError(t, repos.PaymentTerms.Save(ctx, &f.PaymentTerm))

	f.Incoterm = masterdata.Incoterm{Base: masterdata.NewBase(), Code: "FOB", Description: "Free on board"}
	require.NoError(t, repos.Incoterms.Save(ctx, &f.Incoterm))

	f.Bank = masterdata.Bank{Base: masterdata.NewBase(), BeneficiaryName: "Acme Exports", BankName: "First Bank", AccountNumber: "0001"}
	require.NoError(t, repos.Banks.Save(ctx, &f.Bank))

	f.UOM = masterdata.UOM{Base: masterdata.NewBase(), Code: "KG", Description: "Kilogram"}
	require.NoError(t, repos.UOMs.Save(ctx, &f.UOM))
	return f
}

func (f *testFixtures) parties() trade.Parties {
	return trade.Parties{ExporterID: f.Exporter.ID, ConsigneeID: f.Consignee.ID}
}

func (f *testFixtures) terms() trade.CommercialTerms {
	pt, inc := f.PaymentTerm.ID, f.Incoterm.ID
	return trade.CommercialTerms{PaymentTermID: &pt, IncotermID: &inc}
}

var (
	testMaker   = trade.Actor{ID: uuid.New(), Username: "maker", Maker: true}
	testChecker = trade.Actor{ID: uuid.New(), Username: "checker", Checker: true}
	testAdmin   = trade.Actor{ID: uuid.New(), Username: "admin", Admin: true}
)

package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradedocs/backend/internal/domain/shared"
)

func testCommercialHeader() CommercialInvoiceHeader {
	return CommercialInvoiceHeader{Parties: testParties(), BankID: uuid.New()}
}

func createTestCommercial(t *testing.T, maker Actor) *CommercialInvoice {
	ci, err := NewCommercialInvoice(maker, testCommercialHeader())
	require.NoError(t, err)
	return ci
}

func TestNewCommercialInvoice_RequiresBank(t *testing.T) {
	h := testCommercialHeader()
	h.BankID = uuid.Nil
	_, err := NewCommercialInvoice(makerActor(), h)
	assertCode(t, err, shared.CodeValidation)
}

func TestCommercialInvoice_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    CommercialStatus
		actor   Actor
		action  func(ci *CommercialInvoice, a Actor) error
		want    CommercialStatus
		errCode string
	}{
		{"submit draft", CommercialStatusDraft, makerActor(), (*CommercialInvoice).Submit, CommercialStatusPendingApproval, ""},
		{"submit rejected", CommercialStatusRejected, makerActor(), (*CommercialInvoice).Submit, CommercialStatusPendingApproval, ""},
		{"submit disabled", CommercialStatusDisabled, makerActor(), (*CommercialInvoice).Submit, CommercialStatusDisabled, shared.CodeInvalidTransition},
		{"approve pending", CommercialStatusPendingApproval, checkerActor(), (*CommercialInvoice).Approve, CommercialStatusApproved, ""},
		{"approve rejected", CommercialStatusRejected, checkerActor(), (*CommercialInvoice).Approve, CommercialStatusApproved, ""},
		{"approve draft", CommercialStatusDraft, checkerActor(), (*CommercialInvoice).Approve, CommercialStatusDraft, shared.CodeInvalidTransition},
		{"disable approved", CommercialStatusApproved, checkerActor(), (*CommercialInvoice).Disable, CommercialStatusDisabled, ""},
		{"disable draft", CommercialStatusDraft, checkerActor(), (*CommercialInvoice).Disable, CommercialStatusDraft, shared.CodeInvalidTransition},
		{"maker cannot disable", CommercialStatusApproved, makerActor(), (*CommercialInvoice).Disable, CommercialStatusApproved, shared.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ci := createTestCommercial(t, makerActor())
			ci.Status = tt.from
			ci.ClearEvents()

			err := tt.action(ci, tt.actor)
			if tt.errCode != "" {
				assertCode(t, err, tt.errCode)
				assert.Empty(t, ci.PendingEvents())
			} else {
				require.NoError(t, err)
				assert.Len(t, ci.PendingEvents(), 1)
			}
			assert.Equal(t, tt.want, ci.Status)
		})
	}
}

func TestCommercialInvoice_Reject(t *testing.T) {
	t.Run("requires notes", func(t *testing.T) {
		ci := createTestCommercial(t, makerActor())
		ci.Status = CommercialStatusPendingApproval
		assertCode(t, ci.Reject(checkerActor(), "   "), shared.CodeValidation)
		assert.Equal(t, CommercialStatusPendingApproval, ci.Status)
	})

	t.Run("stores trimmed notes", func(t *testing.T) {
		ci := createTestCommercial(t, makerActor())
		ci.Status = CommercialStatusPendingApproval
		ci.ClearEvents()

		require.NoError(t, ci.Reject(checkerActor(), "  rate too low "))
		assert.Equal(t, CommercialStatusRejected, ci.Status)
		assert.NotNil(t, ci.RejectedAt)
		entries := PendingAuditEntries(ci.PendingEvents())
		require.Len(t, entries, 1)
		assert.Equal(t, "rate too low", entries[0].Notes)
	})
}

func TestCommercialInvoice_DisabledIsReadOnly(t *testing.T) {
	maker := makerActor()
	ci := createTestCommercial(t, maker)
	item, err := ci.AddLineItem(maker, LineItemInput{Description: strPtr("x"), Quantity: decPtr("1"), UnitPriceUSD: decPtr("1")})
	require.NoError(t, err)
	itemID := item.ID
	ci.Status = CommercialStatusDisabled

	assert.False(t, ci.CanEdit(adminActor()))
	assertCode(t, ci.Update(adminActor(), testCommercialHeader()), shared.CodeForbidden)
	_, err = ci.UpdateLineItem(adminActor(), itemID, LineItemInput{Quantity: decPtr("2")})
	assertCode(t, err, shared.CodeForbidden)

	_, err = ci.Deactivate(adminActor())
	assertCode(t, err, shared.CodeInvalidState)

	_, err = ci.Deactivate(noRoleActor())
	assertCode(t, err, shared.CodeInvalidState)
}

func TestCommercialInvoice_Deactivate(t *testing.T) {
	ci := createTestCommercial(t, makerActor())
	_, err := ci.Deactivate(makerActor())
	assertCode(t, err, shared.CodeForbidden)

	ci.ClearEvents()
	changed, err := ci.Deactivate(checkerActor())
	require.NoError(t, err)
	assert.True(t, changed)
	entries := PendingAuditEntries(ci.PendingEvents())
	require.Len(t, entries, 1)
	assert.Equal(t, AuditActionDeactivated, entries[0].Action)
	assert.Equal(t, "Record deactivated", entries[0].Notes)
}

func TestCommercialInvoice_DraftPDF(t *testing.T) {
	maker := makerActor()
	ci := createTestCommercial(t, maker)

	assert.NoError(t, ci.CheckDraftPDFDownload(maker))
	assert.NoError(t, ci.CheckDraftPDFDownload(adminActor()))
	assertCode(t, ci.CheckDraftPDFDownload(makerActor()), shared.CodeForbidden)
	assertCode(t, ci.CheckDraftPDFDownload(checkerActor()), shared.CodeForbidden)

	ci.Status = CommercialStatusApproved
	assertCode(t, ci.CheckDraftPDFDownload(maker), shared.CodeInvalidTransition)
	assert.NoError(t, ci.CheckPDFDownload(checkerActor()))

	ci.Status = CommercialStatusDisabled
	assertCode(t, ci.CheckPDFDownload(checkerActor()), shared.CodeInvalidTransition)
}

func TestCommercialInvoice_GrandTotal(t *testing.T) {
	maker := makerActor()
	ci := createTestCommercial(t, maker)
	ci.Freight = dec("120.50")
	ci.Insurance = dec("10")
	_, err := ci.AddLineItem(maker, LineItemInput{Description: strPtr("x"), Quantity: decPtr("3"), UnitPriceUSD: decPtr("33.33")})
	require.NoError(t, err)

	assert.True(t, dec("99.99").Equal(ci.TotalAmountUSD))
	assert.True(t, dec("230.49").Equal(ci.GrandTotal()))
}

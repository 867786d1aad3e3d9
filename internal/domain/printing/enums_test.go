package printing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tradedocs/backend/internal/domain/trade"
)

func TestVariant_IsValid(t *testing.T) {
	assert.True(t, VariantFinal.IsValid())
	assert.True(t, VariantDraft.IsValid())
	assert.False(t, Variant("PREVIEW").IsValid())
	assert.False(t, Variant("").IsValid())
}

func TestPaperSize_Dimensions(t *testing.T) {
	tests := []struct {
		size   PaperSize
		width  int
		height int
	}{
		{PaperSizeA4, 210, 297},
		{PaperSizeLetter, 216, 279},
		{PaperSizeLegal, 216, 356},
		{PaperSize("UNKNOWN"), 210, 297},
	}

	for _, tt := range tests {
		t.Run(tt.size.String(), func(t *testing.T) {
			w, h := tt.size.Dimensions()
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
		})
	}
}

func TestPaperSize_IsValid(t *testing.T) {
	assert.True(t, PaperSizeA4.IsValid())
	assert.False(t, PaperSize("A5").IsValid())
}

func TestOrientation_IsValid(t *testing.T) {
	assert.True(t, OrientationPortrait.IsValid())
	assert.True(t, OrientationLandscape.IsValid())
	assert.False(t, Orientation("DIAGONAL").IsValid())
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name     string
		docType  trade.DocumentType
		number   string
		variant  Variant
		expected string
	}{
		{"proforma final", trade.DocumentTypeProformaInvoice, "PI-2025-0001", VariantFinal, "PI_PI-2025-0001.pdf"},
		{"packing list final", trade.DocumentTypePackingList, "PL-2025-0007", VariantFinal, "PL_PL-2025-0007.pdf"},
		{"commercial final", trade.DocumentTypeCommercialInvoice, "CI-2025-0003", VariantFinal, "CI_CI-2025-0003.pdf"},
		{"commercial draft", trade.DocumentTypeCommercialInvoice, "CI-2025-0003", VariantDraft, "CI_CI-2025-0003_DRAFT.pdf"},
		{"unknown type", trade.DocumentType("OTHER"), "X-1", VariantFinal, "DOC_X-1.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileName(tt.docType, tt.number, tt.variant))
		})
	}
}

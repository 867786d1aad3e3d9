package printing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
)

func TestNewArchivedDocument(t *testing.T) {
	docID := uuid.New()
	user := uuid.New()

	doc, err := NewArchivedDocument(trade.DocumentTypeProformaInvoice, docID, "PI-2025-0001", VariantFinal, "filesystem", "PI/2025/PI-2025-0001/x.pdf", 2048, user)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, doc.ID)
	assert.Equal(t, docID, doc.DocumentID)
	assert.Equal(t, int64(2048), doc.SizeBytes)
	assert.Equal(t, user, doc.RenderedBy)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestNewArchivedDocument_Validation(t *testing.T) {
	tests := []struct {
		name    string
		docID   uuid.UUID
		variant Variant
		key     string
	}{
		{"missing document", uuid.Nil, VariantFinal, "k"},
		{"unknown variant", uuid.New(), Variant("X"), "k"},
		{"missing key", uuid.New(), VariantFinal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewArchivedDocument(trade.DocumentTypeCommercialInvoice, tt.docID, "CI-2025-0001", tt.variant, "s3", tt.key, 1, uuid.New())
			require.Error(t, err)
			assert.True(t, shared.IsCode(err, shared.CodeValidation))
		})
	}
}

func TestArchiveKey(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	key := ArchiveKey(trade.DocumentTypeCommercialInvoice, "CI-2025-0009", at)
	assert.Equal(t, "CI/2025/CI-2025-0009/20250304T050607Z.pdf", key)
}

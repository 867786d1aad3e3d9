package printing

import "github.com/tradedocs/backend/internal/domain/trade"

// Variant distinguishes the approved copy from the watermarked preview.
type Variant string

const (
	VariantFinal Variant = "FINAL"
	VariantDraft Variant = "DRAFT"
)

func (v Variant) IsValid() bool  { return v == VariantFinal || v == VariantDraft }
func (v Variant) String() string { return string(v) }

type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"
	PaperSizeLetter PaperSize = "LETTER"
	PaperSizeLegal  PaperSize = "LEGAL"
)

// paperMM is width by height in portrait, millimetres.
var paperMM = map[PaperSize][2]int{
	PaperSizeA4:     {210, 297},
	PaperSizeLetter: {216, 279},
	PaperSizeLegal:  {216, 356},
}

func (p PaperSize) IsValid() bool {
	_, ok := paperMM[p]
	return ok
}

func (p PaperSize) String() string { return string(p) }

// Dimensions is the portrait size in millimetres. Unknown sizes fall back to A4.
func (p PaperSize) Dimensions() (width, height int) {
	d, ok := paperMM[p]
	if !ok {
		d = paperMM[PaperSizeA4]
	}
	return d[0], d[1]
}

type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

func (o Orientation) IsValid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}

func (o Orientation) String() string { return string(o) }

var filePrefixes = map[trade.DocumentType]string{
	trade.DocumentTypeProformaInvoice:   "PI",
	trade.DocumentTypePackingList:       "PL",
	trade.DocumentTypeCommercialInvoice: "CI",
}

// FilePrefix is the short code leading download names and archive keys.
func FilePrefix(docType trade.DocumentType) string {
	if p, ok := filePrefixes[docType]; ok {
		return p
	}
	return "DOC"
}

// FileName is the attachment name, PI_PI-2025-0001.pdf or
// CI_CI-2025-0003_DRAFT.pdf for a draft.
func FileName(docType trade.DocumentType, number string, variant Variant) string {
	name := FilePrefix(docType) + "_" + number
	if variant == VariantDraft {
		name += "_DRAFT"
	}
	return name + ".pdf"
}

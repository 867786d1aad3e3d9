package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	appprinting "github.com/tradedocs/backend/internal/application/printing"
	"github.com/tradedocs/backend/internal/domain/trade"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// Declaration printed above the bank block of invoices
const Declaration = "We declare that this invoice shows the actual price of the goods described and that all particulars are true and correct."

// FooterText is repeated at the bottom of every page
const FooterText = "This is a computer-generated document. Signature is not required."

var documentTemplates = map[trade.DocumentType]string{
	trade.DocumentTypeProformaInvoice:   "templates/proforma_invoice.html",
	trade.DocumentTypePackingList:       "templates/packing_list.html",
	trade.DocumentTypeCommercialInvoice: "templates/commercial_invoice.html",
}

// TemplateEngine lays out document views as HTML using the embedded templates
type TemplateEngine struct {
	templates map[trade.DocumentType]*template.Template
}

// NewTemplateEngine parses the embedded layout and document templates
func NewTemplateEngine() (*TemplateEngine, error) {
	e := &TemplateEngine{templates: make(map[trade.DocumentType]*template.Template, len(documentTemplates))}
	for docType, file := range documentTemplates {
		tmpl, err := template.New("layout.html").Funcs(FuncMap()).ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		e.templates[docType] = tmpl
	}
	return e, nil
}

// Render lays out the view of one document
func (e *TemplateEngine) Render(view *appprinting.DocumentView) (string, error) {
	if view == nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "document view is nil", nil)
	}
	tmpl, ok := e.templates[view.Type]
	if !ok {
		return "", NewRenderError(ErrCodeTemplateFailed, "no template for "+string(view.Type), nil)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", view); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// FuncMap returns the functions available to document templates
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatMoney":   formatMoney,
		"formatQty":     formatQty,
		"formatWeight":  formatWeight,
		"formatDate":    formatDate,
		"amountInWords": amountInWords,
		"title":         titleCase,
		"upper":         strings.ToUpper,
		"safeHTML":      safeHTML,
		"inc":           func(i int) int { return i + 1 },
		"nonZero":       func(d decimal.Decimal) bool { return !d.IsZero() },
		"declaration":   func() string { return Declaration },
		"footer":        func() string { return FooterText },
	}
}

// formatMoney formats an amount with thousands separators and two decimals
// Example: 1234.5 -> "1,234.50"
func formatMoney(d decimal.Decimal) string {
	return groupThousands(d, trade.PriceScale)
}

// formatQty formats a quantity with three decimals
func formatQty(d decimal.Decimal) string {
	return groupThousands(d, trade.QuantityScale)
}

// formatWeight formats a weight in kilograms with three decimals
func formatWeight(d decimal.Decimal) string {
	return groupThousands(d, 3)
}

func groupThousands(d decimal.Decimal, places int32) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	intPart, decPart, _ := strings.Cut(d.StringFixed(places), ".")
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(c)
	}
	if decPart != "" {
		return sign + b.String() + "." + decPart
	}
	return sign + b.String()
}

// formatDate formats a date as DD-MM-YYYY, blank when unset
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02-01-2006")
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// safeHTML marks terms-and-conditions markup entered by checkers as trusted
func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

var (
	smallNumbers = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen",
	}
	tensNames  = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
	scaleNames = []string{"", "thousand", "million", "billion", "trillion"}
)

// amountInWords spells the whole-dollar part of an amount,
// e.g. 1250.75 -> "One Thousand Two Hundred Fifty USD Only"
func amountInWords(d decimal.Decimal) string {
	n := d.Abs().IntPart()
	return titleCase(numberToWords(n)) + " USD Only"
}

func numberToWords(n int64) string {
	if n == 0 {
		return smallNumbers[0]
	}

	var groups []string
	for scale := 0; n > 0 && scale < len(scaleNames); scale++ {
		chunk := n % 1000
		n /= 1000
		if chunk == 0 {
			continue
		}
		words := chunkToWords(chunk)
		if scaleNames[scale] != "" {
			words += " " + scaleNames[scale]
		}
		groups = append([]string{words}, groups...)
	}
	return strings.Join(groups, " ")
}

func chunkToWords(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, smallNumbers[n/100]+" hundred")
		n %= 100
	}
	switch {
	case n == 0:
	case n < 20:
		parts = append(parts, smallNumbers[n])
	case n%10 == 0:
		parts = append(parts, tensNames[n/10])
	default:
		parts = append(parts, tensNames[n/10]+"-"+smallNumbers[n%10])
	}
	return strings.Join(parts, " ")
}

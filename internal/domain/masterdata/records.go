package masterdata

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/shared"
)

var (
	isoCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func required(field, value string) error {
	if value == "" {
		return shared.NewValidationError(field, "This field is required.")
	}
	return nil
}

func maxLen(field, value string, n int) error {
	if len([]rune(value)) > n {
		return shared.NewValidationError(field, fmt.Sprintf("Ensure this field has no more than %d characters.", n))
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Country is a sovereign country referenced by parties and ports
type Country struct {
	Base
	Name    string
	ISOCode string
}

// Normalize implements Record
func (c *Country) Normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	c.ISOCode = strings.ToUpper(strings.TrimSpace(c.ISOCode))
	if err := firstErr(required("name", c.Name), maxLen("name", c.Name, 100)); err != nil {
		return err
	}
	if !isoCodePattern.MatchString(c.ISOCode) {
		return shared.NewValidationError("iso_code", "ISO code must be exactly 2 letters.")
	}
	return nil
}

// DisplayName implements Record
func (c *Country) DisplayName() string { return c.Name }

// Bank holds the beneficiary bank details printed on invoices
type Bank struct {
	Base
	BeneficiaryName string
	BankName        string
	BranchName      string
	BranchAddress   string
	AccountNumber   string
	SwiftCode       string
}

// Normalize implements Record
func (b *Bank) Normalize() error {
	b.BeneficiaryName = strings.TrimSpace(b.BeneficiaryName)
	b.BankName = strings.TrimSpace(b.BankName)
	b.BranchName = strings.TrimSpace(b.BranchName)
	b.AccountNumber = strings.TrimSpace(b.AccountNumber)
	b.SwiftCode = strings.ToUpper(strings.TrimSpace(b.SwiftCode))
	return firstErr(
		required("beneficiary_name", b.BeneficiaryName),
		required("bank_name", b.BankName),
		required("account_number", b.AccountNumber),
		maxLen("account_number", b.AccountNumber, 64),
		maxLen("swift_code", b.SwiftCode, 20),
	)
}

// DisplayName implements Record
func (b *Bank) DisplayName() string { return b.BankName + " - " + b.AccountNumber }

// PartyDetails are the fields shared by exporters, consignees and buyers
type PartyDetails struct {
	Name          string
	Address       string
	CountryID     uuid.UUID
	ContactPerson string
	PhoneNo       string
	Email         string
}

func (p *PartyDetails) normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if err := firstErr(required("name", p.Name), maxLen("name", p.Name, 150)); err != nil {
		return err
	}
	if p.CountryID == uuid.Nil {
		return shared.NewValidationError("country", "This field is required.")
	}
	if p.Email != "" {
		if !emailPattern.MatchString(p.Email) {
			return shared.NewValidationError("email_id", "Enter a valid email address.")
		}
	}
	return nil
}

// Exporter is the shipping party issuing documents
type Exporter struct {
	Base
	PartyDetails
}

// Normalize implements Record
func (e *Exporter) Normalize() error { return e.normalize() }

// DisplayName implements Record
func (e *Exporter) DisplayName() string { return e.Name }

// Consignee is the receiving party of a shipment
type Consignee struct {
	Base
	PartyDetails
}

// Normalize implements Record
func (c *Consignee) Normalize() error { return c.normalize() }

// DisplayName implements Record
func (c *Consignee) DisplayName() string { return c.Name }

// Buyer is the purchasing party when it differs from the consignee
type Buyer struct {
	Base
	PartyDetails
}

// Normalize implements Record
func (b *Buyer) Normalize() error { return b.normalize() }

// DisplayName implements Record
func (b *Buyer) DisplayName() string { return b.Name }

// RegisteredAddress is an exporter's registered office printed in document headers
type RegisteredAddress struct {
	Base
	Name      string
	Address   string
	CountryID *uuid.UUID
}

// Normalize implements Record
func (r *RegisteredAddress) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	return firstErr(required("name", r.Name), required("address", r.Address))
}

// DisplayName implements Record
func (r *RegisteredAddress) DisplayName() string { return r.Name }

// PortKind distinguishes loading, discharge and final destination ports
type PortKind string

const (
	PortKindLoading          PortKind = "LOADING"
	PortKindDischarge        PortKind = "DISCHARGE"
	PortKindFinalDestination PortKind = "FINAL_DESTINATION"
)

// IsValid checks if the port kind is known
func (k PortKind) IsValid() bool {
	return k == PortKindLoading || k == PortKindDischarge || k == PortKindFinalDestination
}

// Port is a named place in a country used in shipping routes
type Port struct {
	Base
	Kind      PortKind
	Name      string
	CountryID uuid.UUID
}

// Normalize implements Record
func (p *Port) Normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Kind = PortKind(strings.ToUpper(strings.TrimSpace(string(p.Kind))))
	if !p.Kind.IsValid() {
		return shared.NewValidationError("kind", "Kind must be LOADING, DISCHARGE or FINAL_DESTINATION.")
	}
	if err := firstErr(required("name", p.Name), maxLen("name", p.Name, 150)); err != nil {
		return err
	}
	if p.CountryID == uuid.Nil {
		return shared.NewValidationError("country", "This field is required.")
	}
	return nil
}

// DisplayName implements Record
func (p *Port) DisplayName() string { return p.Name }

// Incoterm is an international commercial term such as FOB or CIF
type Incoterm struct {
	Base
	Code        string
	Description string
}

// Normalize implements Record
func (i *Incoterm) Normalize() error {
	i.Code = strings.ToUpper(strings.TrimSpace(i.Code))
	i.Description = strings.TrimSpace(i.Description)
	return firstErr(required("code", i.Code), maxLen("code", i.Code, 10))
}

// DisplayName implements Record
func (i *Incoterm) DisplayName() string { return i.Code }

// UOM is a unit of measure for packed quantities
type UOM struct {
	Base
	Code        string
	Description string
}

// Normalize implements Record
func (u *UOM) Normalize() error {
	u.Code = strings.TrimSpace(u.Code)
	u.Description = strings.TrimSpace(u.Description)
	return firstErr(required("code", u.Code), maxLen("code", u.Code, 20))
}

// DisplayName implements Record
func (u *UOM) DisplayName() string { return u.Code }

// NamedRecord is a master with a single unique name
type NamedRecord struct {
	Base
	Name string
}

func (n *NamedRecord) normalize() error {
	n.Name = strings.TrimSpace(n.Name)
	return firstErr(required("name", n.Name), maxLen("name", n.Name, 150))
}

// DisplayName implements Record
func (n *NamedRecord) DisplayName() string { return n.Name }

// PaymentTerm describes how an invoice is paid
type PaymentTerm struct{ NamedRecord }

// Normalize implements Record
func (p *PaymentTerm) Normalize() error { return p.normalize() }

// PreCarriage is the transport mode before the main carriage
type PreCarriage struct{ NamedRecord }

// Normalize implements Record
func (p *PreCarriage) Normalize() error { return p.normalize() }

// PlaceOfReceipt is where the carrier takes charge of the goods
type PlaceOfReceipt struct{ NamedRecord }

// Normalize implements Record
func (p *PlaceOfReceipt) Normalize() error { return p.normalize() }

// TermsTemplate is reusable terms-and-conditions HTML for proforma invoices
type TermsTemplate struct {
	Base
	Name        string
	ContentHTML string
}

// Normalize implements Record
func (t *TermsTemplate) Normalize() error {
	t.Name = strings.TrimSpace(t.Name)
	return firstErr(required("name", t.Name), maxLen("name", t.Name, 150))
}

// DisplayName implements Record
func (t *TermsTemplate) DisplayName() string { return t.Name }

var (
	_ Record = (*Country)(nil)
	_ Record = (*Bank)(nil)
	_ Record = (*Exporter)(nil)
	_ Record = (*Consignee)(nil)
	_ Record = (*Buyer)(nil)
	_ Record = (*RegisteredAddress)(nil)
	_ Record = (*Port)(nil)
	_ Record = (*Incoterm)(nil)
	_ Record = (*UOM)(nil)
	_ Record = (*PaymentTerm)(nil)
	_ Record = (*PreCarriage)(nil)
	_ Record = (*PlaceOfReceipt)(nil)
	_ Record = (*TermsTemplate)(nil)
)

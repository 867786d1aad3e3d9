package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// ProformaStatus represents the status of a proforma invoice
type ProformaStatus string

const (
	ProformaStatusDraft           ProformaStatus = "DRAFT"
	ProformaStatusPendingApproval ProformaStatus = "PENDING_APPROVAL"
	ProformaStatusApproved        ProformaStatus = "APPROVED"
	ProformaStatusRework          ProformaStatus = "REWORK"
)

// IsValid checks if the status is a valid ProformaStatus
func (s ProformaStatus) IsValid() bool {
	switch s {
	case ProformaStatusDraft, ProformaStatusPendingApproval, ProformaStatusApproved, ProformaStatusRework:
		return true
	}
	return false
}

// String returns the string representation of ProformaStatus
func (s ProformaStatus) String() string {
	return string(s)
}

// proformaSources lists the legal source states per action.
// Rejection lands in REWORK; there is no dedicated rejected state.
var proformaSources = map[Action][]ProformaStatus{
	ActionSubmit:      {ProformaStatusDraft, ProformaStatusRework},
	ActionApprove:     {ProformaStatusPendingApproval, ProformaStatusRework},
	ActionReject:      {ProformaStatusPendingApproval},
	ActionDownloadPDF: {ProformaStatusApproved},
}

// ProformaInvoiceHeader holds the editable header fields
type ProformaInvoiceHeader struct {
	Date time.Time
	Parties
	CommercialTerms
	Shipping
	BankID                *uuid.UUID
	TermsTemplateID       *uuid.UUID
	TermsAndConditions    string
	BuyerOrderNo          string
	BuyerOrderDate        *time.Time
	OtherReferences       string
	MarksAndNos           string
	ContainerNo           string
	KindOfPackages        string
	ValidityForAcceptance *time.Time
	ValidityForShipment   *time.Time
	PartialShipment       bool
	Transshipment         bool
	BankCharges           decimal.Decimal
}

func (h ProformaInvoiceHeader) validate() error {
	if err := h.Parties.validate(); err != nil {
		return err
	}
	if h.PaymentTermID == nil || *h.PaymentTermID == uuid.Nil {
		return shared.NewValidationError("payment_term", "This field is required.")
	}
	if h.IncotermID == nil || *h.IncotermID == uuid.Nil {
		return shared.NewValidationError("incoterm", "This field is required.")
	}
	if h.BankCharges.IsNegative() {
		return shared.NewValidationError("bank_charges", "Bank charges cannot be negative.")
	}
	return nil
}

// MasterRefs lists the master records the header points at
func (h ProformaInvoiceHeader) MasterRefs() []MasterRef {
	refs := h.Parties.refs()
	refs = append(refs, h.CommercialTerms.refs()...)
	refs = append(refs, h.Shipping.refs()...)
	refs = appendRef(refs, "bank", MasterBank, h.BankID)
	return appendRef(refs, "terms_and_conditions_template", MasterTermsTemplate, h.TermsTemplateID)
}

// ProformaInvoice is the aggregate root for proforma invoices
type ProformaInvoice struct {
	shared.BaseAggregateRoot
	shared.SoftDelete
	Number string
	ProformaInvoiceHeader
	Status         ProformaStatus
	TotalAmountUSD decimal.Decimal
	MakerID        uuid.UUID
	LastCheckerID  *uuid.UUID
	SubmittedAt    *time.Time
	ApprovedAt     *time.Time
	ReworkedAt     *time.Time
	LineItems      []LineItem
}

// NewProformaInvoice creates a draft proforma invoice owned by the actor
func NewProformaInvoice(actor Actor, header ProformaInvoiceHeader) (*ProformaInvoice, error) {
	if !IsMaker(actor) {
		return nil, shared.NewForbiddenError("Not allowed to create.")
	}
	if header.Date.IsZero() {
		header.Date = time.Now()
	}
	if err := header.validate(); err != nil {
		return nil, err
	}

	pi := &ProformaInvoice{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		SoftDelete:            shared.NewSoftDelete(),
		ProformaInvoiceHeader: header,
		Status:                ProformaStatusDraft,
		TotalAmountUSD:        decimal.Zero,
		MakerID:               actor.ID,
		LineItems:             make([]LineItem, 0),
	}
	pi.audit(AuditActionCreated, actor, "")
	return pi, nil
}

// DocumentType implements Workflow
func (p *ProformaInvoice) DocumentType() DocumentType {
	return DocumentTypeProformaInvoice
}

// StatusName implements Workflow
func (p *ProformaInvoice) StatusName() string {
	return string(p.Status)
}

// CanEdit reports whether the actor may change header or lines:
// admin always, maker in DRAFT or REWORK, checker in REWORK.
func (p *ProformaInvoice) CanEdit(actor Actor) bool {
	if IsAdmin(actor) {
		return true
	}
	if IsMaker(actor) && (p.Status == ProformaStatusDraft || p.Status == ProformaStatusRework) {
		return true
	}
	return IsChecker(actor) && p.Status == ProformaStatusRework
}

// Update replaces the editable header fields
func (p *ProformaInvoice) Update(actor Actor, header ProformaInvoiceHeader) error {
	if !p.CanEdit(actor) {
		return shared.NewForbiddenError("Not allowed to edit in current status.")
	}
	if header.Date.IsZero() {
		header.Date = p.Date
	}
	if err := header.validate(); err != nil {
		return err
	}
	p.ProformaInvoiceHeader = header
	p.UpdatedAt = time.Now()
	p.audit(AuditActionEdited, actor, "")
	return nil
}

// Submit moves DRAFT or REWORK to PENDING_APPROVAL
func (p *ProformaInvoice) Submit(actor Actor) error {
	if !IsMaker(actor) {
		return notAllowed(ActionSubmit)
	}
	if err := requireSource(p.DocumentType(), ActionSubmit, p.Status, proformaSources[ActionSubmit]); err != nil {
		return err
	}
	now := time.Now()
	p.Status = ProformaStatusPendingApproval
	p.SubmittedAt = &now
	p.UpdatedAt = now
	p.audit(AuditActionSubmitted, actor, "")
	return nil
}

// Approve moves PENDING_APPROVAL or REWORK to APPROVED and records the checker
func (p *ProformaInvoice) Approve(actor Actor) error {
	if !IsChecker(actor) {
		return notAllowed(ActionApprove)
	}
	if err := requireSource(p.DocumentType(), ActionApprove, p.Status, proformaSources[ActionApprove]); err != nil {
		return err
	}
	now := time.Now()
	checker := actor.ID
	p.Status = ProformaStatusApproved
	p.ApprovedAt = &now
	p.LastCheckerID = &checker
	p.UpdatedAt = now
	p.audit(AuditActionApproved, actor, "")
	return nil
}

// Reject sends a pending invoice back to REWORK. The audit action is
// REJECTED even though the resulting status is REWORK. Notes are optional.
func (p *ProformaInvoice) Reject(actor Actor, notes string) error {
	if !IsChecker(actor) {
		return notAllowed(ActionReject)
	}
	if err := requireSource(p.DocumentType(), ActionReject, p.Status, proformaSources[ActionReject]); err != nil {
		return err
	}
	now := time.Now()
	checker := actor.ID
	p.Status = ProformaStatusRework
	p.ReworkedAt = &now
	p.LastCheckerID = &checker
	p.UpdatedAt = now
	p.audit(AuditActionRejected, actor, notes)
	return nil
}

// Deactivate soft-deletes the invoice: admin in any state, maker only in DRAFT
func (p *ProformaInvoice) Deactivate(actor Actor) (bool, error) {
	if !IsAdmin(actor) && !(IsMaker(actor) && p.Status == ProformaStatusDraft) {
		return false, shared.NewForbiddenError("Not allowed to deactivate.")
	}
	if !p.SoftDelete.Deactivate() {
		return false, nil
	}
	p.UpdatedAt = time.Now()
	p.audit(AuditActionDeactivated, actor, "")
	return true, nil
}

// AddLineItem appends a line and recomputes the total
func (p *ProformaInvoice) AddLineItem(actor Actor, in LineItemInput) (*LineItem, error) {
	if !p.CanEdit(actor) {
		return nil, shared.NewForbiddenError("Not allowed to add line items.")
	}
	item, err := NewLineItem(p.ID, in, DefaultUnit)
	if err != nil {
		return nil, err
	}
	p.LineItems = append(p.LineItems, *item)
	p.recalculateTotal()
	p.audit(AuditActionEdited, actor, "Line item added")
	return &p.LineItems[len(p.LineItems)-1], nil
}

// UpdateLineItem patches an active line and recomputes the total
func (p *ProformaInvoice) UpdateLineItem(actor Actor, itemID uuid.UUID, in LineItemInput) (*LineItem, error) {
	if !p.CanEdit(actor) {
		return nil, shared.NewForbiddenError("Not allowed to edit line items.")
	}
	idx := lineItems(p.LineItems).activeIndex(itemID)
	if idx < 0 {
		return nil, lineNotFound()
	}
	updated := p.LineItems[idx]
	if err := updated.apply(in); err != nil {
		return nil, err
	}
	p.LineItems[idx] = updated
	p.recalculateTotal()
	p.audit(AuditActionEdited, actor, "Line item updated")
	return &p.LineItems[idx], nil
}

// DeactivateLineItem soft-deletes an active line and recomputes the total
func (p *ProformaInvoice) DeactivateLineItem(actor Actor, itemID uuid.UUID) (*LineItem, error) {
	if !p.CanEdit(actor) {
		return nil, shared.NewForbiddenError("Not allowed to delete line items.")
	}
	idx := lineItems(p.LineItems).activeIndex(itemID)
	if idx < 0 {
		return nil, lineNotFound()
	}
	p.LineItems[idx].SoftDelete.Deactivate()
	p.LineItems[idx].UpdatedAt = time.Now()
	p.recalculateTotal()
	p.audit(AuditActionEdited, actor, "Line item deleted")
	return &p.LineItems[idx], nil
}

// ActiveLineItems returns the active lines in creation order
func (p *ProformaInvoice) ActiveLineItems() []LineItem {
	return lineItems(p.LineItems).active()
}

// CheckPDFDownload verifies the final PDF may be produced for the actor
func (p *ProformaInvoice) CheckPDFDownload(actor Actor) error {
	if err := requireSource(p.DocumentType(), ActionDownloadPDF, p.Status, proformaSources[ActionDownloadPDF]); err != nil {
		return err
	}
	if !HasAnyRole(actor) {
		return shared.NewForbiddenError("Not allowed to download PDF.")
	}
	return nil
}

// NumberKind implements Numbered
func (p *ProformaInvoice) NumberKind() string { return PrefixProformaInvoice }

// NumberYear implements Numbered
func (p *ProformaInvoice) NumberYear() int { return p.CreatedAt.Year() }

// HasNumber implements Numbered
func (p *ProformaInvoice) HasNumber() bool { return p.Number != "" }

// AssignNumber sets the number once; later calls are ignored
func (p *ProformaInvoice) AssignNumber(number string) {
	if p.Number == "" {
		p.Number = number
	}
}

func (p *ProformaInvoice) recalculateTotal() {
	p.TotalAmountUSD = lineItems(p.LineItems).total()
	p.UpdatedAt = time.Now()
}

func (p *ProformaInvoice) audit(action AuditAction, actor Actor, notes string) {
	p.RecordEvent(newAuditRecordedEvent(NewAuditEntry(p.DocumentType(), p.ID, action, actor, notes)))
}

var (
	_ Workflow = (*ProformaInvoice)(nil)
	_ Numbered = (*ProformaInvoice)(nil)
)

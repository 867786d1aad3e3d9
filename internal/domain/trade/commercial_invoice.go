package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// CommercialStatus represents the status of a commercial invoice
type CommercialStatus string

const (
	CommercialStatusDraft           CommercialStatus = "DRAFT"
	CommercialStatusPendingApproval CommercialStatus = "PENDING_APPROVAL"
	CommercialStatusApproved        CommercialStatus = "APPROVED"
	CommercialStatusRejected        CommercialStatus = "REJECTED"
	CommercialStatusDisabled        CommercialStatus = "DISABLED"
)

// IsValid checks if the status is a valid CommercialStatus
func (s CommercialStatus) IsValid() bool {
	switch s {
	case CommercialStatusDraft, CommercialStatusPendingApproval, CommercialStatusApproved,
		CommercialStatusRejected, CommercialStatusDisabled:
		return true
	}
	return false
}

// String returns the string representation of CommercialStatus
func (s CommercialStatus) String() string {
	return string(s)
}

// IsReadOnly reports whether no edits are allowed in this status
func (s CommercialStatus) IsReadOnly() bool {
	return s == CommercialStatusApproved || s == CommercialStatusDisabled
}

var commercialSources = map[Action][]CommercialStatus{
	ActionSubmit:      {CommercialStatusDraft, CommercialStatusRejected},
	ActionApprove:     {CommercialStatusPendingApproval, CommercialStatusRejected},
	ActionReject:      {CommercialStatusPendingApproval},
	ActionDisable:     {CommercialStatusApproved},
	ActionDownloadPDF: {CommercialStatusApproved},
	ActionDownloadDraftPDF: {
		CommercialStatusDraft, CommercialStatusPendingApproval, CommercialStatusRejected,
	},
}

// CommercialInvoiceHeader holds the editable header fields
type CommercialInvoiceHeader struct {
	Date time.Time
	Parties
	CommercialTerms
	Shipping
	BankID        uuid.UUID
	PackingListID *uuid.UUID
	FOBRate       decimal.Decimal
	Freight       decimal.Decimal
	Insurance     decimal.Decimal
	LCDetails     string
}

func (h CommercialInvoiceHeader) validate() error {
	if err := h.Parties.validate(); err != nil {
		return err
	}
	if h.BankID == uuid.Nil {
		return shared.NewValidationError("bank", "This field is required.")
	}
	if h.FOBRate.IsNegative() {
		return shared.NewValidationError("fob_rate", "FOB rate cannot be negative.")
	}
	if h.Freight.IsNegative() {
		return shared.NewValidationError("freight", "Freight cannot be negative.")
	}
	if h.Insurance.IsNegative() {
		return shared.NewValidationError("insurance", "Insurance cannot be negative.")
	}
	return nil
}

// MasterRefs lists the master records the header points at
func (h CommercialInvoiceHeader) MasterRefs() []MasterRef {
	refs := h.Parties.refs()
	refs = append(refs, h.CommercialTerms.refs()...)
	refs = append(refs, h.Shipping.refs()...)
	bank := h.BankID
	return appendRef(refs, "bank", MasterBank, &bank)
}

// CommercialInvoice is the aggregate root for commercial invoices
type CommercialInvoice struct {
	shared.BaseAggregateRoot
	shared.SoftDelete
	Number string
	CommercialInvoiceHeader
	Status         CommercialStatus
	TotalAmountUSD decimal.Decimal
	MakerID        uuid.UUID
	LastCheckerID  *uuid.UUID
	SubmittedAt    *time.Time
	ApprovedAt     *time.Time
	RejectedAt     *time.Time
	DisabledAt     *time.Time
	LineItems      []LineItem
}

// NewCommercialInvoice creates a draft commercial invoice owned by the actor
func NewCommercialInvoice(actor Actor, header CommercialInvoiceHeader) (*CommercialInvoice, error) {
	return newCommercialInvoice(actor, header, "")
}

func newCommercialInvoice(actor Actor, header CommercialInvoiceHeader, createdNotes string) (*CommercialInvoice, error) {
	if !IsMaker(actor) {
		return nil, shared.NewForbiddenError("Not allowed to create.")
	}
	if header.Date.IsZero() {
		header.Date = time.Now()
	}
	if err := header.validate(); err != nil {
		return nil, err
	}

	ci := &CommercialInvoice{
		BaseAggregateRoot:       shared.NewBaseAggregateRoot(),
		SoftDelete:              shared.NewSoftDelete(),
		CommercialInvoiceHeader: header,
		Status:                  CommercialStatusDraft,
		TotalAmountUSD:          decimal.Zero,
		MakerID:                 actor.ID,
		LineItems:               make([]LineItem, 0),
	}
	ci.audit(AuditActionCreated, actor, createdNotes)
	return ci, nil
}

// NewCommercialInvoiceFromPackingList builds a draft invoice with one line per
// priced group. Either every line is valid or no invoice is returned.
func NewCommercialInvoiceFromPackingList(actor Actor, header CommercialInvoiceHeader, lines []LineItemInput) (*CommercialInvoice, error) {
	ci, err := newCommercialInvoice(actor, header, "Created from Packing List")
	if err != nil {
		return nil, err
	}
	for _, in := range lines {
		item, err := NewLineItem(ci.ID, in, "")
		if err != nil {
			return nil, err
		}
		ci.LineItems = append(ci.LineItems, *item)
	}
	ci.recalculateTotal()
	return ci, nil
}

// DocumentType implements Workflow
func (c *CommercialInvoice) DocumentType() DocumentType {
	return DocumentTypeCommercialInvoice
}

// StatusName implements Workflow
func (c *CommercialInvoice) StatusName() string {
	return string(c.Status)
}

// CanEdit reports whether the actor may change header or lines.
// APPROVED and DISABLED are read-only for everyone.
func (c *CommercialInvoice) CanEdit(actor Actor) bool {
	if c.Status.IsReadOnly() {
		return false
	}
	if IsAdmin(actor) {
		return true
	}
	return HasAnyRole(actor) && (c.Status == CommercialStatusDraft || c.Status == CommercialStatusRejected)
}

func (c *CommercialInvoice) editDenied(reason string) error {
	if c.Status == CommercialStatusDisabled {
		return shared.NewForbiddenError("Disabled invoices are read-only.")
	}
	return shared.NewForbiddenError(reason)
}

// Update replaces the editable header fields
func (c *CommercialInvoice) Update(actor Actor, header CommercialInvoiceHeader) error {
	if !c.CanEdit(actor) {
		return c.editDenied("Not allowed to edit in current status.")
	}
	if header.Date.IsZero() {
		header.Date = c.Date
	}
	if err := header.validate(); err != nil {
		return err
	}
	c.CommercialInvoiceHeader = header
	c.UpdatedAt = time.Now()
	c.audit(AuditActionEdited, actor, "")
	return nil
}

// Submit moves DRAFT or REJECTED to PENDING_APPROVAL
func (c *CommercialInvoice) Submit(actor Actor) error {
	if !IsMaker(actor) {
		return notAllowed(ActionSubmit)
	}
	if err := requireSource(c.DocumentType(), ActionSubmit, c.Status, commercialSources[ActionSubmit]); err != nil {
		return err
	}
	now := time.Now()
	c.Status = CommercialStatusPendingApproval
	c.SubmittedAt = &now
	c.UpdatedAt = now
	c.audit(AuditActionSubmitted, actor, "")
	return nil
}

// Approve moves PENDING_APPROVAL or REJECTED to APPROVED
func (c *CommercialInvoice) Approve(actor Actor) error {
	if !IsChecker(actor) {
		return notAllowed(ActionApprove)
	}
	if err := requireSource(c.DocumentType(), ActionApprove, c.Status, commercialSources[ActionApprove]); err != nil {
		return err
	}
	now := time.Now()
	checker := actor.ID
	c.Status = CommercialStatusApproved
	c.ApprovedAt = &now
	c.LastCheckerID = &checker
	c.UpdatedAt = now
	c.audit(AuditActionApproved, actor, "")
	return nil
}

// Reject moves PENDING_APPROVAL to REJECTED. Notes are mandatory.
func (c *CommercialInvoice) Reject(actor Actor, notes string) error {
	if !IsChecker(actor) {
		return notAllowed(ActionReject)
	}
	if err := requireSource(c.DocumentType(), ActionReject, c.Status, commercialSources[ActionReject]); err != nil {
		return err
	}
	trimmed, err := requireNotes(notes)
	if err != nil {
		return err
	}
	now := time.Now()
	checker := actor.ID
	c.Status = CommercialStatusRejected
	c.RejectedAt = &now
	c.LastCheckerID = &checker
	c.UpdatedAt = now
	c.audit(AuditActionRejected, actor, trimmed)
	return nil
}

// Disable moves APPROVED to the terminal DISABLED state
func (c *CommercialInvoice) Disable(actor Actor) error {
	if !IsChecker(actor) {
		return notAllowed(ActionDisable)
	}
	if err := requireSource(c.DocumentType(), ActionDisable, c.Status, commercialSources[ActionDisable]); err != nil {
		return err
	}
	now := time.Now()
	checker := actor.ID
	c.Status = CommercialStatusDisabled
	c.DisabledAt = &now
	c.LastCheckerID = &checker
	c.UpdatedAt = now
	c.audit(AuditActionDisabled, actor, "")
	return nil
}

// Deactivate soft-deletes the invoice. A disabled invoice is refused before
// the permission check.
func (c *CommercialInvoice) Deactivate(actor Actor) (bool, error) {
	if c.Status == CommercialStatusDisabled {
		return false, shared.NewDomainError(shared.CodeInvalidState, "Cannot deactivate a disabled invoice.")
	}
	if !IsChecker(actor) {
		return false, notAllowed(ActionDeactivate)
	}
	if !c.SoftDelete.Deactivate() {
		return false, nil
	}
	c.UpdatedAt = time.Now()
	c.audit(AuditActionDeactivated, actor, "Record deactivated")
	return true, nil
}

// AddLineItem appends a line and recomputes the total
func (c *CommercialInvoice) AddLineItem(actor Actor, in LineItemInput) (*LineItem, error) {
	if !c.CanEdit(actor) {
		return nil, c.editDenied("Not allowed to add line items.")
	}
	item, err := NewLineItem(c.ID, in, "")
	if err != nil {
		return nil, err
	}
	c.LineItems = append(c.LineItems, *item)
	c.recalculateTotal()
	c.audit(AuditActionEdited, actor, "Line item added")
	return &c.LineItems[len(c.LineItems)-1], nil
}

// UpdateLineItem patches an active line and recomputes the total
func (c *CommercialInvoice) UpdateLineItem(actor Actor, itemID uuid.UUID, in LineItemInput) (*LineItem, error) {
	if !c.CanEdit(actor) {
		return nil, c.editDenied("Not allowed to edit line items.")
	}
	idx := lineItems(c.LineItems).activeIndex(itemID)
	if idx < 0 {
		return nil, lineNotFound()
	}
	updated := c.LineItems[idx]
	if err := updated.apply(in); err != nil {
		return nil, err
	}
	c.LineItems[idx] = updated
	c.recalculateTotal()
	c.audit(AuditActionEdited, actor, "Line item updated")
	return &c.LineItems[idx], nil
}

// DeactivateLineItem soft-deletes an active line and recomputes the total
func (c *CommercialInvoice) DeactivateLineItem(actor Actor, itemID uuid.UUID) (*LineItem, error) {
	if !c.CanEdit(actor) {
		return nil, c.editDenied("Not allowed to delete line items.")
	}
	idx := lineItems(c.LineItems).activeIndex(itemID)
	if idx < 0 {
		return nil, lineNotFound()
	}
	c.LineItems[idx].SoftDelete.Deactivate()
	c.LineItems[idx].UpdatedAt = time.Now()
	c.recalculateTotal()
	c.audit(AuditActionEdited, actor, "Line item deleted")
	return &c.LineItems[idx], nil
}

// ActiveLineItems returns the active lines in creation order
func (c *CommercialInvoice) ActiveLineItems() []LineItem {
	return lineItems(c.LineItems).active()
}

// CheckPDFDownload verifies the final PDF may be produced for the actor
func (c *CommercialInvoice) CheckPDFDownload(actor Actor) error {
	if err := requireSource(c.DocumentType(), ActionDownloadPDF, c.Status, commercialSources[ActionDownloadPDF]); err != nil {
		return err
	}
	if !HasAnyRole(actor) {
		return shared.NewForbiddenError("Not allowed to download PDF.")
	}
	return nil
}

// CheckDraftPDFDownload verifies a watermarked draft may be produced.
// Only an admin or the invoice's own maker may download it.
func (c *CommercialInvoice) CheckDraftPDFDownload(actor Actor) error {
	if err := requireSource(c.DocumentType(), ActionDownloadDraftPDF, c.Status, commercialSources[ActionDownloadDraftPDF]); err != nil {
		return err
	}
	if IsAdmin(actor) || (IsMaker(actor) && actor.ID == c.MakerID) {
		return nil
	}
	return shared.NewForbiddenError("Only the maker of this invoice can download a draft.")
}

// GrandTotal returns the line total plus freight and insurance
func (c *CommercialInvoice) GrandTotal() decimal.Decimal {
	return c.TotalAmountUSD.Add(c.Freight).Add(c.Insurance)
}

// NumberKind implements Numbered
func (c *CommercialInvoice) NumberKind() string { return PrefixCommercialInvoice }

// NumberYear implements Numbered
func (c *CommercialInvoice) NumberYear() int { return c.CreatedAt.Year() }

// HasNumber implements Numbered
func (c *CommercialInvoice) HasNumber() bool { return c.Number != "" }

// AssignNumber sets the number once; later calls are ignored
func (c *CommercialInvoice) AssignNumber(number string) {
	if c.Number == "" {
		c.Number = number
	}
}

func (c *CommercialInvoice) recalculateTotal() {
	c.TotalAmountUSD = lineItems(c.LineItems).total()
	c.UpdatedAt = time.Now()
}

func (c *CommercialInvoice) audit(action AuditAction, actor Actor, notes string) {
	c.RecordEvent(newAuditRecordedEvent(NewAuditEntry(c.DocumentType(), c.ID, action, actor, notes)))
}

var (
	_ Workflow = (*CommercialInvoice)(nil)
	_ Numbered = (*CommercialInvoice)(nil)
)

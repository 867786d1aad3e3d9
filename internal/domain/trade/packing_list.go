package trade

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// PackingListStatus represents the status of a packing list
type PackingListStatus string

const (
	PackingListStatusDraft               PackingListStatus = "DRAFT"
	PackingListStatusPendingApproval     PackingListStatus = "PENDING_APPROVAL"
	PackingListStatusApproved            PackingListStatus = "APPROVED"
	PackingListStatusRework              PackingListStatus = "REWORK"
	PackingListStatusPermanentlyRejected PackingListStatus = "PERMANENTLY_REJECTED"
)

// IsValid checks if the status is a valid PackingListStatus
func (s PackingListStatus) IsValid() bool {
	switch s {
	case PackingListStatusDraft, PackingListStatusPendingApproval, PackingListStatusApproved,
		PackingListStatusRework, PackingListStatusPermanentlyRejected:
		return true
	}
	return false
}

// String returns the string representation of PackingListStatus
func (s PackingListStatus) String() string {
	return string(s)
}

var packingListSources = map[Action][]PackingListStatus{
	ActionSubmit:  {PackingListStatusDraft, PackingListStatusRework},
	ActionApprove: {PackingListStatusPendingApproval},
	ActionReject:  {PackingListStatusPendingApproval},
	ActionPermanentlyReject: {
		PackingListStatusDraft, PackingListStatusPendingApproval,
		PackingListStatusApproved, PackingListStatusRework,
		PackingListStatusPermanentlyRejected,
	},
	ActionDownloadPDF: {PackingListStatusApproved},
}

// PackingListHeader holds the editable header fields
type PackingListHeader struct {
	InvoiceNumber string
	Date          time.Time
	Parties
	CommercialTerms
	Shipping
	ProformaInvoiceID         *uuid.UUID
	NotifyParty               string
	PONumber                  string
	PODate                    *time.Time
	LCNumber                  string
	LCDate                    *time.Time
	BLNumber                  string
	BLDate                    *time.Time
	SONumber                  string
	SODate                    *time.Time
	OtherRef                  string
	OtherRefDate              *time.Time
	OriginCountryID           *uuid.UUID
	FinalDestinationCountryID *uuid.UUID
}

// MasterRefs lists the master records the header points at
func (h PackingListHeader) MasterRefs() []MasterRef {
	refs := h.Parties.refs()
	refs = append(refs, h.CommercialTerms.refs()...)
	refs = append(refs, h.Shipping.refs()...)
	refs = appendRef(refs, "origin_country", MasterCountry, h.OriginCountryID)
	return appendRef(refs, "final_destination_country", MasterCountry, h.FinalDestinationCountryID)
}

// ContainerItem is one packed item inside a container
type ContainerItem struct {
	ID                    uuid.UUID
	ContainerID           uuid.UUID
	Position              int
	HSCode                string
	ItemCode              string
	PackagesNumberAndKind string
	DescriptionOfGoods    string
	Quantity              decimal.Decimal
	UOMID                 *uuid.UUID
	BatchDetails          string
	NetWeight             decimal.Decimal
	TareWeight            decimal.Decimal
	GrossWeight           decimal.Decimal
	shared.SoftDelete
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Container groups items packed together
type Container struct {
	ID                 uuid.UUID
	PackingListID      uuid.UUID
	Position           int
	ContainerReference string
	MarksAndNumbers    string
	NetWeight          decimal.Decimal
	TareWeight         decimal.Decimal
	GrossWeight        decimal.Decimal
	Items              []ContainerItem
	shared.SoftDelete
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContainerItemInput describes an item in a create or update payload.
// A nil ID creates a new item.
type ContainerItemInput struct {
	ID                    *uuid.UUID
	HSCode                string
	ItemCode              string
	PackagesNumberAndKind string
	DescriptionOfGoods    string
	Quantity              decimal.Decimal
	UOMID                 *uuid.UUID
	BatchDetails          string
	NetWeight             decimal.Decimal
	TareWeight            decimal.Decimal
}

// ContainerInput describes a container in a create or update payload.
// A nil ID creates a new container.
type ContainerInput struct {
	ID                 *uuid.UUID
	ContainerReference string
	MarksAndNumbers    string
	Items              []ContainerItemInput
}

func (in ContainerItemInput) validate(path string) error {
	if in.Quantity.IsNegative() {
		return shared.NewValidationError(path+".quantity", "Quantity cannot be negative.")
	}
	if in.NetWeight.IsNegative() {
		return shared.NewValidationError(path+".net_weight", "Net weight cannot be negative.")
	}
	if in.TareWeight.IsNegative() {
		return shared.NewValidationError(path+".tare_weight", "Tare weight cannot be negative.")
	}
	return nil
}

// applyTo copies the input onto an item and recomputes its gross weight
func (in ContainerItemInput) applyTo(item *ContainerItem) {
	item.HSCode = in.HSCode
	item.ItemCode = in.ItemCode
	item.PackagesNumberAndKind = in.PackagesNumberAndKind
	item.DescriptionOfGoods = in.DescriptionOfGoods
	item.Quantity = in.Quantity.Round(QuantityScale)
	item.UOMID = in.UOMID
	item.BatchDetails = in.BatchDetails
	item.NetWeight = in.NetWeight.Round(QuantityScale)
	item.TareWeight = in.TareWeight.Round(QuantityScale)
	item.GrossWeight = item.NetWeight.Add(item.TareWeight)
	item.UpdatedAt = time.Now()
}

// recalculateWeights sums the weights of active items
func (c *Container) recalculateWeights() {
	net, tare := decimal.Zero, decimal.Zero
	for _, it := range c.Items {
		if !it.IsActive {
			continue
		}
		net = net.Add(it.NetWeight)
		tare = tare.Add(it.TareWeight)
	}
	c.NetWeight = net
	c.TareWeight = tare
	c.GrossWeight = net.Add(tare)
	c.UpdatedAt = time.Now()
}

// ActiveItems returns active items in position order
func (c *Container) ActiveItems() []ContainerItem {
	out := make([]ContainerItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.IsActive {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// PackingList is the aggregate root for packing lists.
// Packing lists keep no audit ledger.
type PackingList struct {
	shared.BaseAggregateRoot
	shared.SoftDelete
	Number string
	PackingListHeader
	Status                PackingListStatus
	MakerID               uuid.UUID
	LastCheckerID         *uuid.UUID
	SubmittedAt           *time.Time
	ApprovedAt            *time.Time
	ReworkedAt            *time.Time
	PermanentlyRejectedAt *time.Time
	Containers            []Container
}

// NewPackingList creates a draft packing list with its containers
func NewPackingList(actor Actor, header PackingListHeader, containers []ContainerInput) (*PackingList, error) {
	if !IsMaker(actor) {
		return nil, shared.NewForbiddenError("Not allowed to create.")
	}
	if header.Date.IsZero() {
		header.Date = time.Now()
	}
	if err := header.Parties.validate(); err != nil {
		return nil, err
	}

	pl := &PackingList{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SoftDelete:        shared.NewSoftDelete(),
		PackingListHeader: header,
		Status:            PackingListStatusDraft,
		MakerID:           actor.ID,
		Containers:        make([]Container, 0, len(containers)),
	}
	if err := pl.mergeContainers(containers); err != nil {
		return nil, err
	}
	return pl, nil
}

// DocumentType implements Workflow
func (p *PackingList) DocumentType() DocumentType {
	return DocumentTypePackingList
}

// StatusName implements Workflow
func (p *PackingList) StatusName() string {
	return string(p.Status)
}

// CanEdit reports whether the actor may change the packing list.
// APPROVED is read-only for everyone.
func (p *PackingList) CanEdit(actor Actor) bool {
	if p.Status == PackingListStatusApproved {
		return false
	}
	if IsAdmin(actor) {
		return true
	}
	if IsMaker(actor) && (p.Status == PackingListStatusDraft || p.Status == PackingListStatusRework) {
		return true
	}
	return IsChecker(actor) && p.Status == PackingListStatusRework
}

// Update replaces the header and reconciles containers and items by id.
// Existing containers or items missing from the payload are deactivated.
func (p *PackingList) Update(actor Actor, header PackingListHeader, containers []ContainerInput) error {
	if p.Status == PackingListStatusApproved {
		return shared.NewForbiddenError("Approved packing lists cannot be edited.")
	}
	if !p.CanEdit(actor) {
		return shared.NewForbiddenError("Not allowed to edit in current status.")
	}
	if header.Date.IsZero() {
		header.Date = p.Date
	}
	if err := header.Parties.validate(); err != nil {
		return err
	}
	if err := p.mergeContainers(containers); err != nil {
		return err
	}
	p.PackingListHeader = header
	p.UpdatedAt = time.Now()
	return nil
}

// mergeContainers validates the whole payload first so a failure leaves the
// aggregate untouched, then applies it.
func (p *PackingList) mergeContainers(inputs []ContainerInput) error {
	byID := make(map[uuid.UUID]int, len(p.Containers))
	for i, c := range p.Containers {
		if c.IsActive {
			byID[c.ID] = i
		}
	}
	for ci, in := range inputs {
		var existing *Container
		if in.ID != nil {
			idx, ok := byID[*in.ID]
			if !ok {
				return shared.NewValidationError(fmt.Sprintf("containers[%d].id", ci), "Container not found.")
			}
			existing = &p.Containers[idx]
		}
		for ii, item := range in.Items {
			path := fmt.Sprintf("containers[%d].items[%d]", ci, ii)
			if err := item.validate(path); err != nil {
				return err
			}
			if item.ID != nil {
				if existing == nil || !containsActiveItem(existing, *item.ID) {
					return shared.NewValidationError(path+".id", "Item not found.")
				}
			}
		}
	}

	now := time.Now()
	kept := make(map[uuid.UUID]bool, len(inputs))
	for ci, in := range inputs {
		var c *Container
		if in.ID != nil {
			c = &p.Containers[byID[*in.ID]]
		} else {
			p.Containers = append(p.Containers, Container{
				ID:            uuid.New(),
				PackingListID: p.ID,
				SoftDelete:    shared.NewSoftDelete(),
				CreatedAt:     now,
			})
			c = &p.Containers[len(p.Containers)-1]
		}
		c.Position = ci
		c.ContainerReference = in.ContainerReference
		c.MarksAndNumbers = in.MarksAndNumbers
		kept[c.ID] = true
		mergeItems(c, in.Items, now)
		c.recalculateWeights()
	}
	for i := range p.Containers {
		c := &p.Containers[i]
		if c.IsActive && !kept[c.ID] {
			c.SoftDelete.Deactivate()
			c.UpdatedAt = now
		}
	}
	return nil
}

func mergeItems(c *Container, inputs []ContainerItemInput, now time.Time) {
	kept := make(map[uuid.UUID]bool, len(inputs))
	for pos, in := range inputs {
		var item *ContainerItem
		if in.ID != nil {
			for i := range c.Items {
				if c.Items[i].ID == *in.ID {
					item = &c.Items[i]
					break
				}
			}
		}
		if item == nil {
			c.Items = append(c.Items, ContainerItem{
				ID:          uuid.New(),
				ContainerID: c.ID,
				SoftDelete:  shared.NewSoftDelete(),
				CreatedAt:   now,
			})
			item = &c.Items[len(c.Items)-1]
		}
		item.Position = pos
		in.applyTo(item)
		kept[item.ID] = true
	}
	for i := range c.Items {
		it := &c.Items[i]
		if it.IsActive && !kept[it.ID] {
			it.SoftDelete.Deactivate()
			it.UpdatedAt = now
		}
	}
}

func containsActiveItem(c *Container, id uuid.UUID) bool {
	for _, it := range c.Items {
		if it.ID == id && it.IsActive {
			return true
		}
	}
	return false
}

// ActiveContainers returns active containers in position order
func (p *PackingList) ActiveContainers() []Container {
	out := make([]Container, 0, len(p.Containers))
	for _, c := range p.Containers {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// Submit moves DRAFT or REWORK to PENDING_APPROVAL
func (p *PackingList) Submit(actor Actor) error {
	if !IsMaker(actor) {
		return notAllowed(ActionSubmit)
	}
	if err := requireSource(p.DocumentType(), ActionSubmit, p.Status, packingListSources[ActionSubmit]); err != nil {
		return err
	}
	now := time.Now()
	p.Status = PackingListStatusPendingApproval
	p.SubmittedAt = &now
	p.UpdatedAt = now
	return nil
}

// Approve moves PENDING_APPROVAL to APPROVED
func (p *PackingList) Approve(actor Actor) error {
	if !IsChecker(actor) {
		return notAllowed(ActionApprove)
	}
	if err := requireSource(p.DocumentType(), ActionApprove, p.Status, packingListSources[ActionApprove]); err != nil {
		return err
	}
	now := time.Now()
	checker := actor.ID
	p.Status = PackingListStatusApproved
	p.ApprovedAt = &now
	p.LastCheckerID = &checker
	p.UpdatedAt = now
	return nil
}

// Reject sends a pending packing list back to REWORK. Notes are mandatory
// and are checked before the source state.
func (p *PackingList) Reject(actor Actor, notes string) error {
	if !IsChecker(actor) {
		return notAllowed(ActionReject)
	}
	if _, err := requireNotes(notes); err != nil {
		return err
	}
	if err := requireSource(p.DocumentType(), ActionReject, p.Status, packingListSources[ActionReject]); err != nil {
		return err
	}
	now := time.Now()
	checker := actor.ID
	p.Status = PackingListStatusRework
	p.ReworkedAt = &now
	p.LastCheckerID = &checker
	p.UpdatedAt = now
	return nil
}

// PermanentlyReject moves any state to the terminal PERMANENTLY_REJECTED.
// Repeating it on a rejected list is accepted.
func (p *PackingList) PermanentlyReject(actor Actor) error {
	if !IsChecker(actor) {
		return notAllowed(ActionPermanentlyReject)
	}
	if err := requireSource(p.DocumentType(), ActionPermanentlyReject, p.Status, packingListSources[ActionPermanentlyReject]); err != nil {
		return err
	}
	now := time.Now()
	checker := actor.ID
	p.Status = PackingListStatusPermanentlyRejected
	p.PermanentlyRejectedAt = &now
	p.LastCheckerID = &checker
	p.UpdatedAt = now
	return nil
}

// Deactivate soft-deletes the packing list: admin or checker in any state,
// maker only in DRAFT
func (p *PackingList) Deactivate(actor Actor) (bool, error) {
	if !IsChecker(actor) && !(IsMaker(actor) && p.Status == PackingListStatusDraft) {
		return false, shared.NewForbiddenError("Not allowed to deactivate.")
	}
	if !p.SoftDelete.Deactivate() {
		return false, nil
	}
	p.UpdatedAt = time.Now()
	return true, nil
}

// CheckPDFDownload verifies the PDF may be produced for the actor
func (p *PackingList) CheckPDFDownload(actor Actor) error {
	if err := requireSource(p.DocumentType(), ActionDownloadPDF, p.Status, packingListSources[ActionDownloadPDF]); err != nil {
		return err
	}
	if !HasAnyRole(actor) {
		return shared.NewForbiddenError("Not allowed to download PDF.")
	}
	return nil
}

// NumberKind implements Numbered
func (p *PackingList) NumberKind() string { return PrefixPackingList }

// NumberYear implements Numbered
func (p *PackingList) NumberYear() int { return p.CreatedAt.Year() }

// HasNumber implements Numbered
func (p *PackingList) HasNumber() bool { return p.Number != "" }

// AssignNumber sets the number once; later calls are ignored
func (p *PackingList) AssignNumber(number string) {
	if p.Number == "" {
		p.Number = number
	}
}

var (
	_ Workflow = (*PackingList)(nil)
	_ Numbered = (*PackingList)(nil)
)

package trade

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// EveryContainerMarker is appended to the description of a group that spans
// more than one container
const EveryContainerMarker = " In every container"

// AggregationKey identifies one commercial-invoice line built from a packing list.
// UnitID is uuid.Nil for items without a unit of measure.
type AggregationKey struct {
	ItemCode string
	UnitID   uuid.UUID
}

// NewAggregationKey builds the key for an optional unit id
func NewAggregationKey(itemCode string, unitID *uuid.UUID) AggregationKey {
	key := AggregationKey{ItemCode: itemCode}
	if unitID != nil {
		key.UnitID = *unitID
	}
	return key
}

// UnitPtr returns the unit id or nil when the group has no unit
func (k AggregationKey) UnitPtr() *uuid.UUID {
	if k.UnitID == uuid.Nil {
		return nil
	}
	id := k.UnitID
	return &id
}

// AggregatedLine is one proposed commercial-invoice line
type AggregatedLine struct {
	Key                   AggregationKey
	HSCode                string
	ItemCode              string
	Description           string
	PackagesNumberAndKind string
	Quantity              decimal.Decimal
	UnitID                *uuid.UUID
	Unit                  string
	ContainerIDs          []uuid.UUID
	RateLabel             string
}

// UnitResolver maps a unit-of-measure id to its display code
type UnitResolver func(id uuid.UUID) (string, bool)

// AggregatePackingList groups the active items of the active containers of an
// approved packing list by (item code, unit). The first item seen supplies the
// metadata of its group; groups keep first-seen order.
func AggregatePackingList(pl *PackingList, units UnitResolver) ([]AggregatedLine, error) {
	if pl.Status != PackingListStatusApproved {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Packing list must be approved before creating a commercial invoice.")
	}

	index := make(map[AggregationKey]int)
	seen := make(map[AggregationKey]map[uuid.UUID]struct{})
	lines := make([]AggregatedLine, 0)

	for _, c := range pl.ActiveContainers() {
		for _, it := range c.ActiveItems() {
			key := NewAggregationKey(it.ItemCode, it.UOMID)
			i, ok := index[key]
			if !ok {
				unit := ""
				if key.UnitID != uuid.Nil && units != nil {
					unit, _ = units(key.UnitID)
				}
				lines = append(lines, AggregatedLine{
					Key:                   key,
					HSCode:                it.HSCode,
					ItemCode:              it.ItemCode,
					Description:           it.DescriptionOfGoods,
					PackagesNumberAndKind: it.PackagesNumberAndKind,
					Quantity:              decimal.Zero,
					UnitID:                key.UnitPtr(),
					Unit:                  unit,
					RateLabel:             rateLabel(unit),
				})
				i = len(lines) - 1
				index[key] = i
				seen[key] = make(map[uuid.UUID]struct{})
			}
			lines[i].Quantity = lines[i].Quantity.Add(it.Quantity)
			if _, dup := seen[key][c.ID]; !dup {
				seen[key][c.ID] = struct{}{}
				lines[i].ContainerIDs = append(lines[i].ContainerIDs, c.ID)
			}
		}
	}

	if len(lines) == 0 {
		return nil, shared.NewValidationError("packing_list_id", "Packing list has no active items to aggregate.")
	}

	for i := range lines {
		ids := lines[i].ContainerIDs
		sort.Slice(ids, func(a, b int) bool { return ids[a].String() < ids[b].String() })
		if len(ids) > 1 && !strings.Contains(lines[i].Description, strings.TrimSpace(EveryContainerMarker)) {
			lines[i].Description = strings.TrimSpace(lines[i].Description + EveryContainerMarker)
		}
	}
	return lines, nil
}

func rateLabel(unit string) string {
	if unit == "" {
		return "Rate per UOM"
	}
	return "Rate per " + unit
}

// PriceAggregatedLines turns aggregated groups into invoice line inputs using
// the supplied unit prices. Every group must carry a positive price and a
// positive quantity; all offending groups are reported together.
func PriceAggregatedLines(groups []AggregatedLine, prices map[AggregationKey]decimal.Decimal) ([]LineItemInput, error) {
	var problems []string
	inputs := make([]LineItemInput, 0, len(groups))

	for _, g := range groups {
		price, ok := prices[g.Key]
		if !ok || !price.IsPositive() {
			problems = append(problems, fmt.Sprintf(
				"%s must be entered for item %s and be greater than zero.", g.RateLabel, g.ItemCode))
		}
		if !g.Quantity.IsPositive() {
			problems = append(problems, fmt.Sprintf(
				"Quantity must be greater than zero for item %s.", g.ItemCode))
		}
		if len(problems) > 0 {
			continue
		}

		g := g
		p := price
		desc := g.Description
		if strings.TrimSpace(desc) == "" {
			desc = g.ItemCode
		}
		inputs = append(inputs, LineItemInput{
			Description:           &desc,
			HSCode:                &g.HSCode,
			ItemCode:              &g.ItemCode,
			PackagesNumberAndKind: &g.PackagesNumberAndKind,
			Quantity:              &g.Quantity,
			Unit:                  &g.Unit,
			UnitID:                g.UnitID,
			UnitPriceUSD:          &p,
		})
	}

	if len(problems) > 0 {
		return nil, shared.NewValidationError("", strings.Join(problems, " "))
	}
	return inputs, nil
}

package shared

// BaseAggregateRoot is embedded by aggregates. Events recorded by domain
// methods stay queued until the repository drains them inside its save
// transaction.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	events  []DomainEvent
}

// NewBaseAggregateRoot starts a fresh aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// BumpVersion marks a state change
func (a *BaseAggregateRoot) BumpVersion() {
	a.Version++
}

// RecordEvent queues e for the next save
func (a *BaseAggregateRoot) RecordEvent(e DomainEvent) {
	a.events = append(a.events, e)
}

// PendingEvents returns the queued events in recording order
func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	return a.events
}

// ClearEvents empties the queue
func (a *BaseAggregateRoot) ClearEvents() {
	a.events = nil
}

package masterdata

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/infrastructure/logger"
	"github.com/tradedocs/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Page size bounds for master listings
const (
	DefaultPageSize = 25
	MaxPageSize     = 200
)

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

// Reference is a foreign key from a master record to another master kind
type Reference struct {
	Field string
	Kind  masterdata.Kind
	ID    uuid.UUID
}

// Payload is a create or update request for records of type T
type Payload[T any] interface {
	// Build returns a new record populated from the payload
	Build() *T
	// ApplyTo copies the payload onto an existing record
	ApplyTo(record *T)
	// References lists the master records the payload points at
	References() []Reference
}

// recordPtr constrains *T to the master Record behaviour
type recordPtr[T any] interface {
	*T
	masterdata.Record
}

// Service implements list, get, create, update and deactivate for one master kind
type Service[T any, PT recordPtr[T], R any] struct {
	kind       masterdata.Kind
	repo       masterdata.Repository[T]
	refs       masterdata.ReferenceChecker
	toResponse func(*T) R
	logger     *zap.Logger
}

// NewService creates a master data service for one kind
func NewService[T any, PT recordPtr[T], R any](
	kind masterdata.Kind,
	repo masterdata.Repository[T],
	refs masterdata.ReferenceChecker,
	toResponse func(*T) R,
	log *zap.Logger,
) *Service[T, PT, R] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service[T, PT, R]{kind: kind, repo: repo, refs: refs, toResponse: toResponse, logger: log}
}

// Kind returns the master kind served
func (s *Service[T, PT, R]) Kind() masterdata.Kind {
	return s.kind
}

// List returns records matching the filter
func (s *Service[T, PT, R]) List(ctx context.Context, filter ListFilter) ([]R, int64, error) {
	domainFilter := filter.toDomain()
	records, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]R, len(records))
	for i := range records {
		out[i] = s.toResponse(&records[i])
	}
	return out, total, nil
}

// GetByID returns an active record
func (s *Service[T, PT, R]) GetByID(ctx context.Context, id uuid.UUID) (*R, error) {
	record, err := s.load(ctx, id, false)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(record)
	return &resp, nil
}

// Create validates and stores a new record
func (s *Service[T, PT, R]) Create(ctx context.Context, actor trade.Actor, in Payload[T]) (*R, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "masterdata", "Create", telemetry.AttrMasterKind.String(string(s.kind)))
	defer span.End()

	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	record := in.Build()
	if err := s.validate(ctx, record, in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, record); err != nil {
		telemetry.RecordError(span, err)
		return nil, s.saveError(err)
	}

	s.log(ctx, record).Info("Master record created")
	resp := s.toResponse(record)
	return &resp, nil
}

// Update replaces the fields of an active record
func (s *Service[T, PT, R]) Update(ctx context.Context, actor trade.Actor, id uuid.UUID, in Payload[T]) (*R, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "masterdata", "Update", telemetry.AttrMasterKind.String(string(s.kind)))
	defer span.End()

	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	record, err := s.load(ctx, id, false)
	if err != nil {
		return nil, err
	}
	in.ApplyTo(record)
	if err := s.validate(ctx, record, in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, record); err != nil {
		telemetry.RecordError(span, err)
		return nil, s.saveError(err)
	}

	resp := s.toResponse(record)
	return &resp, nil
}

// Deactivate hides the record from pickers. Deactivating an inactive record
// is a no-op and keeps the original deactivation time.
func (s *Service[T, PT, R]) Deactivate(ctx context.Context, actor trade.Actor, id uuid.UUID) (*R, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "masterdata", "Deactivate", telemetry.AttrMasterKind.String(string(s.kind)))
	defer span.End()

	if err := requireWriter(actor); err != nil {
		return nil, err
	}
	record, err := s.load(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if PT(record).Deactivate() {
		if err := s.repo.Save(ctx, record); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		s.log(ctx, record).Info("Master record deactivated")
	}
	resp := s.toResponse(record)
	return &resp, nil
}

func (s *Service[T, PT, R]) validate(ctx context.Context, record *T, in Payload[T]) error {
	if err := PT(record).Normalize(); err != nil {
		return err
	}
	for _, ref := range in.References() {
		if ref.ID == uuid.Nil {
			continue
		}
		ok, err := s.refs.ActiveExists(ctx, ref.Kind, ref.ID)
		if err != nil {
			return err
		}
		if !ok {
			return shared.NewValidationError(ref.Field, invalidChoice)
		}
	}
	return nil
}

func (s *Service[T, PT, R]) load(ctx context.Context, id uuid.UUID, includeInactive bool) (*T, error) {
	var (
		record *T
		err    error
	)
	if includeInactive {
		record, err = s.repo.FindByIDIncludingInactive(ctx, id)
	} else {
		record, err = s.repo.FindByID(ctx, id)
	}
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewNotFoundError(kindLabel(s.kind))
		}
		return nil, err
	}
	return record, nil
}

func (s *Service[T, PT, R]) saveError(err error) error {
	if shared.IsCode(err, shared.CodeAlreadyExists) {
		return shared.NewDomainError(shared.CodeAlreadyExists, kindLabel(s.kind)+" with these details already exists.")
	}
	return err
}

func (s *Service[T, PT, R]) log(ctx context.Context, record *T) *zap.Logger {
	return logger.Enrich(ctx, s.logger).With(
		zap.String("master_kind", string(s.kind)),
		zap.String("master_id", PT(record).GetID().String()),
		zap.String("name", PT(record).DisplayName()),
	)
}

// requireWriter allows checkers and admins to maintain master data
func requireWriter(actor trade.Actor) error {
	if !trade.IsChecker(actor) {
		return shared.NewForbiddenError("Not allowed to modify master data.")
	}
	return nil
}

// kindLabel turns "payment_term" into "Payment term"
func kindLabel(kind masterdata.Kind) string {
	label := strings.ReplaceAll(string(kind), "_", " ")
	switch kind {
	case masterdata.KindUOM:
		return "UOM"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

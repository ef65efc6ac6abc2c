package tramite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tramites/backend/internal/domain/shared"
)

// Filter narrows tramite listings. Soft-deleted requisitions are excluded
// unless OnlyDeleted is set.
type Filter struct {
	Estado        *Estado
	SolicitadoPor *uuid.UUID
	AutorizadorID *uuid.UUID
	From          *time.Time
	To            *time.Time
	OnlyDeleted   bool
}

// RequisitionRepository persists requisition aggregates
type RequisitionRepository interface {
	// Save creates a new requisition and stores its pending events in the
	// outbox within the same transaction
	Save(ctx context.Context, r *Requisition) error
	// FindByID loads a requisition, including soft-deleted ones
	FindByID(ctx context.Context, id uuid.UUID) (*Requisition, error)
	// SaveWithLockAndEvents updates a requisition with an optimistic-lock
	// check on expectedVersion and stores its pending events in the outbox
	// within the same transaction. Returns ErrConcurrencyConflict when the
	// stored version no longer matches.
	SaveWithLockAndEvents(ctx context.Context, r *Requisition, expectedVersion int) error
	// List returns a page of requisitions matching the filter
	List(ctx context.Context, filter Filter, page shared.Pagination) (*shared.Paginated[*Requisition], error)
	// CountByFolioPrefix counts folios starting with the given prefix,
	// used for sequential folio assignment
	CountByFolioPrefix(ctx context.Context, prefix string) (int64, error)
}

// ReimbursementRepository persists reimbursement aggregates
type ReimbursementRepository interface {
	Save(ctx context.Context, r *Reimbursement) error
	FindByID(ctx context.Context, id uuid.UUID) (*Reimbursement, error)
	SaveWithLockAndEvents(ctx context.Context, r *Reimbursement, expectedVersion int) error
	List(ctx context.Context, filter Filter, page shared.Pagination) (*shared.Paginated[*Reimbursement], error)
	CountByFolioPrefix(ctx context.Context, prefix string) (int64, error)
}

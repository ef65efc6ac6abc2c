package tramite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tramites/backend/internal/domain/shared"
	"github.com/tramites/backend/internal/domain/tramite"
)

// RequisitionService exposes the requisition workflow operations. Every
// mutation loads the record, consults the permission table, applies the
// aggregate transition and persists it under an optimistic-lock check so
// two concurrent decisions can never both win.
type RequisitionService struct {
	repo   tramite.RequisitionRepository
	logger *zap.Logger
}

// NewRequisitionService creates a requisition service
func NewRequisitionService(repo tramite.RequisitionRepository, logger *zap.Logger) *RequisitionService {
	return &RequisitionService{
		repo:   repo,
		logger: logger,
	}
}

// Create submits a new requisition owned by the acting user
func (s *RequisitionService) Create(ctx context.Context, actor tramite.Actor, req CreateRequisitionRequest) (*tramite.Requisition, error) {
	folio, err := s.nextFolio(ctx)
	if err != nil {
		return nil, err
	}

	r, err := tramite.NewRequisition(folio, req.Concepto, req.Descripcion, req.Monto, actor.UserID, req.AutorizadorID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, r); err != nil {
		s.logger.Error("failed to save requisition", zap.Error(err))
		return nil, err
	}

	s.logger.Info("requisition created",
		zap.String("id", r.ID.String()),
		zap.String("folio", r.Folio))
	return r, nil
}

// Get loads a requisition by id
func (s *RequisitionService) Get(ctx context.Context, id uuid.UUID) (*tramite.Requisition, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of requisitions, excluding soft-deleted ones
func (s *RequisitionService) List(ctx context.Context, req ListRequest) (*shared.Paginated[*tramite.Requisition], error) {
	return s.repo.List(ctx, req.filter(), shared.Pagination{Page: req.Page, PageSize: req.PageSize})
}

// ListDeleted returns soft-deleted requisitions for the restore flow
func (s *RequisitionService) ListDeleted(ctx context.Context, actor tramite.Actor, req ListRequest) (*shared.Paginated[*tramite.Requisition], error) {
	if !actor.IsSuperadmin() {
		return nil, shared.ErrUnauthorized
	}
	filter := req.filter()
	filter.OnlyDeleted = true
	return s.repo.List(ctx, filter, shared.Pagination{Page: req.Page, PageSize: req.PageSize})
}

// Approve moves a pending requisition to aprobado
func (s *RequisitionService) Approve(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
	return s.transition(ctx, actor, id, tramite.OpApprove, func(r *tramite.Requisition) error {
		return r.Approve(actor.UserID)
	})
}

// Reject moves a pending requisition to rechazado with a justification
func (s *RequisitionService) Reject(ctx context.Context, actor tramite.Actor, id uuid.UUID, justificacion string) (*tramite.Requisition, error) {
	return s.transition(ctx, actor, id, tramite.OpReject, func(r *tramite.Requisition) error {
		return r.Reject(actor.UserID, justificacion)
	})
}

// Revert undoes an approve or reject decision
func (s *RequisitionService) Revert(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
	return s.transition(ctx, actor, id, tramite.OpRevert, func(r *tramite.Requisition) error {
		return r.Revert(actor.UserID)
	})
}

// Cancel withdraws a pending requisition
func (s *RequisitionService) Cancel(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
	return s.transition(ctx, actor, id, tramite.OpCancel, func(r *tramite.Requisition) error {
		return r.Cancel(actor.UserID)
	})
}

// AdvanceToBidding moves an approved requisition into bidding
func (s *RequisitionService) AdvanceToBidding(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
	return s.transition(ctx, actor, id, tramite.OpAdvanceToBidding, func(r *tramite.Requisition) error {
		return r.AdvanceToBidding(actor.UserID)
	})
}

// RejectBeforeBidding sends an approved requisition back to pendiente
func (s *RequisitionService) RejectBeforeBidding(ctx context.Context, actor tramite.Actor, id uuid.UUID, justificacion string) (*tramite.Requisition, error) {
	return s.transition(ctx, actor, id, tramite.OpRejectBeforeBidding, func(r *tramite.Requisition) error {
		return r.RejectBeforeBidding(actor.UserID, justificacion)
	})
}

// PlaceOrder records the purchase order placement
func (s *RequisitionService) PlaceOrder(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
	return s.transition(ctx, actor, id, tramite.OpPlaceOrder, func(r *tramite.Requisition) error {
		return r.PlaceOrder(actor.UserID)
	})
}

// AuthorizeOrder records the budget authorization
func (s *RequisitionService) AuthorizeOrder(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
	return s.transition(ctx, actor, id, tramite.OpAuthorizeOrder, func(r *tramite.Requisition) error {
		return r.AuthorizeOrder(actor.UserID)
	})
}

// MarkPaid records the treasury payment
func (s *RequisitionService) MarkPaid(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
	return s.transition(ctx, actor, id, tramite.OpMarkPaid, func(r *tramite.Requisition) error {
		return r.MarkPaid(actor.UserID)
	})
}

// SoftDelete hides a pending requisition from normal listings
func (s *RequisitionService) SoftDelete(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
	return s.transition(ctx, actor, id, tramite.OpSoftDelete, func(r *tramite.Requisition) error {
		return r.SoftDelete()
	})
}

// Restore brings a soft-deleted requisition back
func (s *RequisitionService) Restore(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
	return s.transition(ctx, actor, id, tramite.OpRestore, func(r *tramite.Requisition) error {
		return r.Restore()
	})
}

// EditResubmit lets the owner amend a sent-back requisition
func (s *RequisitionService) EditResubmit(ctx context.Context, actor tramite.Actor, id uuid.UUID, req EditResubmitRequest) (*tramite.Requisition, error) {
	return s.transition(ctx, actor, id, tramite.OpEditResubmit, func(r *tramite.Requisition) error {
		return r.EditResubmit(req.Concepto, req.Descripcion, req.Monto)
	})
}

// transition is the shared load, authorize, mutate, save-with-lock path.
// The version captured before mutation is the optimistic-lock expectation;
// a mismatch on save surfaces as CONCURRENCY_CONFLICT and the caller must
// reload before retrying.
func (s *RequisitionService) transition(ctx context.Context, actor tramite.Actor, id uuid.UUID, op tramite.Operation, mutate func(*tramite.Requisition) error) (*tramite.Requisition, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tramite.Authorize(actor, r, op); err != nil {
		s.logger.Warn("operation denied",
			zap.String("operation", string(op)),
			zap.String("requisition_id", id.String()),
			zap.String("actor_id", actor.UserID.String()))
		return nil, err
	}

	expectedVersion := r.GetVersion()
	if err := mutate(r); err != nil {
		return nil, err
	}
	r.IncrementVersion()

	if err := s.repo.SaveWithLockAndEvents(ctx, r, expectedVersion); err != nil {
		if domainErr, ok := err.(*shared.DomainError); ok && domainErr.Code == "CONCURRENCY_CONFLICT" {
			s.logger.Warn("concurrent modification detected",
				zap.String("requisition_id", id.String()),
				zap.String("operation", string(op)))
		}
		return nil, err
	}

	s.logger.Info("requisition transitioned",
		zap.String("id", r.ID.String()),
		zap.String("operation", string(op)),
		zap.String("estado", string(r.Estado)))
	return r, nil
}

func (s *RequisitionService) nextFolio(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("REQ-%d-", year)
	count, err := s.repo.CountByFolioPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

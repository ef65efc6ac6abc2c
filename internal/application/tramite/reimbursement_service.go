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

// ReimbursementService exposes the reimbursement workflow operations
type ReimbursementService struct {
	repo   tramite.ReimbursementRepository
	logger *zap.Logger
}

// NewReimbursementService creates a reimbursement service
func NewReimbursementService(repo tramite.ReimbursementRepository, logger *zap.Logger) *ReimbursementService {
	return &ReimbursementService{
		repo:   repo,
		logger: logger,
	}
}

// Create submits a new reimbursement owned by the acting user
func (s *ReimbursementService) Create(ctx context.Context, actor tramite.Actor, req CreateReimbursementRequest) (*tramite.Reimbursement, error) {
	folio, err := s.nextFolio(ctx)
	if err != nil {
		return nil, err
	}

	r, err := tramite.NewReimbursement(folio, req.Concepto, req.Monto, actor.UserID, req.AutorizadorID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, r); err != nil {
		s.logger.Error("failed to save reimbursement", zap.Error(err))
		return nil, err
	}

	s.logger.Info("reimbursement created",
		zap.String("id", r.ID.String()),
		zap.String("folio", r.Folio))
	return r, nil
}

// Get loads a reimbursement by id
func (s *ReimbursementService) Get(ctx context.Context, id uuid.UUID) (*tramite.Reimbursement, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of reimbursements
func (s *ReimbursementService) List(ctx context.Context, req ListRequest) (*shared.Paginated[*tramite.Reimbursement], error) {
	return s.repo.List(ctx, req.filter(), shared.Pagination{Page: req.Page, PageSize: req.PageSize})
}

// Approve moves a pending reimbursement to aprobado
func (s *ReimbursementService) Approve(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Reimbursement, error) {
	return s.transition(ctx, actor, id, tramite.OpApprove, func(r *tramite.Reimbursement) error {
		return r.Approve(actor.UserID)
	})
}

// Reject moves a pending reimbursement to rechazado with a justification
func (s *ReimbursementService) Reject(ctx context.Context, actor tramite.Actor, id uuid.UUID, justificacion string) (*tramite.Reimbursement, error) {
	return s.transition(ctx, actor, id, tramite.OpReject, func(r *tramite.Reimbursement) error {
		return r.Reject(actor.UserID, justificacion)
	})
}

// Revert undoes an approve or reject decision
func (s *ReimbursementService) Revert(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Reimbursement, error) {
	return s.transition(ctx, actor, id, tramite.OpRevert, func(r *tramite.Reimbursement) error {
		return r.Revert(actor.UserID)
	})
}

// Cancel withdraws a pending reimbursement
func (s *ReimbursementService) Cancel(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Reimbursement, error) {
	return s.transition(ctx, actor, id, tramite.OpCancel, func(r *tramite.Reimbursement) error {
		return r.Cancel(actor.UserID)
	})
}

// MarkPaid records the treasury payment of an approved reimbursement
func (s *ReimbursementService) MarkPaid(ctx context.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Reimbursement, error) {
	return s.transition(ctx, actor, id, tramite.OpMarkPaid, func(r *tramite.Reimbursement) error {
		return r.MarkPaid(actor.UserID)
	})
}

func (s *ReimbursementService) transition(ctx context.Context, actor tramite.Actor, id uuid.UUID, op tramite.Operation, mutate func(*tramite.Reimbursement) error) (*tramite.Reimbursement, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tramite.Authorize(actor, r, op); err != nil {
		s.logger.Warn("operation denied",
			zap.String("operation", string(op)),
			zap.String("reimbursement_id", id.String()),
			zap.String("actor_id", actor.UserID.String()))
		return nil, err
	}

	expectedVersion := r.GetVersion()
	if err := mutate(r); err != nil {
		return nil, err
	}
	r.IncrementVersion()

	if err := s.repo.SaveWithLockAndEvents(ctx, r, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.Info("reimbursement transitioned",
		zap.String("id", r.ID.String()),
		zap.String("operation", string(op)),
		zap.String("estado", string(r.Estado)))
	return r, nil
}

func (s *ReimbursementService) nextFolio(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("REP-%d-", year)
	count, err := s.repo.CountByFolioPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

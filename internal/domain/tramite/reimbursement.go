package tramite

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tramites/backend/internal/domain/shared"
)

// Reimbursement is the expense-repayment aggregate. Its lifecycle is the
// short form of the requisition's: approval, then a treasury payment.
type Reimbursement struct {
	shared.BaseAggregateRoot
	Folio         string
	Concepto      string
	Monto         decimal.Decimal
	SolicitadoPor uuid.UUID
	AutorizadorID uuid.UUID
	Estado        Estado

	JustificacionRechazo string

	AutorizadoPor     *uuid.UUID
	FechaAutorizacion *time.Time
	PagadoPor         *uuid.UUID
	FechaPago         *time.Time
}

// NewReimbursement creates a reimbursement in estado pendiente
func NewReimbursement(folio, concepto string, monto decimal.Decimal, solicitadoPor, autorizadorID uuid.UUID) (*Reimbursement, error) {
	if folio == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Folio is required")
	}
	if concepto == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Concepto is required")
	}
	if monto.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Monto must be greater than zero")
	}
	if solicitadoPor == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "SolicitadoPor is required")
	}
	if autorizadorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "AutorizadorID is required")
	}

	r := &Reimbursement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Folio:             folio,
		Concepto:          concepto,
		Monto:             monto,
		SolicitadoPor:     solicitadoPor,
		AutorizadorID:     autorizadorID,
		Estado:            EstadoPendiente,
	}
	r.emitTransition("", false)
	return r, nil
}

// TramiteType implements Subject
func (r *Reimbursement) TramiteType() Type { return TypeReimbursement }

// CurrentEstado implements Subject
func (r *Reimbursement) CurrentEstado() Estado { return r.Estado }

// OwnerID implements Subject
func (r *Reimbursement) OwnerID() uuid.UUID { return r.SolicitadoPor }

// AssignedAutorizador implements Subject
func (r *Reimbursement) AssignedAutorizador() uuid.UUID { return r.AutorizadorID }

// RejectionJustification implements Subject
func (r *Reimbursement) RejectionJustification() string { return r.JustificacionRechazo }

// IsDeleted implements Subject. Reimbursements have no soft-delete.
func (r *Reimbursement) IsDeleted() bool { return false }

func (r *Reimbursement) ensureTransition(target Estado) error {
	if !r.Estado.CanTransitionTo(TypeReimbursement, target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition from "+string(r.Estado)+" to "+string(target))
	}
	return nil
}

// Approve moves the reimbursement to aprobado
func (r *Reimbursement) Approve(by uuid.UUID) error {
	if err := r.ensureTransition(EstadoAprobado); err != nil {
		return err
	}
	prev := r.Estado
	now := time.Now()
	r.Estado = EstadoAprobado
	r.AutorizadoPor = &by
	r.FechaAutorizacion = &now
	r.UpdatedAt = now
	r.emitTransition(prev, false)
	return nil
}

// Reject moves the reimbursement to rechazado with a mandatory justification
func (r *Reimbursement) Reject(by uuid.UUID, justificacion string) error {
	if justificacion == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejection justification is required")
	}
	if err := r.ensureTransition(EstadoRechazado); err != nil {
		return err
	}
	prev := r.Estado
	justSet := r.JustificacionRechazo == ""
	r.Estado = EstadoRechazado
	r.JustificacionRechazo = justificacion
	r.UpdatedAt = time.Now()
	r.emitTransition(prev, justSet)
	return nil
}

// Revert undoes an approve or reject decision, returning to pendiente
func (r *Reimbursement) Revert(by uuid.UUID) error {
	if r.Estado != EstadoAprobado && r.Estado != EstadoRechazado {
		return shared.ErrInvalidState
	}
	if err := r.ensureTransition(EstadoPendiente); err != nil {
		return err
	}
	prev := r.Estado
	r.Estado = EstadoPendiente
	r.UpdatedAt = time.Now()
	r.emitTransition(prev, false)
	return nil
}

// Cancel withdraws a pending reimbursement
func (r *Reimbursement) Cancel(by uuid.UUID) error {
	if err := r.ensureTransition(EstadoCancelado); err != nil {
		return err
	}
	prev := r.Estado
	r.Estado = EstadoCancelado
	r.UpdatedAt = time.Now()
	r.emitTransition(prev, false)
	return nil
}

// MarkPaid records the treasury payment of an approved reimbursement
func (r *Reimbursement) MarkPaid(by uuid.UUID) error {
	if err := r.ensureTransition(EstadoPagado); err != nil {
		return err
	}
	prev := r.Estado
	now := time.Now()
	r.Estado = EstadoPagado
	r.PagadoPor = &by
	r.FechaPago = &now
	r.UpdatedAt = now
	r.emitTransition(prev, false)
	return nil
}

func (r *Reimbursement) emitTransition(prev Estado, justificacionSet bool) {
	r.AddDomainEvent(NewReimbursementTransitionedEvent(r, prev, justificacionSet))
}

package tramite

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tramites/backend/internal/domain/shared"
)

// Requisition is the purchase-request aggregate. Its estado moves through
// the approval, bidding, order and payment stages under the rules in
// requisitionTransitions; every mutation goes through a method here.
type Requisition struct {
	shared.BaseAggregateRoot
	Folio         string
	Concepto      string
	Descripcion   string
	Monto         decimal.Decimal
	SolicitadoPor uuid.UUID
	AutorizadorID uuid.UUID
	Estado        Estado

	JustificacionRechazo string

	// Stage actor/timestamp pairs. Written when the stage is first
	// reached, overwritten if the stage is re-entered after a revert.
	AutorizadoPor         *uuid.UUID
	FechaAutorizacion     *time.Time
	LicitadoPor           *uuid.UUID
	FechaLicitacion       *time.Time
	PedidoColocadoPor     *uuid.UUID
	FechaPedidoColocado   *time.Time
	PedidoAutorizadoPor   *uuid.UUID
	FechaPedidoAutorizado *time.Time
	PagadoPor             *uuid.UUID
	FechaPago             *time.Time

	DeletedAt *time.Time
}

// NewRequisition creates a requisition in estado pendiente and records the
// submission event so the assigned approver gets notified.
func NewRequisition(folio, concepto, descripcion string, monto decimal.Decimal, solicitadoPor, autorizadorID uuid.UUID) (*Requisition, error) {
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

	r := &Requisition{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Folio:             folio,
		Concepto:          concepto,
		Descripcion:       descripcion,
		Monto:             monto,
		SolicitadoPor:     solicitadoPor,
		AutorizadorID:     autorizadorID,
		Estado:            EstadoPendiente,
	}
	r.emitTransition("", false)
	return r, nil
}

// TramiteType implements Subject
func (r *Requisition) TramiteType() Type { return TypeRequisition }

// CurrentEstado implements Subject
func (r *Requisition) CurrentEstado() Estado { return r.Estado }

// OwnerID implements Subject
func (r *Requisition) OwnerID() uuid.UUID { return r.SolicitadoPor }

// AssignedAutorizador implements Subject
func (r *Requisition) AssignedAutorizador() uuid.UUID { return r.AutorizadorID }

// RejectionJustification implements Subject
func (r *Requisition) RejectionJustification() string { return r.JustificacionRechazo }

// IsDeleted implements Subject
func (r *Requisition) IsDeleted() bool { return r.DeletedAt != nil }

func (r *Requisition) ensureTransition(target Estado) error {
	if r.DeletedAt != nil {
		return shared.ErrInvalidState
	}
	if !r.Estado.CanTransitionTo(TypeRequisition, target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition from "+string(r.Estado)+" to "+string(target))
	}
	return nil
}

// Approve moves the requisition to aprobado and stamps the approval pair
func (r *Requisition) Approve(by uuid.UUID) error {
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

// Reject moves the requisition to rechazado with a mandatory justification
func (r *Requisition) Reject(by uuid.UUID, justificacion string) error {
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

// RejectBeforeBidding returns an approved requisition to pendiente with a
// justification, used by the buyer instead of advancing to bidding.
func (r *Requisition) RejectBeforeBidding(by uuid.UUID, justificacion string) error {
	if justificacion == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejection justification is required")
	}
	if r.Estado != EstadoAprobado {
		return shared.ErrInvalidState
	}
	if err := r.ensureTransition(EstadoPendiente); err != nil {
		return err
	}
	prev := r.Estado
	justSet := r.JustificacionRechazo == ""
	r.Estado = EstadoPendiente
	r.JustificacionRechazo = justificacion
	r.UpdatedAt = time.Now()
	r.emitTransition(prev, justSet)
	return nil
}

// Revert undoes an approve or reject decision, returning to pendiente.
// The rejection justification is kept so the owner can edit and resubmit.
func (r *Requisition) Revert(by uuid.UUID) error {
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

// Cancel withdraws a pending requisition
func (r *Requisition) Cancel(by uuid.UUID) error {
	if err := r.ensureTransition(EstadoCancelado); err != nil {
		return err
	}
	prev := r.Estado
	r.Estado = EstadoCancelado
	r.UpdatedAt = time.Now()
	r.emitTransition(prev, false)
	return nil
}

// AdvanceToBidding moves an approved requisition into the bidding stage
func (r *Requisition) AdvanceToBidding(by uuid.UUID) error {
	if err := r.ensureTransition(EstadoEnLicitacion); err != nil {
		return err
	}
	prev := r.Estado
	now := time.Now()
	r.Estado = EstadoEnLicitacion
	r.LicitadoPor = &by
	r.FechaLicitacion = &now
	r.UpdatedAt = now
	r.emitTransition(prev, false)
	return nil
}

// PlaceOrder records that the purchase order was placed with the supplier
func (r *Requisition) PlaceOrder(by uuid.UUID) error {
	if err := r.ensureTransition(EstadoPedidoColocado); err != nil {
		return err
	}
	prev := r.Estado
	now := time.Now()
	r.Estado = EstadoPedidoColocado
	r.PedidoColocadoPor = &by
	r.FechaPedidoColocado = &now
	r.UpdatedAt = now
	r.emitTransition(prev, false)
	return nil
}

// AuthorizeOrder records the budget authorization of the placed order
func (r *Requisition) AuthorizeOrder(by uuid.UUID) error {
	if err := r.ensureTransition(EstadoPedidoAutorizado); err != nil {
		return err
	}
	prev := r.Estado
	now := time.Now()
	r.Estado = EstadoPedidoAutorizado
	r.PedidoAutorizadoPor = &by
	r.FechaPedidoAutorizado = &now
	r.UpdatedAt = now
	r.emitTransition(prev, false)
	return nil
}

// MarkPaid records the treasury payment, the final forward stage
func (r *Requisition) MarkPaid(by uuid.UUID) error {
	if err := r.ensureTransition(EstadoPedidoPagado); err != nil {
		return err
	}
	prev := r.Estado
	now := time.Now()
	r.Estado = EstadoPedidoPagado
	r.PagadoPor = &by
	r.FechaPago = &now
	r.UpdatedAt = now
	r.emitTransition(prev, false)
	return nil
}

// SoftDelete hides the requisition from normal listings
func (r *Requisition) SoftDelete() error {
	if r.DeletedAt != nil {
		return shared.ErrInvalidState
	}
	now := time.Now()
	r.DeletedAt = &now
	r.UpdatedAt = now
	return nil
}

// Restore clears the soft-delete marker
func (r *Requisition) Restore() error {
	if r.DeletedAt == nil {
		return shared.ErrInvalidState
	}
	r.DeletedAt = nil
	r.UpdatedAt = time.Now()
	return nil
}

// EditResubmit lets the owner amend a requisition that was sent back with a
// rejection justification. The justification is cleared and the record stays
// pendiente for a fresh decision.
func (r *Requisition) EditResubmit(concepto, descripcion string, monto decimal.Decimal) error {
	if r.DeletedAt != nil {
		return shared.ErrInvalidState
	}
	if r.Estado != EstadoPendiente || r.JustificacionRechazo == "" {
		return shared.ErrInvalidState
	}
	if concepto == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Concepto is required")
	}
	if monto.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Monto must be greater than zero")
	}
	r.Concepto = concepto
	r.Descripcion = descripcion
	r.Monto = monto
	r.JustificacionRechazo = ""
	r.UpdatedAt = time.Now()
	r.emitTransition(EstadoPendiente, false)
	return nil
}

func (r *Requisition) emitTransition(prev Estado, justificacionSet bool) {
	r.AddDomainEvent(NewRequisitionTransitionedEvent(r, prev, justificacionSet))
}

package notification

import (
	"github.com/google/uuid"

	"github.com/tramites/backend/internal/domain/tramite"
)

// Transition is the committed estado change the pipeline reacts to.
// PreviousEstado is empty for a new submission. JustificacionSet marks a
// rejection justification going from empty to non-empty, which may happen
// without a formal estado change (reject-before-bidding returns to
// pendiente) and always produces an owner-only message.
type Transition struct {
	TramiteType      tramite.Type
	TramiteID        uuid.UUID
	Folio            string
	PreviousEstado   tramite.Estado
	NewEstado        tramite.Estado
	SolicitadoPor    uuid.UUID
	AutorizadorID    uuid.UUID
	JustificacionSet bool
}

// TargetSet is the resolved recipient set for a transition: direct user ids
// plus roles whose current members should all be notified
type TargetSet struct {
	Users []uuid.UUID
	Roles []tramite.Role
}

// IsEmpty reports whether nothing resolved
func (s TargetSet) IsEmpty() bool {
	return len(s.Users) == 0 && len(s.Roles) == 0
}

// ResolveTargets maps a transition to its recipient set. Pure function.
// No-op transitions (same estado, no fresh justification) resolve to an
// empty set. Rejection messages go to the owner only, never a broadcast.
func ResolveTargets(tr Transition) TargetSet {
	if tr.PreviousEstado == tr.NewEstado && !tr.JustificacionSet {
		return TargetSet{}
	}

	// A freshly set rejection justification takes priority over the row
	// for the new estado.
	if tr.JustificacionSet {
		return TargetSet{Users: []uuid.UUID{tr.SolicitadoPor}}
	}

	if tr.TramiteType == tramite.TypeReimbursement {
		return resolveReimbursement(tr)
	}
	return resolveRequisition(tr)
}

func resolveRequisition(tr Transition) TargetSet {
	switch tr.NewEstado {
	case tramite.EstadoPendiente:
		// new submission or revert: the assigned approver has work to do
		return direct(tr.AutorizadorID)
	case tramite.EstadoAprobado:
		return withBroadcast(tr.SolicitadoPor, tramite.RoleComprador)
	case tramite.EstadoRechazado:
		return direct(tr.SolicitadoPor)
	case tramite.EstadoEnLicitacion:
		return direct(tr.SolicitadoPor)
	case tramite.EstadoPedidoColocado:
		return withBroadcast(tr.SolicitadoPor, tramite.RolePresupuestos)
	case tramite.EstadoPedidoAutorizado:
		return withBroadcast(tr.SolicitadoPor, tramite.RoleTesoreria)
	case tramite.EstadoPedidoPagado:
		return direct(tr.SolicitadoPor)
	case tramite.EstadoCancelado:
		return direct(tr.AutorizadorID)
	}
	return TargetSet{}
}

func resolveReimbursement(tr Transition) TargetSet {
	switch tr.NewEstado {
	case tramite.EstadoPendiente:
		return direct(tr.AutorizadorID)
	case tramite.EstadoAprobado:
		return withBroadcast(tr.SolicitadoPor, tramite.RoleTesoreria)
	case tramite.EstadoRechazado:
		return direct(tr.SolicitadoPor)
	case tramite.EstadoPagado:
		return direct(tr.SolicitadoPor)
	case tramite.EstadoCancelado:
		return direct(tr.AutorizadorID)
	}
	return TargetSet{}
}

func direct(userID uuid.UUID) TargetSet {
	if userID == uuid.Nil {
		return TargetSet{}
	}
	return TargetSet{Users: []uuid.UUID{userID}}
}

func withBroadcast(userID uuid.UUID, role tramite.Role) TargetSet {
	set := direct(userID)
	set.Roles = append(set.Roles, role)
	return set
}

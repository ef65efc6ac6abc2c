package tramite

import (
	"github.com/google/uuid"

	"github.com/tramites/backend/internal/domain/shared"
)

// Operation identifies a workflow transition operation
type Operation string

const (
	OpApprove             Operation = "approve"
	OpReject              Operation = "reject"
	OpRevert              Operation = "revert"
	OpCancel              Operation = "cancel"
	OpAdvanceToBidding    Operation = "advance_to_bidding"
	OpRejectBeforeBidding Operation = "reject_before_bidding"
	OpPlaceOrder          Operation = "place_order"
	OpAuthorizeOrder      Operation = "authorize_order"
	OpMarkPaid            Operation = "mark_paid"
	OpSoftDelete          Operation = "soft_delete"
	OpRestore             Operation = "restore"
	OpEditResubmit        Operation = "edit_resubmit"
)

// Subject is the view of a tramite the permission table decides over
type Subject interface {
	TramiteType() Type
	CurrentEstado() Estado
	OwnerID() uuid.UUID
	AssignedAutorizador() uuid.UUID
	RejectionJustification() string
	IsDeleted() bool
}

// permissionRule is one row of the decision table: which estados the
// operation is legal from, an optional extra record precondition, and
// who may perform it.
type permissionRule struct {
	estados []Estado
	record  func(s Subject) bool
	actor   func(a Actor, s Subject) bool
}

func (r permissionRule) estadoAllowed(e Estado) bool {
	for _, allowed := range r.estados {
		if allowed == e {
			return true
		}
	}
	return false
}

func isApprover(a Actor, s Subject) bool {
	return a.UserID == s.AssignedAutorizador() || a.HasAnyRole(RoleAdmin, RoleAutorizador)
}

func isOwner(a Actor, s Subject) bool {
	return a.UserID == s.OwnerID()
}

// Self-service cancel is reserved for plain requesters. An owner who also
// holds approval authority must use revert instead.
func isPlainOwner(a Actor, s Subject) bool {
	return isOwner(a, s) && !a.IsElevated()
}

func hasRole(roles ...Role) func(a Actor, s Subject) bool {
	return func(a Actor, _ Subject) bool {
		return a.HasAnyRole(roles...)
	}
}

var requisitionRules = map[Operation]permissionRule{
	OpApprove: {estados: []Estado{EstadoPendiente}, actor: isApprover},
	OpReject:  {estados: []Estado{EstadoPendiente}, actor: isApprover},
	OpRevert:  {estados: []Estado{EstadoAprobado, EstadoRechazado}, actor: isApprover},
	OpCancel:  {estados: []Estado{EstadoPendiente}, actor: isPlainOwner},

	OpAdvanceToBidding:    {estados: []Estado{EstadoAprobado}, actor: hasRole(RoleComprador)},
	OpRejectBeforeBidding: {estados: []Estado{EstadoAprobado}, actor: hasRole(RoleComprador)},
	OpPlaceOrder:          {estados: []Estado{EstadoEnLicitacion}, actor: hasRole(RoleComprador)},
	OpAuthorizeOrder:      {estados: []Estado{EstadoPedidoColocado}, actor: hasRole(RolePresupuestos)},
	OpMarkPaid:            {estados: []Estado{EstadoPedidoAutorizado}, actor: hasRole(RoleTesoreria)},

	OpSoftDelete: {
		estados: []Estado{EstadoPendiente},
		actor: func(a Actor, s Subject) bool {
			return isOwner(a, s) && a.HasAnyRole(RoleSolicitador, RoleAdmin)
		},
	},
	OpEditResubmit: {
		estados: []Estado{EstadoPendiente},
		record:  func(s Subject) bool { return s.RejectionJustification() != "" },
		actor:   isOwner,
	},
}

var reimbursementRules = map[Operation]permissionRule{
	OpApprove:  {estados: []Estado{EstadoPendiente}, actor: isApprover},
	OpReject:   {estados: []Estado{EstadoPendiente}, actor: isApprover},
	OpRevert:   {estados: []Estado{EstadoAprobado, EstadoRechazado}, actor: isApprover},
	OpCancel:   {estados: []Estado{EstadoPendiente}, actor: isPlainOwner},
	OpMarkPaid: {estados: []Estado{EstadoAprobado}, actor: hasRole(RoleTesoreria)},
}

// Allowed is the pure permission decision over (actor roles, ownership,
// record state). Operations not explicitly granted by the table are denied.
func Allowed(actor Actor, s Subject, op Operation) bool {
	// A soft-deleted record accepts nothing except restore.
	if s.IsDeleted() {
		return op == OpRestore && actor.IsSuperadmin()
	}
	if op == OpRestore {
		return false
	}
	if actor.IsSuperadmin() {
		return true
	}

	rules := requisitionRules
	if s.TramiteType() == TypeReimbursement {
		rules = reimbursementRules
	}
	rule, ok := rules[op]
	if !ok {
		return false
	}
	if !rule.estadoAllowed(s.CurrentEstado()) {
		return false
	}
	if rule.record != nil && !rule.record(s) {
		return false
	}
	return rule.actor(actor, s)
}

// Authorize returns ErrUnauthorized when the decision table denies the operation
func Authorize(actor Actor, s Subject, op Operation) error {
	if !Allowed(actor, s, op) {
		return shared.ErrUnauthorized
	}
	return nil
}

package tramite

// Type distinguishes the two tramite variants
type Type string

const (
	TypeRequisition   Type = "requisicion"
	TypeReimbursement Type = "reposicion"
)

// IsValid checks if the tramite type is known
func (t Type) IsValid() bool {
	return t == TypeRequisition || t == TypeReimbursement
}

// Estado represents the lifecycle state of a tramite
type Estado string

const (
	EstadoPendiente        Estado = "pendiente"
	EstadoAprobado         Estado = "aprobado"
	EstadoRechazado        Estado = "rechazado"
	EstadoCancelado        Estado = "cancelado"
	EstadoEnLicitacion     Estado = "en_licitacion"
	EstadoPedidoColocado   Estado = "pedido_colocado"
	EstadoPedidoAutorizado Estado = "pedido_autorizado"
	EstadoPedidoPagado     Estado = "pedido_pagado"
	EstadoPagado           Estado = "pagado"
)

// requisitionTransitions defines the legal estado graph for requisitions.
// Revert (aprobado/rechazado back to pendiente) and reject-before-bidding
// share the aprobado -> pendiente edge; who may take it is decided by the
// permission table, not here.
var requisitionTransitions = map[Estado][]Estado{
	EstadoPendiente:        {EstadoAprobado, EstadoRechazado, EstadoCancelado},
	EstadoAprobado:         {EstadoEnLicitacion, EstadoPendiente},
	EstadoRechazado:        {EstadoPendiente},
	EstadoEnLicitacion:     {EstadoPedidoColocado},
	EstadoPedidoColocado:   {EstadoPedidoAutorizado},
	EstadoPedidoAutorizado: {EstadoPedidoPagado},
	EstadoPedidoPagado:     {},
	EstadoCancelado:        {},
}

// reimbursementTransitions defines the legal estado graph for reimbursements
var reimbursementTransitions = map[Estado][]Estado{
	EstadoPendiente: {EstadoAprobado, EstadoRechazado, EstadoCancelado},
	EstadoAprobado:  {EstadoPendiente, EstadoPagado},
	EstadoRechazado: {EstadoPendiente},
	EstadoPagado:    {},
	EstadoCancelado: {},
}

func transitionsFor(t Type) map[Estado][]Estado {
	if t == TypeReimbursement {
		return reimbursementTransitions
	}
	return requisitionTransitions
}

// IsValidFor checks if the estado exists in the given tramite type's graph
func (e Estado) IsValidFor(t Type) bool {
	_, ok := transitionsFor(t)[e]
	return ok
}

// CanTransitionTo checks if the estado can transition to the target estado
// within the given tramite type's graph
func (e Estado) CanTransitionTo(t Type, target Estado) bool {
	for _, allowed := range transitionsFor(t)[e] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal checks if no further transitions are possible
func (e Estado) IsTerminal(t Type) bool {
	return len(transitionsFor(t)[e]) == 0
}

// DisplayName returns the human-readable label used in notification bodies
func (e Estado) DisplayName() string {
	switch e {
	case EstadoPendiente:
		return "Pendiente"
	case EstadoAprobado:
		return "Aprobado"
	case EstadoRechazado:
		return "Rechazado"
	case EstadoCancelado:
		return "Cancelado"
	case EstadoEnLicitacion:
		return "En licitación"
	case EstadoPedidoColocado:
		return "Pedido colocado"
	case EstadoPedidoAutorizado:
		return "Pedido autorizado"
	case EstadoPedidoPagado:
		return "Pedido pagado"
	case EstadoPagado:
		return "Pagado"
	}
	return string(e)
}

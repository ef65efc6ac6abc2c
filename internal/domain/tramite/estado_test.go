package tramite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstado_CanTransitionTo_Requisition(t *testing.T) {
	tests := []struct {
		name    string
		from    Estado
		to      Estado
		allowed bool
	}{
		{"pendiente to aprobado", EstadoPendiente, EstadoAprobado, true},
		{"pendiente to rechazado", EstadoPendiente, EstadoRechazado, true},
		{"pendiente to cancelado", EstadoPendiente, EstadoCancelado, true},
		{"pendiente to en_licitacion skips approval", EstadoPendiente, EstadoEnLicitacion, false},
		{"aprobado to en_licitacion", EstadoAprobado, EstadoEnLicitacion, true},
		{"aprobado back to pendiente", EstadoAprobado, EstadoPendiente, true},
		{"aprobado to rechazado", EstadoAprobado, EstadoRechazado, false},
		{"rechazado back to pendiente", EstadoRechazado, EstadoPendiente, true},
		{"rechazado to aprobado", EstadoRechazado, EstadoAprobado, false},
		{"en_licitacion to pedido_colocado", EstadoEnLicitacion, EstadoPedidoColocado, true},
		{"pedido_colocado to pedido_autorizado", EstadoPedidoColocado, EstadoPedidoAutorizado, true},
		{"pedido_autorizado to pedido_pagado", EstadoPedidoAutorizado, EstadoPedidoPagado, true},
		{"pedido_pagado is terminal", EstadoPedidoPagado, EstadoPendiente, false},
		{"cancelado is terminal", EstadoCancelado, EstadoPendiente, false},
		{"pagado not in requisition graph", EstadoAprobado, EstadoPagado, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(TypeRequisition, tt.to))
		})
	}
}

func TestEstado_CanTransitionTo_Reimbursement(t *testing.T) {
	tests := []struct {
		name    string
		from    Estado
		to      Estado
		allowed bool
	}{
		{"pendiente to aprobado", EstadoPendiente, EstadoAprobado, true},
		{"pendiente to rechazado", EstadoPendiente, EstadoRechazado, true},
		{"pendiente to cancelado", EstadoPendiente, EstadoCancelado, true},
		{"aprobado to pagado", EstadoAprobado, EstadoPagado, true},
		{"aprobado back to pendiente", EstadoAprobado, EstadoPendiente, true},
		{"rechazado back to pendiente", EstadoRechazado, EstadoPendiente, true},
		{"pagado is terminal", EstadoPagado, EstadoPendiente, false},
		{"cancelado is terminal", EstadoCancelado, EstadoPendiente, false},
		{"no bidding stage", EstadoAprobado, EstadoEnLicitacion, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(TypeReimbursement, tt.to))
		})
	}
}

func TestEstado_IsTerminal(t *testing.T) {
	assert.True(t, EstadoPedidoPagado.IsTerminal(TypeRequisition))
	assert.True(t, EstadoCancelado.IsTerminal(TypeRequisition))
	assert.True(t, EstadoPagado.IsTerminal(TypeReimbursement))
	assert.False(t, EstadoRechazado.IsTerminal(TypeRequisition))
	assert.False(t, EstadoAprobado.IsTerminal(TypeReimbursement))
}

func TestEstado_IsValidFor(t *testing.T) {
	assert.True(t, EstadoEnLicitacion.IsValidFor(TypeRequisition))
	assert.False(t, EstadoEnLicitacion.IsValidFor(TypeReimbursement))
	assert.True(t, EstadoPagado.IsValidFor(TypeReimbursement))
	assert.False(t, EstadoPagado.IsValidFor(TypeRequisition))
	assert.False(t, Estado("unknown").IsValidFor(TypeRequisition))
}

func TestEstado_DisplayName(t *testing.T) {
	assert.Equal(t, "Aprobado", EstadoAprobado.DisplayName())
	assert.Equal(t, "En licitación", EstadoEnLicitacion.DisplayName())
	assert.Equal(t, "Pedido colocado", EstadoPedidoColocado.DisplayName())
}

package tramite

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReimbursement(t *testing.T) *Reimbursement {
	t.Helper()
	r, err := NewReimbursement("REP-2026-00001", "Viáticos CDMX",
		decimal.NewFromInt(3200), uuid.New(), uuid.New())
	require.NoError(t, err)
	r.ClearDomainEvents()
	return r
}

func TestNewReimbursement(t *testing.T) {
	r, err := NewReimbursement("REP-2026-00001", "Viáticos",
		decimal.NewFromInt(1000), uuid.New(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, EstadoPendiente, r.Estado)
	require.Len(t, r.GetDomainEvents(), 1)
	ev := r.GetDomainEvents()[0].(*ReimbursementTransitionedEvent)
	assert.Equal(t, Estado(""), ev.PreviousEstado)
	assert.Equal(t, EstadoPendiente, ev.NewEstado)
}

func TestReimbursement_ApproveThenPay(t *testing.T) {
	r := newTestReimbursement(t)
	approver := uuid.New()
	treasury := uuid.New()

	require.NoError(t, r.Approve(approver))
	assert.Equal(t, EstadoAprobado, r.Estado)
	assert.Equal(t, approver, *r.AutorizadoPor)

	require.NoError(t, r.MarkPaid(treasury))
	assert.Equal(t, EstadoPagado, r.Estado)
	assert.Equal(t, treasury, *r.PagadoPor)
	assert.NotNil(t, r.FechaPago)

	// pagado is terminal
	assert.Error(t, r.Revert(approver))
	assert.Error(t, r.Cancel(r.SolicitadoPor))
}

func TestReimbursement_RejectRequiresJustification(t *testing.T) {
	r := newTestReimbursement(t)

	assert.Error(t, r.Reject(uuid.New(), ""))

	require.NoError(t, r.Reject(uuid.New(), "comprobantes incompletos"))
	assert.Equal(t, EstadoRechazado, r.Estado)

	ev := r.GetDomainEvents()[0].(*ReimbursementTransitionedEvent)
	assert.True(t, ev.JustificacionSet)
}

func TestReimbursement_Revert(t *testing.T) {
	r := newTestReimbursement(t)
	approver := uuid.New()

	require.NoError(t, r.Approve(approver))
	require.NoError(t, r.Revert(approver))
	assert.Equal(t, EstadoPendiente, r.Estado)

	require.NoError(t, r.Reject(approver, "duplicado"))
	require.NoError(t, r.Revert(approver))
	assert.Equal(t, EstadoPendiente, r.Estado)
	assert.Equal(t, "duplicado", r.JustificacionRechazo)
}

func TestReimbursement_CannotPayPendiente(t *testing.T) {
	r := newTestReimbursement(t)
	assert.Error(t, r.MarkPaid(uuid.New()))
	assert.Equal(t, EstadoPendiente, r.Estado)
}

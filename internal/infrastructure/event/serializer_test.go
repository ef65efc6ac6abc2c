package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramites/backend/internal/domain/shared"
	"github.com/tramites/backend/internal/domain/tramite"
)

func TestEventSerializer_RoundTrip(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	original := &tramite.RequisitionTransitionedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			tramite.RequisitionTransitionedEventType, "Requisition", uuid.New()),
		Folio:                "REQ-2026-00099",
		PreviousEstado:       tramite.EstadoPendiente,
		NewEstado:            tramite.EstadoRechazado,
		SolicitadoPor:        uuid.New(),
		AutorizadorID:        uuid.New(),
		JustificacionRechazo: "sin presupuesto",
		JustificacionSet:     true,
	}

	data, err := serializer.Serialize(original)
	require.NoError(t, err)

	restored, err := serializer.Deserialize(tramite.RequisitionTransitionedEventType, data)
	require.NoError(t, err)

	event, ok := restored.(*tramite.RequisitionTransitionedEvent)
	require.True(t, ok)
	assert.Equal(t, original.Folio, event.Folio)
	assert.Equal(t, original.NewEstado, event.NewEstado)
	assert.Equal(t, original.SolicitadoPor, event.SolicitadoPor)
	assert.True(t, event.JustificacionSet)
	assert.Equal(t, original.EventID(), event.EventID())
}

func TestEventSerializer_UnknownType(t *testing.T) {
	serializer := NewEventSerializer()

	_, err := serializer.Deserialize("never.registered", []byte("{}"))
	assert.Error(t, err)
}

func TestRegisterAllEvents(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	assert.True(t, serializer.IsRegistered(tramite.RequisitionTransitionedEventType))
	assert.True(t, serializer.IsRegistered(tramite.ReimbursementTransitionedEventType))
}

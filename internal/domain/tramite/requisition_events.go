package tramite

import (
	"github.com/google/uuid"

	"github.com/tramites/backend/internal/domain/shared"
)

// Requisition event types
const (
	RequisitionTransitionedEventType = "requisition.transitioned"
)

// RequisitionTransitionedEvent is emitted once per committed estado change.
// PreviousEstado is empty for the initial submission. JustificacionSet marks
// a rejection justification going from empty to non-empty in this transition,
// which the notification pipeline treats as an owner-only rejection message.
type RequisitionTransitionedEvent struct {
	shared.BaseDomainEvent
	Folio                string    `json:"folio"`
	PreviousEstado       Estado    `json:"previous_estado"`
	NewEstado            Estado    `json:"new_estado"`
	SolicitadoPor        uuid.UUID `json:"solicitado_por"`
	AutorizadorID        uuid.UUID `json:"autorizador_id"`
	JustificacionRechazo string    `json:"justificacion_rechazo,omitempty"`
	JustificacionSet     bool      `json:"justificacion_set"`
}

// NewRequisitionTransitionedEvent creates a transition event from the
// requisition's current (post-mutation) state
func NewRequisitionTransitionedEvent(r *Requisition, prev Estado, justificacionSet bool) *RequisitionTransitionedEvent {
	return &RequisitionTransitionedEvent{
		BaseDomainEvent:      shared.NewBaseDomainEvent(RequisitionTransitionedEventType, "Requisition", r.ID),
		Folio:                r.Folio,
		PreviousEstado:       prev,
		NewEstado:            r.Estado,
		SolicitadoPor:        r.SolicitadoPor,
		AutorizadorID:        r.AutorizadorID,
		JustificacionRechazo: r.JustificacionRechazo,
		JustificacionSet:     justificacionSet,
	}
}

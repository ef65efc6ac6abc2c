package tramite

import (
	"github.com/google/uuid"

	"github.com/tramites/backend/internal/domain/shared"
)

// Reimbursement event types
const (
	ReimbursementTransitionedEventType = "reimbursement.transitioned"
)

// ReimbursementTransitionedEvent is emitted once per committed estado change
type ReimbursementTransitionedEvent struct {
	shared.BaseDomainEvent
	Folio                string    `json:"folio"`
	PreviousEstado       Estado    `json:"previous_estado"`
	NewEstado            Estado    `json:"new_estado"`
	SolicitadoPor        uuid.UUID `json:"solicitado_por"`
	AutorizadorID        uuid.UUID `json:"autorizador_id"`
	JustificacionRechazo string    `json:"justificacion_rechazo,omitempty"`
	JustificacionSet     bool      `json:"justificacion_set"`
}

// NewReimbursementTransitionedEvent creates a transition event from the
// reimbursement's current (post-mutation) state
func NewReimbursementTransitionedEvent(r *Reimbursement, prev Estado, justificacionSet bool) *ReimbursementTransitionedEvent {
	return &ReimbursementTransitionedEvent{
		BaseDomainEvent:      shared.NewBaseDomainEvent(ReimbursementTransitionedEventType, "Reimbursement", r.ID),
		Folio:                r.Folio,
		PreviousEstado:       prev,
		NewEstado:            r.Estado,
		SolicitadoPor:        r.SolicitadoPor,
		AutorizadorID:        r.AutorizadorID,
		JustificacionRechazo: r.JustificacionRechazo,
		JustificacionSet:     justificacionSet,
	}
}

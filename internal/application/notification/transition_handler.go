package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tramites/backend/internal/domain/notification"
	"github.com/tramites/backend/internal/domain/shared"
	"github.com/tramites/backend/internal/domain/tramite"
)

// TransitionHandler is the async notification pipeline. It consumes the
// transition events delivered after commit, resolves the recipient set,
// applies preferences and fans out push deliveries. Nothing here may fail
// the transition that produced the event: every error is logged and
// swallowed.
type TransitionHandler struct {
	directory   notification.RoleDirectory
	preferences notification.PreferenceRepository
	dispatcher  notification.Dispatcher
	baseURL     string
	logger      *zap.Logger
}

// NewTransitionHandler creates the pipeline handler
func NewTransitionHandler(
	directory notification.RoleDirectory,
	preferences notification.PreferenceRepository,
	dispatcher notification.Dispatcher,
	baseURL string,
	logger *zap.Logger,
) *TransitionHandler {
	return &TransitionHandler{
		directory:   directory,
		preferences: preferences,
		dispatcher:  dispatcher,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// EventTypes implements shared.EventHandler
func (h *TransitionHandler) EventTypes() []string {
	return []string{
		tramite.RequisitionTransitionedEventType,
		tramite.ReimbursementTransitionedEventType,
	}
}

// Handle implements shared.EventHandler
func (h *TransitionHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	tr, ok := transitionFrom(event)
	if !ok {
		return nil
	}

	set := notification.ResolveTargets(tr)
	if set.IsEmpty() {
		return nil
	}

	users := append([]uuid.UUID{}, set.Users...)
	for _, role := range set.Roles {
		members, err := h.directory.MembersOf(ctx, role)
		if err != nil {
			// broadcast lost, direct targets still go out
			h.logger.Warn("role member lookup failed",
				zap.String("role", string(role)),
				zap.Error(err))
			continue
		}
		users = append(users, members...)
	}

	recipients := notification.FilterByPreference(ctx, h.preferences, users, tr.TramiteType)
	if len(recipients) == 0 {
		return nil
	}

	payload := notification.NewPayload(tr, h.baseURL)
	result := h.dispatcher.Dispatch(ctx, recipients, payload)

	h.logger.Info("push dispatch finished",
		zap.String("folio", tr.Folio),
		zap.String("estado", string(tr.NewEstado)),
		zap.Int("recipients", len(recipients)),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed))
	return nil
}

func transitionFrom(event shared.DomainEvent) (notification.Transition, bool) {
	switch e := event.(type) {
	case *tramite.RequisitionTransitionedEvent:
		return notification.Transition{
			TramiteType:      tramite.TypeRequisition,
			TramiteID:        e.AggregateID(),
			Folio:            e.Folio,
			PreviousEstado:   e.PreviousEstado,
			NewEstado:        e.NewEstado,
			SolicitadoPor:    e.SolicitadoPor,
			AutorizadorID:    e.AutorizadorID,
			JustificacionSet: e.JustificacionSet,
		}, true
	case *tramite.ReimbursementTransitionedEvent:
		return notification.Transition{
			TramiteType:      tramite.TypeReimbursement,
			TramiteID:        e.AggregateID(),
			Folio:            e.Folio,
			PreviousEstado:   e.PreviousEstado,
			NewEstado:        e.NewEstado,
			SolicitadoPor:    e.SolicitadoPor,
			AutorizadorID:    e.AutorizadorID,
			JustificacionSet: e.JustificacionSet,
		}, true
	}
	return notification.Transition{}, false
}

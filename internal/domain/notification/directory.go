package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/tramites/backend/internal/domain/tramite"
)

// RoleDirectory resolves a role name to its current member user ids.
// Identity management lives outside the workflow core; this is the only
// view of it the pipeline needs.
type RoleDirectory interface {
	MembersOf(ctx context.Context, role tramite.Role) ([]uuid.UUID, error)
}

// DispatchResult aggregates a best-effort push fan-out
type DispatchResult struct {
	Sent   int
	Failed int
}

// Dispatcher delivers a payload to the given users' registered endpoints.
// Implementations never return an error: delivery failures are aggregated
// into the result and must not reach the transition that triggered them.
type Dispatcher interface {
	Dispatch(ctx context.Context, userIDs []uuid.UUID, payload Payload) DispatchResult
}

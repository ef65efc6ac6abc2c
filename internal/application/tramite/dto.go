package tramite

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tramites/backend/internal/domain/tramite"
)

// CreateRequisitionRequest carries the fields for a new requisition.
// The folio is assigned by the service, the owner is the acting user.
type CreateRequisitionRequest struct {
	Concepto      string
	Descripcion   string
	Monto         decimal.Decimal
	AutorizadorID uuid.UUID
}

// EditResubmitRequest carries the amended fields for a sent-back requisition
type EditResubmitRequest struct {
	Concepto    string
	Descripcion string
	Monto       decimal.Decimal
}

// CreateReimbursementRequest carries the fields for a new reimbursement
type CreateReimbursementRequest struct {
	Concepto      string
	Monto         decimal.Decimal
	AutorizadorID uuid.UUID
}

// ListRequest carries listing filters and pagination
type ListRequest struct {
	Estado        *tramite.Estado
	SolicitadoPor *uuid.UUID
	AutorizadorID *uuid.UUID
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}

func (r ListRequest) filter() tramite.Filter {
	return tramite.Filter{
		Estado:        r.Estado,
		SolicitadoPor: r.SolicitadoPor,
		AutorizadorID: r.AutorizadorID,
		From:          r.From,
		To:            r.To,
	}
}

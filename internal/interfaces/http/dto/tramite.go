package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apptramite "github.com/tramites/backend/internal/application/tramite"
	"github.com/tramites/backend/internal/domain/tramite"
)

// CreateRequisitionRequest is the payload for submitting a requisition
type CreateRequisitionRequest struct {
	Concepto      string          `json:"concepto" binding:"required,max=200"`
	Descripcion   string          `json:"descripcion" binding:"max=2000"`
	Monto         decimal.Decimal `json:"monto" binding:"required,decimal_gt0"`
	AutorizadorID string          `json:"autorizador_id" binding:"required,uuid"`
}

// EditResubmitRequest is the payload for amending a sent-back requisition
type EditResubmitRequest struct {
	Concepto    string          `json:"concepto" binding:"required,max=200"`
	Descripcion string          `json:"descripcion" binding:"max=2000"`
	Monto       decimal.Decimal `json:"monto" binding:"required,decimal_gt0"`
}

// CreateReimbursementRequest is the payload for submitting a reimbursement
type CreateReimbursementRequest struct {
	Concepto      string          `json:"concepto" binding:"required,max=200"`
	Monto         decimal.Decimal `json:"monto" binding:"required,decimal_gt0"`
	AutorizadorID string          `json:"autorizador_id" binding:"required,uuid"`
}

// RejectRequest carries the mandatory justification for a rejection
type RejectRequest struct {
	Justificacion string `json:"justificacion" binding:"required,max=2000"`
}

// IDRequest binds the aggregate id path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListTramitesRequest binds listing filters from query parameters
type ListTramitesRequest struct {
	Estado        string `form:"estado"`
	SolicitadoPor string `form:"solicitado_por"`
	AutorizadorID string `form:"autorizador_id"`
	From          string `form:"from"`
	To            string `form:"to"`
	Page          int    `form:"page,default=1"`
	PageSize      int    `form:"page_size,default=20"`
}

// ToListRequest converts the query parameters into the application filter
func (r ListTramitesRequest) ToListRequest() (apptramite.ListRequest, error) {
	req := apptramite.ListRequest{Page: r.Page, PageSize: r.PageSize}

	if r.Estado != "" {
		estado := tramite.Estado(r.Estado)
		req.Estado = &estado
	}
	if r.SolicitadoPor != "" {
		id, err := uuid.Parse(r.SolicitadoPor)
		if err != nil {
			return req, err
		}
		req.SolicitadoPor = &id
	}
	if r.AutorizadorID != "" {
		id, err := uuid.Parse(r.AutorizadorID)
		if err != nil {
			return req, err
		}
		req.AutorizadorID = &id
	}
	if r.From != "" {
		t, err := time.Parse(time.RFC3339, r.From)
		if err != nil {
			return req, err
		}
		req.From = &t
	}
	if r.To != "" {
		t, err := time.Parse(time.RFC3339, r.To)
		if err != nil {
			return req, err
		}
		req.To = &t
	}
	return req, nil
}

// RequisitionResponse is the API view of a requisition
type RequisitionResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Folio                string          `json:"folio"`
	Concepto             string          `json:"concepto"`
	Descripcion          string          `json:"descripcion,omitempty"`
	Monto                decimal.Decimal `json:"monto"`
	SolicitadoPor        uuid.UUID       `json:"solicitado_por"`
	AutorizadorID        uuid.UUID       `json:"autorizador_id"`
	Estado               string          `json:"estado"`
	JustificacionRechazo string          `json:"justificacion_rechazo,omitempty"`

	AutorizadoPor         *uuid.UUID `json:"autorizado_por,omitempty"`
	FechaAutorizacion     *time.Time `json:"fecha_autorizacion,omitempty"`
	LicitadoPor           *uuid.UUID `json:"licitado_por,omitempty"`
	FechaLicitacion       *time.Time `json:"fecha_licitacion,omitempty"`
	PedidoColocadoPor     *uuid.UUID `json:"pedido_colocado_por,omitempty"`
	FechaPedidoColocado   *time.Time `json:"fecha_pedido_colocado,omitempty"`
	PedidoAutorizadoPor   *uuid.UUID `json:"pedido_autorizado_por,omitempty"`
	FechaPedidoAutorizado *time.Time `json:"fecha_pedido_autorizado,omitempty"`
	PagadoPor             *uuid.UUID `json:"pagado_por,omitempty"`
	FechaPago             *time.Time `json:"fecha_pago,omitempty"`

	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RequisitionResponseFromDomain converts a requisition aggregate to its API view
func RequisitionResponseFromDomain(r *tramite.Requisition) RequisitionResponse {
	return RequisitionResponse{
		ID:                    r.ID,
		Folio:                 r.Folio,
		Concepto:              r.Concepto,
		Descripcion:           r.Descripcion,
		Monto:                 r.Monto,
		SolicitadoPor:         r.SolicitadoPor,
		AutorizadorID:         r.AutorizadorID,
		Estado:                string(r.Estado),
		JustificacionRechazo:  r.JustificacionRechazo,
		AutorizadoPor:         r.AutorizadoPor,
		FechaAutorizacion:     r.FechaAutorizacion,
		LicitadoPor:           r.LicitadoPor,
		FechaLicitacion:       r.FechaLicitacion,
		PedidoColocadoPor:     r.PedidoColocadoPor,
		FechaPedidoColocado:   r.FechaPedidoColocado,
		PedidoAutorizadoPor:   r.PedidoAutorizadoPor,
		FechaPedidoAutorizado: r.FechaPedidoAutorizado,
		PagadoPor:             r.PagadoPor,
		FechaPago:             r.FechaPago,
		DeletedAt:             r.DeletedAt,
		Version:               r.GetVersion(),
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

// RequisitionResponsesFromDomain converts a slice of requisitions
func RequisitionResponsesFromDomain(items []*tramite.Requisition) []RequisitionResponse {
	out := make([]RequisitionResponse, len(items))
	for i, r := range items {
		out[i] = RequisitionResponseFromDomain(r)
	}
	return out
}

// ReimbursementResponse is the API view of a reimbursement
type ReimbursementResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Folio                string          `json:"folio"`
	Concepto             string          `json:"concepto"`
	Monto                decimal.Decimal `json:"monto"`
	SolicitadoPor        uuid.UUID       `json:"solicitado_por"`
	AutorizadorID        uuid.UUID       `json:"autorizador_id"`
	Estado               string          `json:"estado"`
	JustificacionRechazo string          `json:"justificacion_rechazo,omitempty"`

	AutorizadoPor     *uuid.UUID `json:"autorizado_por,omitempty"`
	FechaAutorizacion *time.Time `json:"fecha_autorizacion,omitempty"`
	PagadoPor         *uuid.UUID `json:"pagado_por,omitempty"`
	FechaPago         *time.Time `json:"fecha_pago,omitempty"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReimbursementResponseFromDomain converts a reimbursement aggregate to its API view
func ReimbursementResponseFromDomain(r *tramite.Reimbursement) ReimbursementResponse {
	return ReimbursementResponse{
		ID:                   r.ID,
		Folio:                r.Folio,
		Concepto:             r.Concepto,
		Monto:                r.Monto,
		SolicitadoPor:        r.SolicitadoPor,
		AutorizadorID:        r.AutorizadorID,
		Estado:               string(r.Estado),
		JustificacionRechazo: r.JustificacionRechazo,
		AutorizadoPor:        r.AutorizadoPor,
		FechaAutorizacion:    r.FechaAutorizacion,
		PagadoPor:            r.PagadoPor,
		FechaPago:            r.FechaPago,
		Version:              r.GetVersion(),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// ReimbursementResponsesFromDomain converts a slice of reimbursements
func ReimbursementResponsesFromDomain(items []*tramite.Reimbursement) []ReimbursementResponse {
	out := make([]ReimbursementResponse, len(items))
	for i, r := range items {
		out[i] = ReimbursementResponseFromDomain(r)
	}
	return out
}

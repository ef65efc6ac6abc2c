package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apptramite "github.com/tramites/backend/internal/application/tramite"
	"github.com/tramites/backend/internal/domain/tramite"
	"github.com/tramites/backend/internal/interfaces/http/dto"
)

// ReimbursementHandler handles reimbursement API endpoints
type ReimbursementHandler struct {
	BaseHandler
	service *apptramite.ReimbursementService
}

// NewReimbursementHandler creates a new ReimbursementHandler
func NewReimbursementHandler(service *apptramite.ReimbursementService) *ReimbursementHandler {
	return &ReimbursementHandler{service: service}
}

// Create submits a new reimbursement owned by the authenticated user
func (h *ReimbursementHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.CreateReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	autorizadorID, err := uuid.Parse(req.AutorizadorID)
	if err != nil {
		h.BadRequest(c, "Invalid autorizador_id")
		return
	}

	r, err := h.service.Create(c.Request.Context(), actor, apptramite.CreateReimbursementRequest{
		Concepto:      req.Concepto,
		Monto:         req.Monto,
		AutorizadorID: autorizadorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ReimbursementResponseFromDomain(r))
}

// Get returns a reimbursement by id
func (h *ReimbursementHandler) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid reimbursement ID")
		return
	}

	r, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ReimbursementResponseFromDomain(r))
}

// List returns a filtered page of reimbursements
func (h *ReimbursementHandler) List(c *gin.Context) {
	var query dto.ListTramitesRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req, err := query.ToListRequest()
	if err != nil {
		h.BadRequest(c, "Invalid filter parameters")
		return
	}

	page, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.ReimbursementResponsesFromDomain(page.Items), page.Total, page.Page, page.PageSize)
}

func (h *ReimbursementHandler) transition(c *gin.Context, fn func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Reimbursement, error)) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid reimbursement ID")
		return
	}

	r, err := fn(c, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ReimbursementResponseFromDomain(r))
}

// Approve moves a pending reimbursement to aprobado
func (h *ReimbursementHandler) Approve(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Reimbursement, error) {
		return h.service.Approve(c.Request.Context(), actor, id)
	})
}

// Reject moves a pending reimbursement to rechazado with a justification
func (h *ReimbursementHandler) Reject(c *gin.Context) {
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Justificacion is required")
		return
	}
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Reimbursement, error) {
		return h.service.Reject(c.Request.Context(), actor, id, req.Justificacion)
	})
}

// Revert sends a rejected reimbursement back to pendiente
func (h *ReimbursementHandler) Revert(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Reimbursement, error) {
		return h.service.Revert(c.Request.Context(), actor, id)
	})
}

// Cancel moves a reimbursement to cancelado
func (h *ReimbursementHandler) Cancel(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Reimbursement, error) {
		return h.service.Cancel(c.Request.Context(), actor, id)
	})
}

// MarkPaid moves an approved reimbursement to pagado
func (h *ReimbursementHandler) MarkPaid(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Reimbursement, error) {
		return h.service.MarkPaid(c.Request.Context(), actor, id)
	})
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apptramite "github.com/tramites/backend/internal/application/tramite"
	"github.com/tramites/backend/internal/domain/tramite"
	"github.com/tramites/backend/internal/interfaces/http/dto"
)

// RequisitionHandler handles requisition API endpoints
type RequisitionHandler struct {
	BaseHandler
	service *apptramite.RequisitionService
}

// NewRequisitionHandler creates a new RequisitionHandler
func NewRequisitionHandler(service *apptramite.RequisitionService) *RequisitionHandler {
	return &RequisitionHandler{service: service}
}

// Create submits a new requisition owned by the authenticated user
func (h *RequisitionHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	autorizadorID, err := uuid.Parse(req.AutorizadorID)
	if err != nil {
		h.BadRequest(c, "Invalid autorizador_id")
		return
	}

	r, err := h.service.Create(c.Request.Context(), actor, apptramite.CreateRequisitionRequest{
		Concepto:      req.Concepto,
		Descripcion:   req.Descripcion,
		Monto:         req.Monto,
		AutorizadorID: autorizadorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.RequisitionResponseFromDomain(r))
}

// Get returns a requisition by id
func (h *RequisitionHandler) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID")
		return
	}

	r, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.RequisitionResponseFromDomain(r))
}

// List returns a filtered page of requisitions
func (h *RequisitionHandler) List(c *gin.Context) {
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
	h.SuccessWithMeta(c, dto.RequisitionResponsesFromDomain(page.Items), page.Total, page.Page, page.PageSize)
}

// ListDeleted returns soft-deleted requisitions, visible to elevated roles only
func (h *RequisitionHandler) ListDeleted(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

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

	page, err := h.service.ListDeleted(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.RequisitionResponsesFromDomain(page.Items), page.Total, page.Page, page.PageSize)
}

// transitionFunc is a service call that moves a requisition between estados
type transitionFunc func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error)

func (h *RequisitionHandler) transition(c *gin.Context, fn transitionFunc) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID")
		return
	}

	r, err := fn(c, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.RequisitionResponseFromDomain(r))
}

// rejection reads the mandatory justification and applies the given rejection call
func (h *RequisitionHandler) rejection(c *gin.Context, fn func(c *gin.Context, actor tramite.Actor, id uuid.UUID, justificacion string) (*tramite.Requisition, error)) {
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Justificacion is required")
		return
	}
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
		return fn(c, actor, id, req.Justificacion)
	})
}

// Approve moves a pending requisition to aprobado
func (h *RequisitionHandler) Approve(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
		return h.service.Approve(c.Request.Context(), actor, id)
	})
}

// Reject moves a pending requisition to rechazado with a justification
func (h *RequisitionHandler) Reject(c *gin.Context) {
	h.rejection(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID, justificacion string) (*tramite.Requisition, error) {
		return h.service.Reject(c.Request.Context(), actor, id, justificacion)
	})
}

// Revert sends a rejected requisition back to pendiente
func (h *RequisitionHandler) Revert(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
		return h.service.Revert(c.Request.Context(), actor, id)
	})
}

// Cancel moves a requisition to cancelado
func (h *RequisitionHandler) Cancel(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
		return h.service.Cancel(c.Request.Context(), actor, id)
	})
}

// AdvanceToBidding moves an approved requisition to en_licitacion
func (h *RequisitionHandler) AdvanceToBidding(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
		return h.service.AdvanceToBidding(c.Request.Context(), actor, id)
	})
}

// RejectBeforeBidding rejects an approved requisition before bidding starts
func (h *RequisitionHandler) RejectBeforeBidding(c *gin.Context) {
	h.rejection(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID, justificacion string) (*tramite.Requisition, error) {
		return h.service.RejectBeforeBidding(c.Request.Context(), actor, id, justificacion)
	})
}

// PlaceOrder moves a requisition in bidding to pedido_colocado
func (h *RequisitionHandler) PlaceOrder(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
		return h.service.PlaceOrder(c.Request.Context(), actor, id)
	})
}

// AuthorizeOrder moves a placed order to pedido_autorizado
func (h *RequisitionHandler) AuthorizeOrder(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
		return h.service.AuthorizeOrder(c.Request.Context(), actor, id)
	})
}

// MarkPaid moves an authorized order to pedido_pagado
func (h *RequisitionHandler) MarkPaid(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
		return h.service.MarkPaid(c.Request.Context(), actor, id)
	})
}

// SoftDelete hides a requisition from regular listings
func (h *RequisitionHandler) SoftDelete(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
		return h.service.SoftDelete(c.Request.Context(), actor, id)
	})
}

// Restore brings a soft-deleted requisition back
func (h *RequisitionHandler) Restore(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
		return h.service.Restore(c.Request.Context(), actor, id)
	})
}

// EditResubmit lets the owner amend a sent-back requisition and resubmit it
func (h *RequisitionHandler) EditResubmit(c *gin.Context) {
	var req dto.EditResubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.transition(c, func(c *gin.Context, actor tramite.Actor, id uuid.UUID) (*tramite.Requisition, error) {
		return h.service.EditResubmit(c.Request.Context(), actor, id, apptramite.EditResubmitRequest{
			Concepto:    req.Concepto,
			Descripcion: req.Descripcion,
			Monto:       req.Monto,
		})
	})
}

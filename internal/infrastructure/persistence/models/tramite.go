package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tramites/backend/internal/domain/tramite"
)

// RequisitionModel is the persistence model for the Requisition aggregate root.
type RequisitionModel struct {
	AggregateModel
	Folio                string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	Concepto             string          `gorm:"type:varchar(200);not null"`
	Descripcion          string          `gorm:"type:text"`
	Monto                decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SolicitadoPor        uuid.UUID       `gorm:"type:uuid;not null;index"`
	AutorizadorID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Estado               tramite.Estado  `gorm:"type:varchar(30);not null;default:'pendiente';index"`
	JustificacionRechazo string          `gorm:"type:varchar(500)"`

	AutorizadoPor         *uuid.UUID `gorm:"type:uuid"`
	FechaAutorizacion     *time.Time
	LicitadoPor           *uuid.UUID `gorm:"type:uuid"`
	FechaLicitacion       *time.Time
	PedidoColocadoPor     *uuid.UUID `gorm:"type:uuid"`
	FechaPedidoColocado   *time.Time
	PedidoAutorizadoPor   *uuid.UUID `gorm:"type:uuid"`
	FechaPedidoAutorizado *time.Time
	PagadoPor             *uuid.UUID `gorm:"type:uuid"`
	FechaPago             *time.Time

	DeletedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (RequisitionModel) TableName() string {
	return "requisiciones"
}

// ToDomain converts the persistence model to a domain Requisition.
func (m *RequisitionModel) ToDomain() *tramite.Requisition {
	return &tramite.Requisition{
		BaseAggregateRoot:     m.ToDomainAggregateRoot(),
		Folio:                 m.Folio,
		Concepto:              m.Concepto,
		Descripcion:           m.Descripcion,
		Monto:                 m.Monto,
		SolicitadoPor:         m.SolicitadoPor,
		AutorizadorID:         m.AutorizadorID,
		Estado:                m.Estado,
		JustificacionRechazo:  m.JustificacionRechazo,
		AutorizadoPor:         m.AutorizadoPor,
		FechaAutorizacion:     m.FechaAutorizacion,
		LicitadoPor:           m.LicitadoPor,
		FechaLicitacion:       m.FechaLicitacion,
		PedidoColocadoPor:     m.PedidoColocadoPor,
		FechaPedidoColocado:   m.FechaPedidoColocado,
		PedidoAutorizadoPor:   m.PedidoAutorizadoPor,
		FechaPedidoAutorizado: m.FechaPedidoAutorizado,
		PagadoPor:             m.PagadoPor,
		FechaPago:             m.FechaPago,
		DeletedAt:             m.DeletedAt,
	}
}

// FromDomain populates the persistence model from a domain Requisition.
func (m *RequisitionModel) FromDomain(r *tramite.Requisition) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Folio = r.Folio
	m.Concepto = r.Concepto
	m.Descripcion = r.Descripcion
	m.Monto = r.Monto
	m.SolicitadoPor = r.SolicitadoPor
	m.AutorizadorID = r.AutorizadorID
	m.Estado = r.Estado
	m.JustificacionRechazo = r.JustificacionRechazo
	m.AutorizadoPor = r.AutorizadoPor
	m.FechaAutorizacion = r.FechaAutorizacion
	m.LicitadoPor = r.LicitadoPor
	m.FechaLicitacion = r.FechaLicitacion
	m.PedidoColocadoPor = r.PedidoColocadoPor
	m.FechaPedidoColocado = r.FechaPedidoColocado
	m.PedidoAutorizadoPor = r.PedidoAutorizadoPor
	m.FechaPedidoAutorizado = r.FechaPedidoAutorizado
	m.PagadoPor = r.PagadoPor
	m.FechaPago = r.FechaPago
	m.DeletedAt = r.DeletedAt
}

// RequisitionModelFromDomain creates a new persistence model from a domain Requisition.
func RequisitionModelFromDomain(r *tramite.Requisition) *RequisitionModel {
	m := &RequisitionModel{}
	m.FromDomain(r)
	return m
}

// ReimbursementModel is the persistence model for the Reimbursement aggregate root.
type ReimbursementModel struct {
	AggregateModel
	Folio                string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	Concepto             string          `gorm:"type:varchar(200);not null"`
	Monto                decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SolicitadoPor        uuid.UUID       `gorm:"type:uuid;not null;index"`
	AutorizadorID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Estado               tramite.Estado  `gorm:"type:varchar(30);not null;default:'pendiente';index"`
	JustificacionRechazo string          `gorm:"type:varchar(500)"`

	AutorizadoPor     *uuid.UUID `gorm:"type:uuid"`
	FechaAutorizacion *time.Time
	PagadoPor         *uuid.UUID `gorm:"type:uuid"`
	FechaPago         *time.Time
}

// TableName returns the table name for GORM
func (ReimbursementModel) TableName() string {
	return "reposiciones"
}

// ToDomain converts the persistence model to a domain Reimbursement.
func (m *ReimbursementModel) ToDomain() *tramite.Reimbursement {
	return &tramite.Reimbursement{
		BaseAggregateRoot:    m.ToDomainAggregateRoot(),
		Folio:                m.Folio,
		Concepto:             m.Concepto,
		Monto:                m.Monto,
		SolicitadoPor:        m.SolicitadoPor,
		AutorizadorID:        m.AutorizadorID,
		Estado:               m.Estado,
		JustificacionRechazo: m.JustificacionRechazo,
		AutorizadoPor:        m.AutorizadoPor,
		FechaAutorizacion:    m.FechaAutorizacion,
		PagadoPor:            m.PagadoPor,
		FechaPago:            m.FechaPago,
	}
}

// FromDomain populates the persistence model from a domain Reimbursement.
func (m *ReimbursementModel) FromDomain(r *tramite.Reimbursement) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Folio = r.Folio
	m.Concepto = r.Concepto
	m.Monto = r.Monto
	m.SolicitadoPor = r.SolicitadoPor
	m.AutorizadorID = r.AutorizadorID
	m.Estado = r.Estado
	m.JustificacionRechazo = r.JustificacionRechazo
	m.AutorizadoPor = r.AutorizadoPor
	m.FechaAutorizacion = r.FechaAutorizacion
	m.PagadoPor = r.PagadoPor
	m.FechaPago = r.FechaPago
}

// ReimbursementModelFromDomain creates a new persistence model from a domain Reimbursement.
func ReimbursementModelFromDomain(r *tramite.Reimbursement) *ReimbursementModel {
	m := &ReimbursementModel{}
	m.FromDomain(r)
	return m
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tramites/backend/internal/domain/shared"
	"github.com/tramites/backend/internal/domain/tramite"
	"github.com/tramites/backend/internal/infrastructure/persistence/models"
)

// GormRequisitionRepository implements tramite.RequisitionRepository using GORM
type GormRequisitionRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormRequisitionRepository creates a new GormRequisitionRepository
func NewGormRequisitionRepository(db *gorm.DB) *GormRequisitionRepository {
	return &GormRequisitionRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormRequisitionRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Save creates a new requisition and stores its pending events in the outbox
// within the same transaction
func (r *GormRequisitionRepository) Save(ctx context.Context, req *tramite.Requisition) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.RequisitionModelFromDomain(req)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		if r.outboxSaver != nil {
			if events := req.GetDomainEvents(); len(events) > 0 {
				return r.outboxSaver.SaveEvents(ctx, tx, events...)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	req.ClearDomainEvents()
	return nil
}

// FindByID finds a requisition by its ID, including soft-deleted ones
func (r *GormRequisitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*tramite.Requisition, error) {
	var model models.RequisitionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveWithLockAndEvents updates a requisition guarded by an optimistic-lock
// check on expectedVersion and persists pending domain events to the outbox
// in the same transaction. The aggregate carries the already incremented
// version; the update only lands when the stored row still matches the
// version the caller loaded.
func (r *GormRequisitionRepository) SaveWithLockAndEvents(ctx context.Context, req *tramite.Requisition, expectedVersion int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.RequisitionModel{}).
			Where("id = ? AND version = ?", req.ID, expectedVersion).
			Updates(map[string]interface{}{
				"concepto":                req.Concepto,
				"descripcion":             req.Descripcion,
				"monto":                   req.Monto,
				"estado":                  req.Estado,
				"justificacion_rechazo":   req.JustificacionRechazo,
				"autorizado_por":          req.AutorizadoPor,
				"fecha_autorizacion":      req.FechaAutorizacion,
				"licitado_por":            req.LicitadoPor,
				"fecha_licitacion":        req.FechaLicitacion,
				"pedido_colocado_por":     req.PedidoColocadoPor,
				"fecha_pedido_colocado":   req.FechaPedidoColocado,
				"pedido_autorizado_por":   req.PedidoAutorizadoPor,
				"fecha_pedido_autorizado": req.FechaPedidoAutorizado,
				"pagado_por":              req.PagadoPor,
				"fecha_pago":              req.FechaPago,
				"deleted_at":              req.DeletedAt,
				"version":                 req.Version,
				"updated_at":              req.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.RequisitionModel{}).
				Where("id = ?", req.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.ErrNotFound
			}
			return shared.ErrConcurrencyConflict
		}

		if r.outboxSaver != nil {
			if events := req.GetDomainEvents(); len(events) > 0 {
				return r.outboxSaver.SaveEvents(ctx, tx, events...)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	req.ClearDomainEvents()
	return nil
}

// List returns a page of requisitions matching the filter, newest first
func (r *GormRequisitionRepository) List(ctx context.Context, filter tramite.Filter, page shared.Pagination) (*shared.Paginated[*tramite.Requisition], error) {
	query := r.db.WithContext(ctx).Model(&models.RequisitionModel{})
	query = applyTramiteFilter(query, filter)
	if filter.OnlyDeleted {
		query = query.Where("deleted_at IS NOT NULL")
	} else {
		query = query.Where("deleted_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.RequisitionModel
	if err := query.
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*tramite.Requisition, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return &shared.Paginated[*tramite.Requisition]{
		Items:    items,
		Total:    total,
		Page:     page.Page,
		PageSize: page.Limit(),
	}, nil
}

// CountByFolioPrefix counts requisitions whose folio starts with the prefix
func (r *GormRequisitionRepository) CountByFolioPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RequisitionModel{}).
		Where("folio LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

// applyTramiteFilter applies the common listing filters shared by both
// tramite repositories
func applyTramiteFilter(query *gorm.DB, filter tramite.Filter) *gorm.DB {
	if filter.Estado != nil {
		query = query.Where("estado = ?", *filter.Estado)
	}
	if filter.SolicitadoPor != nil {
		query = query.Where("solicitado_por = ?", *filter.SolicitadoPor)
	}
	if filter.AutorizadorID != nil {
		query = query.Where("autorizador_id = ?", *filter.AutorizadorID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	return query
}

// Ensure GormRequisitionRepository implements the domain contract
var _ tramite.RequisitionRepository = (*GormRequisitionRepository)(nil)

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

// GormReimbursementRepository implements tramite.ReimbursementRepository using GORM
type GormReimbursementRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormReimbursementRepository creates a new GormReimbursementRepository
func NewGormReimbursementRepository(db *gorm.DB) *GormReimbursementRepository {
	return &GormReimbursementRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormReimbursementRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Save creates a new reimbursement and stores its pending events in the
// outbox within the same transaction
func (r *GormReimbursementRepository) Save(ctx context.Context, rec *tramite.Reimbursement) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ReimbursementModelFromDomain(rec)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		if r.outboxSaver != nil {
			if events := rec.GetDomainEvents(); len(events) > 0 {
				return r.outboxSaver.SaveEvents(ctx, tx, events...)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	rec.ClearDomainEvents()
	return nil
}

// FindByID finds a reimbursement by its ID
func (r *GormReimbursementRepository) FindByID(ctx context.Context, id uuid.UUID) (*tramite.Reimbursement, error) {
	var model models.ReimbursementModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveWithLockAndEvents updates a reimbursement guarded by an optimistic-lock
// check on expectedVersion and persists pending domain events to the outbox
// in the same transaction
func (r *GormReimbursementRepository) SaveWithLockAndEvents(ctx context.Context, rec *tramite.Reimbursement, expectedVersion int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ReimbursementModel{}).
			Where("id = ? AND version = ?", rec.ID, expectedVersion).
			Updates(map[string]interface{}{
				"concepto":              rec.Concepto,
				"monto":                 rec.Monto,
				"estado":                rec.Estado,
				"justificacion_rechazo": rec.JustificacionRechazo,
				"autorizado_por":        rec.AutorizadoPor,
				"fecha_autorizacion":    rec.FechaAutorizacion,
				"pagado_por":            rec.PagadoPor,
				"fecha_pago":            rec.FechaPago,
				"version":               rec.Version,
				"updated_at":            rec.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.ReimbursementModel{}).
				Where("id = ?", rec.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.ErrNotFound
			}
			return shared.ErrConcurrencyConflict
		}

		if r.outboxSaver != nil {
			if events := rec.GetDomainEvents(); len(events) > 0 {
				return r.outboxSaver.SaveEvents(ctx, tx, events...)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	rec.ClearDomainEvents()
	return nil
}

// List returns a page of reimbursements matching the filter, newest first.
// Reimbursements have no soft-delete, so OnlyDeleted yields an empty page.
func (r *GormReimbursementRepository) List(ctx context.Context, filter tramite.Filter, page shared.Pagination) (*shared.Paginated[*tramite.Reimbursement], error) {
	if filter.OnlyDeleted {
		return &shared.Paginated[*tramite.Reimbursement]{
			Items:    []*tramite.Reimbursement{},
			Page:     page.Page,
			PageSize: page.Limit(),
		}, nil
	}

	query := r.db.WithContext(ctx).Model(&models.ReimbursementModel{})
	query = applyTramiteFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.ReimbursementModel
	if err := query.
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*tramite.Reimbursement, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return &shared.Paginated[*tramite.Reimbursement]{
		Items:    items,
		Total:    total,
		Page:     page.Page,
		PageSize: page.Limit(),
	}, nil
}

// CountByFolioPrefix counts reimbursements whose folio starts with the prefix
func (r *GormReimbursementRepository) CountByFolioPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReimbursementModel{}).
		Where("folio LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

// Ensure GormReimbursementRepository implements the domain contract
var _ tramite.ReimbursementRepository = (*GormReimbursementRepository)(nil)

package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tramites/backend/internal/domain/shared"
	"github.com/tramites/backend/internal/domain/tramite"
	"github.com/tramites/backend/internal/infrastructure/persistence/models"
)

// newTestDB opens an in-memory SQLite database limited to one connection so
// every query sees the same schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.RequisitionModel{},
		&models.ReimbursementModel{},
		&models.PreferenceModel{},
		&models.SubscriptionModel{},
		&models.UserRoleModel{},
	))
	return db
}

// recordingEventSaver captures events handed to the outbox within a transaction
type recordingEventSaver struct {
	events []shared.DomainEvent
}

func (s *recordingEventSaver) SaveEvents(_ context.Context, _ interface{}, events ...shared.DomainEvent) error {
	s.events = append(s.events, events...)
	return nil
}

func newTestRequisition(t *testing.T, folio string) *tramite.Requisition {
	t.Helper()
	r, err := tramite.NewRequisition(folio, "Material de laboratorio", "Reactivos para el semestre",
		decimal.NewFromInt(1500), uuid.New(), uuid.New())
	require.NoError(t, err)
	return r
}

func TestGormRequisitionRepository_SaveAndFindByID(t *testing.T) {
	repo := NewGormRequisitionRepository(newTestDB(t))
	saver := &recordingEventSaver{}
	repo.SetOutboxEventSaver(saver)

	r := newTestRequisition(t, "REQ-2026-00001")
	require.NoError(t, repo.Save(context.Background(), r))

	assert.Len(t, saver.events, 1, "creation event goes to the outbox")
	assert.Empty(t, r.GetDomainEvents(), "events are cleared after a successful save")

	found, err := repo.FindByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, "REQ-2026-00001", found.Folio)
	assert.Equal(t, tramite.EstadoPendiente, found.Estado)
	assert.Equal(t, 1, found.GetVersion())
	assert.True(t, found.Monto.Equal(decimal.NewFromInt(1500)))
}

func TestGormRequisitionRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormRequisitionRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormRequisitionRepository_SaveWithLockAndEvents(t *testing.T) {
	repo := NewGormRequisitionRepository(newTestDB(t))
	saver := &recordingEventSaver{}
	repo.SetOutboxEventSaver(saver)

	r := newTestRequisition(t, "REQ-2026-00001")
	require.NoError(t, repo.Save(context.Background(), r))
	saver.events = nil

	expected := r.GetVersion()
	require.NoError(t, r.Approve(uuid.New()))
	r.IncrementVersion()

	require.NoError(t, repo.SaveWithLockAndEvents(context.Background(), r, expected))

	assert.Len(t, saver.events, 1)
	assert.Empty(t, r.GetDomainEvents())

	found, err := repo.FindByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, tramite.EstadoAprobado, found.Estado)
	assert.Equal(t, 2, found.GetVersion())
	assert.NotNil(t, found.AutorizadoPor)
	assert.NotNil(t, found.FechaAutorizacion)
}

func TestGormRequisitionRepository_ConcurrentModification(t *testing.T) {
	repo := NewGormRequisitionRepository(newTestDB(t))

	r := newTestRequisition(t, "REQ-2026-00001")
	require.NoError(t, repo.Save(context.Background(), r))

	// first writer wins
	first, err := repo.FindByID(context.Background(), r.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(context.Background(), r.ID)
	require.NoError(t, err)

	expected := first.GetVersion()
	require.NoError(t, first.Approve(uuid.New()))
	first.IncrementVersion()
	require.NoError(t, repo.SaveWithLockAndEvents(context.Background(), first, expected))

	// second writer loaded the same version and must lose
	staleExpected := second.GetVersion()
	require.NoError(t, second.Reject(uuid.New(), "presupuesto agotado"))
	second.IncrementVersion()
	err = repo.SaveWithLockAndEvents(context.Background(), second, staleExpected)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	found, err := repo.FindByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, tramite.EstadoAprobado, found.Estado, "the losing write left no trace")
}

func TestGormRequisitionRepository_SaveWithLock_NotFound(t *testing.T) {
	repo := NewGormRequisitionRepository(newTestDB(t))

	r := newTestRequisition(t, "REQ-2026-00001")
	r.IncrementVersion()
	err := repo.SaveWithLockAndEvents(context.Background(), r, 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormRequisitionRepository_List(t *testing.T) {
	repo := NewGormRequisitionRepository(newTestDB(t))
	ctx := context.Background()

	owner := uuid.New()
	a := newTestRequisition(t, "REQ-2026-00001")
	a.SolicitadoPor = owner
	require.NoError(t, repo.Save(ctx, a))

	b := newTestRequisition(t, "REQ-2026-00002")
	require.NoError(t, repo.Save(ctx, b))

	deleted := newTestRequisition(t, "REQ-2026-00003")
	require.NoError(t, deleted.SoftDelete())
	require.NoError(t, repo.Save(ctx, deleted))

	page, err := repo.List(ctx, tramite.Filter{}, shared.Pagination{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total, "soft-deleted rows stay out of normal listings")

	byOwner, err := repo.List(ctx, tramite.Filter{SolicitadoPor: &owner}, shared.Pagination{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, byOwner.Items, 1)
	assert.Equal(t, "REQ-2026-00001", byOwner.Items[0].Folio)

	onlyDeleted, err := repo.List(ctx, tramite.Filter{OnlyDeleted: true}, shared.Pagination{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, onlyDeleted.Items, 1)
	assert.Equal(t, "REQ-2026-00003", onlyDeleted.Items[0].Folio)

	estado := tramite.EstadoPendiente
	pendientes, err := repo.List(ctx, tramite.Filter{Estado: &estado}, shared.Pagination{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, pendientes.Items, 2)
}

func TestGormRequisitionRepository_CountByFolioPrefix(t *testing.T) {
	repo := NewGormRequisitionRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestRequisition(t, "REQ-2026-00001")))
	require.NoError(t, repo.Save(ctx, newTestRequisition(t, "REQ-2026-00002")))
	require.NoError(t, repo.Save(ctx, newTestRequisition(t, "REQ-2025-00001")))

	count, err := repo.CountByFolioPrefix(ctx, "REQ-2026-")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormReimbursementRepository_Lifecycle(t *testing.T) {
	repo := NewGormReimbursementRepository(newTestDB(t))
	saver := &recordingEventSaver{}
	repo.SetOutboxEventSaver(saver)
	ctx := context.Background()

	rec, err := tramite.NewReimbursement("REP-2026-00001", "Viáticos congreso",
		decimal.NewFromInt(820), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rec))

	expected := rec.GetVersion()
	require.NoError(t, rec.Approve(uuid.New()))
	rec.IncrementVersion()
	require.NoError(t, repo.SaveWithLockAndEvents(ctx, rec, expected))

	found, err := repo.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, tramite.EstadoAprobado, found.Estado)
	assert.Equal(t, 2, found.GetVersion())

	count, err := repo.CountByFolioPrefix(ctx, "REP-2026-")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormReimbursementRepository_StaleVersion(t *testing.T) {
	repo := NewGormReimbursementRepository(newTestDB(t))
	ctx := context.Background()

	rec, err := tramite.NewReimbursement("REP-2026-00001", "Viáticos",
		decimal.NewFromInt(500), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rec))

	require.NoError(t, rec.Approve(uuid.New()))
	rec.IncrementVersion()
	err = repo.SaveWithLockAndEvents(ctx, rec, 99)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

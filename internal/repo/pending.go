package repo

import (
	"VoiceLedger/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PendingSyncRepository — fallback-очередь: записи, не доставленные в основное
// хранилище. Это отдельная коллекция, не само хранилище расходов.
type PendingSyncRepository interface {
	// Upsert кладёт запись в очередь по id записи (повтор перетирает payload).
	Upsert(ctx context.Context, email, id string, payload []byte) error

	// Delete убирает запись из очереди. Предикат — (id, email) вместе:
	// чужую запись очереди убрать нельзя. Отсутствие записи — не ошибка.
	Delete(ctx context.Context, email, id string) error

	// Get возвращает запись очереди или gorm.ErrRecordNotFound.
	Get(ctx context.Context, id string) (*model.PendingSync, error)
}

type pendingRepo struct {
	db *gorm.DB
}

// NewPendingSyncRepository создаёт реализацию репозитория fallback-очереди.
func NewPendingSyncRepository(db *gorm.DB) PendingSyncRepository {
	return &pendingRepo{db: db}
}

func (r *pendingRepo) Upsert(ctx context.Context, email, id string, payload []byte) error {
	row := &model.PendingSync{ID: id, Email: email, Payload: payload}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "payload", "updated_at"}),
	}).Create(row).Error
}

func (r *pendingRepo) Delete(ctx context.Context, email, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND email = ?", id, email).Delete(&model.PendingSync{}).Error
}

func (r *pendingRepo) Get(ctx context.Context, id string) (*model.PendingSync, error) {
	var row model.PendingSync
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

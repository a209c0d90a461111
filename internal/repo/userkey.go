package repo

import (
	"VoiceLedger/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserKeyRepository — доступ к зашифрованным API-ключам пользователей.
type UserKeyRepository interface {
	// Upsert сохраняет/перезаписывает зашифрованный ключ пользователя.
	Upsert(ctx context.Context, key *model.UserKey) error

	// Get возвращает ключ или gorm.ErrRecordNotFound.
	Get(ctx context.Context, email string) (*model.UserKey, error)
}

type userKeyRepo struct {
	db *gorm.DB
}

// NewUserKeyRepository создаёт реализацию репозитория ключей.
func NewUserKeyRepository(db *gorm.DB) UserKeyRepository {
	return &userKeyRepo{db: db}
}

func (r *userKeyRepo) Upsert(ctx context.Context, key *model.UserKey) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"encrypted_key", "iv", "tag", "updated_at"}),
	}).Create(key).Error
}

func (r *userKeyRepo) Get(ctx context.Context, email string) (*model.UserKey, error) {
	var row model.UserKey
	if err := r.db.WithContext(ctx).First(&row, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

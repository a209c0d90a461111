package repo

import (
	"VoiceLedger/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB открывает подключение к Postgres и прогоняет автомиграции
// для всех серверных моделей.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Expense{}, &model.PendingSync{}, &model.UserKey{}); err != nil {
		return nil, err
	}
	return db, nil
}

package model

import "time"

// UserKey — зашифрованный API-ключ пользователя для upstream AI-сервиса.
// Все три поля — hex-кодированные бинарные значения (AES-256-GCM).
// Открытый текст ключа на сервере не хранится никогда.
type UserKey struct {
	Email string `gorm:"primaryKey"`

	EncryptedKey string `gorm:"not null"`
	IV           string `gorm:"not null"`
	Tag          string `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

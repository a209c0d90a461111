package model

import "time"

// PendingSync — отложенная запись fallback-очереди: расход, который не удалось
// доставить в основное хранилище после исчерпания повторов. На один id записи
// существует не более одной строки (last write wins через upsert).
type PendingSync struct {
	ID    string `gorm:"primaryKey;type:uuid"`
	Email string `gorm:"not null;index"`

	// Полный JSON-снимок записи на момент постановки в очередь.
	Payload []byte `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

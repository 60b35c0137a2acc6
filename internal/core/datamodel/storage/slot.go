package storage

import "time"

type Slot struct {
	Key       string    `gorm:"column:slot_key;primaryKey;size:255"`
	Value     string    `gorm:"column:slot_value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Slot) TableName() string {
	return "storage_slots"
}

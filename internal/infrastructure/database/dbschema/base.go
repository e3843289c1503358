package dbschema

import "time"

// BaseModel carries the common persisted columns.
type BaseModel struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

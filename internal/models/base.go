package models

import "time"

// BaseModel is shared by every table. Rows are hard-deleted: cascading
// deletes are performed explicitly inside a transaction, so there is no
// soft-delete column to leak "deleted" rows into unique indexes.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

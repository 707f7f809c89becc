package model

import (
	"time"
)

type Task struct {
	ID          uint       `gorm:"primaryKey"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"size:1000;not null"`
	Completed   bool       `gorm:"not null"`
	UserID      uint       `gorm:"not null;index"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`

	User User `gorm:"foreignKey:UserID"`
}

// TaskUpdate describes a partial update to a task. A nil field means
// "not supplied" and is left untouched, so setting Completed to false
// explicitly is distinct from not setting it at all.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

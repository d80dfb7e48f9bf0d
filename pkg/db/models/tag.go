package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:ux_tags_name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Tag) TableName() string { return "tags" }

func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// CoffeeTag links a coffee to a tag.
type CoffeeTag struct {
	CoffeeID uuid.UUID `gorm:"column:coffee_id;type:uuid;primaryKey"`
	TagID    uuid.UUID `gorm:"column:tag_id;type:uuid;primaryKey;index"`
}

func (CoffeeTag) TableName() string { return "coffee_tags" }

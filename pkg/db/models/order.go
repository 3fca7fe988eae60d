package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nomedigasn781-code/proyec/pkg/enums"
	"github.com/nomedigasn781-code/proyec/pkg/money"
)

// Order is the header row of a submitted order.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:orders_user_created_idx,priority:1"`
	Total     money.Money       `gorm:"column:total;type:numeric(14,2);not null"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;not null;index:orders_user_created_idx,priority:2"`

	LineItems []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

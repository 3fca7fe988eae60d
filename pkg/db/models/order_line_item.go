package models

import (
	"github.com/google/uuid"

	"github.com/nomedigasn781-code/proyec/pkg/money"
	"github.com/nomedigasn781-code/proyec/pkg/types"
)

// OrderLineItem is the immutable snapshot of one product within an order.
type OrderLineItem struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID        `gorm:"column:order_id;type:uuid;not null;index:order_line_items_order_position_idx,priority:1"`
	Position    int              `gorm:"column:position;not null;index:order_line_items_order_position_idx,priority:2"`
	ProductID   types.ProductRef `gorm:"column:product_id;type:text;not null"`
	ProductName string           `gorm:"column:product_name;not null"`
	UnitPrice   money.Money      `gorm:"column:unit_price;type:numeric(14,2);not null"`
	Quantity    int              `gorm:"column:quantity;not null"`
}

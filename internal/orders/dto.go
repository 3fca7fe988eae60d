package orders

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nomedigasn781-code/proyec/pkg/money"
	"github.com/nomedigasn781-code/proyec/pkg/types"
)

// DateLayout is how order timestamps are rendered to clients.
const DateLayout = "2006-01-02 15:04:05"

// SubmitOrderRequest is the body of an order submission. Token is consumed by
// the session middleware.
type SubmitOrderRequest struct {
	Token     string      `json:"token"`
	Total     money.Input `json:"total"`
	Productos []LineInput `json:"productos"`
}

// LineInput is one submitted product. Cantidad defaults to 1 when absent.
type LineInput struct {
	ID       types.ProductRef `json:"id"`
	Name     string           `json:"name"`
	Price    money.Input      `json:"price"`
	Cantidad json.Number      `json:"cantidad"`
}

// SubmitOrderInput is what the service needs to write an order.
type SubmitOrderInput struct {
	UserID uuid.UUID
	Total  money.Input
	Items  []LineInput
}

// SubmitOrderResult is returned after the order commits.
type SubmitOrderResult struct {
	OrderID   uuid.UUID   `json:"pedido_id"`
	Total     money.Money `json:"total"`
	CreatedAt time.Time   `json:"-"`
	Fecha     string      `json:"fecha"`
}

// History is a user's orders, newest first, with aggregates over them.
type History struct {
	Orders []OrderSummary `json:"pedidos"`
	Stats  Stats          `json:"estadisticas"`
}

type OrderSummary struct {
	ID       uuid.UUID     `json:"id"`
	Fecha    string        `json:"fecha"`
	Total    money.Money   `json:"total"`
	Estado   string        `json:"estado"`
	Products []ProductLine `json:"productos"`
}

// ProductLine is a stored line item; Price is preformatted ("$12.500").
type ProductLine struct {
	ID       types.ProductRef `json:"id"`
	Name     string           `json:"name"`
	Price    string           `json:"price"`
	Cantidad int              `json:"cantidad"`
}

type Stats struct {
	OrderCount int         `json:"total_pedidos"`
	TotalSpent money.Money `json:"total_gastado"`
}

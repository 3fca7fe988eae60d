package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nomedigasn781-code/proyec/pkg/db/models"
	pkgerrors "github.com/nomedigasn781-code/proyec/pkg/errors"
	"github.com/nomedigasn781-code/proyec/pkg/money"
)

// History loads the user's orders newest first and each order's lines in
// submission order. Stats are computed over exactly the orders returned.
func (s *service) History(ctx context.Context, userID uuid.UUID) (*History, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, historyError(err, "list orders")
	}

	out := &History{Orders: make([]OrderSummary, 0, len(rows))}
	spent := money.Zero
	for _, order := range rows {
		items, err := s.repo.ListLineItems(ctx, order.ID)
		if err != nil {
			return nil, historyError(err, fmt.Sprintf("list lines for %s", order.ID))
		}
		out.Orders = append(out.Orders, summarize(order, items))
		spent = spent.Add(order.Total)
	}
	out.Stats = Stats{OrderCount: len(out.Orders), TotalSpent: spent}
	return out, nil
}

func summarize(order models.Order, items []models.OrderLineItem) OrderSummary {
	products := make([]ProductLine, 0, len(items))
	for _, item := range items {
		products = append(products, ProductLine{
			ID:       item.ProductID,
			Name:     item.ProductName,
			Price:    item.UnitPrice.Format(),
			Cantidad: item.Quantity,
		})
	}
	return OrderSummary{
		ID:       order.ID,
		Fecha:    order.CreatedAt.UTC().Format(DateLayout),
		Total:    order.Total,
		Estado:   order.Status.Label(),
		Products: products,
	}
}

func historyError(err error, msg string) error {
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg).WithPublicMessage(historyFailedMessage)
}

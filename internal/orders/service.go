package orders

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nomedigasn781-code/proyec/pkg/config"
	"github.com/nomedigasn781-code/proyec/pkg/db/models"
	"github.com/nomedigasn781-code/proyec/pkg/enums"
	pkgerrors "github.com/nomedigasn781-code/proyec/pkg/errors"
	"github.com/nomedigasn781-code/proyec/pkg/logger"
	"github.com/nomedigasn781-code/proyec/pkg/metrics"
	"github.com/nomedigasn781-code/proyec/pkg/money"
)

const (
	emptyOrderMessage    = "Debe incluir al menos un producto"
	invalidTotalMessage  = "Total del pedido inválido"
	totalMismatchMessage = "El total no coincide con la suma de los productos"
	saveFailedMessage    = "Error al guardar el pedido"
	historyFailedMessage = "Error al obtener historial"
)

// Service writes orders and reads them back.
type Service interface {
	Submit(ctx context.Context, input SubmitOrderInput) (*SubmitOrderResult, error)
	History(ctx context.Context, userID uuid.UUID) (*History, error)
}

type submitRecorder interface {
	Observe(outcome string, lineCount int, elapsed time.Duration)
}

// ServiceParams bundles the order service dependencies.
type ServiceParams struct {
	Repo    Repository
	Tx      txRunner
	Config  config.OrdersConfig
	Metrics submitRecorder
	Logger  *logger.Logger
}

type service struct {
	repo         Repository
	tx           txRunner
	strictTotals bool
	metrics      submitRecorder
	logg         *logger.Logger
	now          func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	rec := params.Metrics
	if rec == nil {
		rec = metrics.NewOrderMetrics(nil)
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:         params.Repo,
		tx:           params.Tx,
		strictTotals: params.Config.StrictTotals(),
		metrics:      rec,
		logg:         logg,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

// Submit validates every line before opening a transaction, then writes the
// header and all lines atomically.
func (s *service) Submit(ctx context.Context, input SubmitOrderInput) (*SubmitOrderResult, error) {
	total, lines, err := s.prepare(input)
	if err != nil {
		s.metrics.Observe(metrics.OrderOutcomeRejected, 0, 0)
		return nil, err
	}

	order := &models.Order{
		ID:        uuid.New(),
		UserID:    input.UserID,
		Total:     total,
		Status:    enums.OrderStatusSubmitted,
		CreatedAt: s.now(),
	}

	started := time.Now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for i := range lines {
			lines[i].OrderID = order.ID
			if err := repo.CreateLineItem(ctx, &lines[i]); err != nil {
				return fmt.Errorf("insert line %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.Observe(metrics.OrderOutcomeFailed, 0, 0)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order").WithPublicMessage(saveFailedMessage)
	}
	s.metrics.Observe(metrics.OrderOutcomeCreated, len(lines), time.Since(started))

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":   order.ID.String(),
		"line_count": len(lines),
	}), "orders.submitted")

	return &SubmitOrderResult{
		OrderID:   order.ID,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
		Fecha:     order.CreatedAt.Format(DateLayout),
	}, nil
}

func (s *service) prepare(input SubmitOrderInput) (money.Money, []models.OrderLineItem, error) {
	if len(input.Items) == 0 {
		return money.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, emptyOrderMessage)
	}

	total, err := input.Total.Money()
	if err != nil {
		return money.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, invalidTotalMessage)
	}
	// Positivity holds for the stored two-decimal value.
	total = total.Round(2)
	if !total.IsPositive() {
		return money.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, invalidTotalMessage)
	}

	lines := make([]models.OrderLineItem, 0, len(input.Items))
	sum := money.Zero
	for i, item := range input.Items {
		line, err := buildLine(i, item)
		if err != nil {
			return money.Zero, nil, err
		}
		sum = sum.Add(line.UnitPrice.Mul(line.Quantity))
		lines = append(lines, line)
	}

	if s.strictTotals && !sum.Equal(total) {
		return money.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, totalMismatchMessage).
			WithDetails(map[string]any{"total": total, "suma_productos": sum})
	}
	return total, lines, nil
}

func buildLine(index int, item LineInput) (models.OrderLineItem, error) {
	position := index + 1

	name := strings.TrimSpace(item.Name)
	if name == "" {
		return models.OrderLineItem{}, lineError(position, "El producto %d no tiene nombre")
	}

	price, err := item.Price.Money()
	if err != nil || price.IsNegative() {
		return models.OrderLineItem{}, lineError(position, "Precio inválido en el producto %d")
	}

	quantity := 1
	if raw := strings.TrimSpace(item.Cantidad.String()); raw != "" {
		n, err := item.Cantidad.Int64()
		if err != nil || n < 1 || n > math.MaxInt32 {
			return models.OrderLineItem{}, lineError(position, "Cantidad inválida en el producto %d")
		}
		quantity = int(n)
	}

	return models.OrderLineItem{
		ID:          uuid.New(),
		Position:    index,
		ProductID:   item.ID,
		ProductName: name,
		UnitPrice:   price.Round(2),
		Quantity:    quantity,
	}, nil
}

func lineError(position int, format string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(format, position)).
		WithDetails(map[string]any{"producto": position})
}

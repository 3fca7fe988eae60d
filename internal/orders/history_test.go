package orders

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomedigasn781-code/proyec/pkg/config"
	"github.com/nomedigasn781-code/proyec/pkg/db/models"
	pkgerrors "github.com/nomedigasn781-code/proyec/pkg/errors"
	"github.com/nomedigasn781-code/proyec/pkg/money"
)

func TestHistoryRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil, config.OrdersConfig{})
	env.svc.now = func() time.Time { return time.Date(2026, 2, 3, 14, 5, 6, 0, time.UTC) }

	res, err := env.svc.Submit(context.Background(), SubmitOrderInput{
		UserID: env.userID,
		Total:  mustTotal(t, "20000"),
		Items:  []LineInput{line(7, "Hamburguesa", "$10.000", "2")},
	})
	require.NoError(t, err)

	history, err := env.svc.History(context.Background(), env.userID)
	require.NoError(t, err)
	require.Len(t, history.Orders, 1)

	raw, err := json.Marshal(history)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"pedidos": [{
			"id": "`+res.OrderID.String()+`",
			"fecha": "2026-02-03 14:05:06",
			"total": 20000,
			"estado": "Enviado",
			"productos": [{"id": 7, "name": "Hamburguesa", "price": "$10.000", "cantidad": 2}]
		}],
		"estadisticas": {"total_pedidos": 1, "total_gastado": 20000}
	}`, string(raw))
}

func TestHistoryKeepsProductIDKind(t *testing.T) {
	env := newTestEnv(t, nil, config.OrdersConfig{})

	_, err := env.svc.Submit(context.Background(), SubmitOrderInput{
		UserID: env.userID,
		Total:  mustTotal(t, "300"),
		Items: []LineInput{
			line("12", "Texto", "100", ""),
			line(12, "Numero", "100", ""),
			line("sku-9", "Codigo", "100", ""),
		},
	})
	require.NoError(t, err)

	history, err := env.svc.History(context.Background(), env.userID)
	require.NoError(t, err)
	require.Len(t, history.Orders, 1)

	raw, err := json.Marshal(history.Orders[0].Products)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id": "12", "name": "Texto", "price": "$100", "cantidad": 1},
		{"id": 12, "name": "Numero", "price": "$100", "cantidad": 1},
		{"id": "sku-9", "name": "Codigo", "price": "$100", "cantidad": 1}
	]`, string(raw))
}

func TestHistoryOrderingAndStats(t *testing.T) {
	env := newTestEnv(t, nil, config.OrdersConfig{})
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	totals := []string{"1500", "2500.50", "4000"}
	ids := make([]uuid.UUID, 0, len(totals))
	for i, total := range totals {
		at := base.Add(time.Duration(i) * time.Hour)
		env.svc.now = func() time.Time { return at }
		res, err := env.svc.Submit(context.Background(), SubmitOrderInput{
			UserID: env.userID,
			Total:  mustTotal(t, total),
			Items: []LineInput{
				line("sku-b", "Segundo", "1.000", "1"),
				line("sku-a", "Primero", "500", "3"),
			},
		})
		require.NoError(t, err)
		ids = append(ids, res.OrderID)
	}

	history, err := env.svc.History(context.Background(), env.userID)
	require.NoError(t, err)
	require.Len(t, history.Orders, 3)

	assert.Equal(t, ids[2], history.Orders[0].ID)
	assert.Equal(t, ids[1], history.Orders[1].ID)
	assert.Equal(t, ids[0], history.Orders[2].ID)

	first := history.Orders[0].Products
	require.Len(t, first, 2)
	assert.Equal(t, "Segundo", first[0].Name)
	assert.Equal(t, "$1.000", first[0].Price)
	assert.Equal(t, "Primero", first[1].Name)
	assert.Equal(t, 3, first[1].Cantidad)

	assert.Equal(t, 3, history.Stats.OrderCount)
	assert.Equal(t, "8000.5", history.Stats.TotalSpent.String())
	sum := history.Orders[0].Total
	for _, o := range history.Orders[1:] {
		sum = sum.Add(o.Total)
	}
	assert.True(t, sum.Equal(history.Stats.TotalSpent))
}

func TestHistoryIsScopedToUser(t *testing.T) {
	env := newTestEnv(t, nil, config.OrdersConfig{})
	_, err := env.svc.Submit(context.Background(), SubmitOrderInput{
		UserID: env.userID,
		Total:  mustTotal(t, "100"),
		Items:  []LineInput{line(1, "A", "100", "")},
	})
	require.NoError(t, err)

	history, err := env.svc.History(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, history.Orders)
	assert.Empty(t, history.Orders)
	assert.Equal(t, 0, history.Stats.OrderCount)
	assert.True(t, history.Stats.TotalSpent.Equal(money.Zero))

	raw, err := json.Marshal(history)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pedidos":[],"estadisticas":{"total_pedidos":0,"total_gastado":0}}`, string(raw))
}

type brokenListRepo struct {
	Repository
}

func (brokenListRepo) ListByUser(context.Context, uuid.UUID) ([]models.Order, error) {
	return nil, errors.New("connection refused")
}

func TestHistoryStorageErrorIsInternal(t *testing.T) {
	env := newTestEnv(t, func(r Repository) Repository { return brokenListRepo{Repository: r} }, config.OrdersConfig{})

	_, err := env.svc.History(context.Background(), env.userID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInternal, typed.Code())
	assert.Equal(t, historyFailedMessage, typed.PublicMessage())
}

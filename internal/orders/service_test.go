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
	"gorm.io/gorm"

	"github.com/nomedigasn781-code/proyec/pkg/config"
	"github.com/nomedigasn781-code/proyec/pkg/db"
	"github.com/nomedigasn781-code/proyec/pkg/db/dbtest"
	"github.com/nomedigasn781-code/proyec/pkg/db/models"
	pkgerrors "github.com/nomedigasn781-code/proyec/pkg/errors"
	"github.com/nomedigasn781-code/proyec/pkg/money"
)

type failingLineRepo struct {
	Repository
	failOn int
	calls  *int
}

func (f failingLineRepo) WithTx(tx *gorm.DB) Repository {
	return failingLineRepo{Repository: f.Repository.WithTx(tx), failOn: f.failOn, calls: f.calls}
}

func (f failingLineRepo) CreateLineItem(ctx context.Context, item *models.OrderLineItem) error {
	*f.calls++
	if *f.calls == f.failOn {
		return errors.New("simulated constraint violation")
	}
	return f.Repository.CreateLineItem(ctx, item)
}

type recordedObservation struct {
	outcome string
	lines   int
}

type recordingMetrics struct {
	seen []recordedObservation
}

func (r *recordingMetrics) Observe(outcome string, lineCount int, _ time.Duration) {
	r.seen = append(r.seen, recordedObservation{outcome: outcome, lines: lineCount})
}

type testEnv struct {
	conn    *gorm.DB
	svc     *service
	metrics *recordingMetrics
	userID  uuid.UUID
}

func newTestEnv(t *testing.T, repoWrap func(Repository) Repository, cfg config.OrdersConfig) *testEnv {
	t.Helper()
	conn := dbtest.SQLite(t)

	user := &models.User{
		ID:           uuid.New(),
		DisplayName:  "Ana",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		RegisteredAt: time.Now().UTC(),
	}
	require.NoError(t, conn.Create(user).Error)

	var repo Repository = NewRepository(conn)
	if repoWrap != nil {
		repo = repoWrap(repo)
	}
	rec := &recordingMetrics{}
	svc, err := NewService(ServiceParams{
		Repo:    repo,
		Tx:      db.Wrap(conn),
		Config:  cfg,
		Metrics: rec,
	})
	require.NoError(t, err)
	return &testEnv{conn: conn, svc: svc.(*service), metrics: rec, userID: user.ID}
}

func line(id any, name, price string, qty string) LineInput {
	raw, _ := json.Marshal(id)
	var ref LineInput
	_ = json.Unmarshal(raw, &ref.ID)
	ref.Name = name
	ref.Price = money.ParseInput(price)
	ref.Cantidad = json.Number(qty)
	return ref
}

func mustTotal(t *testing.T, raw string) money.Input {
	t.Helper()
	var in money.Input
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	return in
}

func TestSubmitPersistsHeaderAndLines(t *testing.T) {
	env := newTestEnv(t, nil, config.OrdersConfig{})

	res, err := env.svc.Submit(context.Background(), SubmitOrderInput{
		UserID: env.userID,
		Total:  mustTotal(t, "20000"),
		Items:  []LineInput{line(7, "Hamburguesa", "$10.000", "2")},
	})
	require.NoError(t, err)
	assert.Equal(t, "20000", res.Total.String())
	assert.Equal(t, res.CreatedAt.Format(DateLayout), res.Fecha)

	assert.Equal(t, int64(1), dbtest.Count(t, env.conn, &models.Order{}))
	assert.Equal(t, int64(1), dbtest.Count(t, env.conn, &models.OrderLineItem{}))
	require.Len(t, env.metrics.seen, 1)
	assert.Equal(t, recordedObservation{outcome: "created", lines: 1}, env.metrics.seen[0])
}

func TestSubmitValidationRejectsBeforeWriting(t *testing.T) {
	cases := map[string]struct {
		total   string
		items   []LineInput
		message string
	}{
		"no items":          {total: "100", items: nil, message: emptyOrderMessage},
		"zero total":        {total: "0", items: []LineInput{line(1, "A", "100", "")}, message: invalidTotalMessage},
		"negative total":    {total: "-5", items: []LineInput{line(1, "A", "100", "")}, message: invalidTotalMessage},
		"sub-cent total":    {total: "0.004", items: []LineInput{line(1, "A", "0", "")}, message: invalidTotalMessage},
		"missing total":     {total: "null", items: []LineInput{line(1, "A", "100", "")}, message: invalidTotalMessage},
		"text total":        {total: `"abc"`, items: []LineInput{line(1, "A", "100", "")}, message: invalidTotalMessage},
		"unparsable price":  {total: "100", items: []LineInput{line(1, "A", "100", ""), line(2, "B", "gratis", "")}, message: "Precio inválido en el producto 2"},
		"negative price":    {total: "100", items: []LineInput{line(1, "A", "-100", "")}, message: "Precio inválido en el producto 1"},
		"zero quantity":     {total: "100", items: []LineInput{line(1, "A", "100", "0")}, message: "Cantidad inválida en el producto 1"},
		"fraction quantity": {total: "100", items: []LineInput{line(1, "A", "100", "1.5")}, message: "Cantidad inválida en el producto 1"},
		"blank name":        {total: "100", items: []LineInput{line(1, "  ", "100", "")}, message: "El producto 1 no tiene nombre"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, nil, config.OrdersConfig{})
			_, err := env.svc.Submit(context.Background(), SubmitOrderInput{
				UserID: env.userID,
				Total:  mustTotal(t, tc.total),
				Items:  tc.items,
			})
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Equal(t, tc.message, typed.Message())

			assert.Equal(t, int64(0), dbtest.Count(t, env.conn, &models.Order{}))
			assert.Equal(t, int64(0), dbtest.Count(t, env.conn, &models.OrderLineItem{}))
		})
	}
}

func TestSubmitRollsBackWhenLaterLineFails(t *testing.T) {
	calls := 0
	env := newTestEnv(t, func(r Repository) Repository {
		return failingLineRepo{Repository: r, failOn: 3, calls: &calls}
	}, config.OrdersConfig{})

	_, err := env.svc.Submit(context.Background(), SubmitOrderInput{
		UserID: env.userID,
		Total:  mustTotal(t, "300"),
		Items: []LineInput{
			line(1, "A", "100", ""),
			line(2, "B", "100", ""),
			line(3, "C", "100", ""),
		},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInternal, typed.Code())
	assert.Equal(t, saveFailedMessage, typed.PublicMessage())
	assert.Equal(t, 3, calls)

	assert.Equal(t, int64(0), dbtest.Count(t, env.conn, &models.Order{}))
	assert.Equal(t, int64(0), dbtest.Count(t, env.conn, &models.OrderLineItem{}))

	history, err := env.svc.History(context.Background(), env.userID)
	require.NoError(t, err)
	assert.Empty(t, history.Orders)
	require.Len(t, env.metrics.seen, 1)
	assert.Equal(t, "failed", env.metrics.seen[0].outcome)
}

func TestSubmitTrustPolicyStoresClientTotal(t *testing.T) {
	env := newTestEnv(t, nil, config.OrdersConfig{TotalPolicy: config.OrderTotalPolicyTrust})

	res, err := env.svc.Submit(context.Background(), SubmitOrderInput{
		UserID: env.userID,
		Total:  mustTotal(t, "999"),
		Items:  []LineInput{line(1, "A", "100", "2")},
	})
	require.NoError(t, err)
	assert.Equal(t, "999", res.Total.String())
}

func TestSubmitStrictPolicyRejectsMismatch(t *testing.T) {
	env := newTestEnv(t, nil, config.OrdersConfig{TotalPolicy: config.OrderTotalPolicyStrict})

	_, err := env.svc.Submit(context.Background(), SubmitOrderInput{
		UserID: env.userID,
		Total:  mustTotal(t, "999"),
		Items:  []LineInput{line(1, "A", "100", "2")},
	})
	require.Error(t, err)
	assert.Equal(t, totalMismatchMessage, pkgerrors.As(err).Message())
	assert.Equal(t, int64(0), dbtest.Count(t, env.conn, &models.Order{}))

	res, err := env.svc.Submit(context.Background(), SubmitOrderInput{
		UserID: env.userID,
		Total:  mustTotal(t, `"$200"`),
		Items:  []LineInput{line(1, "A", "$100", "2")},
	})
	require.NoError(t, err)
	assert.Equal(t, "200", res.Total.String())
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Tx: db.Wrap(nil)})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Repo: NewRepository(nil)})
	assert.Error(t, err)
}

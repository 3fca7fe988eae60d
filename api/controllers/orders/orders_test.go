package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nomedigasn781-code/proyec/api/middleware"
	internalorders "github.com/nomedigasn781-code/proyec/internal/orders"
	"github.com/nomedigasn781-code/proyec/pkg/auth/session"
	"github.com/nomedigasn781-code/proyec/pkg/config"
	"github.com/nomedigasn781-code/proyec/pkg/db"
	"github.com/nomedigasn781-code/proyec/pkg/db/dbtest"
	"github.com/nomedigasn781-code/proyec/pkg/db/models"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	conn    *gorm.DB
	submit  http.Handler
	history http.Handler
	token   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conn := dbtest.SQLite(t)

	user := &models.User{
		ID:           uuid.New(),
		DisplayName:  "Ana",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		IsVerified:   true,
		RegisteredAt: time.Now().UTC(),
	}
	require.NoError(t, conn.Create(user).Error)

	mgr, err := session.NewManager(session.NewRepository(conn), config.SessionConfig{TTL: time.Hour})
	require.NoError(t, err)
	issued, err := mgr.Issue(context.Background(), user.ID, session.Client{})
	require.NoError(t, err)

	svc, err := internalorders.NewService(internalorders.ServiceParams{
		Repo: internalorders.NewRepository(conn),
		Tx:   db.Wrap(conn),
	})
	require.NoError(t, err)

	guard := middleware.RequireSession(mgr, nil)
	return &harness{
		conn:    conn,
		submit:  guard(Submit(svc, nil)),
		history: guard(History(svc, nil)),
		token:   issued.Token,
	}
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestSubmitAndHistoryRoundTrip(t *testing.T) {
	h := newHarness(t)

	body := `{"token":"` + h.token + `","total":"20000","productos":[{"id":7,"name":"Hamburguesa","price":"$10.000","cantidad":2}]}`
	rec, env := serve(t, h.submit, httptest.NewRequest(http.MethodPost, "/guardar_pedido", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	assert.Equal(t, "Pedido guardado exitosamente", env.Message)

	var saved struct {
		OrderID uuid.UUID `json:"pedido_id"`
		Total   float64   `json:"total"`
		Fecha   string    `json:"fecha"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.NotEqual(t, uuid.Nil, saved.OrderID)
	assert.Equal(t, float64(20000), saved.Total)
	_, err := time.Parse(internalorders.DateLayout, saved.Fecha)
	assert.NoError(t, err)

	rec, env = serve(t, h.history, httptest.NewRequest(http.MethodGet, "/obtener_historial?token="+h.token, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		Pedidos []struct {
			ID        uuid.UUID `json:"id"`
			Total     float64   `json:"total"`
			Estado    string    `json:"estado"`
			Productos []struct {
				ID       json.RawMessage `json:"id"`
				Price    string          `json:"price"`
				Cantidad int             `json:"cantidad"`
			} `json:"productos"`
		} `json:"pedidos"`
		Estadisticas struct {
			TotalPedidos int     `json:"total_pedidos"`
			TotalGastado float64 `json:"total_gastado"`
		} `json:"estadisticas"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history.Pedidos, 1)
	assert.Equal(t, saved.OrderID, history.Pedidos[0].ID)
	assert.Equal(t, float64(20000), history.Pedidos[0].Total)
	assert.Equal(t, "Enviado", history.Pedidos[0].Estado)
	require.Len(t, history.Pedidos[0].Productos, 1)
	assert.Equal(t, "$10.000", history.Pedidos[0].Productos[0].Price)
	assert.Equal(t, 2, history.Pedidos[0].Productos[0].Cantidad)
	assert.JSONEq(t, `7`, string(history.Pedidos[0].Productos[0].ID))
	assert.Equal(t, 1, history.Estadisticas.TotalPedidos)
	assert.Equal(t, float64(20000), history.Estadisticas.TotalGastado)
}

func TestSubmitRejectsUnparsablePriceWithoutWriting(t *testing.T) {
	h := newHarness(t)

	body := `{"token":"` + h.token + `","total":100,"productos":[{"id":"a","name":"Pan","price":"gratis","cantidad":1}]}`
	rec, env := serve(t, h.submit, httptest.NewRequest(http.MethodPost, "/guardar_pedido", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Precio inválido en el producto 1", env.Message)
	assert.Zero(t, dbtest.Count(t, h.conn, &models.Order{}))
	assert.Zero(t, dbtest.Count(t, h.conn, &models.OrderLineItem{}))
}

func TestSubmitRequiresProducts(t *testing.T) {
	h := newHarness(t)

	body := `{"token":"` + h.token + `","total":100,"productos":[]}`
	rec, env := serve(t, h.submit, httptest.NewRequest(http.MethodPost, "/guardar_pedido", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Debe incluir al menos un producto", env.Message)
}

func TestEndpointsRejectBadTokens(t *testing.T) {
	h := newHarness(t)

	rec, env := serve(t, h.history, httptest.NewRequest(http.MethodGet, "/obtener_historial", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token de sesión requerido", env.Message)

	rec, env = serve(t, h.history, httptest.NewRequest(http.MethodGet, "/obtener_historial?token=deadbeef", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Sesión inválida o expirada", env.Message)

	body := `{"token":"deadbeef","total":100,"productos":[{"id":1,"name":"Pan","price":100}]}`
	rec, env = serve(t, h.submit, httptest.NewRequest(http.MethodPost, "/guardar_pedido", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Sesión inválida o expirada", env.Message)
	assert.Zero(t, dbtest.Count(t, h.conn, &models.Order{}))
}

func TestHistoryEmpty(t *testing.T) {
	h := newHarness(t)

	rec, env := serve(t, h.history, httptest.NewRequest(http.MethodGet, "/obtener_historial?token="+h.token, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pedidos":[],"estadisticas":{"total_pedidos":0,"total_gastado":0}}`, string(env.Data))
}

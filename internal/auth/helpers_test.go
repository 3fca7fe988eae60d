package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nomedigasn781-code/proyec/internal/users"
	"github.com/nomedigasn781-code/proyec/pkg/auth/session"
	"github.com/nomedigasn781-code/proyec/pkg/config"
	"github.com/nomedigasn781-code/proyec/pkg/db/dbtest"
	"github.com/nomedigasn781-code/proyec/pkg/db/models"
	"github.com/nomedigasn781-code/proyec/pkg/security"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

type fixture struct {
	conn     *gorm.DB
	users    *users.Repository
	sessions *session.Manager
	login    Service
	register RegisterService
	notifier *recordingNotifier
}

func newFixture(t *testing.T, flags config.FeatureFlagsConfig) *fixture {
	t.Helper()
	conn := dbtest.SQLite(t)
	userRepo := users.NewRepository(conn)

	mgr, err := session.NewManager(session.NewRepository(conn), config.SessionConfig{TTL: time.Hour})
	require.NoError(t, err)

	login, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		SessionManager: mgr,
		PasswordConfig: testPasswordConfig(),
		FeatureFlags:   flags,
	})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	register, err := NewRegisterService(RegisterServiceParams{
		UserRepo:       userRepo,
		Notifier:       notifier,
		PasswordConfig: testPasswordConfig(),
		FeatureFlags:   flags,
	})
	require.NoError(t, err)

	return &fixture{
		conn:     conn,
		users:    userRepo,
		sessions: mgr,
		login:    login,
		register: register,
		notifier: notifier,
	}
}

func validRegistration(email string) RegisterRequest {
	return RegisterRequest{
		Nombre:    "Ana Gómez",
		Email:     email,
		Telefono:  "3001234567",
		Direccion: "Calle 10 # 5-20",
		Password:  "secreto123",
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	require.NoError(t, err)
	return hash
}

func seedUser(t *testing.T, conn *gorm.DB, name, email, password string) *models.User {
	t.Helper()
	repo := users.NewRepository(conn)
	u, err := repo.Create(context.Background(), users.CreateUserDTO{
		DisplayName:  name,
		Email:        email,
		Phone:        "555",
		Address:      "Calle 1",
		PasswordHash: mustHash(t, password),
		Verified:     true,
	})
	require.NoError(t, err)
	return u
}

type sentCode struct {
	email, name, code string
}

type recordingNotifier struct {
	sent []sentCode
	err  error
}

func (r *recordingNotifier) SendVerificationCode(_ context.Context, email, name, code string) error {
	r.sent = append(r.sent, sentCode{email: email, name: name, code: code})
	return r.err
}

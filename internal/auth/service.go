package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nomedigasn781-code/proyec/internal/users"
	"github.com/nomedigasn781-code/proyec/pkg/auth/session"
	"github.com/nomedigasn781-code/proyec/pkg/config"
	"github.com/nomedigasn781-code/proyec/pkg/db"
	"github.com/nomedigasn781-code/proyec/pkg/db/models"
	pkgerrors "github.com/nomedigasn781-code/proyec/pkg/errors"
	"github.com/nomedigasn781-code/proyec/pkg/logger"
	"github.com/nomedigasn781-code/proyec/pkg/security"
)

const (
	invalidCredentialsMessage = "Usuario o contraseña incorrectos"
	unverifiedEmailMessage    = "Debes verificar tu email antes de iniciar sesión"
)

// Service defines the behavior needed by the login controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest, client session.Client) (*LoginResponse, error)
	Authenticate(ctx context.Context, identifier, password string) (*models.User, error)
}

type service struct {
	users               userRepository
	sessions            sessionIssuer
	logg                *logger.Logger
	decoyHash           string
	requireVerification bool
	now                 func() time.Time
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByDisplayName(ctx context.Context, name string, limit int) ([]models.User, error)
	UpdateLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionIssuer interface {
	Issue(ctx context.Context, userID uuid.UUID, client session.Client) (session.Session, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionIssuer
	PasswordConfig config.PasswordConfig
	FeatureFlags   config.FeatureFlagsConfig
	Logger         *logger.Logger
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	decoy, err := security.DecoyHash(params.PasswordConfig)
	if err != nil {
		return nil, err
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		users:               params.UserRepo,
		sessions:            params.SessionManager,
		logg:                logg,
		decoyHash:           decoy,
		requireVerification: params.FeatureFlags.RequireEmailVerification,
		now:                 func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest, client session.Client) (*LoginResponse, error) {
	user, err := s.Authenticate(ctx, req.Usuario, req.Password)
	if err != nil {
		return nil, err
	}
	if s.requireVerification && !user.IsVerified {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, unverifiedEmailMessage)
	}

	issued, err := s.sessions.Issue(ctx, user.ID, client)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue session")
	}

	now := s.now()
	if err := s.users.UpdateLastSeen(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last seen")
	}
	user.LastSeenAt = &now

	return &LoginResponse{
		Token: issued.Token,
		User:  users.FromModel(user),
	}, nil
}

// Authenticate checks a password against the user found by email, or by
// display name when no email matches and exactly one user carries that name.
// Unknown users and wrong passwords fail with the same error after the same
// amount of hashing work.
func (s *service) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	input := strings.TrimSpace(identifier)
	if input == "" || password == "" {
		s.burnVerify(password)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.lookup(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user == nil {
		s.burnVerify(password)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) lookup(ctx context.Context, identifier string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	named, err := s.users.FindByDisplayName(ctx, identifier, 2)
	if err != nil {
		return nil, err
	}
	switch len(named) {
	case 0:
		return nil, nil
	case 1:
		return &named[0], nil
	default:
		s.logg.Warn(s.logg.WithField(ctx, "identifier_kind", "display_name"), "auth.ambiguous_identifier")
		return nil, nil
	}
}

func (s *service) burnVerify(password string) {
	_, _ = security.VerifyPassword(password, s.decoyHash)
}

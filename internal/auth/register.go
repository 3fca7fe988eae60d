package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/nomedigasn781-code/proyec/internal/users"
	"github.com/nomedigasn781-code/proyec/pkg/config"
	"github.com/nomedigasn781-code/proyec/pkg/db"
	"github.com/nomedigasn781-code/proyec/pkg/db/models"
	pkgerrors "github.com/nomedigasn781-code/proyec/pkg/errors"
	"github.com/nomedigasn781-code/proyec/pkg/logger"
	"github.com/nomedigasn781-code/proyec/pkg/security"
)

const (
	emailTakenMessage        = "Este email ya está registrado"
	invalidCodeMessage       = "Código incorrecto o email ya verificado"
	registeredMessage        = "Usuario registrado exitosamente. ¡Ahora puedes iniciar sesión!"
	registeredPendingMessage = "Usuario registrado. Revisa tu email para verificar tu cuenta"
)

// RegisterResult is the created user plus the message to show the client.
type RegisterResult struct {
	User    *models.User
	Message string
}

// RegisterService handles account creation and email verification.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)
	VerifyEmail(ctx context.Context, email, code string) (*models.User, error)
}

type registrationRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	MarkVerified(ctx context.Context, email, code string) (bool, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	UserRepo       registrationRepository
	Notifier       CodeNotifier
	PasswordConfig config.PasswordConfig
	FeatureFlags   config.FeatureFlagsConfig
	Logger         *logger.Logger
}

type registerService struct {
	users               registrationRepository
	notifier            CodeNotifier
	passwordCfg         config.PasswordConfig
	requireVerification bool
	logg                *logger.Logger
	now                 func() time.Time
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	notifier := params.Notifier
	if notifier == nil {
		notifier = NewLogNotifier(logg, false)
	}
	return &registerService{
		users:               params.UserRepo,
		notifier:            notifier,
		passwordCfg:         params.PasswordConfig,
		requireVerification: params.FeatureFlags.RequireEmailVerification,
		logg:                logg,
		now:                 func() time.Time { return time.Now().UTC() },
	}, nil
}

// Register inserts the user and relies on the unique email index to reject duplicates.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var pendingCode *string
	if s.requireVerification {
		code, err := security.GenerateVerificationCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification code")
		}
		pendingCode = &code
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		DisplayName:  req.Nombre,
		Email:        req.Email,
		Phone:        req.Telefono,
		Address:      req.Direccion,
		PasswordHash: passwordHash,
		Verified:     pendingCode == nil,
		PendingCode:  pendingCode,
		RegisteredAt: s.now(),
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, emailTakenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	if pendingCode == nil {
		return &RegisterResult{User: user, Message: registeredMessage}, nil
	}

	if err := s.notifier.SendVerificationCode(ctx, user.Email, user.DisplayName, *pendingCode); err != nil {
		// The account exists either way; the code can still be delivered out of band.
		s.logg.Error(s.logg.WithField(ctx, "user_id", user.ID.String()), "auth.verification_code_delivery_failed", err)
	}
	return &RegisterResult{User: user, Message: registeredPendingMessage}, nil
}

// VerifyEmail consumes a pending code with one conditional update, so a code
// verifies at most once.
func (s *registerService) VerifyEmail(ctx context.Context, email, code string) (*models.User, error) {
	ok, err := s.users.MarkVerified(ctx, email, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify email")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidCodeMessage)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidCodeMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load verified user")
	}
	return user, nil
}

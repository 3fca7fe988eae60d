package auth

import (
	"context"

	"github.com/nomedigasn781-code/proyec/pkg/logger"
)

// CodeNotifier delivers email verification codes.
type CodeNotifier interface {
	SendVerificationCode(ctx context.Context, email, name, code string) error
}

// LogNotifier writes codes to the application log. The code itself is only
// logged outside production.
type LogNotifier struct {
	logg        *logger.Logger
	includeCode bool
}

func NewLogNotifier(logg *logger.Logger, includeCode bool) *LogNotifier {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogNotifier{logg: logg, includeCode: includeCode}
}

func (n *LogNotifier) SendVerificationCode(ctx context.Context, email, name, code string) error {
	fields := map[string]any{"email": email, "name": name}
	if n.includeCode {
		fields["code"] = code
	}
	n.logg.Info(n.logg.WithFields(ctx, fields), "auth.verification_code_issued")
	return nil
}

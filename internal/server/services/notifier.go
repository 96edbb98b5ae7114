package services

import (
	"context"

	"github.com/sangvinij/user-management-micro-service/internal/logging"
)

// Notifier delivers password-reset notifications to the user. The real
// mail/queue transport is an external collaborator; LogNotifier is the
// in-process default.
type Notifier interface {
	SendPasswordResetURL(ctx context.Context, email, resetURL string) error
}

// LogNotifier writes the reset URL to the structured log instead of
// sending it anywhere.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notifier")}
}

func (n *LogNotifier) SendPasswordResetURL(ctx context.Context, email, resetURL string) error {
	n.logger.Info(ctx, "password reset requested", "email", email, "reset_url", resetURL)
	return nil
}

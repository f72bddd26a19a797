package followerwatch

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Notifier announces a batch of newly observed followers. The batch is
// always non-empty and sorted; the Monitor never dispatches an empty one.
type Notifier interface {
	Notify(ctx context.Context, handles []string) error
}

// NewNotifier builds the notifier selected by cfg.Method. The returned
// notifier is fixed for the process lifetime.
func NewNotifier(cfg Config, log *zap.SugaredLogger) (Notifier, error) {
	switch cfg.Method {
	case MethodEmail:
		return NewEmailNotifier(cfg.Email, WithEmailLogger(log)), nil
	case MethodWebhook:
		return NewWebhookNotifier(cfg.WebhookURL, cfg.Username,
			WithWebhookLogger(log)), nil
	default:
		return nil, errors.Errorf("unknown notification method: %q", cfg.Method)
	}
}

package notify

import "context"

// Notifier delivers one outbound text message to a recipient phone.
type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

// AdminNotifier forwards messages to the configured admin phone. When no
// admin phone is configured every call is a silent no-op, matching how the
// bot behaves in single-operator setups without an alert channel.
type AdminNotifier struct {
	notifier   Notifier
	adminPhone string
}

// NewAdminNotifier wraps a Notifier with a fixed admin recipient.
func NewAdminNotifier(notifier Notifier, adminPhone string) *AdminNotifier {
	return &AdminNotifier{notifier: notifier, adminPhone: adminPhone}
}

// Notify sends the body to the admin phone, if one is configured.
func (a *AdminNotifier) Notify(ctx context.Context, body string) error {
	if a == nil || a.adminPhone == "" {
		return nil
	}
	return a.notifier.Send(ctx, a.adminPhone, body)
}

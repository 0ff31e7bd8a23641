package notify

import (
	"context"
	"fmt"
	"math"
	"time"

	"booth-service/internal/config"
	"booth-service/internal/delivery"
	"booth-service/internal/selection"
	"booth-service/pkg/mailer"
	"booth-service/pkg/mailer/providers"
	"booth-service/pkg/mailer/strategies"
	"booth-service/pkg/mailer/templates"
)

const (
	errBuildTemplateFmt = "failed to build %s template: %w"
	errSendEmailFmt     = "failed to send email via %s: %w"
)

var (
	_ delivery.Notifier  = (*EmailNotifier)(nil)
	_ selection.Notifier = (*EmailNotifier)(nil)
)

// EmailNotifier sends guest-facing delivery and selection emails.
type EmailNotifier struct {
	service   *mailer.EmailService
	company   string
	delivery  *templates.TypedTemplate[templates.DeliveryLinkContext]
	selection *templates.TypedTemplate[templates.SelectionInviteContext]
	now       func() time.Time
}

func NewEmailNotifier(service *mailer.EmailService, company string) (*EmailNotifier, error) {
	deliveryTmpl, err := mailer.DeliveryLinkTemplate()
	if err != nil {
		return nil, fmt.Errorf(errBuildTemplateFmt, "delivery", err)
	}
	selectionTmpl, err := mailer.SelectionInviteTemplate()
	if err != nil {
		return nil, fmt.Errorf(errBuildTemplateFmt, "selection", err)
	}

	return &EmailNotifier{
		service:   service,
		company:   company,
		delivery:  deliveryTmpl,
		selection: selectionTmpl,
		now:       time.Now,
	}, nil
}

// FromConfig builds an EmailNotifier from the configured providers. It
// returns nil when no provider key is set.
func FromConfig(cfg config.MailConfig) (*EmailNotifier, error) {
	var list []providers.EmailProvider
	if cfg.ResendAPIKey != "" {
		list = append(list, mailer.NewResendProvider(providers.ResendConfig{APIKey: cfg.ResendAPIKey}))
	}
	if cfg.SendGridAPIKey != "" {
		list = append(list, mailer.NewSendGridProvider(providers.SendGridConfig{APIKey: cfg.SendGridAPIKey}))
	}
	if len(list) == 0 {
		return nil, nil
	}

	strategy, err := strategies.New(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	service, err := mailer.NewEmailService(mailer.EmailServiceConfig{
		Providers:   list,
		Strategy:    strategy,
		DefaultFrom: cfg.From,
	})
	if err != nil {
		return nil, err
	}
	return NewEmailNotifier(service, cfg.Company)
}

func (n *EmailNotifier) SendDeliveryLink(ctx context.Context, msg delivery.Message) error {
	tmplCtx := templates.DeliveryLinkContext{
		Company:     n.company,
		EventName:   msg.EventName,
		DownloadURL: msg.Link,
		PhotoCount:  msg.PhotoCount,
		ExpiryHours: n.hoursUntil(msg.ExpiresAt),
	}
	res, err := mailer.SendWithTypedTemplate(ctx, n.service, n.delivery, tmplCtx, n.envelope(msg.To))
	return sendError(res, err)
}

func (n *EmailNotifier) SendSelectionInvite(ctx context.Context, inv selection.Invite) error {
	tmplCtx := templates.SelectionInviteContext{
		Company:      n.company,
		EventName:    inv.EventName,
		SelectionURL: inv.Link,
		Limit:        inv.Limit,
		ExpiryHours:  n.hoursUntil(inv.ExpiresAt),
	}
	res, err := mailer.SendWithTypedTemplate(ctx, n.service, n.selection, tmplCtx, n.envelope(inv.To))
	return sendError(res, err)
}

func (n *EmailNotifier) envelope(to string) *providers.EmailData {
	return &providers.EmailData{To: []string{mailer.NormalizeEmail(to)}}
}

// hoursUntil rounds up so a link never reads as expiring sooner than it does.
func (n *EmailNotifier) hoursUntil(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	return int(math.Ceil(t.Sub(n.now()).Hours()))
}

func sendError(res *providers.EmailResult, err error) error {
	if err == nil {
		return nil
	}
	name := "unknown"
	if res != nil && res.Provider != "" {
		name = res.Provider
	}
	return fmt.Errorf(errSendEmailFmt, name, err)
}

// Verify reports, per provider name, whether its credentials were accepted.
func (n *EmailNotifier) Verify(ctx context.Context) map[string]bool {
	return n.service.VerifyProviders(ctx)
}

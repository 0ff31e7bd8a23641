package mailer

import (
	"context"
	"sync"

	"booth-service/pkg/mailer/providers"
	"booth-service/pkg/mailer/registry"
	"booth-service/pkg/mailer/strategies"
	"booth-service/pkg/mailer/templates"
)

type EmailService struct {
	providers   []providers.EmailProvider
	strategy    strategies.EmailStrategy
	defaultFrom string
	mu          sync.RWMutex
}

type EmailServiceConfig struct {
	Providers   []providers.EmailProvider
	Strategy    strategies.EmailStrategy
	DefaultFrom string
}

func NewEmailService(config EmailServiceConfig) (*EmailService, error) {
	if len(config.Providers) == 0 {
		return nil, registry.ErrAtLeastOneProviderRequired
	}
	providerList := make([]providers.EmailProvider, len(config.Providers))
	copy(providerList, config.Providers)

	for _, provider := range providerList {
		if provider == nil {
			return nil, registry.ErrProviderCannotBeNil
		}
	}

	strategy := config.Strategy
	if strategy == nil {
		strategy = &strategies.SingleProviderStrategy{}
	}

	if config.DefaultFrom != "" {
		if err := ValidateEmail(config.DefaultFrom); err != nil {
			return nil, registry.ErrInvalidDefaultFromEmail
		}
	}

	return &EmailService{
		providers:   providerList,
		strategy:    strategy,
		defaultFrom: config.DefaultFrom,
	}, nil
}

func (s *EmailService) Send(ctx context.Context, emailData *providers.EmailData) (*providers.EmailResult, error) {
	if emailData == nil {
		return &providers.EmailResult{
			Success:  false,
			Error:    registry.ErrEmailDataRequired.Error(),
			Provider: registry.ProviderLabelValidation,
		}, registry.ErrEmailDataRequired
	}

	s.mu.RLock()
	defaultFrom := s.defaultFrom
	strategy := s.strategy
	providerList := make([]providers.EmailProvider, len(s.providers))
	copy(providerList, s.providers)
	s.mu.RUnlock()

	data := cloneEmailData(emailData)
	if data.From == "" && defaultFrom != "" {
		data.From = defaultFrom
	}

	if err := ValidateEmailData(data); err != nil {
		return &providers.EmailResult{
			Success:  false,
			Error:    err.Error(),
			Provider: registry.ProviderLabelValidation,
		}, err
	}

	return strategy.Send(ctx, data, providerList)
}

// SendWithTypedTemplate renders template with tmplCtx and sends it. The
// rendered subject is used unless emailData already carries one.
func SendWithTypedTemplate[T any](ctx context.Context, service *EmailService, template *templates.TypedTemplate[T], tmplCtx T, emailData *providers.EmailData) (*providers.EmailResult, error) {
	if service == nil {
		return templateFailure(registry.ErrEmailServiceRequired)
	}
	if template == nil {
		return templateFailure(registry.ErrEmailTemplateRequired)
	}
	if emailData == nil {
		emailData = &providers.EmailData{}
	}

	rendered, err := template.Render(tmplCtx)
	if err != nil {
		return templateFailure(err)
	}

	data := cloneEmailData(emailData)
	data.HTML = rendered.HTML
	data.Text = rendered.Text
	if data.Subject == "" {
		data.Subject = rendered.Subject
	}
	return service.Send(ctx, data)
}

func templateFailure(err error) (*providers.EmailResult, error) {
	return &providers.EmailResult{
		Success:  false,
		Error:    err.Error(),
		Provider: registry.ProviderLabelTemplate,
	}, err
}

func (s *EmailService) GetProviders() []providers.EmailProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()

	providerList := make([]providers.EmailProvider, len(s.providers))
	copy(providerList, s.providers)
	return providerList
}

// VerifyProviders checks the credentials of every provider. A provider that
// errors is reported as unverified.
func (s *EmailService) VerifyProviders(ctx context.Context) map[string]bool {
	results := make(map[string]bool)
	for _, provider := range s.GetProviders() {
		verified, _ := provider.Verify(ctx)
		results[provider.GetName()] = verified
	}
	return results
}

func cloneEmailData(emailData *providers.EmailData) *providers.EmailData {
	clone := *emailData

	if emailData.To != nil {
		clone.To = append([]string(nil), emailData.To...)
	}
	if emailData.CC != nil {
		clone.CC = append([]string(nil), emailData.CC...)
	}
	if emailData.BCC != nil {
		clone.BCC = append([]string(nil), emailData.BCC...)
	}

	return &clone
}
